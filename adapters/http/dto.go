package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/khoahotran/portfolio/internal/domain/certificate"
	"github.com/khoahotran/portfolio/internal/domain/experience"
	"github.com/khoahotran/portfolio/internal/domain/profile"
	"github.com/khoahotran/portfolio/internal/domain/project"
	"github.com/khoahotran/portfolio/internal/domain/skill"
)

const dateLayout = "2006-01-02"

// Date is a calendar day encoded as YYYY-MM-DD. RFC 3339 timestamps are
// accepted on input and truncated to the day.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		*d = NewDate(t)
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("date %q must be YYYY-MM-DD", s)
	}
	*d = NewDate(t)
	return nil
}

func datePtr(t *time.Time) *Date {
	if t == nil {
		return nil
	}
	d := NewDate(*t)
	return &d
}

// Optional distinguishes an absent JSON field from an explicit null.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Null = true
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

// Ptr returns nil for an absent field and a pointer to the value otherwise.
func (o Optional[T]) Ptr() *T {
	if !o.Set || o.Null {
		return nil
	}
	v := o.Value
	return &v
}

// clearable maps an absent field to nil and null to "" (clear).
func clearable(o Optional[string]) *string {
	if !o.Set {
		return nil
	}
	if o.Null {
		empty := ""
		return &empty
	}
	v := o.Value
	return &v
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Profile DTOs

type UpdateProfileRequest struct {
	FullName    Optional[string] `json:"full_name"`
	Title       Optional[string] `json:"title"`
	Bio         Optional[string] `json:"bio"`
	AvatarURL   Optional[string] `json:"avatar_url"`
	Email       Optional[string] `json:"email"`
	GithubURL   Optional[string] `json:"github_url"`
	LinkedinURL Optional[string] `json:"linkedin_url"`
	Location    Optional[string] `json:"location"`
}

func (r UpdateProfileRequest) ToPatch() profile.Patch {
	return profile.Patch{
		FullName:    r.FullName.Ptr(),
		Title:       r.Title.Ptr(),
		Bio:         r.Bio.Ptr(),
		AvatarURL:   clearable(r.AvatarURL),
		Email:       clearable(r.Email),
		GithubURL:   clearable(r.GithubURL),
		LinkedinURL: clearable(r.LinkedinURL),
		Location:    clearable(r.Location),
	}
}

// Project DTOs

type ProjectRequest struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	ImageURL     *string  `json:"image_url"`
	DemoURL      *string  `json:"demo_url"`
	GithubURL    *string  `json:"github_url"`
	Featured     bool     `json:"featured"`
}

func (r ProjectRequest) ToDraft() project.Draft {
	d := project.Draft{
		Title:       r.Title,
		Description: r.Description,
		ImageURL:    stringOrEmpty(r.ImageURL),
		DemoURL:     stringOrEmpty(r.DemoURL),
		GithubURL:   stringOrEmpty(r.GithubURL),
		Featured:    r.Featured,
	}
	for _, t := range r.Technologies {
		d.AddTechnology(t)
	}
	return d
}

type PatchProjectRequest struct {
	Title        Optional[string]   `json:"title"`
	Description  Optional[string]   `json:"description"`
	Technologies Optional[[]string] `json:"technologies"`
	ImageURL     Optional[string]   `json:"image_url"`
	DemoURL      Optional[string]   `json:"demo_url"`
	GithubURL    Optional[string]   `json:"github_url"`
	Featured     Optional[bool]     `json:"featured"`
}

func (r PatchProjectRequest) ToPatch() project.Patch {
	p := project.Patch{
		Title:        r.Title.Ptr(),
		Description:  r.Description.Ptr(),
		Technologies: r.Technologies.Ptr(),
		ImageURL:     clearable(r.ImageURL),
		DemoURL:      clearable(r.DemoURL),
		GithubURL:    clearable(r.GithubURL),
		Featured:     r.Featured.Ptr(),
	}
	if r.Technologies.Set && r.Technologies.Null {
		empty := []string{}
		p.Technologies = &empty
	}
	return p
}

// Skill DTOs

type SkillRequest struct {
	Name        string `json:"name" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Proficiency int    `json:"proficiency"`
}

func (r SkillRequest) ToDraft() skill.Draft {
	return skill.Draft{Name: r.Name, Category: r.Category, Proficiency: r.Proficiency}
}

type PatchSkillRequest struct {
	Name        Optional[string] `json:"name"`
	Category    Optional[string] `json:"category"`
	Proficiency Optional[int]    `json:"proficiency"`
}

func (r PatchSkillRequest) ToPatch() (skill.Patch, error) {
	p := skill.Patch{Name: r.Name.Ptr(), Proficiency: r.Proficiency.Ptr()}
	if r.Category.Set {
		cat, err := skill.ParseCategory(r.Category.Value)
		if err != nil {
			return skill.Patch{}, err
		}
		p.Category = &cat
	}
	return p, nil
}

// Experience DTOs

type ExperienceDTO struct {
	ID           string   `json:"id"`
	Company      string   `json:"company"`
	Position     string   `json:"position"`
	Location     *string  `json:"location"`
	StartDate    Date     `json:"start_date"`
	EndDate      *Date    `json:"end_date"`
	Current      bool     `json:"current"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
}

func ToExperienceDTO(e *experience.Experience) ExperienceDTO {
	return ExperienceDTO{
		ID:           e.ID.String(),
		Company:      e.Company,
		Position:     e.Position,
		Location:     e.Location,
		StartDate:    NewDate(e.StartDate),
		EndDate:      datePtr(e.EndDate),
		Current:      e.Current,
		Description:  e.Description,
		Technologies: e.Technologies,
	}
}

func ToExperienceDTOs(items []*experience.Experience) []ExperienceDTO {
	out := make([]ExperienceDTO, len(items))
	for i, e := range items {
		out[i] = ToExperienceDTO(e)
	}
	return out
}

type ExperienceRequest struct {
	Company      string   `json:"company" binding:"required"`
	Position     string   `json:"position" binding:"required"`
	Location     *string  `json:"location"`
	StartDate    Date     `json:"start_date"`
	EndDate      *Date    `json:"end_date"`
	Current      bool     `json:"current"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
}

func (r ExperienceRequest) ToDraft() experience.Draft {
	d := experience.Draft{
		Company:     r.Company,
		Position:    r.Position,
		Location:    stringOrEmpty(r.Location),
		StartDate:   r.StartDate.Time,
		Description: r.Description,
	}
	if r.EndDate != nil && !r.EndDate.IsZero() {
		end := r.EndDate.Time
		d.EndDate = &end
	}
	d.SetCurrent(r.Current)
	for _, t := range r.Technologies {
		d.AddTechnology(t)
	}
	return d
}

type PatchExperienceRequest struct {
	Company      Optional[string]   `json:"company"`
	Position     Optional[string]   `json:"position"`
	Location     Optional[string]   `json:"location"`
	StartDate    Optional[Date]     `json:"start_date"`
	EndDate      Optional[Date]     `json:"end_date"`
	Current      Optional[bool]     `json:"current"`
	Description  Optional[string]   `json:"description"`
	Technologies Optional[[]string] `json:"technologies"`
}

func (r PatchExperienceRequest) ToPatch() experience.Patch {
	p := experience.Patch{
		Company:      r.Company.Ptr(),
		Position:     r.Position.Ptr(),
		Location:     clearable(r.Location),
		Current:      r.Current.Ptr(),
		Description:  r.Description.Ptr(),
		Technologies: r.Technologies.Ptr(),
	}
	if d := r.StartDate.Ptr(); d != nil {
		p.StartDate = &d.Time
	}
	if r.EndDate.Set {
		if r.EndDate.Null {
			p.ClearEndDate = true
		} else {
			end := r.EndDate.Value.Time
			p.EndDate = &end
		}
	}
	return p.Normalize()
}

// Certificate DTOs

type CertificateDTO struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Provider      string  `json:"provider"`
	IssueDate     Date    `json:"issue_date"`
	CredentialURL *string `json:"credential_url"`
	ImageURL      *string `json:"image_url"`
}

func ToCertificateDTO(c *certificate.Certificate) CertificateDTO {
	return CertificateDTO{
		ID:            c.ID.String(),
		Title:         c.Title,
		Provider:      c.Provider,
		IssueDate:     NewDate(c.IssueDate),
		CredentialURL: c.CredentialURL,
		ImageURL:      c.ImageURL,
	}
}

func ToCertificateDTOs(items []*certificate.Certificate) []CertificateDTO {
	out := make([]CertificateDTO, len(items))
	for i, c := range items {
		out[i] = ToCertificateDTO(c)
	}
	return out
}

type CertificateRequest struct {
	Title         string  `json:"title" binding:"required"`
	Provider      string  `json:"provider" binding:"required"`
	IssueDate     Date    `json:"issue_date"`
	CredentialURL *string `json:"credential_url"`
	ImageURL      *string `json:"image_url"`
}

func (r CertificateRequest) ToDraft() certificate.Draft {
	return certificate.Draft{
		Title:         r.Title,
		Provider:      r.Provider,
		IssueDate:     r.IssueDate.Time,
		CredentialURL: stringOrEmpty(r.CredentialURL),
		ImageURL:      stringOrEmpty(r.ImageURL),
	}
}

type PatchCertificateRequest struct {
	Title         Optional[string] `json:"title"`
	Provider      Optional[string] `json:"provider"`
	IssueDate     Optional[Date]   `json:"issue_date"`
	CredentialURL Optional[string] `json:"credential_url"`
	ImageURL      Optional[string] `json:"image_url"`
}

func (r PatchCertificateRequest) ToPatch() certificate.Patch {
	p := certificate.Patch{
		Title:         r.Title.Ptr(),
		Provider:      r.Provider.Ptr(),
		CredentialURL: clearable(r.CredentialURL),
		ImageURL:      clearable(r.ImageURL),
	}
	if d := r.IssueDate.Ptr(); d != nil {
		p.IssueDate = &d.Time
	}
	return p
}
