package profile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/portfolio/internal/domain/field"
)

// Profile is the singleton "about me" row of a user.
type Profile struct {
	OwnerID     uuid.UUID `json:"owner_id"`
	FullName    string    `json:"full_name"`
	Title       string    `json:"title"`
	Bio         string    `json:"bio"`
	AvatarURL   *string   `json:"avatar_url"`
	Email       *string   `json:"email"`
	GithubURL   *string   `json:"github_url"`
	LinkedinURL *string   `json:"linkedin_url"`
	Location    *string   `json:"location"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var ErrEmptyOwner = errors.New("profile owner is required")

// Empty is what a read returns for a user with no profile row yet.
func Empty(ownerID uuid.UUID) *Profile {
	return &Profile{OwnerID: ownerID}
}

func (p *Profile) Validate() error {
	if p.OwnerID == uuid.Nil {
		return ErrEmptyOwner
	}
	if err := field.Required("full_name", p.FullName); err != nil {
		return err
	}
	if err := field.URL("avatar_url", p.AvatarURL); err != nil {
		return err
	}
	if err := field.URL("github_url", p.GithubURL); err != nil {
		return err
	}
	return field.URL("linkedin_url", p.LinkedinURL)
}

// Patch carries only the fields a caller wants to change. An empty string
// in an optional field clears it.
type Patch struct {
	FullName    *string
	Title       *string
	Bio         *string
	AvatarURL   *string
	Email       *string
	GithubURL   *string
	LinkedinURL *string
	Location    *string
}

func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

// Apply merges the patch into a copy of p.
func (p *Profile) Apply(patch Patch) *Profile {
	out := *p
	if patch.FullName != nil {
		out.FullName = *patch.FullName
	}
	if patch.Title != nil {
		out.Title = *patch.Title
	}
	if patch.Bio != nil {
		out.Bio = *patch.Bio
	}
	if patch.AvatarURL != nil {
		out.AvatarURL = field.OptionalString(patch.AvatarURL)
	}
	if patch.Email != nil {
		out.Email = field.OptionalString(patch.Email)
	}
	if patch.GithubURL != nil {
		out.GithubURL = field.OptionalString(patch.GithubURL)
	}
	if patch.LinkedinURL != nil {
		out.LinkedinURL = field.OptionalString(patch.LinkedinURL)
	}
	if patch.Location != nil {
		out.Location = field.OptionalString(patch.Location)
	}
	return &out
}

// Draft is the editable form state of a profile.
type Draft struct {
	FullName    string
	Title       string
	Bio         string
	AvatarURL   string
	Email       string
	GithubURL   string
	LinkedinURL string
	Location    string
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func DraftFrom(p *Profile) Draft {
	return Draft{
		FullName:    p.FullName,
		Title:       p.Title,
		Bio:         p.Bio,
		AvatarURL:   deref(p.AvatarURL),
		Email:       deref(p.Email),
		GithubURL:   deref(p.GithubURL),
		LinkedinURL: deref(p.LinkedinURL),
		Location:    deref(p.Location),
	}
}

// Patch sets every field of the draft.
func (d Draft) Patch() Patch {
	return Patch{
		FullName:    &d.FullName,
		Title:       &d.Title,
		Bio:         &d.Bio,
		AvatarURL:   &d.AvatarURL,
		Email:       &d.Email,
		GithubURL:   &d.GithubURL,
		LinkedinURL: &d.LinkedinURL,
		Location:    &d.Location,
	}
}

type Repository interface {
	GetByUserID(ctx context.Context, ownerID uuid.UUID) (*Profile, error)
	Upsert(ctx context.Context, profile *Profile) error
}
