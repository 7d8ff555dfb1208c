package project

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/portfolio/internal/domain/field"
	"github.com/khoahotran/portfolio/internal/domain/listing"
)

type Project struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      uuid.UUID `json:"owner_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Technologies []string  `json:"technologies"`
	ImageURL     *string   `json:"image_url"`
	DemoURL      *string   `json:"demo_url"`
	GithubURL    *string   `json:"github_url"`
	Featured     bool      `json:"featured"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

var (
	DefaultOrder = listing.Order{Column: "created_at"}
	OrderColumns = []string{"created_at", "updated_at", "title"}
)

// CreateInput is everything a caller may set on a new project. Identity and
// ownership are assigned by the server.
type CreateInput struct {
	Title        string
	Description  string
	Technologies []string
	ImageURL     *string
	DemoURL      *string
	GithubURL    *string
	Featured     bool
}

// New builds a normalised project owned by ownerID.
func New(ownerID uuid.UUID, in CreateInput) *Project {
	return &Project{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Title:        in.Title,
		Description:  in.Description,
		Technologies: field.NormalizeTags(in.Technologies),
		ImageURL:     field.OptionalString(in.ImageURL),
		DemoURL:      field.OptionalString(in.DemoURL),
		GithubURL:    field.OptionalString(in.GithubURL),
		Featured:     in.Featured,
	}
}

func (p *Project) Validate() error {
	if err := field.Required("title", p.Title); err != nil {
		return err
	}
	if err := field.URL("image_url", p.ImageURL); err != nil {
		return err
	}
	if err := field.URL("demo_url", p.DemoURL); err != nil {
		return err
	}
	return field.URL("github_url", p.GithubURL)
}

// Patch lists the columns to change. Nil means untouched; an empty string in
// an optional URL clears it.
type Patch struct {
	Title        *string
	Description  *string
	Technologies *[]string
	ImageURL     *string
	DemoURL      *string
	GithubURL    *string
	Featured     *bool
}

func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

// Normalize trims and de-duplicates the technologies.
func (p Patch) Normalize() Patch {
	if p.Technologies != nil {
		tags := field.NormalizeTags(*p.Technologies)
		p.Technologies = &tags
	}
	return p
}

func (p Patch) Validate() error {
	if p.Title != nil {
		if err := field.Required("title", *p.Title); err != nil {
			return err
		}
	}
	for name, v := range map[string]*string{"image_url": p.ImageURL, "demo_url": p.DemoURL, "github_url": p.GithubURL} {
		if v != nil && *v != "" {
			if err := field.URL(name, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// Draft is the form state of a project, detached from any persisted row.
type Draft struct {
	Title        string
	Description  string
	Technologies []string
	ImageURL     string
	DemoURL      string
	GithubURL    string
	Featured     bool
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func DraftFrom(p *Project) Draft {
	return Draft{
		Title:        p.Title,
		Description:  p.Description,
		Technologies: append([]string(nil), p.Technologies...),
		ImageURL:     deref(p.ImageURL),
		DemoURL:      deref(p.DemoURL),
		GithubURL:    deref(p.GithubURL),
		Featured:     p.Featured,
	}
}

func (d *Draft) AddTechnology(t string) {
	d.Technologies = field.AddTag(d.Technologies, t)
}

func (d *Draft) RemoveTechnology(t string) {
	d.Technologies = field.RemoveTag(d.Technologies, t)
}

func (d Draft) CreateInput() CreateInput {
	return CreateInput{
		Title:        d.Title,
		Description:  d.Description,
		Technologies: field.NormalizeTags(d.Technologies),
		ImageURL:     &d.ImageURL,
		DemoURL:      &d.DemoURL,
		GithubURL:    &d.GithubURL,
		Featured:     d.Featured,
	}
}

// Patch turns the whole draft into an update of every column.
func (d Draft) Patch() Patch {
	tags := field.NormalizeTags(d.Technologies)
	return Patch{
		Title:        &d.Title,
		Description:  &d.Description,
		Technologies: &tags,
		ImageURL:     &d.ImageURL,
		DemoURL:      &d.DemoURL,
		GithubURL:    &d.GithubURL,
		Featured:     &d.Featured,
	}
}

type Repository interface {
	Save(ctx context.Context, project *Project) error
	Update(ctx context.Context, id, ownerID uuid.UUID, patch Patch) (*Project, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
	FindByID(ctx context.Context, id, ownerID uuid.UUID) (*Project, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, order listing.Order, limit int) ([]*Project, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error)
}
