package certificate

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/portfolio/internal/domain/field"
	"github.com/khoahotran/portfolio/internal/domain/listing"
)

type Certificate struct {
	ID            uuid.UUID `json:"id"`
	OwnerID       uuid.UUID `json:"owner_id"`
	Title         string    `json:"title"`
	Provider      string    `json:"provider"`
	IssueDate     time.Time `json:"issue_date"`
	CredentialURL *string   `json:"credential_url"`
	ImageURL      *string   `json:"image_url"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

var (
	DefaultOrder = listing.Order{Column: "issue_date"}
	OrderColumns = []string{"issue_date", "title", "created_at"}
)

type CreateInput struct {
	Title         string
	Provider      string
	IssueDate     time.Time
	CredentialURL *string
	ImageURL      *string
}

func New(ownerID uuid.UUID, in CreateInput) *Certificate {
	return &Certificate{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		Title:         in.Title,
		Provider:      in.Provider,
		IssueDate:     in.IssueDate,
		CredentialURL: field.OptionalString(in.CredentialURL),
		ImageURL:      field.OptionalString(in.ImageURL),
	}
}

func (c *Certificate) Validate() error {
	if err := field.Required("title", c.Title); err != nil {
		return err
	}
	if err := field.Required("provider", c.Provider); err != nil {
		return err
	}
	if c.IssueDate.IsZero() {
		return field.Required("issue_date", "")
	}
	if err := field.URL("credential_url", c.CredentialURL); err != nil {
		return err
	}
	return field.URL("image_url", c.ImageURL)
}

type Patch struct {
	Title         *string
	Provider      *string
	IssueDate     *time.Time
	CredentialURL *string
	ImageURL      *string
}

func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

func (p Patch) Validate() error {
	if p.Title != nil {
		if err := field.Required("title", *p.Title); err != nil {
			return err
		}
	}
	if p.Provider != nil {
		if err := field.Required("provider", *p.Provider); err != nil {
			return err
		}
	}
	if p.IssueDate != nil && p.IssueDate.IsZero() {
		return field.Required("issue_date", "")
	}
	if p.CredentialURL != nil && *p.CredentialURL != "" {
		if err := field.URL("credential_url", p.CredentialURL); err != nil {
			return err
		}
	}
	if p.ImageURL != nil && *p.ImageURL != "" {
		return field.URL("image_url", p.ImageURL)
	}
	return nil
}

type Draft struct {
	Title         string
	Provider      string
	IssueDate     time.Time
	CredentialURL string
	ImageURL      string
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func DraftFrom(c *Certificate) Draft {
	return Draft{
		Title:         c.Title,
		Provider:      c.Provider,
		IssueDate:     c.IssueDate,
		CredentialURL: deref(c.CredentialURL),
		ImageURL:      deref(c.ImageURL),
	}
}

func (d Draft) CreateInput() CreateInput {
	return CreateInput{
		Title:         d.Title,
		Provider:      d.Provider,
		IssueDate:     d.IssueDate,
		CredentialURL: &d.CredentialURL,
		ImageURL:      &d.ImageURL,
	}
}

func (d Draft) Patch() Patch {
	return Patch{
		Title:         &d.Title,
		Provider:      &d.Provider,
		IssueDate:     &d.IssueDate,
		CredentialURL: &d.CredentialURL,
		ImageURL:      &d.ImageURL,
	}
}

type Repository interface {
	Save(ctx context.Context, c *Certificate) error
	Update(ctx context.Context, id, ownerID uuid.UUID, patch Patch) (*Certificate, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
	FindByID(ctx context.Context, id, ownerID uuid.UUID) (*Certificate, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, order listing.Order, limit int) ([]*Certificate, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error)
}
