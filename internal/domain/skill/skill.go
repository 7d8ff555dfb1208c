package skill

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/portfolio/internal/domain/field"
	"github.com/khoahotran/portfolio/internal/domain/listing"
)

type Category string

const (
	CategoryFrontend Category = "Frontend"
	CategoryBackend  Category = "Backend"
	CategoryDevOps   Category = "DevOps"
	CategoryCloud    Category = "Cloud"
	CategoryMobile   Category = "Mobile"
	CategoryOther    Category = "Other"
)

var Categories = []Category{
	CategoryFrontend, CategoryBackend, CategoryDevOps, CategoryCloud, CategoryMobile, CategoryOther,
}

const (
	MinProficiency = 1
	MaxProficiency = 5
)

var (
	ErrInvalidCategory    = errors.New("invalid skill category")
	ErrInvalidProficiency = fmt.Errorf("proficiency must be between %d and %d", MinProficiency, MaxProficiency)
)

// ParseCategory matches case-insensitively and returns the canonical spelling.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

func ValidProficiency(p int) error {
	if p < MinProficiency || p > MaxProficiency {
		return fmt.Errorf("%w, got %d", ErrInvalidProficiency, p)
	}
	return nil
}

type Skill struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	Category    Category  `json:"category"`
	Proficiency int       `json:"proficiency"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var (
	DefaultOrder = listing.Order{Column: "category", Ascending: true}
	OrderColumns = []string{"category", "name", "proficiency", "created_at"}
)

type CreateInput struct {
	Name        string
	Category    string
	Proficiency int
}

func New(ownerID uuid.UUID, in CreateInput) (*Skill, error) {
	cat, err := ParseCategory(in.Category)
	if err != nil {
		return nil, err
	}
	s := &Skill{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(in.Name),
		Category:    cat,
		Proficiency: in.Proficiency,
	}
	return s, s.Validate()
}

func (s *Skill) Validate() error {
	if err := field.Required("name", s.Name); err != nil {
		return err
	}
	if _, err := ParseCategory(string(s.Category)); err != nil {
		return err
	}
	return ValidProficiency(s.Proficiency)
}

type Patch struct {
	Name        *string
	Category    *Category
	Proficiency *int
}

func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

func (p Patch) Validate() error {
	if p.Name != nil {
		if err := field.Required("name", *p.Name); err != nil {
			return err
		}
	}
	if p.Category != nil {
		if _, err := ParseCategory(string(*p.Category)); err != nil {
			return err
		}
	}
	if p.Proficiency != nil {
		return ValidProficiency(*p.Proficiency)
	}
	return nil
}

type Draft struct {
	Name        string
	Category    string
	Proficiency int
}

func DraftFrom(s *Skill) Draft {
	return Draft{Name: s.Name, Category: string(s.Category), Proficiency: s.Proficiency}
}

func (d Draft) CreateInput() CreateInput {
	return CreateInput(d)
}

// Patch fails when the draft's category is not one of the known categories.
func (d Draft) Patch() (Patch, error) {
	cat, err := ParseCategory(d.Category)
	if err != nil {
		return Patch{}, err
	}
	name := strings.TrimSpace(d.Name)
	prof := d.Proficiency
	return Patch{Name: &name, Category: &cat, Proficiency: &prof}, nil
}

type Repository interface {
	Save(ctx context.Context, s *Skill) error
	Update(ctx context.Context, id, ownerID uuid.UUID, patch Patch) (*Skill, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
	FindByID(ctx context.Context, id, ownerID uuid.UUID) (*Skill, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, order listing.Order, limit int) ([]*Skill, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error)
}
