package experience

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/portfolio/internal/domain/field"
	"github.com/khoahotran/portfolio/internal/domain/listing"
)

type Experience struct {
	ID           uuid.UUID  `json:"id"`
	OwnerID      uuid.UUID  `json:"owner_id"`
	Company      string     `json:"company"`
	Position     string     `json:"position"`
	Location     *string    `json:"location"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	Current      bool       `json:"current"`
	Description  string     `json:"description"`
	Technologies []string   `json:"technologies"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

var (
	ErrMissingStartDate = errors.New("start_date is required")
	ErrEndBeforeStart   = errors.New("end_date must not precede start_date")
)

var (
	DefaultOrder = listing.Order{Column: "start_date"}
	OrderColumns = []string{"start_date", "company", "created_at"}
)

type CreateInput struct {
	Company      string
	Position     string
	Location     *string
	StartDate    time.Time
	EndDate      *time.Time
	Current      bool
	Description  string
	Technologies []string
}

func New(ownerID uuid.UUID, in CreateInput) *Experience {
	e := &Experience{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Company:      in.Company,
		Position:     in.Position,
		Location:     field.OptionalString(in.Location),
		StartDate:    in.StartDate,
		EndDate:      cloneTime(in.EndDate),
		Current:      in.Current,
		Description:  in.Description,
		Technologies: field.NormalizeTags(in.Technologies),
	}
	e.Normalize()
	return e
}

// Normalize drops the end date of a current position.
func (e *Experience) Normalize() {
	if e.Current {
		e.EndDate = nil
	}
	if e.Technologies == nil {
		e.Technologies = []string{}
	}
}

func (e *Experience) Validate() error {
	if err := field.Required("company", e.Company); err != nil {
		return err
	}
	if err := field.Required("position", e.Position); err != nil {
		return err
	}
	if e.StartDate.IsZero() {
		return ErrMissingStartDate
	}
	if e.EndDate != nil && e.EndDate.Before(e.StartDate) {
		return ErrEndBeforeStart
	}
	return nil
}

// Patch describes a partial update. ClearEndDate nulls the column; EndDate
// sets it unless the row ends up current.
type Patch struct {
	Company      *string
	Position     *string
	Location     *string
	StartDate    *time.Time
	EndDate      *time.Time
	ClearEndDate bool
	Current      *bool
	Description  *string
	Technologies *[]string
}

func (p Patch) IsEmpty() bool {
	return p.Company == nil && p.Position == nil && p.Location == nil &&
		p.StartDate == nil && p.EndDate == nil && !p.ClearEndDate &&
		p.Current == nil && p.Description == nil && p.Technologies == nil
}

// Normalize makes current=true win over any supplied end date.
func (p Patch) Normalize() Patch {
	if p.Current != nil && *p.Current {
		p.EndDate = nil
		p.ClearEndDate = true
	}
	if p.ClearEndDate {
		p.EndDate = nil
	}
	if p.Technologies != nil {
		tags := field.NormalizeTags(*p.Technologies)
		p.Technologies = &tags
	}
	return p
}

func (p Patch) Validate() error {
	if p.Company != nil {
		if err := field.Required("company", *p.Company); err != nil {
			return err
		}
	}
	if p.Position != nil {
		if err := field.Required("position", *p.Position); err != nil {
			return err
		}
	}
	if p.StartDate != nil && p.StartDate.IsZero() {
		return ErrMissingStartDate
	}
	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		return ErrEndBeforeStart
	}
	return nil
}

// Apply merges a normalised patch into a copy of e. Repositories that cannot
// express the merge in SQL use it; the result always satisfies Normalize.
func (e *Experience) Apply(p Patch) *Experience {
	out := *e
	out.Technologies = append([]string(nil), e.Technologies...)
	out.EndDate = cloneTime(e.EndDate)
	if p.Company != nil {
		out.Company = *p.Company
	}
	if p.Position != nil {
		out.Position = *p.Position
	}
	if p.Location != nil {
		out.Location = field.OptionalString(p.Location)
	}
	if p.StartDate != nil {
		out.StartDate = *p.StartDate
	}
	if p.Current != nil {
		out.Current = *p.Current
	}
	if p.ClearEndDate {
		out.EndDate = nil
	} else if p.EndDate != nil {
		out.EndDate = cloneTime(p.EndDate)
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Technologies != nil {
		out.Technologies = append([]string(nil), (*p.Technologies)...)
	}
	out.Normalize()
	return &out
}

type Draft struct {
	Company      string
	Position     string
	Location     string
	StartDate    time.Time
	EndDate      *time.Time
	Current      bool
	Description  string
	Technologies []string
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func DraftFrom(e *Experience) Draft {
	d := Draft{
		Company:      e.Company,
		Position:     e.Position,
		StartDate:    e.StartDate,
		EndDate:      cloneTime(e.EndDate),
		Current:      e.Current,
		Description:  e.Description,
		Technologies: append([]string(nil), e.Technologies...),
	}
	if e.Location != nil {
		d.Location = *e.Location
	}
	return d
}

func (d *Draft) AddTechnology(t string) {
	d.Technologies = field.AddTag(d.Technologies, t)
}

func (d *Draft) RemoveTechnology(t string) {
	d.Technologies = field.RemoveTag(d.Technologies, t)
}

// SetCurrent toggles the current flag; turning it on drops the end date.
func (d *Draft) SetCurrent(current bool) {
	d.Current = current
	if current {
		d.EndDate = nil
	}
}

func (d Draft) CreateInput() CreateInput {
	in := CreateInput{
		Company:      d.Company,
		Position:     d.Position,
		Location:     &d.Location,
		StartDate:    d.StartDate,
		EndDate:      cloneTime(d.EndDate),
		Current:      d.Current,
		Description:  d.Description,
		Technologies: field.NormalizeTags(d.Technologies),
	}
	if in.Current {
		in.EndDate = nil
	}
	return in
}

func (d Draft) Patch() Patch {
	tags := field.NormalizeTags(d.Technologies)
	p := Patch{
		Company:      &d.Company,
		Position:     &d.Position,
		Location:     &d.Location,
		StartDate:    &d.StartDate,
		Current:      &d.Current,
		Description:  &d.Description,
		Technologies: &tags,
	}
	if d.EndDate == nil {
		p.ClearEndDate = true
	} else {
		p.EndDate = cloneTime(d.EndDate)
	}
	return p.Normalize()
}

type Repository interface {
	Save(ctx context.Context, e *Experience) error
	Update(ctx context.Context, id, ownerID uuid.UUID, patch Patch) (*Experience, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
	FindByID(ctx context.Context, id, ownerID uuid.UUID) (*Experience, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, order listing.Order, limit int) ([]*Experience, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error)
}
