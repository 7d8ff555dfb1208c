package experience

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNew_CurrentDropsEndDate(t *testing.T) {
	end := day(2024, 6, 1)
	e := New(uuid.New(), CreateInput{
		Company:   "Acme",
		Position:  "Engineer",
		StartDate: day(2023, 1, 1),
		EndDate:   &end,
		Current:   true,
	})

	assert.Nil(t, e.EndDate)
	assert.NotNil(t, e.Technologies)
	assert.NoError(t, e.Validate())
}

func TestValidate(t *testing.T) {
	before := day(2022, 1, 1)
	tests := []struct {
		name string
		in   CreateInput
		want error
	}{
		{"missing start", CreateInput{Company: "Acme", Position: "Dev"}, ErrMissingStartDate},
		{"end before start", CreateInput{Company: "Acme", Position: "Dev", StartDate: day(2023, 1, 1), EndDate: &before}, ErrEndBeforeStart},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, New(uuid.New(), tt.in).Validate(), tt.want)
		})
	}

	assert.Error(t, New(uuid.New(), CreateInput{Position: "Dev", StartDate: day(2023, 1, 1)}).Validate())
}

func TestPatch_NormalizeCurrentWins(t *testing.T) {
	end := day(2024, 1, 1)
	current := true
	p := Patch{EndDate: &end, Current: &current}.Normalize()

	assert.Nil(t, p.EndDate)
	assert.True(t, p.ClearEndDate)
}

func TestApply(t *testing.T) {
	end := day(2024, 1, 1)
	e := New(uuid.New(), CreateInput{
		Company:      "Acme",
		Position:     "Dev",
		StartDate:    day(2023, 1, 1),
		EndDate:      &end,
		Technologies: []string{"Go"},
	})

	t.Run("switching to current clears end date", func(t *testing.T) {
		current := true
		out := e.Apply(Patch{Current: &current}.Normalize())
		assert.True(t, out.Current)
		assert.Nil(t, out.EndDate)
		require.NotNil(t, e.EndDate, "original must not change")
	})

	t.Run("clear end date", func(t *testing.T) {
		out := e.Apply(Patch{ClearEndDate: true}.Normalize())
		assert.Nil(t, out.EndDate)
	})

	t.Run("technologies replaced", func(t *testing.T) {
		tags := []string{"Rust", " rust "}
		out := e.Apply(Patch{Technologies: &tags}.Normalize())
		assert.Equal(t, []string{"Rust"}, out.Technologies)
		assert.Equal(t, []string{"Go"}, e.Technologies)
	})
}

func TestDraft(t *testing.T) {
	end := day(2024, 1, 1)
	d := Draft{Company: "Acme", Position: "Dev", StartDate: day(2023, 1, 1), EndDate: &end}
	d.AddTechnology("Go")
	d.AddTechnology("go")
	assert.Equal(t, []string{"Go"}, d.Technologies)

	d.SetCurrent(true)
	assert.Nil(t, d.EndDate)

	p := d.Patch()
	assert.True(t, p.ClearEndDate)
	assert.False(t, p.IsEmpty())

	d.RemoveTechnology("GO")
	assert.Empty(t, d.Technologies)
}

func TestPatch_IsEmpty(t *testing.T) {
	assert.True(t, Patch{}.IsEmpty())
	assert.False(t, Patch{ClearEndDate: true}.IsEmpty())
}
