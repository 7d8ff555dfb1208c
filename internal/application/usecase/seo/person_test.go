package seo

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/portfolio/internal/domain/experience"
	"github.com/khoahotran/portfolio/internal/domain/profile"
	"github.com/khoahotran/portfolio/internal/domain/skill"
)

func ptr(s string) *string { return &s }

func TestBuildPerson(t *testing.T) {
	owner := uuid.New()
	prof := &profile.Profile{
		OwnerID:   owner,
		FullName:  "Khoa Tran",
		Title:     "Backend Engineer",
		Bio:       "  Builds APIs.  ",
		GithubURL: ptr("https://github.com/khoahotran"),
		Email:     ptr("khoa@example.com"),
	}
	skills := []*skill.Skill{{Name: "Go"}, {Name: "PostgreSQL"}}
	exps := []*experience.Experience{
		{Company: "Former Co"},
		{Company: "Acme", Current: true},
	}

	p := BuildPerson(prof, skills, exps, "https://khoa.dev")

	assert.Equal(t, "Person", p.Type)
	assert.Equal(t, "Khoa Tran", p.Name)
	assert.Equal(t, "Builds APIs.", p.Description)
	assert.Equal(t, []string{"https://github.com/khoahotran"}, p.SameAs)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, p.KnowsAbout)
	require.NotNil(t, p.WorksFor)
	assert.Equal(t, "Acme", p.WorksFor.Name)
}

func TestBuildPerson_EmptyProfile(t *testing.T) {
	p := BuildPerson(profile.Empty(uuid.New()), nil, nil, "")

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"@context":"https://schema.org","@type":"Person","name":"","sameAs":[],"knowsAbout":[]}`, string(raw))
}
