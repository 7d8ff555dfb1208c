// Package seo builds the structured-data payload that search engines read
// from the public site.
package seo

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/khoahotran/portfolio/internal/application/querycache"
	"github.com/khoahotran/portfolio/internal/domain/experience"
	"github.com/khoahotran/portfolio/internal/domain/listing"
	"github.com/khoahotran/portfolio/internal/domain/profile"
	"github.com/khoahotran/portfolio/internal/domain/skill"
	"github.com/khoahotran/portfolio/pkg/apperror"
)

type Organization struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// Person is a schema.org Person rendered as JSON-LD.
type Person struct {
	Context     string        `json:"@context"`
	Type        string        `json:"@type"`
	Name        string        `json:"name"`
	JobTitle    string        `json:"jobTitle,omitempty"`
	URL         string        `json:"url,omitempty"`
	Image       string        `json:"image,omitempty"`
	Email       string        `json:"email,omitempty"`
	SameAs      []string      `json:"sameAs"`
	KnowsAbout  []string      `json:"knowsAbout"`
	WorksFor    *Organization `json:"worksFor,omitempty"`
	Description string        `json:"description,omitempty"`
}

type PersonUseCase struct {
	profiles    profile.Repository
	skills      skill.Repository
	experiences experience.Repository
	cache       *querycache.Cache
	siteOwnerID uuid.UUID
	siteURL     string
}

func NewPersonUseCase(pr profile.Repository, s skill.Repository, e experience.Repository, cache *querycache.Cache, siteOwnerID uuid.UUID, siteURL string) *PersonUseCase {
	return &PersonUseCase{profiles: pr, skills: s, experiences: e, cache: cache, siteOwnerID: siteOwnerID, siteURL: siteURL}
}

func (uc *PersonUseCase) Execute(ctx context.Context) (*Person, error) {
	key := querycache.OwnerKey(querycache.SEOPerson, uc.siteOwnerID)
	p, err := querycache.Fetch(ctx, uc.cache, key, uc.build)
	if err != nil {
		return nil, apperror.WrapRemoteRead("build person metadata", err)
	}
	return p, nil
}

func (uc *PersonUseCase) build(ctx context.Context) (*Person, error) {
	prof, err := uc.profiles.GetByUserID(ctx, uc.siteOwnerID)
	if err != nil {
		return nil, err
	}
	skills, err := uc.skills.ListByOwner(ctx, uc.siteOwnerID, listing.Order{Column: "proficiency"}, 0)
	if err != nil {
		return nil, err
	}
	exps, err := uc.experiences.ListByOwner(ctx, uc.siteOwnerID, experience.DefaultOrder, 0)
	if err != nil {
		return nil, err
	}
	return BuildPerson(prof, skills, exps, uc.siteURL), nil
}

// BuildPerson assembles the payload. Skills are expected strongest first; the
// first current experience names the employer.
func BuildPerson(prof *profile.Profile, skills []*skill.Skill, exps []*experience.Experience, siteURL string) *Person {
	p := &Person{
		Context:     "https://schema.org",
		Type:        "Person",
		Name:        prof.FullName,
		JobTitle:    prof.Title,
		URL:         siteURL,
		Description: strings.TrimSpace(prof.Bio),
		SameAs:      []string{},
		KnowsAbout:  make([]string, 0, len(skills)),
	}
	if prof.AvatarURL != nil {
		p.Image = *prof.AvatarURL
	}
	if prof.Email != nil {
		p.Email = *prof.Email
	}
	for _, u := range []*string{prof.GithubURL, prof.LinkedinURL} {
		if u != nil && *u != "" {
			p.SameAs = append(p.SameAs, *u)
		}
	}
	for _, s := range skills {
		p.KnowsAbout = append(p.KnowsAbout, s.Name)
	}
	for _, e := range exps {
		if e.Current {
			p.WorksFor = &Organization{Type: "Organization", Name: e.Company}
			break
		}
	}
	return p
}
