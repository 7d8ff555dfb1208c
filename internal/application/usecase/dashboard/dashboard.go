package dashboard

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/khoahotran/portfolio/internal/application/querycache"
	"github.com/khoahotran/portfolio/internal/domain/certificate"
	"github.com/khoahotran/portfolio/internal/domain/experience"
	"github.com/khoahotran/portfolio/internal/domain/profile"
	"github.com/khoahotran/portfolio/internal/domain/project"
	"github.com/khoahotran/portfolio/internal/domain/skill"
	"github.com/khoahotran/portfolio/pkg/apperror"
)

type Stats struct {
	Projects     int              `json:"projects"`
	Skills       int              `json:"skills"`
	Certificates int              `json:"certificates"`
	Experiences  int              `json:"experiences"`
	Profile      *profile.Profile `json:"profile"`
}

type StatsUseCase struct {
	projects     project.Repository
	skills       skill.Repository
	certificates certificate.Repository
	experiences  experience.Repository
	profiles     profile.Repository
	cache        *querycache.Cache
}

func NewStatsUseCase(
	pRepo project.Repository,
	sRepo skill.Repository,
	cRepo certificate.Repository,
	eRepo experience.Repository,
	prRepo profile.Repository,
	cache *querycache.Cache,
) *StatsUseCase {
	return &StatsUseCase{
		projects:     pRepo,
		skills:       sRepo,
		certificates: cRepo,
		experiences:  eRepo,
		profiles:     prRepo,
		cache:        cache,
	}
}

// Execute counts the owner's content. The five reads run in parallel.
func (uc *StatsUseCase) Execute(ctx context.Context, ownerID uuid.UUID) (*Stats, error) {
	if ownerID == uuid.Nil {
		return nil, apperror.NewNotAuthenticated("dashboard requires a signed-in owner")
	}
	key := querycache.OwnerKey(querycache.AdminStats, ownerID)
	stats, err := querycache.Fetch(ctx, uc.cache, key, func(ctx context.Context) (*Stats, error) {
		return uc.collect(ctx, ownerID)
	})
	if err != nil {
		return nil, apperror.WrapRemoteRead("load dashboard stats", err)
	}
	return stats, nil
}

func (uc *StatsUseCase) collect(ctx context.Context, ownerID uuid.UUID) (*Stats, error) {
	var s Stats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		s.Projects, err = uc.projects.CountByOwner(gctx, ownerID)
		return err
	})
	g.Go(func() (err error) {
		s.Skills, err = uc.skills.CountByOwner(gctx, ownerID)
		return err
	})
	g.Go(func() (err error) {
		s.Certificates, err = uc.certificates.CountByOwner(gctx, ownerID)
		return err
	})
	g.Go(func() (err error) {
		s.Experiences, err = uc.experiences.CountByOwner(gctx, ownerID)
		return err
	})
	g.Go(func() (err error) {
		s.Profile, err = uc.profiles.GetByUserID(gctx, ownerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &s, nil
}
