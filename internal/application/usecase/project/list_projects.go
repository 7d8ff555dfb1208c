package project

import (
	"context"

	"github.com/google/uuid"

	"github.com/khoahotran/portfolio/internal/application/querycache"
	"github.com/khoahotran/portfolio/internal/domain/listing"
	"github.com/khoahotran/portfolio/internal/domain/project"
	"github.com/khoahotran/portfolio/pkg/apperror"
)

const recentLimit = 3

type ListProjectsUseCase struct {
	projectRepo project.Repository
	cache       *querycache.Cache
	siteOwnerID uuid.UUID
}

func NewListProjectsUseCase(pRepo project.Repository, cache *querycache.Cache, siteOwnerID uuid.UUID) *ListProjectsUseCase {
	return &ListProjectsUseCase{projectRepo: pRepo, cache: cache, siteOwnerID: siteOwnerID}
}

type ListProjectsInput struct {
	OwnerID uuid.UUID
	Options listing.Options
}

type ListProjectsOutput struct {
	Projects []*project.Project
}

// Execute lists the owner's projects for the admin panel.
func (uc *ListProjectsUseCase) Execute(ctx context.Context, input ListProjectsInput) (*ListProjectsOutput, error) {
	return uc.list(ctx, querycache.AdminProjects, input.OwnerID, input.Options)
}

// ExecutePublic lists the site owner's projects for visitors.
func (uc *ListProjectsUseCase) ExecutePublic(ctx context.Context, opts listing.Options) (*ListProjectsOutput, error) {
	return uc.list(ctx, querycache.Projects, uc.siteOwnerID, opts)
}

// ExecuteRecent returns the owner's three newest projects.
func (uc *ListProjectsUseCase) ExecuteRecent(ctx context.Context, ownerID uuid.UUID) (*ListProjectsOutput, error) {
	return uc.list(ctx, querycache.RecentProjects, ownerID, listing.Options{OrderBy: "created_at", Direction: "desc", Limit: recentLimit})
}

func (uc *ListProjectsUseCase) list(ctx context.Context, family string, ownerID uuid.UUID, opts listing.Options) (*ListProjectsOutput, error) {
	if ownerID == uuid.Nil {
		return &ListProjectsOutput{Projects: []*project.Project{}}, nil
	}
	order, limit := opts.Resolve(project.DefaultOrder, project.OrderColumns...), opts.ResolvedLimit()
	key := querycache.OwnerKey(family, ownerID, order.CacheKey(limit)...)
	projects, err := querycache.Fetch(ctx, uc.cache, key, func(ctx context.Context) ([]*project.Project, error) {
		return uc.projectRepo.ListByOwner(ctx, ownerID, order, limit)
	})
	if err != nil {
		return nil, apperror.WrapRemoteRead("list projects", err)
	}
	if projects == nil {
		projects = []*project.Project{}
	}
	return &ListProjectsOutput{Projects: projects}, nil
}
