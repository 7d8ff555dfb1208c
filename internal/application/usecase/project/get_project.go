package project

import (
	"context"

	"github.com/google/uuid"

	"github.com/khoahotran/portfolio/internal/application/querycache"
	"github.com/khoahotran/portfolio/internal/domain/project"
	"github.com/khoahotran/portfolio/pkg/apperror"
)

type GetProjectUseCase struct {
	projectRepo project.Repository
	cache       *querycache.Cache
}

func NewGetProjectUseCase(pRepo project.Repository, cache *querycache.Cache) *GetProjectUseCase {
	return &GetProjectUseCase{projectRepo: pRepo, cache: cache}
}

type GetProjectInput struct {
	ProjectID uuid.UUID
	OwnerID   uuid.UUID
}

type GetProjectOutput struct {
	Project *project.Project
}

func (uc *GetProjectUseCase) Execute(ctx context.Context, input GetProjectInput) (*GetProjectOutput, error) {
	key := querycache.OwnerKey(querycache.AdminProjects, input.OwnerID, "id", input.ProjectID.String())
	p, err := querycache.Fetch(ctx, uc.cache, key, func(ctx context.Context) (*project.Project, error) {
		return uc.projectRepo.FindByID(ctx, input.ProjectID, input.OwnerID)
	})
	if err != nil {
		return nil, apperror.WrapRemoteRead("get project", err)
	}
	return &GetProjectOutput{Project: p}, nil
}
