package project

import (
	"context"

	"github.com/google/uuid"

	"github.com/khoahotran/portfolio/internal/application/mutation"
	"github.com/khoahotran/portfolio/internal/domain/content"
	"github.com/khoahotran/portfolio/internal/domain/project"
)

type DeleteProjectUseCase struct {
	projectRepo project.Repository
	runner      *mutation.Runner
}

func NewDeleteProjectUseCase(pRepo project.Repository, runner *mutation.Runner) *DeleteProjectUseCase {
	return &DeleteProjectUseCase{projectRepo: pRepo, runner: runner}
}

type DeleteProjectInput struct {
	ProjectID uuid.UUID
	OwnerID   uuid.UUID
}

func (uc *DeleteProjectUseCase) Execute(ctx context.Context, input DeleteProjectInput) error {
	op := mutation.Op{Entity: content.EntityProject, Action: content.ActionDelete, OwnerID: input.OwnerID}

	return uc.runner.Do(ctx, op, func(ctx context.Context) (*content.Event, error) {
		old, err := uc.projectRepo.FindByID(ctx, input.ProjectID, input.OwnerID)
		if err != nil {
			return nil, err
		}
		if err := uc.projectRepo.Delete(ctx, input.ProjectID, input.OwnerID); err != nil {
			return nil, err
		}
		return &content.Event{
			EventType:   content.EventDeleted,
			Entity:      content.EntityProject,
			EntityID:    input.ProjectID,
			OwnerID:     input.OwnerID,
			OldImageURL: old.ImageURL,
		}, nil
	})
}
