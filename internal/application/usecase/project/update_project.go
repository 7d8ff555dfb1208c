package project

import (
	"context"

	"github.com/google/uuid"

	"github.com/khoahotran/portfolio/internal/application/mutation"
	"github.com/khoahotran/portfolio/internal/domain/content"
	"github.com/khoahotran/portfolio/internal/domain/project"
	"github.com/khoahotran/portfolio/pkg/apperror"
)

type UpdateProjectUseCase struct {
	projectRepo project.Repository
	runner      *mutation.Runner
}

func NewUpdateProjectUseCase(pRepo project.Repository, runner *mutation.Runner) *UpdateProjectUseCase {
	return &UpdateProjectUseCase{projectRepo: pRepo, runner: runner}
}

type UpdateProjectInput struct {
	ProjectID uuid.UUID
	OwnerID   uuid.UUID
	Patch     project.Patch
}

type UpdateProjectOutput struct {
	Project *project.Project
}

func (uc *UpdateProjectUseCase) Execute(ctx context.Context, input UpdateProjectInput) (*UpdateProjectOutput, error) {
	var updated *project.Project
	op := mutation.Op{Entity: content.EntityProject, Action: content.ActionUpdate, OwnerID: input.OwnerID}

	err := uc.runner.Do(ctx, op, func(ctx context.Context) (*content.Event, error) {
		patch := input.Patch.Normalize()
		if patch.IsEmpty() {
			return nil, apperror.NewInvalidInput("no project fields to update", nil)
		}
		if err := patch.Validate(); err != nil {
			return nil, apperror.NewInvalidInput("project validation failed", err)
		}

		old, err := uc.projectRepo.FindByID(ctx, input.ProjectID, input.OwnerID)
		if err != nil {
			return nil, err
		}
		p, err := uc.projectRepo.Update(ctx, input.ProjectID, input.OwnerID, patch)
		if err != nil {
			return nil, err
		}
		updated = p
		return &content.Event{
			EventType:   content.EventUpdated,
			Entity:      content.EntityProject,
			EntityID:    p.ID,
			OwnerID:     p.OwnerID,
			OldImageURL: old.ImageURL,
			NewImageURL: p.ImageURL,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return &UpdateProjectOutput{Project: updated}, nil
}
