package project

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/portfolio/internal/application/mutation"
	"github.com/khoahotran/portfolio/internal/domain/content"
	"github.com/khoahotran/portfolio/internal/domain/project"
	"github.com/khoahotran/portfolio/pkg/apperror"
)

type CreateProjectUseCase struct {
	projectRepo project.Repository
	runner      *mutation.Runner
}

func NewCreateProjectUseCase(pRepo project.Repository, runner *mutation.Runner) *CreateProjectUseCase {
	return &CreateProjectUseCase{projectRepo: pRepo, runner: runner}
}

type CreateProjectInput struct {
	OwnerID uuid.UUID
	Fields  project.CreateInput
}

type CreateProjectOutput struct {
	Project *project.Project
}

func (uc *CreateProjectUseCase) Execute(ctx context.Context, input CreateProjectInput) (*CreateProjectOutput, error) {
	var created *project.Project
	op := mutation.Op{Entity: content.EntityProject, Action: content.ActionCreate, OwnerID: input.OwnerID}

	err := uc.runner.Do(ctx, op, func(ctx context.Context) (*content.Event, error) {
		p := project.New(input.OwnerID, input.Fields)
		if err := p.Validate(); err != nil {
			return nil, apperror.NewInvalidInput("project validation failed", err)
		}
		now := time.Now().UTC()
		p.CreatedAt, p.UpdatedAt = now, now

		if err := uc.projectRepo.Save(ctx, p); err != nil {
			return nil, err
		}
		created = p
		return &content.Event{
			EventType:   content.EventCreated,
			Entity:      content.EntityProject,
			EntityID:    p.ID,
			OwnerID:     p.OwnerID,
			NewImageURL: p.ImageURL,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return &CreateProjectOutput{Project: created}, nil
}
