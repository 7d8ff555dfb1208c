package experience

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/portfolio/internal/application/mutation"
	"github.com/khoahotran/portfolio/internal/application/querycache"
	"github.com/khoahotran/portfolio/internal/domain/content"
	"github.com/khoahotran/portfolio/internal/domain/experience"
	"github.com/khoahotran/portfolio/internal/domain/listing"
	"github.com/khoahotran/portfolio/pkg/apperror"
)

type ExperienceUseCase struct {
	repo        experience.Repository
	cache       *querycache.Cache
	runner      *mutation.Runner
	siteOwnerID uuid.UUID
}

func NewExperienceUseCase(r experience.Repository, cache *querycache.Cache, runner *mutation.Runner, siteOwnerID uuid.UUID) *ExperienceUseCase {
	return &ExperienceUseCase{repo: r, cache: cache, runner: runner, siteOwnerID: siteOwnerID}
}

func (uc *ExperienceUseCase) op(action content.Action, ownerID uuid.UUID) mutation.Op {
	return mutation.Op{Entity: content.EntityExperience, Action: action, OwnerID: ownerID}
}

func (uc *ExperienceUseCase) event(t content.EventType, id, ownerID uuid.UUID) *content.Event {
	return &content.Event{EventType: t, Entity: content.EntityExperience, EntityID: id, OwnerID: ownerID}
}

// Create stores a new experience. A current position never keeps an end date.
func (uc *ExperienceUseCase) Create(ctx context.Context, ownerID uuid.UUID, in experience.CreateInput) (*experience.Experience, error) {
	var created *experience.Experience
	err := uc.runner.Do(ctx, uc.op(content.ActionCreate, ownerID), func(ctx context.Context) (*content.Event, error) {
		e := experience.New(ownerID, in)
		if err := e.Validate(); err != nil {
			return nil, apperror.NewInvalidInput("experience validation failed", err)
		}
		now := time.Now().UTC()
		e.CreatedAt, e.UpdatedAt = now, now
		if err := uc.repo.Save(ctx, e); err != nil {
			return nil, err
		}
		created = e
		return uc.event(content.EventCreated, e.ID, ownerID), nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update merges patch into the stored row. The merged row is validated
// before the write, so an end date that precedes the stored start date is
// rejected even when the patch carries only the end date.
func (uc *ExperienceUseCase) Update(ctx context.Context, ownerID, id uuid.UUID, patch experience.Patch) (*experience.Experience, error) {
	var updated *experience.Experience
	err := uc.runner.Do(ctx, uc.op(content.ActionUpdate, ownerID), func(ctx context.Context) (*content.Event, error) {
		patch := patch.Normalize()
		if patch.IsEmpty() {
			return nil, apperror.NewInvalidInput("no experience fields to update", nil)
		}
		if err := patch.Validate(); err != nil {
			return nil, apperror.NewInvalidInput("experience validation failed", err)
		}
		current, err := uc.repo.FindByID(ctx, id, ownerID)
		if err != nil {
			return nil, err
		}
		if err := current.Apply(patch).Validate(); err != nil {
			return nil, apperror.NewInvalidInput("experience validation failed", err)
		}
		e, err := uc.repo.Update(ctx, id, ownerID, patch)
		if err != nil {
			return nil, err
		}
		updated = e
		return uc.event(content.EventUpdated, e.ID, ownerID), nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (uc *ExperienceUseCase) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return uc.runner.Do(ctx, uc.op(content.ActionDelete, ownerID), func(ctx context.Context) (*content.Event, error) {
		if err := uc.repo.Delete(ctx, id, ownerID); err != nil {
			return nil, err
		}
		return uc.event(content.EventDeleted, id, ownerID), nil
	})
}

func (uc *ExperienceUseCase) Get(ctx context.Context, ownerID, id uuid.UUID) (*experience.Experience, error) {
	key := querycache.OwnerKey(querycache.AdminExperiences, ownerID, "id", id.String())
	e, err := querycache.Fetch(ctx, uc.cache, key, func(ctx context.Context) (*experience.Experience, error) {
		return uc.repo.FindByID(ctx, id, ownerID)
	})
	if err != nil {
		return nil, apperror.WrapRemoteRead("get experience", err)
	}
	return e, nil
}

func (uc *ExperienceUseCase) List(ctx context.Context, ownerID uuid.UUID, opts listing.Options) ([]*experience.Experience, error) {
	return uc.list(ctx, querycache.AdminExperiences, ownerID, opts)
}

func (uc *ExperienceUseCase) ListPublic(ctx context.Context, opts listing.Options) ([]*experience.Experience, error) {
	return uc.list(ctx, querycache.Experiences, uc.siteOwnerID, opts)
}

func (uc *ExperienceUseCase) list(ctx context.Context, family string, ownerID uuid.UUID, opts listing.Options) ([]*experience.Experience, error) {
	if ownerID == uuid.Nil {
		return []*experience.Experience{}, nil
	}
	order, limit := opts.Resolve(experience.DefaultOrder, experience.OrderColumns...), opts.ResolvedLimit()
	key := querycache.OwnerKey(family, ownerID, order.CacheKey(limit)...)
	items, err := querycache.Fetch(ctx, uc.cache, key, func(ctx context.Context) ([]*experience.Experience, error) {
		return uc.repo.ListByOwner(ctx, ownerID, order, limit)
	})
	if err != nil {
		return nil, apperror.WrapRemoteRead("list experiences", err)
	}
	if items == nil {
		items = []*experience.Experience{}
	}
	return items, nil
}
