package skill

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/portfolio/internal/application/mutation"
	"github.com/khoahotran/portfolio/internal/application/querycache"
	"github.com/khoahotran/portfolio/internal/domain/content"
	"github.com/khoahotran/portfolio/internal/domain/listing"
	"github.com/khoahotran/portfolio/internal/domain/skill"
	"github.com/khoahotran/portfolio/pkg/apperror"
)

type SkillUseCase struct {
	repo        skill.Repository
	cache       *querycache.Cache
	runner      *mutation.Runner
	siteOwnerID uuid.UUID
}

func NewSkillUseCase(r skill.Repository, cache *querycache.Cache, runner *mutation.Runner, siteOwnerID uuid.UUID) *SkillUseCase {
	return &SkillUseCase{repo: r, cache: cache, runner: runner, siteOwnerID: siteOwnerID}
}

func (uc *SkillUseCase) op(action content.Action, ownerID uuid.UUID) mutation.Op {
	return mutation.Op{Entity: content.EntitySkill, Action: action, OwnerID: ownerID}
}

func (uc *SkillUseCase) event(t content.EventType, id, ownerID uuid.UUID) *content.Event {
	return &content.Event{EventType: t, Entity: content.EntitySkill, EntityID: id, OwnerID: ownerID}
}

// Create stores a new skill. Proficiency outside 1..5 is rejected, not clamped.
func (uc *SkillUseCase) Create(ctx context.Context, ownerID uuid.UUID, in skill.CreateInput) (*skill.Skill, error) {
	var created *skill.Skill
	err := uc.runner.Do(ctx, uc.op(content.ActionCreate, ownerID), func(ctx context.Context) (*content.Event, error) {
		s, err := skill.New(ownerID, in)
		if err != nil {
			return nil, apperror.NewInvalidInput("skill validation failed", err)
		}
		now := time.Now().UTC()
		s.CreatedAt, s.UpdatedAt = now, now
		if err := uc.repo.Save(ctx, s); err != nil {
			return nil, err
		}
		created = s
		return uc.event(content.EventCreated, s.ID, ownerID), nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (uc *SkillUseCase) Update(ctx context.Context, ownerID, id uuid.UUID, patch skill.Patch) (*skill.Skill, error) {
	var updated *skill.Skill
	err := uc.runner.Do(ctx, uc.op(content.ActionUpdate, ownerID), func(ctx context.Context) (*content.Event, error) {
		if patch.IsEmpty() {
			return nil, apperror.NewInvalidInput("no skill fields to update", nil)
		}
		if err := patch.Validate(); err != nil {
			return nil, apperror.NewInvalidInput("skill validation failed", err)
		}
		s, err := uc.repo.Update(ctx, id, ownerID, patch)
		if err != nil {
			return nil, err
		}
		updated = s
		return uc.event(content.EventUpdated, s.ID, ownerID), nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (uc *SkillUseCase) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return uc.runner.Do(ctx, uc.op(content.ActionDelete, ownerID), func(ctx context.Context) (*content.Event, error) {
		if err := uc.repo.Delete(ctx, id, ownerID); err != nil {
			return nil, err
		}
		return uc.event(content.EventDeleted, id, ownerID), nil
	})
}

func (uc *SkillUseCase) Get(ctx context.Context, ownerID, id uuid.UUID) (*skill.Skill, error) {
	key := querycache.OwnerKey(querycache.AdminSkills, ownerID, "id", id.String())
	s, err := querycache.Fetch(ctx, uc.cache, key, func(ctx context.Context) (*skill.Skill, error) {
		return uc.repo.FindByID(ctx, id, ownerID)
	})
	if err != nil {
		return nil, apperror.WrapRemoteRead("get skill", err)
	}
	return s, nil
}

func (uc *SkillUseCase) List(ctx context.Context, ownerID uuid.UUID, opts listing.Options) ([]*skill.Skill, error) {
	return uc.list(ctx, querycache.AdminSkills, ownerID, opts)
}

func (uc *SkillUseCase) ListPublic(ctx context.Context, opts listing.Options) ([]*skill.Skill, error) {
	return uc.list(ctx, querycache.Skills, uc.siteOwnerID, opts)
}

func (uc *SkillUseCase) list(ctx context.Context, family string, ownerID uuid.UUID, opts listing.Options) ([]*skill.Skill, error) {
	if ownerID == uuid.Nil {
		return []*skill.Skill{}, nil
	}
	order, limit := opts.Resolve(skill.DefaultOrder, skill.OrderColumns...), opts.ResolvedLimit()
	key := querycache.OwnerKey(family, ownerID, order.CacheKey(limit)...)
	skills, err := querycache.Fetch(ctx, uc.cache, key, func(ctx context.Context) ([]*skill.Skill, error) {
		return uc.repo.ListByOwner(ctx, ownerID, order, limit)
	})
	if err != nil {
		return nil, apperror.WrapRemoteRead("list skills", err)
	}
	if skills == nil {
		skills = []*skill.Skill{}
	}
	return skills, nil
}
