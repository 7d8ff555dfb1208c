package profile

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/portfolio/internal/application/mutation"
	"github.com/khoahotran/portfolio/internal/application/querycache"
	"github.com/khoahotran/portfolio/internal/domain/content"
	"github.com/khoahotran/portfolio/internal/domain/profile"
	"github.com/khoahotran/portfolio/pkg/apperror"
)

type ProfileUseCase struct {
	profileRepo profile.Repository
	cache       *querycache.Cache
	runner      *mutation.Runner
	siteOwnerID uuid.UUID
}

func NewProfileUseCase(repo profile.Repository, cache *querycache.Cache, runner *mutation.Runner, siteOwnerID uuid.UUID) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo: repo,
		cache:       cache,
		runner:      runner,
		siteOwnerID: siteOwnerID,
	}
}

type GetProfileInput struct {
	OwnerID uuid.UUID
}

type GetProfileOutput struct {
	Profile *profile.Profile
}

func (uc *ProfileUseCase) ExecuteGetProfile(ctx context.Context, input GetProfileInput) (*GetProfileOutput, error) {
	return uc.get(ctx, querycache.OwnerKey(querycache.AdminProfile, input.OwnerID), input.OwnerID)
}

// ExecuteGetPublicProfile reads the site owner's profile.
func (uc *ProfileUseCase) ExecuteGetPublicProfile(ctx context.Context) (*GetProfileOutput, error) {
	return uc.get(ctx, querycache.OwnerKey(querycache.Profile, uc.siteOwnerID), uc.siteOwnerID)
}

func (uc *ProfileUseCase) get(ctx context.Context, key querycache.Key, ownerID uuid.UUID) (*GetProfileOutput, error) {
	if ownerID == uuid.Nil {
		return &GetProfileOutput{Profile: profile.Empty(ownerID)}, nil
	}
	p, err := querycache.Fetch(ctx, uc.cache, key, func(ctx context.Context) (*profile.Profile, error) {
		return uc.profileRepo.GetByUserID(ctx, ownerID)
	})
	if err != nil {
		return nil, apperror.WrapRemoteRead("get profile", err)
	}
	return &GetProfileOutput{Profile: p}, nil
}

type UpdateProfileInput struct {
	OwnerID uuid.UUID
	Patch   profile.Patch
}

type UpdateProfileOutput struct {
	Profile *profile.Profile
}

// ExecuteUpdateProfile merges the patch into the stored profile, creating the
// row on first save.
func (uc *ProfileUseCase) ExecuteUpdateProfile(ctx context.Context, input UpdateProfileInput) (*UpdateProfileOutput, error) {
	var saved *profile.Profile
	op := mutation.Op{Entity: content.EntityProfile, Action: content.ActionUpdate, OwnerID: input.OwnerID}

	err := uc.runner.Do(ctx, op, func(ctx context.Context) (*content.Event, error) {
		if input.Patch.IsEmpty() {
			return nil, apperror.NewInvalidInput("no profile fields to update", nil)
		}
		current, err := uc.profileRepo.GetByUserID(ctx, input.OwnerID)
		if err != nil {
			return nil, err
		}
		p := current.Apply(input.Patch)
		p.OwnerID = input.OwnerID
		p.UpdatedAt = time.Now().UTC()
		if err := p.Validate(); err != nil {
			return nil, apperror.NewInvalidInput("profile validation failed", err)
		}
		if err := uc.profileRepo.Upsert(ctx, p); err != nil {
			return nil, err
		}
		saved = p
		return &content.Event{
			EventType:   content.EventUpdated,
			Entity:      content.EntityProfile,
			EntityID:    input.OwnerID,
			OwnerID:     input.OwnerID,
			OldImageURL: current.AvatarURL,
			NewImageURL: p.AvatarURL,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return &UpdateProfileOutput{Profile: saved}, nil
}
