package experience_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/portfolio/internal/application/mutation/mutationtest"
	"github.com/khoahotran/portfolio/internal/application/querycache"
	experienceuc "github.com/khoahotran/portfolio/internal/application/usecase/experience"
	"github.com/khoahotran/portfolio/internal/domain/experience"
	"github.com/khoahotran/portfolio/internal/domain/listing"
	"github.com/khoahotran/portfolio/pkg/apperror"
)

type memoryExperienceRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*experience.Experience
}

func (r *memoryExperienceRepo) Save(_ context.Context, e *experience.Experience) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[e.ID] = e.Apply(experience.Patch{})
	return nil
}

func (r *memoryExperienceRepo) Update(_ context.Context, id, ownerID uuid.UUID, p experience.Patch) (*experience.Experience, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.rows[id]
	if !ok || e.OwnerID != ownerID {
		return nil, apperror.NewNotFound("experience", id.String())
	}
	r.rows[id] = e.Apply(p)
	return r.rows[id].Apply(experience.Patch{}), nil
}

func (r *memoryExperienceRepo) Delete(_ context.Context, id, ownerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.rows[id]; !ok || e.OwnerID != ownerID {
		return apperror.NewNotFound("experience", id.String())
	}
	delete(r.rows, id)
	return nil
}

func (r *memoryExperienceRepo) FindByID(_ context.Context, id, ownerID uuid.UUID) (*experience.Experience, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.rows[id]
	if !ok || e.OwnerID != ownerID {
		return nil, apperror.NewNotFound("experience", id.String())
	}
	return e.Apply(experience.Patch{}), nil
}

func (r *memoryExperienceRepo) ListByOwner(_ context.Context, ownerID uuid.UUID, _ listing.Order, _ int) ([]*experience.Experience, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*experience.Experience
	for _, e := range r.rows {
		if e.OwnerID == ownerID {
			out = append(out, e.Apply(experience.Patch{}))
		}
	}
	return out, nil
}

func (r *memoryExperienceRepo) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	list, err := r.ListByOwner(ctx, ownerID, listing.Order{}, 0)
	return len(list), err
}

func date(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func setup() (*experienceuc.ExperienceUseCase, *mutationtest.Harness, uuid.UUID) {
	h := mutationtest.NewHarness()
	owner := uuid.New()
	repo := &memoryExperienceRepo{rows: make(map[uuid.UUID]*experience.Experience)}
	return experienceuc.NewExperienceUseCase(repo, h.Cache, h.Runner, owner), h, owner
}

func TestExperience_CurrentPositionHasNoEndDate(t *testing.T) {
	uc, _, owner := setup()
	ctx := context.Background()
	end := date(2024, 1)

	e, err := uc.Create(ctx, owner, experience.CreateInput{
		Company: "Acme", Position: "Engineer", StartDate: date(2022, 3), EndDate: &end,
	})
	require.NoError(t, err)
	require.NotNil(t, e.EndDate)

	current := true
	e, err = uc.Update(ctx, owner, e.ID, experience.Patch{Current: &current})
	require.NoError(t, err)
	assert.True(t, e.Current)
	assert.Nil(t, e.EndDate)
}

func TestExperience_EndDateBeforeStoredStartIsRejected(t *testing.T) {
	uc, h, owner := setup()
	ctx := context.Background()

	e, err := uc.Create(ctx, owner, experience.CreateInput{Company: "Acme", Position: "Engineer", StartDate: date(2022, 3)})
	require.NoError(t, err)

	end := date(2021, 1)
	_, err = uc.Update(ctx, owner, e.ID, experience.Patch{EndDate: &end})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	assert.ErrorIs(t, err, experience.ErrEndBeforeStart)

	sent := h.Notifier.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "Failed to update experience", sent[1].Text)
}

func TestExperience_WriteInvalidatesStructuredData(t *testing.T) {
	uc, h, owner := setup()
	ctx := context.Background()
	key := querycache.OwnerKey(querycache.SEOPerson, owner)
	_, err := querycache.Fetch(ctx, h.Cache, key, func(context.Context) (string, error) { return "person", nil })
	require.NoError(t, err)

	_, err = uc.Create(ctx, owner, experience.CreateInput{Company: "Acme", Position: "Engineer", StartDate: date(2022, 3), Current: true})
	require.NoError(t, err)

	_, ok, _ := h.Store.Get(ctx, key.String())
	assert.False(t, ok)
}
