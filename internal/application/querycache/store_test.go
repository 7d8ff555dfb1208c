package querycache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "a:", []byte(`1`), time.Minute))
	require.NoError(t, s.Set(ctx, "b:", []byte(`2`), 0))

	v, ok, err := s.Get(ctx, "a:")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte(`1`), v)

	now = now.Add(time.Minute)
	_, ok, _ = s.Get(ctx, "a:")
	assert.False(t, ok, "item is gone once its ttl has elapsed")

	_, ok, _ = s.Get(ctx, "b:")
	assert.True(t, ok, "zero ttl never expires")
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_DeletePrefix(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for _, k := range []string{"projects:o1:", "projects:o2:", "admin-projects:o1:", "skills:o1:"} {
		require.NoError(t, s.Set(ctx, k, []byte(`[]`), 0))
	}

	require.NoError(t, s.DeletePrefix(ctx, K("projects").String()))

	assert.Equal(t, 2, s.Len())
	_, ok, _ := s.Get(ctx, "admin-projects:o1:")
	assert.True(t, ok)
}
