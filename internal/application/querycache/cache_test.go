package querycache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/portfolio/pkg/logger"
)

type row struct {
	Title string `json:"title"`
}

func newTestCache() (*Cache, *MemoryStore) {
	store := NewMemoryStore()
	return New(store, time.Minute, logger.NewNop()), store
}

func TestFetch_CachesResult(t *testing.T) {
	c, _ := newTestCache()
	ctx := context.Background()
	key := K(AdminProjects, "owner")
	var calls atomic.Int32

	fetch := func(ctx context.Context) ([]row, error) {
		calls.Add(1)
		return []row{{Title: "Portfolio"}}, nil
	}

	first, err := Fetch(ctx, c, key, fetch)
	require.NoError(t, err)
	second, err := Fetch(ctx, c, key, fetch)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, calls.Load())
	status, _ := c.State(key)
	assert.Equal(t, StatusSuccess, status)
}

func TestFetch_CallersGetIndependentCopies(t *testing.T) {
	c, _ := newTestCache()
	ctx := context.Background()
	key := K(Skills, "owner")
	fetch := func(ctx context.Context) ([]row, error) { return []row{{Title: "Go"}}, nil }

	a, err := Fetch(ctx, c, key, fetch)
	require.NoError(t, err)
	a[0].Title = "mutated"

	b, err := Fetch(ctx, c, key, fetch)
	require.NoError(t, err)
	assert.Equal(t, "Go", b[0].Title)
}

func TestFetch_CollapsesConcurrentCallers(t *testing.T) {
	c, _ := newTestCache()
	ctx := context.Background()
	key := K(Projects, "owner")

	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return "done", nil
	}

	var wg sync.WaitGroup
	results := make([]string, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := Fetch(ctx, c, key, fetch)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	<-started
	status, _ := c.State(key)
	assert.Equal(t, StatusLoading, status)
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load())
	for _, v := range results {
		assert.Equal(t, "done", v)
	}
}

func TestInvalidate_DropsEveryKeyUnderPrefix(t *testing.T) {
	c, store := newTestCache()
	ctx := context.Background()
	var calls atomic.Int32
	fetch := func(ctx context.Context) (int, error) { return int(calls.Add(1)), nil }

	listKey := K(AdminProjects, "owner")
	itemKey := K(AdminProjects, "owner", "id", "1")
	skillKey := K(AdminSkills, "owner")
	for _, k := range []Key{listKey, itemKey, skillKey} {
		_, err := Fetch(ctx, c, k, fetch)
		require.NoError(t, err)
	}
	require.Equal(t, 3, store.Len())

	require.NoError(t, c.Invalidate(ctx, K(AdminProjects)))

	assert.Equal(t, 1, store.Len())
	status, _ := c.State(listKey)
	assert.Equal(t, StatusIdle, status)

	_, err := Fetch(ctx, c, listKey, fetch)
	require.NoError(t, err)
	_, err = Fetch(ctx, c, skillKey, fetch)
	require.NoError(t, err)
	assert.EqualValues(t, 4, calls.Load(), "only the invalidated key is refetched")
}

func TestInvalidate_StaleFetchIsNotStored(t *testing.T) {
	c, store := newTestCache()
	ctx := context.Background()
	key := K(AdminProjects, "owner")

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan string)
	go func() {
		v, err := Fetch(ctx, c, key, func(ctx context.Context) (string, error) {
			close(started)
			<-release
			return "stale", nil
		})
		assert.NoError(t, err)
		done <- v
	}()

	<-started
	require.NoError(t, c.Invalidate(ctx, K(AdminProjects)))

	fresh, err := Fetch(ctx, c, key, func(ctx context.Context) (string, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", fresh, "a caller after invalidation does not join the old fetch")

	close(release)
	assert.Equal(t, "stale", <-done, "the original caller still gets its own answer")

	raw, ok, err := store.Get(ctx, key.String())
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `"fresh"`, string(raw))
}

func TestInvalidate_StaleFetchLeavesStoreEmpty(t *testing.T) {
	c, store := newTestCache()
	ctx := context.Background()
	key := K(Skills, "owner")

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = Fetch(ctx, c, key, func(ctx context.Context) (string, error) {
			close(started)
			<-release
			return "stale", nil
		})
	}()

	<-started
	require.NoError(t, c.Invalidate(ctx, K(Skills)))
	close(release)
	<-done

	assert.Equal(t, 0, store.Len())
	status, _ := c.State(key)
	assert.Equal(t, StatusIdle, status)
}

func TestFetch_ErrorIsReportedAndNotCached(t *testing.T) {
	c, store := newTestCache()
	ctx := context.Background()
	key := K(Certificates, "owner")
	boom := errors.New("boom")

	_, err := Fetch(ctx, c, key, func(ctx context.Context) (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	status, lastErr := c.State(key)
	assert.Equal(t, StatusError, status)
	assert.ErrorIs(t, lastErr, boom)
	assert.Equal(t, 0, store.Len())

	v, err := Fetch(ctx, c, key, func(ctx context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestFetch_CancelAbandonsWaitButFetchCompletes(t *testing.T) {
	c, _ := newTestCache()
	key := K(Experiences, "owner")

	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	fetch := func(ctx context.Context) (string, error) {
		calls.Add(1)
		close(started)
		<-release
		return "kept", ctx.Err()
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := Fetch(ctx, c, key, fetch)
		errCh <- err
	}()

	<-started
	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)

	close(release)
	require.Eventually(t, func() bool {
		status, _ := c.State(key)
		return status == StatusSuccess
	}, time.Second, 5*time.Millisecond)

	v, err := Fetch(context.Background(), c, key, func(ctx context.Context) (string, error) {
		return "refetched", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "kept", v)
	assert.EqualValues(t, 1, calls.Load())
}

func TestState_UnknownKeyIsIdle(t *testing.T) {
	c, _ := newTestCache()
	status, err := c.State(K("nothing"))
	assert.Equal(t, StatusIdle, status)
	assert.NoError(t, err)
}
