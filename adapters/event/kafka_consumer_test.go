package event

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/portfolio/internal/domain/content"
	"github.com/khoahotran/portfolio/pkg/logger"
)

type fakeReader struct {
	mu        sync.Mutex
	msgs      []kafka.Message
	fetchErrs []error
	fetches   int
	committed []int64
	cancel    context.CancelFunc
	closed    bool
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	r.fetches++
	if len(r.fetchErrs) > 0 {
		err := r.fetchErrs[0]
		r.fetchErrs = r.fetchErrs[1:]
		r.mu.Unlock()
		return kafka.Message{}, err
	}
	if len(r.msgs) == 0 && r.closed {
		r.mu.Unlock()
		return kafka.Message{}, io.EOF
	}
	if len(r.msgs) == 0 {
		r.mu.Unlock()
		r.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	r.mu.Unlock()
	return m, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func message(t *testing.T, offset int64, e content.Event) kafka.Message {
	t.Helper()
	b, err := json.Marshal(e)
	require.NoError(t, err)
	return kafka.Message{Offset: offset, Value: b}
}

func newTestConsumer(reader messageReader) *ContentEventConsumer {
	return &ContentEventConsumer{reader: reader, logger: logger.NewNop(), backoff: time.Millisecond}
}

func TestContentEventConsumer_Run(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	okEvent := content.Event{EventType: content.EventDeleted, Entity: content.EntityProject, EntityID: uuid.New()}
	failing := content.Event{EventType: content.EventUpdated, Entity: content.EntityProject, EntityID: uuid.New()}
	flaky := content.Event{EventType: content.EventUpdated, Entity: content.EntityCertificate, EntityID: uuid.New()}
	reader := &fakeReader{
		cancel: cancel,
		msgs: []kafka.Message{
			message(t, 1, okEvent),
			{Offset: 2, Value: []byte("{not json")},
			message(t, 3, failing),
			message(t, 4, flaky),
		},
	}

	var handled []uuid.UUID
	flakyCalls := 0
	err := newTestConsumer(reader).Run(ctx, func(_ context.Context, e content.Event) error {
		handled = append(handled, e.EntityID)
		switch e.EntityID {
		case failing.EntityID:
			return errors.New("cloudinary unavailable")
		case flaky.EntityID:
			flakyCalls++
			if flakyCalls == 1 {
				return errors.New("timeout")
			}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{
		okEvent.EntityID,
		failing.EntityID, failing.EntityID, failing.EntityID,
		flaky.EntityID, flaky.EntityID,
	}, handled)
	assert.Equal(t, []int64{1, 2, 3, 4}, reader.committed, "a failing event is committed once its retries run out")
}

func TestContentEventConsumer_StopsWhenReaderCloses(t *testing.T) {
	reader := &fakeReader{closed: true, msgs: []kafka.Message{
		message(t, 7, content.Event{EventType: content.EventDeleted, Entity: content.EntitySkill, EntityID: uuid.New()}),
	}}

	done := make(chan error, 1)
	go func() {
		done <- newTestConsumer(reader).Run(context.Background(), func(context.Context, content.Event) error { return nil })
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer kept polling a closed reader")
	}
	assert.Equal(t, []int64{7}, reader.committed)
	assert.Equal(t, 2, reader.fetches)
}

func TestContentEventConsumer_BacksOffOnFetchErrors(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	boom := errors.New("broker not available")
	reader := &fakeReader{cancel: cancel, fetchErrs: []error{boom, boom, boom}}
	consumer := newTestConsumer(reader)
	consumer.backoff = 20 * time.Millisecond

	start := time.Now()
	require.NoError(t, consumer.Run(ctx, func(context.Context, content.Event) error { return nil }))

	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
	assert.Equal(t, 4, reader.fetches)
}

func TestContentEventConsumer_CancelDuringRetryLeavesEventUncommitted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{cancel: cancel, msgs: []kafka.Message{
		message(t, 9, content.Event{EventType: content.EventDeleted, Entity: content.EntityProject, EntityID: uuid.New()}),
	}}
	consumer := newTestConsumer(reader)
	consumer.backoff = time.Minute

	err := consumer.Run(ctx, func(context.Context, content.Event) error {
		cancel()
		return errors.New("interrupted")
	})

	require.NoError(t, err)
	assert.Empty(t, reader.committed)
}
