package media

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/portfolio/internal/domain/content"
	"github.com/khoahotran/portfolio/pkg/logger"
)

const hostPrefix = "https://res.cloudinary.com/demo/image/upload/"

type fakeUploader struct {
	deleted   []string
	deleteErr error
}

func (f *fakeUploader) Upload(_ context.Context, _ io.Reader, folder, publicID string) (string, error) {
	return hostPrefix + folder + "/" + publicID, nil
}

func (f *fakeUploader) Delete(_ context.Context, publicID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, publicID)
	return nil
}

func (f *fakeUploader) PublicIDFromURL(raw string) (string, bool) {
	if !strings.HasPrefix(raw, hostPrefix) {
		return "", false
	}
	return strings.TrimPrefix(raw, hostPrefix), true
}

type fakeRefs struct {
	inUse   map[string]bool
	err     error
	checked []string
}

func (f *fakeRefs) IsImageReferenced(_ context.Context, url string) (bool, error) {
	f.checked = append(f.checked, url)
	return f.inUse[url], f.err
}

func ptr(s string) *string { return &s }

func TestCleanupMedia(t *testing.T) {
	old := hostPrefix + "projects/abc"
	tests := []struct {
		name        string
		event       content.Event
		wantDeleted []string
	}{
		{
			name:        "deleted project drops its image",
			event:       content.Event{EventType: content.EventDeleted, Entity: content.EntityProject, OldImageURL: ptr(old)},
			wantDeleted: []string{"projects/abc"},
		},
		{
			name:        "replaced image",
			event:       content.Event{EventType: content.EventUpdated, Entity: content.EntityProject, OldImageURL: ptr(old), NewImageURL: ptr(hostPrefix + "projects/def")},
			wantDeleted: []string{"projects/abc"},
		},
		{
			name:  "unchanged image",
			event: content.Event{EventType: content.EventUpdated, Entity: content.EntityProject, OldImageURL: ptr(old), NewImageURL: ptr(old)},
		},
		{
			name:  "foreign host",
			event: content.Event{EventType: content.EventDeleted, Entity: content.EntityCertificate, OldImageURL: ptr("https://example.com/badge.png")},
		},
		{
			name:  "created",
			event: content.Event{EventType: content.EventCreated, Entity: content.EntityProject, NewImageURL: ptr(old)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := &fakeUploader{}
			uc := NewCleanupMediaUseCase(up, &fakeRefs{}, logger.NewNop())
			tt.event.EntityID = uuid.New()

			deleted, err := uc.Execute(context.Background(), tt.event)
			require.NoError(t, err)
			assert.Equal(t, len(tt.wantDeleted) > 0, deleted)
			assert.Equal(t, tt.wantDeleted, up.deleted)
		})
	}
}

func TestCleanupMedia_DeleteFailure(t *testing.T) {
	up := &fakeUploader{deleteErr: errors.New("rate limited")}
	uc := NewCleanupMediaUseCase(up, &fakeRefs{}, logger.NewNop())

	_, err := uc.Execute(context.Background(), content.Event{
		EventType:   content.EventDeleted,
		OldImageURL: ptr(hostPrefix + "projects/abc"),
	})
	assert.Error(t, err)
}

func TestCleanupMedia_KeepsImageSharedWithOtherContent(t *testing.T) {
	shared := hostPrefix + "projects/shared"
	up := &fakeUploader{}
	refs := &fakeRefs{inUse: map[string]bool{shared: true}}
	uc := NewCleanupMediaUseCase(up, refs, logger.NewNop())

	deleted, err := uc.Execute(context.Background(), content.Event{
		EventType:   content.EventDeleted,
		Entity:      content.EntityProject,
		EntityID:    uuid.New(),
		OldImageURL: ptr(shared),
	})
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Empty(t, up.deleted)
	assert.Equal(t, []string{shared}, refs.checked)
}

func TestCleanupMedia_ReferenceLookupFailureKeepsImage(t *testing.T) {
	up := &fakeUploader{}
	uc := NewCleanupMediaUseCase(up, &fakeRefs{err: errors.New("db down")}, logger.NewNop())

	_, err := uc.Execute(context.Background(), content.Event{
		EventType:   content.EventDeleted,
		OldImageURL: ptr(hostPrefix + "projects/abc"),
	})
	require.Error(t, err)
	assert.Empty(t, up.deleted)
}
