package media

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/portfolio/internal/application/mutation/mutationtest"
	"github.com/khoahotran/portfolio/internal/domain/content"
	"github.com/khoahotran/portfolio/internal/domain/notification"
	"github.com/khoahotran/portfolio/pkg/apperror"
	"github.com/khoahotran/portfolio/pkg/logger"
)

func TestUploadMedia(t *testing.T) {
	h := mutationtest.NewHarness()
	uc := NewUploadMediaUseCase(&fakeUploader{}, h.Runner, "portfolio", logger.NewNop())
	owner := uuid.New()

	out, err := uc.Execute(context.Background(), UploadMediaInput{OwnerID: owner, Kind: "Project", File: strings.NewReader("png")})
	require.NoError(t, err)

	folder := "portfolio/" + owner.String() + "/project"
	assert.True(t, strings.HasPrefix(out.PublicID, folder+"/"))
	assert.Equal(t, hostPrefix+out.PublicID, out.URL)

	sent := h.Notifier.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "Media uploaded", sent[0].Text)

	require.Eventually(t, func() bool { return len(h.Publisher.Events()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, content.EventUploaded, h.Publisher.Events()[0].EventType)
}

func TestUploadMedia_UnknownKind(t *testing.T) {
	h := mutationtest.NewHarness()
	up := &fakeUploader{}
	uc := NewUploadMediaUseCase(up, h.Runner, "portfolio", logger.NewNop())

	_, err := uc.Execute(context.Background(), UploadMediaInput{OwnerID: uuid.New(), Kind: "banner", File: strings.NewReader("png")})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	require.Len(t, h.Notifier.Sent(), 1)
	assert.Equal(t, notification.KindError, h.Notifier.Sent()[0].Kind)
}
