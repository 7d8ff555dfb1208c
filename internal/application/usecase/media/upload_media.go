package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio/internal/application/mutation"
	"github.com/khoahotran/portfolio/internal/application/service"
	"github.com/khoahotran/portfolio/internal/domain/content"
	"github.com/khoahotran/portfolio/pkg/apperror"
	"github.com/khoahotran/portfolio/pkg/logger"
)

// Image kinds accepted for upload; each maps to its own folder.
var kinds = map[string]struct{}{
	"avatar":      {},
	"project":     {},
	"certificate": {},
}

type UploadMediaUseCase struct {
	uploader   service.Uploader
	runner     *mutation.Runner
	rootFolder string
	logger     logger.Logger
}

func NewUploadMediaUseCase(u service.Uploader, runner *mutation.Runner, rootFolder string, log logger.Logger) *UploadMediaUseCase {
	return &UploadMediaUseCase{uploader: u, runner: runner, rootFolder: rootFolder, logger: log}
}

type UploadMediaInput struct {
	OwnerID uuid.UUID
	Kind    string
	File    io.Reader
}

type UploadMediaOutput struct {
	URL      string
	PublicID string
}

func (uc *UploadMediaUseCase) Execute(ctx context.Context, input UploadMediaInput) (*UploadMediaOutput, error) {
	var out *UploadMediaOutput
	op := mutation.Op{Entity: content.EntityMedia, Action: content.ActionUpload, OwnerID: input.OwnerID}

	err := uc.runner.Do(ctx, op, func(ctx context.Context) (*content.Event, error) {
		kind := strings.ToLower(strings.TrimSpace(input.Kind))
		if _, ok := kinds[kind]; !ok {
			return nil, apperror.NewInvalidInput(fmt.Sprintf("unknown image kind %q", input.Kind), nil)
		}
		if input.File == nil {
			return nil, apperror.NewInvalidInput("file is required", nil)
		}

		folder := path.Join(uc.rootFolder, input.OwnerID.String(), kind)
		publicID := uuid.NewString()
		url, err := uc.uploader.Upload(ctx, input.File, folder, publicID)
		if err != nil {
			return nil, err
		}
		uc.logger.Info("Image uploaded", zap.String("folder", folder), zap.String("public_id", publicID))

		out = &UploadMediaOutput{URL: url, PublicID: path.Join(folder, publicID)}
		return &content.Event{
			EventType:   content.EventUploaded,
			Entity:      content.EntityMedia,
			OwnerID:     input.OwnerID,
			NewImageURL: &url,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
