package media

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/khoahotran/portfolio/internal/application/service"
	"github.com/khoahotran/portfolio/internal/domain/content"
	"github.com/khoahotran/portfolio/pkg/logger"
)

// CleanupMediaUseCase removes hosted images that a content change left
// unreferenced. It runs in the worker.
type CleanupMediaUseCase struct {
	uploader service.Uploader
	refs     service.ImageReferences
	logger   logger.Logger
}

func NewCleanupMediaUseCase(u service.Uploader, refs service.ImageReferences, log logger.Logger) *CleanupMediaUseCase {
	return &CleanupMediaUseCase{uploader: u, refs: refs, logger: log}
}

// Execute reports whether an image was deleted. URLs not served by the media
// host are ignored, and so are images some other row still uses.
func (uc *CleanupMediaUseCase) Execute(ctx context.Context, event content.Event) (bool, error) {
	orphan, ok := event.OrphanedImage()
	if !ok {
		return false, nil
	}
	publicID, ok := uc.uploader.PublicIDFromURL(orphan)
	if !ok {
		uc.logger.Info("Skipping image not hosted by media storage", zap.String("url", orphan))
		return false, nil
	}
	inUse, err := uc.refs.IsImageReferenced(ctx, orphan)
	if err != nil {
		return false, fmt.Errorf("check image references: %w", err)
	}
	if inUse {
		uc.logger.Info("Keeping image still referenced by other content", zap.String("public_id", publicID))
		return false, nil
	}
	if err := uc.uploader.Delete(ctx, publicID); err != nil {
		return false, err
	}
	uc.logger.Info("Deleted orphaned image",
		zap.String("public_id", publicID),
		zap.String("entity", string(event.Entity)),
		zap.String("entity_id", event.EntityID.String()),
	)
	return true, nil
}
