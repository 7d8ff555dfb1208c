// Package mutation runs owner-initiated writes and applies their side effects:
// cache invalidation, exactly one notification, and an async content event.
package mutation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio/internal/application/querycache"
	"github.com/khoahotran/portfolio/internal/application/service"
	"github.com/khoahotran/portfolio/internal/domain/content"
	"github.com/khoahotran/portfolio/internal/domain/notification"
	"github.com/khoahotran/portfolio/pkg/apperror"
	"github.com/khoahotran/portfolio/pkg/logger"
)

var tracer = otel.Tracer("portfolio/mutation")

// Op identifies a single write attempt.
type Op struct {
	Entity  content.Entity
	Action  content.Action
	OwnerID uuid.UUID
}

func (op Op) successText() string {
	return fmt.Sprintf("%s %s", capitalize(op.Entity.Label()), op.Action.Past())
}

func (op Op) failureText() string {
	return fmt.Sprintf("Failed to %s %s", op.Action, op.Entity.Label())
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

type Runner struct {
	cache     *querycache.Cache
	notifier  service.Notifier
	publisher service.EventPublisher
	logger    logger.Logger
}

// NewRunner wires the side effects. publisher may be nil when no broker is
// configured.
func NewRunner(cache *querycache.Cache, notifier service.Notifier, publisher service.EventPublisher, log logger.Logger) *Runner {
	return &Runner{cache: cache, notifier: notifier, publisher: publisher, logger: log}
}

// Do runs fn for op. On success the entity's cache families are invalidated
// before the success notification is sent; on failure the cache is left
// untouched and a single error notification is sent. The returned error is
// classified as a remote write failure unless it already carries a kind.
func (r *Runner) Do(ctx context.Context, op Op, fn func(ctx context.Context) (*content.Event, error)) error {
	ctx, span := tracer.Start(ctx, "mutation."+string(op.Entity)+"."+string(op.Action))
	defer span.End()
	span.SetAttributes(
		attribute.String("entity", string(op.Entity)),
		attribute.String("action", string(op.Action)),
		attribute.String("owner_id", op.OwnerID.String()),
	)

	log := r.logger.With(
		zap.String("entity", string(op.Entity)),
		zap.String("action", string(op.Action)),
		zap.String("owner_id", op.OwnerID.String()),
	)

	if op.OwnerID == uuid.Nil {
		err := apperror.NewNotAuthenticated(fmt.Sprintf("%s %s requires a signed-in owner", op.Action, op.Entity))
		r.fail(ctx, span, log, op, err)
		return err
	}

	event, err := fn(ctx)
	if err != nil {
		if !errors.Is(err, apperror.ErrInvalidInput) {
			err = apperror.WrapRemoteWrite(fmt.Sprintf("%s %s", op.Action, op.Entity), err)
		}
		r.fail(ctx, span, log, op, err)
		return err
	}

	if err := r.cache.Invalidate(ctx, querycache.Families(op.Entity)...); err != nil {
		log.Warn("Cache invalidation incomplete", zap.Error(err))
	}
	r.notifier.Notify(ctx, notification.Success(op.OwnerID, op.successText()))
	log.Info("Mutation succeeded")

	if event != nil {
		r.publish(ctx, log, *event)
	}
	return nil
}

func (r *Runner) fail(ctx context.Context, span trace.Span, log logger.Logger, op Op, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	log.Error("Mutation failed", err)
	r.notifier.Notify(ctx, notification.Failure(op.OwnerID, op.failureText()))
}

func (r *Runner) publish(ctx context.Context, log logger.Logger, event content.Event) {
	if r.publisher == nil {
		return
	}
	bg := context.WithoutCancel(ctx)
	go func() {
		if err := r.publisher.PublishContentEvent(bg, event); err != nil {
			log.Error("Failed to publish content event", err, zap.String("event_type", string(event.EventType)))
		}
	}()
}
