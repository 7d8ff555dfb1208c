package service

import (
	"context"

	"github.com/khoahotran/portfolio/internal/domain/content"
	"github.com/khoahotran/portfolio/internal/domain/notification"
)

// Notifier delivers transient messages to the owner's open admin sessions.
type Notifier interface {
	Notify(ctx context.Context, n notification.Notification)
}

// EventPublisher announces completed content changes to background workers.
type EventPublisher interface {
	PublishContentEvent(ctx context.Context, event content.Event) error
}
