package notification

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio/internal/domain/notification"
	"github.com/khoahotran/portfolio/pkg/logger"
)

const subscriberBuffer = 16

// Hub routes notifications to the owner's live subscribers. While nobody is
// listening they wait in a bounded per-owner queue; the oldest is dropped
// when the queue is full.
type Hub struct {
	capacity int
	logger   logger.Logger

	mu      sync.Mutex
	queues  map[uuid.UUID][]notification.Notification
	subs    map[uuid.UUID]map[int]chan notification.Notification
	nextSub int
}

func NewHub(capacity int, log logger.Logger) *Hub {
	if capacity <= 0 {
		capacity = 20
	}
	return &Hub{
		capacity: capacity,
		logger:   log,
		queues:   make(map[uuid.UUID][]notification.Notification),
		subs:     make(map[uuid.UUID]map[int]chan notification.Notification),
	}
}

func (h *Hub) Notify(_ context.Context, n notification.Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := false
	for _, ch := range h.subs[n.OwnerID] {
		select {
		case ch <- n:
			delivered = true
		default:
			h.logger.Warn("Notification subscriber is slow, message skipped", zap.String("owner_id", n.OwnerID.String()))
		}
	}
	if !delivered {
		h.enqueueLocked(n)
	}
}

func (h *Hub) enqueueLocked(n notification.Notification) {
	q := append(h.queues[n.OwnerID], n)
	if len(q) > h.capacity {
		q = q[len(q)-h.capacity:]
	}
	h.queues[n.OwnerID] = q
}

// Drain returns and forgets the owner's queued notifications, oldest first.
func (h *Hub) Drain(ownerID uuid.UUID) []notification.Notification {
	h.mu.Lock()
	defer h.mu.Unlock()
	q := h.queues[ownerID]
	delete(h.queues, ownerID)
	if q == nil {
		return []notification.Notification{}
	}
	return q
}

// Subscribe opens a live feed for ownerID. Queued notifications are handed
// over first. The returned cancel closes the channel.
func (h *Hub) Subscribe(ownerID uuid.UUID) (<-chan notification.Notification, func()) {
	ch := make(chan notification.Notification, subscriberBuffer+h.capacity)

	h.mu.Lock()
	for _, n := range h.queues[ownerID] {
		ch <- n
	}
	delete(h.queues, ownerID)
	if h.subs[ownerID] == nil {
		h.subs[ownerID] = make(map[int]chan notification.Notification)
	}
	id := h.nextSub
	h.nextSub++
	h.subs[ownerID][id] = ch
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[ownerID], id)
			if len(h.subs[ownerID]) == 0 {
				delete(h.subs, ownerID)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}
