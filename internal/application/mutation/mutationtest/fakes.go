// Package mutationtest provides recording fakes for the mutation side effects.
package mutationtest

import (
	"context"
	"sync"
	"time"

	"github.com/khoahotran/portfolio/internal/application/mutation"
	"github.com/khoahotran/portfolio/internal/application/querycache"
	"github.com/khoahotran/portfolio/internal/domain/content"
	"github.com/khoahotran/portfolio/internal/domain/notification"
	"github.com/khoahotran/portfolio/pkg/logger"
)

type Notifier struct {
	mu   sync.Mutex
	sent []notification.Notification
}

func (n *Notifier) Notify(_ context.Context, msg notification.Notification) {
	n.mu.Lock()
	n.sent = append(n.sent, msg)
	n.mu.Unlock()
}

func (n *Notifier) Sent() []notification.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification.Notification(nil), n.sent...)
}

func (n *Notifier) Reset() {
	n.mu.Lock()
	n.sent = nil
	n.mu.Unlock()
}

type Publisher struct {
	mu     sync.Mutex
	events []content.Event
	Err    error
}

func (p *Publisher) PublishContentEvent(_ context.Context, e content.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.Err
}

func (p *Publisher) Events() []content.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]content.Event(nil), p.events...)
}

// Harness bundles a memory-backed cache with recording fakes.
type Harness struct {
	Cache     *querycache.Cache
	Store     *querycache.MemoryStore
	Notifier  *Notifier
	Publisher *Publisher
	Runner    *mutation.Runner
}

func NewHarness() *Harness {
	log := logger.NewNop()
	store := querycache.NewMemoryStore()
	cache := querycache.New(store, time.Minute, log)
	n := &Notifier{}
	p := &Publisher{}
	return &Harness{
		Cache:     cache,
		Store:     store,
		Notifier:  n,
		Publisher: p,
		Runner:    mutation.NewRunner(cache, n, p, log),
	}
}
