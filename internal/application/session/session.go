// Package session tracks who is signed in for one request or connection.
//
// A Context starts in StateLoading and moves to StateAuthenticated or
// StateUnauthenticated once the token has been resolved. Afterwards it moves
// between the two resolved states on SignIn, SignOut and token expiry. It
// never returns to StateLoading.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio/internal/domain/user"
	"github.com/khoahotran/portfolio/pkg/apperror"
	"github.com/khoahotran/portfolio/pkg/logger"
)

type State string

const (
	StateLoading         State = "loading"
	StateAuthenticated   State = "authenticated"
	StateUnauthenticated State = "unauthenticated"
)

var ErrStillLoading = errors.New("session is still resolving")

// Identity is a resolved session.
type Identity struct {
	User      *user.User
	TokenID   string
	ExpiresAt time.Time
}

type Resolver interface {
	// Resolve returns nil without error when the token carries no session.
	Resolve(ctx context.Context, token string) (*Identity, error)
}

type Transition struct {
	From State
	To   State
}

type Context struct {
	resolver Resolver
	logger   logger.Logger
	now      func() time.Time

	startOnce sync.Once
	done      chan struct{}

	mu       sync.Mutex
	state    State
	identity *Identity
	nextSub  int
	subs     map[int]func(Transition)
}

func New(resolver Resolver, log logger.Logger) *Context {
	return &Context{
		resolver: resolver,
		logger:   log,
		now:      time.Now,
		done:     make(chan struct{}),
		state:    StateLoading,
		subs:     make(map[int]func(Transition)),
	}
}

// Start resolves token in the background. Only the first call has effect.
// An empty token resolves to StateUnauthenticated before Start returns.
func (c *Context) Start(ctx context.Context, token string) {
	c.startOnce.Do(func() {
		if token == "" {
			c.resolve(nil)
			return
		}
		go func() {
			id, err := c.resolver.Resolve(ctx, token)
			if err != nil {
				c.logger.Error("Session resolution failed", apperror.NewSessionResolution(err))
				id = nil
			}
			c.resolve(id)
		}()
	})
}

func (c *Context) resolve(id *Identity) {
	to := StateUnauthenticated
	if id != nil && id.User != nil && c.now().Before(id.ExpiresAt) {
		to = StateAuthenticated
	} else {
		id = nil
	}
	c.transition(StateLoading, to, id)
	close(c.done)
}

// Done is closed once the initial resolution finished.
func (c *Context) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until resolution or ctx end and returns the state at that point.
func (c *Context) Wait(ctx context.Context) State {
	select {
	case <-c.done:
	case <-ctx.Done():
	}
	return c.State()
}

// State reports the current state. An authenticated session whose token has
// expired is signed out on observation.
func (c *Context) State() State {
	c.mu.Lock()
	expired := c.state == StateAuthenticated && !c.now().Before(c.identity.ExpiresAt)
	c.mu.Unlock()
	if expired {
		c.transition(StateAuthenticated, StateUnauthenticated, nil)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Context) Identity() (*Identity, bool) {
	if c.State() != StateAuthenticated {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.identity == nil {
		return nil, false
	}
	return c.identity, true
}

// OwnerID is the signed-in user's id, or uuid.Nil.
func (c *Context) OwnerID() uuid.UUID {
	if id, ok := c.Identity(); ok {
		return id.User.ID
	}
	return uuid.Nil
}

// SignIn moves a resolved session to StateAuthenticated.
func (c *Context) SignIn(id *Identity) error {
	if id == nil || id.User == nil {
		return apperror.NewInvalidInput("sign-in requires a user", nil)
	}
	c.mu.Lock()
	if c.state == StateLoading {
		c.mu.Unlock()
		return ErrStillLoading
	}
	from := c.state
	c.mu.Unlock()
	c.transition(from, StateAuthenticated, id)
	return nil
}

// SignOut drops the identity. Signing out twice is a no-op.
func (c *Context) SignOut() {
	c.transition(StateAuthenticated, StateUnauthenticated, nil)
}

// Subscribe registers fn for every state change and returns a function that
// removes it. fn runs synchronously on the goroutine making the change.
func (c *Context) Subscribe(fn func(Transition)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// transition applies from -> to only if the context is still in from.
func (c *Context) transition(from, to State, id *Identity) {
	c.mu.Lock()
	if c.state != from {
		c.mu.Unlock()
		return
	}
	c.state = to
	c.identity = id
	subs := make([]func(Transition), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	if from != to {
		c.logger.Info("Session state changed", zap.String("from", string(from)), zap.String("to", string(to)))
	}
	for _, fn := range subs {
		fn(Transition{From: from, To: to})
	}
}
