package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/portfolio/adapters/notification"
	"github.com/khoahotran/portfolio/internal/application/session"
	notificationDomain "github.com/khoahotran/portfolio/internal/domain/notification"
	"github.com/khoahotran/portfolio/internal/domain/user"
	"github.com/khoahotran/portfolio/pkg/logger"
)

// revocableResolver accepts one token until it is revoked.
type revocableResolver struct {
	mu      sync.Mutex
	user    *user.User
	ttl     time.Duration
	revoked bool
}

func (r *revocableResolver) Resolve(_ context.Context, token string) (*session.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token != "live-token" || r.revoked {
		return nil, nil
	}
	return &session.Identity{User: r.user, TokenID: token, ExpiresAt: time.Now().Add(r.ttl)}, nil
}

func (r *revocableResolver) revoke() {
	r.mu.Lock()
	r.revoked = true
	r.mu.Unlock()
}

func streamServer(t *testing.T, resolver *revocableResolver, recheck time.Duration) (*httptest.Server, *notification.Hub) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	hub := notification.NewHub(8, logger.NewNop())
	h := NewNotificationHandler(hub, resolver, nil, logger.NewNop())
	h.sessionRecheck = recheck

	r := gin.New()
	r.Use(ErrorMiddleware(logger.NewNop()))
	r.GET("/ws", SessionGuard(resolver, "/login", logger.NewNop()), h.StreamNotifications)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, hub
}

func dialStream(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?access_token=live-token"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readUntilClose(t *testing.T, conn *websocket.Conn) *websocket.CloseError {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		_, _, err := conn.ReadMessage()
		if err == nil {
			continue
		}
		closeErr, ok := err.(*websocket.CloseError)
		require.True(t, ok, "stream did not close cleanly: %v", err)
		return closeErr
	}
}

func TestStreamNotifications_DeliversToOwner(t *testing.T) {
	owner := &user.User{ID: uuid.New(), Email: "owner@example.com"}
	srv, hub := streamServer(t, &revocableResolver{user: owner, ttl: time.Hour}, 0)
	conn := dialStream(t, srv)

	hub.Notify(context.Background(), notificationDomain.Success(owner.ID, "Skill created"))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got notificationDomain.Notification
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "Skill created", got.Text)
	assert.Equal(t, owner.ID, got.OwnerID)
}

func TestStreamNotifications_ClosesAtTokenExpiry(t *testing.T) {
	owner := &user.User{ID: uuid.New(), Email: "owner@example.com"}
	srv, _ := streamServer(t, &revocableResolver{user: owner, ttl: 200 * time.Millisecond}, 0)
	conn := dialStream(t, srv)

	closeErr := readUntilClose(t, conn)
	assert.Equal(t, websocket.ClosePolicyViolation, closeErr.Code)
	assert.Equal(t, "session expired", closeErr.Text)
}

func TestStreamNotifications_ClosesAfterLogout(t *testing.T) {
	owner := &user.User{ID: uuid.New(), Email: "owner@example.com"}
	resolver := &revocableResolver{user: owner, ttl: time.Hour}
	srv, _ := streamServer(t, resolver, 20*time.Millisecond)
	conn := dialStream(t, srv)

	resolver.revoke()

	closeErr := readUntilClose(t, conn)
	assert.Equal(t, websocket.ClosePolicyViolation, closeErr.Code)
	assert.Equal(t, "session revoked", closeErr.Text)
}
