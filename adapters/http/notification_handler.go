package http

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio/internal/application/session"
	"github.com/khoahotran/portfolio/internal/domain/notification"
	"github.com/khoahotran/portfolio/pkg/apperror"
	"github.com/khoahotran/portfolio/pkg/logger"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10

	defaultSessionRecheck = 30 * time.Second
)

// NotificationFeed is the per-owner queue of toast notifications.
type NotificationFeed interface {
	Drain(ownerID uuid.UUID) []notification.Notification
	Subscribe(ownerID uuid.UUID) (<-chan notification.Notification, func())
}

type NotificationHandler struct {
	feed     NotificationFeed
	resolver session.Resolver
	upgrader websocket.Upgrader
	logger   logger.Logger

	// sessionRecheck is how often an open stream re-resolves its token, so a
	// logout elsewhere ends it. Zero disables the recheck.
	sessionRecheck time.Duration
}

// NewNotificationHandler builds the handler. resolver may be nil, in which
// case streams end only at token expiry.
func NewNotificationHandler(feed NotificationFeed, resolver session.Resolver, allowedOrigins []string, log logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		feed:           feed,
		resolver:       resolver,
		sessionRecheck: defaultSessionRecheck,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
		}},
		logger: log,
	}
}

// ListNotifications returns and clears the pending notifications.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.feed.Drain(ownerID))
}

// StreamNotifications pushes each notification over a websocket as it is
// raised. The stream is closed with a policy-violation frame once the
// session's token expires or is revoked.
func (h *NotificationHandler) StreamNotifications(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}
	sess, ok := GetSessionFromGinContext(c)
	if !ok {
		c.Error(apperror.NewNotAuthenticated("notification stream requires a session"))
		return
	}
	identity, ok := sess.Identity()
	if !ok {
		c.Error(apperror.NewNotAuthenticated("session ended before the stream opened"))
		return
	}
	token := c.GetString(GinContextKeyToken)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	notes, cancel := h.feed.Subscribe(ownerID)
	defer cancel()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.logger.Warn("Notification stream read error", zap.Error(err))
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	expiry := time.NewTimer(time.Until(identity.ExpiresAt))
	defer expiry.Stop()

	var recheck <-chan time.Time
	if h.resolver != nil && h.sessionRecheck > 0 {
		t := time.NewTicker(h.sessionRecheck)
		defer t.Stop()
		recheck = t.C
	}

	for {
		select {
		case <-closed:
			return
		case <-c.Request.Context().Done():
			return
		case <-expiry.C:
			sess.SignOut()
			h.endSession(conn, ownerID, "session expired")
			return
		case <-recheck:
			if !h.stillSignedIn(c.Request.Context(), token, identity) {
				sess.SignOut()
				h.endSession(conn, ownerID, "session revoked")
				return
			}
		case n, ok := <-notes:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(n); err != nil {
				h.logger.Warn("Notification stream write failed", zap.Error(err), zap.String("owner_id", ownerID.String()))
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *NotificationHandler) stillSignedIn(ctx context.Context, token string, current *session.Identity) bool {
	id, err := h.resolver.Resolve(ctx, token)
	if err != nil {
		h.logger.Warn("Notification stream session recheck failed", zap.Error(err))
		return false
	}
	return id != nil && id.User != nil && id.User.ID == current.User.ID
}

func (h *NotificationHandler) endSession(conn *websocket.Conn, ownerID uuid.UUID, reason string) {
	h.logger.Info("Closing notification stream", zap.String("owner_id", ownerID.String()), zap.String("reason", reason))
	msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(wsWriteWait))
}
