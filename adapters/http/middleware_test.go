package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/portfolio/internal/application/session"
	"github.com/khoahotran/portfolio/internal/domain/user"
	"github.com/khoahotran/portfolio/pkg/apperror"
	"github.com/khoahotran/portfolio/pkg/logger"
)

type tokenResolver struct {
	tokens  map[string]*user.User
	block   chan struct{}
	failing bool
}

func (r *tokenResolver) Resolve(_ context.Context, token string) (*session.Identity, error) {
	if r.block != nil {
		<-r.block
	}
	if r.failing {
		return nil, errors.New("redis: connection refused")
	}
	u, ok := r.tokens[token]
	if !ok {
		return nil, nil
	}
	return &session.Identity{User: u, TokenID: token, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func guardedRouter(resolver session.Resolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorMiddleware(logger.NewNop()))
	r.GET("/admin/ping", SessionGuard(resolver, "/login", logger.NewNop()), func(c *gin.Context) {
		owner, ok := GetOwnerIDFromGinContext(c)
		if !ok {
			c.Error(apperror.NewPermissionDenied("no owner"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"owner_id": owner.String(), "token": c.GetString(GinContextKeyToken)})
	})
	return r
}

func TestSessionGuard_RendersForAuthenticatedSession(t *testing.T) {
	owner := &user.User{ID: uuid.New(), Email: "owner@example.com"}
	r := guardedRouter(&tokenResolver{tokens: map[string]*user.User{"good": owner}})

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, owner.ID.String(), body["owner_id"])
	assert.Equal(t, "good", body["token"])
}

func TestSessionGuard_QueryTokenForWebsocketClients(t *testing.T) {
	owner := &user.User{ID: uuid.New()}
	r := guardedRouter(&tokenResolver{tokens: map[string]*user.User{"ws": owner}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/ping?access_token=ws", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSessionGuard_RedirectsWithoutSession(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		resolver *tokenResolver
	}{
		{"no token", "", &tokenResolver{}},
		{"unknown token", "Bearer stale", &tokenResolver{}},
		{"not a bearer header", "Basic abc", &tokenResolver{}},
		{"resolver failure", "Bearer any", &tokenResolver{failing: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			guardedRouter(tt.resolver).ServeHTTP(w, req)

			require.Equal(t, http.StatusUnauthorized, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "/login", body["redirect"])
			assert.Equal(t, apperror.ErrNotAuthenticated.Error(), body["error"])
		})
	}
}

func TestSessionGuard_PlaceholderWhileResolving(t *testing.T) {
	prev := SessionResolveTimeout
	SessionResolveTimeout = 20 * time.Millisecond
	t.Cleanup(func() { SessionResolveTimeout = prev })

	block := make(chan struct{})
	defer close(block)
	r := guardedRouter(&tokenResolver{block: block})

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer slow")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestErrorMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorMiddleware(logger.NewNop()))
	r.GET("/missing", func(c *gin.Context) { c.Error(apperror.NewNotFound("project", "1")) })
	r.GET("/write", func(c *gin.Context) {
		c.Error(apperror.WrapRemoteWrite("create project", errors.New("connection reset")))
	})
	r.GET("/plain", func(c *gin.Context) { c.Error(errors.New("boom")) })

	tests := []struct {
		path      string
		wantCode  int
		wantError string
	}{
		{"/missing", http.StatusNotFound, "not found"},
		{"/write", http.StatusBadGateway, apperror.ErrRemoteWrite.Error()},
		{"/plain", http.StatusInternalServerError, apperror.ErrInternal.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantCode, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantError, body["error"])
		})
	}
}
