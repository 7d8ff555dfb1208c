package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio/internal/application/session"
	"github.com/khoahotran/portfolio/pkg/apperror"
	"github.com/khoahotran/portfolio/pkg/logger"
)

const (
	GinContextKeyOwnerID = "ownerID"
	GinContextKeySession = "session"
	GinContextKeyToken   = "accessToken"
)

// SessionResolveTimeout bounds how long a request waits for its session.
var SessionResolveTimeout = 5 * time.Second

// BearerToken reads the access token from the Authorization header, falling
// back to the access_token query parameter for websocket clients.
func BearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		token := strings.TrimPrefix(h, "Bearer ")
		if token == h {
			return ""
		}
		return strings.TrimSpace(token)
	}
	return c.Query("access_token")
}

// SessionGuard resolves the caller's session and applies the route guard.
// Protected handlers only run for an authenticated session.
func SessionGuard(resolver session.Resolver, loginPath string, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		sess := session.New(resolver, log)

		ctx, cancel := context.WithTimeout(c.Request.Context(), SessionResolveTimeout)
		defer cancel()
		sess.Start(ctx, token)
		state := sess.Wait(ctx)

		decision := session.Decide(state, loginPath)
		switch decision.Outcome {
		case session.Render:
			c.Set(GinContextKeySession, sess)
			c.Set(GinContextKeyOwnerID, sess.OwnerID())
			c.Set(GinContextKeyToken, token)
			c.Next()
		case session.Redirect:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    apperror.ErrNotAuthenticated.Error(),
				"message":  "Sign in required",
				"redirect": decision.RedirectTo,
			})
		default:
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error":   "session pending",
				"message": "Session is still resolving, retry shortly",
			})
		}
	}
}

func GetOwnerIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	ownerID, ok := ctx.Value(GinContextKeyOwnerID).(uuid.UUID)
	return ownerID, ok
}

func GetOwnerIDFromGinContext(c *gin.Context) (uuid.UUID, bool) {
	ownerID, ok := c.Get(GinContextKeyOwnerID)
	if !ok {
		return uuid.Nil, false
	}
	ownerIDUUID, ok := ownerID.(uuid.UUID)
	if !ok || ownerIDUUID == uuid.Nil {
		return uuid.Nil, false
	}
	return ownerIDUUID, true
}

func GetSessionFromGinContext(c *gin.Context) (*session.Context, bool) {
	v, ok := c.Get(GinContextKeySession)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*session.Context)
	return sess, ok
}

// ErrorMiddleware renders the last error a handler attached with c.Error.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status := apperror.ToHTTPStatus(err)

		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			appErr = apperror.NewInternal("unexpected error", err)
		}
		if status >= http.StatusInternalServerError {
			log.Error("Request failed", err,
				zap.String("method", c.Request.Method),
				zap.String("path", c.FullPath()),
				zap.Int("status", status),
			)
		}
		c.JSON(status, appErr.ToJSON())
	}
}

func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithContext(c.Request.Context()).Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// Tracing starts a server span per request, continuing any trace the caller
// propagated in the headers.
func Tracing(serviceName string) gin.HandlerFunc {
	tracer := otel.Tracer(serviceName)
	return func(c *gin.Context) {
		ctx := otel.GetTextMapPropagator().Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		ctx, span := tracer.Start(ctx, c.Request.Method+" "+route, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(
			attribute.String("http.request.method", c.Request.Method),
			attribute.String("http.route", route),
			attribute.Int("http.response.status_code", status),
		)
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
