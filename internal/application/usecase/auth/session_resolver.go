package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/khoahotran/portfolio/internal/application/service"
	"github.com/khoahotran/portfolio/internal/application/session"
	"github.com/khoahotran/portfolio/internal/domain/user"
	"github.com/khoahotran/portfolio/pkg/apperror"
	"github.com/khoahotran/portfolio/pkg/auth"
)

// SessionResolver turns a bearer token into the signed-in user.
type SessionResolver struct {
	jwtSvc   *auth.JWTService
	revoked  service.TokenRevocationStore
	userRepo user.Repository
}

func NewSessionResolver(jwtSvc *auth.JWTService, revoked service.TokenRevocationStore, repo user.Repository) *SessionResolver {
	return &SessionResolver{jwtSvc: jwtSvc, revoked: revoked, userRepo: repo}
}

// Resolve returns (nil, nil) when the token names no active session and an
// error only when the lookup itself failed.
func (r *SessionResolver) Resolve(ctx context.Context, token string) (*session.Identity, error) {
	claims, err := r.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, nil
	}
	revoked, err := r.revoked.IsRevoked(ctx, claims.TokenID())
	if err != nil {
		return nil, fmt.Errorf("check token revocation: %w", err)
	}
	if revoked {
		return nil, nil
	}
	u, err := r.userRepo.FindByID(ctx, claims.OwnerID)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session user: %w", err)
	}
	return &session.Identity{
		User:      u,
		TokenID:   claims.TokenID(),
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
