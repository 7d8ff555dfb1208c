package auth

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/portfolio/internal/application/service"
	"github.com/khoahotran/portfolio/pkg/apperror"
	"github.com/khoahotran/portfolio/pkg/auth"
	"github.com/khoahotran/portfolio/pkg/logger"
)

type LogoutUseCase struct {
	jwtSvc  *auth.JWTService
	revoked service.TokenRevocationStore
	logger  logger.Logger
}

func NewLogoutUseCase(jwtSvc *auth.JWTService, revoked service.TokenRevocationStore, log logger.Logger) *LogoutUseCase {
	return &LogoutUseCase{jwtSvc: jwtSvc, revoked: revoked, logger: log}
}

// Execute revokes the token until its natural expiry. Signing out with an
// already invalid token succeeds.
func (uc *LogoutUseCase) Execute(ctx context.Context, token string) error {
	claims, err := uc.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil
	}
	ttl := claims.Remaining(time.Now())
	if ttl <= 0 {
		return nil
	}
	if err := uc.revoked.Revoke(ctx, claims.TokenID(), ttl); err != nil {
		return apperror.NewInternal("failed to revoke token", err)
	}
	uc.logger.Info("Owner signed out", zap.String("user_id", claims.OwnerID.String()))
	return nil
}
