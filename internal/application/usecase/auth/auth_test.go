package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/portfolio/adapters/persistence"
	authuc "github.com/khoahotran/portfolio/internal/application/usecase/auth"
	"github.com/khoahotran/portfolio/internal/domain/user"
	"github.com/khoahotran/portfolio/pkg/apperror"
	"github.com/khoahotran/portfolio/pkg/auth"
	"github.com/khoahotran/portfolio/pkg/logger"
)

type stubUserRepo struct {
	users map[string]*user.User
	err   error
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	if u, ok := r.users[email]; ok {
		return u, nil
	}
	return nil, apperror.NewNotFound("user", email)
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperror.NewNotFound("user", id.String())
}

func (r *stubUserRepo) Upsert(_ context.Context, u *user.User) error {
	r.users[u.Email] = u
	return nil
}

type fixture struct {
	repo     *stubUserRepo
	jwt      *auth.JWTService
	revoked  *persistence.MemoryRevocationStore
	login    *authuc.LoginUseCase
	logout   *authuc.LogoutUseCase
	resolver *authuc.SessionResolver
	owner    *user.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	hash, err := auth.HashPassword("s3cret-pass")
	require.NoError(t, err)
	owner := &user.User{ID: uuid.New(), Email: "owner@example.com", PasswordHash: hash}

	f := &fixture{
		repo:    &stubUserRepo{users: map[string]*user.User{owner.Email: owner}},
		jwt:     auth.NewJWTService("test-secret", time.Hour),
		revoked: persistence.NewMemoryRevocationStore(),
		owner:   owner,
	}
	log := logger.NewNop()
	f.login = authuc.NewLoginUseCase(f.repo, f.jwt, log)
	f.logout = authuc.NewLogoutUseCase(f.jwt, f.revoked, log)
	f.resolver = authuc.NewSessionResolver(f.jwt, f.revoked, f.repo)
	return f
}

func TestLogin(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		input   authuc.LoginInput
		wantErr error
	}{
		{"ok with mixed case email", authuc.LoginInput{Email: " Owner@Example.com ", Password: "s3cret-pass"}, nil},
		{"missing password", authuc.LoginInput{Email: "owner@example.com"}, apperror.ErrInvalidInput},
		{"unknown email", authuc.LoginInput{Email: "who@example.com", Password: "x"}, apperror.ErrUnauthorized},
		{"wrong password", authuc.LoginInput{Email: "owner@example.com", Password: "nope"}, apperror.ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := f.login.Execute(context.Background(), tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, out.AccessToken)
			assert.Equal(t, f.owner.ID, out.User.ID)
			assert.True(t, out.ExpiresAt.After(time.Now()))
		})
	}
}

func TestLogin_StoreFailureIsNotACredentialError(t *testing.T) {
	f := newFixture(t)
	f.repo.err = errors.New("connection refused")

	_, err := f.login.Execute(context.Background(), authuc.LoginInput{Email: "owner@example.com", Password: "x"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestSessionResolver(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	out, err := f.login.Execute(ctx, authuc.LoginInput{Email: "owner@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	id, err := f.resolver.Resolve(ctx, out.AccessToken)
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, f.owner.ID, id.User.ID)
	assert.NotEmpty(t, id.TokenID)

	id, err = f.resolver.Resolve(ctx, "garbage")
	assert.NoError(t, err)
	assert.Nil(t, id)

	require.NoError(t, f.logout.Execute(ctx, out.AccessToken))
	id, err = f.resolver.Resolve(ctx, out.AccessToken)
	assert.NoError(t, err)
	assert.Nil(t, id, "a signed out token no longer resolves")
}

func TestSessionResolver_DeletedUser(t *testing.T) {
	f := newFixture(t)
	token, _, err := f.jwt.GenerateToken(uuid.New())
	require.NoError(t, err)

	id, err := f.resolver.Resolve(context.Background(), token)
	assert.NoError(t, err)
	assert.Nil(t, id)
}

func TestSessionResolver_LookupFailure(t *testing.T) {
	f := newFixture(t)
	token, _, err := f.jwt.GenerateToken(f.owner.ID)
	require.NoError(t, err)
	f.repo.err = errors.New("connection refused")

	_, err = f.resolver.Resolve(context.Background(), token)
	assert.Error(t, err)
}

func TestLogout_InvalidTokenSucceeds(t *testing.T) {
	f := newFixture(t)
	assert.NoError(t, f.logout.Execute(context.Background(), "not-a-token"))
}
