package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/portfolio/adapters/notification"
	"github.com/khoahotran/portfolio/adapters/persistence"
	"github.com/khoahotran/portfolio/internal/application/mutation"
	"github.com/khoahotran/portfolio/internal/application/querycache"
	authUC "github.com/khoahotran/portfolio/internal/application/usecase/auth"
	profileUC "github.com/khoahotran/portfolio/internal/application/usecase/profile"
	skillUC "github.com/khoahotran/portfolio/internal/application/usecase/skill"
	"github.com/khoahotran/portfolio/internal/config"
	notificationDomain "github.com/khoahotran/portfolio/internal/domain/notification"
	"github.com/khoahotran/portfolio/internal/domain/user"
	"github.com/khoahotran/portfolio/pkg/auth"
	"github.com/khoahotran/portfolio/pkg/logger"
)

type AuthE2ETestSuite struct {
	suite.Suite
	Router   *gin.Engine
	dbPool   *pgxpool.Pool
	testUser user.User
	testPass string
}

func (s *AuthE2ETestSuite) SetupSuite() {
	ctx := context.Background()
	cfg, err := config.LoadConfig("../..")
	if err != nil {
		s.T().Fatalf("Failed to load config for E2E test: %v", err)
	}

	appLogger := logger.NewZapLogger("development")
	s.dbPool, err = persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		s.T().Fatalf("E2E test failed to connect postgres: %v", err)
	}

	s.testPass = "e2e_test_password_123"
	hash, _ := auth.HashPassword(s.testPass)
	s.testUser = user.User{
		ID:           uuid.New(),
		Email:        "e2e_test@example.com",
		PasswordHash: hash,
	}
	userRepo := persistence.NewPostgresUserRepo(s.dbPool)
	if err := userRepo.Upsert(ctx, &s.testUser); err != nil {
		s.T().Fatalf("E2E test failed to seed user: %v", err)
	}

	cache := querycache.New(querycache.NewMemoryStore(), time.Minute, appLogger)
	hub := notification.NewHub(cfg.Notifications.Capacity, appLogger)
	runner := mutation.NewRunner(cache, hub, nil, appLogger)
	revoked := persistence.NewMemoryRevocationStore()
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)

	loginUseCase := authUC.NewLoginUseCase(userRepo, jwtSvc, appLogger)
	logoutUseCase := authUC.NewLogoutUseCase(jwtSvc, revoked, appLogger)
	profileUseCase := profileUC.NewProfileUseCase(persistence.NewPostgresProfileRepo(s.dbPool, appLogger), cache, runner, s.testUser.ID)
	skillUseCase := skillUC.NewSkillUseCase(persistence.NewPostgresSkillRepo(s.dbPool), cache, runner, s.testUser.ID)

	gin.SetMode(gin.TestMode)
	resolver := authUC.NewSessionResolver(jwtSvc, revoked, userRepo)
	s.Router = NewRouter(RouterConfig{
		LoginPath: "/admin/login",
		Resolver:  resolver,
		Logger:    appLogger,
	}, Handlers{
		Auth:         NewAuthHandler(loginUseCase, logoutUseCase, appLogger),
		Profile:      NewProfileHandler(profileUseCase, appLogger),
		Skill:        NewSkillHandler(skillUseCase, appLogger),
		Notification: NewNotificationHandler(hub, resolver, nil, appLogger),
	})
}

func (s *AuthE2ETestSuite) TearDownSuite() {
	if s.dbPool == nil {
		return
	}
	ctx := context.Background()
	_, _ = s.dbPool.Exec(ctx, `DELETE FROM skills WHERE owner_id = $1`, s.testUser.ID)
	s.dbPool.Close()
}

func TestAuthE2E(t *testing.T) {
	if os.Getenv("E2E_TESTS") == "" {
		t.Skip("Skipping E2E tests. Set E2E_TESTS=1 to run.")
	}
	suite.Run(t, new(AuthE2ETestSuite))
}

func (s *AuthE2ETestSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	return rr
}

func (s *AuthE2ETestSuite) login() string {
	rr := s.do(http.MethodPost, "/api/admin/auth/login", "", gin.H{"email": s.testUser.Email, "password": s.testPass})
	s.Require().Equal(http.StatusOK, rr.Code)

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &resp))
	s.Require().NotEmpty(resp.AccessToken)
	return resp.AccessToken
}

func (s *AuthE2ETestSuite) Test_Login_Flow() {
	rrBad := s.do(http.MethodPost, "/api/admin/auth/login", "", gin.H{"email": s.testUser.Email, "password": "wrongpassword"})
	s.Equal(http.StatusUnauthorized, rrBad.Code)

	token := s.login()

	rrMe := s.do(http.MethodGet, "/api/admin/auth/me", token, nil)
	s.Equal(http.StatusOK, rrMe.Code)
	s.Contains(rrMe.Body.String(), `"authenticated"`)

	rrNoAuth := s.do(http.MethodGet, "/api/admin/auth/me", "", nil)
	s.Equal(http.StatusUnauthorized, rrNoAuth.Code)
	s.Contains(rrNoAuth.Body.String(), "/admin/login")

	rrLogout := s.do(http.MethodPost, "/api/admin/auth/logout", token, nil)
	s.Equal(http.StatusNoContent, rrLogout.Code)

	rrAfter := s.do(http.MethodGet, "/api/admin/auth/me", token, nil)
	s.Equal(http.StatusUnauthorized, rrAfter.Code)
}

func (s *AuthE2ETestSuite) Test_Skill_Mutation_Notifies() {
	token := s.login()

	rrBad := s.do(http.MethodPost, "/api/admin/skills", token, gin.H{"name": "Go", "category": "Backend", "proficiency": 7})
	s.Equal(http.StatusBadRequest, rrBad.Code)

	rrCreate := s.do(http.MethodPost, "/api/admin/skills", token, gin.H{"name": "Go", "category": "Backend", "proficiency": 5})
	s.Require().Equal(http.StatusCreated, rrCreate.Code)

	rrPublic := s.do(http.MethodGet, "/api/skills", "", nil)
	s.Equal(http.StatusOK, rrPublic.Code)
	s.Contains(rrPublic.Body.String(), `"Go"`)

	rrNotes := s.do(http.MethodGet, "/api/admin/notifications", token, nil)
	s.Require().Equal(http.StatusOK, rrNotes.Code)
	var notes []notificationDomain.Notification
	s.Require().NoError(json.Unmarshal(rrNotes.Body.Bytes(), &notes))
	s.Require().Len(notes, 2)
	s.Equal("Failed to create skill", notes[0].Text)
	s.Equal("Skill created", notes[1].Text)
}
