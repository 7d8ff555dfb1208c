package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/khoahotran/portfolio/adapters/event"
	httpAdapter "github.com/khoahotran/portfolio/adapters/http"
	"github.com/khoahotran/portfolio/adapters/media_storage"
	"github.com/khoahotran/portfolio/adapters/notification"
	"github.com/khoahotran/portfolio/adapters/persistence"
	"github.com/khoahotran/portfolio/internal/application/mutation"
	"github.com/khoahotran/portfolio/internal/application/querycache"
	"github.com/khoahotran/portfolio/internal/application/service"
	authUC "github.com/khoahotran/portfolio/internal/application/usecase/auth"
	certificateUC "github.com/khoahotran/portfolio/internal/application/usecase/certificate"
	dashboardUC "github.com/khoahotran/portfolio/internal/application/usecase/dashboard"
	experienceUC "github.com/khoahotran/portfolio/internal/application/usecase/experience"
	mediaUC "github.com/khoahotran/portfolio/internal/application/usecase/media"
	profileUC "github.com/khoahotran/portfolio/internal/application/usecase/profile"
	projectUC "github.com/khoahotran/portfolio/internal/application/usecase/project"
	"github.com/khoahotran/portfolio/internal/application/usecase/seo"
	skillUC "github.com/khoahotran/portfolio/internal/application/usecase/skill"
	"github.com/khoahotran/portfolio/internal/config"
	"github.com/khoahotran/portfolio/pkg/auth"
	"github.com/khoahotran/portfolio/pkg/logger"
	"github.com/khoahotran/portfolio/pkg/tracing"
)

func main() {
	fmt.Println("Start Portfolio API Server...")

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}
	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	siteOwnerID, err := uuid.Parse(cfg.Site.OwnerID)
	if err != nil {
		appLogger.Fatal("SITE_OWNER_ID must be the owner's user id", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg, appLogger, "portfolio-api")
	if err != nil {
		appLogger.Fatal("Cannot init tracer", err)
	}
	defer shutdownTracing()

	// Initialize dependencies
	dbPool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Postgres", err)
	}
	defer dbPool.Close()

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient, err = persistence.NewRedisClient(ctx, cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Cannot connect Redis", err)
		}
		defer redisClient.Close()
	}

	var publisher service.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaClient, err := event.NewKafkaProducerClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Cannot init Kafka", err)
		}
		defer kafkaClient.Close()
		publisher = kafkaClient
	} else {
		appLogger.Warn("Kafka brokers not configured, content events are not published")
	}

	// Query cache
	var store querycache.Store = querycache.NewMemoryStore()
	if cfg.Cache.Backend == "redis" {
		if redisClient == nil {
			appLogger.Fatal("Redis cache backend needs REDIS_ADDR", errors.New("redis not configured"))
		}
		store = querycache.NewRedisStore(redisClient, "portfolio:query")
	}
	cache := querycache.New(store, cfg.Cache.TTL, appLogger)

	var revoked service.TokenRevocationStore = persistence.NewMemoryRevocationStore()
	if redisClient != nil {
		revoked = persistence.NewRedisRevocationStore(redisClient)
	}

	// Repositories
	userRepo := persistence.NewPostgresUserRepo(dbPool)
	profileRepo := persistence.NewPostgresProfileRepo(dbPool, appLogger)
	projectRepo := persistence.NewPostgresProjectRepo(dbPool, appLogger)
	skillRepo := persistence.NewPostgresSkillRepo(dbPool)
	experienceRepo := persistence.NewPostgresExperienceRepo(dbPool)
	certificateRepo := persistence.NewPostgresCertificateRepo(dbPool)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	uploader, err := media_storage.NewCloudinaryAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize uploader", err)
	}
	hub := notification.NewHub(cfg.Notifications.Capacity, appLogger)
	runner := mutation.NewRunner(cache, hub, publisher, appLogger)

	// Use Cases
	loginUseCase := authUC.NewLoginUseCase(userRepo, jwtSvc, appLogger)
	logoutUseCase := authUC.NewLogoutUseCase(jwtSvc, revoked, appLogger)
	sessionResolver := authUC.NewSessionResolver(jwtSvc, revoked, userRepo)
	profileUseCase := profileUC.NewProfileUseCase(profileRepo, cache, runner, siteOwnerID)
	createProjectUseCase := projectUC.NewCreateProjectUseCase(projectRepo, runner)
	listProjectsUseCase := projectUC.NewListProjectsUseCase(projectRepo, cache, siteOwnerID)
	getProjectUseCase := projectUC.NewGetProjectUseCase(projectRepo, cache)
	updateProjectUseCase := projectUC.NewUpdateProjectUseCase(projectRepo, runner)
	deleteProjectUseCase := projectUC.NewDeleteProjectUseCase(projectRepo, runner)
	rssUseCase := projectUC.NewRSSUseCase(projectRepo, profileRepo, cache, appLogger, siteOwnerID, cfg.Site.Title, cfg.App.BaseURL)
	skillUseCase := skillUC.NewSkillUseCase(skillRepo, cache, runner, siteOwnerID)
	experienceUseCase := experienceUC.NewExperienceUseCase(experienceRepo, cache, runner, siteOwnerID)
	certificateUseCase := certificateUC.NewCertificateUseCase(certificateRepo, cache, runner, siteOwnerID)
	statsUseCase := dashboardUC.NewStatsUseCase(projectRepo, skillRepo, certificateRepo, experienceRepo, profileRepo, cache)
	personUseCase := seo.NewPersonUseCase(profileRepo, skillRepo, experienceRepo, cache, siteOwnerID, cfg.App.BaseURL)
	uploadMediaUseCase := mediaUC.NewUploadMediaUseCase(uploader, runner, cfg.Cloudinary.Folder, appLogger)

	// HTTP Handlers
	handlers := httpAdapter.Handlers{
		Auth:    httpAdapter.NewAuthHandler(loginUseCase, logoutUseCase, appLogger),
		Profile: httpAdapter.NewProfileHandler(profileUseCase, appLogger),
		Project: httpAdapter.NewProjectHandler(
			createProjectUseCase,
			listProjectsUseCase,
			getProjectUseCase,
			updateProjectUseCase,
			deleteProjectUseCase,
			appLogger,
		),
		Skill:        httpAdapter.NewSkillHandler(skillUseCase, appLogger),
		Experience:   httpAdapter.NewExperienceHandler(experienceUseCase, appLogger),
		Certificate:  httpAdapter.NewCertificateHandler(certificateUseCase, appLogger),
		Dashboard:    httpAdapter.NewDashboardHandler(statsUseCase, appLogger),
		Media:        httpAdapter.NewMediaHandler(uploadMediaUseCase, appLogger),
		Notification: httpAdapter.NewNotificationHandler(hub, sessionResolver, cfg.App.AllowedOrigins, appLogger),
		Feed:         httpAdapter.NewFeedHandler(rssUseCase, personUseCase, appLogger),
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AllowedOrigins: cfg.App.AllowedOrigins,
		LoginPath:      cfg.App.LoginPath,
		Resolver:       sessionResolver,
		Logger:         appLogger,
		HealthCheck: func(ctx context.Context) error {
			if err := dbPool.Ping(ctx); err != nil {
				return fmt.Errorf("postgres: %w", err)
			}
			if redisClient != nil {
				if err := redisClient.Ping(ctx).Err(); err != nil {
					return fmt.Errorf("redis: %w", err)
				}
			}
			return nil
		},
	}, handlers)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		appLogger.Info("Shutting down server...")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		appLogger.Error("Server stopped with error", err)
		os.Exit(1)
	}
	appLogger.Info("Server exited")
}
