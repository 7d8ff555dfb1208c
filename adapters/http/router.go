package http

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/khoahotran/portfolio/internal/application/session"
	"github.com/khoahotran/portfolio/pkg/logger"
)

type Handlers struct {
	Auth         *AuthHandler
	Profile      *ProfileHandler
	Project      *ProjectHandler
	Skill        *SkillHandler
	Experience   *ExperienceHandler
	Certificate  *CertificateHandler
	Dashboard    *DashboardHandler
	Media        *MediaHandler
	Notification *NotificationHandler
	Feed         *FeedHandler
}

type RouterConfig struct {
	AllowedOrigins []string
	LoginPath      string
	Resolver       session.Resolver
	Logger         logger.Logger
	// HealthCheck, when set, is probed by GET /api/health.
	HealthCheck func(ctx context.Context) error
}

func corsConfig(origins []string) cors.Config {
	config := cors.DefaultConfig()
	if len(origins) == 0 || slices.Contains(origins, "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
		config.AllowCredentials = true
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	config.MaxAge = 12 * time.Hour
	return config
}

func NewRouter(cfg RouterConfig, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), Tracing("portfolio-api"), RequestLogger(cfg.Logger), cors.New(corsConfig(cfg.AllowedOrigins)), ErrorMiddleware(cfg.Logger))

	api := router.Group("/api")
	{
		public := api.Group("/")
		{
			public.GET("/health", health(cfg.HealthCheck))
			public.GET("/profile", h.Profile.GetPublicProfile)
			public.GET("/projects", h.Project.ListPublicProjects)
			public.GET("/projects/rss", h.Feed.GenerateRSS)
			public.GET("/skills", h.Skill.ListPublicSkills)
			public.GET("/experiences", h.Experience.ListPublicExperiences)
			public.GET("/certificates", h.Certificate.ListPublicCertificates)
			public.GET("/seo/person", h.Feed.PersonJSONLD)
		}

		admin := api.Group("/admin")
		{
			admin.POST("/auth/login", h.Auth.Login)

			adminPrivate := admin.Group("/")
			adminPrivate.Use(SessionGuard(cfg.Resolver, cfg.LoginPath, cfg.Logger))
			{
				adminPrivate.POST("/auth/logout", h.Auth.Logout)
				adminPrivate.GET("/auth/me", h.Auth.Me)

				adminPrivate.GET("/profile", h.Profile.GetProfile)
				adminPrivate.PUT("/profile", h.Profile.UpdateProfile)
				adminPrivate.PATCH("/profile", h.Profile.UpdateProfile)

				adminPrivate.GET("/stats", h.Dashboard.GetStats)
				adminPrivate.POST("/media", h.Media.UploadMedia)
				adminPrivate.GET("/notifications", h.Notification.ListNotifications)
				adminPrivate.GET("/notifications/ws", h.Notification.StreamNotifications)

				projects := adminPrivate.Group("/projects")
				{
					projects.GET("", h.Project.ListProjects)
					projects.POST("", h.Project.CreateProject)
					projects.GET("/recent", h.Project.RecentProjects)
					projects.GET("/:id", h.Project.GetProject)
					projects.PATCH("/:id", h.Project.PatchProject)
					projects.PUT("/:id", h.Project.ReplaceProject)
					projects.DELETE("/:id", h.Project.DeleteProject)
				}

				skills := adminPrivate.Group("/skills")
				{
					skills.GET("", h.Skill.ListSkills)
					skills.POST("", h.Skill.CreateSkill)
					skills.GET("/:id", h.Skill.GetSkill)
					skills.PATCH("/:id", h.Skill.PatchSkill)
					skills.PUT("/:id", h.Skill.ReplaceSkill)
					skills.DELETE("/:id", h.Skill.DeleteSkill)
				}

				experiences := adminPrivate.Group("/experiences")
				{
					experiences.GET("", h.Experience.ListExperiences)
					experiences.POST("", h.Experience.CreateExperience)
					experiences.GET("/:id", h.Experience.GetExperience)
					experiences.PATCH("/:id", h.Experience.PatchExperience)
					experiences.PUT("/:id", h.Experience.ReplaceExperience)
					experiences.DELETE("/:id", h.Experience.DeleteExperience)
				}

				certificates := adminPrivate.Group("/certificates")
				{
					certificates.GET("", h.Certificate.ListCertificates)
					certificates.POST("", h.Certificate.CreateCertificate)
					certificates.GET("/:id", h.Certificate.GetCertificate)
					certificates.PATCH("/:id", h.Certificate.PatchCertificate)
					certificates.PUT("/:id", h.Certificate.ReplaceCertificate)
					certificates.DELETE("/:id", h.Certificate.DeleteCertificate)
				}
			}
		}
	}
	return router
}

func health(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DOWN", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	}
}
