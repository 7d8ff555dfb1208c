package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio/adapters/event"
	"github.com/khoahotran/portfolio/adapters/media_storage"
	"github.com/khoahotran/portfolio/adapters/persistence"
	mediaUC "github.com/khoahotran/portfolio/internal/application/usecase/media"
	"github.com/khoahotran/portfolio/internal/config"
	"github.com/khoahotran/portfolio/internal/domain/content"
	"github.com/khoahotran/portfolio/pkg/logger"
	"github.com/khoahotran/portfolio/pkg/tracing"
)

func main() {
	fmt.Println("Starting Portfolio Worker...")

	// Configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}
	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	if len(cfg.Kafka.Brokers) == 0 {
		log.Fatalf("FATAL: KAFKA_BROKERS is required by the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg, appLogger, "portfolio-worker")
	if err != nil {
		appLogger.Fatal("Cannot init tracer", err)
	}
	defer shutdownTracing()

	// Cloudinary Uploader
	uploader, err := media_storage.NewCloudinaryAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize uploader", err)
	}

	// Image references are checked against the content tables before deletion
	dbPool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect database", err)
	}
	defer dbPool.Close()

	// Worker Use Case
	cleanupUC := mediaUC.NewCleanupMediaUseCase(uploader, persistence.NewPostgresImageRefRepo(dbPool), appLogger)

	// Kafka Consumer
	consumer := event.NewContentEventConsumer(cfg, appLogger)
	defer consumer.Close()

	appLogger.Info("Worker listening for content events", zap.String("topic", cfg.Kafka.Topic), zap.String("group_id", cfg.Kafka.GroupID))

	tracer := otel.Tracer("portfolio/worker")
	err = consumer.Run(ctx, func(ctx context.Context, e content.Event) error {
		ctx, span := tracer.Start(ctx, "content_event."+string(e.EventType))
		defer span.End()
		span.SetAttributes(
			attribute.String("entity", string(e.Entity)),
			attribute.String("entity_id", e.EntityID.String()),
		)
		appLogger.WithContext(ctx).Info("Processing event",
			zap.String("event_type", string(e.EventType)),
			zap.String("entity", string(e.Entity)),
			zap.String("entity_id", e.EntityID.String()),
		)
		deleted, err := cleanupUC.Execute(ctx, e)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "cleanup failed")
			return err
		}
		span.SetAttributes(attribute.Bool("image_deleted", deleted))
		return nil
	})
	if err != nil {
		appLogger.Error("Worker stopped with error", err)
		os.Exit(1)
	}
	appLogger.Info("Worker exited")
}
