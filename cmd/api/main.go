package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/facestream-labs/facestream/internal/api"
	"github.com/facestream-labs/facestream/internal/config"
	"github.com/facestream-labs/facestream/internal/database"
	"github.com/facestream-labs/facestream/internal/gallery"
	"github.com/facestream-labs/facestream/internal/pipeline"
	"github.com/facestream-labs/facestream/internal/provider"
	"github.com/facestream-labs/facestream/internal/reclog"
	"github.com/facestream-labs/facestream/internal/repository"
	"github.com/facestream-labs/facestream/internal/service"
	"github.com/facestream-labs/facestream/internal/track"
	"github.com/facestream-labs/facestream/internal/ws"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting FaceStream API",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
		slog.String("provider", cfg.ProviderType),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	pool, err := database.NewPool(ctx, database.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	identityRepo := repository.NewIdentityRepository(pool)
	embeddingRepo := repository.NewEmbeddingRepository(pool)
	logRepo := repository.NewRecognitionLogRepository(pool)

	// Provider backends
	detector, extractor, err := provider.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}

	// Gallery snapshot cache
	store := gallery.NewStore(embeddingRepo, cfg.GalleryTTL, logger)

	// Write-behind recognition log worker
	worker := reclog.NewWorker(logRepo, logger)
	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()
	go worker.Run(workerCtx)

	// Frame pipeline
	p := pipeline.New(detector, extractor, store, worker, pipeline.Config{
		MatchThreshold:      cfg.MatchThreshold,
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		MinFaceSize:         cfg.MinFaceSize,
	}, logger)

	sessionCfg := pipeline.SessionConfig{
		Tracker: track.Config{
			IoUThreshold:   cfg.IoUThreshold,
			MaxLostFrames:  cfg.MaxLostFrames,
			SmoothingAlpha: cfg.SmoothingAlpha,
		},
		MaxFrameRate: cfg.MaxFrameRate,
	}

	enrollment := service.NewEnrollmentService(
		identityRepo,
		embeddingRepo,
		detector,
		extractor,
		store,
		service.EnrollmentConfig{
			MinFaceSize:        cfg.MinFaceSize,
			EmbeddingDimension: cfg.EmbeddingDimension,
		},
		logger,
	)

	router := api.NewRouter(logger, &api.Dependencies{
		Enrollment: enrollment,
		LogRepo:    logRepo,
		Pipeline:   p,
		SessionCfg: sessionCfg,
		Hub:        ws.NewHub(),
		ReadyCheck: func(ctx context.Context) error {
			return database.HealthCheck(ctx, pool)
		},
	})
	router.Setup()

	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down server...")
	if err := router.Shutdown(); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	// Flush pending recognition logs before exit.
	worker.Stop()

	<-shutdownCtx.Done()
	logger.Info("server stopped")

	return nil
}
