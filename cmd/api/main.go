package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/hszk-dev/mediamind/internal/api/handler"
	"github.com/hszk-dev/mediamind/internal/api/middleware"
	"github.com/hszk-dev/mediamind/internal/app"
	"github.com/hszk-dev/mediamind/internal/config"
	"github.com/hszk-dev/mediamind/internal/infrastructure/postgres"
	"github.com/hszk-dev/mediamind/internal/infrastructure/queue"
	"github.com/hszk-dev/mediamind/internal/infrastructure/storage"
	"github.com/hszk-dev/mediamind/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type handlers struct {
	health          *handler.HealthHandler
	videoProcessing *handler.VideoProcessingHandler
	videoCollection *handler.VideoCollectionHandler
	goal            *handler.GoalHandler
	profile         *handler.ProfileHandler
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := app.EnsureScratchDir(cfg.Pipeline); err != nil {
		return err
	}

	// Initialize infrastructure clients
	pgClient, err := postgres.NewClient(ctx, postgres.DefaultClientConfig(cfg.Database.DSN()))
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pgClient.Close()

	if err := pgClient.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	prometheus.MustRegister(postgres.NewPoolCollector(pgClient.Stats))
	logger.Info("connected to PostgreSQL")

	storageClient, err := storage.NewClient(ctx, storage.ClientConfig{
		Endpoint:     cfg.MinIO.Endpoint,
		AccessKey:    cfg.MinIO.AccessKey,
		SecretKey:    cfg.MinIO.SecretKey,
		Bucket:       cfg.MinIO.Bucket,
		UseSSL:       cfg.MinIO.UseSSL,
		CreateBucket: cfg.MinIO.CreateBucket,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to MinIO: %w", err)
	}
	logger.Info("connected to MinIO", slog.String("bucket", cfg.MinIO.Bucket))

	queueClient, err := queue.NewClient(ctx, queue.DefaultClientConfig(cfg.RabbitMQ.URL()))
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer queueClient.Close()
	logger.Info("connected to RabbitMQ")

	checks := map[string]handler.Pinger{
		"postgres": pgClient,
		"minio":    storageClient,
		"rabbitmq": queueClient,
	}

	var redisClient *redis.Client
	if cfg.Cache.Backend == config.CacheBackendRedis {
		redisClient, err = app.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		logger.Info("connected to Redis")

		checks["redis"] = handler.PingerFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	textCache, err := app.NewTextCache(cfg.Cache, redisClient, storageClient)
	if err != nil {
		return fmt.Errorf("failed to create cache: %w", err)
	}
	logger.Info("summary cache ready", slog.String("backend", cfg.Cache.Backend))

	openaiClient := app.NewOpenAIClient(cfg.OpenAI)
	generator, closeGenerator, err := app.NewTextGenerator(ctx, cfg, openaiClient)
	if err != nil {
		return fmt.Errorf("failed to create text generator: %w", err)
	}
	defer func() {
		if err := closeGenerator(); err != nil {
			logger.Warn("failed to close text generator", slog.String("error", err.Error()))
		}
	}()

	// Initialize repositories and services
	pool := pgClient.Pool()
	videoProcessingSvc := usecase.NewVideoProcessingService(
		textCache,
		app.NewDownloader(cfg.Pipeline),
		openaiClient,
		generator,
		app.VideoProcessingConfig(cfg.Pipeline),
	)
	videoCollectionSvc := usecase.NewVideoCollectionService(postgres.NewVideoCollectionRepository(pool), queueClient)
	goalSvc := usecase.NewGoalService(postgres.NewGoalRepository(pool))
	profileSvc := usecase.NewProfileService(postgres.NewProfileRepository(pool), storageClient)

	h := handlers{
		health:          handler.NewHealthHandler(checks, 2*time.Second),
		videoProcessing: handler.NewVideoProcessingHandler(videoProcessingSvc),
		videoCollection: handler.NewVideoCollectionHandler(videoCollectionSvc),
		goal:            handler.NewGoalHandler(goalSvc),
		profile:         handler.NewProfileHandler(profileSvc),
	}

	limiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		Burst:             cfg.RateLimit.Burst,
	})

	r := setupRouter(logger, h, limiter)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			slog.Int("port", cfg.Server.Port),
			slog.String("ai_provider", cfg.AI.Provider),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func setupRouter(logger *slog.Logger, h handlers, limiter *middleware.RateLimiter) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	r.Get("/health", h.health.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.With(limiter.Handler).Post("/video-processing/process", h.videoProcessing.Process)

		r.Route("/video-collection/videos", func(r chi.Router) {
			r.Get("/", h.videoCollection.List)
			r.Post("/", h.videoCollection.Add)
		})

		r.Route("/goals", func(r chi.Router) {
			r.Use(middleware.Authenticate)
			r.Get("/types", h.goal.ListTypes)
			r.Post("/types", h.goal.CreateType)
			r.Put("/types/{id}", h.goal.UpdateType)
			r.Delete("/types/{id}", h.goal.DeleteType)
			r.Get("/", h.goal.List)
			r.Post("/", h.goal.Create)
			r.Put("/{id}", h.goal.Update)
			r.Delete("/{id}", h.goal.Delete)
		})

		r.Route("/profile", func(r chi.Router) {
			r.Use(middleware.Authenticate)
			r.Post("/", h.profile.Save)
			r.Get("/me", h.profile.Me)
			r.Get("/health", h.profile.Health)
			r.Post("/picture", h.profile.UploadPicture)
			r.Post("/media", h.profile.UploadMedia)
		})

		r.Get("/profiles/public", h.profile.ListPublic)
		r.Get("/profiles/{user_id}", h.profile.Get)
		r.Get("/profiles/{user_id}/picture", h.profile.Picture)
		r.Get("/profiles/{user_id}/media/{media_id}", h.profile.Media)
	})

	return r
}
