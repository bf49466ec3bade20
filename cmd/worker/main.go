// Command worker consumes prewarm tasks and runs the processing pipeline so
// that later API calls are served from cache.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hszk-dev/mediamind/internal/app"
	"github.com/hszk-dev/mediamind/internal/config"
	"github.com/hszk-dev/mediamind/internal/domain/repository"
	"github.com/hszk-dev/mediamind/internal/infrastructure/queue"
	"github.com/hszk-dev/mediamind/internal/infrastructure/storage"
	"github.com/hszk-dev/mediamind/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("component", "worker"))
	slog.SetDefault(logger)

	// signalCtx stops consumption; workCtx is only cancelled once the
	// shutdown grace period has run out.
	signalCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	workCtx, cancelWork := context.WithCancel(context.Background())
	defer cancelWork()

	if err := app.EnsureScratchDir(cfg.Pipeline); err != nil {
		return err
	}

	consumer, err := queue.NewClient(signalCtx, queue.DefaultClientConfig(cfg.RabbitMQ.URL()))
	if err != nil {
		return fmt.Errorf("connect rabbitmq: %w", err)
	}
	defer consumer.Close()

	textCache, closeCache, err := openCache(signalCtx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	openaiClient := app.NewOpenAIClient(cfg.OpenAI)
	generator, closeGenerator, err := app.NewTextGenerator(signalCtx, cfg, openaiClient)
	if err != nil {
		return fmt.Errorf("create text generator: %w", err)
	}
	defer func() {
		if err := closeGenerator(); err != nil {
			logger.Warn("close text generator", slog.String("error", err.Error()))
		}
	}()

	prewarm := usecase.NewPrewarmService(
		usecase.NewVideoProcessingService(
			textCache,
			app.NewDownloader(cfg.Pipeline),
			openaiClient,
			generator,
			app.VideoProcessingConfig(cfg.Pipeline),
		),
		usecase.PrewarmServiceConfig{MaxRetries: cfg.Worker.MaxRetries},
	)

	var inflight sync.WaitGroup
	handle := func(task repository.ProcessTask) error {
		inflight.Add(1)
		defer inflight.Done()

		log := logger.With(slog.String("video_url", task.VideoURL), slog.Int("retry_count", task.RetryCount))
		if err := prewarm.ProcessTask(workCtx, task); err != nil {
			log.Warn("prewarm task failed", slog.String("error", err.Error()))
			return err
		}
		log.Info("prewarm task done")
		return nil
	}

	logger.Info("consuming prewarm tasks",
		slog.String("cache_backend", cfg.Cache.Backend),
		slog.String("ai_provider", cfg.AI.Provider),
	)
	consumeErr := make(chan error, 1)
	go func() { consumeErr <- consumer.ConsumeProcessTasks(signalCtx, handle) }()

	select {
	case err := <-consumeErr:
		if signalCtx.Err() == nil {
			return fmt.Errorf("consume prewarm tasks: %w", err)
		}
	case <-signalCtx.Done():
	}

	logger.Info("draining in-flight tasks", slog.Duration("timeout", cfg.Worker.ShutdownTimeout))
	if !waitTimeout(&inflight, cfg.Worker.ShutdownTimeout) {
		cancelWork()
		logger.Warn("shutdown timeout exceeded, abandoning in-flight tasks")
	}
	logger.Info("worker stopped")
	return nil
}

// openCache connects only the backend the cache is configured for.
func openCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.TextCache, func(), error) {
	var (
		rdb     *redis.Client
		objects repository.ObjectStorage
		closer  = func() {}
	)

	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		c, err := app.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		rdb = c
		closer = func() { _ = c.Close() }
	case config.CacheBackendObject:
		c, err := storage.NewClient(ctx, storage.ClientConfig{
			Endpoint:     cfg.MinIO.Endpoint,
			AccessKey:    cfg.MinIO.AccessKey,
			SecretKey:    cfg.MinIO.SecretKey,
			Bucket:       cfg.MinIO.Bucket,
			UseSSL:       cfg.MinIO.UseSSL,
			CreateBucket: cfg.MinIO.CreateBucket,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connect minio: %w", err)
		}
		objects = c
	}

	textCache, err := app.NewTextCache(cfg.Cache, rdb, objects)
	if err != nil {
		closer()
		return nil, nil, fmt.Errorf("create cache: %w", err)
	}
	logger.Info("cache ready", slog.String("backend", cfg.Cache.Backend))
	return textCache, closer, nil
}

func waitTimeout(wg *sync.WaitGroup, d time.Duration) bool {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(d):
		return false
	}
}
