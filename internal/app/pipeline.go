// Package app assembles the processing pipeline shared by the API server and the worker.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/hszk-dev/mediamind/internal/ai"
	"github.com/hszk-dev/mediamind/internal/config"
	"github.com/hszk-dev/mediamind/internal/domain/repository"
	"github.com/hszk-dev/mediamind/internal/infrastructure/cache"
	"github.com/hszk-dev/mediamind/internal/media"
	"github.com/hszk-dev/mediamind/internal/usecase"
)

// ErrMissingBackend is returned when the selected cache backend has no client.
var ErrMissingBackend = errors.New("cache backend client not configured")

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewTextCache returns the summary cache selected by cfg.Backend.
// redisClient is required for the redis backend and storage for the object backend.
func NewTextCache(cfg config.CacheConfig, redisClient *redis.Client, storage repository.ObjectStorage) (repository.TextCache, error) {
	switch cfg.Backend {
	case config.CacheBackendRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("%w: redis", ErrMissingBackend)
		}
		return cache.NewRedisTextCache(redisClient), nil
	case config.CacheBackendObject:
		if storage == nil {
			return nil, fmt.Errorf("%w: object", ErrMissingBackend)
		}
		return cache.NewObjectTextCache(storage), nil
	case config.CacheBackendDisk:
		return cache.NewDiskTextCache(cfg.DiskDir)
	default:
		return nil, fmt.Errorf("%w: CACHE_BACKEND=%q", config.ErrInvalidValue, cfg.Backend)
	}
}

// NewOpenAIClient builds the OpenAI client used for transcription and, by default, structuring.
func NewOpenAIClient(cfg config.OpenAIConfig) *ai.OpenAIClient {
	return ai.NewOpenAIClient(ai.OpenAIConfig{
		APIKey:             cfg.APIKey,
		BaseURL:            cfg.BaseURL,
		TranscriptionModel: cfg.TranscriptionModel,
		ChatModel:          cfg.ChatModel,
		Temperature:        cfg.Temperature,
	})
}

// NewTextGenerator returns the structuring model selected by cfg.AI.Provider.
// The returned close function releases provider resources and is never nil.
func NewTextGenerator(ctx context.Context, cfg *config.Config, openaiClient *ai.OpenAIClient) (ai.TextGenerator, func() error, error) {
	noop := func() error { return nil }

	switch cfg.AI.Provider {
	case config.ProviderOpenAI:
		return openaiClient, noop, nil
	case config.ProviderGemini:
		g, err := ai.NewGeminiGenerator(ctx, ai.GeminiConfig{
			APIKey:      cfg.Gemini.APIKey,
			Model:       cfg.Gemini.Model,
			Temperature: cfg.OpenAI.Temperature,
		})
		if err != nil {
			return nil, noop, err
		}
		return g, g.Close, nil
	default:
		return nil, noop, fmt.Errorf("%w: AI_PROVIDER=%q", config.ErrInvalidValue, cfg.AI.Provider)
	}
}

// NewDownloader returns a yt-dlp downloader whose output is compressed with
// ffmpeg when it exceeds the transcription upload limit.
func NewDownloader(cfg config.PipelineConfig) media.Downloader {
	ytdlpCfg := media.DefaultYTDLPConfig()
	ytdlpCfg.Path = cfg.YTDLPPath

	ffmpegCfg := media.DefaultFFmpegConfig()
	ffmpegCfg.FFmpegPath = cfg.FFmpegPath
	ffmpegCfg.MaxBytes = cfg.MaxAudioBytes

	return media.NewFittingDownloader(
		media.NewYTDLPDownloader(ytdlpCfg, nil),
		media.NewFFmpegCompressor(ffmpegCfg, nil),
	)
}

// VideoProcessingConfig returns the service configuration for cfg.
func VideoProcessingConfig(cfg config.PipelineConfig) usecase.VideoProcessingConfig {
	svcCfg := usecase.DefaultVideoProcessingConfig()
	if cfg.ScratchDir != "" {
		svcCfg.ScratchDir = cfg.ScratchDir
	}
	return svcCfg
}

// EnsureScratchDir creates the scratch base directory when one is configured.
func EnsureScratchDir(cfg config.PipelineConfig) error {
	if cfg.ScratchDir == "" {
		return nil
	}
	if err := os.MkdirAll(cfg.ScratchDir, 0o755); err != nil {
		return fmt.Errorf("failed to create scratch directory: %w", err)
	}
	return nil
}
