package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hszk-dev/mediamind/internal/domain/model"
	"github.com/hszk-dev/mediamind/internal/domain/repository"
	"github.com/hszk-dev/mediamind/internal/infrastructure/metrics"
)

const (
	// DefaultMaxRetries is the default maximum number of retry attempts before a task is dropped.
	DefaultMaxRetries = 3
)

// PrewarmServiceConfig holds configuration for PrewarmService.
type PrewarmServiceConfig struct {
	// MaxRetries is the number of times a failed task is requeued before it is dropped.
	MaxRetries int
}

// DefaultPrewarmServiceConfig returns the default configuration.
func DefaultPrewarmServiceConfig() PrewarmServiceConfig {
	return PrewarmServiceConfig{
		MaxRetries: DefaultMaxRetries,
	}
}

// PrewarmService fills the text cache ahead of user requests.
type PrewarmService interface {
	// ProcessTask handles a prewarm task from the message queue.
	// Returns nil on success or permanent failure (max retries exceeded).
	// Returns error for failures that should trigger a retry.
	ProcessTask(ctx context.Context, task repository.ProcessTask) error
}

type prewarmService struct {
	processor  VideoProcessingService
	maxRetries int
}

// NewPrewarmService creates a new PrewarmService instance.
func NewPrewarmService(processor VideoProcessingService, cfg PrewarmServiceConfig) PrewarmService {
	return &prewarmService{
		processor:  processor,
		maxRetries: cfg.MaxRetries,
	}
}

func (s *prewarmService) ProcessTask(ctx context.Context, task repository.ProcessTask) error {
	req, err := model.NewProcessRequest(task.VideoURL)
	if err != nil {
		slog.Error("dropping prewarm task with invalid url",
			"video_url", task.VideoURL,
			"error", err,
		)
		metrics.PrewarmTasksTotal.WithLabelValues(metrics.PrewarmDropped).Inc()
		return nil
	}

	result := s.processor.Process(ctx, req)

	switch {
	case result.Source == model.SourceCache:
		metrics.PrewarmTasksTotal.WithLabelValues(metrics.PrewarmCached).Inc()
		return nil
	case !result.IsError():
		metrics.PrewarmTasksTotal.WithLabelValues(metrics.PrewarmProcessed).Inc()
		return nil
	case task.RetryCount >= s.maxRetries:
		slog.Error("dropping prewarm task after max retries",
			"video_url", req.VideoURL,
			"retry_count", task.RetryCount,
			"error", result.ErrorMessage,
		)
		metrics.PrewarmTasksTotal.WithLabelValues(metrics.PrewarmDropped).Inc()
		return nil
	default:
		metrics.PrewarmTasksTotal.WithLabelValues(metrics.PrewarmRetried).Inc()
		return fmt.Errorf("prewarm %s: %s", req.VideoURL, result.ErrorMessage)
	}
}
