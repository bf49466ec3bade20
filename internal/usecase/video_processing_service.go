package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/hszk-dev/mediamind/internal/ai"
	"github.com/hszk-dev/mediamind/internal/domain/model"
	"github.com/hszk-dev/mediamind/internal/domain/repository"
	"github.com/hszk-dev/mediamind/internal/infrastructure/metrics"
	"github.com/hszk-dev/mediamind/internal/media"
)

// ErrInvalidStageTransition is returned when the pipeline attempts an illegal stage change.
var ErrInvalidStageTransition = errors.New("invalid pipeline stage transition")

// VideoProcessingService turns a video URL into a structured text summary.
type VideoProcessingService interface {
	// Process runs the pipeline for req. It never returns a Go error: every
	// failure is reported as a result with SourceError.
	Process(ctx context.Context, req *model.ProcessRequest) *model.ProcessResult
}

// VideoProcessingConfig holds configuration for VideoProcessingService.
type VideoProcessingConfig struct {
	// ScratchDir is the base directory for per-request download directories.
	ScratchDir string
}

// DefaultVideoProcessingConfig returns the default configuration.
func DefaultVideoProcessingConfig() VideoProcessingConfig {
	return VideoProcessingConfig{
		ScratchDir: os.TempDir(),
	}
}

type videoProcessingService struct {
	cache       repository.TextCache
	downloader  media.Downloader
	transcriber ai.Transcriber
	generator   ai.TextGenerator

	scratchDir string
}

// NewVideoProcessingService creates a new VideoProcessingService instance.
func NewVideoProcessingService(
	cache repository.TextCache,
	downloader media.Downloader,
	transcriber ai.Transcriber,
	generator ai.TextGenerator,
	cfg VideoProcessingConfig,
) VideoProcessingService {
	return &videoProcessingService{
		cache:       cache,
		downloader:  downloader,
		transcriber: transcriber,
		generator:   generator,
		scratchDir:  cfg.ScratchDir,
	}
}

// pipelineRun tracks the stage of one Process call.
type pipelineRun struct {
	videoURL string
	stage    model.Stage
	started  time.Time
}

func newPipelineRun(videoURL string) *pipelineRun {
	return &pipelineRun{
		videoURL: videoURL,
		stage:    model.StageCheckingCache,
		started:  time.Now(),
	}
}

// transition moves to next and records how long the previous stage took.
func (r *pipelineRun) transition(next model.Stage) error {
	if !r.stage.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStageTransition, r.stage, next)
	}

	now := time.Now()
	metrics.PipelineStageDuration.WithLabelValues(r.stage.String()).Observe(now.Sub(r.started).Seconds())
	r.stage = next
	r.started = now
	return nil
}

func (s *videoProcessingService) Process(ctx context.Context, req *model.ProcessRequest) *model.ProcessResult {
	result := s.run(ctx, newPipelineRun(req.VideoURL))
	metrics.PipelineResultsTotal.WithLabelValues(result.Source.String()).Inc()
	return result
}

func (s *videoProcessingService) run(ctx context.Context, run *pipelineRun) *model.ProcessResult {
	key := model.DeriveCacheKey(run.videoURL)

	if text, ok := s.lookup(ctx, key); ok {
		if err := run.transition(model.StageDone); err != nil {
			return s.fail(run, err)
		}
		return model.CachedResult(text)
	}

	if err := run.transition(model.StageDownloading); err != nil {
		return s.fail(run, err)
	}

	workDir, err := os.MkdirTemp(s.scratchDir, "mediamind-*")
	if err != nil {
		return s.fail(run, fmt.Errorf("%w: create scratch directory: %v", model.ErrProcessing, err))
	}
	defer s.cleanup(workDir)

	audioPath, err := s.downloader.Download(ctx, run.videoURL, workDir)
	if err != nil {
		return s.fail(run, err)
	}

	if err := run.transition(model.StageTranscribing); err != nil {
		return s.fail(run, err)
	}

	transcript, err := s.transcriber.Transcribe(ctx, audioPath, run.videoURL)
	if err != nil {
		return s.fail(run, err)
	}

	if err := run.transition(model.StageStructuring); err != nil {
		return s.fail(run, err)
	}

	text := s.structure(ctx, transcript, run.videoURL)

	if err := run.transition(model.StageCaching); err != nil {
		return s.fail(run, err)
	}

	s.store(ctx, key, text)

	if err := run.transition(model.StageDone); err != nil {
		return s.fail(run, err)
	}

	return model.ProcessedResult(text)
}

// lookup treats cache errors as misses.
func (s *videoProcessingService) lookup(ctx context.Context, key string) (string, bool) {
	text, found, err := s.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("cache lookup failed, processing anyway",
			"cache_key", key,
			"error", err,
		)
		return "", false
	}
	return text, found
}

// structure falls back to the raw transcript when generation fails or is blank.
func (s *videoProcessingService) structure(ctx context.Context, transcript, videoURL string) string {
	out, err := s.generator.Generate(ctx, ai.StructuringSystemPrompt, ai.StructuringUserPrompt(transcript))
	if err == nil && strings.TrimSpace(out) != "" {
		return out
	}

	slog.Warn("structuring failed, returning raw transcript",
		"video_url", videoURL,
		"error", err,
	)
	metrics.StructuringFallbacksTotal.Inc()
	return transcript
}

// store logs and drops cache write failures.
func (s *videoProcessingService) store(ctx context.Context, key, text string) {
	if err := s.cache.Put(ctx, key, text); err != nil {
		slog.Warn("failed to cache processed text",
			"cache_key", key,
			"error", err,
		)
	}
}

func (s *videoProcessingService) fail(run *pipelineRun, err error) *model.ProcessResult {
	slog.Error("video processing failed",
		"video_url", run.videoURL,
		"stage", run.stage.String(),
		"error", err,
	)
	if run.stage.CanTransitionTo(model.StageError) {
		_ = run.transition(model.StageError)
	}
	return model.ErrorResult(err)
}

// cleanup removes the request's scratch directory.
func (s *videoProcessingService) cleanup(workDir string) {
	if err := os.RemoveAll(workDir); err != nil {
		slog.Warn("failed to remove scratch directory", "dir", workDir, "error", err)
	}
}
