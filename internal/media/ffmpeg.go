package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hszk-dev/mediamind/internal/domain/model"
)

// FFmpegConfig holds configuration for the FFmpeg audio compressor.
type FFmpegConfig struct {
	// FFmpegPath is the path to the ffmpeg binary.
	// If empty, "ffmpeg" will be used (assumes it's in PATH).
	FFmpegPath string

	// MaxBytes is the largest file passed through untouched.
	// Zero disables compression.
	// Default: 25 MiB, the transcription upload limit.
	MaxBytes int64

	// SampleRate of the re-encoded audio in Hz.
	// Default: 16000
	SampleRate int

	// Bitrate of the re-encoded audio.
	// Default: 48k
	Bitrate string
}

// DefaultFFmpegConfig returns an FFmpegConfig with production-ready defaults.
func DefaultFFmpegConfig() FFmpegConfig {
	return FFmpegConfig{
		FFmpegPath: "ffmpeg",
		MaxBytes:   25 << 20,
		SampleRate: 16000,
		Bitrate:    "48k",
	}
}

// FFmpegCompressor re-encodes oversized audio into low-bitrate mono audio.
type FFmpegCompressor struct {
	config FFmpegConfig
	runner CommandRunner
}

// NewFFmpegCompressor creates a compressor. A nil runner uses ExecRunner.
func NewFFmpegCompressor(cfg FFmpegConfig, runner CommandRunner) *FFmpegCompressor {
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = "ffmpeg"
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	return &FFmpegCompressor{config: cfg, runner: runner}
}

// Fit returns inputPath unchanged when it is within MaxBytes, otherwise the
// path of a compressed copy written next to it.
func (c *FFmpegCompressor) Fit(ctx context.Context, inputPath string) (string, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return "", fmt.Errorf("%w: stat audio: %v", model.ErrProcessing, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: audio path is a directory: %s", model.ErrProcessing, inputPath)
	}
	if c.config.MaxBytes <= 0 || info.Size() <= c.config.MaxBytes {
		return inputPath, nil
	}

	outputPath := compressedPath(inputPath)

	if _, err := c.runner.Run(ctx, filepath.Dir(inputPath), c.config.FFmpegPath, c.buildArgs(inputPath, outputPath)...); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: compression cancelled: %v", model.ErrProcessing, ctx.Err())
		}
		return "", fmt.Errorf("%w: ffmpeg execution failed: %v", model.ErrProcessing, err)
	}

	if _, err := os.Stat(outputPath); err != nil {
		return "", fmt.Errorf("%w: compressed audio missing: %v", model.ErrProcessing, err)
	}

	return outputPath, nil
}

// buildArgs constructs the FFmpeg command arguments.
func (c *FFmpegCompressor) buildArgs(inputPath, outputPath string) []string {
	return []string{
		"-i", inputPath,
		"-vn",
		"-ac", "1",
		"-ar", strconv.Itoa(c.config.SampleRate),
		"-b:a", c.config.Bitrate,
		"-y", // Overwrite output files without asking
		outputPath,
	}
}

func compressedPath(inputPath string) string {
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".compressed.mp3"
}

// FittingDownloader downloads with next and compresses the result when it is
// too large to upload for transcription.
type FittingDownloader struct {
	next       Downloader
	compressor *FFmpegCompressor
}

// Compile-time verification that FittingDownloader implements Downloader.
var _ Downloader = (*FittingDownloader)(nil)

// NewFittingDownloader wraps next with compressor.
func NewFittingDownloader(next Downloader, compressor *FFmpegCompressor) *FittingDownloader {
	return &FittingDownloader{next: next, compressor: compressor}
}

func (d *FittingDownloader) Download(ctx context.Context, videoURL, dir string) (string, error) {
	path, err := d.next.Download(ctx, videoURL, dir)
	if err != nil {
		return "", err
	}
	return d.compressor.Fit(ctx, path)
}
