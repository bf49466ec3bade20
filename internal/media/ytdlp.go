package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hszk-dev/mediamind/internal/domain/model"
)

// YTDLPConfig holds configuration for the yt-dlp downloader.
type YTDLPConfig struct {
	// Path is the yt-dlp binary. If empty, "yt-dlp" is looked up in PATH.
	Path string

	// AudioFormat is the container the audio is converted to.
	// Default: mp3
	AudioFormat string

	// AudioQuality is the target bitrate passed to the audio extractor.
	// Default: 192K
	AudioQuality string
}

// DefaultYTDLPConfig returns a YTDLPConfig with production-ready defaults.
func DefaultYTDLPConfig() YTDLPConfig {
	return YTDLPConfig{
		Path:         "yt-dlp",
		AudioFormat:  "mp3",
		AudioQuality: "192K",
	}
}

// YTDLPDownloader implements Downloader with the yt-dlp CLI.
type YTDLPDownloader struct {
	config YTDLPConfig
	runner CommandRunner
}

// Compile-time verification that YTDLPDownloader implements Downloader.
var _ Downloader = (*YTDLPDownloader)(nil)

// NewYTDLPDownloader creates a downloader. A nil runner uses ExecRunner.
func NewYTDLPDownloader(cfg YTDLPConfig, runner CommandRunner) *YTDLPDownloader {
	if cfg.Path == "" {
		cfg.Path = "yt-dlp"
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	return &YTDLPDownloader{config: cfg, runner: runner}
}

// Download fetches the best audio stream of videoURL into dir.
func (d *YTDLPDownloader) Download(ctx context.Context, videoURL, dir string) (string, error) {
	output, err := d.runner.Run(ctx, dir, d.config.Path, d.buildArgs(videoURL, dir)...)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: download cancelled: %v", model.ErrProcessing, ctx.Err())
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			slog.Warn("yt-dlp exited with error",
				"video_url", videoURL,
				"exit_code", exitErr.ExitCode(),
				"output", tail(string(output), 512),
			)
			return "", fmt.Errorf("%w: yt-dlp exit code %d", model.ErrDownload, exitErr.ExitCode())
		}

		return "", fmt.Errorf("%w: run yt-dlp: %v", model.ErrProcessing, err)
	}

	path, err := firstAudioFile(dir)
	if err != nil {
		return "", err
	}

	return path, nil
}

// buildArgs constructs the yt-dlp command line arguments.
func (d *YTDLPDownloader) buildArgs(videoURL, dir string) []string {
	args := []string{
		"--format", "bestaudio/best",
		"--extract-audio",
	}
	if d.config.AudioFormat != "" {
		args = append(args, "--audio-format", d.config.AudioFormat)
	}
	if d.config.AudioQuality != "" {
		args = append(args, "--audio-quality", d.config.AudioQuality)
	}
	return append(args,
		"--output", filepath.Join(dir, "%(id)s.%(ext)s"),
		"--no-playlist",
		"--no-check-certificates",
		"--quiet",
		"--no-warnings",
		"--",
		videoURL,
	)
}

// firstAudioFile returns the first regular file in dir, ignoring yt-dlp
// partial downloads.
func firstAudioFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("%w: read download dir: %v", model.ErrProcessing, err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() || strings.HasSuffix(name, ".part") || strings.HasSuffix(name, ".ytdl") {
			continue
		}
		return filepath.Join(dir, name), nil
	}

	return "", fmt.Errorf("%w: no audio file produced", model.ErrDownload)
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
