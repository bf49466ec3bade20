package media

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hszk-dev/mediamind/internal/domain/model"
)

func TestDefaultFFmpegConfig(t *testing.T) {
	cfg := DefaultFFmpegConfig()

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"FFmpegPath", cfg.FFmpegPath, "ffmpeg"},
		{"MaxBytes", cfg.MaxBytes, int64(25 << 20)},
		{"SampleRate", cfg.SampleRate, 16000},
		{"Bitrate", cfg.Bitrate, "48k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %v, expected %v", tt.got, tt.expected)
			}
		})
	}
}

func TestFFmpegCompressor_BuildArgs(t *testing.T) {
	c := NewFFmpegCompressor(DefaultFFmpegConfig(), &fakeRunner{})
	args := c.buildArgs("/work/in.webm", "/work/in.compressed.mp3")

	joined := strings.Join(args, " ")
	for _, want := range []string{"-i /work/in.webm", "-vn", "-ac 1", "-ar 16000", "-b:a 48k", "-y"} {
		if !strings.Contains(joined, want) {
			t.Errorf("args %q missing %q", joined, want)
		}
	}
	if args[len(args)-1] != "/work/in.compressed.mp3" {
		t.Errorf("last arg = %s, want output path", args[len(args)-1])
	}
}

func TestFFmpegCompressor_Fit(t *testing.T) {
	t.Run("small file passes through", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "a.mp3")
		writeFile(t, path)
		runner := &fakeRunner{}
		c := NewFFmpegCompressor(DefaultFFmpegConfig(), runner)

		got, err := c.Fit(context.Background(), path)
		if err != nil {
			t.Fatalf("Fit() unexpected error: %v", err)
		}
		if got != path {
			t.Errorf("Fit() = %s, want %s", got, path)
		}
		if runner.calls != 0 {
			t.Errorf("ffmpeg ran %d times, want 0", runner.calls)
		}
	})

	t.Run("large file is compressed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "a.webm")
		writeFile(t, path)
		runner := &fakeRunner{
			runFn: func(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
				writeFile(t, args[len(args)-1])
				return nil, nil
			},
		}
		cfg := DefaultFFmpegConfig()
		cfg.MaxBytes = 1
		c := NewFFmpegCompressor(cfg, runner)

		got, err := c.Fit(context.Background(), path)
		if err != nil {
			t.Fatalf("Fit() unexpected error: %v", err)
		}
		if !strings.HasSuffix(got, "a.compressed.mp3") {
			t.Errorf("Fit() = %s, want compressed copy", got)
		}
	})

	t.Run("ffmpeg failure is a processing error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "a.webm")
		writeFile(t, path)
		runner := &fakeRunner{
			runFn: func(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
				return nil, errors.New("exit status 1")
			},
		}
		cfg := DefaultFFmpegConfig()
		cfg.MaxBytes = 1
		c := NewFFmpegCompressor(cfg, runner)

		_, err := c.Fit(context.Background(), path)
		if !errors.Is(err, model.ErrProcessing) {
			t.Errorf("Fit() error = %v, want %v", err, model.ErrProcessing)
		}
	})

	t.Run("missing input", func(t *testing.T) {
		c := NewFFmpegCompressor(DefaultFFmpegConfig(), &fakeRunner{})
		_, err := c.Fit(context.Background(), "/non/existent/file.mp3")
		if !errors.Is(err, model.ErrProcessing) {
			t.Errorf("Fit() error = %v, want %v", err, model.ErrProcessing)
		}
	})
}

func TestFittingDownloader(t *testing.T) {
	dir := t.TempDir()
	inner := NewYTDLPDownloader(DefaultYTDLPConfig(), &fakeRunner{
		runFn: func(ctx context.Context, d, name string, args ...string) ([]byte, error) {
			writeFile(t, filepath.Join(dir, "x.mp3"))
			return nil, nil
		},
	})
	d := NewFittingDownloader(inner, NewFFmpegCompressor(DefaultFFmpegConfig(), &fakeRunner{}))

	got, err := d.Download(context.Background(), "https://example.com/v", dir)
	if err != nil {
		t.Fatalf("Download() unexpected error: %v", err)
	}
	if got != filepath.Join(dir, "x.mp3") {
		t.Errorf("Download() = %s, want x.mp3 in dir", got)
	}
}

func TestFittingDownloader_PropagatesDownloadError(t *testing.T) {
	inner := NewYTDLPDownloader(DefaultYTDLPConfig(), &fakeRunner{})
	d := NewFittingDownloader(inner, NewFFmpegCompressor(DefaultFFmpegConfig(), &fakeRunner{}))

	_, err := d.Download(context.Background(), "https://example.com/v", t.TempDir())
	if !errors.Is(err, model.ErrDownload) {
		t.Errorf("Download() error = %v, want %v", err, model.ErrDownload)
	}
}
