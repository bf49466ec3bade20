package model

import (
	"errors"
	"net/url"
	"strings"
)

// Source tells the caller where a ProcessResult came from.
type Source string

const (
	SourceCache     Source = "cache"
	SourceProcessed Source = "processed"
	SourceError     Source = "error"
)

func (s Source) String() string {
	return string(s)
}

var (
	ErrEmptyVideoURL   = errors.New("video URL cannot be empty")
	ErrInvalidVideoURL = errors.New("video URL must be an absolute http(s) URL")
	ErrVideoURLTooLong = errors.New("video URL exceeds maximum length of 2083 characters")

	// ErrDownload means the upstream source rejected the request or produced no audio.
	ErrDownload = errors.New("failed to download audio content")
	// ErrTranscription means the speech-to-text service rejected the request or failed.
	ErrTranscription = errors.New("transcription service error")
	// ErrProcessing covers local failures (I/O, missing tools, cancellation).
	ErrProcessing = errors.New("processing error")
)

const maxVideoURLLength = 2083

// ProcessRequest is a validated request to summarize a video.
type ProcessRequest struct {
	VideoURL string
}

// NewProcessRequest validates raw and returns a request holding its normalized form.
func NewProcessRequest(raw string) (*ProcessRequest, error) {
	normalized, err := NormalizeVideoURL(raw)
	if err != nil {
		return nil, err
	}
	return &ProcessRequest{VideoURL: normalized}, nil
}

// NormalizeVideoURL validates raw as an absolute http(s) URL and returns it
// with a lowercase scheme and host. An empty path becomes "/".
func NormalizeVideoURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyVideoURL
	}
	if len(raw) > maxVideoURLLength {
		return "", ErrVideoURLTooLong
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", ErrInvalidVideoURL
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrInvalidVideoURL
	}
	if u.Hostname() == "" {
		return "", ErrInvalidVideoURL
	}

	u.Host = strings.ToLower(u.Host)
	if u.Path == "" && u.RawPath == "" {
		u.Path = "/"
	}

	return u.String(), nil
}

// ProcessResult is the outcome of one pipeline run.
// A result with SourceError always has empty StructuredText and a non-empty ErrorMessage.
type ProcessResult struct {
	StructuredText string
	Source         Source
	ErrorMessage   string
}

// CachedResult returns a result served from the cache.
func CachedResult(text string) *ProcessResult {
	return &ProcessResult{StructuredText: text, Source: SourceCache}
}

// ProcessedResult returns a result computed by the pipeline.
func ProcessedResult(text string) *ProcessResult {
	return &ProcessResult{StructuredText: text, Source: SourceProcessed}
}

// ErrorResult converts a pipeline failure into a result.
func ErrorResult(err error) *ProcessResult {
	msg := ErrProcessing.Error()
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return &ProcessResult{Source: SourceError, ErrorMessage: msg}
}

// IsError reports whether the pipeline failed.
func (r *ProcessResult) IsError() bool {
	return r.Source == SourceError
}
