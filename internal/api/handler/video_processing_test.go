package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hszk-dev/mediamind/internal/domain/model"
)

func TestVideoProcessingHandler_Process(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		processFn      func(ctx context.Context, req *model.ProcessRequest) *model.ProcessResult
		wantStatusCode int
		checkResponse  func(t *testing.T, body []byte)
	}{
		{
			name: "processed",
			body: `{"video_link": "https://Example.com/v?id=42"}`,
			processFn: func(ctx context.Context, req *model.ProcessRequest) *model.ProcessResult {
				if req.VideoURL != "https://example.com/v?id=42" {
					return model.ErrorResult(model.ErrProcessing)
				}
				return model.ProcessedResult("# Summary")
			},
			wantStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, body []byte) {
				if !strings.Contains(string(body), `"error_message":null`) {
					t.Errorf("error_message should be null, body = %s", body)
				}
				var resp ProcessVideoResponse
				if err := json.Unmarshal(body, &resp); err != nil {
					t.Fatalf("failed to unmarshal response: %v", err)
				}
				if resp.Source != "processed" || resp.StructuredText != "# Summary" {
					t.Errorf("unexpected response: %+v", resp)
				}
			},
		},
		{
			name: "cached",
			body: `{"video_link": "https://example.com/v"}`,
			processFn: func(ctx context.Context, req *model.ProcessRequest) *model.ProcessResult {
				return model.CachedResult("cached text")
			},
			wantStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, body []byte) {
				var resp ProcessVideoResponse
				if err := json.Unmarshal(body, &resp); err != nil {
					t.Fatalf("failed to unmarshal response: %v", err)
				}
				if resp.Source != "cache" {
					t.Errorf("source = %s, want cache", resp.Source)
				}
			},
		},
		{
			name: "pipeline error is still 200",
			body: `{"video_link": "https://example.com/v"}`,
			processFn: func(ctx context.Context, req *model.ProcessRequest) *model.ProcessResult {
				return model.ErrorResult(model.ErrDownload)
			},
			wantStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, body []byte) {
				var resp ProcessVideoResponse
				if err := json.Unmarshal(body, &resp); err != nil {
					t.Fatalf("failed to unmarshal response: %v", err)
				}
				if resp.Source != "error" || resp.StructuredText != "" {
					t.Errorf("unexpected response: %+v", resp)
				}
				if resp.ErrorMessage == nil || *resp.ErrorMessage != model.ErrDownload.Error() {
					t.Errorf("error_message = %v, want %q", resp.ErrorMessage, model.ErrDownload.Error())
				}
			},
		},
		{
			name:           "invalid JSON body",
			body:           `not json`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "missing link",
			body:           `{}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "relative link",
			body:           `{"video_link": "/watch?v=1"}`,
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			svc := &mockVideoProcessingService{
				processFn: func(ctx context.Context, req *model.ProcessRequest) *model.ProcessResult {
					called = true
					return tt.processFn(ctx, req)
				},
			}
			h := NewVideoProcessingHandler(svc)

			r := chi.NewRouter()
			r.Post("/v1/video-processing/process", h.Process)

			req := httptest.NewRequest(http.MethodPost, "/v1/video-processing/process", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			r.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("expected status %d, got %d: %s", tt.wantStatusCode, rec.Code, rec.Body.String())
			}
			if tt.wantStatusCode == http.StatusBadRequest && called {
				t.Error("service should not be called for invalid requests")
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, rec.Body.Bytes())
			}
		})
	}
}
