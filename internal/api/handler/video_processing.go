package handler

import (
	"errors"
	"net/http"

	"github.com/hszk-dev/mediamind/internal/domain/model"
	"github.com/hszk-dev/mediamind/internal/usecase"
)

type ProcessVideoRequest struct {
	VideoLink string `json:"video_link"`
}

type ProcessVideoResponse struct {
	StructuredText string  `json:"structured_text"`
	Source         string  `json:"source"`
	ErrorMessage   *string `json:"error_message"`
}

// VideoProcessingHandler handles video summarization requests.
type VideoProcessingHandler struct {
	svc usecase.VideoProcessingService
}

// NewVideoProcessingHandler creates a new VideoProcessingHandler.
func NewVideoProcessingHandler(svc usecase.VideoProcessingService) *VideoProcessingHandler {
	return &VideoProcessingHandler{svc: svc}
}

// Process handles POST /v1/video-processing/process
//
// Pipeline failures are reported in the body with source "error" and status 200.
func (h *VideoProcessingHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req ProcessVideoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	processReq, err := model.NewProcessRequest(req.VideoLink)
	if err != nil {
		h.handleValidationError(w, err)
		return
	}

	result := h.svc.Process(r.Context(), processReq)

	JSON(w, http.StatusOK, toProcessVideoResponse(result))
}

func (h *VideoProcessingHandler) handleValidationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrEmptyVideoURL):
		Error(w, http.StatusBadRequest, "invalid_video_link", "Video link is required")
	case errors.Is(err, model.ErrVideoURLTooLong):
		Error(w, http.StatusBadRequest, "invalid_video_link", "Video link exceeds maximum length")
	default:
		Error(w, http.StatusBadRequest, "invalid_video_link", "Video link must be an absolute http(s) URL")
	}
}

func toProcessVideoResponse(result *model.ProcessResult) ProcessVideoResponse {
	resp := ProcessVideoResponse{
		StructuredText: result.StructuredText,
		Source:         result.Source.String(),
	}
	if result.IsError() {
		msg := result.ErrorMessage
		resp.ErrorMessage = &msg
	}
	return resp
}
