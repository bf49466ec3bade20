package handler

import (
	"errors"
	"net/http"

	"github.com/hszk-dev/mediamind/internal/domain/model"
	"github.com/hszk-dev/mediamind/internal/usecase"
)

type AddVideoRequest struct {
	Name string `json:"name"`
	Link string `json:"link"`
}

type AddVideoResponse struct {
	Message     string `json:"message"`
	VideoID     string `json:"video_id"`
	TotalVideos int    `json:"total_videos"`
}

type VideoEntryResponse struct {
	Name string `json:"name"`
	Link string `json:"link"`
}

// VideoCollectionHandler handles the shared video list.
type VideoCollectionHandler struct {
	svc usecase.VideoCollectionService
}

// NewVideoCollectionHandler creates a new VideoCollectionHandler.
func NewVideoCollectionHandler(svc usecase.VideoCollectionService) *VideoCollectionHandler {
	return &VideoCollectionHandler{svc: svc}
}

// Add handles POST /v1/video-collection/videos
func (h *VideoCollectionHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddVideoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	out, err := h.svc.AddVideo(r.Context(), req.Name, req.Link)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, AddVideoResponse{
		Message:     "Video added successfully",
		VideoID:     out.Entry.ID.String(),
		TotalVideos: out.Total,
	})
}

// List handles GET /v1/video-collection/videos
func (h *VideoCollectionHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ListVideos(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	resp := make([]VideoEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, VideoEntryResponse{Name: e.Name, Link: e.Link})
	}

	JSON(w, http.StatusOK, resp)
}

func (h *VideoCollectionHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrEmptyVideoName):
		Error(w, http.StatusBadRequest, "invalid_name", "Name is required")
	case errors.Is(err, model.ErrNameTooLong):
		Error(w, http.StatusBadRequest, "invalid_name", "Name exceeds maximum length")
	case errors.Is(err, model.ErrEmptyVideoURL),
		errors.Is(err, model.ErrInvalidVideoURL),
		errors.Is(err, model.ErrVideoURLTooLong):
		Error(w, http.StatusBadRequest, "invalid_link", "Link must be an absolute http(s) URL")
	default:
		Error(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
