package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hszk-dev/mediamind/internal/domain/model"
	"github.com/hszk-dev/mediamind/internal/domain/repository"
	"github.com/hszk-dev/mediamind/internal/usecase"
)

const dateLayout = "2006-01-02"

// Date is a calendar date encoded as YYYY-MM-DD.
type Date struct {
	time.Time
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func datePtr(t *time.Time) *Date {
	if t == nil {
		return nil
	}
	return &Date{Time: *t}
}

func (d *Date) timePtr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

// Request/Response types

type LinkPayload struct {
	ID       *string `json:"id,omitempty"`
	LinkType string  `json:"link_type"`
	URL      string  `json:"url"`
}

type WorkExperiencePayload struct {
	ID          *string `json:"id,omitempty"`
	CompanyName string  `json:"company_name"`
	Role        string  `json:"role"`
	StartDate   Date    `json:"start_date"`
	EndDate     *Date   `json:"end_date"`
	Description *string `json:"description"`
}

type EducationPayload struct {
	ID              *string `json:"id,omitempty"`
	InstitutionName string  `json:"institution_name"`
	Degree          string  `json:"degree"`
	FieldOfStudy    string  `json:"field_of_study"`
	StartDate       Date    `json:"start_date"`
	EndDate         *Date   `json:"end_date"`
	Description     *string `json:"description"`
}

type MediaPayload struct {
	ID          *string `json:"id,omitempty"`
	MediaType   string  `json:"media_type"`
	URL         string  `json:"url"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type CodeSnippetPayload struct {
	ID       *string `json:"id,omitempty"`
	Title    string  `json:"title"`
	Code     string  `json:"code"`
	Language string  `json:"language"`
}

// ProfileRequest is the body of POST /v1/profile.
type ProfileRequest struct {
	FirstName       *string                 `json:"first_name"`
	LastName        *string                 `json:"last_name"`
	Bio             *string                 `json:"bio"`
	ElevatorPitch   *string                 `json:"elevator_pitch"`
	BusinessEmail   *string                 `json:"business_email"`
	PhoneNumber     *string                 `json:"phone_number"`
	Links           []LinkPayload           `json:"links"`
	WorkExperiences []WorkExperiencePayload `json:"work_experiences"`
	Educations      []EducationPayload      `json:"educations"`
	Media           []MediaPayload          `json:"media"`
	CodeSnippets    []CodeSnippetPayload    `json:"code_snippets"`
}

type ProfileResponse struct {
	ID            string  `json:"id"`
	UserID        string  `json:"user_id"`
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	Bio           *string `json:"bio"`
	ElevatorPitch *string `json:"elevator_pitch"`
	BusinessEmail *string `json:"business_email"`
	PhoneNumber   *string `json:"phone_number"`
	HasPicture    bool    `json:"has_picture"`

	Links           []LinkPayload           `json:"links"`
	WorkExperiences []WorkExperiencePayload `json:"work_experiences"`
	Educations      []EducationPayload      `json:"educations"`
	Media           []MediaPayload          `json:"media"`
	CodeSnippets    []CodeSnippetPayload    `json:"code_snippets"`
}

type PublicProfileResponse struct {
	UserID        string  `json:"user_id"`
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	Bio           *string `json:"bio"`
	ElevatorPitch *string `json:"elevator_pitch"`
}

type ProfileHealthResponse struct {
	ProfileExists bool `json:"profile_exists"`
}

// ProfileHandler handles portfolio profile requests.
type ProfileHandler struct {
	svc usecase.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(svc usecase.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// Save handles POST /v1/profile
func (h *ProfileHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req ProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	saved, created, err := h.svc.SaveProfile(r.Context(), req.toProfile(userID))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	JSON(w, status, toProfileResponse(saved))
}

// Me handles GET /v1/profile/me
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	h.writeProfile(w, r, userID)
}

// Get handles GET /v1/profiles/{user_id}
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUUIDParam(w, chi.URLParam(r, "user_id"), "invalid_user_id", "User ID must be a valid UUID")
	if !ok {
		return
	}
	h.writeProfile(w, r, userID)
}

func (h *ProfileHandler) writeProfile(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	profile, err := h.svc.GetProfile(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	JSON(w, http.StatusOK, toProfileResponse(profile))
}

// Health handles GET /v1/profile/health
func (h *ProfileHandler) Health(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	exists, err := h.svc.ProfileExists(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, ProfileHealthResponse{ProfileExists: exists})
}

// ListPublic handles GET /v1/profiles/public?search=
func (h *ProfileHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.svc.ListPublicProfiles(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	resp := make([]PublicProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		resp = append(resp, PublicProfileResponse{
			UserID:        p.UserID.String(),
			FirstName:     p.FirstName,
			LastName:      p.LastName,
			Bio:           p.Bio,
			ElevatorPitch: p.ElevatorPitch,
		})
	}
	JSON(w, http.StatusOK, resp)
}

// UploadPicture handles POST /v1/profile/picture (multipart field "file")
func (h *ProfileHandler) UploadPicture(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	file, size, ok := formImage(w, r)
	if !ok {
		return
	}
	defer file.Close()

	err := h.svc.UploadPicture(r.Context(), usecase.UploadPictureInput{
		UserID: userID,
		Reader: file,
		Size:   size,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeProfile(w, r, userID)
}

// Picture handles GET /v1/profiles/{user_id}/picture
func (h *ProfileHandler) Picture(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUUIDParam(w, chi.URLParam(r, "user_id"), "invalid_user_id", "User ID must be a valid UUID")
	if !ok {
		return
	}

	pic, err := h.svc.GetPicture(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	streamPicture(w, pic, "user_id", userID)
}

// UploadMedia handles POST /v1/profile/media (multipart field "file", optional
// form fields "title" and "description")
func (h *ProfileHandler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	file, size, ok := formImage(w, r)
	if !ok {
		return
	}
	defer file.Close()

	profile, err := h.svc.UploadMedia(r.Context(), usecase.UploadMediaInput{
		UserID:      userID,
		Reader:      file,
		Size:        size,
		Title:       formValue(r, "title"),
		Description: formValue(r, "description"),
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toProfileResponse(profile))
}

// Media handles GET /v1/profiles/{user_id}/media/{media_id}
func (h *ProfileHandler) Media(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUUIDParam(w, chi.URLParam(r, "user_id"), "invalid_user_id", "User ID must be a valid UUID")
	if !ok {
		return
	}
	mediaID, ok := parseUUIDParam(w, chi.URLParam(r, "media_id"), "invalid_media_id", "Media ID must be a valid UUID")
	if !ok {
		return
	}

	pic, err := h.svc.GetMedia(r.Context(), userID, mediaID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	streamPicture(w, pic, "media_id", mediaID)
}

func streamPicture(w http.ResponseWriter, pic *usecase.Picture, idKey string, id uuid.UUID) {
	defer pic.Body.Close()

	w.Header().Set("Content-Type", pic.ContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, pic.Body); err != nil {
		slog.Warn("failed to stream image", idKey, id, "error", err)
	}
}

// formImage returns the multipart "file" part, writing 413 or 400 on failure.
func formImage(w http.ResponseWriter, r *http.Request) (multipart.File, int64, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, model.MaxPictureSize+(1<<20))
	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			Error(w, http.StatusRequestEntityTooLarge, "picture_too_large", "Picture exceeds maximum size")
			return nil, 0, false
		}
		Error(w, http.StatusBadRequest, "invalid_request", "Multipart field \"file\" is required")
		return nil, 0, false
	}
	return file, header.Size, true
}

func formValue(r *http.Request, key string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	vs, ok := r.MultipartForm.Value[key]
	if !ok || len(vs) == 0 {
		return nil
	}
	return &vs[0]
}

func (h *ProfileHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrProfileNotFound):
		Error(w, http.StatusNotFound, "profile_not_found", "Profile not found")
	case errors.Is(err, repository.ErrMediaNotFound):
		Error(w, http.StatusNotFound, "media_not_found", "Media not found")
	case errors.Is(err, repository.ErrObjectNotFound):
		Error(w, http.StatusNotFound, "picture_not_found", "Profile picture not found")
	case errors.Is(err, usecase.ErrPictureTooLarge):
		Error(w, http.StatusRequestEntityTooLarge, "picture_too_large", "Picture exceeds maximum size")
	case errors.Is(err, model.ErrEmptyPicture):
		Error(w, http.StatusBadRequest, "invalid_picture", "Picture cannot be empty")
	case errors.Is(err, model.ErrUnsupportedPicture):
		Error(w, http.StatusUnsupportedMediaType, "invalid_picture", "Picture must be an image")
	case errors.Is(err, model.ErrEmptyLinkURL),
		errors.Is(err, model.ErrEmptyCompanyName),
		errors.Is(err, model.ErrEmptyInstitution),
		errors.Is(err, model.ErrEmptyMediaURL),
		errors.Is(err, model.ErrEmptySnippetCode),
		errors.Is(err, model.ErrInvalidDateRange):
		Error(w, http.StatusBadRequest, "invalid_profile", err.Error())
	default:
		Error(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

// parseOptionalID keeps client-supplied sub-record IDs; invalid or absent IDs become uuid.Nil
// and are assigned by the repository.
func parseOptionalID(s *string) uuid.UUID {
	if s == nil {
		return uuid.Nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*s))
	if err != nil {
		return uuid.Nil
	}
	return id
}

func idString(id uuid.UUID) *string {
	s := id.String()
	return &s
}

func (req ProfileRequest) toProfile(userID uuid.UUID) *model.Profile {
	p := &model.Profile{
		UserID:        userID,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Bio:           req.Bio,
		ElevatorPitch: req.ElevatorPitch,
		BusinessEmail: req.BusinessEmail,
		PhoneNumber:   req.PhoneNumber,
	}
	for _, l := range req.Links {
		p.Links = append(p.Links, model.Link{ID: parseOptionalID(l.ID), LinkType: l.LinkType, URL: l.URL})
	}
	for _, we := range req.WorkExperiences {
		p.WorkExperiences = append(p.WorkExperiences, model.WorkExperience{
			ID:          parseOptionalID(we.ID),
			CompanyName: we.CompanyName,
			Role:        we.Role,
			StartDate:   we.StartDate.Time,
			EndDate:     we.EndDate.timePtr(),
			Description: we.Description,
		})
	}
	for _, e := range req.Educations {
		p.Educations = append(p.Educations, model.Education{
			ID:              parseOptionalID(e.ID),
			InstitutionName: e.InstitutionName,
			Degree:          e.Degree,
			FieldOfStudy:    e.FieldOfStudy,
			StartDate:       e.StartDate.Time,
			EndDate:         e.EndDate.timePtr(),
			Description:     e.Description,
		})
	}
	for _, m := range req.Media {
		p.Media = append(p.Media, model.Media{
			ID:          parseOptionalID(m.ID),
			MediaType:   m.MediaType,
			URL:         m.URL,
			Title:       m.Title,
			Description: m.Description,
		})
	}
	for _, s := range req.CodeSnippets {
		p.CodeSnippets = append(p.CodeSnippets, model.CodeSnippet{
			ID:       parseOptionalID(s.ID),
			Title:    s.Title,
			Code:     s.Code,
			Language: s.Language,
		})
	}
	return p
}

func toProfileResponse(p *model.Profile) ProfileResponse {
	resp := ProfileResponse{
		ID:              p.ID.String(),
		UserID:          p.UserID.String(),
		FirstName:       p.FirstName,
		LastName:        p.LastName,
		Bio:             p.Bio,
		ElevatorPitch:   p.ElevatorPitch,
		BusinessEmail:   p.BusinessEmail,
		PhoneNumber:     p.PhoneNumber,
		HasPicture:      p.HasPicture(),
		Links:           make([]LinkPayload, 0, len(p.Links)),
		WorkExperiences: make([]WorkExperiencePayload, 0, len(p.WorkExperiences)),
		Educations:      make([]EducationPayload, 0, len(p.Educations)),
		Media:           make([]MediaPayload, 0, len(p.Media)),
		CodeSnippets:    make([]CodeSnippetPayload, 0, len(p.CodeSnippets)),
	}
	for _, l := range p.Links {
		resp.Links = append(resp.Links, LinkPayload{ID: idString(l.ID), LinkType: l.LinkType, URL: l.URL})
	}
	for _, we := range p.WorkExperiences {
		resp.WorkExperiences = append(resp.WorkExperiences, WorkExperiencePayload{
			ID:          idString(we.ID),
			CompanyName: we.CompanyName,
			Role:        we.Role,
			StartDate:   Date{Time: we.StartDate},
			EndDate:     datePtr(we.EndDate),
			Description: we.Description,
		})
	}
	for _, e := range p.Educations {
		resp.Educations = append(resp.Educations, EducationPayload{
			ID:              idString(e.ID),
			InstitutionName: e.InstitutionName,
			Degree:          e.Degree,
			FieldOfStudy:    e.FieldOfStudy,
			StartDate:       Date{Time: e.StartDate},
			EndDate:         datePtr(e.EndDate),
			Description:     e.Description,
		})
	}
	for _, m := range p.Media {
		resp.Media = append(resp.Media, MediaPayload{
			ID:          idString(m.ID),
			MediaType:   m.MediaType,
			URL:         m.URL,
			Title:       m.Title,
			Description: m.Description,
		})
	}
	for _, s := range p.CodeSnippets {
		resp.CodeSnippets = append(resp.CodeSnippets, CodeSnippetPayload{
			ID:       idString(s.ID),
			Title:    s.Title,
			Code:     s.Code,
			Language: s.Language,
		})
	}
	return resp
}
