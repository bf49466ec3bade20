package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/hszk-dev/mediamind/internal/domain/model"
	"github.com/hszk-dev/mediamind/internal/domain/repository"
)

// ErrPictureTooLarge is returned when an uploaded picture or gallery image
// exceeds model.MaxPictureSize.
var ErrPictureTooLarge = errors.New("picture exceeds maximum size of 5 MiB")

// sniffLen is the number of leading bytes http.DetectContentType inspects.
const sniffLen = 512

// UploadPictureInput contains an uploaded profile picture.
type UploadPictureInput struct {
	UserID uuid.UUID
	Reader io.Reader
	Size   int64
}

// UploadMediaInput contains one gallery image with its optional caption.
type UploadMediaInput struct {
	UserID      uuid.UUID
	Reader      io.Reader
	Size        int64
	Title       *string
	Description *string
}

// Picture is a stored image ready to be streamed.
// Caller is responsible for closing Body.
type Picture struct {
	Body        io.ReadCloser
	ContentType string
}

// ProfileService defines the interface for profile operations.
type ProfileService interface {
	// SaveProfile creates or replaces the caller's profile.
	// Reports whether the profile was newly created.
	SaveProfile(ctx context.Context, profile *model.Profile) (*model.Profile, bool, error)

	GetProfile(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	ProfileExists(ctx context.Context, userID uuid.UUID) (bool, error)
	ListPublicProfiles(ctx context.Context, search string) ([]*model.PublicProfile, error)

	UploadPicture(ctx context.Context, input UploadPictureInput) error

	// GetPicture returns repository.ErrObjectNotFound if no picture was uploaded.
	GetPicture(ctx context.Context, userID uuid.UUID) (*Picture, error)

	// UploadMedia stores an image and appends it to the profile's gallery.
	// Returns the updated profile.
	UploadMedia(ctx context.Context, input UploadMediaInput) (*model.Profile, error)

	// GetMedia returns repository.ErrMediaNotFound for unknown or foreign media.
	GetMedia(ctx context.Context, userID, mediaID uuid.UUID) (*Picture, error)
}

type profileService struct {
	repo    repository.ProfileRepository
	storage repository.ObjectStorage
}

// NewProfileService creates a new ProfileService instance.
func NewProfileService(repo repository.ProfileRepository, storage repository.ObjectStorage) ProfileService {
	return &profileService{
		repo:    repo,
		storage: storage,
	}
}

func (s *profileService) SaveProfile(ctx context.Context, profile *model.Profile) (*model.Profile, bool, error) {
	if err := profile.Validate(); err != nil {
		return nil, false, err
	}

	created, err := s.repo.Upsert(ctx, profile)
	if err != nil {
		return nil, false, fmt.Errorf("upsert profile: %w", err)
	}

	saved, err := s.repo.GetByUserID(ctx, profile.UserID)
	if err != nil {
		return nil, false, fmt.Errorf("reload profile: %w", err)
	}

	return saved, created, nil
}

func (s *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

func (s *profileService) ProfileExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	exists, err := s.repo.Exists(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("check profile: %w", err)
	}
	return exists, nil
}

func (s *profileService) ListPublicProfiles(ctx context.Context, search string) ([]*model.PublicProfile, error) {
	profiles, err := s.repo.ListPublic(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, fmt.Errorf("list public profiles: %w", err)
	}
	return profiles, nil
}

// readImage checks size and sniffs the content type instead of trusting the
// client's. The returned reader replays the sniffed bytes.
func readImage(r io.Reader, size int64) (io.Reader, string, error) {
	if size == 0 {
		return nil, "", model.ErrEmptyPicture
	}
	if size > model.MaxPictureSize {
		return nil, "", ErrPictureTooLarge
	}

	body, contentType, err := sniff(r)
	if err != nil {
		return nil, "", err
	}
	if contentType == "" {
		return nil, "", model.ErrEmptyPicture
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", model.ErrUnsupportedPicture
	}
	return body, contentType, nil
}

// sniff reads up to sniffLen bytes of r. contentType is empty when r is empty.
func sniff(r io.Reader) (body io.Reader, contentType string, err error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, "", fmt.Errorf("read upload: %w", err)
	}
	if n == 0 {
		return r, "", nil
	}
	head = head[:n]
	return io.MultiReader(bytes.NewReader(head), r), http.DetectContentType(head), nil
}

func (s *profileService) UploadPicture(ctx context.Context, input UploadPictureInput) error {
	body, contentType, err := readImage(input.Reader, input.Size)
	if err != nil {
		return err
	}

	exists, err := s.repo.Exists(ctx, input.UserID)
	if err != nil {
		return fmt.Errorf("check profile: %w", err)
	}
	if !exists {
		return repository.ErrProfileNotFound
	}

	key := model.ProfilePictureKey(input.UserID)
	if err := s.storage.Upload(ctx, key, body, input.Size, contentType); err != nil {
		return fmt.Errorf("upload picture: %w", err)
	}

	if err := s.repo.SetPicture(ctx, input.UserID, key, contentType); err != nil {
		return fmt.Errorf("record picture: %w", err)
	}

	return nil
}

func (s *profileService) GetPicture(ctx context.Context, userID uuid.UUID) (*Picture, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if !profile.HasPicture() {
		return nil, repository.ErrObjectNotFound
	}

	body, err := s.storage.Download(ctx, *profile.PictureKey)
	if err != nil {
		return nil, fmt.Errorf("download picture: %w", err)
	}

	contentType := "application/octet-stream"
	if profile.PictureContentType != nil && *profile.PictureContentType != "" {
		contentType = *profile.PictureContentType
	}

	return &Picture{Body: body, ContentType: contentType}, nil
}

func (s *profileService) UploadMedia(ctx context.Context, input UploadMediaInput) (*model.Profile, error) {
	body, contentType, err := readImage(input.Reader, input.Size)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.Exists(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("check profile: %w", err)
	}
	if !exists {
		return nil, repository.ErrProfileNotFound
	}

	mediaID := uuid.New()
	if err := s.storage.Upload(ctx, model.ProfileMediaKey(input.UserID, mediaID), body, input.Size, contentType); err != nil {
		return nil, fmt.Errorf("upload media: %w", err)
	}

	media := &model.Media{
		ID:          mediaID,
		MediaType:   model.MediaTypeImage,
		URL:         model.ProfileMediaURL(input.UserID, mediaID),
		Title:       nonBlank(input.Title),
		Description: nonBlank(input.Description),
	}
	if err := s.repo.AddMedia(ctx, input.UserID, media); err != nil {
		return nil, fmt.Errorf("record media: %w", err)
	}

	profile, err := s.repo.GetByUserID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("reload profile: %w", err)
	}
	return profile, nil
}

func (s *profileService) GetMedia(ctx context.Context, userID, mediaID uuid.UUID) (*Picture, error) {
	if _, err := s.repo.GetMedia(ctx, userID, mediaID); err != nil {
		return nil, fmt.Errorf("get media: %w", err)
	}

	rc, err := s.storage.Download(ctx, model.ProfileMediaKey(userID, mediaID))
	if err != nil {
		return nil, fmt.Errorf("download media: %w", err)
	}

	body, contentType, err := sniff(rc)
	if err != nil {
		rc.Close()
		return nil, err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &Picture{
		Body:        readCloser{Reader: body, Closer: rc},
		ContentType: contentType,
	}, nil
}

type readCloser struct {
	io.Reader
	io.Closer
}

func nonBlank(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
