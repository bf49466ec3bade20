package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/hszk-dev/mediamind/internal/domain/model"
	"github.com/hszk-dev/mediamind/internal/domain/repository"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func strPtr(s string) *string { return &s }

func TestProfileService_SaveProfile(t *testing.T) {
	userID := uuid.New()

	t.Run("returns reloaded profile", func(t *testing.T) {
		repo := &mockProfileRepository{
			upsertFn: func(ctx context.Context, p *model.Profile) (bool, error) { return false, nil },
			getByUserIDFn: func(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
				return &model.Profile{ID: uuid.New(), UserID: id, FirstName: strPtr("Ada")}, nil
			},
		}
		svc := NewProfileService(repo, &mockObjectStorage{})

		saved, created, err := svc.SaveProfile(context.Background(), &model.Profile{UserID: userID, FirstName: strPtr("Ada")})
		if err != nil {
			t.Fatalf("SaveProfile() unexpected error: %v", err)
		}
		if created {
			t.Error("created = true, want false")
		}
		if saved.ID == uuid.Nil || *saved.FirstName != "Ada" {
			t.Errorf("SaveProfile() = %+v", saved)
		}
	})

	t.Run("invalid sub-record", func(t *testing.T) {
		repo := &mockProfileRepository{
			upsertFn: func(ctx context.Context, p *model.Profile) (bool, error) {
				t.Error("Upsert should not be called")
				return false, nil
			},
		}
		svc := NewProfileService(repo, &mockObjectStorage{})

		_, _, err := svc.SaveProfile(context.Background(), &model.Profile{UserID: userID, Links: []model.Link{{LinkType: "github"}}})
		if !errors.Is(err, model.ErrEmptyLinkURL) {
			t.Errorf("SaveProfile() error = %v, want %v", err, model.ErrEmptyLinkURL)
		}
	})
}

func TestProfileService_GetProfile_NotFound(t *testing.T) {
	repo := &mockProfileRepository{
		getByUserIDFn: func(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
			return nil, repository.ErrProfileNotFound
		},
	}
	svc := NewProfileService(repo, &mockObjectStorage{})

	_, err := svc.GetProfile(context.Background(), uuid.New())
	if !errors.Is(err, repository.ErrProfileNotFound) {
		t.Errorf("GetProfile() error = %v, want %v", err, repository.ErrProfileNotFound)
	}
}

func TestProfileService_ListPublicProfiles_TrimsSearch(t *testing.T) {
	repo := &mockProfileRepository{
		listPublicFn: func(ctx context.Context, search string) ([]*model.PublicProfile, error) {
			if search != "ada" {
				t.Errorf("search = %q, want %q", search, "ada")
			}
			return []*model.PublicProfile{{UserID: uuid.New()}}, nil
		},
	}
	svc := NewProfileService(repo, &mockObjectStorage{})

	got, err := svc.ListPublicProfiles(context.Background(), "  ada ")
	if err != nil {
		t.Fatalf("ListPublicProfiles() unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("len = %d, want 1", len(got))
	}
}

func TestProfileService_UploadPicture(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name      string
		body      []byte
		size      int64
		exists    bool
		uploadErr error
		wantErr   error
	}{
		{name: "png", body: pngHeader, size: int64(len(pngHeader)), exists: true},
		{name: "empty", body: nil, size: 0, exists: true, wantErr: model.ErrEmptyPicture},
		{name: "too large", body: pngHeader, size: model.MaxPictureSize + 1, exists: true, wantErr: ErrPictureTooLarge},
		{name: "not an image", body: []byte("hello, plain text"), size: 17, exists: true, wantErr: model.ErrUnsupportedPicture},
		{name: "no profile", body: pngHeader, size: int64(len(pngHeader)), exists: false, wantErr: repository.ErrProfileNotFound},
		{name: "storage failure", body: pngHeader, size: int64(len(pngHeader)), exists: true, uploadErr: errors.New("minio down"), wantErr: errors.New("minio down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var uploaded []byte
			var recordedKey, recordedType string
			storage := &mockObjectStorage{
				uploadFn: func(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
					if tt.uploadErr != nil {
						return tt.uploadErr
					}
					b, err := io.ReadAll(reader)
					if err != nil {
						t.Fatalf("read upload: %v", err)
					}
					uploaded = b
					return nil
				},
			}
			repo := &mockProfileRepository{
				existsFn: func(ctx context.Context, id uuid.UUID) (bool, error) { return tt.exists, nil },
				setPictureFn: func(ctx context.Context, id uuid.UUID, key, contentType string) error {
					recordedKey, recordedType = key, contentType
					return nil
				},
			}
			svc := NewProfileService(repo, storage)

			err := svc.UploadPicture(context.Background(), UploadPictureInput{
				UserID: userID,
				Reader: bytes.NewReader(tt.body),
				Size:   tt.size,
			})

			if tt.wantErr != nil {
				if err == nil || (!errors.Is(err, tt.wantErr) && !strings.Contains(err.Error(), tt.wantErr.Error())) {
					t.Errorf("UploadPicture() error = %v, want %v", err, tt.wantErr)
				}
				if recordedKey != "" {
					t.Error("picture should not be recorded on failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("UploadPicture() unexpected error: %v", err)
			}
			if !bytes.Equal(uploaded, tt.body) {
				t.Error("uploaded bytes differ from input")
			}
			if recordedKey != model.ProfilePictureKey(userID) {
				t.Errorf("key = %s, want %s", recordedKey, model.ProfilePictureKey(userID))
			}
			if recordedType != "image/png" {
				t.Errorf("content type = %s, want image/png", recordedType)
			}
		})
	}
}

func TestProfileService_GetPicture(t *testing.T) {
	userID := uuid.New()
	key := model.ProfilePictureKey(userID)

	t.Run("streams stored picture", func(t *testing.T) {
		repo := &mockProfileRepository{
			getByUserIDFn: func(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
				return &model.Profile{UserID: id, PictureKey: &key, PictureContentType: strPtr("image/png")}, nil
			},
		}
		storage := &mockObjectStorage{
			downloadFn: func(ctx context.Context, k string) (io.ReadCloser, error) {
				if k != key {
					t.Errorf("key = %s, want %s", k, key)
				}
				return io.NopCloser(bytes.NewReader(pngHeader)), nil
			},
		}
		svc := NewProfileService(repo, storage)

		pic, err := svc.GetPicture(context.Background(), userID)
		if err != nil {
			t.Fatalf("GetPicture() unexpected error: %v", err)
		}
		defer pic.Body.Close()
		if pic.ContentType != "image/png" {
			t.Errorf("ContentType = %s, want image/png", pic.ContentType)
		}
	})

	t.Run("no picture", func(t *testing.T) {
		svc := NewProfileService(&mockProfileRepository{}, &mockObjectStorage{})

		_, err := svc.GetPicture(context.Background(), userID)
		if !errors.Is(err, repository.ErrObjectNotFound) {
			t.Errorf("GetPicture() error = %v, want %v", err, repository.ErrObjectNotFound)
		}
	})
}

func TestProfileService_UploadMedia(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name    string
		body    []byte
		size    int64
		exists  bool
		wantErr error
	}{
		{name: "png", body: pngHeader, size: int64(len(pngHeader)), exists: true},
		{name: "too large", body: pngHeader, size: model.MaxPictureSize + 1, exists: true, wantErr: ErrPictureTooLarge},
		{name: "not an image", body: []byte("hello, plain text"), size: 17, exists: true, wantErr: model.ErrUnsupportedPicture},
		{name: "no profile", body: pngHeader, size: int64(len(pngHeader)), exists: false, wantErr: repository.ErrProfileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var uploadedKey, uploadedType string
			var added *model.Media
			storage := &mockObjectStorage{
				uploadFn: func(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
					b, err := io.ReadAll(reader)
					if err != nil {
						t.Fatalf("read upload: %v", err)
					}
					if !bytes.Equal(b, tt.body) {
						t.Error("uploaded bytes differ from input")
					}
					uploadedKey, uploadedType = key, contentType
					return nil
				},
			}
			repo := &mockProfileRepository{
				existsFn: func(ctx context.Context, id uuid.UUID) (bool, error) { return tt.exists, nil },
				addMediaFn: func(ctx context.Context, id uuid.UUID, media *model.Media) error {
					added = media
					return nil
				},
				getByUserIDFn: func(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
					p := &model.Profile{ID: uuid.New(), UserID: id}
					if added != nil {
						p.Media = append(p.Media, *added)
					}
					return p, nil
				},
			}
			svc := NewProfileService(repo, storage)

			title := "  Whiteboard  "
			blank := " "
			profile, err := svc.UploadMedia(context.Background(), UploadMediaInput{
				UserID:      userID,
				Reader:      bytes.NewReader(tt.body),
				Size:        tt.size,
				Title:       &title,
				Description: &blank,
			})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("UploadMedia() error = %v, want %v", err, tt.wantErr)
				}
				if added != nil || uploadedKey != "" {
					t.Error("nothing should be stored on failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("UploadMedia() unexpected error: %v", err)
			}
			if added == nil {
				t.Fatal("media row should be added")
			}
			if added.MediaType != model.MediaTypeImage {
				t.Errorf("media type = %s, want %s", added.MediaType, model.MediaTypeImage)
			}
			if uploadedKey != model.ProfileMediaKey(userID, added.ID) {
				t.Errorf("key = %s, want %s", uploadedKey, model.ProfileMediaKey(userID, added.ID))
			}
			if uploadedType != "image/png" {
				t.Errorf("content type = %s, want image/png", uploadedType)
			}
			if added.URL != model.ProfileMediaURL(userID, added.ID) {
				t.Errorf("url = %s, want %s", added.URL, model.ProfileMediaURL(userID, added.ID))
			}
			if added.Title == nil || *added.Title != "Whiteboard" {
				t.Errorf("title = %v, want trimmed Whiteboard", added.Title)
			}
			if added.Description != nil {
				t.Errorf("blank description should be stored as null, got %q", *added.Description)
			}
			if len(profile.Media) != 1 || profile.Media[0].ID != added.ID {
				t.Errorf("returned profile should include the new media, got %+v", profile.Media)
			}
		})
	}
}

func TestProfileService_GetMedia(t *testing.T) {
	userID := uuid.New()
	mediaID := uuid.New()

	t.Run("streams stored media", func(t *testing.T) {
		var downloadedKey string
		repo := &mockProfileRepository{
			getMediaFn: func(ctx context.Context, uid, mid uuid.UUID) (*model.Media, error) {
				return &model.Media{ID: mid, MediaType: model.MediaTypeImage}, nil
			},
		}
		storage := &mockObjectStorage{
			downloadFn: func(ctx context.Context, key string) (io.ReadCloser, error) {
				downloadedKey = key
				return io.NopCloser(bytes.NewReader(pngHeader)), nil
			},
		}

		pic, err := NewProfileService(repo, storage).GetMedia(context.Background(), userID, mediaID)
		if err != nil {
			t.Fatalf("GetMedia() error: %v", err)
		}
		defer pic.Body.Close()

		if downloadedKey != model.ProfileMediaKey(userID, mediaID) {
			t.Errorf("key = %s, want %s", downloadedKey, model.ProfileMediaKey(userID, mediaID))
		}
		if pic.ContentType != "image/png" {
			t.Errorf("content type = %s, want image/png", pic.ContentType)
		}
		b, _ := io.ReadAll(pic.Body)
		if !bytes.Equal(b, pngHeader) {
			t.Error("streamed bytes differ from stored object")
		}
	})

	t.Run("unknown media", func(t *testing.T) {
		_, err := NewProfileService(&mockProfileRepository{}, &mockObjectStorage{}).GetMedia(context.Background(), userID, mediaID)
		if !errors.Is(err, repository.ErrMediaNotFound) {
			t.Errorf("GetMedia() error = %v, want ErrMediaNotFound", err)
		}
	})
}
