package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hszk-dev/mediamind/internal/domain/model"
)

// ProfileRepository persists profiles together with their sub-records.
type ProfileRepository interface {
	// Upsert creates or updates the profile for profile.UserID and replaces all
	// of its sub-records atomically. Reports whether a new profile was created.
	Upsert(ctx context.Context, profile *model.Profile) (created bool, err error)

	// GetByUserID returns the full profile. Returns ErrProfileNotFound if absent.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Profile, error)

	Exists(ctx context.Context, userID uuid.UUID) (bool, error)

	// ListPublic returns profile summaries. A non-empty search filters by a
	// case-insensitive substring of name, bio or elevator pitch.
	ListPublic(ctx context.Context, search string) ([]*model.PublicProfile, error)

	// SetPicture records the storage key and content type of the user's picture.
	// Returns ErrProfileNotFound if the user has no profile.
	SetPicture(ctx context.Context, userID uuid.UUID, key, contentType string) error

	// AddMedia appends one gallery item to the user's profile without touching
	// the other sub-records. Returns ErrProfileNotFound if the user has no profile.
	AddMedia(ctx context.Context, userID uuid.UUID, media *model.Media) error

	// GetMedia returns ErrMediaNotFound unless mediaID belongs to the user's profile.
	GetMedia(ctx context.Context, userID, mediaID uuid.UUID) (*model.Media, error)
}
