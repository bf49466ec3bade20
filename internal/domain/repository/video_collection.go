package repository

import (
	"context"

	"github.com/hszk-dev/mediamind/internal/domain/model"
)

// VideoCollectionRepository persists the shared list of videos.
type VideoCollectionRepository interface {
	// Add stores the entry and returns the collection size afterwards.
	Add(ctx context.Context, entry *model.VideoEntry) (total int, err error)

	// List returns all entries, oldest first.
	List(ctx context.Context) ([]*model.VideoEntry, error)
}
