package postgres

import (
	"context"
	"fmt"

	"github.com/hszk-dev/mediamind/internal/domain/model"
	"github.com/hszk-dev/mediamind/internal/domain/repository"
	"github.com/hszk-dev/mediamind/internal/infrastructure/metrics"
)

// VideoCollectionRepository implements repository.VideoCollectionRepository using PostgreSQL.
type VideoCollectionRepository struct {
	db DBTX
}

// NewVideoCollectionRepository creates a new VideoCollectionRepository instance.
func NewVideoCollectionRepository(db DBTX) *VideoCollectionRepository {
	return &VideoCollectionRepository{db: db}
}

// Add persists the entry and returns the number of entries in the collection.
func (r *VideoCollectionRepository) Add(ctx context.Context, entry *model.VideoEntry) (int, error) {
	const insertQuery = `
		INSERT INTO video_entries (id, name, link, created_at)
		VALUES ($1, $2, $3, $4)
	`
	const countQuery = `SELECT COUNT(*) FROM video_entries`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryInsert, metrics.TableVideoEntries).Inc()
	_, err := r.db.Exec(ctx, insertQuery, entry.ID, entry.Name, entry.Link, entry.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to add video entry: %w", err)
	}

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableVideoEntries).Inc()
	var total int
	if err := r.db.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count video entries: %w", err)
	}

	return total, nil
}

// List returns every entry, oldest first.
func (r *VideoCollectionRepository) List(ctx context.Context) ([]*model.VideoEntry, error) {
	const query = `
		SELECT id, name, link, created_at
		FROM video_entries
		ORDER BY created_at ASC
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableVideoEntries).Inc()
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query video entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*model.VideoEntry, 0)
	for rows.Next() {
		var e model.VideoEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.Link, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan video entry: %w", err)
		}
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating video entries: %w", err)
	}

	return entries, nil
}

// Compile-time verification that VideoCollectionRepository implements repository.VideoCollectionRepository.
var _ repository.VideoCollectionRepository = (*VideoCollectionRepository)(nil)
