package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hszk-dev/mediamind/internal/domain/model"
	"github.com/hszk-dev/mediamind/internal/domain/repository"
)

// AddVideoOutput contains the result of adding a video to the collection.
type AddVideoOutput struct {
	Entry *model.VideoEntry
	Total int
}

// VideoCollectionService manages the shared list of videos.
type VideoCollectionService interface {
	// AddVideo stores the video and schedules its summary to be cached.
	AddVideo(ctx context.Context, name, link string) (*AddVideoOutput, error)

	// ListVideos returns the collection, oldest first.
	ListVideos(ctx context.Context) ([]*model.VideoEntry, error)
}

type videoCollectionService struct {
	repo  repository.VideoCollectionRepository
	queue repository.MessageQueue
}

// NewVideoCollectionService creates a new VideoCollectionService instance.
// queue may be nil, in which case no prewarm tasks are published.
func NewVideoCollectionService(repo repository.VideoCollectionRepository, queue repository.MessageQueue) VideoCollectionService {
	return &videoCollectionService{
		repo:  repo,
		queue: queue,
	}
}

func (s *videoCollectionService) AddVideo(ctx context.Context, name, link string) (*AddVideoOutput, error) {
	entry, err := model.NewVideoEntry(name, link)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Add(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("save video entry: %w", err)
	}

	if s.queue != nil {
		task := repository.ProcessTask{VideoURL: entry.Link}
		if err := s.queue.PublishProcessTask(ctx, task); err != nil {
			slog.Warn("failed to publish prewarm task",
				"video_id", entry.ID,
				"video_url", entry.Link,
				"error", err,
			)
		}
	}

	return &AddVideoOutput{Entry: entry, Total: total}, nil
}

func (s *videoCollectionService) ListVideos(ctx context.Context) ([]*model.VideoEntry, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list video entries: %w", err)
	}
	return entries, nil
}
