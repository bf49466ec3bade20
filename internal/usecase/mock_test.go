package usecase

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/hszk-dev/mediamind/internal/domain/model"
	"github.com/hszk-dev/mediamind/internal/domain/repository"
)

// memoryTextCache is an in-memory TextCache with optional injected failures.
type memoryTextCache struct {
	mu      sync.Mutex
	entries map[string]string
	getErr  error
	putErr  error
	puts    int
}

func newMemoryTextCache() *memoryTextCache {
	return &memoryTextCache{entries: make(map[string]string)}
}

func (m *memoryTextCache) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", false, m.getErr
	}
	text, ok := m.entries[key]
	if !ok || text == "" {
		return "", false, nil
	}
	return text, true, nil
}

func (m *memoryTextCache) Put(ctx context.Context, key, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	if m.putErr != nil {
		return m.putErr
	}
	m.entries[key] = text
	return nil
}

// mockDownloader provides a configurable mock for media.Downloader.
// By default it writes an audio file into dir.
type mockDownloader struct {
	downloadFn func(ctx context.Context, videoURL, dir string) (string, error)
	calls      int
	lastDir    string
}

func (m *mockDownloader) Download(ctx context.Context, videoURL, dir string) (string, error) {
	m.calls++
	m.lastDir = dir
	if m.downloadFn != nil {
		return m.downloadFn(ctx, videoURL, dir)
	}
	path := filepath.Join(dir, "audio.mp3")
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// mockTranscriber provides a configurable mock for ai.Transcriber.
type mockTranscriber struct {
	transcribeFn func(ctx context.Context, path, label string) (string, error)
	calls        int
}

func (m *mockTranscriber) Transcribe(ctx context.Context, path, label string) (string, error) {
	m.calls++
	if m.transcribeFn != nil {
		return m.transcribeFn(ctx, path, label)
	}
	return "raw transcript", nil
}

// mockTextGenerator provides a configurable mock for ai.TextGenerator.
type mockTextGenerator struct {
	generateFn func(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

func (m *mockTextGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if m.generateFn != nil {
		return m.generateFn(ctx, systemPrompt, userPrompt)
	}
	return "# Structured", nil
}

// mockVideoProcessingService provides a configurable mock for VideoProcessingService.
type mockVideoProcessingService struct {
	processFn func(ctx context.Context, req *model.ProcessRequest) *model.ProcessResult
	calls     int
}

func (m *mockVideoProcessingService) Process(ctx context.Context, req *model.ProcessRequest) *model.ProcessResult {
	m.calls++
	if m.processFn != nil {
		return m.processFn(ctx, req)
	}
	return model.ProcessedResult("text")
}

// mockMessageQueue provides a configurable mock for MessageQueue.
type mockMessageQueue struct {
	publishFn func(ctx context.Context, task repository.ProcessTask) error
	published []repository.ProcessTask
}

func (m *mockMessageQueue) PublishProcessTask(ctx context.Context, task repository.ProcessTask) error {
	m.published = append(m.published, task)
	if m.publishFn != nil {
		return m.publishFn(ctx, task)
	}
	return nil
}

func (m *mockMessageQueue) ConsumeProcessTasks(ctx context.Context, handler func(task repository.ProcessTask) error) error {
	return nil
}

func (m *mockMessageQueue) Close() error {
	return nil
}

// mockVideoCollectionRepository provides a configurable mock for VideoCollectionRepository.
type mockVideoCollectionRepository struct {
	addFn  func(ctx context.Context, entry *model.VideoEntry) (int, error)
	listFn func(ctx context.Context) ([]*model.VideoEntry, error)
}

func (m *mockVideoCollectionRepository) Add(ctx context.Context, entry *model.VideoEntry) (int, error) {
	if m.addFn != nil {
		return m.addFn(ctx, entry)
	}
	return 1, nil
}

func (m *mockVideoCollectionRepository) List(ctx context.Context) ([]*model.VideoEntry, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

// mockGoalRepository provides a configurable mock for GoalRepository.
type mockGoalRepository struct {
	listTypesFn  func(ctx context.Context, userID uuid.UUID) ([]*model.GoalType, error)
	createTypeFn func(ctx context.Context, goalType *model.GoalType) error
	updateTypeFn func(ctx context.Context, goalType *model.GoalType) error
	deleteTypeFn func(ctx context.Context, userID, id uuid.UUID) error
	listFn       func(ctx context.Context, userID uuid.UUID) ([]*model.Goal, error)
	createFn     func(ctx context.Context, goal *model.Goal) error
	updateFn     func(ctx context.Context, userID, id uuid.UUID, update model.GoalUpdate) (*model.Goal, error)
	deleteFn     func(ctx context.Context, userID, id uuid.UUID) error
}

func (m *mockGoalRepository) ListTypes(ctx context.Context, userID uuid.UUID) ([]*model.GoalType, error) {
	if m.listTypesFn != nil {
		return m.listTypesFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockGoalRepository) CreateType(ctx context.Context, goalType *model.GoalType) error {
	if m.createTypeFn != nil {
		return m.createTypeFn(ctx, goalType)
	}
	return nil
}

func (m *mockGoalRepository) UpdateType(ctx context.Context, goalType *model.GoalType) error {
	if m.updateTypeFn != nil {
		return m.updateTypeFn(ctx, goalType)
	}
	return nil
}

func (m *mockGoalRepository) DeleteType(ctx context.Context, userID, id uuid.UUID) error {
	if m.deleteTypeFn != nil {
		return m.deleteTypeFn(ctx, userID, id)
	}
	return nil
}

func (m *mockGoalRepository) List(ctx context.Context, userID uuid.UUID) ([]*model.Goal, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockGoalRepository) Create(ctx context.Context, goal *model.Goal) error {
	if m.createFn != nil {
		return m.createFn(ctx, goal)
	}
	return nil
}

func (m *mockGoalRepository) Update(ctx context.Context, userID, id uuid.UUID, update model.GoalUpdate) (*model.Goal, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, userID, id, update)
	}
	return &model.Goal{ID: id, UserID: userID}, nil
}

func (m *mockGoalRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, id)
	}
	return nil
}

// mockProfileRepository provides a configurable mock for ProfileRepository.
type mockProfileRepository struct {
	upsertFn      func(ctx context.Context, profile *model.Profile) (bool, error)
	getByUserIDFn func(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	existsFn      func(ctx context.Context, userID uuid.UUID) (bool, error)
	listPublicFn  func(ctx context.Context, search string) ([]*model.PublicProfile, error)
	setPictureFn  func(ctx context.Context, userID uuid.UUID, key, contentType string) error
	addMediaFn    func(ctx context.Context, userID uuid.UUID, media *model.Media) error
	getMediaFn    func(ctx context.Context, userID, mediaID uuid.UUID) (*model.Media, error)
}

func (m *mockProfileRepository) Upsert(ctx context.Context, profile *model.Profile) (bool, error) {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, profile)
	}
	return true, nil
}

func (m *mockProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	if m.getByUserIDFn != nil {
		return m.getByUserIDFn(ctx, userID)
	}
	return &model.Profile{ID: uuid.New(), UserID: userID}, nil
}

func (m *mockProfileRepository) Exists(ctx context.Context, userID uuid.UUID) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, userID)
	}
	return true, nil
}

func (m *mockProfileRepository) ListPublic(ctx context.Context, search string) ([]*model.PublicProfile, error) {
	if m.listPublicFn != nil {
		return m.listPublicFn(ctx, search)
	}
	return nil, nil
}

func (m *mockProfileRepository) SetPicture(ctx context.Context, userID uuid.UUID, key, contentType string) error {
	if m.setPictureFn != nil {
		return m.setPictureFn(ctx, userID, key, contentType)
	}
	return nil
}

func (m *mockProfileRepository) AddMedia(ctx context.Context, userID uuid.UUID, media *model.Media) error {
	if m.addMediaFn != nil {
		return m.addMediaFn(ctx, userID, media)
	}
	return nil
}

func (m *mockProfileRepository) GetMedia(ctx context.Context, userID, mediaID uuid.UUID) (*model.Media, error) {
	if m.getMediaFn != nil {
		return m.getMediaFn(ctx, userID, mediaID)
	}
	return nil, repository.ErrMediaNotFound
}

// mockObjectStorage provides a configurable mock for ObjectStorage.
type mockObjectStorage struct {
	uploadFn   func(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	downloadFn func(ctx context.Context, key string) (io.ReadCloser, error)
}

func (m *mockObjectStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	if m.uploadFn != nil {
		return m.uploadFn(ctx, key, reader, size, contentType)
	}
	return nil
}

func (m *mockObjectStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if m.downloadFn != nil {
		return m.downloadFn(ctx, key)
	}
	return nil, repository.ErrObjectNotFound
}
