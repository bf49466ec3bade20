package handler

import (
	"context"

	"github.com/google/uuid"

	"github.com/hszk-dev/mediamind/internal/domain/model"
	"github.com/hszk-dev/mediamind/internal/usecase"
)

type mockVideoProcessingService struct {
	processFn func(ctx context.Context, req *model.ProcessRequest) *model.ProcessResult
}

func (m *mockVideoProcessingService) Process(ctx context.Context, req *model.ProcessRequest) *model.ProcessResult {
	if m.processFn != nil {
		return m.processFn(ctx, req)
	}
	return model.ProcessedResult("")
}

type mockVideoCollectionService struct {
	addVideoFn   func(ctx context.Context, name, link string) (*usecase.AddVideoOutput, error)
	listVideosFn func(ctx context.Context) ([]*model.VideoEntry, error)
}

func (m *mockVideoCollectionService) AddVideo(ctx context.Context, name, link string) (*usecase.AddVideoOutput, error) {
	if m.addVideoFn != nil {
		return m.addVideoFn(ctx, name, link)
	}
	return nil, nil
}

func (m *mockVideoCollectionService) ListVideos(ctx context.Context) ([]*model.VideoEntry, error) {
	if m.listVideosFn != nil {
		return m.listVideosFn(ctx)
	}
	return nil, nil
}

type mockGoalService struct {
	listTypesFn  func(ctx context.Context, userID uuid.UUID) ([]*model.GoalType, error)
	createTypeFn func(ctx context.Context, userID uuid.UUID, name string, color *string) (*model.GoalType, error)
	updateTypeFn func(ctx context.Context, userID, id uuid.UUID, name string, color *string) (*model.GoalType, error)
	deleteTypeFn func(ctx context.Context, userID, id uuid.UUID) error
	listGoalsFn  func(ctx context.Context, userID uuid.UUID) ([]*model.Goal, error)
	createGoalFn func(ctx context.Context, userID uuid.UUID, params model.NewGoalParams) (*model.Goal, error)
	updateGoalFn func(ctx context.Context, userID, id uuid.UUID, update model.GoalUpdate) (*model.Goal, error)
	deleteGoalFn func(ctx context.Context, userID, id uuid.UUID) error
}

func (m *mockGoalService) ListTypes(ctx context.Context, userID uuid.UUID) ([]*model.GoalType, error) {
	if m.listTypesFn != nil {
		return m.listTypesFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockGoalService) CreateType(ctx context.Context, userID uuid.UUID, name string, color *string) (*model.GoalType, error) {
	if m.createTypeFn != nil {
		return m.createTypeFn(ctx, userID, name, color)
	}
	return nil, nil
}

func (m *mockGoalService) UpdateType(ctx context.Context, userID, id uuid.UUID, name string, color *string) (*model.GoalType, error) {
	if m.updateTypeFn != nil {
		return m.updateTypeFn(ctx, userID, id, name, color)
	}
	return nil, nil
}

func (m *mockGoalService) DeleteType(ctx context.Context, userID, id uuid.UUID) error {
	if m.deleteTypeFn != nil {
		return m.deleteTypeFn(ctx, userID, id)
	}
	return nil
}

func (m *mockGoalService) ListGoals(ctx context.Context, userID uuid.UUID) ([]*model.Goal, error) {
	if m.listGoalsFn != nil {
		return m.listGoalsFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockGoalService) CreateGoal(ctx context.Context, userID uuid.UUID, params model.NewGoalParams) (*model.Goal, error) {
	if m.createGoalFn != nil {
		return m.createGoalFn(ctx, userID, params)
	}
	return nil, nil
}

func (m *mockGoalService) UpdateGoal(ctx context.Context, userID, id uuid.UUID, update model.GoalUpdate) (*model.Goal, error) {
	if m.updateGoalFn != nil {
		return m.updateGoalFn(ctx, userID, id, update)
	}
	return nil, nil
}

func (m *mockGoalService) DeleteGoal(ctx context.Context, userID, id uuid.UUID) error {
	if m.deleteGoalFn != nil {
		return m.deleteGoalFn(ctx, userID, id)
	}
	return nil
}

type mockProfileService struct {
	saveProfileFn        func(ctx context.Context, profile *model.Profile) (*model.Profile, bool, error)
	getProfileFn         func(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	profileExistsFn      func(ctx context.Context, userID uuid.UUID) (bool, error)
	listPublicProfilesFn func(ctx context.Context, search string) ([]*model.PublicProfile, error)
	uploadPictureFn      func(ctx context.Context, input usecase.UploadPictureInput) error
	getPictureFn         func(ctx context.Context, userID uuid.UUID) (*usecase.Picture, error)
	uploadMediaFn        func(ctx context.Context, input usecase.UploadMediaInput) (*model.Profile, error)
	getMediaFn           func(ctx context.Context, userID, mediaID uuid.UUID) (*usecase.Picture, error)
}

func (m *mockProfileService) SaveProfile(ctx context.Context, profile *model.Profile) (*model.Profile, bool, error) {
	if m.saveProfileFn != nil {
		return m.saveProfileFn(ctx, profile)
	}
	return profile, true, nil
}

func (m *mockProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	if m.getProfileFn != nil {
		return m.getProfileFn(ctx, userID)
	}
	return &model.Profile{ID: uuid.New(), UserID: userID}, nil
}

func (m *mockProfileService) ProfileExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	if m.profileExistsFn != nil {
		return m.profileExistsFn(ctx, userID)
	}
	return false, nil
}

func (m *mockProfileService) ListPublicProfiles(ctx context.Context, search string) ([]*model.PublicProfile, error) {
	if m.listPublicProfilesFn != nil {
		return m.listPublicProfilesFn(ctx, search)
	}
	return nil, nil
}

func (m *mockProfileService) UploadPicture(ctx context.Context, input usecase.UploadPictureInput) error {
	if m.uploadPictureFn != nil {
		return m.uploadPictureFn(ctx, input)
	}
	return nil
}

func (m *mockProfileService) GetPicture(ctx context.Context, userID uuid.UUID) (*usecase.Picture, error) {
	if m.getPictureFn != nil {
		return m.getPictureFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockProfileService) UploadMedia(ctx context.Context, input usecase.UploadMediaInput) (*model.Profile, error) {
	if m.uploadMediaFn != nil {
		return m.uploadMediaFn(ctx, input)
	}
	return &model.Profile{ID: uuid.New(), UserID: input.UserID}, nil
}

func (m *mockProfileService) GetMedia(ctx context.Context, userID, mediaID uuid.UUID) (*usecase.Picture, error) {
	if m.getMediaFn != nil {
		return m.getMediaFn(ctx, userID, mediaID)
	}
	return nil, nil
}
