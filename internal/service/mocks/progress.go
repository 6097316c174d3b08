package mocks

import (
	"context"

	"bookquest/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) CreateProgress(ctx context.Context, progress *model.QuestProgress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *MockProgressRepository) GetProgress(ctx context.Context, id, participationID uuid.UUID) (*model.QuestProgress, error) {
	args := m.Called(ctx, id, participationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.QuestProgress), args.Error(1)
}

func (m *MockProgressRepository) ListProgress(ctx context.Context, participationID uuid.UUID) ([]*model.QuestProgress, error) {
	args := m.Called(ctx, participationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.QuestProgress), args.Error(1)
}

func (m *MockProgressRepository) UpdateProgress(ctx context.Context, id, participationID uuid.UUID, updates map[string]interface{}) error {
	args := m.Called(ctx, id, participationID, updates)
	return args.Error(0)
}

func (m *MockProgressRepository) DeleteProgress(ctx context.Context, id, participationID uuid.UUID) error {
	args := m.Called(ctx, id, participationID)
	return args.Error(0)
}

func (m *MockProgressRepository) AllProgressCompleted(ctx context.Context, participationID uuid.UUID) (bool, error) {
	args := m.Called(ctx, participationID)
	return args.Bool(0), args.Error(1)
}
