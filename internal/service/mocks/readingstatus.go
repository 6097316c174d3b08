package mocks

import (
	"context"

	"bookquest/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockReadingStatusRepository struct {
	mock.Mock
}

func (m *MockReadingStatusRepository) CreateReadingStatus(ctx context.Context, status *model.ReadingStatus) error {
	args := m.Called(ctx, status)
	return args.Error(0)
}

func (m *MockReadingStatusRepository) GetReadingStatus(ctx context.Context, id uuid.UUID) (*model.ReadingStatus, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReadingStatus), args.Error(1)
}

func (m *MockReadingStatusRepository) GetReadingStatusByBookAndUser(ctx context.Context, userID, bookID int64) (*model.ReadingStatus, error) {
	args := m.Called(ctx, userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReadingStatus), args.Error(1)
}

func (m *MockReadingStatusRepository) ListUserReadingStatuses(ctx context.Context, userID int64) ([]*model.UserReadingStatus, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.UserReadingStatus), args.Error(1)
}

func (m *MockReadingStatusRepository) UpdateReadingStatus(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

func (m *MockReadingStatusRepository) DeleteReadingStatus(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReadingStatusRepository) GetBookByID(ctx context.Context, id int64) (*model.BookSummary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BookSummary), args.Error(1)
}
