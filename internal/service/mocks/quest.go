package mocks

import (
	"context"

	"bookquest/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockQuestRepository struct {
	mock.Mock
}

func (m *MockQuestRepository) CreateQuest(ctx context.Context, quest *model.ChallengeQuest) error {
	args := m.Called(ctx, quest)
	return args.Error(0)
}

func (m *MockQuestRepository) GetQuestByID(ctx context.Context, challengeID, questID uuid.UUID) (*model.ChallengeQuest, error) {
	args := m.Called(ctx, challengeID, questID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChallengeQuest), args.Error(1)
}

func (m *MockQuestRepository) ListQuests(ctx context.Context, challengeID uuid.UUID, offset, limit int) ([]*model.ChallengeQuest, int, error) {
	args := m.Called(ctx, challengeID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*model.ChallengeQuest), args.Int(1), args.Error(2)
}

func (m *MockQuestRepository) UpdateQuest(ctx context.Context, challengeID, questID uuid.UUID, updates map[string]interface{}) error {
	args := m.Called(ctx, challengeID, questID, updates)
	return args.Error(0)
}

func (m *MockQuestRepository) DeleteQuest(ctx context.Context, challengeID, questID uuid.UUID) error {
	args := m.Called(ctx, challengeID, questID)
	return args.Error(0)
}

func (m *MockQuestRepository) GetChallengeByID(ctx context.Context, id uuid.UUID) (*model.ReadingChallenge, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReadingChallenge), args.Error(1)
}
