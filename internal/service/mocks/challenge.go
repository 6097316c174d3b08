package mocks

import (
	"context"

	"bookquest/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockChallengeRepository struct {
	mock.Mock
}

func (m *MockChallengeRepository) CreateChallenge(ctx context.Context, challenge *model.ReadingChallenge) error {
	args := m.Called(ctx, challenge)
	return args.Error(0)
}

func (m *MockChallengeRepository) GetChallengeByID(ctx context.Context, id uuid.UUID) (*model.ReadingChallenge, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReadingChallenge), args.Error(1)
}

func (m *MockChallengeRepository) GetPublicChallenges(ctx context.Context) ([]*model.ReadingChallenge, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ReadingChallenge), args.Error(1)
}

func (m *MockChallengeRepository) UpdateChallenge(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

func (m *MockChallengeRepository) DeleteChallenge(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockChallengeRepository) GetCreatedChallengeOverview(ctx context.Context, userID int64) ([]*model.ChallengeOverview, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ChallengeOverview), args.Error(1)
}

func (m *MockChallengeRepository) GetParticipatingChallengeOverview(ctx context.Context, userID int64) ([]*model.ChallengeOverview, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ChallengeOverview), args.Error(1)
}

func (m *MockChallengeRepository) GetChallengeStats(ctx context.Context, id uuid.UUID) (*model.ChallengeStats, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChallengeStats), args.Error(1)
}

func (m *MockChallengeRepository) GetParticipationByUserAndChallenge(ctx context.Context, userID int64, challengeID uuid.UUID) (*model.Participation, error) {
	args := m.Called(ctx, userID, challengeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Participation), args.Error(1)
}

func (m *MockChallengeRepository) GetAcceptedFriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockChallengeRepository) CreatePendingInvites(ctx context.Context, challengeID uuid.UUID, userIDs []int64) error {
	args := m.Called(ctx, challengeID, userIDs)
	return args.Error(0)
}

func (m *MockChallengeRepository) ListQuests(ctx context.Context, challengeID uuid.UUID, offset, limit int) ([]*model.ChallengeQuest, int, error) {
	args := m.Called(ctx, challengeID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*model.ChallengeQuest), args.Int(1), args.Error(2)
}

func (m *MockChallengeRepository) ListParticipants(ctx context.Context, challengeID uuid.UUID) ([]*model.Participant, error) {
	args := m.Called(ctx, challengeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Participant), args.Error(1)
}
