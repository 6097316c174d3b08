package mocks

import (
	"context"

	"bookquest/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockParticipationRepository struct {
	mock.Mock
}

func (m *MockParticipationRepository) CreateParticipation(ctx context.Context, participation *model.Participation) error {
	args := m.Called(ctx, participation)
	return args.Error(0)
}

func (m *MockParticipationRepository) GetParticipation(ctx context.Context, id uuid.UUID) (*model.Participation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Participation), args.Error(1)
}

func (m *MockParticipationRepository) GetParticipationByUserAndChallenge(ctx context.Context, userID int64, challengeID uuid.UUID) (*model.Participation, error) {
	args := m.Called(ctx, userID, challengeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Participation), args.Error(1)
}

func (m *MockParticipationRepository) ListUserParticipations(ctx context.Context, userID int64) ([]*model.Participation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Participation), args.Error(1)
}

func (m *MockParticipationRepository) DeleteParticipation(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockParticipationRepository) UpdateParticipationStatus(ctx context.Context, id uuid.UUID, status model.ParticipationStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockParticipationRepository) SeedParticipationProgress(ctx context.Context, participationID uuid.UUID) error {
	args := m.Called(ctx, participationID)
	return args.Error(0)
}

func (m *MockParticipationRepository) ListParticipants(ctx context.Context, challengeID uuid.UUID) ([]*model.Participant, error) {
	args := m.Called(ctx, challengeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Participant), args.Error(1)
}

func (m *MockParticipationRepository) ListPendingInvites(ctx context.Context, userID int64) ([]*model.ChallengeInvite, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ChallengeInvite), args.Error(1)
}

func (m *MockParticipationRepository) GetChallengeByID(ctx context.Context, id uuid.UUID) (*model.ReadingChallenge, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReadingChallenge), args.Error(1)
}

func (m *MockParticipationRepository) ListProgress(ctx context.Context, participationID uuid.UUID) ([]*model.QuestProgress, error) {
	args := m.Called(ctx, participationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.QuestProgress), args.Error(1)
}
