package mocks

import (
	"context"
	"time"

	"bookquest/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockReconcileRepository struct {
	mock.Mock
}

func (m *MockReconcileRepository) GetQuestWithWindow(ctx context.Context, questID uuid.UUID) (*model.ChallengeQuest, *model.ReadingChallenge, error) {
	args := m.Called(ctx, questID)
	var quest *model.ChallengeQuest
	if args.Get(0) != nil {
		quest = args.Get(0).(*model.ChallengeQuest)
	}
	var challenge *model.ReadingChallenge
	if args.Get(1) != nil {
		challenge = args.Get(1).(*model.ReadingChallenge)
	}
	return quest, challenge, args.Error(2)
}

func (m *MockReconcileRepository) GetParticipationByUserAndChallenge(ctx context.Context, userID int64, challengeID uuid.UUID) (*model.Participation, error) {
	args := m.Called(ctx, userID, challengeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Participation), args.Error(1)
}

func (m *MockReconcileRepository) EnsureProgress(ctx context.Context, participationID, questID uuid.UUID) error {
	args := m.Called(ctx, participationID, questID)
	return args.Error(0)
}

func (m *MockReconcileRepository) IncrementProgress(ctx context.Context, participationID, questID uuid.UUID, targetCount int) (bool, error) {
	args := m.Called(ctx, participationID, questID, targetCount)
	return args.Bool(0), args.Error(1)
}

func (m *MockReconcileRepository) FindProgressTargets(ctx context.Context, userID, bookID int64) ([]*model.ProgressTarget, error) {
	args := m.Called(ctx, userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ProgressTarget), args.Error(1)
}

// MockReconciler stands in for the reconciliation engine when testing the
// services that trigger it.
type MockReconciler struct {
	mock.Mock
}

func (m *MockReconciler) QuestBookRead(ctx context.Context, questID uuid.UUID, userID int64, completionDate time.Time) {
	m.Called(ctx, questID, userID, completionDate)
}

func (m *MockReconciler) BookFinished(ctx context.Context, userID, bookID int64, finishDate time.Time) {
	m.Called(ctx, userID, bookID, finishDate)
}
