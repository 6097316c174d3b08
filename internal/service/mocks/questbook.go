package mocks

import (
	"context"

	"bookquest/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockQuestBookRepository struct {
	mock.Mock
}

func (m *MockQuestBookRepository) CreateQuestBook(ctx context.Context, questBook *model.QuestBook) error {
	args := m.Called(ctx, questBook)
	return args.Error(0)
}

func (m *MockQuestBookRepository) GetQuestBook(ctx context.Context, id, questID uuid.UUID) (*model.QuestBook, error) {
	args := m.Called(ctx, id, questID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.QuestBook), args.Error(1)
}

func (m *MockQuestBookRepository) GetQuestBooks(ctx context.Context, questID uuid.UUID, addedBy *int64) ([]*model.QuestBook, error) {
	args := m.Called(ctx, questID, addedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.QuestBook), args.Error(1)
}

func (m *MockQuestBookRepository) UpdateQuestBook(ctx context.Context, id, questID uuid.UUID, updates map[string]interface{}) error {
	args := m.Called(ctx, id, questID, updates)
	return args.Error(0)
}

func (m *MockQuestBookRepository) DeleteQuestBook(ctx context.Context, id, questID uuid.UUID) error {
	args := m.Called(ctx, id, questID)
	return args.Error(0)
}

func (m *MockQuestBookRepository) GetBookByID(ctx context.Context, id int64) (*model.BookSummary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BookSummary), args.Error(1)
}

func (m *MockQuestBookRepository) GetQuestWithWindow(ctx context.Context, questID uuid.UUID) (*model.ChallengeQuest, *model.ReadingChallenge, error) {
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

func (m *MockQuestBookRepository) GetParticipationByUserAndChallenge(ctx context.Context, userID int64, challengeID uuid.UUID) (*model.Participation, error) {
	args := m.Called(ctx, userID, challengeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Participation), args.Error(1)
}

func (m *MockQuestBookRepository) DecrementProgress(ctx context.Context, participationID, questID uuid.UUID, targetCount int) (bool, error) {
	args := m.Called(ctx, participationID, questID, targetCount)
	return args.Bool(0), args.Error(1)
}
