package service

import (
	"context"
	"testing"

	"bookquest/internal/model"
	"bookquest/internal/repository"
	"bookquest/internal/service/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestQuestService_CreateQuest(t *testing.T) {
	challengeID := uuid.New()
	challenge := &model.ReadingChallenge{ID: challengeID}

	tests := []struct {
		name          string
		quest         *model.ChallengeQuest
		setupMocks    func(mockRepo *mocks.MockQuestRepository)
		expectedError error
	}{
		{
			name: "Valid quest",
			quest: &model.ChallengeQuest{
				ChallengeID: challengeID,
				Prompt:      "Read three fantasy novels",
				Type:        model.QuestTypeCountBased,
				TargetCount: 3,
			},
			setupMocks: func(mockRepo *mocks.MockQuestRepository) {
				mockRepo.On("GetChallengeByID", mock.Anything, challengeID).
					Return(challenge, nil)
				mockRepo.On("CreateQuest", mock.Anything, mock.MatchedBy(func(q *model.ChallengeQuest) bool {
					return q.TargetCount == 3 && q.ID != uuid.Nil
				})).Return(nil)
			},
		},
		{
			name: "Zero target defaults to one",
			quest: &model.ChallengeQuest{
				ChallengeID: challengeID,
				Prompt:      "Read a classic",
				Type:        model.QuestTypeCustom,
			},
			setupMocks: func(mockRepo *mocks.MockQuestRepository) {
				mockRepo.On("GetChallengeByID", mock.Anything, challengeID).
					Return(challenge, nil)
				mockRepo.On("CreateQuest", mock.Anything, mock.MatchedBy(func(q *model.ChallengeQuest) bool {
					return q.TargetCount == 1
				})).Return(nil)
			},
		},
		{
			name: "Blank prompt",
			quest: &model.ChallengeQuest{
				ChallengeID: challengeID,
				Prompt:      "   ",
				Type:        model.QuestTypeCustom,
			},
			setupMocks:    func(mockRepo *mocks.MockQuestRepository) {},
			expectedError: ErrPromptRequired,
		},
		{
			name: "Invalid type",
			quest: &model.ChallengeQuest{
				ChallengeID: challengeID,
				Prompt:      "Read something",
				Type:        model.QuestType("weird"),
			},
			setupMocks:    func(mockRepo *mocks.MockQuestRepository) {},
			expectedError: ErrInvalidQuestType,
		},
		{
			name: "Unknown challenge",
			quest: &model.ChallengeQuest{
				ChallengeID: challengeID,
				Prompt:      "Read something",
				Type:        model.QuestTypeCustom,
			},
			setupMocks: func(mockRepo *mocks.MockQuestRepository) {
				mockRepo.On("GetChallengeByID", mock.Anything, challengeID).
					Return(nil, repository.ErrNotFound)
			},
			expectedError: ErrChallengeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockQuestRepository{}
			tt.setupMocks(mockRepo)

			service := NewQuestService(mockRepo)
			id, err := service.CreateQuest(context.Background(), tt.quest)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			assert.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, id)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestQuestService_ListQuests(t *testing.T) {
	challengeID := uuid.New()

	mockRepo := &mocks.MockQuestRepository{}
	mockRepo.On("ListQuests", mock.Anything, challengeID, 10, 10).
		Return([]*model.ChallengeQuest{
			{ID: uuid.New(), ChallengeID: challengeID},
		}, 11, nil)

	service := NewQuestService(mockRepo)
	page, err := service.ListQuests(context.Background(), challengeID, 2, 10)

	assert.NoError(t, err)
	assert.Len(t, page.Quests, 1)
	assert.Equal(t, 11, page.TotalQuests)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 2, page.CurrentPage)
	mockRepo.AssertExpectations(t)
}

func TestQuestService_UpdateQuest(t *testing.T) {
	challengeID := uuid.New()
	questID := uuid.New()

	prompt := "Finish the trilogy"
	target := 3

	t.Run("Partial update touches only the given fields", func(t *testing.T) {
		mockRepo := &mocks.MockQuestRepository{}
		mockRepo.On("UpdateQuest", mock.Anything, challengeID, questID,
			mock.MatchedBy(func(updates map[string]interface{}) bool {
				_, hasType := updates["type"]
				return updates["prompt"] == prompt && updates["target_count"] == target && !hasType
			})).Return(nil)
		mockRepo.On("GetQuestByID", mock.Anything, challengeID, questID).
			Return(&model.ChallengeQuest{ID: questID, ChallengeID: challengeID}, nil)

		service := NewQuestService(mockRepo)
		_, err := service.UpdateQuest(context.Background(), challengeID, questID, &QuestUpdate{
			Prompt:      &prompt,
			TargetCount: &target,
		})

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Invalid target count", func(t *testing.T) {
		zero := 0
		mockRepo := &mocks.MockQuestRepository{}

		service := NewQuestService(mockRepo)
		_, err := service.UpdateQuest(context.Background(), challengeID, questID, &QuestUpdate{
			TargetCount: &zero,
		})

		assert.ErrorIs(t, err, ErrInvalidTargetCount)
	})

	t.Run("Unknown quest", func(t *testing.T) {
		mockRepo := &mocks.MockQuestRepository{}
		mockRepo.On("UpdateQuest", mock.Anything, challengeID, questID, mock.Anything).
			Return(repository.ErrNotFound)

		service := NewQuestService(mockRepo)
		_, err := service.UpdateQuest(context.Background(), challengeID, questID, &QuestUpdate{
			Prompt: &prompt,
		})

		assert.ErrorIs(t, err, ErrQuestNotFound)
	})
}
