package service

import (
	"context"
	"testing"
	"time"

	"bookquest/internal/model"
	"bookquest/internal/repository"
	"bookquest/internal/service/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestChallengeService_CreateChallenge(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		challenge     *model.ReadingChallenge
		setupMocks    func(mockRepo *mocks.MockChallengeRepository)
		expectedError error
	}{
		{
			name: "Valid challenge",
			challenge: &model.ReadingChallenge{
				Title:     "Summer reading",
				OwnerID:   42,
				StartDate: &start,
				EndDate:   &end,
			},
			setupMocks: func(mockRepo *mocks.MockChallengeRepository) {
				mockRepo.On("CreateChallenge", mock.Anything, mock.MatchedBy(func(c *model.ReadingChallenge) bool {
					return c.ID != uuid.Nil && c.Title == "Summer reading"
				})).Return(nil)
			},
		},
		{
			name:          "Blank title",
			challenge:     &model.ReadingChallenge{Title: "   "},
			setupMocks:    func(mockRepo *mocks.MockChallengeRepository) {},
			expectedError: ErrTitleRequired,
		},
		{
			name: "End before start",
			challenge: &model.ReadingChallenge{
				Title:     "Backwards",
				StartDate: &end,
				EndDate:   &start,
			},
			setupMocks:    func(mockRepo *mocks.MockChallengeRepository) {},
			expectedError: ErrInvalidDateOrder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockChallengeRepository{}
			tt.setupMocks(mockRepo)

			service := NewChallengeService(mockRepo)
			id, err := service.CreateChallenge(context.Background(), tt.challenge)

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

func TestChallengeService_GetChallengeDetails(t *testing.T) {
	challengeID := uuid.New()

	quests := []*model.ChallengeQuest{{ID: uuid.New(), ChallengeID: challengeID}}
	participants := []*model.Participant{{UserID: 42, Username: "reader_one"}}

	t.Run("Owner sees a private challenge", func(t *testing.T) {
		mockRepo := &mocks.MockChallengeRepository{}
		mockRepo.On("GetChallengeByID", mock.Anything, challengeID).
			Return(&model.ReadingChallenge{ID: challengeID, IsPublic: false, OwnerID: 42}, nil)
		mockRepo.On("ListQuests", mock.Anything, challengeID, 0, detailsQuestLimit).
			Return(quests, 1, nil)
		mockRepo.On("ListParticipants", mock.Anything, challengeID).
			Return(participants, nil)

		service := NewChallengeService(mockRepo)
		details, err := service.GetChallengeDetails(context.Background(), challengeID, 42)

		assert.NoError(t, err)
		assert.Len(t, details.Quests, 1)
		assert.Len(t, details.Participants, 1)
	})

	t.Run("Participant sees a private challenge", func(t *testing.T) {
		mockRepo := &mocks.MockChallengeRepository{}
		mockRepo.On("GetChallengeByID", mock.Anything, challengeID).
			Return(&model.ReadingChallenge{ID: challengeID, IsPublic: false, OwnerID: 42}, nil)
		mockRepo.On("GetParticipationByUserAndChallenge", mock.Anything, int64(7), challengeID).
			Return(&model.Participation{UserID: 7, ChallengeID: challengeID, Status: model.ParticipationAccepted}, nil)
		mockRepo.On("ListQuests", mock.Anything, challengeID, 0, detailsQuestLimit).
			Return(quests, 1, nil)
		mockRepo.On("ListParticipants", mock.Anything, challengeID).
			Return(participants, nil)

		service := NewChallengeService(mockRepo)
		_, err := service.GetChallengeDetails(context.Background(), challengeID, 7)

		assert.NoError(t, err)
	})

	t.Run("Stranger is denied a private challenge", func(t *testing.T) {
		mockRepo := &mocks.MockChallengeRepository{}
		mockRepo.On("GetChallengeByID", mock.Anything, challengeID).
			Return(&model.ReadingChallenge{ID: challengeID, IsPublic: false, OwnerID: 42}, nil)
		mockRepo.On("GetParticipationByUserAndChallenge", mock.Anything, int64(999), challengeID).
			Return(nil, repository.ErrNotFound)

		service := NewChallengeService(mockRepo)
		_, err := service.GetChallengeDetails(context.Background(), challengeID, 999)

		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestChallengeService_UpdateChallenge(t *testing.T) {
	challengeID := uuid.New()

	t.Run("Only the owner may update", func(t *testing.T) {
		mockRepo := &mocks.MockChallengeRepository{}
		mockRepo.On("GetChallengeByID", mock.Anything, challengeID).
			Return(&model.ReadingChallenge{ID: challengeID, OwnerID: 42}, nil)

		service := NewChallengeService(mockRepo)
		_, err := service.UpdateChallenge(context.Background(), challengeID, 7, &model.ReadingChallenge{Title: "New"})

		assert.ErrorIs(t, err, ErrNotOwner)
		mockRepo.AssertNotCalled(t, "UpdateChallenge", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Owner updates the title", func(t *testing.T) {
		mockRepo := &mocks.MockChallengeRepository{}
		mockRepo.On("GetChallengeByID", mock.Anything, challengeID).
			Return(&model.ReadingChallenge{ID: challengeID, OwnerID: 42, Title: "Old"}, nil)
		mockRepo.On("UpdateChallenge", mock.Anything, challengeID,
			mock.MatchedBy(func(updates map[string]interface{}) bool {
				return updates["title"] == "New"
			})).Return(nil)

		service := NewChallengeService(mockRepo)
		_, err := service.UpdateChallenge(context.Background(), challengeID, 42, &model.ReadingChallenge{Title: "New"})

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestChallengeService_ShareChallenge(t *testing.T) {
	challengeID := uuid.New()

	t.Run("Invites every accepted friend", func(t *testing.T) {
		mockRepo := &mocks.MockChallengeRepository{}
		mockRepo.On("GetChallengeByID", mock.Anything, challengeID).
			Return(&model.ReadingChallenge{ID: challengeID, OwnerID: 42}, nil)
		mockRepo.On("GetAcceptedFriendIDs", mock.Anything, int64(42)).
			Return([]int64{7, 8}, nil)
		mockRepo.On("CreatePendingInvites", mock.Anything, challengeID, []int64{7, 8}).
			Return(nil)

		service := NewChallengeService(mockRepo)
		assert.NoError(t, service.ShareChallenge(context.Background(), challengeID, 42))
		mockRepo.AssertExpectations(t)
	})

	t.Run("Unknown challenge", func(t *testing.T) {
		mockRepo := &mocks.MockChallengeRepository{}
		mockRepo.On("GetChallengeByID", mock.Anything, challengeID).
			Return(nil, repository.ErrNotFound)

		service := NewChallengeService(mockRepo)
		assert.ErrorIs(t, service.ShareChallenge(context.Background(), challengeID, 42), ErrChallengeNotFound)
	})
}
