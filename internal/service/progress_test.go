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

func TestProgressService_CreateProgress(t *testing.T) {
	participationID := uuid.New()
	questID := uuid.New()

	tests := []struct {
		name          string
		progressCount int
		completed     bool
		setupMocks    func(mockRepo *mocks.MockProgressRepository)
		expectedError error
	}{
		{
			name:          "Incomplete row carries no completion timestamp",
			progressCount: 1,
			completed:     false,
			setupMocks: func(mockRepo *mocks.MockProgressRepository) {
				mockRepo.On("CreateProgress", mock.Anything, mock.MatchedBy(func(p *model.QuestProgress) bool {
					return p.ProgressCount == 1 && !p.Completed && p.CompletedAt == nil
				})).Return(nil)
				mockRepo.On("GetProgress", mock.Anything, mock.Anything, participationID).
					Return(&model.QuestProgress{ParticipationID: participationID, QuestID: questID}, nil)
			},
		},
		{
			name:          "Completed row gets a completion timestamp",
			progressCount: 2,
			completed:     true,
			setupMocks: func(mockRepo *mocks.MockProgressRepository) {
				mockRepo.On("CreateProgress", mock.Anything, mock.MatchedBy(func(p *model.QuestProgress) bool {
					return p.Completed && p.CompletedAt != nil && time.Since(*p.CompletedAt) < 2*time.Second
				})).Return(nil)
				mockRepo.On("GetProgress", mock.Anything, mock.Anything, participationID).
					Return(&model.QuestProgress{ParticipationID: participationID, QuestID: questID}, nil)
			},
		},
		{
			name:          "Negative count is floored at zero",
			progressCount: -3,
			setupMocks: func(mockRepo *mocks.MockProgressRepository) {
				mockRepo.On("CreateProgress", mock.Anything, mock.MatchedBy(func(p *model.QuestProgress) bool {
					return p.ProgressCount == 0
				})).Return(nil)
				mockRepo.On("GetProgress", mock.Anything, mock.Anything, participationID).
					Return(&model.QuestProgress{ParticipationID: participationID, QuestID: questID}, nil)
			},
		},
		{
			name: "Duplicate pair is rejected",
			setupMocks: func(mockRepo *mocks.MockProgressRepository) {
				mockRepo.On("CreateProgress", mock.Anything, mock.Anything).
					Return(repository.ErrProgressExists)
			},
			expectedError: ErrProgressExists,
		},
		{
			name: "Unknown participation",
			setupMocks: func(mockRepo *mocks.MockProgressRepository) {
				mockRepo.On("CreateProgress", mock.Anything, mock.Anything).
					Return(repository.ErrNotFound)
			},
			expectedError: ErrParticipationNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockProgressRepository{}
			tt.setupMocks(mockRepo)

			service := NewProgressService(mockRepo)
			_, err := service.CreateProgress(context.Background(), participationID, questID, tt.progressCount, tt.completed)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestProgressService_UpdateProgress(t *testing.T) {
	progressID := uuid.New()
	participationID := uuid.New()

	completedTrue := true
	completedFalse := false
	count := 5

	t.Run("Marking completed sets the timestamp", func(t *testing.T) {
		mockRepo := &mocks.MockProgressRepository{}
		mockRepo.On("UpdateProgress", mock.Anything, progressID, participationID,
			mock.MatchedBy(func(updates map[string]interface{}) bool {
				completedAt, ok := updates["completed_at"].(time.Time)
				return updates["completed"] == true && ok && time.Since(completedAt) < 2*time.Second
			})).Return(nil)
		mockRepo.On("GetProgress", mock.Anything, progressID, participationID).
			Return(&model.QuestProgress{ID: progressID, Completed: true}, nil)
		mockRepo.On("AllProgressCompleted", mock.Anything, participationID).
			Return(true, nil)

		service := NewProgressService(mockRepo)
		result, err := service.UpdateProgress(context.Background(), progressID, participationID, nil, &completedTrue)

		assert.NoError(t, err)
		assert.True(t, result.ChallengeCompleted)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Unmarking completed clears the timestamp", func(t *testing.T) {
		mockRepo := &mocks.MockProgressRepository{}
		mockRepo.On("UpdateProgress", mock.Anything, progressID, participationID,
			mock.MatchedBy(func(updates map[string]interface{}) bool {
				return updates["completed"] == false && updates["completed_at"] == nil
			})).Return(nil)
		mockRepo.On("GetProgress", mock.Anything, progressID, participationID).
			Return(&model.QuestProgress{ID: progressID}, nil)
		mockRepo.On("AllProgressCompleted", mock.Anything, participationID).
			Return(false, nil)

		service := NewProgressService(mockRepo)
		result, err := service.UpdateProgress(context.Background(), progressID, participationID, &count, &completedFalse)

		assert.NoError(t, err)
		assert.False(t, result.ChallengeCompleted)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Negative count is rejected", func(t *testing.T) {
		negative := -1
		mockRepo := &mocks.MockProgressRepository{}

		service := NewProgressService(mockRepo)
		_, err := service.UpdateProgress(context.Background(), progressID, participationID, &negative, nil)

		assert.ErrorIs(t, err, ErrInvalidTargetCount)
	})

	t.Run("Unknown row", func(t *testing.T) {
		mockRepo := &mocks.MockProgressRepository{}
		mockRepo.On("UpdateProgress", mock.Anything, progressID, participationID, mock.Anything).
			Return(repository.ErrNotFound)

		service := NewProgressService(mockRepo)
		_, err := service.UpdateProgress(context.Background(), progressID, participationID, &count, nil)

		assert.ErrorIs(t, err, ErrProgressNotFound)
	})
}

func TestProgressService_DeleteProgress(t *testing.T) {
	progressID := uuid.New()
	participationID := uuid.New()

	t.Run("Deletes the row", func(t *testing.T) {
		mockRepo := &mocks.MockProgressRepository{}
		mockRepo.On("DeleteProgress", mock.Anything, progressID, participationID).
			Return(nil)

		service := NewProgressService(mockRepo)
		assert.NoError(t, service.DeleteProgress(context.Background(), progressID, participationID))
	})

	t.Run("Unknown row", func(t *testing.T) {
		mockRepo := &mocks.MockProgressRepository{}
		mockRepo.On("DeleteProgress", mock.Anything, progressID, participationID).
			Return(repository.ErrNotFound)

		service := NewProgressService(mockRepo)
		assert.ErrorIs(t, service.DeleteProgress(context.Background(), progressID, participationID), ErrProgressNotFound)
	})
}
