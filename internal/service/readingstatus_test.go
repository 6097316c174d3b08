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

func TestReadingStatusService_UpdateFinishDate(t *testing.T) {
	statusID := uuid.New()
	finishDate := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	t.Run("Finishing a book fans out to quest progress", func(t *testing.T) {
		mockRepo := &mocks.MockReadingStatusRepository{}
		mockReconciler := &mocks.MockReconciler{}

		mockRepo.On("UpdateReadingStatus", mock.Anything, statusID,
			mock.MatchedBy(func(updates map[string]interface{}) bool {
				return updates["status"] == model.ReadingStateRead && updates["finish_date"] == finishDate
			})).Return(nil)
		mockRepo.On("GetReadingStatus", mock.Anything, statusID).
			Return(&model.ReadingStatus{
				ID:         statusID,
				UserID:     42,
				BookID:     1001,
				Status:     model.ReadingStateRead,
				FinishDate: &finishDate,
			}, nil)
		mockReconciler.On("BookFinished", mock.Anything, int64(42), int64(1001), finishDate).Return()

		service := NewReadingStatusService(mockRepo, mockReconciler)
		status, err := service.UpdateFinishDate(context.Background(), statusID, finishDate)

		assert.NoError(t, err)
		assert.Equal(t, model.ReadingStateRead, status.Status)
		mockRepo.AssertExpectations(t)
		mockReconciler.AssertExpectations(t)
	})

	t.Run("Unknown status reaches no quests", func(t *testing.T) {
		mockRepo := &mocks.MockReadingStatusRepository{}
		mockReconciler := &mocks.MockReconciler{}

		mockRepo.On("UpdateReadingStatus", mock.Anything, statusID, mock.Anything).
			Return(repository.ErrNotFound)

		service := NewReadingStatusService(mockRepo, mockReconciler)
		_, err := service.UpdateFinishDate(context.Background(), statusID, finishDate)

		assert.ErrorIs(t, err, ErrReadingStatusNotFound)
		mockReconciler.AssertNotCalled(t, "BookFinished",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestReadingStatusService_UpdateStatus(t *testing.T) {
	statusID := uuid.New()

	t.Run("Starting a book resets the page counter", func(t *testing.T) {
		mockRepo := &mocks.MockReadingStatusRepository{}
		mockReconciler := &mocks.MockReconciler{}

		mockRepo.On("UpdateReadingStatus", mock.Anything, statusID,
			mock.MatchedBy(func(updates map[string]interface{}) bool {
				return updates["status"] == model.ReadingStateReading &&
					updates["page_counter"] == 0 &&
					updates["finish_date"] == nil
			})).Return(nil)
		mockRepo.On("GetReadingStatus", mock.Anything, statusID).
			Return(&model.ReadingStatus{ID: statusID, Status: model.ReadingStateReading}, nil)

		service := NewReadingStatusService(mockRepo, mockReconciler)
		_, err := service.UpdateStatus(context.Background(), statusID, model.ReadingStateReading)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Shelving a book keeps the counters", func(t *testing.T) {
		mockRepo := &mocks.MockReadingStatusRepository{}
		mockReconciler := &mocks.MockReconciler{}

		mockRepo.On("UpdateReadingStatus", mock.Anything, statusID,
			mock.MatchedBy(func(updates map[string]interface{}) bool {
				_, hasCounter := updates["page_counter"]
				return updates["status"] == model.ReadingStateWantToRead && !hasCounter
			})).Return(nil)
		mockRepo.On("GetReadingStatus", mock.Anything, statusID).
			Return(&model.ReadingStatus{ID: statusID, Status: model.ReadingStateWantToRead}, nil)

		service := NewReadingStatusService(mockRepo, mockReconciler)
		_, err := service.UpdateStatus(context.Background(), statusID, model.ReadingStateWantToRead)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Invalid state", func(t *testing.T) {
		mockRepo := &mocks.MockReadingStatusRepository{}
		mockReconciler := &mocks.MockReconciler{}

		service := NewReadingStatusService(mockRepo, mockReconciler)
		_, err := service.UpdateStatus(context.Background(), statusID, model.ReadingState("banana"))

		assert.ErrorIs(t, err, ErrInvalidReadingState)
	})
}

func TestReadingStatusService_CreateReadingStatus(t *testing.T) {
	t.Run("Valid status", func(t *testing.T) {
		mockRepo := &mocks.MockReadingStatusRepository{}
		mockReconciler := &mocks.MockReconciler{}

		mockRepo.On("GetBookByID", mock.Anything, int64(1001)).
			Return(&model.BookSummary{ID: 1001}, nil)
		mockRepo.On("CreateReadingStatus", mock.Anything, mock.MatchedBy(func(s *model.ReadingStatus) bool {
			return s.UserID == 42 && s.BookID == 1001 && s.Status == model.ReadingStateReading
		})).Return(nil)
		mockRepo.On("GetReadingStatus", mock.Anything, mock.Anything).
			Return(&model.ReadingStatus{UserID: 42, BookID: 1001}, nil)

		service := NewReadingStatusService(mockRepo, mockReconciler)
		_, err := service.CreateReadingStatus(context.Background(), 42, 1001, model.ReadingStateReading, 320)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Unknown book", func(t *testing.T) {
		mockRepo := &mocks.MockReadingStatusRepository{}
		mockReconciler := &mocks.MockReconciler{}

		mockRepo.On("GetBookByID", mock.Anything, int64(1001)).
			Return(nil, repository.ErrNotFound)

		service := NewReadingStatusService(mockRepo, mockReconciler)
		_, err := service.CreateReadingStatus(context.Background(), 42, 1001, model.ReadingStateReading, 320)

		assert.ErrorIs(t, err, ErrBookNotFound)
	})
}
