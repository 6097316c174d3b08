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

func datePtr(t time.Time) *time.Time { return &t }

func TestReconcileService_QuestBookRead(t *testing.T) {
	questID := uuid.New()
	challengeID := uuid.New()
	participationID := uuid.New()

	windowStart := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	quest := &model.ChallengeQuest{ID: questID, ChallengeID: challengeID, TargetCount: 2}
	challenge := &model.ReadingChallenge{
		ID:        challengeID,
		StartDate: datePtr(windowStart),
		EndDate:   datePtr(windowEnd),
	}
	accepted := &model.Participation{
		ID:          participationID,
		ChallengeID: challengeID,
		Status:      model.ParticipationAccepted,
	}

	tests := []struct {
		name           string
		completionDate time.Time
		setupMocks     func(mockRepo *mocks.MockReconcileRepository)
		expectNoWrite  bool
	}{
		{
			name:           "In-window read advances progress",
			completionDate: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
			setupMocks: func(mockRepo *mocks.MockReconcileRepository) {
				mockRepo.On("GetQuestWithWindow", mock.Anything, questID).
					Return(quest, challenge, nil)
				mockRepo.On("GetParticipationByUserAndChallenge", mock.Anything, int64(42), challengeID).
					Return(accepted, nil)
				mockRepo.On("IncrementProgress", mock.Anything, participationID, questID, 2).
					Return(true, nil)
			},
		},
		{
			name:           "Start boundary is inclusive",
			completionDate: windowStart,
			setupMocks: func(mockRepo *mocks.MockReconcileRepository) {
				mockRepo.On("GetQuestWithWindow", mock.Anything, questID).
					Return(quest, challenge, nil)
				mockRepo.On("GetParticipationByUserAndChallenge", mock.Anything, int64(42), challengeID).
					Return(accepted, nil)
				mockRepo.On("IncrementProgress", mock.Anything, participationID, questID, 2).
					Return(true, nil)
			},
		},
		{
			name:           "End boundary is inclusive",
			completionDate: windowEnd,
			setupMocks: func(mockRepo *mocks.MockReconcileRepository) {
				mockRepo.On("GetQuestWithWindow", mock.Anything, questID).
					Return(quest, challenge, nil)
				mockRepo.On("GetParticipationByUserAndChallenge", mock.Anything, int64(42), challengeID).
					Return(accepted, nil)
				mockRepo.On("IncrementProgress", mock.Anything, participationID, questID, 2).
					Return(true, nil)
			},
		},
		{
			name:           "Before the window no progress is written",
			completionDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			setupMocks: func(mockRepo *mocks.MockReconcileRepository) {
				mockRepo.On("GetQuestWithWindow", mock.Anything, questID).
					Return(quest, challenge, nil)
			},
			expectNoWrite: true,
		},
		{
			name:           "After the window no progress is written",
			completionDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
			setupMocks: func(mockRepo *mocks.MockReconcileRepository) {
				mockRepo.On("GetQuestWithWindow", mock.Anything, questID).
					Return(quest, challenge, nil)
			},
			expectNoWrite: true,
		},
		{
			name:           "Non-participant reads are ignored",
			completionDate: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
			setupMocks: func(mockRepo *mocks.MockReconcileRepository) {
				mockRepo.On("GetQuestWithWindow", mock.Anything, questID).
					Return(quest, challenge, nil)
				mockRepo.On("GetParticipationByUserAndChallenge", mock.Anything, int64(42), challengeID).
					Return(nil, repository.ErrNotFound)
			},
			expectNoWrite: true,
		},
		{
			name:           "Pending participation does not count",
			completionDate: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
			setupMocks: func(mockRepo *mocks.MockReconcileRepository) {
				mockRepo.On("GetQuestWithWindow", mock.Anything, questID).
					Return(quest, challenge, nil)
				mockRepo.On("GetParticipationByUserAndChallenge", mock.Anything, int64(42), challengeID).
					Return(&model.Participation{
						ID:          participationID,
						ChallengeID: challengeID,
						Status:      model.ParticipationPending,
					}, nil)
			},
			expectNoWrite: true,
		},
		{
			name:           "Repeat read after completion is a no-op",
			completionDate: time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
			setupMocks: func(mockRepo *mocks.MockReconcileRepository) {
				mockRepo.On("GetQuestWithWindow", mock.Anything, questID).
					Return(quest, challenge, nil)
				mockRepo.On("GetParticipationByUserAndChallenge", mock.Anything, int64(42), challengeID).
					Return(accepted, nil)
				mockRepo.On("IncrementProgress", mock.Anything, participationID, questID, 2).
					Return(false, nil)
			},
		},
		{
			name:           "Missing progress row is logged not created",
			completionDate: time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
			setupMocks: func(mockRepo *mocks.MockReconcileRepository) {
				mockRepo.On("GetQuestWithWindow", mock.Anything, questID).
					Return(quest, challenge, nil)
				mockRepo.On("GetParticipationByUserAndChallenge", mock.Anything, int64(42), challengeID).
					Return(accepted, nil)
				mockRepo.On("IncrementProgress", mock.Anything, participationID, questID, 2).
					Return(false, repository.ErrNotFound)
			},
		},
		{
			name:           "Quest lookup failure is swallowed",
			completionDate: time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
			setupMocks: func(mockRepo *mocks.MockReconcileRepository) {
				mockRepo.On("GetQuestWithWindow", mock.Anything, questID).
					Return(nil, nil, repository.ErrNotFound)
			},
			expectNoWrite: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockReconcileRepository{}
			tt.setupMocks(mockRepo)

			service := NewReconcileService(mockRepo)
			service.QuestBookRead(context.Background(), questID, 42, tt.completionDate)

			if tt.expectNoWrite {
				mockRepo.AssertNotCalled(t, "IncrementProgress",
					mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestReconcileService_QuestBookRead_OpenWindow(t *testing.T) {
	questID := uuid.New()
	challengeID := uuid.New()
	participationID := uuid.New()

	quest := &model.ChallengeQuest{ID: questID, ChallengeID: challengeID, TargetCount: 1}
	challenge := &model.ReadingChallenge{ID: challengeID}

	mockRepo := &mocks.MockReconcileRepository{}
	mockRepo.On("GetQuestWithWindow", mock.Anything, questID).
		Return(quest, challenge, nil)
	mockRepo.On("GetParticipationByUserAndChallenge", mock.Anything, int64(7), challengeID).
		Return(&model.Participation{
			ID:          participationID,
			ChallengeID: challengeID,
			Status:      model.ParticipationAccepted,
		}, nil)
	mockRepo.On("IncrementProgress", mock.Anything, participationID, questID, 1).
		Return(true, nil)

	service := NewReconcileService(mockRepo)
	service.QuestBookRead(context.Background(), questID, 7, time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC))

	mockRepo.AssertExpectations(t)
}

func TestReconcileService_BookFinished(t *testing.T) {
	finishDate := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	inWindowTarget := func() *model.ProgressTarget {
		return &model.ProgressTarget{
			ParticipationID: uuid.New(),
			QuestID:         uuid.New(),
			TargetCount:     3,
			StartDate:       datePtr(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)),
			EndDate:         datePtr(time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)),
		}
	}

	t.Run("Fans out to every quest counting the book", func(t *testing.T) {
		first := inWindowTarget()
		second := inWindowTarget()

		mockRepo := &mocks.MockReconcileRepository{}
		mockRepo.On("FindProgressTargets", mock.Anything, int64(42), int64(1001)).
			Return([]*model.ProgressTarget{first, second}, nil)
		for _, target := range []*model.ProgressTarget{first, second} {
			mockRepo.On("EnsureProgress", mock.Anything, target.ParticipationID, target.QuestID).
				Return(nil)
			mockRepo.On("IncrementProgress", mock.Anything, target.ParticipationID, target.QuestID, 3).
				Return(true, nil)
		}

		service := NewReconcileService(mockRepo)
		service.BookFinished(context.Background(), 42, 1001, finishDate)

		mockRepo.AssertExpectations(t)
	})

	t.Run("Skips targets whose window excludes the finish date", func(t *testing.T) {
		open := inWindowTarget()
		closed := inWindowTarget()
		closed.EndDate = datePtr(time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC))

		mockRepo := &mocks.MockReconcileRepository{}
		mockRepo.On("FindProgressTargets", mock.Anything, int64(42), int64(1001)).
			Return([]*model.ProgressTarget{open, closed}, nil)
		mockRepo.On("EnsureProgress", mock.Anything, open.ParticipationID, open.QuestID).
			Return(nil)
		mockRepo.On("IncrementProgress", mock.Anything, open.ParticipationID, open.QuestID, 3).
			Return(true, nil)

		service := NewReconcileService(mockRepo)
		service.BookFinished(context.Background(), 42, 1001, finishDate)

		mockRepo.AssertExpectations(t)
		mockRepo.AssertNotCalled(t, "IncrementProgress",
			mock.Anything, closed.ParticipationID, closed.QuestID, mock.Anything)
	})

	t.Run("Seeds a missing progress row before incrementing", func(t *testing.T) {
		target := inWindowTarget()

		mockRepo := &mocks.MockReconcileRepository{}
		mockRepo.On("FindProgressTargets", mock.Anything, int64(42), int64(1001)).
			Return([]*model.ProgressTarget{target}, nil)
		mockRepo.On("EnsureProgress", mock.Anything, target.ParticipationID, target.QuestID).
			Return(nil)
		mockRepo.On("IncrementProgress", mock.Anything, target.ParticipationID, target.QuestID, 3).
			Return(true, nil)

		service := NewReconcileService(mockRepo)
		service.BookFinished(context.Background(), 42, 1001, finishDate)

		mockRepo.AssertExpectations(t)
	})

	t.Run("A failing target does not abort the rest", func(t *testing.T) {
		broken := inWindowTarget()
		healthy := inWindowTarget()

		mockRepo := &mocks.MockReconcileRepository{}
		mockRepo.On("FindProgressTargets", mock.Anything, int64(42), int64(1001)).
			Return([]*model.ProgressTarget{broken, healthy}, nil)
		mockRepo.On("EnsureProgress", mock.Anything, broken.ParticipationID, broken.QuestID).
			Return(assert.AnError)
		mockRepo.On("EnsureProgress", mock.Anything, healthy.ParticipationID, healthy.QuestID).
			Return(nil)
		mockRepo.On("IncrementProgress", mock.Anything, healthy.ParticipationID, healthy.QuestID, 3).
			Return(true, nil)

		service := NewReconcileService(mockRepo)
		service.BookFinished(context.Background(), 42, 1001, finishDate)

		mockRepo.AssertExpectations(t)
		mockRepo.AssertNotCalled(t, "IncrementProgress",
			mock.Anything, broken.ParticipationID, broken.QuestID, mock.Anything)
	})

	t.Run("Lookup failure is swallowed", func(t *testing.T) {
		mockRepo := &mocks.MockReconcileRepository{}
		mockRepo.On("FindProgressTargets", mock.Anything, int64(42), int64(1001)).
			Return(nil, assert.AnError)

		service := NewReconcileService(mockRepo)
		service.BookFinished(context.Background(), 42, 1001, finishDate)

		mockRepo.AssertExpectations(t)
	})
}

func TestInWindow(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		date     time.Time
		start    *time.Time
		end      *time.Time
		expected bool
	}{
		{"Inside window", time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), &start, &end, true},
		{"On start bound", start, &start, &end, true},
		{"On end bound", end, &start, &end, true},
		{"Before start", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), &start, &end, false},
		{"After end", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), &start, &end, false},
		{"Open start", time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC), nil, &end, true},
		{"Open end", time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), &start, nil, true},
		{"Fully open", time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, inWindow(tt.date, tt.start, tt.end))
		})
	}
}
