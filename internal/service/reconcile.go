package service

import (
	"context"
	"errors"
	"time"

	"bookquest/internal/model"
	"bookquest/internal/repository"
	"bookquest/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReconcileService keeps quest progress consistent with reading events.
// It is the only writer of progress counters. Both entry points converge
// on the same increment step; failures are logged and swallowed so that
// marking a book as read never fails because of challenge bookkeeping.
type ReconcileService struct {
	repo ReconcileRepository
}

func NewReconcileService(repo ReconcileRepository) *ReconcileService {
	return &ReconcileService{repo: repo}
}

// QuestBookRead handles "a book inside a quest was marked read". The
// progress row is expected to exist (seeded at join/quest creation); a
// missing row is logged, not created.
func (s *ReconcileService) QuestBookRead(ctx context.Context, questID uuid.UUID, userID int64, completionDate time.Time) {
	log := logger.Logger()

	quest, challenge, err := s.repo.GetQuestWithWindow(ctx, questID)
	if err != nil {
		log.Warn("reconcile: failed to load quest",
			zap.String("quest_id", questID.String()), zap.Error(err))
		return
	}

	if !inWindow(completionDate, challenge.StartDate, challenge.EndDate) {
		log.Debug("reconcile: completion outside challenge window",
			zap.String("quest_id", questID.String()),
			zap.Time("completion_date", completionDate))
		return
	}

	participation, err := s.repo.GetParticipationByUserAndChallenge(ctx, userID, challenge.ID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Warn("reconcile: failed to resolve participation", zap.Error(err))
		}
		return
	}
	if participation.Status != model.ParticipationAccepted {
		return
	}

	s.increment(ctx, participation.ID, quest.ID, quest.TargetCount)
}

// BookFinished handles "a book's global reading status got a finish
// date". One finished book can advance several quests across several
// challenges; each target is handled independently and a failing target
// never aborts the rest.
func (s *ReconcileService) BookFinished(ctx context.Context, userID, bookID int64, finishDate time.Time) {
	log := logger.Logger()

	targets, err := s.repo.FindProgressTargets(ctx, userID, bookID)
	if err != nil {
		log.Warn("reconcile: failed to find progress targets",
			zap.Int64("user_id", userID), zap.Int64("book_id", bookID), zap.Error(err))
		return
	}

	for _, target := range targets {
		if !inWindow(finishDate, target.StartDate, target.EndDate) {
			continue
		}

		// Unlike the quest-book path, this one creates the row when the
		// participation predates its seeding.
		if err := s.repo.EnsureProgress(ctx, target.ParticipationID, target.QuestID); err != nil {
			log.Warn("reconcile: failed to ensure progress row",
				zap.String("quest_id", target.QuestID.String()), zap.Error(err))
			continue
		}

		s.increment(ctx, target.ParticipationID, target.QuestID, target.TargetCount)
	}
}

func (s *ReconcileService) increment(ctx context.Context, participationID, questID uuid.UUID, targetCount int) {
	log := logger.Logger()

	applied, err := s.repo.IncrementProgress(ctx, participationID, questID, targetCount)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Warn("reconcile: progress row missing",
				zap.String("participation_id", participationID.String()),
				zap.String("quest_id", questID.String()))
			return
		}
		log.Warn("reconcile: failed to increment progress",
			zap.String("quest_id", questID.String()), zap.Error(err))
		return
	}

	if !applied {
		// Already completed or at target; a repeat "read" event is a no-op.
		return
	}

	log.Info("quest progress advanced",
		zap.String("participation_id", participationID.String()),
		zap.String("quest_id", questID.String()))
}

// inWindow applies the challenge date rule: bounds are inclusive, a nil
// bound is open.
func inWindow(date time.Time, start, end *time.Time) bool {
	if start != nil && date.Before(*start) {
		return false
	}
	if end != nil && date.After(*end) {
		return false
	}
	return true
}
