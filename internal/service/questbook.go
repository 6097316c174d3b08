package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookquest/internal/model"
	"bookquest/internal/repository"
	"bookquest/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type QuestBookService struct {
	repo       QuestBookRepository
	reconciler Reconciler
}

func NewQuestBookService(repo QuestBookRepository, reconciler Reconciler) *QuestBookService {
	return &QuestBookService{
		repo:       repo,
		reconciler: reconciler,
	}
}

// AddBookToQuest attaches a book to a quest for one user. An attachment
// arriving already read, with a read date, counts toward progress
// immediately.
func (s *QuestBookService) AddBookToQuest(ctx context.Context, questID uuid.UUID, userID, bookID int64, status model.QuestBookStatus, readDate *time.Time) (*model.QuestBook, error) {
	if status == "" {
		status = model.QuestBookWantToRead
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	if _, _, err := s.repo.GetQuestWithWindow(ctx, questID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrQuestNotFound
		}
		return nil, err
	}

	if _, err := s.repo.GetBookByID(ctx, bookID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	questBook := &model.QuestBook{
		ID:       uuid.New(),
		QuestID:  questID,
		BookID:   bookID,
		AddedBy:  userID,
		Status:   status,
		ReadDate: readDate,
	}

	err := s.repo.CreateQuestBook(ctx, questBook)
	if err != nil {
		if errors.Is(err, repository.ErrBookAlreadyAdded) {
			return nil, ErrBookAlreadyAdded
		}
		return nil, fmt.Errorf("failed to add book to quest: %w", err)
	}

	if status == model.QuestBookRead && readDate != nil {
		s.reconciler.QuestBookRead(ctx, questID, userID, *readDate)
	}

	return s.repo.GetQuestBook(ctx, questBook.ID, questID)
}

func (s *QuestBookService) GetQuestBook(ctx context.Context, id, questID uuid.UUID) (*model.QuestBook, error) {
	questBook, err := s.repo.GetQuestBook(ctx, id, questID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrQuestBookNotFound
		}
		return nil, err
	}

	return questBook, nil
}

func (s *QuestBookService) ListQuestBooks(ctx context.Context, questID uuid.UUID, addedBy *int64) ([]*model.QuestBook, error) {
	return s.repo.GetQuestBooks(ctx, questID, addedBy)
}

// UpdateQuestBook changes an attachment's status and read date. Only the
// not-read -> read transition feeds progress; a missing read date on that
// transition defaults to now. Moving away from read does not reverse
// progress; only removal does.
func (s *QuestBookService) UpdateQuestBook(ctx context.Context, id, questID uuid.UUID, status *model.QuestBookStatus, readDate *time.Time) (*model.QuestBook, error) {
	current, err := s.repo.GetQuestBook(ctx, id, questID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrQuestBookNotFound
		}
		return nil, err
	}

	updates := make(map[string]interface{})
	markedAsRead := false
	finalReadDate := readDate

	if status != nil {
		if !status.Valid() {
			return nil, ErrInvalidStatus
		}
		updates["status"] = *status
		markedAsRead = *status == model.QuestBookRead && current.Status != model.QuestBookRead
	}

	if markedAsRead && finalReadDate == nil {
		now := time.Now()
		finalReadDate = &now
	}
	if finalReadDate != nil {
		updates["read_date"] = finalReadDate
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateQuestBook(ctx, id, questID, updates); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrQuestBookNotFound
			}
			return nil, fmt.Errorf("failed to update quest book: %w", err)
		}
	}

	if markedAsRead && finalReadDate != nil {
		s.reconciler.QuestBookRead(ctx, questID, current.AddedBy, *finalReadDate)
	}

	return s.repo.GetQuestBook(ctx, id, questID)
}

// RemoveBookFromQuest deletes an attachment. A read attachment's
// contribution is reversed first: one decrement, clamped at zero, with
// completion recomputed against the quest target.
func (s *QuestBookService) RemoveBookFromQuest(ctx context.Context, id, questID uuid.UUID) error {
	log := logger.Logger()

	questBook, err := s.repo.GetQuestBook(ctx, id, questID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrQuestBookNotFound
		}
		return err
	}

	if questBook.Status == model.QuestBookRead && questBook.ReadDate != nil {
		quest, challenge, err := s.repo.GetQuestWithWindow(ctx, questID)
		if err != nil {
			return fmt.Errorf("failed to load quest for removal: %w", err)
		}

		participation, err := s.repo.GetParticipationByUserAndChallenge(ctx, questBook.AddedBy, challenge.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		if participation != nil {
			applied, err := s.repo.DecrementProgress(ctx, participation.ID, questID, quest.TargetCount)
			if err != nil {
				return fmt.Errorf("failed to reverse progress: %w", err)
			}
			if !applied {
				// Counter was already at zero, so the ledger and the quest
				// books disagree. Keep going; the removal itself is valid.
				log.Warn("progress decrement found nothing to reverse",
					zap.String("participation_id", participation.ID.String()),
					zap.String("quest_id", questID.String()))
			}
		}
	}

	err = s.repo.DeleteQuestBook(ctx, id, questID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrQuestBookNotFound
		}
		return fmt.Errorf("failed to remove book from quest: %w", err)
	}

	return nil
}
