package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookquest/internal/model"
	"bookquest/internal/repository"

	"github.com/google/uuid"
)

type ReadingStatusService struct {
	repo       ReadingStatusRepository
	reconciler Reconciler
}

func NewReadingStatusService(repo ReadingStatusRepository, reconciler Reconciler) *ReadingStatusService {
	return &ReadingStatusService{
		repo:       repo,
		reconciler: reconciler,
	}
}

func (s *ReadingStatusService) CreateReadingStatus(ctx context.Context, userID, bookID int64, state model.ReadingState, pages int) (*model.ReadingStatus, error) {
	if !state.Valid() {
		return nil, ErrInvalidReadingState
	}

	if _, err := s.repo.GetBookByID(ctx, bookID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	status := &model.ReadingStatus{
		ID:     uuid.New(),
		UserID: userID,
		BookID: bookID,
		Status: state,
		Pages:  pages,
	}

	if err := s.repo.CreateReadingStatus(ctx, status); err != nil {
		return nil, fmt.Errorf("failed to create reading status: %w", err)
	}

	return s.repo.GetReadingStatus(ctx, status.ID)
}

func (s *ReadingStatusService) GetReadingStatus(ctx context.Context, id uuid.UUID) (*model.ReadingStatus, error) {
	status, err := s.repo.GetReadingStatus(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReadingStatusNotFound
		}
		return nil, err
	}

	return status, nil
}

func (s *ReadingStatusService) GetReadingStatusByBook(ctx context.Context, userID, bookID int64) (*model.ReadingStatus, error) {
	status, err := s.repo.GetReadingStatusByBookAndUser(ctx, userID, bookID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReadingStatusNotFound
		}
		return nil, err
	}

	return status, nil
}

func (s *ReadingStatusService) ListUserReadingStatuses(ctx context.Context, userID int64) ([]*model.UserReadingStatus, error) {
	return s.repo.ListUserReadingStatuses(ctx, userID)
}

// UpdateStatus moves a book between shelves. Starting a book over resets
// the page counter and clears any stale finish date.
func (s *ReadingStatusService) UpdateStatus(ctx context.Context, id uuid.UUID, state model.ReadingState) (*model.ReadingStatus, error) {
	if !state.Valid() {
		return nil, ErrInvalidReadingState
	}

	updates := map[string]interface{}{"status": state}
	if state == model.ReadingStateReading {
		updates["page_counter"] = 0
		updates["finish_date"] = nil
	}

	return s.applyUpdate(ctx, id, updates)
}

func (s *ReadingStatusService) UpdateStartDate(ctx context.Context, id uuid.UUID, startDate time.Time) (*model.ReadingStatus, error) {
	return s.applyUpdate(ctx, id, map[string]interface{}{"start_date": startDate})
}

func (s *ReadingStatusService) UpdatePageCounter(ctx context.Context, id uuid.UUID, pageCounter int) (*model.ReadingStatus, error) {
	if pageCounter < 0 {
		pageCounter = 0
	}
	return s.applyUpdate(ctx, id, map[string]interface{}{"page_counter": pageCounter})
}

func (s *ReadingStatusService) UpdatePages(ctx context.Context, id uuid.UUID, pages int) (*model.ReadingStatus, error) {
	if pages < 0 {
		pages = 0
	}
	return s.applyUpdate(ctx, id, map[string]interface{}{"pages": pages})
}

// UpdateFinishDate records that the user finished the book and fans the
// event out to every quest counting it.
func (s *ReadingStatusService) UpdateFinishDate(ctx context.Context, id uuid.UUID, finishDate time.Time) (*model.ReadingStatus, error) {
	status, err := s.applyUpdate(ctx, id, map[string]interface{}{
		"status":      model.ReadingStateRead,
		"finish_date": finishDate,
	})
	if err != nil {
		return nil, err
	}

	s.reconciler.BookFinished(ctx, status.UserID, status.BookID, finishDate)

	return status, nil
}

func (s *ReadingStatusService) DeleteReadingStatus(ctx context.Context, id uuid.UUID) error {
	err := s.repo.DeleteReadingStatus(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrReadingStatusNotFound
		}
		return fmt.Errorf("failed to delete reading status: %w", err)
	}

	return nil
}

func (s *ReadingStatusService) applyUpdate(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*model.ReadingStatus, error) {
	if err := s.repo.UpdateReadingStatus(ctx, id, updates); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReadingStatusNotFound
		}
		return nil, fmt.Errorf("failed to update reading status: %w", err)
	}

	return s.repo.GetReadingStatus(ctx, id)
}
