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

type ProgressService struct {
	repo ProgressRepository
}

func NewProgressService(repo ProgressRepository) *ProgressService {
	return &ProgressService{repo: repo}
}

// ProgressUpdateResult carries the updated row together with whether the
// participation now has every quest completed.
type ProgressUpdateResult struct {
	Progress           *model.QuestProgress
	ChallengeCompleted bool
}

func (s *ProgressService) CreateProgress(ctx context.Context, participationID, questID uuid.UUID, progressCount int, completed bool) (*model.QuestProgress, error) {
	if progressCount < 0 {
		progressCount = 0
	}

	progress := &model.QuestProgress{
		ID:              uuid.New(),
		ParticipationID: participationID,
		QuestID:         questID,
		ProgressCount:   progressCount,
		Completed:       completed,
	}
	if completed {
		now := time.Now()
		progress.CompletedAt = &now
	}

	err := s.repo.CreateProgress(ctx, progress)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProgressExists):
			return nil, ErrProgressExists
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrParticipationNotFound
		}
		return nil, fmt.Errorf("failed to create progress: %w", err)
	}

	return s.repo.GetProgress(ctx, progress.ID, participationID)
}

func (s *ProgressService) GetProgress(ctx context.Context, id, participationID uuid.UUID) (*model.QuestProgress, error) {
	progress, err := s.repo.GetProgress(ctx, id, participationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgressNotFound
		}
		return nil, err
	}

	return progress, nil
}

func (s *ProgressService) ListProgress(ctx context.Context, participationID uuid.UUID) ([]*model.QuestProgress, error) {
	return s.repo.ListProgress(ctx, participationID)
}

// UpdateProgress applies a manual correction to a progress row. The
// completion timestamp follows the completed flag: set on the transition
// to completed, cleared on the transition back.
func (s *ProgressService) UpdateProgress(ctx context.Context, id, participationID uuid.UUID, progressCount *int, completed *bool) (*ProgressUpdateResult, error) {
	updates := make(map[string]interface{})

	if progressCount != nil {
		if *progressCount < 0 {
			return nil, ErrInvalidTargetCount
		}
		updates["progress_count"] = *progressCount
	}
	if completed != nil {
		updates["completed"] = *completed
		if *completed {
			updates["completed_at"] = time.Now()
		} else {
			updates["completed_at"] = nil
		}
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateProgress(ctx, id, participationID, updates); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrProgressNotFound
			}
			return nil, fmt.Errorf("failed to update progress: %w", err)
		}
	}

	progress, err := s.repo.GetProgress(ctx, id, participationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgressNotFound
		}
		return nil, err
	}

	challengeCompleted, err := s.repo.AllProgressCompleted(ctx, participationID)
	if err != nil {
		return nil, err
	}

	return &ProgressUpdateResult{
		Progress:           progress,
		ChallengeCompleted: challengeCompleted,
	}, nil
}

func (s *ProgressService) DeleteProgress(ctx context.Context, id, participationID uuid.UUID) error {
	err := s.repo.DeleteProgress(ctx, id, participationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProgressNotFound
		}
		return fmt.Errorf("failed to delete progress: %w", err)
	}

	return nil
}
