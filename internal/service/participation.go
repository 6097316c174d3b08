package service

import (
	"context"
	"errors"
	"fmt"

	"bookquest/internal/model"
	"bookquest/internal/repository"

	"github.com/google/uuid"
)

type ParticipationService struct {
	repo ParticipationRepository
}

func NewParticipationService(repo ParticipationRepository) *ParticipationService {
	return &ParticipationService{repo: repo}
}

// JoinChallenge enrolls the user directly as accepted. Progress rows for
// every existing quest are seeded as part of the same operation.
func (s *ParticipationService) JoinChallenge(ctx context.Context, userID int64, challengeID uuid.UUID) (*model.Participation, error) {
	if _, err := s.repo.GetChallengeByID(ctx, challengeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}

	participation := &model.Participation{
		ID:          uuid.New(),
		UserID:      userID,
		ChallengeID: challengeID,
		Status:      model.ParticipationAccepted,
	}

	err := s.repo.CreateParticipation(ctx, participation)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyParticipant) {
			return nil, ErrAlreadyParticipant
		}
		return nil, fmt.Errorf("failed to join challenge: %w", err)
	}

	return participation, nil
}

// LeaveChallenge removes the caller's participation and its progress rows.
func (s *ParticipationService) LeaveChallenge(ctx context.Context, id uuid.UUID, userID int64) error {
	participation, err := s.repo.GetParticipation(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrParticipationNotFound
		}
		return err
	}
	if participation.UserID != userID {
		return ErrParticipationNotFound
	}

	if err := s.repo.DeleteParticipation(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrParticipationNotFound
		}
		return fmt.Errorf("failed to leave challenge: %w", err)
	}

	return nil
}

// ParticipationDetails is a participation with its ledger rows.
type ParticipationDetails struct {
	Participation *model.Participation
	Progress      []*model.QuestProgress
}

func (s *ParticipationService) GetParticipation(ctx context.Context, id uuid.UUID) (*ParticipationDetails, error) {
	participation, err := s.repo.GetParticipation(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrParticipationNotFound
		}
		return nil, err
	}

	progress, err := s.repo.ListProgress(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list participation progress: %w", err)
	}

	return &ParticipationDetails{
		Participation: participation,
		Progress:      progress,
	}, nil
}

func (s *ParticipationService) GetUserParticipations(ctx context.Context, userID int64) ([]*ParticipationDetails, error) {
	participations, err := s.repo.ListUserParticipations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participations: %w", err)
	}

	details := make([]*ParticipationDetails, len(participations))
	for i, participation := range participations {
		progress, err := s.repo.ListProgress(ctx, participation.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list participation progress: %w", err)
		}
		details[i] = &ParticipationDetails{
			Participation: participation,
			Progress:      progress,
		}
	}

	return details, nil
}

func (s *ParticipationService) CheckParticipant(ctx context.Context, userID int64, challengeID uuid.UUID) (bool, error) {
	_, err := s.repo.GetParticipationByUserAndChallenge(ctx, userID, challengeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (s *ParticipationService) GetParticipationByIDs(ctx context.Context, userID int64, challengeID uuid.UUID) (*model.Participation, error) {
	participation, err := s.repo.GetParticipationByUserAndChallenge(ctx, userID, challengeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrParticipationNotFound
		}
		return nil, err
	}

	return participation, nil
}

// ListParticipants is owner-or-public gated: private challenge rosters
// are visible to the owner only.
func (s *ParticipationService) ListParticipants(ctx context.Context, challengeID uuid.UUID, requesterID int64) ([]*model.Participant, error) {
	challenge, err := s.repo.GetChallengeByID(ctx, challengeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}

	if !challenge.IsPublic && challenge.OwnerID != requesterID {
		return nil, ErrAccessDenied
	}

	return s.repo.ListParticipants(ctx, challengeID)
}

func (s *ParticipationService) ListPendingInvites(ctx context.Context, userID int64) ([]*model.ChallengeInvite, error) {
	return s.repo.ListPendingInvites(ctx, userID)
}

// UpdateInviteStatus moves an invite to accepted or declined. Accepting
// seeds progress rows for every quest that doesn't have one yet for this
// participation. The invite path is the alternate route into a
// challenge besides a direct join.
func (s *ParticipationService) UpdateInviteStatus(ctx context.Context, id uuid.UUID, status model.ParticipationStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	err := s.repo.UpdateParticipationStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrParticipationNotFound
		}
		return fmt.Errorf("failed to update invite: %w", err)
	}

	if status == model.ParticipationAccepted {
		if err := s.repo.SeedParticipationProgress(ctx, id); err != nil {
			return fmt.Errorf("failed to seed progress on accept: %w", err)
		}
	}

	return nil
}
