package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bookquest/internal/model"
	"bookquest/internal/repository"

	"github.com/google/uuid"
)

type ChallengeService struct {
	repo ChallengeRepository
}

func NewChallengeService(repo ChallengeRepository) *ChallengeService {
	return &ChallengeService{repo: repo}
}

func (s *ChallengeService) CreateChallenge(ctx context.Context, challenge *model.ReadingChallenge) (uuid.UUID, error) {
	if strings.TrimSpace(challenge.Title) == "" {
		return uuid.Nil, ErrTitleRequired
	}
	if challenge.StartDate != nil && challenge.EndDate != nil &&
		challenge.StartDate.After(*challenge.EndDate) {
		return uuid.Nil, ErrInvalidDateOrder
	}

	challenge.ID = uuid.New()
	if err := s.repo.CreateChallenge(ctx, challenge); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create challenge: %w", err)
	}

	return challenge.ID, nil
}

func (s *ChallengeService) GetPublicChallenges(ctx context.Context) ([]*model.ReadingChallenge, error) {
	return s.repo.GetPublicChallenges(ctx)
}

// ChallengeDetails is the full challenge page payload.
type ChallengeDetails struct {
	Challenge    *model.ReadingChallenge
	Quests       []*model.ChallengeQuest
	Participants []*model.Participant
}

const detailsQuestLimit = 100

// GetChallengeDetails loads a challenge with its quests and participants.
// Private challenges are visible to the owner and participants only.
func (s *ChallengeService) GetChallengeDetails(ctx context.Context, id uuid.UUID, requesterID int64) (*ChallengeDetails, error) {
	challenge, err := s.repo.GetChallengeByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}

	if !challenge.IsPublic && challenge.OwnerID != requesterID {
		_, err := s.repo.GetParticipationByUserAndChallenge(ctx, requesterID, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrAccessDenied
			}
			return nil, err
		}
	}

	quests, _, err := s.repo.ListQuests(ctx, id, 0, detailsQuestLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenge quests: %w", err)
	}

	participants, err := s.repo.ListParticipants(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenge participants: %w", err)
	}

	return &ChallengeDetails{
		Challenge:    challenge,
		Quests:       quests,
		Participants: participants,
	}, nil
}

type ChallengeOverview struct {
	Created       []*model.ChallengeOverview
	Participating []*model.ChallengeOverview
}

func (s *ChallengeService) GetUserChallengeOverview(ctx context.Context, userID int64) (*ChallengeOverview, error) {
	created, err := s.repo.GetCreatedChallengeOverview(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get created challenges: %w", err)
	}

	participating, err := s.repo.GetParticipatingChallengeOverview(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participating challenges: %w", err)
	}

	return &ChallengeOverview{
		Created:       created,
		Participating: participating,
	}, nil
}

func (s *ChallengeService) UpdateChallenge(ctx context.Context, id uuid.UUID, requesterID int64, update *model.ReadingChallenge) (*model.ReadingChallenge, error) {
	challenge, err := s.repo.GetChallengeByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}

	if challenge.OwnerID != requesterID {
		return nil, ErrNotOwner
	}

	updates := make(map[string]interface{})
	if update.Title != "" {
		if strings.TrimSpace(update.Title) == "" {
			return nil, ErrTitleRequired
		}
		updates["title"] = strings.TrimSpace(update.Title)
	}
	if update.Description != "" {
		updates["description"] = update.Description
	}
	if update.StartDate != nil {
		updates["start_date"] = update.StartDate
	}
	if update.EndDate != nil {
		updates["end_date"] = update.EndDate
	}
	if update.StartDate != nil && update.EndDate != nil &&
		update.StartDate.After(*update.EndDate) {
		return nil, ErrInvalidDateOrder
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateChallenge(ctx, id, updates); err != nil {
			return nil, fmt.Errorf("failed to update challenge: %w", err)
		}
	}

	return s.repo.GetChallengeByID(ctx, id)
}

func (s *ChallengeService) DeleteChallenge(ctx context.Context, id uuid.UUID, requesterID int64) error {
	challenge, err := s.repo.GetChallengeByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrChallengeNotFound
		}
		return err
	}

	if challenge.OwnerID != requesterID {
		return ErrNotOwner
	}

	if err := s.repo.DeleteChallenge(ctx, id); err != nil {
		return fmt.Errorf("failed to delete challenge: %w", err)
	}

	return nil
}

func (s *ChallengeService) GetChallengeStats(ctx context.Context, id uuid.UUID) (*model.ChallengeStats, error) {
	stats, err := s.repo.GetChallengeStats(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}

	return stats, nil
}

// ShareChallenge invites every accepted friend of the caller to the
// challenge. Friends who already participate keep their row.
func (s *ChallengeService) ShareChallenge(ctx context.Context, id uuid.UUID, userID int64) error {
	if _, err := s.repo.GetChallengeByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrChallengeNotFound
		}
		return err
	}

	friendIDs, err := s.repo.GetAcceptedFriendIDs(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get friends: %w", err)
	}

	if err := s.repo.CreatePendingInvites(ctx, id, friendIDs); err != nil {
		return fmt.Errorf("failed to create invites: %w", err)
	}

	return nil
}
