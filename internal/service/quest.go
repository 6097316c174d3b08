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

type QuestService struct {
	repo QuestRepository
}

func NewQuestService(repo QuestRepository) *QuestService {
	return &QuestService{repo: repo}
}

// CreateQuest validates and inserts a quest; every current participant of
// the challenge gets a zero progress row as part of the same operation.
func (s *QuestService) CreateQuest(ctx context.Context, quest *model.ChallengeQuest) (uuid.UUID, error) {
	if !quest.Type.Valid() {
		return uuid.Nil, ErrInvalidQuestType
	}

	quest.Prompt = strings.TrimSpace(quest.Prompt)
	if quest.Prompt == "" {
		return uuid.Nil, ErrPromptRequired
	}

	if quest.TargetCount < 1 {
		quest.TargetCount = 1
	}

	if _, err := s.repo.GetChallengeByID(ctx, quest.ChallengeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return uuid.Nil, ErrChallengeNotFound
		}
		return uuid.Nil, err
	}

	quest.ID = uuid.New()
	if err := s.repo.CreateQuest(ctx, quest); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create quest: %w", err)
	}

	return quest.ID, nil
}

func (s *QuestService) GetQuest(ctx context.Context, challengeID, questID uuid.UUID) (*model.ChallengeQuest, error) {
	quest, err := s.repo.GetQuestByID(ctx, challengeID, questID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrQuestNotFound
		}
		return nil, fmt.Errorf("failed to get quest: %w", err)
	}

	return quest, nil
}

// QuestPage is one page of a challenge's quests.
type QuestPage struct {
	Quests      []*model.ChallengeQuest
	TotalQuests int
	TotalPages  int
	CurrentPage int
}

func (s *QuestService) ListQuests(ctx context.Context, challengeID uuid.UUID, page, limit int) (*QuestPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	quests, total, err := s.repo.ListQuests(ctx, challengeID, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list quests: %w", err)
	}

	totalPages := (total + limit - 1) / limit

	return &QuestPage{
		Quests:      quests,
		TotalQuests: total,
		TotalPages:  totalPages,
		CurrentPage: page,
	}, nil
}

// QuestUpdate carries the optional fields of a quest update.
type QuestUpdate struct {
	Prompt      *string
	Type        *model.QuestType
	TargetCount *int
}

func (s *QuestService) UpdateQuest(ctx context.Context, challengeID, questID uuid.UUID, update *QuestUpdate) (*model.ChallengeQuest, error) {
	updates := make(map[string]interface{})

	if update.Prompt != nil {
		prompt := strings.TrimSpace(*update.Prompt)
		if prompt == "" {
			return nil, ErrPromptRequired
		}
		updates["prompt"] = prompt
	}
	if update.Type != nil {
		if !update.Type.Valid() {
			return nil, ErrInvalidQuestType
		}
		updates["type"] = *update.Type
	}
	if update.TargetCount != nil {
		if *update.TargetCount < 1 {
			return nil, ErrInvalidTargetCount
		}
		updates["target_count"] = *update.TargetCount
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateQuest(ctx, challengeID, questID, updates); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrQuestNotFound
			}
			return nil, fmt.Errorf("failed to update quest: %w", err)
		}
	}

	return s.GetQuest(ctx, challengeID, questID)
}

func (s *QuestService) DeleteQuest(ctx context.Context, challengeID, questID uuid.UUID) error {
	err := s.repo.DeleteQuest(ctx, challengeID, questID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrQuestNotFound
		}
		return fmt.Errorf("failed to delete quest: %w", err)
	}

	return nil
}
