package model

import (
	"time"

	"github.com/google/uuid"
)

type ReadingChallenge struct {
	ID          uuid.UUID
	Title       string
	Description string
	IsPublic    bool
	StartDate   *time.Time
	EndDate     *time.Time
	OwnerID     int64
	CreatedAt   time.Time
}

// ChallengeOverview is the list-page payload: quest totals per challenge
// for the "3/5 quests complete" progress bars.
type ChallengeOverview struct {
	ID              uuid.UUID
	Title           string
	Description     string
	QuestTarget     int
	CompletedQuests int
}

type ChallengeStats struct {
	ID                   uuid.UUID
	Title                string
	ParticipantsCount    int
	CompletedQuests      int
	CompletionPercentage int
}
