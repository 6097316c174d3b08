package model

import (
	"time"

	"github.com/google/uuid"
)

// QuestProgress is the ledger row, one per (participation, quest).
// Invariant after every mutation: Completed == (ProgressCount >= the
// quest's target), and CompletedAt is non-nil iff Completed. Only the
// reconciliation engine, the seeding steps and the ledger CRUD write it.
type QuestProgress struct {
	ID              uuid.UUID
	ParticipationID uuid.UUID
	QuestID         uuid.UUID
	ProgressCount   int
	Completed       bool
	CompletedAt     *time.Time

	Quest *ChallengeQuest
}

// ProgressTarget is one (participation, quest) pair affected by a finished
// book, as returned by the fan-out query. Window bounds come from the
// owning challenge.
type ProgressTarget struct {
	ParticipationID uuid.UUID
	QuestID         uuid.UUID
	TargetCount     int
	StartDate       *time.Time
	EndDate         *time.Time
}
