package model

import "github.com/google/uuid"

type ParticipationStatus string

const (
	ParticipationPending  ParticipationStatus = "pending"
	ParticipationAccepted ParticipationStatus = "accepted"
	ParticipationDeclined ParticipationStatus = "declined"
)

func (s ParticipationStatus) Valid() bool {
	switch s {
	case ParticipationPending, ParticipationAccepted, ParticipationDeclined:
		return true
	}
	return false
}

// Participation links a user to a challenge. One row per (user, challenge).
type Participation struct {
	ID          uuid.UUID
	UserID      int64
	ChallengeID uuid.UUID
	Status      ParticipationStatus
}

type Participant struct {
	UserID            int64
	Username          string
	CompletedQuests   int
	CompletedQuestIDs []uuid.UUID
}

type ChallengeInvite struct {
	ParticipationID uuid.UUID
	ChallengeID     uuid.UUID
	ChallengeTitle  string
	OwnerUsername   string
}
