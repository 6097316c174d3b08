package model

import (
	"time"

	"github.com/google/uuid"
)

type QuestType string

const (
	QuestTypeCustom     QuestType = "custom"
	QuestTypeBookBased  QuestType = "book_based"
	QuestTypeGenreBased QuestType = "genre_based"
	QuestTypeCountBased QuestType = "count_based"
)

func (t QuestType) Valid() bool {
	switch t {
	case QuestTypeCustom, QuestTypeBookBased, QuestTypeGenreBased, QuestTypeCountBased:
		return true
	}
	return false
}

type ChallengeQuest struct {
	ID          uuid.UUID
	ChallengeID uuid.UUID
	Prompt      string
	Type        QuestType
	TargetCount int
	CreatedAt   time.Time
	Books       []*QuestBook
}
