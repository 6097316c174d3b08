package model

import (
	"time"

	"github.com/google/uuid"
)

// QuestBookStatus is the per-quest view of a book. It is deliberately
// independent from the user's global ReadingState for the same book: the
// same title can be "read" globally and "currently reading" inside one
// quest.
type QuestBookStatus string

const (
	QuestBookWantToRead QuestBookStatus = "want_to_read"
	QuestBookReading    QuestBookStatus = "currently_reading"
	QuestBookRead       QuestBookStatus = "read"
)

func (s QuestBookStatus) Valid() bool {
	switch s {
	case QuestBookWantToRead, QuestBookReading, QuestBookRead:
		return true
	}
	return false
}

type QuestBook struct {
	ID       uuid.UUID
	QuestID  uuid.UUID
	BookID   int64
	AddedBy  int64
	Status   QuestBookStatus
	ReadDate *time.Time
	AddedAt  time.Time

	Book *BookSummary
	User *UserSummary
}

type BookSummary struct {
	ID            int64
	Title         string
	GoogleBooksID string
}

type UserSummary struct {
	ID       int64
	Username string
}
