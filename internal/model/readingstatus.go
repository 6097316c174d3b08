package model

import (
	"time"

	"github.com/google/uuid"
)

type ReadingState string

const (
	ReadingStateRead       ReadingState = "read"
	ReadingStateWantToRead ReadingState = "want_to_read"
	ReadingStateReading    ReadingState = "currently_reading"
	ReadingStateDNF        ReadingState = "dnf"
)

func (s ReadingState) Valid() bool {
	switch s {
	case ReadingStateRead, ReadingStateWantToRead, ReadingStateReading, ReadingStateDNF:
		return true
	}
	return false
}

// ReadingStatus is the global per-(user, book) record, one per pair.
// Setting FinishDate is the signal that fans out to quest progress.
type ReadingStatus struct {
	ID          uuid.UUID
	UserID      int64
	BookID      int64
	Status      ReadingState
	Pages       int
	PageCounter int
	StartDate   *time.Time
	FinishDate  *time.Time
	UpdatedAt   time.Time
}

// UserReadingStatus is the shelf-listing row joined with book data.
type UserReadingStatus struct {
	ID            uuid.UUID
	BookID        int64
	Status        ReadingState
	Title         string
	GoogleBooksID string
	Pages         int
	PageCounter   int
	UpdatedAt     time.Time
}
