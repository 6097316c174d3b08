package service

import (
	"context"
	"errors"
	"time"

	"bookquest/internal/model"

	"github.com/google/uuid"
)

var (
	ErrChallengeNotFound     = errors.New("challenge not found")
	ErrQuestNotFound         = errors.New("quest not found")
	ErrParticipationNotFound = errors.New("participation not found")
	ErrQuestBookNotFound     = errors.New("quest book not found")
	ErrProgressNotFound      = errors.New("progress record not found")
	ErrReadingStatusNotFound = errors.New("reading status not found")
	ErrBookNotFound          = errors.New("book not found")

	ErrAlreadyParticipant = errors.New("user already joined this challenge")
	ErrBookAlreadyAdded   = errors.New("book already added to this quest")
	ErrProgressExists     = errors.New("progress record already exists")

	ErrNotOwner     = errors.New("only the challenge owner may do this")
	ErrAccessDenied = errors.New("access to private challenge denied")

	ErrTitleRequired       = errors.New("title is required")
	ErrInvalidDateOrder    = errors.New("end date must be after start date")
	ErrPromptRequired      = errors.New("prompt is required")
	ErrInvalidQuestType    = errors.New("invalid quest type")
	ErrInvalidTargetCount  = errors.New("target count must be a positive integer")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrInvalidReadingState = errors.New("invalid reading state")
)

type Service struct {
	*ChallengeService
	*QuestService
	*ParticipationService
	*QuestBookService
	*ProgressService
	*ReadingStatusService
}

func NewService(
	challengeService *ChallengeService,
	questService *QuestService,
	participationService *ParticipationService,
	questBookService *QuestBookService,
	progressService *ProgressService,
	readingStatusService *ReadingStatusService,
) *Service {
	return &Service{
		ChallengeService:     challengeService,
		QuestService:         questService,
		ParticipationService: participationService,
		QuestBookService:     questBookService,
		ProgressService:      progressService,
		ReadingStatusService: readingStatusService,
	}
}

type ChallengeRepository interface {
	CreateChallenge(ctx context.Context, challenge *model.ReadingChallenge) error
	GetChallengeByID(ctx context.Context, id uuid.UUID) (*model.ReadingChallenge, error)
	GetPublicChallenges(ctx context.Context) ([]*model.ReadingChallenge, error)
	UpdateChallenge(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	DeleteChallenge(ctx context.Context, id uuid.UUID) error
	GetCreatedChallengeOverview(ctx context.Context, userID int64) ([]*model.ChallengeOverview, error)
	GetParticipatingChallengeOverview(ctx context.Context, userID int64) ([]*model.ChallengeOverview, error)
	GetChallengeStats(ctx context.Context, id uuid.UUID) (*model.ChallengeStats, error)
	GetParticipationByUserAndChallenge(ctx context.Context, userID int64, challengeID uuid.UUID) (*model.Participation, error)
	GetAcceptedFriendIDs(ctx context.Context, userID int64) ([]int64, error)
	CreatePendingInvites(ctx context.Context, challengeID uuid.UUID, userIDs []int64) error
	ListQuests(ctx context.Context, challengeID uuid.UUID, offset, limit int) ([]*model.ChallengeQuest, int, error)
	ListParticipants(ctx context.Context, challengeID uuid.UUID) ([]*model.Participant, error)
}

type QuestRepository interface {
	CreateQuest(ctx context.Context, quest *model.ChallengeQuest) error
	GetQuestByID(ctx context.Context, challengeID, questID uuid.UUID) (*model.ChallengeQuest, error)
	ListQuests(ctx context.Context, challengeID uuid.UUID, offset, limit int) ([]*model.ChallengeQuest, int, error)
	UpdateQuest(ctx context.Context, challengeID, questID uuid.UUID, updates map[string]interface{}) error
	DeleteQuest(ctx context.Context, challengeID, questID uuid.UUID) error
	GetChallengeByID(ctx context.Context, id uuid.UUID) (*model.ReadingChallenge, error)
}

type ParticipationRepository interface {
	CreateParticipation(ctx context.Context, participation *model.Participation) error
	GetParticipation(ctx context.Context, id uuid.UUID) (*model.Participation, error)
	GetParticipationByUserAndChallenge(ctx context.Context, userID int64, challengeID uuid.UUID) (*model.Participation, error)
	ListUserParticipations(ctx context.Context, userID int64) ([]*model.Participation, error)
	DeleteParticipation(ctx context.Context, id uuid.UUID) error
	UpdateParticipationStatus(ctx context.Context, id uuid.UUID, status model.ParticipationStatus) error
	SeedParticipationProgress(ctx context.Context, participationID uuid.UUID) error
	ListParticipants(ctx context.Context, challengeID uuid.UUID) ([]*model.Participant, error)
	ListPendingInvites(ctx context.Context, userID int64) ([]*model.ChallengeInvite, error)
	GetChallengeByID(ctx context.Context, id uuid.UUID) (*model.ReadingChallenge, error)
	ListProgress(ctx context.Context, participationID uuid.UUID) ([]*model.QuestProgress, error)
}

type QuestBookRepository interface {
	CreateQuestBook(ctx context.Context, questBook *model.QuestBook) error
	GetQuestBook(ctx context.Context, id, questID uuid.UUID) (*model.QuestBook, error)
	GetQuestBooks(ctx context.Context, questID uuid.UUID, addedBy *int64) ([]*model.QuestBook, error)
	UpdateQuestBook(ctx context.Context, id, questID uuid.UUID, updates map[string]interface{}) error
	DeleteQuestBook(ctx context.Context, id, questID uuid.UUID) error
	GetBookByID(ctx context.Context, id int64) (*model.BookSummary, error)
	GetQuestWithWindow(ctx context.Context, questID uuid.UUID) (*model.ChallengeQuest, *model.ReadingChallenge, error)
	GetParticipationByUserAndChallenge(ctx context.Context, userID int64, challengeID uuid.UUID) (*model.Participation, error)
	DecrementProgress(ctx context.Context, participationID, questID uuid.UUID, targetCount int) (bool, error)
}

type ProgressRepository interface {
	CreateProgress(ctx context.Context, progress *model.QuestProgress) error
	GetProgress(ctx context.Context, id, participationID uuid.UUID) (*model.QuestProgress, error)
	ListProgress(ctx context.Context, participationID uuid.UUID) ([]*model.QuestProgress, error)
	UpdateProgress(ctx context.Context, id, participationID uuid.UUID, updates map[string]interface{}) error
	DeleteProgress(ctx context.Context, id, participationID uuid.UUID) error
	AllProgressCompleted(ctx context.Context, participationID uuid.UUID) (bool, error)
}

type ReadingStatusRepository interface {
	CreateReadingStatus(ctx context.Context, status *model.ReadingStatus) error
	GetReadingStatus(ctx context.Context, id uuid.UUID) (*model.ReadingStatus, error)
	GetReadingStatusByBookAndUser(ctx context.Context, userID, bookID int64) (*model.ReadingStatus, error)
	ListUserReadingStatuses(ctx context.Context, userID int64) ([]*model.UserReadingStatus, error)
	UpdateReadingStatus(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	DeleteReadingStatus(ctx context.Context, id uuid.UUID) error
	GetBookByID(ctx context.Context, id int64) (*model.BookSummary, error)
}

// ReconcileRepository is the slice of storage the reconciliation engine
// owns. Nothing else writes progress counters.
type ReconcileRepository interface {
	GetQuestWithWindow(ctx context.Context, questID uuid.UUID) (*model.ChallengeQuest, *model.ReadingChallenge, error)
	GetParticipationByUserAndChallenge(ctx context.Context, userID int64, challengeID uuid.UUID) (*model.Participation, error)
	EnsureProgress(ctx context.Context, participationID, questID uuid.UUID) error
	IncrementProgress(ctx context.Context, participationID, questID uuid.UUID, targetCount int) (bool, error)
	FindProgressTargets(ctx context.Context, userID, bookID int64) ([]*model.ProgressTarget, error)
}

// Reconciler is what the quest-book and reading-status services call when
// a completion event happens. Both implementations live in reconcile.go.
type Reconciler interface {
	QuestBookRead(ctx context.Context, questID uuid.UUID, userID int64, completionDate time.Time)
	BookFinished(ctx context.Context, userID, bookID int64, finishDate time.Time)
}
