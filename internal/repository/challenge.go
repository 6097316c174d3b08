package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bookquest/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type challengeRow struct {
	ID          uuid.UUID  `db:"id"`
	Title       string     `db:"title"`
	Description string     `db:"description"`
	IsPublic    bool       `db:"is_public"`
	StartDate   *time.Time `db:"start_date"`
	EndDate     *time.Time `db:"end_date"`
	OwnerID     int64      `db:"owner_id"`
	CreatedAt   time.Time  `db:"created_at"`
}

func (c *challengeRow) toModel() *model.ReadingChallenge {
	return &model.ReadingChallenge{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		IsPublic:    c.IsPublic,
		StartDate:   c.StartDate,
		EndDate:     c.EndDate,
		OwnerID:     c.OwnerID,
		CreatedAt:   c.CreatedAt,
	}
}

var challengeColumns = []string{
	"id", "title", "description", "is_public", "start_date", "end_date", "owner_id", "created_at",
}

// CreateChallenge inserts the challenge and enrolls the owner as an
// accepted participant in the same transaction.
func (r *Repository) CreateChallenge(ctx context.Context, challenge *model.ReadingChallenge) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		query, args, err := squirrel.
			Insert("reading_challenges").
			SetMap(map[string]interface{}{
				"id":          challenge.ID,
				"title":       challenge.Title,
				"description": challenge.Description,
				"is_public":   challenge.IsPublic,
				"start_date":  challenge.StartDate,
				"end_date":    challenge.EndDate,
				"owner_id":    challenge.OwnerID,
				"created_at":  time.Now(),
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build challenge insert query: %w", err)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert challenge: %w", err)
		}

		ownerQuery, ownerArgs, err := squirrel.
			Insert("participations").
			SetMap(map[string]interface{}{
				"id":           uuid.New(),
				"user_id":      challenge.OwnerID,
				"challenge_id": challenge.ID,
				"status":       model.ParticipationAccepted,
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build owner participation query: %w", err)
		}

		if _, err := tx.ExecContext(ctx, ownerQuery, ownerArgs...); err != nil {
			return fmt.Errorf("failed to enroll challenge owner: %w", err)
		}

		return nil
	})
}

func (r *Repository) GetChallengeByID(ctx context.Context, id uuid.UUID) (*model.ReadingChallenge, error) {
	query, args, err := squirrel.
		Select(challengeColumns...).
		From("reading_challenges").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row challengeRow
	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return row.toModel(), nil
}

func (r *Repository) GetPublicChallenges(ctx context.Context) ([]*model.ReadingChallenge, error) {
	query, args, err := squirrel.
		Select(challengeColumns...).
		From("reading_challenges").
		Where(squirrel.Eq{"is_public": true}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []*challengeRow
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get public challenges: %w", err)
	}

	challenges := make([]*model.ReadingChallenge, len(rows))
	for i, row := range rows {
		challenges[i] = row.toModel()
	}

	return challenges, nil
}

func (r *Repository) UpdateChallenge(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	query, args, err := squirrel.
		Update("reading_challenges").
		SetMap(updates).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteChallenge removes the whole aggregate. There is no DB-level
// cascade, so the order matters: progress -> quest books -> quests ->
// participations -> challenge.
func (r *Repository) DeleteChallenge(ctx context.Context, id uuid.UUID) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		progressQuery := `
			DELETE FROM quest_progress
			WHERE quest_id IN (SELECT id FROM challenge_quests WHERE challenge_id = $1)`
		if _, err := tx.ExecContext(ctx, progressQuery, id); err != nil {
			return fmt.Errorf("failed to delete challenge progress: %w", err)
		}

		booksQuery := `
			DELETE FROM quest_books
			WHERE quest_id IN (SELECT id FROM challenge_quests WHERE challenge_id = $1)`
		if _, err := tx.ExecContext(ctx, booksQuery, id); err != nil {
			return fmt.Errorf("failed to delete challenge quest books: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			"DELETE FROM challenge_quests WHERE challenge_id = $1", id); err != nil {
			return fmt.Errorf("failed to delete challenge quests: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			"DELETE FROM participations WHERE challenge_id = $1", id); err != nil {
			return fmt.Errorf("failed to delete challenge participations: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			"DELETE FROM reading_challenges WHERE id = $1", id); err != nil {
			return fmt.Errorf("failed to delete challenge: %w", err)
		}

		return nil
	})
}

type overviewRow struct {
	ID              uuid.UUID `db:"id"`
	Title           string    `db:"title"`
	Description     string    `db:"description"`
	QuestTarget     int       `db:"quest_target"`
	CompletedQuests int       `db:"completed_quests"`
}

const overviewSelect = `
	SELECT c.id, c.title, c.description,
	       COUNT(DISTINCT q.id) AS quest_target,
	       COUNT(DISTINCT q.id) FILTER (WHERE qp.completed) AS completed_quests
	FROM reading_challenges c
	LEFT JOIN challenge_quests q ON q.challenge_id = c.id
	LEFT JOIN participations p ON p.challenge_id = c.id
	     AND p.user_id = $1 AND p.status = 'accepted'
	LEFT JOIN quest_progress qp ON qp.quest_id = q.id AND qp.participation_id = p.id`

// GetCreatedChallengeOverview lists challenges the user owns, with quest
// totals and how many this user has completed.
func (r *Repository) GetCreatedChallengeOverview(ctx context.Context, userID int64) ([]*model.ChallengeOverview, error) {
	query := overviewSelect + `
	WHERE c.owner_id = $1
	GROUP BY c.id, c.title, c.description
	ORDER BY c.created_at DESC`

	return r.selectOverview(ctx, query, userID)
}

// GetParticipatingChallengeOverview lists challenges the user has an
// accepted participation in.
func (r *Repository) GetParticipatingChallengeOverview(ctx context.Context, userID int64) ([]*model.ChallengeOverview, error) {
	query := overviewSelect + `
	WHERE p.id IS NOT NULL
	GROUP BY c.id, c.title, c.description
	ORDER BY c.created_at DESC`

	return r.selectOverview(ctx, query, userID)
}

func (r *Repository) selectOverview(ctx context.Context, query string, userID int64) ([]*model.ChallengeOverview, error) {
	var rows []*overviewRow
	err := r.db.SelectContext(ctx, &rows, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge overview: %w", err)
	}

	overview := make([]*model.ChallengeOverview, len(rows))
	for i, row := range rows {
		overview[i] = &model.ChallengeOverview{
			ID:              row.ID,
			Title:           row.Title,
			Description:     row.Description,
			QuestTarget:     row.QuestTarget,
			CompletedQuests: row.CompletedQuests,
		}
	}

	return overview, nil
}

type challengeStatsRow struct {
	ID                uuid.UUID `db:"id"`
	Title             string    `db:"title"`
	ParticipantsCount int       `db:"participants_count"`
	CompletedQuests   int       `db:"completed_quests"`
	TotalQuests       int       `db:"total_quests"`
}

func (r *Repository) GetChallengeStats(ctx context.Context, id uuid.UUID) (*model.ChallengeStats, error) {
	query := `
		SELECT c.id, c.title,
		       COUNT(DISTINCT p.id) AS participants_count,
		       COUNT(DISTINCT qp.id) FILTER (WHERE qp.completed) AS completed_quests,
		       COUNT(DISTINCT q.id) AS total_quests
		FROM reading_challenges c
		LEFT JOIN participations p ON p.challenge_id = c.id
		LEFT JOIN challenge_quests q ON q.challenge_id = c.id
		LEFT JOIN quest_progress qp ON qp.participation_id = p.id
		WHERE c.id = $1
		GROUP BY c.id, c.title`

	var row challengeStatsRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get challenge stats: %w", err)
	}

	stats := &model.ChallengeStats{
		ID:                row.ID,
		Title:             row.Title,
		ParticipantsCount: row.ParticipantsCount,
		CompletedQuests:   row.CompletedQuests,
	}
	if row.TotalQuests > 0 && row.ParticipantsCount > 0 {
		stats.CompletionPercentage = row.CompletedQuests * 100 / (row.TotalQuests * row.ParticipantsCount)
	}

	return stats, nil
}
