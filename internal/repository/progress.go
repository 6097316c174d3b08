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

type progressRow struct {
	ID              uuid.UUID  `db:"id"`
	ParticipationID uuid.UUID  `db:"participation_id"`
	QuestID         uuid.UUID  `db:"quest_id"`
	ProgressCount   int        `db:"progress_count"`
	Completed       bool       `db:"completed"`
	CompletedAt     *time.Time `db:"completed_at"`
}

func (p *progressRow) toModel() *model.QuestProgress {
	return &model.QuestProgress{
		ID:              p.ID,
		ParticipationID: p.ParticipationID,
		QuestID:         p.QuestID,
		ProgressCount:   p.ProgressCount,
		Completed:       p.Completed,
		CompletedAt:     p.CompletedAt,
	}
}

// CreateProgress inserts a ledger row after verifying both referents.
// The (participation, quest) pair is unique.
func (r *Repository) CreateProgress(ctx context.Context, progress *model.QuestProgress) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		var exists bool

		participationQuery, participationArgs, err := squirrel.
			Select("1").
			From("participations").
			Where(squirrel.Eq{"id": progress.ParticipationID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		err = tx.GetContext(ctx, &exists, participationQuery, participationArgs...)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}

		questQuery, questArgs, err := squirrel.
			Select("1").
			From("challenge_quests").
			Where(squirrel.Eq{"id": progress.QuestID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		err = tx.GetContext(ctx, &exists, questQuery, questArgs...)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}

		insertQuery, insertArgs, err := squirrel.
			Insert("quest_progress").
			SetMap(map[string]interface{}{
				"id":               progress.ID,
				"participation_id": progress.ParticipationID,
				"quest_id":         progress.QuestID,
				"progress_count":   progress.ProgressCount,
				"completed":        progress.Completed,
				"completed_at":     progress.CompletedAt,
			}).
			Suffix("ON CONFLICT (participation_id, quest_id) DO NOTHING").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, insertQuery, insertArgs...)
		if err != nil {
			return fmt.Errorf("failed to insert progress: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrProgressExists
		}

		return nil
	})
}

func (r *Repository) GetProgress(ctx context.Context, id, participationID uuid.UUID) (*model.QuestProgress, error) {
	query, args, err := squirrel.
		Select("id", "participation_id", "quest_id", "progress_count", "completed", "completed_at").
		From("quest_progress").
		Where(squirrel.Eq{"id": id, "participation_id": participationID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row progressRow
	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return row.toModel(), nil
}

type progressWithQuestRow struct {
	progressRow
	QuestPrompt      string    `db:"quest_prompt"`
	QuestType        string    `db:"quest_type"`
	QuestTargetCount int       `db:"quest_target_count"`
	ChallengeID      uuid.UUID `db:"quest_challenge_id"`
}

// ListProgress returns every ledger row of a participation with its quest.
func (r *Repository) ListProgress(ctx context.Context, participationID uuid.UUID) ([]*model.QuestProgress, error) {
	query := `
		SELECT qp.id, qp.participation_id, qp.quest_id, qp.progress_count,
		       qp.completed, qp.completed_at,
		       q.prompt AS quest_prompt, q.type AS quest_type,
		       q.target_count AS quest_target_count, q.challenge_id AS quest_challenge_id
		FROM quest_progress qp
		JOIN challenge_quests q ON q.id = qp.quest_id
		WHERE qp.participation_id = $1
		ORDER BY q.created_at`

	var rows []*progressWithQuestRow
	if err := r.db.SelectContext(ctx, &rows, query, participationID); err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}

	progress := make([]*model.QuestProgress, len(rows))
	for i, row := range rows {
		progress[i] = row.progressRow.toModel()
		progress[i].Quest = &model.ChallengeQuest{
			ID:          row.QuestID,
			ChallengeID: row.ChallengeID,
			Prompt:      row.QuestPrompt,
			Type:        model.QuestType(row.QuestType),
			TargetCount: row.QuestTargetCount,
		}
	}

	return progress, nil
}

func (r *Repository) UpdateProgress(ctx context.Context, id, participationID uuid.UUID, updates map[string]interface{}) error {
	query, args, err := squirrel.
		Update("quest_progress").
		SetMap(updates).
		Where(squirrel.Eq{"id": id, "participation_id": participationID}).
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

func (r *Repository) DeleteProgress(ctx context.Context, id, participationID uuid.UUID) error {
	query, args, err := squirrel.
		Delete("quest_progress").
		Where(squirrel.Eq{"id": id, "participation_id": participationID}).
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

// AllProgressCompleted reports whether every ledger row of a
// participation is completed. Derived, never persisted.
func (r *Repository) AllProgressCompleted(ctx context.Context, participationID uuid.UUID) (bool, error) {
	query := `
		SELECT NOT EXISTS (
			SELECT 1 FROM quest_progress
			WHERE participation_id = $1 AND completed = false
		)`

	var allCompleted bool
	if err := r.db.GetContext(ctx, &allCompleted, query, participationID); err != nil {
		return false, fmt.Errorf("failed to check challenge completion: %w", err)
	}

	return allCompleted, nil
}

// EnsureProgress creates the ledger row for a (participation, quest) pair
// if it doesn't exist yet. Safe under concurrent callers: the unique
// constraint on the pair makes the insert a no-op when racing.
func (r *Repository) EnsureProgress(ctx context.Context, participationID, questID uuid.UUID) error {
	query, args, err := squirrel.
		Insert("quest_progress").
		SetMap(map[string]interface{}{
			"id":               uuid.New(),
			"participation_id": participationID,
			"quest_id":         questID,
			"progress_count":   0,
			"completed":        false,
		}).
		Suffix("ON CONFLICT (participation_id, quest_id) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to ensure progress row: %w", err)
	}

	return nil
}

// IncrementProgress applies one completion to the ledger as a single
// conditional UPDATE: the row must exist, not be completed, and still be
// below target. Two concurrent "read" events can therefore never
// double-count: one of them matches zero rows. Returns whether progress
// actually moved; ErrNotFound when there is no row at all.
func (r *Repository) IncrementProgress(ctx context.Context, participationID, questID uuid.UUID, targetCount int) (bool, error) {
	query := `
		UPDATE quest_progress
		SET progress_count = progress_count + 1,
		    completed = progress_count + 1 >= $3,
		    completed_at = CASE WHEN progress_count + 1 >= $3 THEN $4 ELSE completed_at END
		WHERE participation_id = $1 AND quest_id = $2
		  AND completed = false AND progress_count < $3`

	result, err := r.db.ExecContext(ctx, query, participationID, questID, targetCount, time.Now())
	if err != nil {
		return false, fmt.Errorf("failed to increment progress: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if rows > 0 {
		return true, nil
	}

	// No match: either the row is missing or the quest is already done.
	existsQuery, existsArgs, err := squirrel.
		Select("1").
		From("quest_progress").
		Where(squirrel.Eq{"participation_id": participationID, "quest_id": questID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, err
	}

	var exists bool
	err = r.db.GetContext(ctx, &exists, existsQuery, existsArgs...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, ErrNotFound
		}
		return false, err
	}

	return false, nil
}

// DecrementProgress reverses one completion, clamped at zero. A removal
// that finds the counter already at zero matches no rows; the caller
// treats that as a detected inconsistency. completed_at survives only
// while the count stays at or above target.
func (r *Repository) DecrementProgress(ctx context.Context, participationID, questID uuid.UUID, targetCount int) (bool, error) {
	query := `
		UPDATE quest_progress
		SET progress_count = progress_count - 1,
		    completed = progress_count - 1 >= $3,
		    completed_at = CASE WHEN progress_count - 1 >= $3 THEN completed_at ELSE NULL END
		WHERE participation_id = $1 AND quest_id = $2 AND progress_count > 0`

	result, err := r.db.ExecContext(ctx, query, participationID, questID, targetCount)
	if err != nil {
		return false, fmt.Errorf("failed to decrement progress: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

type progressTargetRow struct {
	ParticipationID uuid.UUID  `db:"participation_id"`
	QuestID         uuid.UUID  `db:"quest_id"`
	TargetCount     int        `db:"target_count"`
	StartDate       *time.Time `db:"start_date"`
	EndDate         *time.Time `db:"end_date"`
}

// FindProgressTargets enumerates every (participation, quest) pair of the
// user's accepted challenges whose quest has this book attached, with the
// challenge window needed for the date rule. One finished book can touch
// several quests across several challenges.
func (r *Repository) FindProgressTargets(ctx context.Context, userID, bookID int64) ([]*model.ProgressTarget, error) {
	query := `
		SELECT DISTINCT p.id AS participation_id, q.id AS quest_id,
		       q.target_count, c.start_date, c.end_date
		FROM participations p
		JOIN reading_challenges c ON c.id = p.challenge_id
		JOIN challenge_quests q ON q.challenge_id = c.id
		JOIN quest_books qb ON qb.quest_id = q.id AND qb.book_id = $2
		WHERE p.user_id = $1 AND p.status = 'accepted'`

	var rows []*progressTargetRow
	if err := r.db.SelectContext(ctx, &rows, query, userID, bookID); err != nil {
		return nil, fmt.Errorf("failed to find progress targets: %w", err)
	}

	targets := make([]*model.ProgressTarget, len(rows))
	for i, row := range rows {
		targets[i] = &model.ProgressTarget{
			ParticipationID: row.ParticipationID,
			QuestID:         row.QuestID,
			TargetCount:     row.TargetCount,
			StartDate:       row.StartDate,
			EndDate:         row.EndDate,
		}
	}

	return targets, nil
}
