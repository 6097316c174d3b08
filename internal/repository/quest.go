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

type questRow struct {
	ID          uuid.UUID `db:"id"`
	ChallengeID uuid.UUID `db:"challenge_id"`
	Prompt      string    `db:"prompt"`
	Type        string    `db:"type"`
	TargetCount int       `db:"target_count"`
	CreatedAt   time.Time `db:"created_at"`
}

func (q *questRow) toModel() *model.ChallengeQuest {
	return &model.ChallengeQuest{
		ID:          q.ID,
		ChallengeID: q.ChallengeID,
		Prompt:      q.Prompt,
		Type:        model.QuestType(q.Type),
		TargetCount: q.TargetCount,
		CreatedAt:   q.CreatedAt,
	}
}

// CreateQuest inserts the quest and seeds a zero progress row for every
// current participant of the challenge, all in one transaction.
func (r *Repository) CreateQuest(ctx context.Context, quest *model.ChallengeQuest) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		questQuery, args, err := squirrel.
			Insert("challenge_quests").
			SetMap(map[string]interface{}{
				"id":           quest.ID,
				"challenge_id": quest.ChallengeID,
				"prompt":       quest.Prompt,
				"type":         quest.Type,
				"target_count": quest.TargetCount,
				"created_at":   time.Now(),
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build quest insert query: %w", err)
		}

		if _, err := tx.ExecContext(ctx, questQuery, args...); err != nil {
			return fmt.Errorf("failed to insert quest: %w", err)
		}

		participantQuery, participantArgs, err := squirrel.
			Select("id").
			From("participations").
			Where(squirrel.Eq{"challenge_id": quest.ChallengeID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build participations select query: %w", err)
		}

		var participationIDs []uuid.UUID
		if err := tx.SelectContext(ctx, &participationIDs, participantQuery, participantArgs...); err != nil {
			return fmt.Errorf("failed to get challenge participants: %w", err)
		}

		if len(participationIDs) > 0 {
			progressBuilder := squirrel.
				Insert("quest_progress").
				Columns("id", "participation_id", "quest_id", "progress_count", "completed").
				PlaceholderFormat(squirrel.Dollar)

			for _, participationID := range participationIDs {
				progressBuilder = progressBuilder.Values(uuid.New(), participationID, quest.ID, 0, false)
			}

			progressQuery, progressArgs, err := progressBuilder.ToSql()
			if err != nil {
				return fmt.Errorf("failed to build progress insert query: %w", err)
			}

			if _, err := tx.ExecContext(ctx, progressQuery, progressArgs...); err != nil {
				return fmt.Errorf("failed to seed quest progress: %w", err)
			}
		}

		return nil
	})
}

func (r *Repository) GetQuestByID(ctx context.Context, challengeID, questID uuid.UUID) (*model.ChallengeQuest, error) {
	query, args, err := squirrel.
		Select("id", "challenge_id", "prompt", "type", "target_count", "created_at").
		From("challenge_quests").
		Where(squirrel.Eq{"id": questID, "challenge_id": challengeID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row questRow
	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get quest: %w", err)
	}

	quest := row.toModel()
	quest.Books, err = r.GetQuestBooks(ctx, questID, nil)
	if err != nil {
		return nil, err
	}

	return quest, nil
}

// GetQuestWithWindow loads a quest together with its parent challenge's
// date window, as one round trip. Used by the reconciliation engine.
func (r *Repository) GetQuestWithWindow(ctx context.Context, questID uuid.UUID) (*model.ChallengeQuest, *model.ReadingChallenge, error) {
	query := `
		SELECT q.id, q.challenge_id, q.prompt, q.type, q.target_count, q.created_at,
		       c.id AS c_id, c.title AS c_title, c.start_date AS c_start_date,
		       c.end_date AS c_end_date, c.owner_id AS c_owner_id
		FROM challenge_quests q
		JOIN reading_challenges c ON c.id = q.challenge_id
		WHERE q.id = $1`

	var row struct {
		questRow
		CID        uuid.UUID  `db:"c_id"`
		CTitle     string     `db:"c_title"`
		CStartDate *time.Time `db:"c_start_date"`
		CEndDate   *time.Time `db:"c_end_date"`
		COwnerID   int64      `db:"c_owner_id"`
	}

	err := r.db.GetContext(ctx, &row, query, questID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to get quest with window: %w", err)
	}

	challenge := &model.ReadingChallenge{
		ID:        row.CID,
		Title:     row.CTitle,
		StartDate: row.CStartDate,
		EndDate:   row.CEndDate,
		OwnerID:   row.COwnerID,
	}

	return row.questRow.toModel(), challenge, nil
}

// ListQuests returns one page of a challenge's quests, newest first,
// together with the total count.
func (r *Repository) ListQuests(ctx context.Context, challengeID uuid.UUID, offset, limit int) ([]*model.ChallengeQuest, int, error) {
	query, args, err := squirrel.
		Select("id", "challenge_id", "prompt", "type", "target_count", "created_at").
		From("challenge_quests").
		Where(squirrel.Eq{"challenge_id": challengeID}).
		OrderBy("created_at DESC").
		Offset(uint64(offset)).
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	var rows []*questRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list quests: %w", err)
	}

	countQuery, countArgs, err := squirrel.
		Select("COUNT(*)").
		From("challenge_quests").
		Where(squirrel.Eq{"challenge_id": challengeID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to count quests: %w", err)
	}

	quests := make([]*model.ChallengeQuest, len(rows))
	for i, row := range rows {
		quests[i] = row.toModel()
	}

	return quests, total, nil
}

func (r *Repository) UpdateQuest(ctx context.Context, challengeID, questID uuid.UUID, updates map[string]interface{}) error {
	query, args, err := squirrel.
		Update("challenge_quests").
		SetMap(updates).
		Where(squirrel.Eq{"id": questID, "challenge_id": challengeID}).
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

// DeleteQuest removes the quest and its dependents in referential order:
// progress rows, quest books, then the quest itself.
func (r *Repository) DeleteQuest(ctx context.Context, challengeID, questID uuid.UUID) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM quest_progress WHERE quest_id = $1", questID); err != nil {
			return fmt.Errorf("failed to delete quest progress: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			"DELETE FROM quest_books WHERE quest_id = $1", questID); err != nil {
			return fmt.Errorf("failed to delete quest books: %w", err)
		}

		result, err := tx.ExecContext(ctx,
			"DELETE FROM challenge_quests WHERE id = $1 AND challenge_id = $2", questID, challengeID)
		if err != nil {
			return fmt.Errorf("failed to delete quest: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrNotFound
		}

		return nil
	})
}
