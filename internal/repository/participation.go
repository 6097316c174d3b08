package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bookquest/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type participationRow struct {
	ID          uuid.UUID `db:"id"`
	UserID      int64     `db:"user_id"`
	ChallengeID uuid.UUID `db:"challenge_id"`
	Status      string    `db:"status"`
}

func (p *participationRow) toModel() *model.Participation {
	return &model.Participation{
		ID:          p.ID,
		UserID:      p.UserID,
		ChallengeID: p.ChallengeID,
		Status:      model.ParticipationStatus(p.Status),
	}
}

// CreateParticipation inserts the row and seeds one zero progress row per
// existing quest of the challenge, in one transaction. A second join for
// the same (user, challenge) pair is a conflict, not a merge.
func (r *Repository) CreateParticipation(ctx context.Context, participation *model.Participation) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		existsQuery, existsArgs, err := squirrel.
			Select("1").
			From("participations").
			Where(squirrel.Eq{
				"user_id":      participation.UserID,
				"challenge_id": participation.ChallengeID,
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		var exists bool
		err = tx.GetContext(ctx, &exists, existsQuery, existsArgs...)
		if err == nil {
			return ErrAlreadyParticipant
		} else if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		insertQuery, insertArgs, err := squirrel.
			Insert("participations").
			SetMap(map[string]interface{}{
				"id":           participation.ID,
				"user_id":      participation.UserID,
				"challenge_id": participation.ChallengeID,
				"status":       participation.Status,
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
			return fmt.Errorf("failed to insert participation: %w", err)
		}

		return seedProgressTx(ctx, tx, participation.ID, participation.ChallengeID)
	})
}

// seedProgressTx creates a zero progress row for every quest of the
// challenge that doesn't already have one for this participation.
func seedProgressTx(ctx context.Context, tx *sqlx.Tx, participationID, challengeID uuid.UUID) error {
	questQuery, questArgs, err := squirrel.
		Select("id").
		From("challenge_quests").
		Where(squirrel.Eq{"challenge_id": challengeID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	var questIDs []uuid.UUID
	if err := tx.SelectContext(ctx, &questIDs, questQuery, questArgs...); err != nil {
		return fmt.Errorf("failed to get challenge quests: %w", err)
	}

	if len(questIDs) == 0 {
		return nil
	}

	builder := squirrel.
		Insert("quest_progress").
		Columns("id", "participation_id", "quest_id", "progress_count", "completed").
		Suffix("ON CONFLICT (participation_id, quest_id) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar)

	for _, questID := range questIDs {
		builder = builder.Values(uuid.New(), participationID, questID, 0, false)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to seed quest progress: %w", err)
	}

	return nil
}

func (r *Repository) GetParticipation(ctx context.Context, id uuid.UUID) (*model.Participation, error) {
	query, args, err := squirrel.
		Select("id", "user_id", "challenge_id", "status").
		From("participations").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row participationRow
	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return row.toModel(), nil
}

func (r *Repository) GetParticipationByUserAndChallenge(ctx context.Context, userID int64, challengeID uuid.UUID) (*model.Participation, error) {
	query, args, err := squirrel.
		Select("id", "user_id", "challenge_id", "status").
		From("participations").
		Where(squirrel.Eq{"user_id": userID, "challenge_id": challengeID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row participationRow
	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return row.toModel(), nil
}

func (r *Repository) ListUserParticipations(ctx context.Context, userID int64) ([]*model.Participation, error) {
	query, args, err := squirrel.
		Select("id", "user_id", "challenge_id", "status").
		From("participations").
		Where(squirrel.Eq{"user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []*participationRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list participations: %w", err)
	}

	participations := make([]*model.Participation, len(rows))
	for i, row := range rows {
		participations[i] = row.toModel()
	}

	return participations, nil
}

// DeleteParticipation removes the user from a challenge: progress rows
// first, then the participation row itself.
func (r *Repository) DeleteParticipation(ctx context.Context, id uuid.UUID) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM quest_progress WHERE participation_id = $1", id); err != nil {
			return fmt.Errorf("failed to delete participation progress: %w", err)
		}

		result, err := tx.ExecContext(ctx,
			"DELETE FROM participations WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("failed to delete participation: %w", err)
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

func (r *Repository) UpdateParticipationStatus(ctx context.Context, id uuid.UUID, status model.ParticipationStatus) error {
	query, args, err := squirrel.
		Update("participations").
		Set("status", status).
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

// SeedParticipationProgress backfills zero progress rows for a
// participation, skipping pairs that already exist. Used when a pending
// invite turns into an accepted participation.
func (r *Repository) SeedParticipationProgress(ctx context.Context, participationID uuid.UUID) error {
	participation, err := r.GetParticipation(ctx, participationID)
	if err != nil {
		return err
	}

	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		return seedProgressTx(ctx, tx, participation.ID, participation.ChallengeID)
	})
}

type participantRow struct {
	UserID            int64          `db:"user_id"`
	Username          string         `db:"username"`
	CompletedQuestIDs pq.StringArray `db:"completed_quest_ids"`
}

func (r *Repository) ListParticipants(ctx context.Context, challengeID uuid.UUID) ([]*model.Participant, error) {
	query := `
		SELECT p.user_id, u.username,
		       array_agg(qp.quest_id::text) FILTER (WHERE qp.completed) AS completed_quest_ids
		FROM participations p
		JOIN users u ON u.id = p.user_id
		LEFT JOIN quest_progress qp ON qp.participation_id = p.id
		WHERE p.challenge_id = $1
		GROUP BY p.user_id, u.username
		ORDER BY u.username`

	var rows []*participantRow
	if err := r.db.SelectContext(ctx, &rows, query, challengeID); err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	participants := make([]*model.Participant, len(rows))
	for i, row := range rows {
		completed := make([]uuid.UUID, 0, len(row.CompletedQuestIDs))
		for _, raw := range row.CompletedQuestIDs {
			questID, err := uuid.Parse(raw)
			if err != nil {
				return nil, fmt.Errorf("failed to parse completed quest id: %w", err)
			}
			completed = append(completed, questID)
		}

		participants[i] = &model.Participant{
			UserID:            row.UserID,
			Username:          row.Username,
			CompletedQuests:   len(completed),
			CompletedQuestIDs: completed,
		}
	}

	return participants, nil
}

type inviteRow struct {
	ParticipationID uuid.UUID `db:"participation_id"`
	ChallengeID     uuid.UUID `db:"challenge_id"`
	ChallengeTitle  string    `db:"challenge_title"`
	OwnerUsername   string    `db:"owner_username"`
}

func (r *Repository) ListPendingInvites(ctx context.Context, userID int64) ([]*model.ChallengeInvite, error) {
	query := `
		SELECT p.id AS participation_id, c.id AS challenge_id,
		       c.title AS challenge_title, u.username AS owner_username
		FROM participations p
		JOIN reading_challenges c ON c.id = p.challenge_id
		JOIN users u ON u.id = c.owner_id
		WHERE p.user_id = $1 AND p.status = 'pending'`

	var rows []*inviteRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list pending invites: %w", err)
	}

	invites := make([]*model.ChallengeInvite, len(rows))
	for i, row := range rows {
		invites[i] = &model.ChallengeInvite{
			ParticipationID: row.ParticipationID,
			ChallengeID:     row.ChallengeID,
			ChallengeTitle:  row.ChallengeTitle,
			OwnerUsername:   row.OwnerUsername,
		}
	}

	return invites, nil
}

// CreatePendingInvites invites a set of users to a challenge. Users who
// already have a participation row keep it untouched.
func (r *Repository) CreatePendingInvites(ctx context.Context, challengeID uuid.UUID, userIDs []int64) error {
	if len(userIDs) == 0 {
		return nil
	}

	builder := squirrel.
		Insert("participations").
		Columns("id", "user_id", "challenge_id", "status").
		Suffix("ON CONFLICT (user_id, challenge_id) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar)

	for _, userID := range userIDs {
		builder = builder.Values(uuid.New(), userID, challengeID, model.ParticipationPending)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create pending invites: %w", err)
	}

	return nil
}
