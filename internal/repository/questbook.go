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
)

type questBookRow struct {
	ID       uuid.UUID  `db:"id"`
	QuestID  uuid.UUID  `db:"quest_id"`
	BookID   int64      `db:"book_id"`
	AddedBy  int64      `db:"added_by"`
	Status   string     `db:"status"`
	ReadDate *time.Time `db:"read_date"`
	AddedAt  time.Time  `db:"added_at"`

	BookTitle     *string `db:"book_title"`
	GoogleBooksID *string `db:"google_books_id"`
	Username      *string `db:"username"`
}

func (q *questBookRow) toModel() *model.QuestBook {
	qb := &model.QuestBook{
		ID:       q.ID,
		QuestID:  q.QuestID,
		BookID:   q.BookID,
		AddedBy:  q.AddedBy,
		Status:   model.QuestBookStatus(q.Status),
		ReadDate: q.ReadDate,
		AddedAt:  q.AddedAt,
	}
	if q.BookTitle != nil {
		qb.Book = &model.BookSummary{ID: q.BookID, Title: *q.BookTitle}
		if q.GoogleBooksID != nil {
			qb.Book.GoogleBooksID = *q.GoogleBooksID
		}
	}
	if q.Username != nil {
		qb.User = &model.UserSummary{ID: q.AddedBy, Username: *q.Username}
	}
	return qb
}

const questBookSelect = `
	SELECT qb.id, qb.quest_id, qb.book_id, qb.added_by, qb.status,
	       qb.read_date, qb.added_at,
	       b.title AS book_title, b.google_books_id, u.username
	FROM quest_books qb
	LEFT JOIN books b ON b.id = qb.book_id
	LEFT JOIN users u ON u.id = qb.added_by`

// CreateQuestBook attaches a book to a quest. Each user may attach a
// given book to a given quest at most once.
func (r *Repository) CreateQuestBook(ctx context.Context, questBook *model.QuestBook) error {
	existsQuery, existsArgs, err := squirrel.
		Select("1").
		From("quest_books").
		Where(squirrel.Eq{
			"quest_id": questBook.QuestID,
			"book_id":  questBook.BookID,
			"added_by": questBook.AddedBy,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	var exists bool
	err = r.db.GetContext(ctx, &exists, existsQuery, existsArgs...)
	if err == nil {
		return ErrBookAlreadyAdded
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	query, args, err := squirrel.
		Insert("quest_books").
		SetMap(map[string]interface{}{
			"id":        questBook.ID,
			"quest_id":  questBook.QuestID,
			"book_id":   questBook.BookID,
			"added_by":  questBook.AddedBy,
			"status":    questBook.Status,
			"read_date": questBook.ReadDate,
			"added_at":  time.Now(),
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert quest book: %w", err)
	}

	return nil
}

func (r *Repository) GetQuestBook(ctx context.Context, id, questID uuid.UUID) (*model.QuestBook, error) {
	query := questBookSelect + `
	WHERE qb.id = $1 AND qb.quest_id = $2`

	var row questBookRow
	err := r.db.GetContext(ctx, &row, query, id, questID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get quest book: %w", err)
	}

	return row.toModel(), nil
}

// GetQuestBooks lists a quest's books, newest first. A non-nil addedBy
// restricts the list to one user's attachments.
func (r *Repository) GetQuestBooks(ctx context.Context, questID uuid.UUID, addedBy *int64) ([]*model.QuestBook, error) {
	query := questBookSelect + `
	WHERE qb.quest_id = $1`
	args := []interface{}{questID}

	if addedBy != nil {
		query += ` AND qb.added_by = $2`
		args = append(args, *addedBy)
	}
	query += `
	ORDER BY qb.added_at DESC`

	var rows []*questBookRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list quest books: %w", err)
	}

	questBooks := make([]*model.QuestBook, len(rows))
	for i, row := range rows {
		questBooks[i] = row.toModel()
	}

	return questBooks, nil
}

func (r *Repository) UpdateQuestBook(ctx context.Context, id, questID uuid.UUID, updates map[string]interface{}) error {
	query, args, err := squirrel.
		Update("quest_books").
		SetMap(updates).
		Where(squirrel.Eq{"id": id, "quest_id": questID}).
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

func (r *Repository) DeleteQuestBook(ctx context.Context, id, questID uuid.UUID) error {
	query, args, err := squirrel.
		Delete("quest_books").
		Where(squirrel.Eq{"id": id, "quest_id": questID}).
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
