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

type readingStatusRow struct {
	ID          uuid.UUID  `db:"id"`
	UserID      int64      `db:"user_id"`
	BookID      int64      `db:"book_id"`
	Status      string     `db:"status"`
	Pages       int        `db:"pages"`
	PageCounter int        `db:"page_counter"`
	StartDate   *time.Time `db:"start_date"`
	FinishDate  *time.Time `db:"finish_date"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

func (s *readingStatusRow) toModel() *model.ReadingStatus {
	return &model.ReadingStatus{
		ID:          s.ID,
		UserID:      s.UserID,
		BookID:      s.BookID,
		Status:      model.ReadingState(s.Status),
		Pages:       s.Pages,
		PageCounter: s.PageCounter,
		StartDate:   s.StartDate,
		FinishDate:  s.FinishDate,
		UpdatedAt:   s.UpdatedAt,
	}
}

var readingStatusColumns = []string{
	"id", "user_id", "book_id", "status", "pages", "page_counter",
	"start_date", "finish_date", "updated_at",
}

func (r *Repository) CreateReadingStatus(ctx context.Context, status *model.ReadingStatus) error {
	query, args, err := squirrel.
		Insert("reading_statuses").
		SetMap(map[string]interface{}{
			"id":           status.ID,
			"user_id":      status.UserID,
			"book_id":      status.BookID,
			"status":       status.Status,
			"pages":        status.Pages,
			"page_counter": status.PageCounter,
			"start_date":   status.StartDate,
			"finish_date":  status.FinishDate,
			"updated_at":   time.Now(),
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert reading status: %w", err)
	}

	return nil
}

func (r *Repository) GetReadingStatus(ctx context.Context, id uuid.UUID) (*model.ReadingStatus, error) {
	query, args, err := squirrel.
		Select(readingStatusColumns...).
		From("reading_statuses").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row readingStatusRow
	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return row.toModel(), nil
}

func (r *Repository) GetReadingStatusByBookAndUser(ctx context.Context, userID, bookID int64) (*model.ReadingStatus, error) {
	query, args, err := squirrel.
		Select(readingStatusColumns...).
		From("reading_statuses").
		Where(squirrel.Eq{"user_id": userID, "book_id": bookID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row readingStatusRow
	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return row.toModel(), nil
}

type userReadingStatusRow struct {
	ID            uuid.UUID `db:"id"`
	BookID        int64     `db:"book_id"`
	Status        string    `db:"status"`
	Title         string    `db:"title"`
	GoogleBooksID string    `db:"google_books_id"`
	Pages         int       `db:"pages"`
	PageCounter   int       `db:"page_counter"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r *Repository) ListUserReadingStatuses(ctx context.Context, userID int64) ([]*model.UserReadingStatus, error) {
	query := `
		SELECT rs.id, rs.book_id, rs.status, b.title, b.google_books_id,
		       rs.pages, rs.page_counter, rs.updated_at
		FROM reading_statuses rs
		JOIN books b ON b.id = rs.book_id
		WHERE rs.user_id = $1
		ORDER BY rs.updated_at DESC`

	var rows []*userReadingStatusRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list reading statuses: %w", err)
	}

	statuses := make([]*model.UserReadingStatus, len(rows))
	for i, row := range rows {
		statuses[i] = &model.UserReadingStatus{
			ID:            row.ID,
			BookID:        row.BookID,
			Status:        model.ReadingState(row.Status),
			Title:         row.Title,
			GoogleBooksID: row.GoogleBooksID,
			Pages:         row.Pages,
			PageCounter:   row.PageCounter,
			UpdatedAt:     row.UpdatedAt,
		}
	}

	return statuses, nil
}

func (r *Repository) UpdateReadingStatus(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	query, args, err := squirrel.
		Update("reading_statuses").
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

func (r *Repository) DeleteReadingStatus(ctx context.Context, id uuid.UUID) error {
	query, args, err := squirrel.
		Delete("reading_statuses").
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
