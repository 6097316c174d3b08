package repository

import (
	"context"
	"database/sql"
	"errors"

	"bookquest/internal/model"

	"github.com/Masterminds/squirrel"
)

type bookRow struct {
	ID            int64  `db:"id"`
	Title         string `db:"title"`
	GoogleBooksID string `db:"google_books_id"`
}

func (r *Repository) GetBookByID(ctx context.Context, id int64) (*model.BookSummary, error) {
	query, args, err := squirrel.
		Select("id", "title", "google_books_id").
		From("books").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row bookRow
	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &model.BookSummary{
		ID:            row.ID,
		Title:         row.Title,
		GoogleBooksID: row.GoogleBooksID,
	}, nil
}
