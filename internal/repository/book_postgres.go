package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/marialclark/APIValidationExercise/internal/model"
	"github.com/pkg/errors"
)

type PostgresBookRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresBookRepository(pool *pgxpool.Pool) *PostgresBookRepository {
	return &PostgresBookRepository{pool: pool}
}

func (r *PostgresBookRepository) List(ctx context.Context) ([]model.Book, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+bookColumns+` FROM books ORDER BY isbn`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query books")
	}

	books, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		return nil, errors.Wrap(err, "failed to collect books")
	}

	if books == nil {
		books = []model.Book{}
	}
	return books, nil
}

func (r *PostgresBookRepository) Get(ctx context.Context, isbn string) (*model.Book, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+bookColumns+` FROM books WHERE isbn = $1`, isbn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query book %s", isbn)
	}

	return collectBook(rows)
}

func (r *PostgresBookRepository) Create(ctx context.Context, book *model.Book) (*model.Book, error) {
	rows, err := r.pool.Query(ctx, `
		INSERT INTO books (`+bookColumns+`)
		VALUES (NULLIF($1, ''), $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+bookColumns,
		book.ISBN, book.AmazonURL, book.Author, book.Language,
		book.Pages, book.Publisher, book.Title, book.Year,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to insert book")
	}

	created, err := collectBook(rows)
	if err != nil {
		return nil, errors.Wrap(err, "failed to insert book")
	}
	return created, nil
}

func (r *PostgresBookRepository) Update(ctx context.Context, isbn string, book *model.Book) (*model.Book, error) {
	rows, err := r.pool.Query(ctx, `
		UPDATE books
		SET amazon_url = $2, author = $3, language = $4, pages = $5,
		    publisher = $6, title = $7, year = $8
		WHERE isbn = $1
		RETURNING `+bookColumns,
		isbn, book.AmazonURL, book.Author, book.Language,
		book.Pages, book.Publisher, book.Title, book.Year,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to update book %s", isbn)
	}

	return collectBook(rows)
}

func (r *PostgresBookRepository) Delete(ctx context.Context, isbn string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE isbn = $1`, isbn)
	if err != nil {
		return errors.Wrapf(err, "failed to delete book %s", isbn)
	}

	if tag.RowsAffected() == 0 {
		return ErrBookNotFound
	}
	return nil
}

// collectBook reads exactly one book, mapping an empty result to ErrBookNotFound.
func collectBook(rows pgx.Rows) (*model.Book, error) {
	book, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.Book])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}
