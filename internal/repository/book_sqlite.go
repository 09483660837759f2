package repository

import (
	"context"
	"database/sql"

	"github.com/marialclark/APIValidationExercise/internal/model"
	"github.com/pkg/errors"
)

type SQLiteBookRepository struct {
	db *sql.DB
}

func NewSQLiteBookRepository(db *sql.DB) *SQLiteBookRepository {
	return &SQLiteBookRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBook(row scanner) (*model.Book, error) {
	var (
		book      model.Book
		amazonURL sql.NullString
	)

	err := row.Scan(&book.ISBN, &amazonURL, &book.Author, &book.Language,
		&book.Pages, &book.Publisher, &book.Title, &book.Year)
	if err != nil {
		return nil, err
	}

	if amazonURL.Valid {
		book.AmazonURL = &amazonURL.String
	}
	return &book, nil
}

func (r *SQLiteBookRepository) List(ctx context.Context) ([]model.Book, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+bookColumns+` FROM books ORDER BY isbn`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query books")
	}
	defer rows.Close()

	books := []model.Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan book")
		}
		books = append(books, *book)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate books")
	}
	return books, nil
}

func (r *SQLiteBookRepository) Get(ctx context.Context, isbn string) (*model.Book, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+bookColumns+` FROM books WHERE isbn = ?`, isbn)

	book, err := scanBook(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookNotFound
		}
		return nil, errors.Wrapf(err, "failed to query book %s", isbn)
	}
	return book, nil
}

func (r *SQLiteBookRepository) Create(ctx context.Context, book *model.Book) (*model.Book, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO books (`+bookColumns+`)
		VALUES (NULLIF(?, ''), ?, ?, ?, ?, ?, ?, ?)`,
		book.ISBN, book.AmazonURL, book.Author, book.Language,
		book.Pages, book.Publisher, book.Title, book.Year,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to insert book")
	}

	created := *book
	return &created, nil
}

func (r *SQLiteBookRepository) Update(ctx context.Context, isbn string, book *model.Book) (*model.Book, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE books
		SET amazon_url = ?, author = ?, language = ?, pages = ?,
		    publisher = ?, title = ?, year = ?
		WHERE isbn = ?`,
		book.AmazonURL, book.Author, book.Language, book.Pages,
		book.Publisher, book.Title, book.Year, isbn,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to update book %s", isbn)
	}

	if err := requireAffected(res); err != nil {
		return nil, err
	}

	updated := *book
	updated.ISBN = isbn
	return &updated, nil
}

func (r *SQLiteBookRepository) Delete(ctx context.Context, isbn string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE isbn = ?`, isbn)
	if err != nil {
		return errors.Wrapf(err, "failed to delete book %s", isbn)
	}

	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}
	if n == 0 {
		return ErrBookNotFound
	}
	return nil
}
