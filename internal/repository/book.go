package repository

import (
	"context"
	"errors"

	"github.com/marialclark/APIValidationExercise/internal/model"
)

// ErrBookNotFound is returned when no row matches the requested isbn.
var ErrBookNotFound = errors.New("book not found")

// BookRepository persists books keyed by isbn.
//
// Update replaces every column of an existing row. Create with an isbn that is
// already stored fails with a unique violation.
type BookRepository interface {
	List(ctx context.Context) ([]model.Book, error)
	Get(ctx context.Context, isbn string) (*model.Book, error)
	Create(ctx context.Context, book *model.Book) (*model.Book, error)
	Update(ctx context.Context, isbn string, book *model.Book) (*model.Book, error)
	Delete(ctx context.Context, isbn string) error
}

const bookColumns = `isbn, amazon_url, author, language, pages, publisher, title, year`
