package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/marialclark/APIValidationExercise/internal/model"
	"github.com/marialclark/APIValidationExercise/internal/sqlerr"
)

// MemoryBookRepository keeps books in a map. Constraint failures are reported
// as *sqlerr.Error so they surface like the SQL backends' do.
type MemoryBookRepository struct {
	mu    sync.RWMutex
	books map[string]model.Book
}

// NewMemoryBookRepository constructs a repository holding a copy of seed.
func NewMemoryBookRepository(seed []model.Book) *MemoryBookRepository {
	repo := &MemoryBookRepository{
		books: make(map[string]model.Book, len(seed)),
	}

	for _, book := range seed {
		repo.books[book.ISBN] = book
	}

	return repo
}

// List returns all books in ascending isbn order.
func (r *MemoryBookRepository) List(_ context.Context) ([]model.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]model.Book, 0, len(r.books))
	for _, book := range r.books {
		result = append(result, book)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ISBN < result[j].ISBN
	})

	return result, nil
}

func (r *MemoryBookRepository) Get(_ context.Context, isbn string) (*model.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	book, ok := r.books[isbn]
	if !ok {
		return nil, ErrBookNotFound
	}
	return &book, nil
}

func (r *MemoryBookRepository) Create(_ context.Context, book *model.Book) (*model.Book, error) {
	if book.ISBN == "" {
		return nil, constraintError(sqlerr.NotNullViolation, `null value in column "isbn"`)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.books[book.ISBN]; ok {
		return nil, constraintError(sqlerr.UniqueViolation, "duplicate key value violates unique constraint \"books_pkey\"")
	}

	r.books[book.ISBN] = *book

	created := *book
	return &created, nil
}

func (r *MemoryBookRepository) Update(_ context.Context, isbn string, book *model.Book) (*model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.books[isbn]; !ok {
		return nil, ErrBookNotFound
	}

	updated := *book
	updated.ISBN = isbn
	r.books[isbn] = updated
	return &updated, nil
}

func (r *MemoryBookRepository) Delete(_ context.Context, isbn string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.books[isbn]; !ok {
		return ErrBookNotFound
	}

	delete(r.books, isbn)
	return nil
}

func constraintError(code sqlerr.Code, message string) *sqlerr.Error {
	return &sqlerr.Error{
		Code:       code,
		Severity:   sqlerr.SeverityError,
		Message:    message,
		TableName:  "books",
		ColumnName: "isbn",
	}
}
