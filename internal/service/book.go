package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/marialclark/APIValidationExercise/internal/errs"
	"github.com/marialclark/APIValidationExercise/internal/model"
	"github.com/marialclark/APIValidationExercise/internal/repository"
	"github.com/marialclark/APIValidationExercise/internal/server"
)

type BookService struct {
	server *server.Server
	repo   repository.BookRepository
}

func NewBookService(s *server.Server, repo repository.BookRepository) *BookService {
	return &BookService{
		server: s,
		repo:   repo,
	}
}

// BookNotFound is the 404 returned for an unknown isbn.
func BookNotFound(isbn string) *errs.HTTPError {
	return errs.NewNotFoundError(fmt.Sprintf("There is no book with an isbn '%s'", isbn), true, nil)
}

func (s *BookService) notFound(err error, isbn string) error {
	if errors.Is(err, repository.ErrBookNotFound) {
		return BookNotFound(isbn)
	}
	return err
}

func (s *BookService) ListBooks(ctx context.Context) (*model.BookListResponse, error) {
	books, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if books == nil {
		books = []model.Book{}
	}
	return &model.BookListResponse{Books: books}, nil
}

func (s *BookService) GetBook(ctx context.Context, isbn string) (*model.BookResponse, error) {
	book, err := s.repo.Get(ctx, isbn)
	if err != nil {
		return nil, s.notFound(err, isbn)
	}
	return &model.BookResponse{Book: book}, nil
}

func (s *BookService) CreateBook(ctx context.Context, book *model.Book) (*model.BookResponse, error) {
	created, err := s.repo.Create(ctx, book)
	if err != nil {
		return nil, err
	}

	s.server.Logger.Info().Str("isbn", created.ISBN).Msg("book created")
	return &model.BookResponse{Book: created}, nil
}

// UpdateBook replaces the book stored under isbn. book.ISBN is ignored.
func (s *BookService) UpdateBook(ctx context.Context, isbn string, book *model.Book) (*model.BookResponse, error) {
	updated, err := s.repo.Update(ctx, isbn, book)
	if err != nil {
		return nil, s.notFound(err, isbn)
	}
	return &model.BookResponse{Book: updated}, nil
}

func (s *BookService) DeleteBook(ctx context.Context, isbn string) (*model.MessageResponse, error) {
	if err := s.repo.Delete(ctx, isbn); err != nil {
		return nil, s.notFound(err, isbn)
	}

	s.server.Logger.Info().Str("isbn", isbn).Msg("book deleted")
	return &model.MessageResponse{Message: "Book deleted"}, nil
}
