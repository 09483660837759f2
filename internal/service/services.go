// Package service contains the business logic.
//
// It sits between the handler and repository layers. It receives validated
// requests from the handler, turns repository results into domain outcomes
// (a book, a not-found *errs.HTTPError, or a storage error for the global
// error handler) and never touches echo or SQL directly.
package service

import (
	"github.com/marialclark/APIValidationExercise/internal/repository"
	"github.com/marialclark/APIValidationExercise/internal/server"
)

type Services struct {
	Book *BookService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Book: NewBookService(s, repos.Books),
	}, nil
}
