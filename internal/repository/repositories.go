// Package repository holds the storage-facing code for books.
//
// Each backend runs one statement per operation and reports a missing row as
// ErrBookNotFound. Driver errors are wrapped and left for sqlerr to translate.
package repository

import (
	"github.com/marialclark/APIValidationExercise/internal/config"
	"github.com/marialclark/APIValidationExercise/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Books BookRepository
}

// NewRepositories picks the book repository matching the open database handle.
func NewRepositories(s *server.Server) *Repositories {
	var books BookRepository

	switch s.DB.Driver {
	case config.DriverPostgres:
		books = NewPostgresBookRepository(s.DB.Pool)
	case config.DriverSQLite:
		books = NewSQLiteBookRepository(s.DB.SQL)
	default:
		books = NewMemoryBookRepository(nil)
	}

	return &Repositories{Books: books}
}
