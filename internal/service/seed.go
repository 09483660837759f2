package service

import (
	"context"
	"errors"

	"github.com/marialclark/APIValidationExercise/internal/model"
	"github.com/marialclark/APIValidationExercise/internal/repository"
)

func strPtr(s string) *string {
	return &s
}

// SeedBooks returns the books `bookshelf seed` loads into an empty store.
func SeedBooks() []model.Book {
	return []model.Book{
		{
			ISBN:      "0691161518",
			AmazonURL: strPtr("http://a.co/eobPtX2"),
			Author:    "Matthew Lane",
			Language:  "English",
			Pages:     264,
			Publisher: "Princeton University Press",
			Title:     "Power-Up: Unlocking the Hidden Mathematics in Video Games",
			Year:      2017,
		},
	}
}

// Seed inserts every book in books that is not stored yet and reports how
// many were inserted. Existing rows are left as they are.
func (s *BookService) Seed(ctx context.Context, books []model.Book) (int, error) {
	inserted := 0

	for i := range books {
		book := books[i]

		_, err := s.repo.Get(ctx, book.ISBN)
		if err == nil {
			s.server.Logger.Debug().Str("isbn", book.ISBN).Msg("seed book already present")
			continue
		}
		if !errors.Is(err, repository.ErrBookNotFound) {
			return inserted, err
		}

		if _, err := s.repo.Create(ctx, &book); err != nil {
			return inserted, err
		}
		inserted++
	}

	s.server.Logger.Info().Int("inserted", inserted).Int("total", len(books)).Msg("seeded books")
	return inserted, nil
}
