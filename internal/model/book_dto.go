package model

import (
	"github.com/marialclark/APIValidationExercise/internal/validation"
)

// BookPayload is the request body shared by create and update.
//
// Fields are pointers so a missing property is distinguishable from a zero
// value. Only the six descriptive fields are required; isbn and amazon_url are
// part of the shape but optional.
type BookPayload struct {
	ISBN      *string `json:"isbn"`
	AmazonURL *string `json:"amazon_url"`
	Author    *string `json:"author" validate:"required"`
	Language  *string `json:"language" validate:"required"`
	Pages     *int    `json:"pages" validate:"required"`
	Publisher *string `json:"publisher" validate:"required"`
	Title     *string `json:"title" validate:"required"`
	Year      *int    `json:"year" validate:"required"`
}

// ToBook converts a validated payload into a Book keyed by isbn.
func (p *BookPayload) ToBook(isbn string) *Book {
	return &Book{
		ISBN:      isbn,
		AmazonURL: p.AmazonURL,
		Author:    deref(p.Author),
		Language:  deref(p.Language),
		Pages:     deref(p.Pages),
		Publisher: deref(p.Publisher),
		Title:     deref(p.Title),
		Year:      deref(p.Year),
	}
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}

// ListBooksRequest has no inputs.
type ListBooksRequest struct{}

func (r *ListBooksRequest) Validate() error {
	return nil
}

// GetBookRequest selects a book by the :isbn path parameter.
type GetBookRequest struct {
	ISBN string `param:"isbn" json:"-" validate:"required"`
}

func (r *GetBookRequest) Validate() error {
	return validation.Struct(r)
}

// CreateBookRequest is the POST /books body.
type CreateBookRequest struct {
	BookPayload
}

func (r *CreateBookRequest) Validate() error {
	return validation.Struct(r)
}

// Book returns the record to insert. The body isbn is the key.
func (r *CreateBookRequest) Book() *Book {
	return r.ToBook(deref(r.ISBN))
}

// UpdateBookRequest is the PUT /books/:isbn body plus its path key.
// The path isbn selects the row; an isbn in the body is accepted and ignored.
type UpdateBookRequest struct {
	PathISBN string `param:"isbn" json:"-" validate:"required"`
	BookPayload
}

func (r *UpdateBookRequest) Validate() error {
	return validation.Struct(r)
}

// Book returns the replacement record keyed by the path isbn.
func (r *UpdateBookRequest) Book() *Book {
	return r.ToBook(r.PathISBN)
}

// DeleteBookRequest selects the book to remove by the :isbn path parameter.
type DeleteBookRequest struct {
	ISBN string `param:"isbn" json:"-" validate:"required"`
}

func (r *DeleteBookRequest) Validate() error {
	return validation.Struct(r)
}
