package model

// Book is the single persisted resource, keyed by ISBN.
//
// AmazonURL is nullable in storage and omitted from JSON when absent, so a
// book reads back exactly as it was submitted.
type Book struct {
	ISBN      string  `json:"isbn" db:"isbn"`
	AmazonURL *string `json:"amazon_url,omitempty" db:"amazon_url"`
	Author    string  `json:"author" db:"author"`
	Language  string  `json:"language" db:"language"`
	Pages     int     `json:"pages" db:"pages"`
	Publisher string  `json:"publisher" db:"publisher"`
	Title     string  `json:"title" db:"title"`
	Year      int     `json:"year" db:"year"`
}

// BookResponse wraps a single book: {"book": {...}}.
type BookResponse struct {
	Book *Book `json:"book"`
}

// BookListResponse wraps the collection: {"books": [...]}.
// Books is never nil so an empty store renders as [].
type BookListResponse struct {
	Books []Book `json:"books"`
}

// MessageResponse carries a plain confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}
