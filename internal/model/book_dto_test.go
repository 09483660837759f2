package model

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requiredBookProperties lists the properties every create or update must carry.
var requiredBookProperties = []string{"author", "language", "pages", "publisher", "title", "year"}

func ptr[T any](v T) *T {
	return &v
}

func fullPayload() BookPayload {
	return BookPayload{
		ISBN:      ptr("0691161518"),
		AmazonURL: ptr("http://a.co/eobPtX2"),
		Author:    ptr("Matthew Lane"),
		Language:  ptr("English"),
		Pages:     ptr(264),
		Publisher: ptr("Princeton University Press"),
		Title:     ptr("Power-Up: Unlocking the Hidden Mathematics in Video Games"),
		Year:      ptr(2017),
	}
}

func TestCreateBookRequestValid(t *testing.T) {
	req := &CreateBookRequest{BookPayload: fullPayload()}

	require.NoError(t, req.Validate())

	book := req.Book()
	assert.Equal(t, "0691161518", book.ISBN)
	assert.Equal(t, 264, book.Pages)
	assert.Equal(t, "http://a.co/eobPtX2", *book.AmazonURL)
}

func TestCreateBookRequestMissingEveryRequiredProperty(t *testing.T) {
	err := (&CreateBookRequest{}).Validate()

	var validationErrors validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrors)

	fields := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		assert.Equal(t, "required", fieldErr.Tag())
		fields = append(fields, fieldErr.Field())
	}
	assert.ElementsMatch(t, requiredBookProperties, fields)
}

func TestZeroValuesCountAsPresent(t *testing.T) {
	payload := fullPayload()
	payload.Pages = ptr(0)
	payload.Author = ptr("")

	assert.NoError(t, (&CreateBookRequest{BookPayload: payload}).Validate())
}

func TestUpdateBookRequestUsesPathISBN(t *testing.T) {
	payload := fullPayload()
	payload.ISBN = ptr("ignored")
	req := &UpdateBookRequest{PathISBN: "0691161518", BookPayload: payload}

	require.NoError(t, req.Validate())
	assert.Equal(t, "0691161518", req.Book().ISBN)
}

func TestUpdateBookRequestBodyIgnoresPathField(t *testing.T) {
	var req UpdateBookRequest
	require.NoError(t, json.Unmarshal([]byte(`{"isbn":"from-body","author":"A"}`), &req))

	assert.Empty(t, req.PathISBN)
	assert.Equal(t, "from-body", *req.ISBN)
	assert.Equal(t, "A", *req.Author)
}

func TestBookJSONOmitsMissingAmazonURL(t *testing.T) {
	body, err := json.Marshal(Book{ISBN: "1", Author: "A", Language: "L", Pages: 1, Publisher: "P", Title: "T", Year: 2000})
	require.NoError(t, err)

	assert.JSONEq(t, `{"isbn":"1","author":"A","language":"L","pages":1,"publisher":"P","title":"T","year":2000}`, string(body))
}

func TestBookListResponseRendersEmptyArray(t *testing.T) {
	body, err := json.Marshal(BookListResponse{Books: []Book{}})
	require.NoError(t, err)

	assert.JSONEq(t, `{"books":[]}`, string(body))
}
