package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/marialclark/APIValidationExercise/internal/config"
	"github.com/marialclark/APIValidationExercise/internal/errs"
	"github.com/marialclark/APIValidationExercise/internal/server"
	"github.com/marialclark/APIValidationExercise/internal/sqlerr"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestToHTTPError(t *testing.T) {
	notFound := errs.NewNotFoundError("There is no book with an isbn '1'", true, nil)

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"http error passes through", notFound, http.StatusNotFound, "There is no book with an isbn '1'"},
		{"echo route not found", echo.ErrNotFound, http.StatusNotFound, "Route not found"},
		{"echo method not allowed", echo.ErrMethodNotAllowed, http.StatusMethodNotAllowed, "Method Not Allowed"},
		{"constraint violation", &sqlerr.Error{Code: sqlerr.UniqueViolation, TableName: "books", ColumnName: "isbn"}, http.StatusBadRequest, "A Book with this Isbn already exists"},
		{"unknown error", errors.New("connection reset"), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := toHTTPError(tt.err)
			assert.Equal(t, tt.status, httpErr.Status)
			assert.Equal(t, tt.message, httpErr.Message)
		})
	}
}

func TestGlobalErrorHandlerWritesEnvelope(t *testing.T) {
	logger := zerolog.Nop()
	global := NewGlobalMiddlewares(&server.Server{Config: &config.Config{}, Logger: &logger})

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/books", nil), rec)

	global.GlobalErrorHandler(errs.ValidationError([]errs.FieldError{
		{Field: "author", Error: `instance requires property "author"`},
	}), c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":{"message":["instance requires property \"author\""],"status":400}}`, rec.Body.String())
}

func TestGlobalErrorHandlerHidesInternalErrors(t *testing.T) {
	logger := zerolog.Nop()
	global := NewGlobalMiddlewares(&server.Server{Config: &config.Config{}, Logger: &logger})

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/books", nil), rec)

	global.GlobalErrorHandler(errors.New("pq: password authentication failed"), c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":{"message":"Internal Server Error","status":500}}`, rec.Body.String())
}
