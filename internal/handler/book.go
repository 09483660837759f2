package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/marialclark/APIValidationExercise/internal/model"
	"github.com/marialclark/APIValidationExercise/internal/server"
	"github.com/marialclark/APIValidationExercise/internal/service"
)

type BookHandler struct {
	Handler
	bookService *service.BookService
}

func NewBookHandler(s *server.Server, bookService *service.BookService) *BookHandler {
	return &BookHandler{
		Handler:     NewHandler(s),
		bookService: bookService,
	}
}

func (h *BookHandler) ListBooks(c echo.Context, _ *model.ListBooksRequest) (*model.BookListResponse, error) {
	return h.bookService.ListBooks(c.Request().Context())
}

func (h *BookHandler) GetBook(c echo.Context, req *model.GetBookRequest) (*model.BookResponse, error) {
	return h.bookService.GetBook(c.Request().Context(), req.ISBN)
}

func (h *BookHandler) CreateBook(c echo.Context, req *model.CreateBookRequest) (*model.BookResponse, error) {
	return h.bookService.CreateBook(c.Request().Context(), req.Book())
}

func (h *BookHandler) UpdateBook(c echo.Context, req *model.UpdateBookRequest) (*model.BookResponse, error) {
	return h.bookService.UpdateBook(c.Request().Context(), req.PathISBN, req.Book())
}

func (h *BookHandler) DeleteBook(c echo.Context, req *model.DeleteBookRequest) (*model.MessageResponse, error) {
	return h.bookService.DeleteBook(c.Request().Context(), req.ISBN)
}
