package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/marialclark/APIValidationExercise/internal/handler"
)

func registerBookRoutes(r *echo.Echo, h *handler.Handlers) {
	books := r.Group("/books")

	books.GET("", handler.Handle(h.Book.Handler, h.Book.ListBooks, http.StatusOK))
	books.POST("", handler.Handle(h.Book.Handler, h.Book.CreateBook, http.StatusCreated))
	books.GET("/:isbn", handler.Handle(h.Book.Handler, h.Book.GetBook, http.StatusOK))
	books.PUT("/:isbn", handler.Handle(h.Book.Handler, h.Book.UpdateBook, http.StatusOK))
	books.DELETE("/:isbn", handler.Handle(h.Book.Handler, h.Book.DeleteBook, http.StatusOK))
}
