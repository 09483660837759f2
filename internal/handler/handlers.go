// Package handler is the HTTP entry point for business logic after the router.
//
// Handlers receive requests that the typed pipeline in base.go has already
// bound and validated, call the service layer and return the value to render.
package handler

import (
	"github.com/marialclark/APIValidationExercise/internal/server"
	"github.com/marialclark/APIValidationExercise/internal/service"
)

// Handlers groups all HTTP handlers so the router receives a single value.
type Handlers struct {
	Book    *BookHandler
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Book:    NewBookHandler(s, services.Book),
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
	}
}
