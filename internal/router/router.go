// Package router builds the echo instance: global middleware in order, the
// global error handler, and every route group.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/marialclark/APIValidationExercise/internal/handler"
	"github.com/marialclark/APIValidationExercise/internal/middleware"
	"github.com/marialclark/APIValidationExercise/internal/server"
)

func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.Tracing.NewRelicMiddleware(),
		middleware.RequestID(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.Secure(),
		middlewares.Global.CORS(),
		middlewares.RateLimit.Limit(),
	)

	registerSystemRoutes(router, h)
	registerBookRoutes(router, h)

	return router
}
