package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/marialclark/APIValidationExercise/internal/config"
	"github.com/marialclark/APIValidationExercise/internal/database"
	"github.com/marialclark/APIValidationExercise/internal/server"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkHealth(t *testing.T, db *database.Database) (*httptest.ResponseRecorder, HealthResponse) {
	t.Helper()

	logger := zerolog.Nop()
	cfg := &config.Config{
		Primary:       config.Primary{Env: "test"},
		Observability: config.DefaultObservabilityConfig(),
	}
	h := NewHealthHandler(&server.Server{Config: cfg, Logger: &logger, DB: db})

	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/status", nil), rec)
	require.NoError(t, h.CheckHealth(c))

	var res HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return rec, res
}

func TestCheckHealthHealthy(t *testing.T) {
	sqlDB, err := database.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "books.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	rec, res := checkHealth(t, &database.Database{Driver: config.DriverSQLite, SQL: sqlDB})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", res.Status)
	assert.Equal(t, "test", res.Environment)
	assert.Equal(t, "healthy", res.Checks["database"].Status)
	assert.NotContains(t, res.Checks, "redis")
}

func TestCheckHealthDatabaseDown(t *testing.T) {
	sqlDB, err := database.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "books.db"))
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	rec, res := checkHealth(t, &database.Database{Driver: config.DriverSQLite, SQL: sqlDB})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unhealthy", res.Status)
	assert.Equal(t, "unhealthy", res.Checks["database"].Status)
	assert.NotEmpty(t, res.Checks["database"].Error)
}
