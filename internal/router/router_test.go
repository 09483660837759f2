package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/marialclark/APIValidationExercise/internal/config"
	"github.com/marialclark/APIValidationExercise/internal/database"
	"github.com/marialclark/APIValidationExercise/internal/handler"
	"github.com/marialclark/APIValidationExercise/internal/model"
	"github.com/marialclark/APIValidationExercise/internal/repository"
	"github.com/marialclark/APIValidationExercise/internal/server"
	"github.com/marialclark/APIValidationExercise/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedBook = `{
	"isbn": "0691161518",
	"amazon_url": "http://a.co/eobPtX2",
	"author": "Matthew Lane",
	"language": "English",
	"pages": 264,
	"publisher": "Princeton University Press",
	"title": "Power-Up: Unlocking the Hidden Mathematics in Video Games",
	"year": 2017
}`

func testConfig() *config.Config {
	return &config.Config{
		Primary: config.Primary{Env: "test"},
		Server: config.ServerConfig{
			Port:               "0",
			CORSAllowedOrigins: []string{"*"},
		},
		Database:      config.DatabaseConfig{Driver: config.DriverMemory},
		Observability: config.DefaultObservabilityConfig(),
	}
}

func newTestRouter(t *testing.T, cfg *config.Config, seed ...model.Book) *echo.Echo {
	t.Helper()

	logger := zerolog.Nop()

	db, err := database.New(cfg, &logger, nil)
	require.NoError(t, err)

	s := &server.Server{Config: cfg, Logger: &logger, DB: db}
	repos := &repository.Repositories{Books: repository.NewMemoryBookRepository(seed)}

	services, err := service.NewService(s, repos)
	require.NoError(t, err)

	return NewRouter(s, handler.NewHandlers(s, services))
}

func do(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type errorBody struct {
	Error struct {
		Message json.RawMessage `json:"message"`
		Status  int             `json:"status"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	assert.Equal(t, rec.Code, body.Error.Status)
	return body
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var message string
	require.NoError(t, json.Unmarshal(decodeError(t, rec).Error.Message, &message), rec.Body.String())
	return message
}

func violations(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()

	var messages []string
	require.NoError(t, json.Unmarshal(decodeError(t, rec).Error.Message, &messages), rec.Body.String())
	return messages
}

func TestListBooksEmpty(t *testing.T) {
	e := newTestRouter(t, testConfig())

	rec := do(t, e, http.MethodGet, "/books", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"books":[]}`, rec.Body.String())
}

func TestSeedScenario(t *testing.T) {
	e := newTestRouter(t, testConfig())

	rec := do(t, e, http.MethodPost, "/books", seedBook)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"book":`+seedBook+`}`, rec.Body.String())

	rec = do(t, e, http.MethodGet, "/books/0691161518", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"book":`+seedBook+`}`, rec.Body.String())

	rec = do(t, e, http.MethodGet, "/books", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"books":[`+seedBook+`]}`, rec.Body.String())

	rec = do(t, e, http.MethodGet, "/books/9999999999", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "There is no book with an isbn '9999999999'", errorMessage(t, rec))
}

func TestCreateBookWithoutAmazonURL(t *testing.T) {
	e := newTestRouter(t, testConfig())
	body := `{"isbn":"1","author":"A","language":"L","pages":1,"publisher":"P","title":"T","year":2000}`

	rec := do(t, e, http.MethodPost, "/books", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, e, http.MethodGet, "/books/1", "")
	assert.JSONEq(t, `{"book":`+body+`}`, rec.Body.String())
}

func TestCreateBookMissingEveryRequiredProperty(t *testing.T) {
	e := newTestRouter(t, testConfig())

	rec := do(t, e, http.MethodPost, "/books", `{}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.ElementsMatch(t, []string{
		`instance requires property "author"`,
		`instance requires property "language"`,
		`instance requires property "pages"`,
		`instance requires property "publisher"`,
		`instance requires property "title"`,
		`instance requires property "year"`,
	}, violations(t, rec))
}

func TestCreateBookTypeAndMissingViolations(t *testing.T) {
	e := newTestRouter(t, testConfig())
	body := `{"isbn":"1","language":"L","pages":"264","publisher":"P","title":7,"year":2000}`

	rec := do(t, e, http.MethodPost, "/books", body)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.ElementsMatch(t, []string{
		`instance requires property "author"`,
		`instance.pages is not of a type(s) integer`,
		`instance.title is not of a type(s) string`,
	}, violations(t, rec))

	rec = do(t, e, http.MethodGet, "/books/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateBookCaseFoldedKeys(t *testing.T) {
	e := newTestRouter(t, testConfig())

	rec := do(t, e, http.MethodPost, "/books",
		`{"isbn":"1","AUTHOR":"A","Language":"L","PAGES":1,"Publisher":"P","TITLE":"T","Year":2000}`)

	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.ElementsMatch(t, []string{
		`instance requires property "author"`,
		`instance requires property "language"`,
		`instance requires property "pages"`,
		`instance requires property "publisher"`,
		`instance requires property "title"`,
		`instance requires property "year"`,
	}, violations(t, rec))

	rec = do(t, e, http.MethodGet, "/books/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateBookNullProperties(t *testing.T) {
	e := newTestRouter(t, testConfig())

	rec := do(t, e, http.MethodPost, "/books",
		`{"isbn":"1","author":"A","language":"L","pages":null,"publisher":"P","title":"T","year":null}`)

	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.ElementsMatch(t, []string{
		"instance.pages is not of a type(s) integer",
		"instance.year is not of a type(s) integer",
	}, violations(t, rec))
}

func TestCreateBookIntegralFloatPages(t *testing.T) {
	e := newTestRouter(t, testConfig())

	rec := do(t, e, http.MethodPost, "/books",
		`{"isbn":"1","author":"A","language":"L","pages":264.0,"publisher":"P","title":"T","year":2.017e3}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"book":{"isbn":"1","author":"A","language":"L","pages":264,"publisher":"P","title":"T","year":2017}}`,
		rec.Body.String())
}

func TestCreateBookDuplicateISBN(t *testing.T) {
	e := newTestRouter(t, testConfig())

	require.Equal(t, http.StatusCreated, do(t, e, http.MethodPost, "/books", seedBook).Code)

	rec := do(t, e, http.MethodPost, "/books", seedBook)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "A Book with this Isbn already exists", errorMessage(t, rec))
}

func TestCreateBookMissingISBN(t *testing.T) {
	e := newTestRouter(t, testConfig())

	rec := do(t, e, http.MethodPost, "/books",
		`{"author":"A","language":"L","pages":1,"publisher":"P","title":"T","year":2000}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{`instance requires property "isbn"`}, violations(t, rec))
}

func TestUpdateBook(t *testing.T) {
	e := newTestRouter(t, testConfig(), service.SeedBooks()...)
	body := `{"isbn":"other","author":"Matthew Lane","language":"English","pages":300,
		"publisher":"Princeton University Press","title":"Power-Up","year":2018}`

	rec := do(t, e, http.MethodPut, "/books/0691161518", body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"book":{"isbn":"0691161518","author":"Matthew Lane","language":"English","pages":300,
		"publisher":"Princeton University Press","title":"Power-Up","year":2018}}`, rec.Body.String())

	rec = do(t, e, http.MethodGet, "/books/0691161518", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"book":{"isbn":"0691161518","author":"Matthew Lane","language":"English","pages":300,
		"publisher":"Princeton University Press","title":"Power-Up","year":2018}}`, rec.Body.String())

	rec = do(t, e, http.MethodGet, "/books/other", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateBookValidatesBeforeLookup(t *testing.T) {
	e := newTestRouter(t, testConfig())

	rec := do(t, e, http.MethodPut, "/books/9999999999", `{"author":"A"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, violations(t, rec), 5)

	rec = do(t, e, http.MethodPut, "/books/9999999999", seedBook)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "There is no book with an isbn '9999999999'", errorMessage(t, rec))
}

func TestDeleteBookTwice(t *testing.T) {
	e := newTestRouter(t, testConfig(), service.SeedBooks()...)

	rec := do(t, e, http.MethodDelete, "/books/0691161518", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Book deleted"}`, rec.Body.String())

	rec = do(t, e, http.MethodDelete, "/books/0691161518", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "There is no book with an isbn '0691161518'", errorMessage(t, rec))
}

func TestNonObjectBody(t *testing.T) {
	e := newTestRouter(t, testConfig())

	rec := do(t, e, http.MethodPost, "/books", `[1,2]`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, violations(t, rec), "instance is not of a type(s) object")
}

func TestMalformedBody(t *testing.T) {
	e := newTestRouter(t, testConfig())

	rec := do(t, e, http.MethodPost, "/books", `{"isbn":`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Request body is not valid JSON", errorMessage(t, rec))
}

func TestUnknownRoute(t *testing.T) {
	e := newTestRouter(t, testConfig())

	rec := do(t, e, http.MethodGet, "/authors", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", errorMessage(t, rec))
}

func TestMethodNotAllowed(t *testing.T) {
	e := newTestRouter(t, testConfig())

	rec := do(t, e, http.MethodPatch, "/books/1", `{}`)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	decodeError(t, rec)
}

func TestRequestIDHeader(t *testing.T) {
	e := newTestRouter(t, testConfig())

	rec := do(t, e, http.MethodGet, "/books", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestSystemRoutes(t *testing.T) {
	e := newTestRouter(t, testConfig())

	rec := do(t, e, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var health handler.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "healthy", health.Checks["database"].Status)

	rec = do(t, e, http.MethodGet, "/openapi.json", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Contains(t, doc["paths"], "/books/{isbn}")

	rec = do(t, e, http.MethodGet, "/docs", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/openapi.json")
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Server.RateLimit = config.RateLimitConfig{Enabled: true, Requests: 2, Window: time.Minute}
	e := newTestRouter(t, cfg)

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, do(t, e, http.MethodGet, "/books", "").Code)
	}

	rec := do(t, e, http.MethodGet, "/books", "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Too many requests", errorMessage(t, rec))

	assert.Equal(t, http.StatusOK, do(t, e, http.MethodGet, "/status", "").Code)
}

func TestRateLimitWithoutQuotaIsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Server.RateLimit = config.RateLimitConfig{Enabled: true, Requests: 0, Window: time.Minute}

	var e *echo.Echo
	require.NotPanics(t, func() { e = newTestRouter(t, cfg) })

	for range 5 {
		rec := do(t, e, http.MethodGet, "/books", "")
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestConcurrentCreates(t *testing.T) {
	e := newTestRouter(t, testConfig())

	const n = 20
	var wg sync.WaitGroup
	codes := make([]int, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body := fmt.Sprintf(`{"isbn":"%d","author":"A%d","language":"L","pages":%d,"publisher":"P","title":"T","year":2000}`, i, i, i+1)
			codes[i] = do(t, e, http.MethodPost, "/books", body).Code
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.Equal(t, http.StatusCreated, codes[i])

		rec := do(t, e, http.MethodGet, fmt.Sprintf("/books/%d", i), "")
		require.Equal(t, http.StatusOK, rec.Code)

		var res model.BookResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, fmt.Sprintf("A%d", i), res.Book.Author)
		assert.Equal(t, i+1, res.Book.Pages)
	}
}
