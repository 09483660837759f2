// Package errs defines the error values the HTTP layer knows how to render.
//
// Handlers and services return *HTTPError for expected conditions (validation,
// missing rows). Anything else bubbles to the global error handler, which
// converts it into an *HTTPError before writing the response.
package errs
