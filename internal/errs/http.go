package errs

import "strings"

// FieldError is a single field-level validation failure.
//
// Error holds the full violation message, e.g.
//
//	instance requires property "author"
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// HTTPError is the error type understood by the global error handler.
//
// Fields:
//   - Code: machine-friendly code (e.g. "BAD_REQUEST"), logged but not rendered.
//   - Message: human-friendly message.
//   - Status: HTTP status code.
//   - Override: the message is safe to show to clients as is.
//   - Errors: per-field violations. When present they replace Message in the body.
type HTTPError struct {
	Code     string
	Message  string
	Status   int
	Override bool
	Errors   []FieldError
}

// ErrorBody is the inner object of an error response.
// Message is either a string or a list of violation strings.
type ErrorBody struct {
	Message any `json:"message"`
	Status  int `json:"status"`
}

// ErrorResponse is the JSON envelope written for every failed request:
//
//	{ "error": { "message": ..., "status": 404 } }
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also an *HTTPError. Code and Status are not compared.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)

	return ok
}

// WithMessage returns a copy of e with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:     e.Code,
		Message:  message,
		Status:   e.Status,
		Override: e.Override,
		Errors:   e.Errors,
	}
}

// Violations returns the violation messages carried by e, in order.
func (e *HTTPError) Violations() []string {
	if len(e.Errors) == 0 {
		return nil
	}

	violations := make([]string, 0, len(e.Errors))
	for _, fieldErr := range e.Errors {
		violations = append(violations, fieldErr.Error)
	}

	return violations
}

// Response builds the JSON envelope for e.
// Validation errors render their violations as the message array.
func (e *HTTPError) Response() ErrorResponse {
	var message any = e.Message
	if violations := e.Violations(); violations != nil {
		message = violations
	}

	return ErrorResponse{
		Error: ErrorBody{
			Message: message,
			Status:  e.Status,
		},
	}
}

// MakeUpperCaseWithUnderscores converts "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
