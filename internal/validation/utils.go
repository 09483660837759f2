package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/marialclark/APIValidationExercise/internal/errs"
)

// Validatable is implemented by request payload types that know how to validate themselves.
//
// Validate usually runs Struct(req) and returns validator.ValidationErrors, or
// CustomValidationErrors for rules tags cannot express.
type Validatable interface {
	Validate() error
}

// CustomValidationError represents a single validation issue for a specific field.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors that satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(fieldName)
	return v
}

// fieldName reports struct fields by their JSON name, falling back to the path
// parameter name for fields that never appear in a body.
func fieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name != "" && name != "-" {
		return name
	}

	if param := field.Tag.Get("param"); param != "" {
		return param
	}

	return field.Name
}

// Struct validates s against its `validate` tags.
func Struct(s any) error {
	return validate.Struct(s)
}

// BindAndValidate binds path parameters and the JSON body into payload, then validates it.
//
// Type mismatches and missing required properties are accumulated and returned
// together as a single 400 *errs.HTTPError. A property that has the wrong type is
// not additionally reported as missing.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := (&echo.DefaultBinder{}).BindPathParams(c, payload); err != nil {
		return errs.NewBadRequestError("Invalid path parameters", true, nil, nil)
	}

	typeErrors, err := bindBody(c.Request().Body, payload)
	if err != nil {
		return err
	}

	fieldErrors := typeErrors
	if _, validationErrors := validateStruct(payload); validationErrors != nil {
		for _, fieldErr := range validationErrors {
			if hasField(typeErrors, fieldErr.Field) {
				continue
			}
			fieldErrors = append(fieldErrors, fieldErr)
		}
	}

	if len(fieldErrors) > 0 {
		return errs.ValidationError(fieldErrors)
	}

	return nil
}

// bindBody decodes a JSON object body into payload one property at a time so
// every type mismatch is collected instead of only the first.
// An empty body binds nothing. Property names must match a JSON tag exactly;
// other keys are ignored.
func bindBody(body io.Reader, payload any) ([]errs.FieldError, error) {
	if body == nil {
		return nil, nil
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, errs.NewBadRequestError("Could not read request body", true, nil, nil)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}

	if raw[0] != '{' {
		return []errs.FieldError{{Field: "", Error: "instance is not of a type(s) object"}}, nil
	}

	var properties map[string]json.RawMessage
	if err := json.Unmarshal(raw, &properties); err != nil {
		return nil, errs.NewBadRequestError("Request body is not valid JSON", true, nil, nil)
	}

	fields := bodyFields(reflect.TypeOf(payload))

	names := make([]string, 0, len(properties))
	for name := range properties {
		if _, ok := fields[name]; ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	var typeErrors []errs.FieldError
	for _, name := range names {
		fieldType := fields[name]
		value := bytes.TrimSpace(properties[name])

		if bytes.Equal(value, []byte("null")) {
			typeErrors = append(typeErrors, typeError(name, fieldType))
			continue
		}

		if schemaType(fieldType) == "integer" {
			if integer, ok := integralNumber(value); ok {
				value = integer
			}
		}

		single, err := json.Marshal(map[string]json.RawMessage{name: value})
		if err != nil {
			return nil, errs.NewBadRequestError("Request body is not valid JSON", true, nil, nil)
		}

		if err := json.Unmarshal(single, payload); err != nil {
			var typeErr *json.UnmarshalTypeError
			if !errors.As(err, &typeErr) {
				return nil, errs.NewBadRequestError("Request body is not valid JSON", true, nil, nil)
			}

			typeErrors = append(typeErrors, typeError(name, typeErr.Type))
		}
	}

	return typeErrors, nil
}

func typeError(name string, t reflect.Type) errs.FieldError {
	return errs.FieldError{
		Field: name,
		Error: fmt.Sprintf("instance.%s is not of a type(s) %s", name, schemaType(t)),
	}
}

// bodyFields maps every JSON property name t decodes to its field type.
// Promoted fields of embedded structs are included unless shadowed.
func bodyFields(t reflect.Type) map[string]reflect.Type {
	fields := make(map[string]reflect.Type)
	collectBodyFields(t, fields)
	return fields
}

func collectBodyFields(t reflect.Type, fields map[string]reflect.Type) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return
	}

	var embedded []reflect.Type
	for i := range t.NumField() {
		field := t.Field(i)
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			continue
		}

		if field.Anonymous && name == "" {
			embedded = append(embedded, field.Type)
			continue
		}

		if !field.IsExported() {
			continue
		}

		if name == "" {
			name = field.Name
		}
		fields[name] = field.Type
	}

	for _, embeddedType := range embedded {
		promoted := make(map[string]reflect.Type)
		collectBodyFields(embeddedType, promoted)
		for name, fieldType := range promoted {
			if _, ok := fields[name]; !ok {
				fields[name] = fieldType
			}
		}
	}
}

// integralNumber rewrites a number with no fractional part, such as 264.0 or
// 2.64e2, as a plain integer literal.
func integralNumber(value json.RawMessage) (json.RawMessage, bool) {
	if len(value) == 0 || (value[0] != '-' && (value[0] < '0' || value[0] > '9')) {
		return nil, false
	}
	if !bytes.ContainsAny(value, ".eE") {
		return nil, false
	}

	var number json.Number
	if err := json.Unmarshal(value, &number); err != nil {
		return nil, false
	}

	f, err := number.Float64()
	if err != nil || f != math.Trunc(f) {
		return nil, false
	}

	return json.RawMessage(strconv.FormatFloat(f, 'f', -1, 64)), true
}

// schemaType names a Go type the way a JSON schema would.
func schemaType(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	default:
		return "string"
	}
}

func hasField(fieldErrors []errs.FieldError, field string) bool {
	for _, fieldErr := range fieldErrors {
		if fieldErr.Field == field {
			return true
		}
	}
	return false
}

// validateStruct calls v.Validate() and extracts field errors if validation fails.
func validateStruct(v Validatable) (string, []errs.FieldError) {
	if err := v.Validate(); err != nil {
		return extractValidationError(err)
	}
	return "", nil
}

func extractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	var customValidationErrors CustomValidationErrors
	if errors.As(err, &customValidationErrors) {
		for _, err := range customValidationErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: err.Field,
				Error: err.Message,
			})
		}
		return "Validation failed", fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error(), []errs.FieldError{{Error: err.Error()}}
	}

	for _, err := range validationErrors {
		field := err.Field()
		var msg string

		switch err.Tag() {
		case "required":
			msg = fmt.Sprintf("instance requires property %q", field)

		case "min":
			if err.Kind() == reflect.String {
				msg = fmt.Sprintf("instance.%s does not meet minimum length of %s", field, err.Param())
			} else {
				msg = fmt.Sprintf("instance.%s must be greater than or equal to %s", field, err.Param())
			}

		case "max":
			if err.Kind() == reflect.String {
				msg = fmt.Sprintf("instance.%s does not meet maximum length of %s", field, err.Param())
			} else {
				msg = fmt.Sprintf("instance.%s must be less than or equal to %s", field, err.Param())
			}

		case "oneof":
			msg = fmt.Sprintf("instance.%s is not one of enum values: %s", field, err.Param())

		case "url":
			msg = fmt.Sprintf("instance.%s does not conform to the \"uri\" format", field)

		default:
			if err.Param() != "" {
				msg = fmt.Sprintf("instance.%s failed %s:%s", field, err.Tag(), err.Param())
			} else {
				msg = fmt.Sprintf("instance.%s failed %s", field, err.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: field,
			Error: msg,
		})
	}

	return "Validation failed", fieldErrors
}
