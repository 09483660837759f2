package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/marialclark/APIValidationExercise/internal/errs"
	"github.com/mattn/go-sqlite3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// "Key (isbn)=(0691161518) already exists."
	pgDetailKey = regexp.MustCompile(`Key \(([^)]+)\)=`)

	// "UNIQUE constraint failed: books.isbn"
	sqliteTargetPattern = regexp.MustCompile(`constraint failed: ([A-Za-z0-9_]+)\.([A-Za-z0-9_]+)`)

	// "<table>_<column>_key" / "<table>_<column>_ukey"
	constraintColumn = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)
)

// ErrCode reports the Code of the first *Error in err's chain, or Other.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}
	return Other
}

// ConvertPgError converts a raw Postgres error into an *Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	column := src.ColumnName
	if column == "" {
		if m := pgDetailKey.FindStringSubmatch(src.Detail); m != nil {
			column = m[1]
		}
	}

	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     column,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// ConvertSQLiteError converts a go-sqlite3 error into an *Error.
// SQLite only reports the table and column inside the message text.
func ConvertSQLiteError(src sqlite3.Error) *Error {
	code := Other
	if src.Code == sqlite3.ErrConstraint {
		switch src.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			code = UniqueViolation
		case sqlite3.ErrConstraintNotNull:
			code = NotNullViolation
		case sqlite3.ErrConstraintForeignKey:
			code = ForeignKeyViolation
		case sqlite3.ErrConstraintCheck:
			code = CheckViolation
		}
	}

	sqlErr := &Error{
		Code:         code,
		Severity:     SeverityError,
		DatabaseCode: strconv.Itoa(int(src.ExtendedCode)),
		Message:      src.Error(),
		driverErr:    src,
	}

	sqlErr.TableName, sqlErr.ColumnName = sqliteTarget(sqlErr.Message)

	return sqlErr
}

// sqliteTarget extracts "books" and "isbn" from "UNIQUE constraint failed: books.isbn".
func sqliteTarget(message string) (table, column string) {
	m := sqliteTargetPattern.FindStringSubmatch(message)
	if m == nil {
		return "", ""
	}
	return m[1], m[2]
}

// generateErrorCode builds "<DOMAIN>_<ACTION>" codes such as BOOK_ALREADY_EXISTS.
func generateErrorCode(tableName string, errType Code) string {
	if tableName == "" {
		tableName = "RECORD"
	}

	domain := strings.ToUpper(tableName)
	if strings.HasSuffix(domain, "S") && len(domain) > 1 {
		domain = domain[:len(domain)-1]
	}

	action := "ERROR"
	switch errType {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation:
		action = "INVALID"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

func formatUserFriendlyMessage(sqlErr *Error) string {
	entityName := getEntityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return fmt.Sprintf("The referenced %s does not exist", entityName)

	case UniqueViolation:
		field := "identifier"
		if column := uniqueColumn(sqlErr); column != "" {
			field = humanizeText(column)
		}
		return fmt.Sprintf("A %s with this %s already exists", entityName, field)

	case NotNullViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)

	case CheckViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"

	default:
		return "An error occurred while processing your request"
	}
}

// getEntityName prefers a foreign key column ("author_id" -> "Author"), then the
// singularized table name, then "record".
func getEntityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		return humanizeText(strings.TrimSuffix(strings.ToLower(columnName), "_id"))
	}

	if tableName != "" {
		entity := tableName
		if strings.HasSuffix(entity, "s") && len(entity) > 1 {
			entity = entity[:len(entity)-1]
		}
		return humanizeText(entity)
	}

	return "record"
}

// humanizeText turns "amazon_url" into "Amazon Url".
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

func uniqueColumn(sqlErr *Error) string {
	if sqlErr.ColumnName != "" {
		return sqlErr.ColumnName
	}

	name := sqlErr.ConstraintName
	if strings.HasPrefix(name, "unique_") {
		if parts := strings.Split(name, "_"); len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}

	if m := constraintColumn.FindStringSubmatch(name); m != nil {
		return m[1]
	}

	return ""
}

// HandleError converts a low-level database error into an *errs.HTTPError.
//
//   - *errs.HTTPError: returned unchanged
//   - *Error, *pgconn.PgError, sqlite3.Error: translated by code
//   - constraint violations: 400 with a generated code and readable message
//   - no rows: 404
//   - anything else: 500
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return translate(sqlErr)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return translate(ConvertPgError(pgErr))
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return translate(ConvertSQLiteError(sqliteErr))
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	return errs.NewInternalServerError()
}

func translate(sqlErr *Error) error {
	errorCode := generateErrorCode(sqlErr.TableName, sqlErr.Code)
	userMessage := formatUserFriendlyMessage(sqlErr)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return errs.NewBadRequestError(userMessage, false, &errorCode, nil)

	case UniqueViolation, CheckViolation:
		return errs.NewBadRequestError(userMessage, true, &errorCode, nil)

	case NotNullViolation:
		fieldErrors := []errs.FieldError{{
			Field: strings.ToLower(sqlErr.ColumnName),
			Error: fmt.Sprintf("instance requires property %q", strings.ToLower(sqlErr.ColumnName)),
		}}
		return errs.NewBadRequestError(userMessage, true, &errorCode, fieldErrors)

	default:
		return errs.NewInternalServerError()
	}
}
