// Package errors provides typed domain errors for the Linkstash API.
//
// Every expected failure mode is a value carrying a machine-readable code.
// Stores and services return these values instead of raising raw storage
// errors; handlers discriminate on the code to pick a response status.
//
// Usage:
//
//	// In stores/services - return typed errors
//	if urlTaken {
//	    return errors.BookmarkAlreadyExists("this URL already exists")
//	}
//
//	// In handlers - check with errors.Is
//	if errors.Is(err, errors.ErrBookmarkDoesNotExist) {
//	    // 404
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
	New    = errors.New
)

// Code is a machine-readable error type tag, surfaced verbatim in API
// responses as error.type.
type Code string

// Error codes used throughout the application.
const (
	// Bookmarks.
	CodeBookmarkError            Code = "bookmark-error"
	CodeBookmarkDoesNotExist     Code = "bookmark-does-not-exist"
	CodeBookmarkAlreadyExists    Code = "bookmark-already-exists"
	CodeBookmarkLabelError       Code = "bookmark-label-error"
	CodeBookmarkAlreadyHasLabel  Code = "bookmark-already-has-label"
	CodeBookmarkDoesNotHaveLabel Code = "bookmark-does-not-have-label"

	// Labels.
	CodeLabelError        Code = "label-error"
	CodeLabelDoesNotExist Code = "label-does-not-exist"

	// Lists.
	CodeListError                  Code = "list-error"
	CodeListDoesNotExist           Code = "list-does-not-exist"
	CodeListDoesNotContainBookmark Code = "list-does-not-contain-bookmark"
	CodeListAlreadyHasBookmark     Code = "list-already-has-bookmark"

	// Users and sessions.
	CodeUserError       Code = "user-error"
	CodeUserExists      Code = "user-exists-error"
	CodeHashingError    Code = "hashing-error"
	CodeSignupsDisabled Code = "signups-disabled"
	CodeNotLoggedIn     Code = "not-logged-in"
	CodeLoginError      Code = "login-error"

	// Ownership.
	CodeForbiddenBookmark Code = "forbidden-access-to-bookmark"
	CodeForbiddenLabel    Code = "forbidden-access-to-label"
	CodeForbiddenList     Code = "forbidden-access-to-list"

	// Request validation. Tags match the shapes the handlers reject.
	CodeValidation        Code = "validation-error"
	CodeMissingEmail      Code = "missing-email"
	CodeInvalidEmail      Code = "invalid-email"
	CodeMissingPassword   Code = "missing-password"
	CodeInvalidPassword   Code = "invalid-password"
	CodeMissingURL        Code = "missing-url"
	CodeInvalidURL        Code = "invalid-url"
	CodeInvalidThumbnail  Code = "invalid-thumbnail"
	CodeMissingName       Code = "missing-name"
	CodeInvalidName       Code = "invalid-name"
	CodeMissingBookmarkID Code = "missing-bookmark-id"
	CodeMissingLabelID    Code = "missing-label-id"
	CodeMissingListID     Code = "missing-list-id"
	CodeMissingParameters Code = "missing-parameters"

	// Import/export.
	CodeInvalidImportFormat Code = "invalid-import-format"
	CodeImportError         Code = "import-error"
	CodeExportError         Code = "export-error"

	// Transport-level fallbacks for errors that never passed through a
	// domain constructor (unmatched routes, rate limits, panics).
	CodeNotFound        Code = "not-found"
	CodeTooManyRequests Code = "too-many-requests"
	CodeInternal        Code = "internal-error"
)

// HTTPStatus returns the response status for an error code.
// Mapping: validation and relation conflicts 400, missing session 401,
// ownership 403, absent entity 404, everything else 500.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeBookmarkDoesNotExist, CodeLabelDoesNotExist, CodeListDoesNotExist, CodeNotFound:
		return http.StatusNotFound
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeForbiddenBookmark, CodeForbiddenLabel, CodeForbiddenList, CodeSignupsDisabled:
		return http.StatusForbidden
	case CodeNotLoggedIn:
		return http.StatusUnauthorized
	case CodeBookmarkAlreadyExists, CodeBookmarkAlreadyHasLabel, CodeBookmarkDoesNotHaveLabel,
		CodeListDoesNotContainBookmark, CodeListAlreadyHasBookmark,
		CodeUserExists, CodeHashingError, CodeLoginError,
		CodeValidation, CodeInvalidImportFormat,
		CodeMissingEmail, CodeInvalidEmail, CodeMissingPassword, CodeInvalidPassword,
		CodeMissingURL, CodeInvalidURL, CodeInvalidThumbnail,
		CodeMissingName, CodeInvalidName,
		CodeMissingBookmarkID, CodeMissingLabelID, CodeMissingListID, CodeMissingParameters:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code and message.
type Error struct {
	Code    Code   `json:"type"`
	Message string `json:"message"`
	cause   error  // unexported, for wrapping
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		cause:   err,
	}
}

// Sentinel errors for use with errors.Is().
var (
	ErrBookmarkError            = &Error{Code: CodeBookmarkError, Message: "bookmark error"}
	ErrBookmarkDoesNotExist     = &Error{Code: CodeBookmarkDoesNotExist, Message: "bookmark does not exist"}
	ErrBookmarkAlreadyExists    = &Error{Code: CodeBookmarkAlreadyExists, Message: "bookmark already exists"}
	ErrBookmarkLabelError       = &Error{Code: CodeBookmarkLabelError, Message: "bookmark label error"}
	ErrBookmarkAlreadyHasLabel  = &Error{Code: CodeBookmarkAlreadyHasLabel, Message: "bookmark already has label"}
	ErrBookmarkDoesNotHaveLabel = &Error{Code: CodeBookmarkDoesNotHaveLabel, Message: "bookmark does not have label"}

	ErrLabelError        = &Error{Code: CodeLabelError, Message: "label error"}
	ErrLabelDoesNotExist = &Error{Code: CodeLabelDoesNotExist, Message: "label does not exist"}

	ErrListError                  = &Error{Code: CodeListError, Message: "list error"}
	ErrListDoesNotExist           = &Error{Code: CodeListDoesNotExist, Message: "list does not exist"}
	ErrListDoesNotContainBookmark = &Error{Code: CodeListDoesNotContainBookmark, Message: "list does not contain bookmark"}
	ErrListAlreadyHasBookmark     = &Error{Code: CodeListAlreadyHasBookmark, Message: "list already contains bookmark"}

	ErrUserError       = &Error{Code: CodeUserError, Message: "user error"}
	ErrUserExists      = &Error{Code: CodeUserExists, Message: "user already exists"}
	ErrHashingError    = &Error{Code: CodeHashingError, Message: "hashing error"}
	ErrSignupsDisabled = &Error{Code: CodeSignupsDisabled, Message: "signups are disabled"}
	ErrNotLoggedIn     = &Error{Code: CodeNotLoggedIn, Message: "missing or wrong credentials provided"}
	ErrLoginFailed     = &Error{Code: CodeLoginError, Message: "wrong email or password"}

	ErrValidation          = &Error{Code: CodeValidation, Message: "validation error"}
	ErrInvalidImportFormat = &Error{Code: CodeInvalidImportFormat, Message: "invalid import format"}
)

// Constructor functions for creating errors with custom messages.

// BookmarkError creates a generic bookmark storage error.
func BookmarkError(msg string) *Error {
	return &Error{Code: CodeBookmarkError, Message: msg}
}

// BookmarkDoesNotExist creates a bookmark absence error.
func BookmarkDoesNotExist(msg string) *Error {
	return &Error{Code: CodeBookmarkDoesNotExist, Message: msg}
}

// BookmarkDoesNotExistf creates a bookmark absence error with a formatted message.
func BookmarkDoesNotExistf(format string, args ...any) *Error {
	return &Error{Code: CodeBookmarkDoesNotExist, Message: fmt.Sprintf(format, args...)}
}

// BookmarkAlreadyExists creates a duplicate-URL error.
func BookmarkAlreadyExists(msg string) *Error {
	return &Error{Code: CodeBookmarkAlreadyExists, Message: msg}
}

// BookmarkLabelError creates a generic bookmark-label relation error.
func BookmarkLabelError(msg string) *Error {
	return &Error{Code: CodeBookmarkLabelError, Message: msg}
}

// BookmarkAlreadyHasLabel creates a duplicate relation error.
func BookmarkAlreadyHasLabel(msg string) *Error {
	return &Error{Code: CodeBookmarkAlreadyHasLabel, Message: msg}
}

// BookmarkDoesNotHaveLabelf creates a missing relation error with a formatted message.
func BookmarkDoesNotHaveLabelf(format string, args ...any) *Error {
	return &Error{Code: CodeBookmarkDoesNotHaveLabel, Message: fmt.Sprintf(format, args...)}
}

// LabelError creates a generic label storage error.
func LabelError(msg string) *Error {
	return &Error{Code: CodeLabelError, Message: msg}
}

// LabelDoesNotExistf creates a label absence error with a formatted message.
func LabelDoesNotExistf(format string, args ...any) *Error {
	return &Error{Code: CodeLabelDoesNotExist, Message: fmt.Sprintf(format, args...)}
}

// ListError creates a generic list storage error.
func ListError(msg string) *Error {
	return &Error{Code: CodeListError, Message: msg}
}

// ListDoesNotExistf creates a list absence error with a formatted message.
func ListDoesNotExistf(format string, args ...any) *Error {
	return &Error{Code: CodeListDoesNotExist, Message: fmt.Sprintf(format, args...)}
}

// ListAlreadyHasBookmarkf creates a duplicate list membership error.
func ListAlreadyHasBookmarkf(format string, args ...any) *Error {
	return &Error{Code: CodeListAlreadyHasBookmark, Message: fmt.Sprintf(format, args...)}
}

// ListDoesNotContainBookmarkf creates a missing list membership error.
func ListDoesNotContainBookmarkf(format string, args ...any) *Error {
	return &Error{Code: CodeListDoesNotContainBookmark, Message: fmt.Sprintf(format, args...)}
}

// UserError creates a generic user storage error.
func UserError(msg string) *Error {
	return &Error{Code: CodeUserError, Message: msg}
}

// UserExists creates a duplicate-email error.
func UserExists(msg string) *Error {
	return &Error{Code: CodeUserExists, Message: msg}
}

// HashingError creates a password hashing error.
func HashingError(msg string) *Error {
	return &Error{Code: CodeHashingError, Message: msg}
}

// LoginError creates a credentials failure for the login endpoint.
func LoginError(msg string) *Error {
	return &Error{Code: CodeLoginError, Message: msg}
}

// Forbidden creates an ownership error for the given code.
func Forbidden(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Validation creates a request validation error with a specific type tag,
// e.g. CodeMissingURL or CodeInvalidEmail.
func Validation(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// InvalidImportFormat creates an import document validation error.
func InvalidImportFormat(msg string) *Error {
	return &Error{Code: CodeInvalidImportFormat, Message: msg}
}

// ExportError creates a document export error.
func ExportError(msg string) *Error {
	return &Error{Code: CodeExportError, Message: msg}
}

// ImportError creates a structural import failure.
func ImportError(msg string) *Error {
	return &Error{Code: CodeImportError, Message: msg}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}
