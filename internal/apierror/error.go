package apierror

import (
	"net/http"

	"github.com/pkg/errors"
)

// Tags used by the API to qualify errors.
const (
	TagInvalidAuth      = "invalid-auth"
	TagInvalidParameter = "invalid-parameter"
	TagNotFound         = "not-found"
)

type (
	// An Error represents the error format that can be rendered by the itemlist server.
	Error struct {
		HTTPCode   int `json:"-"`
		FieldError err `json:"error"`
	}

	err struct {
		Tag     string `json:"tag,omitempty"`
		Message string `json:"message"`
	}
)

// StatusCode returns the HTTP status code.
// Wrapped errors are unwrapped with errors.Cause.
func StatusCode(err error) int {
	if apierr, ok := errors.Cause(err).(*Error); ok && apierr.HTTPCode != 0 {
		return apierr.HTTPCode
	}
	return http.StatusInternalServerError
}

// New returns a new Error with the given message.
func New(message string) *Error {
	return &Error{FieldError: err{Message: message}}
}

// NewWithTagCode returns a new Error with the given code, tag and message.
func NewWithTagCode(code int, tag, message string) *Error {
	return &Error{HTTPCode: code, FieldError: err{Tag: tag, Message: message}}
}

// Unauthorized returns a new invalid-auth Error.
func Unauthorized(message string) *Error {
	return NewWithTagCode(http.StatusUnauthorized, TagInvalidAuth, message)
}

// BadRequest returns a new invalid-parameter Error.
func BadRequest(message string) *Error {
	return NewWithTagCode(http.StatusBadRequest, TagInvalidParameter, message)
}

// NotFound returns a new not-found Error.
func NotFound(message string) *Error {
	return NewWithTagCode(http.StatusNotFound, TagNotFound, message)
}

// Tag returns the error's tag.
func (e *Error) Tag() string {
	return e.FieldError.Tag
}

// Error implements error interface.
func (e *Error) Error() string {
	return e.FieldError.Message
}
