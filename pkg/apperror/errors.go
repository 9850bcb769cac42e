package apperror

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrBadRequest       = errors.New("bad request")
	ErrUnprocessable    = errors.New("unprocessable entity")
	ErrUnsupportedMedia = errors.New("unsupported media type")
	ErrInternal         = errors.New("internal server error")
)

// AppError carries an HTTP status code and a user-facing message alongside
// the underlying cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// MapErrorToStatus maps common errors to HTTP status codes. An explicit
// AppError code always wins.
func MapErrorToStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrBadRequest) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrUnprocessable) {
		return http.StatusUnprocessableEntity
	}
	if errors.Is(err, ErrUnsupportedMedia) {
		return http.StatusUnsupportedMediaType
	}
	// Default to internal server error
	return http.StatusInternalServerError
}

// Message returns the user-facing message for err. Internal faults get a
// fixed message so storage detail never reaches the caller.
func Message(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	if MapErrorToStatus(err) == http.StatusInternalServerError {
		return "Something went wrong"
	}
	return err.Error()
}
