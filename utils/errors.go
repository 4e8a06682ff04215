package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// Tipe error domain. Handler cukup mengembalikan salah satu tipe ini
// dan RespondWithError yang memilih kode HTTP.

// ValidationError -> input klien tidak valid (400).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError -> resource yang diminta tidak ada (404).
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func NewNotFoundError(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// DuplicateError -> melanggar keunikan, mis. order_number kembar (400).
type DuplicateError struct {
	Message string
}

func (e *DuplicateError) Error() string { return e.Message }

func NewDuplicateError(format string, args ...interface{}) *DuplicateError {
	return &DuplicateError{Message: fmt.Sprintf(format, args...)}
}

// QueryError -> kegagalan di lapisan database (500). Err asli dibawa
// untuk log, Op menjelaskan operasi yang gagal.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

func (e *QueryError) Unwrap() error { return e.Err }

func NewQueryError(op string, err error) *QueryError {
	return &QueryError{Op: op, Err: err}
}

// HTTPStatus memetakan error domain ke kode HTTP. Error yang tidak
// dikenal dianggap kegagalan internal.
func HTTPStatus(err error) int {
	var (
		vErr *ValidationError
		nErr *NotFoundError
		dErr *DuplicateError
	)
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest
	case errors.As(err, &nErr):
		return http.StatusNotFound
	case errors.As(err, &dErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
