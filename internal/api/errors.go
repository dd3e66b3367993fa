package api

import (
	"errors"
	"net/http"

	"github.com/lanning/taskstore/internal/domain"
	"github.com/lanning/taskstore/internal/store"
)

// Machine-readable error codes returned in the response envelope. Each
// code is paired with a fixed HTTP status so clients can branch on the
// code without string-matching messages.
const (
	CodeTitleRequired   = "TITLE_REQUIRED"
	CodeInvalidStatus   = "INVALID_STATUS"
	CodeInvalidDate     = "INVALID_DATE"
	CodeNotFound        = "NOT_FOUND"
	CodeValidationError = "VALIDATION_ERROR"
	CodeServerError     = "SERVER_ERROR"
)

// MapError translates a store or domain error into its (status, code,
// message) triple. Anything unrecognized maps to a generic 500 so no
// internal detail leaks to clients.
func MapError(err error) (status int, code string, message string) {
	switch {
	case store.IsNotFoundError(err):
		return http.StatusNotFound, CodeNotFound, "task not found"
	case errors.Is(err, domain.ErrTitleRequired):
		return http.StatusUnprocessableEntity, CodeTitleRequired, "title must not be empty"
	case errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusUnprocessableEntity, CodeInvalidStatus, "status must be one of todo, done or archived"
	case errors.Is(err, domain.ErrInvalidDate):
		return http.StatusUnprocessableEntity, CodeInvalidDate, "date must be in YYYY-MM-DD format"
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, CodeValidationError, "invalid request payload"
	default:
		return http.StatusInternalServerError, CodeServerError, "internal server error"
	}
}
