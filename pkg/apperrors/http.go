package apperrors

import (
	"errors"
	"net/http"
)

// HTTPStatus maps an error to the response status handlers should use.
// Anything unrecognized is a 500.
func HTTPStatus(err error) int {
	var (
		notFound     *NotFoundError
		validation   *ValidationError
		insufficient *InsufficientStockError
		transition   *InvalidTransitionError
		duplicate    *DuplicateError
		conflict     *ConflictError
		forbidden    *ForbiddenError
	)

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &insufficient),
		errors.As(err, &transition),
		errors.As(err, &duplicate),
		errors.As(err, &conflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
