package httpx

import (
	"errors"
	"net/http"

	"github.com/lumenpress/lumen/internal/shared"
)

// RespondError maps domain errors to HTTP responses. Every denial keeps
// its specific reason in the problem detail; nothing is collapsed to a
// bare status code.
func RespondError(w http.ResponseWriter, err error) {
	var (
		denied     *shared.PermissionDenied
		validation *shared.ValidationError
		notFound   *shared.NotFound
		invariant  *shared.InvariantViolation
	)
	switch {
	case errors.As(err, &denied):
		Problem(w, http.StatusForbidden, "Forbidden", denied.Reason)
	case errors.As(err, &validation):
		JSON(w, http.StatusBadRequest, ProblemDetail{
			Title:  "Validation Failed",
			Status: http.StatusBadRequest,
			Detail: validation.Message,
			Field:  validation.Field,
		})
	case errors.As(err, &notFound):
		Problem(w, http.StatusNotFound, "Not Found", notFound.Error())
	case errors.As(err, &invariant):
		Problem(w, http.StatusConflict, "Conflict", invariant.Message)
	case errors.Is(err, shared.ErrInvalidCredentials):
		Problem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
