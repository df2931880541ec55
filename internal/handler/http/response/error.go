package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/apperror"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Field level validation errors carry their details
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
		return
	}

	switch appErr.Kind {
	case apperror.KindNotFound:
		NotFound(w, appErr.Message)
	case apperror.KindConflict:
		Conflict(w, appErr.Message)
	case apperror.KindValidation:
		UnprocessableEntity(w, "VALIDATION_ERROR", appErr.Message)
	case apperror.KindPolicy:
		UnprocessableEntity(w, "POLICY_VIOLATION", appErr.Message)
	case apperror.KindForbidden:
		Forbidden(w, appErr.Message)
	case apperror.KindUnauthorized:
		Unauthorized(w, appErr.Message)
	default:
		slog.Error("unknown error kind", "kind", appErr.Kind, "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
