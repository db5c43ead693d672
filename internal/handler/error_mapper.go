package handler

import (
	"errors"

	"github.com/shimssung/moimlog-backend/internal/model"
	"github.com/shimssung/moimlog-backend/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling logic for all handlers, ensuring consistent
// HTTP status codes and error messages across the API.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	switch {
	// ===== Authentication Errors → 401 =====
	case errors.Is(err, service.ErrInvalidCredentials):
		return model.NewUnauthorizedError(err.Error())

	// ===== Authorization Errors → 403 =====
	case errors.Is(err, service.ErrNotMoimAdmin),
		errors.Is(err, service.ErrNotMoimMember),
		errors.Is(err, service.ErrCreatorCannotLeave):
		return model.NewForbiddenError(err.Error())

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrUserNotFound):
		return model.NewNotFoundError("user")
	case errors.Is(err, service.ErrMoimNotFound),
		errors.Is(err, service.ErrMoimInactive):
		return model.NewNotFoundError("moim")
	case errors.Is(err, service.ErrJoinRequestNotFound),
		errors.Is(err, service.ErrRequestNotForMoim):
		return model.NewNotFoundError("join request")

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrEmailAlreadyExists),
		errors.Is(err, service.ErrAlreadyMoimMember),
		errors.Is(err, service.ErrJoinRequestPending),
		errors.Is(err, service.ErrJoinRequestProcessed),
		errors.Is(err, service.ErrMoimFull):
		return model.NewConflictError(err.Error())

	// ===== Validation Errors → 422 =====
	case errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrPasswordRequired),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrPasswordTooLong):
		return model.NewValidationError([]model.FieldError{{Field: "credentials", Message: err.Error()}})
	case errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrNameTooLong):
		return model.NewValidationError([]model.FieldError{{Field: "name", Message: err.Error()}})
	case errors.Is(err, service.ErrTitleRequired),
		errors.Is(err, service.ErrTitleTooLong):
		return model.NewValidationError([]model.FieldError{{Field: "title", Message: err.Error()}})
	case errors.Is(err, service.ErrDescriptionTooLong):
		return model.NewValidationError([]model.FieldError{{Field: "description", Message: err.Error()}})
	case errors.Is(err, service.ErrInvalidCapacity):
		return model.NewValidationError([]model.FieldError{{Field: "max_members", Message: err.Error()}})
	case errors.Is(err, service.ErrMessageTooLong):
		return model.NewValidationError([]model.FieldError{{Field: "message", Message: err.Error()}})
	case errors.Is(err, service.ErrReasonRequired),
		errors.Is(err, service.ErrReasonTooLong):
		return model.NewValidationError([]model.FieldError{{Field: "reason", Message: err.Error()}})

	// ===== Default → 500 =====
	default:
		return model.NewInternalError("an unexpected error occurred")
	}
}
