package handler

import (
	"errors"
	"net/http"

	"github.com/relayhq/taskboard/api/internal/model"
	"github.com/relayhq/taskboard/api/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling logic for all handlers, ensuring
// consistent HTTP status codes and error messages across the API.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	switch {
	// ===== Authentication / Authorization → 401 =====
	case errors.Is(err, service.ErrInvalidCredentials):
		return model.NewUnauthorizedError(err.Error())
	case errors.Is(err, service.ErrNotOwner),
		errors.Is(err, service.ErrNotMember),
		errors.Is(err, service.ErrNotParticipant),
		errors.Is(err, service.ErrNotProjectAdmin):
		return model.NewUnauthorizedError(err.Error())

	// ===== Not Found → 404 =====
	case errors.Is(err, service.ErrProjectNotFound):
		return model.NewNotFoundError("project")
	case errors.Is(err, service.ErrUserNotFound):
		return model.NewNotFoundError("user")
	case errors.Is(err, service.ErrColumnNotFound):
		return model.NewNotFoundError("column")
	case errors.Is(err, service.ErrTaskNotFound):
		return model.NewNotFoundError("task")
	case errors.Is(err, service.ErrMemberNotFound):
		return model.NewNotFoundError("project member")

	// ===== Conflicts → 409 =====
	case errors.Is(err, service.ErrEmailAlreadyExists),
		errors.Is(err, service.ErrAlreadyMember),
		errors.Is(err, service.ErrOwnerAsMember),
		errors.Is(err, service.ErrAlreadyAssigned):
		return model.NewConflictError(err.Error())

	// ===== Validation → 400 =====
	case errors.Is(err, service.ErrTitleRequired),
		errors.Is(err, service.ErrColumnNameEmpty),
		errors.Is(err, service.ErrTaskNameRequired),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrTaskListMismatch),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrUsernameRequired),
		errors.Is(err, service.ErrPasswordRequired),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrPasswordTooLong):
		return model.NewBadRequestError(err.Error())

	default:
		return model.NewInternalError("")
	}
}

// WriteServiceError maps a service error and writes it as a response
func WriteServiceError(w http.ResponseWriter, err error) {
	WriteError(w, MapServiceError(err))
}
