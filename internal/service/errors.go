package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Authentication Errors =====
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameRequired   = errors.New("username is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong    = errors.New("password must be at most 128 characters")
	ErrInvalidEmail       = errors.New("invalid email format")
)

// ===== Authorization Errors =====
var (
	ErrNotOwner        = errors.New("only the project owner may perform this action")
	ErrNotMember       = errors.New("only an invited member may perform this action")
	ErrNotParticipant  = errors.New("not a participant of this project")
	ErrNotProjectAdmin = errors.New("not authorized to manage project members")
)

// ===== Project Errors =====
var (
	ErrProjectNotFound  = errors.New("project not found")
	ErrTitleRequired    = errors.New("project title is required")
	ErrAlreadyMember    = errors.New("user is already a project member")
	ErrOwnerAsMember    = errors.New("the owner cannot be added as a member")
	ErrMemberNotFound   = errors.New("user is not a project member")
	ErrInvalidRole      = errors.New("invalid project role")
	ErrColumnNotFound   = errors.New("column not found")
	ErrColumnNameEmpty  = errors.New("column name is required")
	ErrTaskNotFound     = errors.New("task not found")
	ErrTaskNameRequired = errors.New("task name is required")
)

// ===== Task Assignment / Ordering Errors =====
var (
	ErrAlreadyAssigned  = errors.New("user is already assigned to this task")
	ErrTaskListMismatch = errors.New("task list does not match the column's tasks")
)
