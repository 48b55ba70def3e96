// Package service implements the business logic layer for the Taskboard API.
//
// The service package contains all domain logic, validation rules, and
// orchestration of repository operations. Services are the primary
// abstraction between HTTP handlers and data access.
//
// # Service Pattern
//
// All services follow a consistent pattern:
//
//   - Constructor function (NewXxxService) accepts a config struct with repository dependencies
//   - Methods implement business operations with proper validation
//   - Errors are returned as sentinel errors or wrapped errors for context
//   - Context is passed through for cancellation and request-scoped values
//
// # Authorization
//
// Every project-scoped operation passes through Authorize (authz.go),
// which loads the project and derives the caller's standing from the
// document itself. Roles are never taken from request input; a client
// claiming to be an owner gets exactly as far as the owner array lets it.
//
// # Repository Interfaces
//
// Services define their own repository interfaces, allowing:
//
//   - Easy mocking for unit tests
//   - Decoupling from specific database implementations
//   - Clear contracts for data access requirements
//
// # Error Handling
//
// Services return domain-specific errors defined as package-level variables:
//
//	var (
//	    ErrProjectNotFound = errors.New("project not found")
//	    ErrNotParticipant  = errors.New("not a participant of this project")
//	)
//
// Handlers map these to HTTP status codes via handler.MapServiceError.
package service
