// Package model defines domain entities and data structures for the Taskboard API.
//
// The model package contains all struct definitions for domain objects,
// request/response types, and error definitions. Models are used across all
// layers of the application.
//
// # Domain Entities
//
// Core domain entities include:
//
//   - User: application user with authentication credentials
//   - Project: the root aggregate, persisted as one document
//   - Column: board column embedded in a project
//   - Task: card embedded in a column
//
// A Project owns its columns and tasks exclusively; they are never persisted
// on their own. Column and task identifiers are UUIDs generated at creation,
// since embedded documents carry no record id of their own.
//
// # Error Types
//
// RFC 9457 Problem Details errors are defined in errors.go:
//
//	type ProblemDetails struct {
//	    Type    string `json:"type"`
//	    Title   string `json:"title"`
//	    Status  int    `json:"status"`
//	    Detail  string `json:"detail"`
//	}
package model
