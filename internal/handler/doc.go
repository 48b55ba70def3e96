// Package handler implements the HTTP transport layer for the Taskboard API.
//
// Handlers decode requests, call into the service layer, and encode
// responses. No business rules live here: authorization, validation and
// document mutation all happen in internal/service.
//
// # Handler Pattern
//
// Each handler struct wraps one service:
//
//   - Constructor function (NewXxxHandler) accepts the service
//   - Methods are http.HandlerFunc-shaped and registered per route with
//     method+path patterns on the ServeMux
//   - Path parameters are read with r.PathValue
//   - Errors are mapped centrally by MapServiceError
//
// # Responses
//
// Successful responses are wrapped in a data envelope:
//
//	{"data": {...}}
//
// Errors are RFC 9457 Problem Details with application/problem+json.
package handler
