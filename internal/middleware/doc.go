// Package middleware provides HTTP middleware for the Taskboard API.
//
// The middleware package contains reusable middleware components for
// authentication, rate limiting, and request processing.
//
// # Available Middleware
//
// Core middleware components:
//
//   - RequestID: unique request identifier generation and propagation
//   - Logger: structured request logging via slog
//   - Recovery: panic recovery with a Problem Details 500 response
//   - CORS: cross-origin request handling
//   - Compress: gzip response compression
//   - Auth / AdminAuth: JWT token validation and identity extraction
//   - RateLimit: token bucket rate limiting per user/IP
//   - Idempotency: replay protection for mutations via Idempotency-Key
//
// # Authentication
//
// Auth validates the Bearer token and stores the caller's identity in the
// request context. It establishes only WHO the caller is; what they may do
// to a given project is decided in the service layer from the project
// document itself.
//
//	handler := middleware.Chain(mux, middleware.Auth(jwtService))
//
// After authentication, handlers can access user info:
//
//	userID := middleware.GetUserID(r.Context())
//
// # Context Values
//
// Middleware sets context values accessible via helper functions:
//
//   - GetUserID(ctx): authenticated user ID
//   - GetUserEmail(ctx): authenticated user email
//   - GetClaims(ctx): full JWT claims
//   - GetRequestID(ctx): unique request identifier
package middleware
