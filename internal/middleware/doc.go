// Package middleware provides HTTP middleware for the MoimLog API.
//
// The middleware package contains reusable middleware components for
// authentication, authorization, rate limiting, and request processing.
//
// # Available Middleware
//
// Core middleware components:
//
//   - Auth: JWT token validation and user extraction
//   - MoimAccess: active membership verification for moim-scoped routes
//   - RateLimit: request rate limiting per user/IP
//   - RequestID, Logger, Recovery, CORS, Compress: request plumbing
//
// # Authentication
//
// The auth middleware validates bearer tokens and puts the claims in the
// request context:
//
//	handler = middleware.Chain(mux, middleware.Auth(authService))
//
// After authentication, handlers can access user info:
//
//	userID := middleware.GetUserID(r.Context())
//
// # Context Values
//
// Middleware sets context values accessible via helper functions:
//
//   - GetUserID(ctx): the authenticated user ID
//   - GetMoimID(ctx): the moim ID from the path, set by MoimAccess
//   - GetMembership(ctx): the caller's membership, set by MoimAccess
//   - GetRequestID(ctx): the unique request identifier
package middleware
