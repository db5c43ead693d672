// Package handler implements the HTTP layer for the MoimLog API.
//
// Handlers decode requests, resolve the caller from the request context,
// delegate to services, and encode responses. No business rules live here.
//
// # Responses
//
// Successful responses wrap their payload in DataResponse or
// CollectionResponse. Errors use RFC 9457 Problem Details, produced either
// directly (malformed input, missing auth) or by MapServiceError, which
// translates service sentinels to HTTP status codes in one place.
//
// # Routing
//
// Routes are registered on the standard library ServeMux in cmd/server;
// handlers read path parameters with r.PathValue.
package handler
