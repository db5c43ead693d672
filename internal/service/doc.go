// Package service implements the business logic layer for the MoimLog API.
//
// Services orchestrate repositories and enforce the rules of the join
// workflow: capacity limits, role checks, and the join request state
// machine. Handlers translate HTTP to service calls; repositories only
// move data.
//
// # Errors
//
// All service errors are sentinel values defined in errors.go. Handlers
// map them to HTTP status codes in one place, so a service method never
// constructs a response shape.
//
// # Concurrency
//
// Operations that admit or remove members run under MoimGate, a per-moim
// keyed mutex. The gate serializes the capacity check with the admission
// that follows it; the store's atomic batches guarantee the mutation
// itself commits or rolls back as a unit.
//
// # Interfaces
//
// Each service declares the repository interfaces it consumes. Concrete
// repositories from the repository package satisfy them; tests substitute
// in-memory fakes.
package service
