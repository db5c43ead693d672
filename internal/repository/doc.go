// Package repository implements the data access layer for the MoimLog API.
//
// The repository package contains all database operations using SurrealDB.
// Each repository struct handles the persistence of one domain entity.
//
// # Repository Pattern
//
// All repositories follow a consistent pattern:
//
//   - Constructor function (NewXxxRepository) accepts a database connection
//   - Methods implement specific data operations (Create, GetByID, Update, etc.)
//   - SurrealQL queries are used for all database interactions
//   - Results are parsed and mapped to model structs
//   - Lookups return (nil, nil) when the record does not exist
//
// # Atomic Admissions
//
// Roster mutations that must keep a moim's member counter consistent with
// its membership rows run as atomic batches (database.AtomicBatch). The
// admission batches open with a store-side capacity check that throws when
// the moim is full, cancelling the whole transaction. Callers serialize
// these check-then-act sequences per moim at the service layer.
//
// # Query Patterns
//
// Common query patterns used:
//
//   - Parameterized queries with $variable syntax for security
//   - type::record() for safe ID handling
//   - time::now() for automatic timestamps
//   - Record link traversal (user_id.name) to resolve profiles in one query
//
// # Example Usage
//
//	repo := NewMoimRepository(db)
//	moim, err := repo.GetByID(ctx, "moim:abc123")
//	if err != nil {
//	    return err
//	}
//	if moim == nil {
//	    // Handle not found
//	}
package repository
