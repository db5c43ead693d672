// Package model defines domain entities and data structures for the moimlog API.
//
// The model package contains all struct definitions for domain objects,
// request/response types, and error definitions. Models are used across all
// layers of the application.
//
// # Domain Entities
//
// Core domain entities include:
//
//   - User: Application user with authentication credentials
//   - Moim: Group with a fixed capacity and a public/private visibility flag
//   - Membership: Roster row linking a user to a moim with a role
//   - JoinRequest: Pending/approved/rejected record of a user's intent to join
//
// # JSON Serialization
//
// All models use json struct tags for API serialization:
//
//	type Moim struct {
//	    ID         string `json:"id"`
//	    Title      string `json:"title"`
//	    MaxMembers int    `json:"max_members"`
//	}
//
// # Validation Constants
//
// The package defines validation constants:
//
//	const (
//	    MaxMoimTitleLength   = 100
//	    MaxJoinMessageLength = 500
//	)
//
// # Error Types
//
// RFC 9457 Problem Details errors are defined in errors.go:
//
//	type ProblemDetails struct {
//	    Type    string    `json:"type"`
//	    Title   string    `json:"title"`
//	    Status  int       `json:"status"`
//	    Detail  string    `json:"detail"`
//	}
package model
