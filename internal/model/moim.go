package model

import "time"

// Moim represents a group that users can create and join.
// The member counter is owned by the join workflow: every roster mutation
// goes through an atomic batch that keeps CurrentMembers equal to the number
// of active memberships.
type Moim struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	MaxMembers     int       `json:"max_members"`
	CurrentMembers int       `json:"current_members"`
	IsPrivate      bool      `json:"is_private"`
	IsActive       bool      `json:"is_active"`
	CreatedBy      string    `json:"created_by"`
	CreatedOn      time.Time `json:"created_on"`
	UpdatedOn      time.Time `json:"updated_on"`
}

// IsFull returns true if the moim has no room left
func (m *Moim) IsFull() bool {
	return m.CurrentMembers >= m.MaxMembers
}

// CanJoin returns true if the moim is active and has room
func (m *Moim) CanJoin() bool {
	return m.IsActive && !m.IsFull()
}

// Business constraints
const (
	MinMoimCapacity = 2
	MaxMoimCapacity = 1000

	MaxMoimTitleLength = 100
	MaxMoimDescLength  = 2000
)

// CreateMoimRequest represents a request to create a moim
type CreateMoimRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	MaxMembers  int    `json:"max_members"`
	IsPrivate   bool   `json:"is_private"`
}

// Validate checks the create request fields
func (r *CreateMoimRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Title == "" {
		errors = append(errors, FieldError{Field: "title", Message: "title is required"})
	} else if len(r.Title) > MaxMoimTitleLength {
		errors = append(errors, FieldError{Field: "title", Message: "title must be 100 characters or less"})
	}
	if len(r.Description) > MaxMoimDescLength {
		errors = append(errors, FieldError{Field: "description", Message: "description must be 2000 characters or less"})
	}
	if r.MaxMembers < MinMoimCapacity || r.MaxMembers > MaxMoimCapacity {
		errors = append(errors, FieldError{Field: "max_members", Message: "max_members must be between 2 and 1000"})
	}

	return errors
}

// MoimDetail is a moim together with the caller's standing in it
type MoimDetail struct {
	Moim     Moim        `json:"moim"`
	MyRole   *MemberRole `json:"my_role,omitempty"`
	MyStatus *string     `json:"my_status,omitempty"`
}

// MoimRoster is the full member list of a moim with per-role counts
type MoimRoster struct {
	Members    []*MemberProfile `json:"members"`
	Statistics RosterStats      `json:"statistics"`
}

// RosterStats summarizes the roster composition
type RosterStats struct {
	Total      int `json:"total"`
	Admins     int `json:"admins"`
	Moderators int `json:"moderators"`
	Members    int `json:"members"`
}
