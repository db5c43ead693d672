package model

import "time"

// MemberRole represents a member's role within a moim
type MemberRole string

const (
	MemberRoleMember    MemberRole = "member"    // Default - can participate
	MemberRoleModerator MemberRole = "moderator" // Can process join requests
	MemberRoleAdmin     MemberRole = "admin"     // Full moim management
)

// IsAdmin returns true if the role has admin privileges
func (r MemberRole) IsAdmin() bool {
	return r == MemberRoleAdmin
}

// IsModerator returns true if the role has moderator privileges (includes admin)
func (r MemberRole) IsModerator() bool {
	return r == MemberRoleModerator || r == MemberRoleAdmin
}

// IsValid returns true if the role is a valid member role
func (r MemberRole) IsValid() bool {
	switch r {
	case MemberRoleMember, MemberRoleModerator, MemberRoleAdmin:
		return true
	default:
		return false
	}
}

// MemberStatus represents the state of a roster row
type MemberStatus string

const (
	MemberStatusActive  MemberStatus = "active"
	MemberStatusPending MemberStatus = "pending"
	MemberStatusBanned  MemberStatus = "banned"
)

// IsValid returns true if the status is a valid member status
func (s MemberStatus) IsValid() bool {
	switch s {
	case MemberStatusActive, MemberStatusPending, MemberStatusBanned:
		return true
	default:
		return false
	}
}

// Membership represents a user's relationship to a moim.
// At most one row exists per (moim, user) pair.
type Membership struct {
	ID         string       `json:"id"`
	MoimID     string       `json:"moim_id"`
	UserID     string       `json:"user_id"`
	Role       MemberRole   `json:"role"`
	Status     MemberStatus `json:"status"`
	JoinedAt   time.Time    `json:"joined_at"`
	ApprovedBy *string      `json:"approved_by,omitempty"`
	ApprovedAt *time.Time   `json:"approved_at,omitempty"`
}

// IsActive returns true if this is a confirmed, active membership
func (m *Membership) IsActive() bool {
	return m.Status == MemberStatusActive
}

// MemberProfile is a roster row joined with the user's public fields
type MemberProfile struct {
	UserID   string       `json:"user_id"`
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	Role     MemberRole   `json:"role"`
	Status   MemberStatus `json:"status"`
	JoinedAt time.Time    `json:"joined_at"`
}
