package model

import "time"

// JoinRequestStatus represents the state of a join request.
// Requests start pending and transition exactly once to approved or rejected.
type JoinRequestStatus string

const (
	JoinRequestPending  JoinRequestStatus = "pending"
	JoinRequestApproved JoinRequestStatus = "approved"
	JoinRequestRejected JoinRequestStatus = "rejected"
)

// IsValid returns true if the status is a valid join request status
func (s JoinRequestStatus) IsValid() bool {
	switch s {
	case JoinRequestPending, JoinRequestApproved, JoinRequestRejected:
		return true
	default:
		return false
	}
}

// IsTerminal returns true once the request has been processed
func (s JoinRequestStatus) IsTerminal() bool {
	return s == JoinRequestApproved || s == JoinRequestRejected
}

// JoinRequest records a user's intent to join a private moim.
// Rows are never deleted; processed requests remain as an audit trail.
type JoinRequest struct {
	ID           string            `json:"id"`
	MoimID       string            `json:"moim_id"`
	UserID       string            `json:"user_id"`
	Message      string            `json:"message,omitempty"`
	Status       JoinRequestStatus `json:"status"`
	RequestedAt  time.Time         `json:"requested_at"`
	ProcessedAt  *time.Time        `json:"processed_at,omitempty"`
	ProcessedBy  *string           `json:"processed_by,omitempty"`
	RejectReason *string           `json:"reject_reason,omitempty"`
}

// CanBeProcessed returns true while the request is still pending.
// Approve and reject refuse to touch a request once this is false.
func (j *JoinRequest) CanBeProcessed() bool {
	return j.Status == JoinRequestPending
}

// IsPending returns true if the request is awaiting a decision
func (j *JoinRequest) IsPending() bool {
	return j.Status == JoinRequestPending
}

// Business constraints
const (
	MaxJoinMessageLength  = 500
	MaxRejectReasonLength = 500
)

// CreateJoinRequestRequest is the body of a request-to-join call
type CreateJoinRequestRequest struct {
	Message string `json:"message,omitempty"`
}

// Validate checks the join request body
func (r *CreateJoinRequestRequest) Validate() []FieldError {
	var errors []FieldError
	if len(r.Message) > MaxJoinMessageLength {
		errors = append(errors, FieldError{Field: "message", Message: "message must be 500 characters or less"})
	}
	return errors
}

// RejectJoinRequestRequest is the body of a reject call
type RejectJoinRequestRequest struct {
	Reason string `json:"reason"`
}

// Validate checks the reject body
func (r *RejectJoinRequestRequest) Validate() []FieldError {
	var errors []FieldError
	if r.Reason == "" {
		errors = append(errors, FieldError{Field: "reason", Message: "reason is required"})
	} else if len(r.Reason) > MaxRejectReasonLength {
		errors = append(errors, FieldError{Field: "reason", Message: "reason must be 500 characters or less"})
	}
	return errors
}

// JoinRequestDetail is a join request joined with the requester's profile
type JoinRequestDetail struct {
	JoinRequest
	Requester *RequesterSummary `json:"requester,omitempty"`
}

// RequesterSummary is the slice of a user shown to moim staff
type RequesterSummary struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// JoinResult is the outcome of a request-to-join call. Exactly one of
// Request and Membership is set: public moims admit immediately and never
// create a request row.
type JoinResult struct {
	Joined     bool         `json:"joined"`
	Request    *JoinRequest `json:"join_request,omitempty"`
	Membership *Membership  `json:"membership,omitempty"`
}

// ApprovalResult is the outcome of approving a join request
type ApprovalResult struct {
	Request    *JoinRequest `json:"join_request"`
	Membership *Membership  `json:"membership"`
}

// MyJoinStatus reports where the caller stands with a moim: an active
// membership, a request in some state, or neither
type MyJoinStatus struct {
	IsMember bool         `json:"is_member"`
	Role     *MemberRole  `json:"role,omitempty"`
	Request  *JoinRequest `json:"join_request,omitempty"`
}

// JoinRequestStats summarizes the request history of a moim
type JoinRequestStats struct {
	Total          int              `json:"total"`
	Pending        int              `json:"pending"`
	Approved       int              `json:"approved"`
	Rejected       int              `json:"rejected"`
	RecentActivity []RecentActivity `json:"recent_activity"`
}

// RecentActivity is one entry in the processed-request feed
type RecentActivity struct {
	RequestID   string            `json:"request_id"`
	UserName    string            `json:"user_name"`
	Outcome     JoinRequestStatus `json:"outcome"`
	ProcessedAt time.Time         `json:"processed_at"`
}
