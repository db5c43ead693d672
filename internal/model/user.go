package model

import "time"

// User represents a user account
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Hash      string    `json:"-"` // Never expose password hash
	IsActive  bool      `json:"is_active"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// Summary returns the slice of the user shown to other members
func (u *User) Summary() *RequesterSummary {
	return &RequesterSummary{
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
	}
}

// TokenClaims represents extracted JWT claims
type TokenClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
}

// Validation constants for signup
const (
	MaxUserNameLength = 50
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

// SignupRequest is the body of a signup call
type SignupRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginRequest is the body of a login call
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the issued token and the authenticated user
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	User        *User  `json:"user"`
}
