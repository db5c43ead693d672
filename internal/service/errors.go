package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Authentication Errors =====
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong    = errors.New("password must be at most 128 characters")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrNameRequired       = errors.New("name is required")
	ErrNameTooLong        = errors.New("name exceeds maximum length")
)

// ===== Moim Errors =====
var (
	ErrMoimNotFound       = errors.New("moim not found")
	ErrMoimInactive       = errors.New("moim is not active")
	ErrTitleRequired      = errors.New("moim title is required")
	ErrTitleTooLong       = errors.New("moim title exceeds maximum length")
	ErrDescriptionTooLong = errors.New("moim description exceeds maximum length")
	ErrInvalidCapacity    = errors.New("max members must be between 2 and 1000")
	ErrNotMoimMember      = errors.New("not a member of this moim")
	ErrNotMoimAdmin       = errors.New("not authorized to perform this action")
	ErrAlreadyMoimMember  = errors.New("already a member of this moim")
	ErrMoimFull           = errors.New("moim has reached maximum member limit")
	ErrCreatorCannotLeave = errors.New("creator cannot leave the moim")
)

// ===== Join Request Errors =====
var (
	ErrJoinRequestNotFound  = errors.New("join request not found")
	ErrJoinRequestPending   = errors.New("a join request is already pending")
	ErrJoinRequestProcessed = errors.New("join request already processed")
	ErrRequestNotForMoim    = errors.New("join request does not belong to this moim")
	ErrMessageTooLong       = errors.New("join message exceeds maximum length")
	ErrReasonRequired       = errors.New("rejection reason is required")
	ErrReasonTooLong        = errors.New("rejection reason exceeds maximum length")
)
