package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/shimssung/moimlog-backend/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestMapServiceError_StatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"not moim admin", service.ErrNotMoimAdmin, http.StatusForbidden},
		{"not moim member", service.ErrNotMoimMember, http.StatusForbidden},
		{"creator cannot leave", service.ErrCreatorCannotLeave, http.StatusForbidden},
		{"user not found", service.ErrUserNotFound, http.StatusNotFound},
		{"moim not found", service.ErrMoimNotFound, http.StatusNotFound},
		{"moim inactive", service.ErrMoimInactive, http.StatusNotFound},
		{"request not found", service.ErrJoinRequestNotFound, http.StatusNotFound},
		{"request for another moim", service.ErrRequestNotForMoim, http.StatusNotFound},
		{"duplicate email", service.ErrEmailAlreadyExists, http.StatusConflict},
		{"already a member", service.ErrAlreadyMoimMember, http.StatusConflict},
		{"pending request exists", service.ErrJoinRequestPending, http.StatusConflict},
		{"request already processed", service.ErrJoinRequestProcessed, http.StatusConflict},
		{"moim full", service.ErrMoimFull, http.StatusConflict},
		{"invalid email", service.ErrInvalidEmail, http.StatusUnprocessableEntity},
		{"password too short", service.ErrPasswordTooShort, http.StatusUnprocessableEntity},
		{"name required", service.ErrNameRequired, http.StatusUnprocessableEntity},
		{"title required", service.ErrTitleRequired, http.StatusUnprocessableEntity},
		{"invalid capacity", service.ErrInvalidCapacity, http.StatusUnprocessableEntity},
		{"message too long", service.ErrMessageTooLong, http.StatusUnprocessableEntity},
		{"reason required", service.ErrReasonRequired, http.StatusUnprocessableEntity},
		{"unknown error", errors.New("database exploded"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem := MapServiceError(tt.err)
			assert.Equal(t, tt.wantStatus, problem.Status)
		})
	}
}

func TestMapServiceError_ValidationFieldNames(t *testing.T) {
	tests := []struct {
		err       error
		wantField string
	}{
		{service.ErrPasswordTooShort, "credentials"},
		{service.ErrNameTooLong, "name"},
		{service.ErrTitleTooLong, "title"},
		{service.ErrDescriptionTooLong, "description"},
		{service.ErrInvalidCapacity, "max_members"},
		{service.ErrMessageTooLong, "message"},
		{service.ErrReasonTooLong, "reason"},
	}

	for _, tt := range tests {
		t.Run(tt.wantField, func(t *testing.T) {
			problem := MapServiceError(tt.err)
			assert.Len(t, problem.Errors, 1)
			assert.Equal(t, tt.wantField, problem.Errors[0].Field)
		})
	}
}

func TestMapServiceError_DoesNotLeakInternalDetail(t *testing.T) {
	problem := MapServiceError(errors.New("dial tcp 10.0.0.5:8000: connect: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, problem.Status)
	assert.NotContains(t, problem.Detail, "10.0.0.5")
}

func TestMapServiceError_Nil(t *testing.T) {
	assert.Nil(t, MapServiceError(nil))
}
