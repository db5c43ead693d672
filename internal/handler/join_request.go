package handler

import (
	"net/http"

	"github.com/shimssung/moimlog-backend/internal/middleware"
	"github.com/shimssung/moimlog-backend/internal/model"
	"github.com/shimssung/moimlog-backend/internal/service"
)

// JoinRequestHandler handles join workflow HTTP requests
type JoinRequestHandler struct {
	svc *service.JoinRequestService
}

// NewJoinRequestHandler creates a new join request handler
func NewJoinRequestHandler(svc *service.JoinRequestService) *JoinRequestHandler {
	return &JoinRequestHandler{svc: svc}
}

// Join handles POST /v1/moims/{moimId}/join-requests - apply to join.
// Public moims admit immediately (200 with the membership); private moims
// create a pending request (202 with the request).
func (h *JoinRequestHandler) Join(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	moimID := r.PathValue("moimId")
	if moimID == "" {
		WriteError(w, model.NewBadRequestError("moim ID required"))
		return
	}

	req := model.CreateJoinRequestRequest{}
	if r.ContentLength > 0 {
		if err := DecodeJSON(r, &req); err != nil {
			WriteError(w, model.NewBadRequestError("invalid request body"))
			return
		}
	}
	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	result, err := h.svc.Join(ctx, moimID, userID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	status := http.StatusOK
	if !result.Joined {
		status = http.StatusAccepted
	}
	WriteData(w, status, result, nil)
}

// List handles GET /v1/moims/{moimId}/join-requests - list requests for review
func (h *JoinRequestHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	moimID := r.PathValue("moimId")
	if moimID == "" {
		WriteError(w, model.NewBadRequestError("moim ID required"))
		return
	}

	var status *model.JoinRequestStatus
	if v := r.URL.Query().Get("status"); v != "" {
		s := model.JoinRequestStatus(v)
		if !s.IsValid() {
			WriteError(w, model.NewBadRequestError("invalid status filter"))
			return
		}
		status = &s
	}

	page, limit := pageParams(r)

	requests, err := h.svc.List(ctx, moimID, userID, status, page, limit)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteCollection(w, http.StatusOK, requests, &PaginationInfo{
		HasMore: len(requests) == limit,
	}, nil)
}

// Get handles GET /v1/moims/{moimId}/join-requests/{requestId}
func (h *JoinRequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	moimID := r.PathValue("moimId")
	requestID := r.PathValue("requestId")
	if moimID == "" || requestID == "" {
		WriteError(w, model.NewBadRequestError("moim ID and request ID required"))
		return
	}

	request, err := h.svc.Get(ctx, moimID, requestID, userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, request, nil)
}

// Approve handles POST /v1/moims/{moimId}/join-requests/{requestId}/approve
func (h *JoinRequestHandler) Approve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	moimID := r.PathValue("moimId")
	requestID := r.PathValue("requestId")
	if moimID == "" || requestID == "" {
		WriteError(w, model.NewBadRequestError("moim ID and request ID required"))
		return
	}

	result, err := h.svc.Approve(ctx, moimID, requestID, userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, result, nil)
}

// Reject handles POST /v1/moims/{moimId}/join-requests/{requestId}/reject
func (h *JoinRequestHandler) Reject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	moimID := r.PathValue("moimId")
	requestID := r.PathValue("requestId")
	if moimID == "" || requestID == "" {
		WriteError(w, model.NewBadRequestError("moim ID and request ID required"))
		return
	}

	var req model.RejectJoinRequestRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	request, err := h.svc.Reject(ctx, moimID, requestID, userID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, request, nil)
}

// Stats handles GET /v1/moims/{moimId}/join-requests/stats
func (h *JoinRequestHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	moimID := r.PathValue("moimId")
	if moimID == "" {
		WriteError(w, model.NewBadRequestError("moim ID required"))
		return
	}

	stats, err := h.svc.Stats(ctx, moimID, userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, stats, nil)
}

// MyStatus handles GET /v1/moims/{moimId}/join-requests/my-status
func (h *JoinRequestHandler) MyStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	moimID := r.PathValue("moimId")
	if moimID == "" {
		WriteError(w, model.NewBadRequestError("moim ID required"))
		return
	}

	status, err := h.svc.MyStatus(ctx, moimID, userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, status, nil)
}
