package handler

import (
	"net/http"
	"strconv"

	"github.com/shimssung/moimlog-backend/internal/middleware"
	"github.com/shimssung/moimlog-backend/internal/model"
	"github.com/shimssung/moimlog-backend/internal/service"
)

// MoimHandler handles moim HTTP requests
type MoimHandler struct {
	svc *service.MoimService
}

// NewMoimHandler creates a new moim handler
func NewMoimHandler(svc *service.MoimService) *MoimHandler {
	return &MoimHandler{svc: svc}
}

// Create handles POST /v1/moims - create a new moim
func (h *MoimHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.CreateMoimRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	moim, err := h.svc.CreateMoim(ctx, userID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, moim, nil)
}

// Get handles GET /v1/moims/{moimId} - get moim details
func (h *MoimHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	detail, err := h.svc.GetMoim(ctx, moimID, userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, detail, nil)
}

// ListMine handles GET /v1/moims/me - list the caller's moims
func (h *MoimHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	page, limit := pageParams(r)

	moims, err := h.svc.GetMyMoims(ctx, userID, page, limit)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteCollection(w, http.StatusOK, moims, &PaginationInfo{
		HasMore: len(moims) == limit,
	}, nil)
}

// GetMembers handles GET /v1/moims/{moimId}/members - list the roster
func (h *MoimHandler) GetMembers(w http.ResponseWriter, r *http.Request) {
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

	roster, err := h.svc.GetRoster(ctx, moimID, userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, roster, nil)
}

// Leave handles DELETE /v1/moims/{moimId}/members/me - leave a moim
func (h *MoimHandler) Leave(w http.ResponseWriter, r *http.Request) {
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

	if err := h.svc.Leave(ctx, moimID, userID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

// Deactivate handles DELETE /v1/moims/{moimId} - retire a moim
func (h *MoimHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
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

	if err := h.svc.Deactivate(ctx, moimID, userID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

// pageParams parses page and limit query parameters with defaults
func pageParams(r *http.Request) (int, int) {
	page := 1
	limit := 20

	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	return page, limit
}
