package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shimssung/moimlog-backend/internal/model"
	"github.com/shimssung/moimlog-backend/internal/repository"
)

// Recent activity entries included in stats
const recentActivityLimit = 5

// JoinRequestRepository defines the interface for join request storage
type JoinRequestRepository interface {
	Create(ctx context.Context, req *model.JoinRequest) error
	GetByID(ctx context.Context, id string) (*model.JoinRequest, error)
	GetDetailByID(ctx context.Context, id string) (*model.JoinRequestDetail, error)
	GetPendingByMoimAndUser(ctx context.Context, moimID, userID string) (*model.JoinRequest, error)
	GetLatestByMoimAndUser(ctx context.Context, moimID, userID string) (*model.JoinRequest, error)
	GetByMoim(ctx context.Context, moimID string, status *model.JoinRequestStatus, page, limit int) ([]*model.JoinRequestDetail, error)
	CountByStatus(ctx context.Context, moimID string) (map[model.JoinRequestStatus]int, error)
	GetRecentProcessed(ctx context.Context, moimID string, limit int) ([]*model.RecentActivity, error)
	Approve(ctx context.Context, req *model.JoinRequest, processedBy string) (*model.Membership, error)
	Reject(ctx context.Context, requestID, processedBy, reason string) (*model.JoinRequest, error)
}

// JoinRequestService handles the join workflow: immediate admission into
// public moims and the request/review cycle for private ones
type JoinRequestService struct {
	moimRepo       MoimRepository
	membershipRepo MembershipRepository
	requestRepo    JoinRequestRepository
	gate           *MoimGate
	notifier       Notifier
	logger         *slog.Logger
}

// JoinRequestServiceConfig holds configuration for the join request service
type JoinRequestServiceConfig struct {
	MoimRepo       MoimRepository
	MembershipRepo MembershipRepository
	RequestRepo    JoinRequestRepository
	Gate           *MoimGate
	Notifier       Notifier
	Logger         *slog.Logger
}

// NewJoinRequestService creates a new join request service
func NewJoinRequestService(cfg JoinRequestServiceConfig) *JoinRequestService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &JoinRequestService{
		moimRepo:       cfg.MoimRepo,
		membershipRepo: cfg.MembershipRepo,
		requestRepo:    cfg.RequestRepo,
		gate:           cfg.Gate,
		notifier:       cfg.Notifier,
		logger:         logger,
	}
}

// Join applies to join a moim. Public moims admit the caller immediately;
// private moims record a pending request for staff review. Only a pending
// request blocks a new application, so a rejected user may apply again.
// A full private moim still accepts requests: they stay pending until a
// seat opens and staff approve them.
func (s *JoinRequestService) Join(ctx context.Context, moimID, userID string, req *model.CreateJoinRequestRequest) (*model.JoinResult, error) {
	message := strings.TrimSpace(req.Message)
	if len(message) > model.MaxJoinMessageLength {
		return nil, ErrMessageTooLong
	}

	s.gate.Lock(moimID)
	defer s.gate.Unlock(moimID)

	moim, err := s.moimRepo.GetByID(ctx, moimID)
	if err != nil {
		return nil, err
	}
	if moim == nil {
		return nil, ErrMoimNotFound
	}
	if !moim.IsActive {
		return nil, ErrMoimInactive
	}

	membership, err := s.membershipRepo.GetByMoimAndUser(ctx, moimID, userID)
	if err != nil {
		return nil, err
	}
	if membership != nil {
		return nil, ErrAlreadyMoimMember
	}

	pending, err := s.requestRepo.GetPendingByMoimAndUser(ctx, moimID, userID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, ErrJoinRequestPending
	}

	if !moim.IsPrivate {
		if moim.IsFull() {
			return nil, ErrMoimFull
		}
		admitted := &model.Membership{
			MoimID: moimID,
			UserID: userID,
			Role:   model.MemberRoleMember,
			Status: model.MemberStatusActive,
		}
		if err := s.membershipRepo.AdmitMember(ctx, admitted); err != nil {
			if errors.Is(err, repository.ErrMoimAtCapacity) {
				return nil, ErrMoimFull
			}
			return nil, err
		}
		return &model.JoinResult{Joined: true, Membership: admitted}, nil
	}

	request := &model.JoinRequest{
		MoimID:  moimID,
		UserID:  userID,
		Message: message,
	}
	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	s.notify(ctx, "join request received", s.notifier.JoinRequestReceived, moim, request)

	return &model.JoinResult{Joined: false, Request: request}, nil
}

// Approve admits a pending request's user into the moim. Only admins and
// moderators of the moim may approve. The membership row, the capacity
// checked counter increment, and the request transition commit together.
func (s *JoinRequestService) Approve(ctx context.Context, moimID, requestID, reviewerID string) (*model.ApprovalResult, error) {
	moim, err := s.moimRepo.GetByID(ctx, moimID)
	if err != nil {
		return nil, err
	}
	if moim == nil {
		return nil, ErrMoimNotFound
	}

	if err := s.requireStaff(ctx, moimID, reviewerID); err != nil {
		return nil, err
	}

	s.gate.Lock(moimID)
	defer s.gate.Unlock(moimID)

	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrJoinRequestNotFound
	}
	if request.MoimID != moimID {
		return nil, ErrRequestNotForMoim
	}
	if !request.CanBeProcessed() {
		return nil, ErrJoinRequestProcessed
	}

	// Re-read under the gate so the capacity check sees committed admissions
	moim, err = s.moimRepo.GetByID(ctx, moimID)
	if err != nil {
		return nil, err
	}
	if moim == nil {
		return nil, ErrMoimNotFound
	}
	if moim.IsFull() {
		return nil, ErrMoimFull
	}

	existing, err := s.membershipRepo.GetByMoimAndUser(ctx, moimID, request.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyMoimMember
	}

	membership, err := s.requestRepo.Approve(ctx, request, reviewerID)
	if err != nil {
		if errors.Is(err, repository.ErrMoimAtCapacity) {
			return nil, ErrMoimFull
		}
		return nil, err
	}

	approved, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil || approved == nil {
		now := time.Now()
		approved = request
		approved.Status = model.JoinRequestApproved
		approved.ProcessedBy = &reviewerID
		approved.ProcessedAt = &now
	}

	s.notify(ctx, "join request approved", s.notifier.JoinRequestApproved, moim, approved)

	return &model.ApprovalResult{
		Request:    approved,
		Membership: membership,
	}, nil
}

// Reject declines a pending request with a reason. Only admins and
// moderators of the moim may reject. The member counter is untouched.
func (s *JoinRequestService) Reject(ctx context.Context, moimID, requestID, reviewerID string, req *model.RejectJoinRequestRequest) (*model.JoinRequest, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	if len(reason) > model.MaxRejectReasonLength {
		return nil, ErrReasonTooLong
	}

	moim, err := s.moimRepo.GetByID(ctx, moimID)
	if err != nil {
		return nil, err
	}
	if moim == nil {
		return nil, ErrMoimNotFound
	}

	if err := s.requireStaff(ctx, moimID, reviewerID); err != nil {
		return nil, err
	}

	s.gate.Lock(moimID)
	defer s.gate.Unlock(moimID)

	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrJoinRequestNotFound
	}
	if request.MoimID != moimID {
		return nil, ErrRequestNotForMoim
	}
	if !request.CanBeProcessed() {
		return nil, ErrJoinRequestProcessed
	}

	rejected, err := s.requestRepo.Reject(ctx, requestID, reviewerID, reason)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, "join request rejected", s.notifier.JoinRequestRejected, moim, rejected)

	return rejected, nil
}

// List retrieves a moim's join requests for staff review
func (s *JoinRequestService) List(ctx context.Context, moimID, reviewerID string, status *model.JoinRequestStatus, page, limit int) ([]*model.JoinRequestDetail, error) {
	if status != nil && !status.IsValid() {
		return nil, ErrJoinRequestNotFound
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	moim, err := s.moimRepo.GetByID(ctx, moimID)
	if err != nil {
		return nil, err
	}
	if moim == nil {
		return nil, ErrMoimNotFound
	}

	if err := s.requireStaff(ctx, moimID, reviewerID); err != nil {
		return nil, err
	}

	return s.requestRepo.GetByMoim(ctx, moimID, status, page, limit)
}

// Get retrieves a single join request for staff review, with the
// requester's profile summary resolved
func (s *JoinRequestService) Get(ctx context.Context, moimID, requestID, reviewerID string) (*model.JoinRequestDetail, error) {
	moim, err := s.moimRepo.GetByID(ctx, moimID)
	if err != nil {
		return nil, err
	}
	if moim == nil {
		return nil, ErrMoimNotFound
	}

	if err := s.requireStaff(ctx, moimID, reviewerID); err != nil {
		return nil, err
	}

	detail, err := s.requestRepo.GetDetailByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, ErrJoinRequestNotFound
	}
	if detail.MoimID != moimID {
		return nil, ErrRequestNotForMoim
	}

	return detail, nil
}

// Stats summarizes a moim's request history for staff
func (s *JoinRequestService) Stats(ctx context.Context, moimID, reviewerID string) (*model.JoinRequestStats, error) {
	moim, err := s.moimRepo.GetByID(ctx, moimID)
	if err != nil {
		return nil, err
	}
	if moim == nil {
		return nil, ErrMoimNotFound
	}

	if err := s.requireStaff(ctx, moimID, reviewerID); err != nil {
		return nil, err
	}

	counts, err := s.requestRepo.CountByStatus(ctx, moimID)
	if err != nil {
		return nil, err
	}

	recent, err := s.requestRepo.GetRecentProcessed(ctx, moimID, recentActivityLimit)
	if err != nil {
		return nil, err
	}

	stats := &model.JoinRequestStats{
		Pending:        counts[model.JoinRequestPending],
		Approved:       counts[model.JoinRequestApproved],
		Rejected:       counts[model.JoinRequestRejected],
		RecentActivity: make([]model.RecentActivity, 0, len(recent)),
	}
	stats.Total = stats.Pending + stats.Approved + stats.Rejected
	for _, entry := range recent {
		stats.RecentActivity = append(stats.RecentActivity, *entry)
	}

	return stats, nil
}

// MyStatus reports the caller's standing with a moim: active member,
// request in flight or decided, or no relationship at all
func (s *JoinRequestService) MyStatus(ctx context.Context, moimID, userID string) (*model.MyJoinStatus, error) {
	moim, err := s.moimRepo.GetByID(ctx, moimID)
	if err != nil {
		return nil, err
	}
	if moim == nil {
		return nil, ErrMoimNotFound
	}

	membership, err := s.membershipRepo.GetByMoimAndUser(ctx, moimID, userID)
	if err != nil {
		return nil, err
	}
	if membership != nil && membership.IsActive() {
		role := membership.Role
		return &model.MyJoinStatus{IsMember: true, Role: &role}, nil
	}

	request, err := s.requestRepo.GetLatestByMoimAndUser(ctx, moimID, userID)
	if err != nil {
		return nil, err
	}

	return &model.MyJoinStatus{Request: request}, nil
}

// requireStaff returns nil when the user holds an admin or moderator role
// in the moim
func (s *JoinRequestService) requireStaff(ctx context.Context, moimID, userID string) error {
	membership, err := s.membershipRepo.GetByMoimAndUser(ctx, moimID, userID)
	if err != nil {
		return err
	}
	if membership == nil || !membership.IsActive() {
		return ErrNotMoimMember
	}
	if !membership.Role.IsModerator() {
		return ErrNotMoimAdmin
	}
	return nil
}

func (s *JoinRequestService) notify(ctx context.Context, event string, fn func(context.Context, *model.Moim, *model.JoinRequest) error, moim *model.Moim, req *model.JoinRequest) {
	if s.notifier == nil {
		return
	}
	if err := fn(ctx, moim, req); err != nil {
		s.logger.WarnContext(ctx, "notification failed",
			"event", event,
			"moim_id", moim.ID,
			"request_id", req.ID,
			"error", err,
		)
	}
}
