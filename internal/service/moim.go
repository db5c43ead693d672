package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shimssung/moimlog-backend/internal/model"
)

// MoimRepository defines the interface for moim storage
type MoimRepository interface {
	CreateWithCreator(ctx context.Context, moim *model.Moim, creatorID string) (*model.Membership, error)
	GetByID(ctx context.Context, id string) (*model.Moim, error)
	GetByMember(ctx context.Context, userID string, page, limit int) ([]*model.Moim, error)
	SetActive(ctx context.Context, id string, active bool) error
}

// MembershipRepository defines the interface for roster storage
type MembershipRepository interface {
	AdmitMember(ctx context.Context, membership *model.Membership) error
	RemoveMember(ctx context.Context, moimID, userID string) error
	GetByMoimAndUser(ctx context.Context, moimID, userID string) (*model.Membership, error)
	GetProfiles(ctx context.Context, moimID string) ([]*model.MemberProfile, error)
}

// MoimService handles moim lifecycle and roster operations
type MoimService struct {
	moimRepo       MoimRepository
	membershipRepo MembershipRepository
	gate           *MoimGate
	notifier       Notifier
	logger         *slog.Logger
}

// MoimServiceConfig holds configuration for the moim service
type MoimServiceConfig struct {
	MoimRepo       MoimRepository
	MembershipRepo MembershipRepository
	Gate           *MoimGate
	Notifier       Notifier
	Logger         *slog.Logger
}

// NewMoimService creates a new moim service
func NewMoimService(cfg MoimServiceConfig) *MoimService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &MoimService{
		moimRepo:       cfg.MoimRepo,
		membershipRepo: cfg.MembershipRepo,
		gate:           cfg.Gate,
		notifier:       cfg.Notifier,
		logger:         logger,
	}
}

// CreateMoim creates a moim with the creator bootstrapped as its admin
func (s *MoimService) CreateMoim(ctx context.Context, userID string, req *model.CreateMoimRequest) (*model.Moim, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if len(title) > model.MaxMoimTitleLength {
		return nil, ErrTitleTooLong
	}
	if len(req.Description) > model.MaxMoimDescLength {
		return nil, ErrDescriptionTooLong
	}
	if req.MaxMembers < model.MinMoimCapacity || req.MaxMembers > model.MaxMoimCapacity {
		return nil, ErrInvalidCapacity
	}

	moim := &model.Moim{
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		MaxMembers:  req.MaxMembers,
		IsPrivate:   req.IsPrivate,
	}

	if _, err := s.moimRepo.CreateWithCreator(ctx, moim, userID); err != nil {
		return nil, err
	}

	return moim, nil
}

// GetMoim retrieves a moim together with the caller's standing in it
func (s *MoimService) GetMoim(ctx context.Context, moimID, userID string) (*model.MoimDetail, error) {
	moim, err := s.moimRepo.GetByID(ctx, moimID)
	if err != nil {
		return nil, err
	}
	if moim == nil {
		return nil, ErrMoimNotFound
	}

	detail := &model.MoimDetail{Moim: *moim}

	membership, err := s.membershipRepo.GetByMoimAndUser(ctx, moimID, userID)
	if err != nil {
		return nil, err
	}
	if membership != nil {
		role := membership.Role
		status := string(membership.Status)
		detail.MyRole = &role
		detail.MyStatus = &status
	}

	return detail, nil
}

// GetMyMoims retrieves the moims the caller belongs to
func (s *MoimService) GetMyMoims(ctx context.Context, userID string, page, limit int) ([]*model.Moim, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.moimRepo.GetByMember(ctx, userID, page, limit)
}

// GetRoster retrieves the member list of a moim. Only members may see it.
func (s *MoimService) GetRoster(ctx context.Context, moimID, userID string) (*model.MoimRoster, error) {
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
	if membership == nil || !membership.IsActive() {
		return nil, ErrNotMoimMember
	}

	profiles, err := s.membershipRepo.GetProfiles(ctx, moimID)
	if err != nil {
		return nil, err
	}

	stats := model.RosterStats{Total: len(profiles)}
	for _, p := range profiles {
		switch p.Role {
		case model.MemberRoleAdmin:
			stats.Admins++
		case model.MemberRoleModerator:
			stats.Moderators++
		default:
			stats.Members++
		}
	}

	return &model.MoimRoster{
		Members:    profiles,
		Statistics: stats,
	}, nil
}

// Leave removes the caller from a moim's roster. The creator cannot leave;
// the counter decrement and the roster delete commit as one batch.
func (s *MoimService) Leave(ctx context.Context, moimID, userID string) error {
	s.gate.Lock(moimID)
	defer s.gate.Unlock(moimID)

	moim, err := s.moimRepo.GetByID(ctx, moimID)
	if err != nil {
		return err
	}
	if moim == nil {
		return ErrMoimNotFound
	}
	if moim.CreatedBy == userID {
		return ErrCreatorCannotLeave
	}

	membership, err := s.membershipRepo.GetByMoimAndUser(ctx, moimID, userID)
	if err != nil {
		return err
	}
	if membership == nil || !membership.IsActive() {
		return ErrNotMoimMember
	}

	if err := s.membershipRepo.RemoveMember(ctx, moimID, userID); err != nil {
		return err
	}

	if s.notifier != nil {
		if err := s.notifier.MemberLeft(ctx, moim, userID); err != nil {
			s.logger.WarnContext(ctx, "notification failed",
				"event", "member left",
				"moim_id", moim.ID,
				"error", err,
			)
		}
	}

	return nil
}

// Deactivate retires a moim. Only the moim's admin may do it; the roster
// stays but join applications against an inactive moim are refused.
func (s *MoimService) Deactivate(ctx context.Context, moimID, userID string) error {
	moim, err := s.moimRepo.GetByID(ctx, moimID)
	if err != nil {
		return err
	}
	if moim == nil {
		return ErrMoimNotFound
	}
	if !moim.IsActive {
		return ErrMoimInactive
	}

	membership, err := s.membershipRepo.GetByMoimAndUser(ctx, moimID, userID)
	if err != nil {
		return err
	}
	if membership == nil || !membership.IsActive() {
		return ErrNotMoimMember
	}
	if !membership.Role.IsAdmin() {
		return ErrNotMoimAdmin
	}

	return s.moimRepo.SetActive(ctx, moimID, false)
}

// GetMembership retrieves the caller's membership in a moim, or nil
func (s *MoimService) GetMembership(ctx context.Context, moimID, userID string) (*model.Membership, error) {
	return s.membershipRepo.GetByMoimAndUser(ctx, moimID, userID)
}
