package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shimssung/moimlog-backend/internal/model"
	"github.com/shimssung/moimlog-backend/internal/repository"
)

// Mock implementations shared by the moim and join request service tests.
// The membership mock enforces the capacity check that the store's atomic
// batches provide in production, so over-admission surfaces as
// repository.ErrMoimAtCapacity here too.

type mockMoimRepo struct {
	mu     sync.Mutex
	moims  map[string]*model.Moim
	seq    int
	getErr error
}

func newMockMoimRepo() *mockMoimRepo {
	return &mockMoimRepo{moims: make(map[string]*model.Moim)}
}

func (m *mockMoimRepo) CreateWithCreator(ctx context.Context, moim *model.Moim, creatorID string) (*model.Membership, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	now := time.Now()
	moim.ID = fmt.Sprintf("moim:%d", m.seq)
	moim.CurrentMembers = 1
	moim.IsActive = true
	moim.CreatedBy = creatorID
	moim.CreatedOn = now
	moim.UpdatedOn = now
	stored := *moim
	m.moims[moim.ID] = &stored
	return &model.Membership{
		ID:       "membership:" + moim.ID,
		MoimID:   moim.ID,
		UserID:   creatorID,
		Role:     model.MemberRoleAdmin,
		Status:   model.MemberStatusActive,
		JoinedAt: now,
	}, nil
}

func (m *mockMoimRepo) GetByID(ctx context.Context, id string) (*model.Moim, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	moim, ok := m.moims[id]
	if !ok {
		return nil, nil
	}
	copied := *moim
	return &copied, nil
}

func (m *mockMoimRepo) GetByMember(ctx context.Context, userID string, page, limit int) ([]*model.Moim, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*model.Moim
	for _, moim := range m.moims {
		copied := *moim
		result = append(result, &copied)
	}
	return result, nil
}

func (m *mockMoimRepo) SetActive(ctx context.Context, id string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if moim, ok := m.moims[id]; ok {
		moim.IsActive = active
	}
	return nil
}

func (m *mockMoimRepo) adjustMembers(id string, delta int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if moim, ok := m.moims[id]; ok {
		moim.CurrentMembers += delta
	}
}

type mockMembershipRepo struct {
	mu          sync.Mutex
	moims       *mockMoimRepo
	memberships map[string]*model.Membership
	userNames   map[string]string
	seq         int
	admitErr    error
	getErr      error
}

func newMockMembershipRepo(moims *mockMoimRepo) *mockMembershipRepo {
	return &mockMembershipRepo{
		moims:       moims,
		memberships: make(map[string]*model.Membership),
		userNames:   make(map[string]string),
	}
}

func membershipKey(moimID, userID string) string {
	return moimID + "|" + userID
}

func (m *mockMembershipRepo) AdmitMember(ctx context.Context, membership *model.Membership) error {
	if m.admitErr != nil {
		return m.admitErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	moim, err := m.moims.GetByID(ctx, membership.MoimID)
	if err != nil {
		return err
	}
	if moim == nil {
		return errors.New("moim not found")
	}
	if moim.CurrentMembers >= moim.MaxMembers {
		return repository.ErrMoimAtCapacity
	}

	m.seq++
	membership.ID = fmt.Sprintf("membership:%d", m.seq)
	if membership.Status == "" {
		membership.Status = model.MemberStatusActive
	}
	membership.JoinedAt = time.Now()
	stored := *membership
	m.memberships[membershipKey(membership.MoimID, membership.UserID)] = &stored
	m.moims.adjustMembers(membership.MoimID, 1)
	return nil
}

func (m *mockMembershipRepo) RemoveMember(ctx context.Context, moimID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := membershipKey(moimID, userID)
	if _, ok := m.memberships[key]; !ok {
		return nil
	}
	delete(m.memberships, key)
	m.moims.adjustMembers(moimID, -1)
	return nil
}

func (m *mockMembershipRepo) GetByMoimAndUser(ctx context.Context, moimID, userID string) (*model.Membership, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	membership, ok := m.memberships[membershipKey(moimID, userID)]
	if !ok {
		return nil, nil
	}
	copied := *membership
	return &copied, nil
}

func (m *mockMembershipRepo) GetProfiles(ctx context.Context, moimID string) ([]*model.MemberProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var profiles []*model.MemberProfile
	for _, membership := range m.memberships {
		if membership.MoimID != moimID || !membership.IsActive() {
			continue
		}
		profiles = append(profiles, &model.MemberProfile{
			UserID:   membership.UserID,
			Name:     m.userNames[membership.UserID],
			Email:    membership.UserID + "@example.com",
			Role:     membership.Role,
			Status:   membership.Status,
			JoinedAt: membership.JoinedAt,
		})
	}
	rank := map[model.MemberRole]int{
		model.MemberRoleAdmin:     0,
		model.MemberRoleModerator: 1,
		model.MemberRoleMember:    2,
	}
	sort.SliceStable(profiles, func(i, j int) bool {
		if rank[profiles[i].Role] != rank[profiles[j].Role] {
			return rank[profiles[i].Role] < rank[profiles[j].Role]
		}
		return profiles[i].JoinedAt.Before(profiles[j].JoinedAt)
	})
	return profiles, nil
}

type mockNotifier struct {
	mu     sync.Mutex
	events []string
	err    error
}

func (n *mockNotifier) record(event string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return n.err
}

func (n *mockNotifier) JoinRequestReceived(ctx context.Context, moim *model.Moim, req *model.JoinRequest) error {
	return n.record("received")
}

func (n *mockNotifier) JoinRequestApproved(ctx context.Context, moim *model.Moim, req *model.JoinRequest) error {
	return n.record("approved")
}

func (n *mockNotifier) JoinRequestRejected(ctx context.Context, moim *model.Moim, req *model.JoinRequest) error {
	return n.record("rejected")
}

func (n *mockNotifier) MemberLeft(ctx context.Context, moim *model.Moim, userID string) error {
	return n.record("left")
}

func (n *mockNotifier) recorded() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.events...)
}

func setupMoimService(t *testing.T) (*MoimService, *mockMoimRepo, *mockMembershipRepo, *mockNotifier) {
	t.Helper()

	moimRepo := newMockMoimRepo()
	membershipRepo := newMockMembershipRepo(moimRepo)
	notifier := &mockNotifier{}

	svc := NewMoimService(MoimServiceConfig{
		MoimRepo:       moimRepo,
		MembershipRepo: membershipRepo,
		Gate:           NewMoimGate(),
		Notifier:       notifier,
	})

	return svc, moimRepo, membershipRepo, notifier
}

func seedMoim(t *testing.T, moims *mockMoimRepo, memberships *mockMembershipRepo, maxMembers int, private bool) *model.Moim {
	t.Helper()

	moim := &model.Moim{
		Title:      "Board Game Night",
		MaxMembers: maxMembers,
		IsPrivate:  private,
	}
	admin, err := moims.CreateWithCreator(context.Background(), moim, "user:owner")
	if err != nil {
		t.Fatalf("seeding moim failed: %v", err)
	}
	memberships.mu.Lock()
	stored := *admin
	memberships.memberships[membershipKey(moim.ID, "user:owner")] = &stored
	memberships.mu.Unlock()
	return moim
}

func seedMember(t *testing.T, memberships *mockMembershipRepo, moimID, userID string, role model.MemberRole) {
	t.Helper()

	err := memberships.AdmitMember(context.Background(), &model.Membership{
		MoimID: moimID,
		UserID: userID,
		Role:   role,
		Status: model.MemberStatusActive,
	})
	if err != nil {
		t.Fatalf("seeding member %s failed: %v", userID, err)
	}
}

// Tests

func TestMoimService_CreateMoim_Success(t *testing.T) {
	svc, moimRepo, _, _ := setupMoimService(t)
	ctx := context.Background()

	moim, err := svc.CreateMoim(ctx, "user:creator", &model.CreateMoimRequest{
		Title:       "  Book Club  ",
		Description: "Monthly fiction reads",
		MaxMembers:  10,
		IsPrivate:   true,
	})
	if err != nil {
		t.Fatalf("CreateMoim failed: %v", err)
	}
	if moim.Title != "Book Club" {
		t.Errorf("expected trimmed title, got %q", moim.Title)
	}
	if moim.CurrentMembers != 1 {
		t.Errorf("expected creator counted as first member, got %d", moim.CurrentMembers)
	}
	if moim.CreatedBy != "user:creator" {
		t.Errorf("expected created_by user:creator, got %s", moim.CreatedBy)
	}

	stored, _ := moimRepo.GetByID(ctx, moim.ID)
	if stored == nil {
		t.Fatal("moim was not stored")
	}
	if !stored.IsActive {
		t.Error("expected new moim to be active")
	}
}

func TestMoimService_CreateMoim_Validation(t *testing.T) {
	svc, _, _, _ := setupMoimService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     *model.CreateMoimRequest
		wantErr error
	}{
		{"empty title", &model.CreateMoimRequest{Title: "", MaxMembers: 10}, ErrTitleRequired},
		{"whitespace title", &model.CreateMoimRequest{Title: "   ", MaxMembers: 10}, ErrTitleRequired},
		{"title too long", &model.CreateMoimRequest{Title: strings.Repeat("a", model.MaxMoimTitleLength+1), MaxMembers: 10}, ErrTitleTooLong},
		{"description too long", &model.CreateMoimRequest{Title: "ok", Description: strings.Repeat("a", model.MaxMoimDescLength+1), MaxMembers: 10}, ErrDescriptionTooLong},
		{"capacity too small", &model.CreateMoimRequest{Title: "ok", MaxMembers: 1}, ErrInvalidCapacity},
		{"capacity too large", &model.CreateMoimRequest{Title: "ok", MaxMembers: model.MaxMoimCapacity + 1}, ErrInvalidCapacity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateMoim(ctx, "user:creator", tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestMoimService_GetMoim(t *testing.T) {
	svc, moimRepo, membershipRepo, _ := setupMoimService(t)
	ctx := context.Background()

	moim := seedMoim(t, moimRepo, membershipRepo, 10, false)

	detail, err := svc.GetMoim(ctx, moim.ID, "user:owner")
	if err != nil {
		t.Fatalf("GetMoim failed: %v", err)
	}
	if detail.MyRole == nil || *detail.MyRole != model.MemberRoleAdmin {
		t.Error("expected creator to see admin role")
	}

	detail, err = svc.GetMoim(ctx, moim.ID, "user:stranger")
	if err != nil {
		t.Fatalf("GetMoim failed: %v", err)
	}
	if detail.MyRole != nil {
		t.Error("expected no role for a non-member")
	}

	_, err = svc.GetMoim(ctx, "moim:missing", "user:owner")
	if !errors.Is(err, ErrMoimNotFound) {
		t.Errorf("expected ErrMoimNotFound, got %v", err)
	}
}

func TestMoimService_GetRoster(t *testing.T) {
	svc, moimRepo, membershipRepo, _ := setupMoimService(t)
	ctx := context.Background()

	moim := seedMoim(t, moimRepo, membershipRepo, 10, false)
	seedMember(t, membershipRepo, moim.ID, "user:mod", model.MemberRoleModerator)
	seedMember(t, membershipRepo, moim.ID, "user:alice", model.MemberRoleMember)
	seedMember(t, membershipRepo, moim.ID, "user:bob", model.MemberRoleMember)

	roster, err := svc.GetRoster(ctx, moim.ID, "user:alice")
	if err != nil {
		t.Fatalf("GetRoster failed: %v", err)
	}
	if roster.Statistics.Total != 4 {
		t.Errorf("expected 4 members, got %d", roster.Statistics.Total)
	}
	if roster.Statistics.Admins != 1 || roster.Statistics.Moderators != 1 || roster.Statistics.Members != 2 {
		t.Errorf("unexpected breakdown: %+v", roster.Statistics)
	}
	if roster.Members[0].Role != model.MemberRoleAdmin {
		t.Errorf("expected admin first, got %s", roster.Members[0].Role)
	}
	if roster.Members[1].Role != model.MemberRoleModerator {
		t.Errorf("expected moderator second, got %s", roster.Members[1].Role)
	}
}

func TestMoimService_GetRoster_NonMember(t *testing.T) {
	svc, moimRepo, membershipRepo, _ := setupMoimService(t)
	ctx := context.Background()

	moim := seedMoim(t, moimRepo, membershipRepo, 10, false)

	_, err := svc.GetRoster(ctx, moim.ID, "user:stranger")
	if !errors.Is(err, ErrNotMoimMember) {
		t.Errorf("expected ErrNotMoimMember, got %v", err)
	}
}

func TestMoimService_Leave(t *testing.T) {
	svc, moimRepo, membershipRepo, notifier := setupMoimService(t)
	ctx := context.Background()

	moim := seedMoim(t, moimRepo, membershipRepo, 10, false)
	seedMember(t, membershipRepo, moim.ID, "user:alice", model.MemberRoleMember)

	if err := svc.Leave(ctx, moim.ID, "user:alice"); err != nil {
		t.Fatalf("Leave failed: %v", err)
	}

	membership, _ := membershipRepo.GetByMoimAndUser(ctx, moim.ID, "user:alice")
	if membership != nil {
		t.Error("expected membership to be removed")
	}

	updated, _ := moimRepo.GetByID(ctx, moim.ID)
	if updated.CurrentMembers != 1 {
		t.Errorf("expected counter back to 1, got %d", updated.CurrentMembers)
	}

	events := notifier.recorded()
	if len(events) != 1 || events[0] != "left" {
		t.Errorf("expected a single left notification, got %v", events)
	}
}

func TestMoimService_Leave_CreatorCannotLeave(t *testing.T) {
	svc, moimRepo, membershipRepo, _ := setupMoimService(t)
	ctx := context.Background()

	moim := seedMoim(t, moimRepo, membershipRepo, 10, false)

	err := svc.Leave(ctx, moim.ID, "user:owner")
	if !errors.Is(err, ErrCreatorCannotLeave) {
		t.Errorf("expected ErrCreatorCannotLeave, got %v", err)
	}

	updated, _ := moimRepo.GetByID(ctx, moim.ID)
	if updated.CurrentMembers != 1 {
		t.Errorf("expected counter unchanged, got %d", updated.CurrentMembers)
	}
}

func TestMoimService_Leave_NotMember(t *testing.T) {
	svc, moimRepo, membershipRepo, _ := setupMoimService(t)
	ctx := context.Background()

	moim := seedMoim(t, moimRepo, membershipRepo, 10, false)

	err := svc.Leave(ctx, moim.ID, "user:stranger")
	if !errors.Is(err, ErrNotMoimMember) {
		t.Errorf("expected ErrNotMoimMember, got %v", err)
	}
}

func TestMoimService_Leave_MoimNotFound(t *testing.T) {
	svc, _, _, _ := setupMoimService(t)
	ctx := context.Background()

	err := svc.Leave(ctx, "moim:missing", "user:alice")
	if !errors.Is(err, ErrMoimNotFound) {
		t.Errorf("expected ErrMoimNotFound, got %v", err)
	}
}

func TestMoimService_Leave_InactiveMembership(t *testing.T) {
	svc, moimRepo, membershipRepo, _ := setupMoimService(t)
	ctx := context.Background()

	moim := seedMoim(t, moimRepo, membershipRepo, 10, false)

	// A banned row never incremented the counter, so it must not be able
	// to decrement it either
	membershipRepo.mu.Lock()
	membershipRepo.memberships[membershipKey(moim.ID, "user:banned")] = &model.Membership{
		ID:     "membership:banned",
		MoimID: moim.ID,
		UserID: "user:banned",
		Role:   model.MemberRoleMember,
		Status: model.MemberStatusBanned,
	}
	membershipRepo.mu.Unlock()

	err := svc.Leave(ctx, moim.ID, "user:banned")
	if !errors.Is(err, ErrNotMoimMember) {
		t.Errorf("expected ErrNotMoimMember, got %v", err)
	}

	updated, _ := moimRepo.GetByID(ctx, moim.ID)
	if updated.CurrentMembers != 1 {
		t.Errorf("expected counter unchanged at 1, got %d", updated.CurrentMembers)
	}
}

func TestMoimService_Deactivate(t *testing.T) {
	svc, moimRepo, membershipRepo, _ := setupMoimService(t)
	ctx := context.Background()

	moim := seedMoim(t, moimRepo, membershipRepo, 10, false)

	if err := svc.Deactivate(ctx, moim.ID, "user:owner"); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}

	updated, _ := moimRepo.GetByID(ctx, moim.ID)
	if updated.IsActive {
		t.Error("expected moim to be inactive")
	}

	err := svc.Deactivate(ctx, moim.ID, "user:owner")
	if !errors.Is(err, ErrMoimInactive) {
		t.Errorf("expected ErrMoimInactive on a second deactivation, got %v", err)
	}
}

func TestMoimService_Deactivate_Authorization(t *testing.T) {
	svc, moimRepo, membershipRepo, _ := setupMoimService(t)
	ctx := context.Background()

	moim := seedMoim(t, moimRepo, membershipRepo, 10, false)
	seedMember(t, membershipRepo, moim.ID, "user:mod", model.MemberRoleModerator)
	seedMember(t, membershipRepo, moim.ID, "user:alice", model.MemberRoleMember)

	tests := []struct {
		name    string
		userID  string
		wantErr error
	}{
		{"non-member", "user:stranger", ErrNotMoimMember},
		{"plain member", "user:alice", ErrNotMoimAdmin},
		{"moderator", "user:mod", ErrNotMoimAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Deactivate(ctx, moim.ID, tt.userID)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	updated, _ := moimRepo.GetByID(ctx, moim.ID)
	if !updated.IsActive {
		t.Error("expected moim to stay active")
	}
}

func TestMoimService_Deactivate_MoimNotFound(t *testing.T) {
	svc, _, _, _ := setupMoimService(t)
	ctx := context.Background()

	err := svc.Deactivate(ctx, "moim:missing", "user:owner")
	if !errors.Is(err, ErrMoimNotFound) {
		t.Errorf("expected ErrMoimNotFound, got %v", err)
	}
}
