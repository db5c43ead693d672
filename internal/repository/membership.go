package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/shimssung/moimlog-backend/internal/database"
	"github.com/shimssung/moimlog-backend/internal/model"
)

// ErrMoimAtCapacity is returned when the capacity guard rejects an admission
var ErrMoimAtCapacity = errors.New("moim at capacity")

// MembershipRepository handles moim roster data access
type MembershipRepository struct {
	db database.Database
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(db database.Database) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// capacityGuard is the store-side admission check. The THROW cancels the
// whole transaction when the moim is already full, so the membership row
// and the counter increment commit together or not at all.
const capacityGuard = `
	LET $cap = (SELECT current_members, max_members FROM ONLY type::record($moim_id));
	IF $cap.current_members >= $cap.max_members { THROW "moim at capacity" };
	UPDATE type::record($moim_id) SET current_members += 1, updated_on = time::now();
`

// AdmitMember creates an active membership and increments the moim's member
// counter in one atomic batch guarded by the store-side capacity check
func (r *MembershipRepository) AdmitMember(ctx context.Context, membership *model.Membership) error {
	membershipID := newRecordID("membership")

	batch := database.NewAtomicBatch()

	batch.Add(capacityGuard, map[string]interface{}{
		"moim_id": membership.MoimID,
	})

	vars := map[string]interface{}{
		"membership_id": membershipID,
		"moim_id":       membership.MoimID,
		"user_id":       membership.UserID,
		"role":          membership.Role,
		"status":        membership.Status,
	}
	fields := `
			moim_id: type::record($moim_id),
			user_id: type::record($user_id),
			role: $role,
			status: $status,
			joined_at: time::now()`

	if membership.ApprovedBy != nil {
		vars["approved_by"] = *membership.ApprovedBy
		fields += `,
			approved_by: type::record($approved_by),
			approved_at: time::now()`
	}

	batch.Add(fmt.Sprintf(`
		CREATE type::record($membership_id) CONTENT {%s
		}
	`, fields), vars)

	if err := batch.Execute(ctx, r.db); err != nil {
		if isCapacityError(err) {
			return ErrMoimAtCapacity
		}
		return fmt.Errorf("failed to admit member: %w", err)
	}

	membership.ID = membershipID
	return nil
}

// RemoveMember deletes a membership and decrements the moim's member counter
// in one atomic batch
func (r *MembershipRepository) RemoveMember(ctx context.Context, moimID, userID string) error {
	batch := database.NewAtomicBatch()

	batch.Add(`
		DELETE membership
		WHERE moim_id = type::record($moim_id)
		AND user_id = type::record($user_id)
	`, map[string]interface{}{
		"moim_id": moimID,
		"user_id": userID,
	})

	batch.Add(`
		UPDATE type::record($moim_id)
		SET current_members -= 1, updated_on = time::now()
		WHERE current_members > 0
	`, map[string]interface{}{
		"moim_id": moimID,
	})

	if err := batch.Execute(ctx, r.db); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}

// GetByMoimAndUser retrieves a user's membership in a moim.
// Returns (nil, nil) when the user is not on the roster.
func (r *MembershipRepository) GetByMoimAndUser(ctx context.Context, moimID, userID string) (*model.Membership, error) {
	query := `
		SELECT * FROM membership
		WHERE moim_id = type::record($moim_id)
		AND user_id = type::record($user_id)
		LIMIT 1
	`
	vars := map[string]interface{}{
		"moim_id": moimID,
		"user_id": userID,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	return parseMembership(result)
}

// GetProfiles retrieves the active roster of a moim with user names and
// emails resolved, admins first, then moderators, then members by join time
func (r *MembershipRepository) GetProfiles(ctx context.Context, moimID string) ([]*model.MemberProfile, error) {
	query := `
		SELECT *, user_id.name AS user_name, user_id.email AS user_email
		FROM membership
		WHERE moim_id = type::record($moim_id)
		AND status = $status
		ORDER BY joined_at ASC
	`
	vars := map[string]interface{}{
		"moim_id": moimID,
		"status":  model.MemberStatusActive,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to get roster: %w", err)
	}

	profiles := parseMemberProfiles(result)
	sort.SliceStable(profiles, func(i, j int) bool {
		return roleRank(profiles[i].Role) < roleRank(profiles[j].Role)
	})
	return profiles, nil
}

func roleRank(role model.MemberRole) int {
	switch role {
	case model.MemberRoleAdmin:
		return 0
	case model.MemberRoleModerator:
		return 1
	default:
		return 2
	}
}

// Parsing helpers

func parseMembership(result interface{}) (*model.Membership, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}
	return membershipFromData(data), nil
}

func membershipFromData(data map[string]interface{}) *model.Membership {
	m := &model.Membership{
		ID:     convertSurrealID(data["id"]),
		MoimID: convertSurrealID(data["moim_id"]),
		UserID: convertSurrealID(data["user_id"]),
		Role:   model.MemberRole(getString(data, "role")),
		Status: model.MemberStatus(getString(data, "status")),
	}

	if t := getTime(data, "joined_at"); t != nil {
		m.JoinedAt = *t
	}
	m.ApprovedAt = getTime(data, "approved_at")
	if id := convertSurrealID(data["approved_by"]); id != "" {
		m.ApprovedBy = &id
	}

	return m
}

func parseMemberProfiles(result []interface{}) []*model.MemberProfile {
	profiles := make([]*model.MemberProfile, 0)

	for _, res := range result {
		if resp, ok := res.(map[string]interface{}); ok {
			if resultData, ok := resp["result"].([]interface{}); ok {
				for _, item := range resultData {
					data, ok := item.(map[string]interface{})
					if !ok {
						continue
					}
					m := membershipFromData(data)
					profiles = append(profiles, &model.MemberProfile{
						UserID:   m.UserID,
						Name:     getString(data, "user_name"),
						Email:    getString(data, "user_email"),
						Role:     m.Role,
						Status:   m.Status,
						JoinedAt: m.JoinedAt,
					})
				}
			}
		}
	}

	return profiles
}
