package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/shimssung/moimlog-backend/internal/database"
	"github.com/shimssung/moimlog-backend/internal/model"
)

// MoimRepository handles moim data access
type MoimRepository struct {
	db database.Database
}

// NewMoimRepository creates a new moim repository
func NewMoimRepository(db database.Database) *MoimRepository {
	return &MoimRepository{db: db}
}

// CreateWithCreator creates a moim and its creator's admin roster row in one
// atomic batch. The moim starts with current_members = 1; the bootstrap row
// is the only membership that never passes through the capacity gate.
func (r *MoimRepository) CreateWithCreator(ctx context.Context, moim *model.Moim, creatorID string) (*model.Membership, error) {
	moimID := newRecordID("moim")
	membershipID := newRecordID("membership")

	batch := database.NewAtomicBatch()

	batch.Add(`
		CREATE type::record($moim_id) CONTENT {
			title: $title,
			description: $description,
			max_members: $max_members,
			current_members: 1,
			is_private: $is_private,
			is_active: true,
			created_by: type::record($created_by),
			created_on: time::now(),
			updated_on: time::now()
		}
	`, map[string]interface{}{
		"moim_id":     moimID,
		"title":       moim.Title,
		"description": moim.Description,
		"max_members": moim.MaxMembers,
		"is_private":  moim.IsPrivate,
		"created_by":  creatorID,
	})

	batch.Add(`
		CREATE type::record($membership_id) CONTENT {
			moim_id: type::record($moim_id),
			user_id: type::record($user_id),
			role: $role,
			status: $status,
			joined_at: time::now()
		}
	`, map[string]interface{}{
		"membership_id": membershipID,
		"moim_id":       moimID,
		"user_id":       creatorID,
		"role":          model.MemberRoleAdmin,
		"status":        model.MemberStatusActive,
	})

	if err := batch.Execute(ctx, r.db); err != nil {
		return nil, fmt.Errorf("failed to create moim: %w", err)
	}

	moim.ID = moimID
	moim.CurrentMembers = 1
	moim.IsActive = true
	moim.CreatedBy = creatorID

	created, err := r.GetByID(ctx, moimID)
	if err == nil && created != nil {
		moim.CreatedOn = created.CreatedOn
		moim.UpdatedOn = created.UpdatedOn
	}

	membership := &model.Membership{
		ID:       membershipID,
		MoimID:   moimID,
		UserID:   creatorID,
		Role:     model.MemberRoleAdmin,
		Status:   model.MemberStatusActive,
		JoinedAt: moim.CreatedOn,
	}
	return membership, nil
}

// GetByID retrieves a moim by ID. Returns (nil, nil) when it does not exist.
func (r *MoimRepository) GetByID(ctx context.Context, id string) (*model.Moim, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get moim: %w", err)
	}

	return parseMoim(result)
}

// GetByMember retrieves the moims a user belongs to, newest membership first
func (r *MoimRepository) GetByMember(ctx context.Context, userID string, page, limit int) ([]*model.Moim, error) {
	query := `
		SELECT * FROM moim WHERE id IN (
			SELECT VALUE moim_id FROM membership
			WHERE user_id = type::record($user_id)
			AND status = $status
		)
		ORDER BY created_on DESC
		LIMIT $limit START $start
	`
	vars := map[string]interface{}{
		"user_id": userID,
		"status":  model.MemberStatusActive,
		"limit":   limit,
		"start":   (page - 1) * limit,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to get moims for user: %w", err)
	}

	return parseMoims(result)
}

// SetActive flips the moim's active flag
func (r *MoimRepository) SetActive(ctx context.Context, id string, active bool) error {
	query := `UPDATE type::record($id) SET is_active = $active, updated_on = time::now()`
	vars := map[string]interface{}{
		"id":     id,
		"active": active,
	}
	return r.db.Execute(ctx, query, vars)
}

// Parsing helpers

func parseMoim(result interface{}) (*model.Moim, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	moim := &model.Moim{
		ID:             convertSurrealID(data["id"]),
		Title:          getString(data, "title"),
		Description:    getString(data, "description"),
		MaxMembers:     getInt(data, "max_members"),
		CurrentMembers: getInt(data, "current_members"),
		IsPrivate:      getBool(data, "is_private"),
		IsActive:       getBool(data, "is_active"),
		CreatedBy:      convertSurrealID(data["created_by"]),
	}

	if t := getTime(data, "created_on"); t != nil {
		moim.CreatedOn = *t
	}
	if t := getTime(data, "updated_on"); t != nil {
		moim.UpdatedOn = *t
	}

	return moim, nil
}

func parseMoims(result []interface{}) ([]*model.Moim, error) {
	moims := make([]*model.Moim, 0)

	for _, res := range result {
		if resp, ok := res.(map[string]interface{}); ok {
			if resultData, ok := resp["result"].([]interface{}); ok {
				for _, item := range resultData {
					moim, err := parseMoim(item)
					if err != nil {
						continue
					}
					moims = append(moims, moim)
				}
			}
		}
	}

	return moims, nil
}
