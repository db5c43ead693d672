package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/shimssung/moimlog-backend/internal/database"
	"github.com/shimssung/moimlog-backend/internal/model"
)

// JoinRequestRepository handles join request data access
type JoinRequestRepository struct {
	db database.Database
}

// NewJoinRequestRepository creates a new join request repository
func NewJoinRequestRepository(db database.Database) *JoinRequestRepository {
	return &JoinRequestRepository{db: db}
}

// Create creates a pending join request
func (r *JoinRequestRepository) Create(ctx context.Context, req *model.JoinRequest) error {
	query := `
		CREATE join_request CONTENT {
			moim_id: type::record($moim_id),
			user_id: type::record($user_id),
			message: $message,
			status: $status,
			requested_at: time::now()
		}
	`

	vars := map[string]interface{}{
		"moim_id": req.MoimID,
		"user_id": req.UserID,
		"message": req.Message,
		"status":  model.JoinRequestPending,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return fmt.Errorf("failed to create join request: %w", err)
	}

	results, ok := extractQueryResults(result)
	if !ok || len(results) == 0 {
		return errors.New("no result returned")
	}

	created, err := parseJoinRequest(results[0])
	if err != nil {
		return err
	}

	req.ID = created.ID
	req.Status = created.Status
	req.RequestedAt = created.RequestedAt
	return nil
}

// GetByID retrieves a join request by ID. Returns (nil, nil) when it does not exist.
func (r *JoinRequestRepository) GetByID(ctx context.Context, id string) (*model.JoinRequest, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get join request: %w", err)
	}

	return parseJoinRequest(result)
}

// GetDetailByID retrieves a join request with the requester's profile summary
// resolved. Returns (nil, nil) when it does not exist.
func (r *JoinRequestRepository) GetDetailByID(ctx context.Context, id string) (*model.JoinRequestDetail, error) {
	query := `
		SELECT *, user_id.name AS requester_name, user_id.email AS requester_email
		FROM type::record($id)
	`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get join request detail: %w", err)
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	req := joinRequestFromData(data)
	return &model.JoinRequestDetail{
		JoinRequest: *req,
		Requester: &model.RequesterSummary{
			UserID: req.UserID,
			Name:   getString(data, "requester_name"),
			Email:  getString(data, "requester_email"),
		},
	}, nil
}

// GetPendingByMoimAndUser retrieves the user's pending request for a moim.
// Returns (nil, nil) when no pending request exists.
func (r *JoinRequestRepository) GetPendingByMoimAndUser(ctx context.Context, moimID, userID string) (*model.JoinRequest, error) {
	query := `
		SELECT * FROM join_request
		WHERE moim_id = type::record($moim_id)
		AND user_id = type::record($user_id)
		AND status = $status
		LIMIT 1
	`
	vars := map[string]interface{}{
		"moim_id": moimID,
		"user_id": userID,
		"status":  model.JoinRequestPending,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pending join request: %w", err)
	}

	return parseJoinRequest(result)
}

// GetLatestByMoimAndUser retrieves the user's most recent request for a moim
// regardless of outcome. Returns (nil, nil) when the user never applied.
func (r *JoinRequestRepository) GetLatestByMoimAndUser(ctx context.Context, moimID, userID string) (*model.JoinRequest, error) {
	query := `
		SELECT * FROM join_request
		WHERE moim_id = type::record($moim_id)
		AND user_id = type::record($user_id)
		ORDER BY requested_at DESC
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
		return nil, fmt.Errorf("failed to get latest join request: %w", err)
	}

	return parseJoinRequest(result)
}

// GetByMoim retrieves join requests for a moim with requester profiles
// resolved, optionally filtered by status. Pending requests come back oldest
// first so reviewers work the queue in arrival order; processed requests come
// back most recently decided first.
func (r *JoinRequestRepository) GetByMoim(ctx context.Context, moimID string, status *model.JoinRequestStatus, page, limit int) ([]*model.JoinRequestDetail, error) {
	order := "ORDER BY processed_at DESC"
	if status != nil && *status == model.JoinRequestPending {
		order = "ORDER BY requested_at ASC"
	} else if status == nil {
		order = "ORDER BY requested_at DESC"
	}

	query := `
		SELECT *, user_id.name AS requester_name, user_id.email AS requester_email
		FROM join_request
		WHERE moim_id = type::record($moim_id)
	`
	vars := map[string]interface{}{
		"moim_id": moimID,
		"limit":   limit,
		"start":   (page - 1) * limit,
	}

	if status != nil {
		query += ` AND status = $status`
		vars["status"] = *status
	}

	query += `
		` + order + `
		LIMIT $limit START $start
	`

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to get join requests: %w", err)
	}

	return parseJoinRequestDetails(result), nil
}

// CountByStatus counts a moim's join requests grouped by status
func (r *JoinRequestRepository) CountByStatus(ctx context.Context, moimID string) (map[model.JoinRequestStatus]int, error) {
	query := `
		SELECT status, count() FROM join_request
		WHERE moim_id = type::record($moim_id)
		GROUP BY status
	`
	vars := map[string]interface{}{"moim_id": moimID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to count join requests: %w", err)
	}

	counts := make(map[model.JoinRequestStatus]int)
	if results, ok := extractQueryResults(result); ok {
		for _, item := range results {
			if data, ok := item.(map[string]interface{}); ok {
				status := model.JoinRequestStatus(getString(data, "status"))
				counts[status] = getInt(data, "count")
			}
		}
	}

	return counts, nil
}

// GetRecentProcessed retrieves the most recently decided requests for a moim
func (r *JoinRequestRepository) GetRecentProcessed(ctx context.Context, moimID string, limit int) ([]*model.RecentActivity, error) {
	query := `
		SELECT *, user_id.name AS requester_name
		FROM join_request
		WHERE moim_id = type::record($moim_id)
		AND status != $pending
		ORDER BY processed_at DESC
		LIMIT $limit
	`
	vars := map[string]interface{}{
		"moim_id": moimID,
		"pending": model.JoinRequestPending,
		"limit":   limit,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent activity: %w", err)
	}

	activity := make([]*model.RecentActivity, 0, limit)
	if results, ok := extractQueryResults(result); ok {
		for _, item := range results {
			data, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			entry := &model.RecentActivity{
				RequestID: convertSurrealID(data["id"]),
				UserName:  getString(data, "requester_name"),
				Outcome:   model.JoinRequestStatus(getString(data, "status")),
			}
			if t := getTime(data, "processed_at"); t != nil {
				entry.ProcessedAt = *t
			}
			activity = append(activity, entry)
		}
	}

	return activity, nil
}

// Approve marks a pending request approved and admits the requester in one
// atomic batch: the membership row, the guarded counter increment, and the
// request transition commit together or not at all
func (r *JoinRequestRepository) Approve(ctx context.Context, req *model.JoinRequest, processedBy string) (*model.Membership, error) {
	membershipID := newRecordID("membership")

	batch := database.NewAtomicBatch()

	batch.Add(capacityGuard, map[string]interface{}{
		"moim_id": req.MoimID,
	})

	batch.Add(`
		CREATE type::record($membership_id) CONTENT {
			moim_id: type::record($moim_id),
			user_id: type::record($user_id),
			role: $role,
			status: $member_status,
			joined_at: time::now(),
			approved_by: type::record($processed_by),
			approved_at: time::now()
		}
	`, map[string]interface{}{
		"membership_id": membershipID,
		"moim_id":       req.MoimID,
		"user_id":       req.UserID,
		"role":          model.MemberRoleMember,
		"member_status": model.MemberStatusActive,
		"processed_by":  processedBy,
	})

	batch.Add(`
		UPDATE type::record($request_id) SET
			status = $approved,
			processed_at = time::now(),
			processed_by = type::record($processed_by)
	`, map[string]interface{}{
		"request_id":   req.ID,
		"approved":     model.JoinRequestApproved,
		"processed_by": processedBy,
	})

	if err := batch.Execute(ctx, r.db); err != nil {
		if isCapacityError(err) {
			return nil, ErrMoimAtCapacity
		}
		return nil, fmt.Errorf("failed to approve join request: %w", err)
	}

	membership := &model.Membership{
		ID:         membershipID,
		MoimID:     req.MoimID,
		UserID:     req.UserID,
		Role:       model.MemberRoleMember,
		Status:     model.MemberStatusActive,
		ApprovedBy: &processedBy,
	}
	return membership, nil
}

// Reject marks a pending request rejected with the reviewer's reason.
// The member counter is untouched since nothing was admitted.
func (r *JoinRequestRepository) Reject(ctx context.Context, requestID, processedBy, reason string) (*model.JoinRequest, error) {
	query := `
		UPDATE type::record($request_id) SET
			status = $rejected,
			processed_at = time::now(),
			processed_by = type::record($processed_by),
			reject_reason = $reason
		RETURN AFTER
	`
	vars := map[string]interface{}{
		"request_id":   requestID,
		"rejected":     model.JoinRequestRejected,
		"processed_by": processedBy,
		"reason":       reason,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to reject join request: %w", err)
	}

	return parseJoinRequest(result)
}

// Parsing helpers

func parseJoinRequest(result interface{}) (*model.JoinRequest, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}
	return joinRequestFromData(data), nil
}

func joinRequestFromData(data map[string]interface{}) *model.JoinRequest {
	req := &model.JoinRequest{
		ID:           convertSurrealID(data["id"]),
		MoimID:       convertSurrealID(data["moim_id"]),
		UserID:       convertSurrealID(data["user_id"]),
		Message:      getString(data, "message"),
		Status:       model.JoinRequestStatus(getString(data, "status")),
		RejectReason: getStringPtr(data, "reject_reason"),
	}

	if t := getTime(data, "requested_at"); t != nil {
		req.RequestedAt = *t
	}
	req.ProcessedAt = getTime(data, "processed_at")
	if id := convertSurrealID(data["processed_by"]); id != "" {
		req.ProcessedBy = &id
	}

	return req
}

func parseJoinRequestDetails(result []interface{}) []*model.JoinRequestDetail {
	details := make([]*model.JoinRequestDetail, 0)

	for _, res := range result {
		if resp, ok := res.(map[string]interface{}); ok {
			if resultData, ok := resp["result"].([]interface{}); ok {
				for _, item := range resultData {
					data, ok := item.(map[string]interface{})
					if !ok {
						continue
					}
					req := joinRequestFromData(data)
					details = append(details, &model.JoinRequestDetail{
						JoinRequest: *req,
						Requester: &model.RequesterSummary{
							UserID: req.UserID,
							Name:   getString(data, "requester_name"),
							Email:  getString(data, "requester_email"),
						},
					})
				}
			}
		}
	}

	return details
}
