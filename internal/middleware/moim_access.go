package middleware

import (
	"context"
	"net/http"

	"github.com/shimssung/moimlog-backend/internal/model"
)

// MembershipChecker defines the interface for resolving a user's membership
type MembershipChecker interface {
	GetMembership(ctx context.Context, moimID, userID string) (*model.Membership, error)
}

// MoimIDKey is the context key for moim ID
const MoimIDKey contextKey = "moimID"

// MembershipKey is the context key for the caller's membership
const MembershipKey contextKey = "membership"

// GetMoimID extracts the moim ID from context
func GetMoimID(ctx context.Context) string {
	if id, ok := ctx.Value(MoimIDKey).(string); ok {
		return id
	}
	return ""
}

// GetMembership extracts the caller's membership from context
func GetMembership(ctx context.Context) *model.Membership {
	if m, ok := ctx.Value(MembershipKey).(*model.Membership); ok {
		return m
	}
	return nil
}

// MoimAccess returns a middleware that requires an active membership in the
// moim named by the {moimId} path parameter. Non-members get 404 rather
// than 403 so the moim's existence is not leaked.
func MoimAccess(checker MembershipChecker) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := GetUserID(r.Context())
			if userID == "" {
				model.NewUnauthorizedError("authentication required").WriteJSON(w)
				return
			}

			moimID := r.PathValue("moimId")
			if moimID == "" {
				model.NewBadRequestError("invalid moim ID").WriteJSON(w)
				return
			}

			membership, err := checker.GetMembership(r.Context(), moimID, userID)
			if err != nil {
				model.NewNotFoundError("moim").WriteJSON(w)
				return
			}
			if membership == nil || !membership.IsActive() {
				model.NewNotFoundError("moim").WriteJSON(w)
				return
			}

			ctx := context.WithValue(r.Context(), MoimIDKey, moimID)
			ctx = context.WithValue(ctx, MembershipKey, membership)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
