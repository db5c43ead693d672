package service

import (
	"context"
	"log/slog"

	"github.com/shimssung/moimlog-backend/internal/model"
)

// Notifier delivers join workflow events to interested users. Delivery is
// best effort: callers log failures and never fail the triggering operation.
type Notifier interface {
	JoinRequestReceived(ctx context.Context, moim *model.Moim, req *model.JoinRequest) error
	JoinRequestApproved(ctx context.Context, moim *model.Moim, req *model.JoinRequest) error
	JoinRequestRejected(ctx context.Context, moim *model.Moim, req *model.JoinRequest) error
	MemberLeft(ctx context.Context, moim *model.Moim, userID string) error
}

// LogNotifier writes notifications to the structured log. It stands in for
// a real delivery channel until one is wired up.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier that logs events
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) JoinRequestReceived(ctx context.Context, moim *model.Moim, req *model.JoinRequest) error {
	n.logger.InfoContext(ctx, "join request received",
		"moim_id", moim.ID,
		"request_id", req.ID,
		"user_id", req.UserID,
	)
	return nil
}

func (n *LogNotifier) JoinRequestApproved(ctx context.Context, moim *model.Moim, req *model.JoinRequest) error {
	n.logger.InfoContext(ctx, "join request approved",
		"moim_id", moim.ID,
		"request_id", req.ID,
		"user_id", req.UserID,
	)
	return nil
}

func (n *LogNotifier) JoinRequestRejected(ctx context.Context, moim *model.Moim, req *model.JoinRequest) error {
	n.logger.InfoContext(ctx, "join request rejected",
		"moim_id", moim.ID,
		"request_id", req.ID,
		"user_id", req.UserID,
	)
	return nil
}

func (n *LogNotifier) MemberLeft(ctx context.Context, moim *model.Moim, userID string) error {
	n.logger.InfoContext(ctx, "member left moim",
		"moim_id", moim.ID,
		"user_id", userID,
	)
	return nil
}
