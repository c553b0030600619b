package ports

import (
	"context"

	"github.com/feedbackbox/feedback-api/internal/core/domain"
)

// AdminStats is the dashboard aggregate: user totals plus feedback volume.
type AdminStats struct {
	Users    UserStats `json:"users"`
	Feedback struct {
		Total int64 `json:"total"`
	} `json:"feedback"`
}

// AdminService exposes the moderation surface. Every operation assumes the
// caller already passed the admin role gate.
type AdminService interface {
	Stats(ctx context.Context) (*AdminStats, error)
	ListUsers(ctx context.Context, page, limit int) ([]*domain.User, Pagination, error)
	ListFeedback(ctx context.Context, page, limit int) ([]*domain.Feedback, Pagination, error)
	SetUserActive(ctx context.Context, userID string, active bool) (*domain.User, error)
	// DeleteFeedback removes any user's message by id.
	DeleteFeedback(ctx context.Context, feedbackID string) error
}
