package ports

import (
	"context"

	"github.com/feedbackbox/feedback-api/internal/core/domain"
)

// ListFeedbackFilter carries query parameters for feedback listings.
// RecipientID scopes the query to one inbox; empty means all (admin).
type ListFeedbackFilter struct {
	RecipientID string
	Page        int // 1-based
	Limit       int // max rows per page (capped by the service)
}

// FeedbackRepository defines persistence operations for feedback messages.
// Owner-scoped operations (SetRead, Delete) take the recipient id in the
// query itself so a caller can never touch another inbox.
type FeedbackRepository interface {
	Create(ctx context.Context, fb *domain.Feedback) (*domain.Feedback, error)
	// List returns a page of feedback, newest first, plus the total count.
	List(ctx context.Context, filter ListFeedbackFilter) ([]*domain.Feedback, int64, error)
	CountUnread(ctx context.Context, recipientID string) (int64, error)
	Count(ctx context.Context) (int64, error)
	SetRead(ctx context.Context, id, recipientID string, read bool) (*domain.Feedback, error)
	Delete(ctx context.Context, id, recipientID string) error
	// DeleteByID removes a message regardless of inbox and returns it, so
	// the caller can settle the recipient's counter. Admin moderation only.
	DeleteByID(ctx context.Context, id string) (*domain.Feedback, error)
	// DeleteByRecipient removes every message addressed to recipientID and
	// returns how many were removed. Used by account deletion.
	DeleteByRecipient(ctx context.Context, recipientID string) (int64, error)
}
