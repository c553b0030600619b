package ports

import (
	"context"

	"github.com/feedbackbox/feedback-api/internal/core/domain"
)

// SubmitFeedbackInput is a visitor-supplied feedback submission.
type SubmitFeedbackInput struct {
	Message     string
	SenderName  string
	SenderEmail string
	IsAnonymous bool
}

// Pagination describes the page served by a listing call.
type Pagination struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
	HasNext bool  `json:"has_next"`
	HasPrev bool  `json:"has_prev"`
}

// FeedbackStats summarises an inbox.
type FeedbackStats struct {
	Total  int64 `json:"total"`
	Unread int64 `json:"unread"`
}

// FeedbackPage is one page of an inbox plus its stats.
type FeedbackPage struct {
	Items      []*domain.Feedback
	Pagination Pagination
	Stats      FeedbackStats
}

// FeedbackService implements the public submission flow and the owner's
// inbox operations.
type FeedbackService interface {
	// Submit records feedback for the active user holding username.
	Submit(ctx context.Context, username string, input SubmitFeedbackInput) (*domain.Feedback, error)
	List(ctx context.Context, recipientID string, page, limit int) (*FeedbackPage, error)
	SetRead(ctx context.Context, recipientID, feedbackID string, read bool) (*domain.Feedback, error)
	Delete(ctx context.Context, recipientID, feedbackID string) error
}
