package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/feedbackbox/feedback-api/internal/core/domain"
	"github.com/feedbackbox/feedback-api/internal/core/ports"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// FeedbackService implements the public submission flow and the owner's
// inbox operations.
type FeedbackService struct {
	feedback ports.FeedbackRepository
	users    ports.UserRepository
	logger   zerolog.Logger
}

func NewFeedbackService(feedback ports.FeedbackRepository, users ports.UserRepository, logger zerolog.Logger) *FeedbackService {
	return &FeedbackService{feedback: feedback, users: users, logger: logger}
}

// Submit records feedback for the active user holding username. Anonymous
// submissions drop the sender's identity entirely.
func (s *FeedbackService) Submit(ctx context.Context, username string, input ports.SubmitFeedbackInput) (*domain.Feedback, error) {
	recipient, err := s.users.FindByUsername(ctx, domain.NormalizeUsername(username))
	if err != nil {
		return nil, err
	}
	if !recipient.IsActive {
		return nil, domain.ErrUserNotFound
	}

	message := strings.TrimSpace(input.Message)
	if len(message) < domain.FeedbackMinLen {
		return nil, domain.ErrMessageTooShort
	}
	if len(message) > domain.FeedbackMaxLen {
		return nil, domain.ErrMessageTooLong
	}

	senderName := strings.TrimSpace(input.SenderName)
	senderEmail := domain.NormalizeEmail(input.SenderEmail)
	if input.IsAnonymous || senderName == "" {
		senderName = domain.AnonymousSender
	}
	if input.IsAnonymous {
		senderEmail = ""
	}

	now := time.Now().UTC()
	fb := &domain.Feedback{
		RecipientID: recipient.ID,
		Message:     message,
		SenderName:  senderName,
		SenderEmail: senderEmail,
		IsAnonymous: input.IsAnonymous,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.feedback.Create(ctx, fb)
	if err != nil {
		return nil, err
	}

	// Best-effort denormalized counter; the feedback collection stays the
	// authoritative count.
	if err := s.users.AdjustFeedbackCount(ctx, recipient.ID, 1); err != nil {
		s.logger.Warn().Err(err).Str("recipient_id", recipient.ID).Msg("feedback count increment failed")
	}

	s.logger.Info().Str("recipient_id", recipient.ID).Bool("anonymous", input.IsAnonymous).Msg("feedback submitted")
	return created, nil
}

func (s *FeedbackService) List(ctx context.Context, recipientID string, page, limit int) (*ports.FeedbackPage, error) {
	page, limit = clampPage(page, limit, defaultPageSize)

	items, total, err := s.feedback.List(ctx, ports.ListFeedbackFilter{
		RecipientID: recipientID,
		Page:        page,
		Limit:       limit,
	})
	if err != nil {
		return nil, err
	}

	unread, err := s.feedback.CountUnread(ctx, recipientID)
	if err != nil {
		return nil, err
	}

	return &ports.FeedbackPage{
		Items:      items,
		Pagination: paginate(page, limit, total),
		Stats:      ports.FeedbackStats{Total: total, Unread: unread},
	}, nil
}

func (s *FeedbackService) SetRead(ctx context.Context, recipientID, feedbackID string, read bool) (*domain.Feedback, error) {
	return s.feedback.SetRead(ctx, feedbackID, recipientID, read)
}

func (s *FeedbackService) Delete(ctx context.Context, recipientID, feedbackID string) error {
	if err := s.feedback.Delete(ctx, feedbackID, recipientID); err != nil {
		return err
	}

	if err := s.users.AdjustFeedbackCount(ctx, recipientID, -1); err != nil {
		s.logger.Warn().Err(err).Str("recipient_id", recipientID).Msg("feedback count decrement failed")
	}
	return nil
}

func clampPage(page, limit, fallback int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = fallback
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

func paginate(page, limit int, total int64) ports.Pagination {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return ports.Pagination{
		Current: page,
		Pages:   pages,
		Total:   total,
		HasNext: int64(page*limit) < total,
		HasPrev: page > 1,
	}
}
