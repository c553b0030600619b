package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/feedbackbox/feedback-api/internal/core/domain"
	"github.com/feedbackbox/feedback-api/internal/core/ports"
)

const adminPageSize = 20

// AdminService implements the moderation surface. Role enforcement happens
// in the transport layer; these methods trust their caller.
type AdminService struct {
	users    ports.UserRepository
	feedback ports.FeedbackRepository
	logger   zerolog.Logger
}

func NewAdminService(users ports.UserRepository, feedback ports.FeedbackRepository, logger zerolog.Logger) *AdminService {
	return &AdminService{users: users, feedback: feedback, logger: logger}
}

func (s *AdminService) Stats(ctx context.Context) (*ports.AdminStats, error) {
	userStats, err := s.users.Stats(ctx)
	if err != nil {
		return nil, err
	}

	feedbackTotal, err := s.feedback.Count(ctx)
	if err != nil {
		return nil, err
	}

	stats := &ports.AdminStats{Users: *userStats}
	stats.Feedback.Total = feedbackTotal
	return stats, nil
}

func (s *AdminService) ListUsers(ctx context.Context, page, limit int) ([]*domain.User, ports.Pagination, error) {
	page, limit = clampPage(page, limit, adminPageSize)

	users, total, err := s.users.List(ctx, ports.ListUsersFilter{Page: page, Limit: limit})
	if err != nil {
		return nil, ports.Pagination{}, err
	}
	return users, paginate(page, limit, total), nil
}

func (s *AdminService) ListFeedback(ctx context.Context, page, limit int) ([]*domain.Feedback, ports.Pagination, error) {
	page, limit = clampPage(page, limit, adminPageSize)

	items, total, err := s.feedback.List(ctx, ports.ListFeedbackFilter{Page: page, Limit: limit})
	if err != nil {
		return nil, ports.Pagination{}, err
	}
	return items, paginate(page, limit, total), nil
}

func (s *AdminService) SetUserActive(ctx context.Context, userID string, active bool) (*domain.User, error) {
	user, err := s.users.SetActive(ctx, userID, active)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", userID).Bool("active", active).Msg("user activation changed")
	return user, nil
}

// DeleteFeedback removes a message from any inbox and settles the
// recipient's counter.
func (s *AdminService) DeleteFeedback(ctx context.Context, feedbackID string) error {
	fb, err := s.feedback.DeleteByID(ctx, feedbackID)
	if err != nil {
		return err
	}

	if err := s.users.AdjustFeedbackCount(ctx, fb.RecipientID, -1); err != nil {
		s.logger.Warn().Err(err).Str("recipient_id", fb.RecipientID).Msg("feedback count decrement failed")
	}

	s.logger.Info().Str("feedback_id", feedbackID).Str("recipient_id", fb.RecipientID).Msg("feedback removed by admin")
	return nil
}
