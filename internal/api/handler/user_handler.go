package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/feedbackbox/feedback-api/internal/api/metrics"
	"github.com/feedbackbox/feedback-api/internal/core/domain"
	"github.com/feedbackbox/feedback-api/internal/core/ports"
)

// UserHandler serves the public profile and the public feedback submission
// route.
type UserHandler struct {
	users    ports.UserService
	feedback ports.FeedbackService
}

func NewUserHandler(users ports.UserService, feedback ports.FeedbackService) *UserHandler {
	return &UserHandler{users: users, feedback: feedback}
}

type profileResponse struct {
	Success bool                 `json:"success"`
	User    domain.PublicProfile `json:"user"`
}

// Profile returns the public view of an active user.
//
// @Summary      Public profile
// @Tags         users
// @Produce      json
// @Param        username  path      string  true  "Profile username"
// @Success      200       {object}  profileResponse
// @Failure      404       {object}  map[string]any
// @Router       /api/users/{username} [get]
func (h *UserHandler) Profile(c echo.Context) error {
	username := c.Param("username")
	if !domain.ValidUsername(username) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid username format")
	}

	profile, err := h.users.PublicProfile(c.Request().Context(), username)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profileResponse{Success: true, User: profile})
}

type submitFeedbackRequest struct {
	Message     string `json:"message" validate:"required"`
	SenderName  string `json:"sender_name" validate:"omitempty,max=50"`
	SenderEmail string `json:"sender_email" validate:"omitempty,email"`
	IsAnonymous bool   `json:"is_anonymous"`
}

type submitFeedbackResponse struct {
	Success  bool             `json:"success"`
	Message  string           `json:"message"`
	Feedback *feedbackSummary `json:"feedback"`
}

// feedbackSummary is what a submitter gets back: no recipient internals and
// no sender echo.
type feedbackSummary struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// SubmitFeedback records a visitor's message for a profile.
//
// @Summary      Submit feedback
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        username  path      string                 true  "Recipient username"
// @Param        body      body      submitFeedbackRequest  true  "Feedback"
// @Success      201       {object}  submitFeedbackResponse
// @Failure      400       {object}  map[string]any
// @Failure      404       {object}  map[string]any
// @Router       /api/users/{username}/feedback [post]
func (h *UserHandler) SubmitFeedback(c echo.Context) error {
	username := c.Param("username")
	if !domain.ValidUsername(username) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid username format")
	}

	var req submitFeedbackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	fb, err := h.feedback.Submit(c.Request().Context(), username, ports.SubmitFeedbackInput{
		Message:     req.Message,
		SenderName:  req.SenderName,
		SenderEmail: req.SenderEmail,
		IsAnonymous: req.IsAnonymous,
	})
	if err != nil {
		return err
	}

	metrics.FeedbackCreatedTotal.WithLabelValues(strconv.FormatBool(fb.IsAnonymous)).Inc()
	return c.JSON(http.StatusCreated, submitFeedbackResponse{
		Success: true,
		Message: "feedback submitted successfully",
		Feedback: &feedbackSummary{
			ID:        fb.ID,
			Message:   fb.Message,
			CreatedAt: fb.CreatedAt,
		},
	})
}
