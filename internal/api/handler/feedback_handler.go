package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/feedbackbox/feedback-api/internal/api/metrics"
	appmw "github.com/feedbackbox/feedback-api/internal/api/middleware"
	"github.com/feedbackbox/feedback-api/internal/core/domain"
	"github.com/feedbackbox/feedback-api/internal/core/ports"
)

// FeedbackHandler serves the authenticated owner's inbox.
type FeedbackHandler struct {
	feedback ports.FeedbackService
}

func NewFeedbackHandler(feedback ports.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

type feedbackListResponse struct {
	Success    bool                `json:"success"`
	Feedback   []*domain.Feedback  `json:"feedback"`
	Pagination ports.Pagination    `json:"pagination"`
	Stats      ports.FeedbackStats `json:"stats"`
}

// List returns a page of the caller's received feedback, newest first.
//
// @Summary      List received feedback
// @Tags         feedback
// @Produce      json
// @Param        page   query     int  false  "Page (1-based)"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  feedbackListResponse
// @Failure      401    {object}  map[string]any
// @Router       /api/feedback [get]
func (h *FeedbackHandler) List(c echo.Context) error {
	user, ok := appmw.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.feedback.List(c.Request().Context(), user.ID, page, limit)
	if err != nil {
		return err
	}

	items := result.Items
	if items == nil {
		items = []*domain.Feedback{}
	}
	return c.JSON(http.StatusOK, feedbackListResponse{
		Success:    true,
		Feedback:   items,
		Pagination: result.Pagination,
		Stats:      result.Stats,
	})
}

type setReadRequest struct {
	IsRead bool `json:"is_read"`
}

type feedbackResponse struct {
	Success  bool             `json:"success"`
	Message  string           `json:"message,omitempty"`
	Feedback *domain.Feedback `json:"feedback,omitempty"`
}

// SetRead marks one of the caller's messages read or unread.
//
// @Summary      Mark feedback read/unread
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Feedback id"
// @Param        body  body      setReadRequest  true  "Read flag"
// @Success      200   {object}  feedbackResponse
// @Failure      404   {object}  map[string]any
// @Router       /api/feedback/{id}/read [put]
func (h *FeedbackHandler) SetRead(c echo.Context) error {
	user, ok := appmw.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var req setReadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	fb, err := h.feedback.SetRead(c.Request().Context(), user.ID, c.Param("id"), req.IsRead)
	if err != nil {
		return err
	}

	msg := "feedback marked as unread"
	if req.IsRead {
		msg = "feedback marked as read"
	}
	return c.JSON(http.StatusOK, feedbackResponse{Success: true, Message: msg, Feedback: fb})
}

// Delete removes one of the caller's messages.
//
// @Summary      Delete feedback
// @Tags         feedback
// @Produce      json
// @Param        id  path      string  true  "Feedback id"
// @Success      200 {object}  feedbackResponse
// @Failure      404 {object}  map[string]any
// @Router       /api/feedback/{id} [delete]
func (h *FeedbackHandler) Delete(c echo.Context) error {
	user, ok := appmw.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	if err := h.feedback.Delete(c.Request().Context(), user.ID, c.Param("id")); err != nil {
		return err
	}

	metrics.FeedbackDeletedTotal.Inc()
	return c.JSON(http.StatusOK, feedbackResponse{Success: true, Message: "feedback deleted successfully"})
}
