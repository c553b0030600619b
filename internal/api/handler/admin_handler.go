package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/feedbackbox/feedback-api/internal/api/metrics"
	"github.com/feedbackbox/feedback-api/internal/core/domain"
	"github.com/feedbackbox/feedback-api/internal/core/ports"
)

// AdminHandler serves the moderation panel. Every route sits behind the
// admin role gate in the router.
type AdminHandler struct {
	admin ports.AdminService
}

func NewAdminHandler(admin ports.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

type adminStatsResponse struct {
	Success bool              `json:"success"`
	Stats   *ports.AdminStats `json:"stats"`
}

// Stats returns dashboard aggregates.
//
// @Summary      Admin dashboard stats
// @Tags         admin
// @Produce      json
// @Success      200  {object}  adminStatsResponse
// @Failure      403  {object}  map[string]any
// @Router       /api/admin/stats [get]
func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.admin.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, adminStatsResponse{Success: true, Stats: stats})
}

type adminUsersResponse struct {
	Success    bool             `json:"success"`
	Users      []*domain.User   `json:"users"`
	Pagination ports.Pagination `json:"pagination"`
}

// ListUsers returns a page of all users, newest first.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Param        page   query     int  false  "Page (1-based)"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  adminUsersResponse
// @Failure      403    {object}  map[string]any
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	users, pagination, err := h.admin.ListUsers(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}

	if users == nil {
		users = []*domain.User{}
	}
	return c.JSON(http.StatusOK, adminUsersResponse{Success: true, Users: users, Pagination: pagination})
}

type adminFeedbackResponse struct {
	Success    bool               `json:"success"`
	Feedback   []*domain.Feedback `json:"feedback"`
	Pagination ports.Pagination   `json:"pagination"`
}

// ListFeedback returns a page of all feedback, newest first.
//
// @Summary      List feedback
// @Tags         admin
// @Produce      json
// @Param        page   query     int  false  "Page (1-based)"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  adminFeedbackResponse
// @Failure      403    {object}  map[string]any
// @Router       /api/admin/feedback [get]
func (h *AdminHandler) ListFeedback(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	items, pagination, err := h.admin.ListFeedback(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}

	if items == nil {
		items = []*domain.Feedback{}
	}
	return c.JSON(http.StatusOK, adminFeedbackResponse{Success: true, Feedback: items, Pagination: pagination})
}

type setActiveRequest struct {
	IsActive bool `json:"is_active"`
}

type adminUserResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

// SetUserActive toggles a user's activation flag.
//
// @Summary      Activate or deactivate a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string            true  "User id"
// @Param        body  body      setActiveRequest  true  "Activation flag"
// @Success      200   {object}  adminUserResponse
// @Failure      404   {object}  map[string]any
// @Router       /api/admin/users/{id} [put]
func (h *AdminHandler) SetUserActive(c echo.Context) error {
	var req setActiveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.admin.SetUserActive(c.Request().Context(), c.Param("id"), req.IsActive)
	if err != nil {
		return err
	}

	msg := "user deactivated"
	if req.IsActive {
		msg = "user activated"
	}
	return c.JSON(http.StatusOK, adminUserResponse{Success: true, Message: msg, User: user})
}

// DeleteFeedback removes any user's feedback message.
//
// @Summary      Delete any feedback
// @Tags         admin
// @Produce      json
// @Param        id  path      string  true  "Feedback id"
// @Success      200 {object}  messageResponse
// @Failure      404 {object}  map[string]any
// @Router       /api/admin/feedback/{id} [delete]
func (h *AdminHandler) DeleteFeedback(c echo.Context) error {
	if err := h.admin.DeleteFeedback(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	metrics.FeedbackDeletedTotal.Inc()
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "feedback deleted successfully"})
}
