package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helpdeskd/helpdesk/internal/service"
)

// AnalyticsHandler serves the dashboard endpoint. Routing restricts it to
// superusers.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analyticsService}
}

// Dashboard GET /analytics/dashboard.
func (h *AnalyticsHandler) Dashboard(c *fiber.Ctx) error {
	rangeName := c.Query("range", service.RangeLast30Days)
	var departmentID *string
	if v := c.Query("department_id"); v != "" {
		departmentID = &v
	}
	refresh := c.QueryBool("refresh")

	dashboard, err := h.analytics.Dashboard(c.UserContext(), rangeName, departmentID, refresh)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dashboard})
}
