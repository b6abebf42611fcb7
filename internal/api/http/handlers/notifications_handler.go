package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helpdeskd/helpdesk/internal/api/dto"
	"github.com/helpdeskd/helpdesk/internal/service"
	apperrors "github.com/helpdeskd/helpdesk/pkg/util"
)

// NotificationsHandler exposes the in-app notification endpoints.
type NotificationsHandler struct {
	notifications *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notificationService *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{notifications: notificationService}
}

// List GET /notifications.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	limit, offset := parsePagination(c)
	unreadOnly := c.QueryBool("unread_only")
	items, err := h.notifications.ListForUser(c.UserContext(), principal.User.ID, unreadOnly, limit, offset)
	if err != nil {
		return err
	}
	responses := make([]dto.NotificationResponse, 0, len(items))
	for i := range items {
		responses = append(responses, dto.NewNotificationResponse(&items[i]))
	}
	return c.JSON(fiber.Map{"data": responses})
}

// UnreadCount GET /notifications/unread-count.
func (h *NotificationsHandler) UnreadCount(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	count, err := h.notifications.UnreadCount(c.UserContext(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"unread": count}})
}

// MarkRead PATCH /notifications/:id.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	req := dto.MarkReadRequest{Read: true}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	if err := h.notifications.MarkRead(c.UserContext(), principal.User.ID, c.Params("id"), req.Read); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"read": req.Read}})
}

// MarkAllRead POST /notifications/mark-all-read.
func (h *NotificationsHandler) MarkAllRead(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	count, err := h.notifications.MarkAllRead(c.UserContext(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"marked": count}})
}
