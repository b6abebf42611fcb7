package dto

import (
	"time"

	"github.com/helpdeskd/helpdesk/internal/domain"
)

// NotificationResponse response.
type NotificationResponse struct {
	ID        string                  `json:"id"`
	TicketID  *string                 `json:"ticket_id"`
	Type      domain.NotificationType `json:"type"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	IsRead    bool                    `json:"is_read"`
	ReadAt    *time.Time              `json:"read_at"`
	EmailSent bool                    `json:"email_sent"`
	CreatedAt time.Time               `json:"created_at"`
}

// MarkReadRequest payload.
type MarkReadRequest struct {
	Read bool `json:"read"`
}

// NewNotificationResponse maps a domain notification.
func NewNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		TicketID:  n.TicketID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		EmailSent: n.EmailSent,
		CreatedAt: n.CreatedAt,
	}
}
