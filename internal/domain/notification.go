package domain

import "time"

// NotificationType enumerates in-app notification kinds.
type NotificationType string

const (
	NotifyTicketCreated   NotificationType = "TICKET_CREATED"
	NotifyTicketAssigned  NotificationType = "TICKET_ASSIGNED"
	NotifyTicketAccepted  NotificationType = "TICKET_ACCEPTED"
	NotifyTicketUpdated   NotificationType = "TICKET_UPDATED"
	NotifyTicketClosed    NotificationType = "TICKET_CLOSED"
	NotifyTicketResolved  NotificationType = "TICKET_RESOLVED"
	NotifyTicketReopened  NotificationType = "TICKET_REOPENED"
	NotifyTicketCommented NotificationType = "TICKET_COMMENTED"
	NotifyTicketOverdue   NotificationType = "TICKET_OVERDUE"
	NotifyTicketRated     NotificationType = "TICKET_RATED"
	NotifySystem          NotificationType = "SYSTEM"
)

// Notification is an in-app message for a user. EmailSent tracks whether the
// email copy went out for users who opted in.
type Notification struct {
	ID          string
	UserID      string
	TicketID    *string
	Type        NotificationType
	Title       string
	Message     string
	IsRead      bool
	ReadAt      *time.Time
	EmailSent   bool
	EmailSentAt *time.Time
	CreatedAt   time.Time
}
