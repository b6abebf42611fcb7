package events

import (
	"time"

	"github.com/helpdeskd/helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated         EventType = "ticket_created"
	EventTicketStatusChanged   EventType = "ticket_status_changed"
	EventTicketPriorityChanged EventType = "ticket_priority_changed"
	EventTicketAssigned        EventType = "ticket_assigned"
	EventTicketCommented       EventType = "ticket_commented"
	EventTicketEscalated       EventType = "ticket_escalated"
	EventTicketOverdue         EventType = "ticket_overdue"
	EventTicketRated           EventType = "ticket_rated"
)

// Event represents a domain event emitted by services. ActorID is empty for
// system-initiated events such as worker escalations.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title        string                `json:"title"`
	RequesterID  string                `json:"requester_id"`
	DepartmentID *string               `json:"department_id,omitempty"`
	Priority     domain.TicketPriority `json:"priority"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	Title       string              `json:"title"`
	RequesterID string              `json:"requester_id"`
	ClosedByID  *string             `json:"closed_by_id,omitempty"`
	OldStatus   domain.TicketStatus `json:"old_status"`
	NewStatus   domain.TicketStatus `json:"new_status"`
	Comment     string              `json:"comment,omitempty"`
}

// TicketPriorityChangedPayload payload.
type TicketPriorityChangedPayload struct {
	Title       string                `json:"title"`
	RequesterID string                `json:"requester_id"`
	OldPriority domain.TicketPriority `json:"old_priority"`
	NewPriority domain.TicketPriority `json:"new_priority"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	Title          string                `json:"title"`
	RequesterID    string                `json:"requester_id"`
	AssigneeID     *string               `json:"assignee_id,omitempty"`
	DepartmentID   *string               `json:"department_id,omitempty"`
	AssignmentType domain.AssignmentType `json:"assignment_type"`
}

// TicketCommentedPayload payload.
type TicketCommentedPayload struct {
	Title       string  `json:"title"`
	RequesterID string  `json:"requester_id"`
	AssigneeID  *string `json:"assignee_id,omitempty"`
	CommentID   string  `json:"comment_id"`
	BodyPreview string  `json:"body_preview"`
}

// TicketEscalatedPayload payload.
type TicketEscalatedPayload struct {
	Title           string   `json:"title"`
	DepartmentID    *string  `json:"department_id,omitempty"`
	EscalationLevel int      `json:"escalation_level"`
	Reason          string   `json:"reason"`
	NotifyUserIDs   []string `json:"notify_user_ids,omitempty"`
}

// TicketOverduePayload payload.
type TicketOverduePayload struct {
	Title       string  `json:"title"`
	RequesterID string  `json:"requester_id"`
	AssigneeID  *string `json:"assignee_id,omitempty"`
}

// TicketRatedPayload payload.
type TicketRatedPayload struct {
	Title      string  `json:"title"`
	AssigneeID *string `json:"assignee_id,omitempty"`
	Stars      int     `json:"stars"`
	Feedback   string  `json:"feedback,omitempty"`
}
