package domain

import "time"

// HistoryAction captures what changed in an audit entry.
type HistoryAction string

const (
	HistoryCreated         HistoryAction = "CREATED"
	HistoryUpdated         HistoryAction = "UPDATED"
	HistoryAssigned        HistoryAction = "ASSIGNED"
	HistoryStatusChanged   HistoryAction = "STATUS_CHANGED"
	HistoryPriorityChanged HistoryAction = "PRIORITY_CHANGED"
	HistoryCommented       HistoryAction = "COMMENTED"
	HistoryEscalated       HistoryAction = "ESCALATED"
	HistorySLABreached     HistoryAction = "SLA_BREACHED"
	HistoryClosed          HistoryAction = "CLOSED"
	HistoryReopened        HistoryAction = "REOPENED"
)

// TicketHistory is an immutable audit trail entry for a ticket.
type TicketHistory struct {
	ID          string
	TicketID    string
	ChangedByID *string
	Action      HistoryAction
	FieldName   string
	OldValue    string
	NewValue    string
	Description string
	CreatedAt   time.Time
}
