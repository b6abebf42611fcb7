package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
	TicketStatusReopened   TicketStatus = "REOPENED"
	TicketStatusExpired    TicketStatus = "EXPIRED"
)

// IsTerminal reports whether no further agent work is expected.
func (s TicketStatus) IsTerminal() bool {
	return s == TicketStatusClosed
}

// IsOpenForWork reports whether the ticket still counts against SLA clocks.
func (s TicketStatus) IsOpenForWork() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusReopened:
		return true
	}
	return false
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
	TicketPriorityUrgent TicketPriority = "URGENT"
)

// ValidPriority reports whether p is a known priority.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// AssignmentType records how a ticket got its assignee.
type AssignmentType string

const (
	AssignmentUnassigned   AssignmentType = "UNASSIGNED"
	AssignmentManual       AssignmentType = "MANUAL"
	AssignmentSelfAssigned AssignmentType = "SELF_ASSIGNED"
	AssignmentAuto         AssignmentType = "AUTO"
)

// Ticket is the aggregate for helpdesk requests.
type Ticket struct {
	ID           string
	ExternalKey  string
	Title        string
	Description  string
	RequesterID  string
	DepartmentID *string
	CategoryID   *string
	AssigneeID   *string
	Status       TicketStatus
	Priority     TicketPriority
	DueDate      *time.Time

	AssignmentType AssignmentType
	AssignedByID   *string
	AssignedAt     *time.Time

	SLAPolicyID           *string
	SLAResponseDeadline   *time.Time
	SLAResolutionDeadline *time.Time
	SLAResponseBreached   bool
	SLAResolutionBreached bool
	FirstResponseAt       *time.Time

	EscalationLevel int
	LastEscalatedAt *time.Time
	EscalatedToID   *string

	ResolvedAt *time.Time
	ClosedAt   *time.Time
	ClosedByID *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOverdue reports whether the ticket blew past its due date while still open.
func (t *Ticket) IsOverdue(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	if t.Status == TicketStatusClosed || t.Status == TicketStatusResolved {
		return false
	}
	return now.After(*t.DueDate)
}

var allowedTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusOpen:       {TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed, TicketStatusExpired},
	TicketStatusInProgress: {TicketStatusResolved, TicketStatusClosed, TicketStatusOpen},
	TicketStatusResolved:   {TicketStatusClosed, TicketStatusReopened},
	TicketStatusClosed:     {TicketStatusReopened},
	TicketStatusReopened:   {TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed},
	TicketStatusExpired:    {TicketStatusInProgress, TicketStatusClosed},
}

// ValidTransition reports whether moving from current to next is allowed.
func ValidTransition(current, next TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}
