package domain

import "time"

// EscalationTrigger enumerates what fires an escalation rule.
type EscalationTrigger string

const (
	TriggerSLABreach EscalationTrigger = "SLA_BREACH"
	TriggerTimeBased EscalationTrigger = "TIME_BASED"
)

// EscalationRule configures automatic escalation performed by the SLA worker.
type EscalationRule struct {
	ID               string
	Name             string
	Description      string
	Trigger          EscalationTrigger
	HoursThreshold   *int
	Priority         *TicketPriority
	DepartmentID     *string
	EscalateToRole   MemberRole
	SendNotification bool
	IsActive         bool
	CreatedAt        time.Time
}

// Matches reports whether the rule applies to the ticket's scope.
func (r *EscalationRule) Matches(t *Ticket) bool {
	if r.Priority != nil && t.Priority != *r.Priority {
		return false
	}
	if r.DepartmentID != nil {
		if t.DepartmentID == nil || *t.DepartmentID != *r.DepartmentID {
			return false
		}
	}
	return true
}
