package domain

import "time"

// SLAPolicy defines response and resolution targets. Priority and department
// are optional scopes; a policy with neither acts as the global default.
type SLAPolicy struct {
	ID              string
	Name            string
	Description     string
	Priority        *TicketPriority
	DepartmentID    *string
	ResponseHours   int
	ResolutionHours int
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SLAStatus classifies how a ticket is tracking against its resolution deadline.
type SLAStatus string

const (
	SLAStatusNone     SLAStatus = "NO_SLA"
	SLAStatusOnTrack  SLAStatus = "ON_TRACK"
	SLAStatusWarning  SLAStatus = "WARNING"
	SLAStatusCritical SLAStatus = "CRITICAL"
	SLAStatusBreached SLAStatus = "BREACHED"
)

// SLAStatusFor classifies the ticket at the given instant. Warning and
// critical thresholds mirror the 4h/2h windows of the original policy.
func SLAStatusFor(t *Ticket, now time.Time) SLAStatus {
	if t.SLAResolutionDeadline == nil {
		return SLAStatusNone
	}
	if t.SLAResolutionBreached || now.After(*t.SLAResolutionDeadline) {
		return SLAStatusBreached
	}
	remaining := t.SLAResolutionDeadline.Sub(now)
	switch {
	case remaining < 2*time.Hour:
		return SLAStatusCritical
	case remaining < 4*time.Hour:
		return SLAStatusWarning
	}
	return SLAStatusOnTrack
}
