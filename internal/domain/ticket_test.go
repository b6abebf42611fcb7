package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidTransition(t *testing.T) {
	allowed := []struct {
		from, to TicketStatus
	}{
		{TicketStatusOpen, TicketStatusInProgress},
		{TicketStatusOpen, TicketStatusResolved},
		{TicketStatusOpen, TicketStatusClosed},
		{TicketStatusOpen, TicketStatusExpired},
		{TicketStatusInProgress, TicketStatusResolved},
		{TicketStatusInProgress, TicketStatusOpen},
		{TicketStatusResolved, TicketStatusClosed},
		{TicketStatusResolved, TicketStatusReopened},
		{TicketStatusClosed, TicketStatusReopened},
		{TicketStatusReopened, TicketStatusInProgress},
		{TicketStatusExpired, TicketStatusInProgress},
		{TicketStatusExpired, TicketStatusClosed},
	}
	for _, tc := range allowed {
		assert.True(t, ValidTransition(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	denied := []struct {
		from, to TicketStatus
	}{
		{TicketStatusOpen, TicketStatusReopened},
		{TicketStatusClosed, TicketStatusInProgress},
		{TicketStatusClosed, TicketStatusOpen},
		{TicketStatusResolved, TicketStatusInProgress},
		{TicketStatusExpired, TicketStatusResolved},
		{TicketStatusReopened, TicketStatusOpen},
	}
	for _, tc := range denied {
		assert.False(t, ValidTransition(tc.from, tc.to), "%s -> %s should be denied", tc.from, tc.to)
	}
}

func TestValidPriority(t *testing.T) {
	assert.True(t, ValidPriority(TicketPriorityLow))
	assert.True(t, ValidPriority(TicketPriorityUrgent))
	assert.False(t, ValidPriority(TicketPriority("CRITICAL")))
	assert.False(t, ValidPriority(TicketPriority("")))
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	t.Run("no due date", func(t *testing.T) {
		ticket := &Ticket{Status: TicketStatusOpen}
		assert.False(t, ticket.IsOverdue(now))
	})

	t.Run("past due while open", func(t *testing.T) {
		ticket := &Ticket{Status: TicketStatusOpen, DueDate: &past}
		assert.True(t, ticket.IsOverdue(now))
	})

	t.Run("not yet due", func(t *testing.T) {
		ticket := &Ticket{Status: TicketStatusOpen, DueDate: &future}
		assert.False(t, ticket.IsOverdue(now))
	})

	t.Run("past due but resolved", func(t *testing.T) {
		ticket := &Ticket{Status: TicketStatusResolved, DueDate: &past}
		assert.False(t, ticket.IsOverdue(now))
	})
}

func TestSLAStatusFor(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	deadlineIn := func(d time.Duration) *time.Time {
		deadline := now.Add(d)
		return &deadline
	}

	t.Run("no deadline", func(t *testing.T) {
		assert.Equal(t, SLAStatusNone, SLAStatusFor(&Ticket{}, now))
	})

	t.Run("on track", func(t *testing.T) {
		ticket := &Ticket{SLAResolutionDeadline: deadlineIn(10 * time.Hour)}
		assert.Equal(t, SLAStatusOnTrack, SLAStatusFor(ticket, now))
	})

	t.Run("warning under four hours", func(t *testing.T) {
		ticket := &Ticket{SLAResolutionDeadline: deadlineIn(3 * time.Hour)}
		assert.Equal(t, SLAStatusWarning, SLAStatusFor(ticket, now))
	})

	t.Run("critical under two hours", func(t *testing.T) {
		ticket := &Ticket{SLAResolutionDeadline: deadlineIn(90 * time.Minute)}
		assert.Equal(t, SLAStatusCritical, SLAStatusFor(ticket, now))
	})

	t.Run("breached past deadline", func(t *testing.T) {
		ticket := &Ticket{SLAResolutionDeadline: deadlineIn(-time.Minute)}
		assert.Equal(t, SLAStatusBreached, SLAStatusFor(ticket, now))
	})

	t.Run("breached flag wins", func(t *testing.T) {
		ticket := &Ticket{SLAResolutionDeadline: deadlineIn(10 * time.Hour), SLAResolutionBreached: true}
		assert.Equal(t, SLAStatusBreached, SLAStatusFor(ticket, now))
	})
}

func TestEscalationRuleMatches(t *testing.T) {
	deptA := "dept-a"
	deptB := "dept-b"
	high := TicketPriorityHigh

	t.Run("unscoped rule matches everything", func(t *testing.T) {
		rule := &EscalationRule{}
		assert.True(t, rule.Matches(&Ticket{Priority: TicketPriorityLow}))
	})

	t.Run("priority scope", func(t *testing.T) {
		rule := &EscalationRule{Priority: &high}
		assert.True(t, rule.Matches(&Ticket{Priority: TicketPriorityHigh}))
		assert.False(t, rule.Matches(&Ticket{Priority: TicketPriorityLow}))
	})

	t.Run("department scope", func(t *testing.T) {
		rule := &EscalationRule{DepartmentID: &deptA}
		assert.True(t, rule.Matches(&Ticket{DepartmentID: &deptA}))
		assert.False(t, rule.Matches(&Ticket{DepartmentID: &deptB}))
		assert.False(t, rule.Matches(&Ticket{}))
	})
}
