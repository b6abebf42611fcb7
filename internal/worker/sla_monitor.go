package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/helpdeskd/helpdesk/internal/config"
	"github.com/helpdeskd/helpdesk/internal/domain"
	"github.com/helpdeskd/helpdesk/internal/events"
	"github.com/helpdeskd/helpdesk/internal/repository"
	"github.com/helpdeskd/helpdesk/internal/service"
)

// SLAMonitor periodically scans open tickets, flags SLA breaches, applies
// escalation rules and expires tickets that sat past their due date for the
// configured grace window.
type SLAMonitor struct {
	tickets     repository.TicketRepository
	members     repository.MemberRepository
	escalations repository.EscalationRepository
	history     repository.TicketHistoryRepository
	sla         *service.SLAService
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	cfg         config.WorkerConfig
}

// SLAMonitorDependencies bundles what the monitor needs.
type SLAMonitorDependencies struct {
	TicketRepo     repository.TicketRepository
	MemberRepo     repository.MemberRepository
	EscalationRepo repository.EscalationRepository
	HistoryRepo    repository.TicketHistoryRepository
	SLA            *service.SLAService
	Dispatcher     events.Dispatcher
}

// NewSLAMonitor creates the monitor.
func NewSLAMonitor(deps SLAMonitorDependencies, logger *zap.Logger, cfg config.WorkerConfig) *SLAMonitor {
	return &SLAMonitor{
		tickets:     deps.TicketRepo,
		members:     deps.MemberRepo,
		escalations: deps.EscalationRepo,
		history:     deps.HistoryRepo,
		sla:         deps.SLA,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
		cfg:         cfg,
	}
}

// Run blocks, scanning on the configured interval until ctx is cancelled.
func (m *SLAMonitor) Run(ctx context.Context) error {
	interval := m.cfg.ScanInterval()
	m.logger.Info("sla monitor started", zap.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("sla monitor stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := m.Scan(ctx, time.Now()); err != nil {
				m.logger.Error("sla scan failed", zap.Error(err))
			}
		}
	}
}

// Scan runs one pass over open tickets.
func (m *SLAMonitor) Scan(ctx context.Context, now time.Time) error {
	batch := m.cfg.ScanBatchSize
	if batch <= 0 {
		batch = 500
	}
	tickets, err := m.tickets.ListOpenForScan(ctx, batch)
	if err != nil {
		return err
	}
	rules, err := m.escalations.ListActive(ctx)
	if err != nil {
		return err
	}

	interval := m.cfg.ScanInterval()
	grace := time.Duration(m.cfg.OverdueGraceHours) * time.Hour

	for i := range tickets {
		ticket := &tickets[i]
		if err := m.processTicket(ctx, ticket, rules, now, interval, grace); err != nil {
			m.logger.Warn("ticket scan failed",
				zap.Error(err),
				zap.String("ticket_id", ticket.ID))
		}
	}
	return nil
}

func (m *SLAMonitor) processTicket(ctx context.Context, ticket *domain.Ticket, rules []domain.EscalationRule, now time.Time, interval, grace time.Duration) error {
	dirty := false

	breached := m.sla.CheckBreach(ticket, now)
	if breached {
		dirty = true
		m.record(ctx, ticket.ID, domain.HistorySLABreached, "sla deadline missed")
	}

	for i := range rules {
		rule := &rules[i]
		if !rule.Matches(ticket) {
			continue
		}
		switch rule.Trigger {
		case domain.TriggerSLABreach:
			if breached {
				m.escalate(ctx, ticket, rule, now, "SLA breached")
				dirty = true
			}
		case domain.TriggerTimeBased:
			if rule.HoursThreshold == nil || ticket.LastEscalatedAt != nil {
				continue
			}
			age := now.Sub(ticket.CreatedAt)
			if age >= time.Duration(*rule.HoursThreshold)*time.Hour {
				m.escalate(ctx, ticket, rule, now, "open too long without escalation")
				dirty = true
			}
		}
	}

	if ticket.IsOverdue(now) {
		// Fire the overdue notification once, in the scan window where the
		// ticket crossed its due date.
		if now.Sub(*ticket.DueDate) < interval {
			m.publish(ctx, events.Event{
				Type:     events.EventTicketOverdue,
				TicketID: ticket.ID,
				Payload: events.TicketOverduePayload{
					Title:       ticket.Title,
					RequesterID: ticket.RequesterID,
					AssigneeID:  ticket.AssigneeID,
				},
			})
		}
		if grace > 0 && now.After(ticket.DueDate.Add(grace)) &&
			domain.ValidTransition(ticket.Status, domain.TicketStatusExpired) {
			old := ticket.Status
			ticket.Status = domain.TicketStatusExpired
			dirty = true
			m.record(ctx, ticket.ID, domain.HistoryStatusChanged, "expired after due date grace period")
			m.publish(ctx, events.Event{
				Type:     events.EventTicketStatusChanged,
				TicketID: ticket.ID,
				Payload: events.TicketStatusChangedPayload{
					Title:       ticket.Title,
					RequesterID: ticket.RequesterID,
					OldStatus:   old,
					NewStatus:   domain.TicketStatusExpired,
				},
			})
		}
	}

	if !dirty {
		return nil
	}
	return m.tickets.Update(ctx, ticket)
}

// escalate bumps the escalation level and notifies supervisory members of
// the ticket's department.
func (m *SLAMonitor) escalate(ctx context.Context, ticket *domain.Ticket, rule *domain.EscalationRule, now time.Time, reason string) {
	ticket.EscalationLevel++
	ticket.LastEscalatedAt = &now

	var notifyIDs []string
	if ticket.DepartmentID != nil {
		members, err := m.members.ListByDepartmentRole(ctx, *ticket.DepartmentID, rule.EscalateToRole)
		if err != nil {
			m.logger.Warn("escalation target lookup failed", zap.Error(err), zap.String("ticket_id", ticket.ID))
		}
		for _, member := range members {
			notifyIDs = append(notifyIDs, member.UserID)
		}
		if len(members) > 0 {
			ticket.EscalatedToID = &members[0].UserID
		}
	}

	m.record(ctx, ticket.ID, domain.HistoryEscalated, rule.Name+": "+reason)
	if rule.SendNotification {
		m.publish(ctx, events.Event{
			Type:     events.EventTicketEscalated,
			TicketID: ticket.ID,
			Payload: events.TicketEscalatedPayload{
				Title:           ticket.Title,
				DepartmentID:    ticket.DepartmentID,
				EscalationLevel: ticket.EscalationLevel,
				Reason:          reason,
				NotifyUserIDs:   notifyIDs,
			},
		})
	}
	m.logger.Info("ticket escalated",
		zap.String("ticket_id", ticket.ID),
		zap.String("rule", rule.Name),
		zap.Int("level", ticket.EscalationLevel))
}

func (m *SLAMonitor) record(ctx context.Context, ticketID string, action domain.HistoryAction, description string) {
	err := m.history.Create(ctx, &domain.TicketHistory{
		TicketID:    ticketID,
		Action:      action,
		Description: description,
	})
	if err != nil {
		m.logger.Warn("history write failed",
			zap.Error(err),
			zap.String("ticket_id", ticketID),
			zap.String("action", string(action)))
	}
}

func (m *SLAMonitor) publish(ctx context.Context, event events.Event) {
	if m.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = m.dispatcher.Publish(ctx, event)
}
