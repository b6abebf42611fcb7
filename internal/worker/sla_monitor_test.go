package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/helpdeskd/helpdesk/internal/config"
	"github.com/helpdeskd/helpdesk/internal/domain"
	"github.com/helpdeskd/helpdesk/internal/events"
	"github.com/helpdeskd/helpdesk/internal/service"
	"github.com/helpdeskd/helpdesk/internal/service/mocks"
)

type scanFixture struct {
	monitor   *SLAMonitor
	updated   []*domain.Ticket
	history   []*domain.TicketHistory
	published []events.Event
}

type captureDispatcher struct {
	events *[]events.Event
}

func (d *captureDispatcher) Publish(_ context.Context, e events.Event) error {
	*d.events = append(*d.events, e)
	return nil
}

func (d *captureDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func newScanFixture(tickets []domain.Ticket, rules []domain.EscalationRule, leads []domain.DepartmentMember, cfg config.WorkerConfig) *scanFixture {
	f := &scanFixture{}
	f.monitor = NewSLAMonitor(SLAMonitorDependencies{
		TicketRepo: &mocks.MockTicketRepository{
			ListOpenForScanFunc: func(ctx context.Context, limit int) ([]domain.Ticket, error) {
				out := make([]domain.Ticket, len(tickets))
				copy(out, tickets)
				return out, nil
			},
			UpdateFunc: func(ctx context.Context, ticket *domain.Ticket) error {
				f.updated = append(f.updated, ticket)
				return nil
			},
		},
		MemberRepo: &mocks.MockMemberRepository{
			ListByDepartmentRoleFunc: func(ctx context.Context, departmentID string, minRole domain.MemberRole) ([]domain.DepartmentMember, error) {
				return leads, nil
			},
		},
		EscalationRepo: &mocks.MockEscalationRepository{
			ListActiveFunc: func(ctx context.Context) ([]domain.EscalationRule, error) {
				return rules, nil
			},
		},
		HistoryRepo: &mocks.MockHistoryRepository{
			CreateFunc: func(ctx context.Context, entry *domain.TicketHistory) error {
				f.history = append(f.history, entry)
				return nil
			},
		},
		SLA:        service.NewSLAService(&mocks.MockSLARepository{}),
		Dispatcher: &captureDispatcher{events: &f.published},
	}, zap.NewNop(), cfg)
	return f
}

func (f *scanFixture) historyActions() []domain.HistoryAction {
	var actions []domain.HistoryAction
	for _, h := range f.history {
		actions = append(actions, h.Action)
	}
	return actions
}

func (f *scanFixture) publishedTypes() []events.EventType {
	var types []events.EventType
	for _, e := range f.published {
		types = append(types, e.Type)
	}
	return types
}

func TestScanFlagsSLABreach(t *testing.T) {
	now := mocks.Now()
	deadline := now.Add(-time.Hour)
	ticket := domain.Ticket{
		ID:                  "t-1",
		Title:               "Mail queue stuck",
		RequesterID:         "requester",
		Status:              domain.TicketStatusOpen,
		SLAResponseDeadline: &deadline,
		CreatedAt:           now.Add(-5 * time.Hour),
	}
	f := newScanFixture([]domain.Ticket{ticket}, nil, nil, config.WorkerConfig{ScanIntervalSeconds: 60})

	err := f.monitor.Scan(context.Background(), now)
	assert.NoError(t, err)
	assert.Len(t, f.updated, 1)
	assert.True(t, f.updated[0].SLAResponseBreached)
	assert.Equal(t, []domain.HistoryAction{domain.HistorySLABreached}, f.historyActions())
}

func TestScanAppliesEscalationRules(t *testing.T) {
	now := mocks.Now()
	dept := "dept-1"
	leads := []domain.DepartmentMember{
		{UserID: "lead-1", DepartmentID: dept, Role: domain.MemberRoleLead, IsActive: true},
	}

	t.Run("breach rule escalates and notifies leads", func(t *testing.T) {
		deadline := now.Add(-time.Hour)
		ticket := domain.Ticket{
			ID:                    "t-1",
			Title:                 "Core switch down",
			RequesterID:           "requester",
			DepartmentID:          &dept,
			Status:                domain.TicketStatusInProgress,
			SLAResolutionDeadline: &deadline,
			CreatedAt:             now.Add(-10 * time.Hour),
		}
		rules := []domain.EscalationRule{{
			ID: "r-1", Name: "breach", Trigger: domain.TriggerSLABreach,
			EscalateToRole: domain.MemberRoleLead, SendNotification: true, IsActive: true,
		}}
		f := newScanFixture([]domain.Ticket{ticket}, rules, leads, config.WorkerConfig{ScanIntervalSeconds: 60})

		assert.NoError(t, f.monitor.Scan(context.Background(), now))
		assert.Len(t, f.updated, 1)
		escalated := f.updated[0]
		assert.Equal(t, 1, escalated.EscalationLevel)
		assert.NotNil(t, escalated.LastEscalatedAt)
		assert.Equal(t, "lead-1", *escalated.EscalatedToID)
		assert.Equal(t, []events.EventType{events.EventTicketEscalated}, f.publishedTypes())
		payload := f.published[0].Payload.(events.TicketEscalatedPayload)
		assert.Equal(t, []string{"lead-1"}, payload.NotifyUserIDs)
	})

	t.Run("breach rule quiet when nothing newly breached", func(t *testing.T) {
		ticket := domain.Ticket{
			ID: "t-1", RequesterID: "requester", DepartmentID: &dept,
			Status:    domain.TicketStatusOpen,
			CreatedAt: now.Add(-10 * time.Hour),
		}
		rules := []domain.EscalationRule{{
			ID: "r-1", Name: "breach", Trigger: domain.TriggerSLABreach,
			EscalateToRole: domain.MemberRoleLead, SendNotification: true, IsActive: true,
		}}
		f := newScanFixture([]domain.Ticket{ticket}, rules, leads, config.WorkerConfig{ScanIntervalSeconds: 60})

		assert.NoError(t, f.monitor.Scan(context.Background(), now))
		assert.Empty(t, f.updated)
		assert.Empty(t, f.published)
	})

	t.Run("time based rule fires once past the threshold", func(t *testing.T) {
		threshold := 24
		rules := []domain.EscalationRule{{
			ID: "r-2", Name: "stale", Trigger: domain.TriggerTimeBased,
			HoursThreshold: &threshold, EscalateToRole: domain.MemberRoleLead,
			SendNotification: true, IsActive: true,
		}}
		stale := domain.Ticket{
			ID: "t-old", Title: "Forgotten request", RequesterID: "requester",
			DepartmentID: &dept, Status: domain.TicketStatusOpen,
			CreatedAt: now.Add(-30 * time.Hour),
		}
		f := newScanFixture([]domain.Ticket{stale}, rules, leads, config.WorkerConfig{ScanIntervalSeconds: 60})
		assert.NoError(t, f.monitor.Scan(context.Background(), now))
		assert.Len(t, f.updated, 1)
		assert.Equal(t, 1, f.updated[0].EscalationLevel)

		// An already escalated ticket is left alone.
		already := stale
		already.LastEscalatedAt = &now
		already.EscalationLevel = 1
		f = newScanFixture([]domain.Ticket{already}, rules, leads, config.WorkerConfig{ScanIntervalSeconds: 60})
		assert.NoError(t, f.monitor.Scan(context.Background(), now))
		assert.Empty(t, f.updated)
	})

	t.Run("fresh ticket below the threshold is left alone", func(t *testing.T) {
		threshold := 24
		rules := []domain.EscalationRule{{
			ID: "r-2", Name: "stale", Trigger: domain.TriggerTimeBased,
			HoursThreshold: &threshold, EscalateToRole: domain.MemberRoleLead,
			SendNotification: true, IsActive: true,
		}}
		fresh := domain.Ticket{
			ID: "t-new", RequesterID: "requester", DepartmentID: &dept,
			Status: domain.TicketStatusOpen, CreatedAt: now.Add(-2 * time.Hour),
		}
		f := newScanFixture([]domain.Ticket{fresh}, rules, leads, config.WorkerConfig{ScanIntervalSeconds: 60})
		assert.NoError(t, f.monitor.Scan(context.Background(), now))
		assert.Empty(t, f.updated)
	})
}

func TestScanHandlesOverdueTickets(t *testing.T) {
	dept := "dept-1"
	now := mocks.Now()

	t.Run("overdue notification fires in the crossing window", func(t *testing.T) {
		due := now.Add(-30 * time.Second)
		ticket := domain.Ticket{
			ID: "t-1", Title: "Late already", RequesterID: "requester",
			DepartmentID: &dept, Status: domain.TicketStatusInProgress,
			DueDate: &due, CreatedAt: now.Add(-24 * time.Hour),
		}
		f := newScanFixture([]domain.Ticket{ticket}, nil, nil, config.WorkerConfig{ScanIntervalSeconds: 60, OverdueGraceHours: 48})

		assert.NoError(t, f.monitor.Scan(context.Background(), now))
		assert.Equal(t, []events.EventType{events.EventTicketOverdue}, f.publishedTypes())
		// not yet past grace, no state change
		assert.Empty(t, f.updated)
	})

	t.Run("long overdue ticket does not re-notify", func(t *testing.T) {
		due := now.Add(-3 * time.Hour)
		ticket := domain.Ticket{
			ID: "t-1", RequesterID: "requester", DepartmentID: &dept,
			Status: domain.TicketStatusInProgress, DueDate: &due,
			CreatedAt: now.Add(-24 * time.Hour),
		}
		f := newScanFixture([]domain.Ticket{ticket}, nil, nil, config.WorkerConfig{ScanIntervalSeconds: 60, OverdueGraceHours: 48})

		assert.NoError(t, f.monitor.Scan(context.Background(), now))
		assert.Empty(t, f.published)
	})

	t.Run("expires after the grace window", func(t *testing.T) {
		due := now.Add(-50 * time.Hour)
		ticket := domain.Ticket{
			ID: "t-1", Title: "Abandoned", RequesterID: "requester",
			DepartmentID: &dept, Status: domain.TicketStatusOpen,
			DueDate: &due, CreatedAt: now.Add(-60 * time.Hour),
		}
		f := newScanFixture([]domain.Ticket{ticket}, nil, nil, config.WorkerConfig{ScanIntervalSeconds: 60, OverdueGraceHours: 48})

		assert.NoError(t, f.monitor.Scan(context.Background(), now))
		assert.Len(t, f.updated, 1)
		assert.Equal(t, domain.TicketStatusExpired, f.updated[0].Status)
		assert.Equal(t, []events.EventType{events.EventTicketStatusChanged}, f.publishedTypes())
		payload := f.published[0].Payload.(events.TicketStatusChangedPayload)
		assert.Equal(t, domain.TicketStatusExpired, payload.NewStatus)
	})

	t.Run("zero grace never expires", func(t *testing.T) {
		due := now.Add(-100 * time.Hour)
		ticket := domain.Ticket{
			ID: "t-1", RequesterID: "requester", Status: domain.TicketStatusOpen,
			DueDate: &due, CreatedAt: now.Add(-120 * time.Hour),
		}
		f := newScanFixture([]domain.Ticket{ticket}, nil, nil, config.WorkerConfig{ScanIntervalSeconds: 60})

		assert.NoError(t, f.monitor.Scan(context.Background(), now))
		assert.Empty(t, f.updated)
	})
}
