package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/helpdeskd/helpdesk/internal/config"
	"github.com/helpdeskd/helpdesk/internal/domain"
	"github.com/helpdeskd/helpdesk/internal/events"
	"github.com/helpdeskd/helpdesk/internal/service/mocks"
)

type notificationFixture struct {
	svc      *NotificationService
	created  []*domain.Notification
	emailIDs []string
}

func newNotificationFixture(users map[string]*domain.User, members *mocks.MockMemberRepository, emailFrom string) *notificationFixture {
	f := &notificationFixture{}
	repo := &mocks.MockNotificationRepository{
		CreateFunc: func(ctx context.Context, notification *domain.Notification) error {
			notification.ID = "n-" + notification.UserID
			f.created = append(f.created, notification)
			return nil
		},
		MarkEmailSentFunc: func(ctx context.Context, id string) error {
			f.emailIDs = append(f.emailIDs, id)
			return nil
		},
	}
	userRepo := &mocks.MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*domain.User, error) {
			if user, ok := users[id]; ok {
				return user, nil
			}
			return nil, assert.AnError
		},
	}
	if members == nil {
		members = &mocks.MockMemberRepository{}
	}
	f.svc = NewNotificationService(NotificationDependencies{
		NotificationRepo: repo,
		UserRepo:         userRepo,
		MemberRepo:       members,
	}, zap.NewNop(), config.NotificationConfig{EmailFrom: emailFrom})
	return f
}

func (f *notificationFixture) recipients() []string {
	var ids []string
	for _, n := range f.created {
		ids = append(ids, n.UserID)
	}
	return ids
}

func TestNotifyOnTicketCreated(t *testing.T) {
	ctx := context.Background()
	dept := "dept-1"
	users := map[string]*domain.User{
		"lead-1":    {ID: "lead-1", Active: true},
		"agent-1":   {ID: "agent-1", Active: true},
		"agent-2":   {ID: "agent-2", Active: false},
		"requester": {ID: "requester", Active: true},
	}
	members := &mocks.MockMemberRepository{
		ListByDepartmentFunc: func(ctx context.Context, departmentID string) ([]domain.DepartmentMember, error) {
			return []domain.DepartmentMember{
				{UserID: "lead-1", DepartmentID: departmentID, Role: domain.MemberRoleLead, IsActive: true},
				{UserID: "agent-1", DepartmentID: departmentID, Role: domain.MemberRoleMember, IsActive: true},
				{UserID: "agent-2", DepartmentID: departmentID, Role: domain.MemberRoleMember, IsActive: true},
				{UserID: "gone", DepartmentID: departmentID, Role: domain.MemberRoleMember, IsActive: false},
				{UserID: "requester", DepartmentID: departmentID, Role: domain.MemberRoleMember, IsActive: true},
			}, nil
		},
	}
	f := newNotificationFixture(users, members, "")
	f.svc.RegisterHandlers()

	err := f.svc.handleTicketCreated(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: "t-1",
		ActorID:  "requester",
		Payload: events.TicketCreatedPayload{
			Title:        "VPN down",
			RequesterID:  "requester",
			DepartmentID: &dept,
			Priority:     domain.TicketPriorityHigh,
		},
	})
	assert.NoError(t, err)
	// every active member hears, regardless of role; the creator, the
	// suspended membership and the deactivated account are skipped
	assert.Equal(t, []string{"lead-1", "agent-1"}, f.recipients())
	assert.Equal(t, domain.NotifyTicketCreated, f.created[0].Type)
}

func TestNotifySkipsActor(t *testing.T) {
	ctx := context.Background()
	users := map[string]*domain.User{
		"requester": {ID: "requester", Active: true},
	}
	f := newNotificationFixture(users, nil, "")

	err := f.svc.handleStatusChanged(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: "t-1",
		ActorID:  "requester",
		Payload: events.TicketStatusChangedPayload{
			Title:       "VPN down",
			RequesterID: "requester",
			OldStatus:   domain.TicketStatusOpen,
			NewStatus:   domain.TicketStatusInProgress,
		},
	})
	assert.NoError(t, err)
	assert.Empty(t, f.created)
}

func TestNotifyOnResolvedUsesResolvedKind(t *testing.T) {
	ctx := context.Background()
	users := map[string]*domain.User{
		"requester": {ID: "requester", Active: true},
	}
	f := newNotificationFixture(users, nil, "")

	err := f.svc.handleStatusChanged(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: "t-1",
		ActorID:  "agent-1",
		Payload: events.TicketStatusChangedPayload{
			Title:       "VPN down",
			RequesterID: "requester",
			OldStatus:   domain.TicketStatusInProgress,
			NewStatus:   domain.TicketStatusResolved,
		},
	})
	assert.NoError(t, err)
	assert.Len(t, f.created, 1)
	assert.Equal(t, domain.NotifyTicketResolved, f.created[0].Type)
	assert.Equal(t, "Your ticket was resolved.", f.created[0].Message)
}

func TestNotifyOnReopenIncludesCloser(t *testing.T) {
	ctx := context.Background()
	closer := "agent-1"
	users := map[string]*domain.User{
		"requester": {ID: "requester", Active: true},
		"agent-1":   {ID: "agent-1", Active: true},
	}
	f := newNotificationFixture(users, nil, "")

	err := f.svc.handleStatusChanged(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: "t-1",
		ActorID:  "requester", // the requester reopens, so only the closer hears
		Payload: events.TicketStatusChangedPayload{
			Title:       "VPN down",
			RequesterID: "requester",
			ClosedByID:  &closer,
			OldStatus:   domain.TicketStatusClosed,
			NewStatus:   domain.TicketStatusReopened,
			Comment:     "still broken after the fix",
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"agent-1"}, f.recipients())
	assert.Equal(t, domain.NotifyTicketReopened, f.created[0].Type)
}

func TestNotifyOnAssignment(t *testing.T) {
	ctx := context.Background()
	assignee := "agent-1"
	users := map[string]*domain.User{
		"agent-1":   {ID: "agent-1", Active: true},
		"requester": {ID: "requester", Active: true},
	}

	t.Run("manual assignment notifies both parties", func(t *testing.T) {
		f := newNotificationFixture(users, nil, "")
		err := f.svc.handleAssigned(ctx, events.Event{
			Type:     events.EventTicketAssigned,
			TicketID: "t-1",
			ActorID:  "lead-1",
			Payload: events.TicketAssignedPayload{
				Title:          "VPN down",
				RequesterID:    "requester",
				AssigneeID:     &assignee,
				AssignmentType: domain.AssignmentManual,
			},
		})
		assert.NoError(t, err)
		assert.Equal(t, []string{"agent-1", "requester"}, f.recipients())
	})

	t.Run("self-assignment reads as accepted", func(t *testing.T) {
		f := newNotificationFixture(users, nil, "")
		err := f.svc.handleAssigned(ctx, events.Event{
			Type:     events.EventTicketAssigned,
			TicketID: "t-1",
			ActorID:  "agent-1", // the accepting agent is the actor, so only the requester hears
			Payload: events.TicketAssignedPayload{
				Title:          "VPN down",
				RequesterID:    "requester",
				AssigneeID:     &assignee,
				AssignmentType: domain.AssignmentSelfAssigned,
			},
		})
		assert.NoError(t, err)
		assert.Equal(t, []string{"requester"}, f.recipients())
		assert.Equal(t, "An agent accepted your ticket.", f.created[0].Message)
	})
}

func TestNotifyEmailOptIn(t *testing.T) {
	ctx := context.Background()

	event := events.Event{
		Type:     events.EventTicketCommented,
		TicketID: "t-1",
		ActorID:  "agent-1",
		Payload: events.TicketCommentedPayload{
			Title:       "VPN down",
			RequesterID: "requester",
			BodyPreview: "restarting the gateway",
		},
	}

	t.Run("opted-in user gets the email copy", func(t *testing.T) {
		f := newNotificationFixture(map[string]*domain.User{
			"requester": {ID: "requester", Active: true, EmailNotifications: true, Email: "r@example.com"},
		}, nil, "helpdesk@example.com")
		assert.NoError(t, f.svc.handleCommented(ctx, event))
		assert.Equal(t, []string{"n-requester"}, f.emailIDs)
	})

	t.Run("opted-out user does not", func(t *testing.T) {
		f := newNotificationFixture(map[string]*domain.User{
			"requester": {ID: "requester", Active: true, EmailNotifications: false},
		}, nil, "helpdesk@example.com")
		assert.NoError(t, f.svc.handleCommented(ctx, event))
		assert.Len(t, f.created, 1)
		assert.Empty(t, f.emailIDs)
	})

	t.Run("no sender configured disables email", func(t *testing.T) {
		f := newNotificationFixture(map[string]*domain.User{
			"requester": {ID: "requester", Active: true, EmailNotifications: true},
		}, nil, "")
		assert.NoError(t, f.svc.handleCommented(ctx, event))
		assert.Len(t, f.created, 1)
		assert.Empty(t, f.emailIDs)
	})
}

func TestMarkRead(t *testing.T) {
	ctx := context.Background()
	var markedID string
	var markedRead bool
	repo := &mocks.MockNotificationRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*domain.Notification, error) {
			return &domain.Notification{ID: id, UserID: "owner"}, nil
		},
		MarkReadFunc: func(ctx context.Context, id string, read bool) error {
			markedID = id
			markedRead = read
			return nil
		},
	}
	svc := NewNotificationService(NotificationDependencies{
		NotificationRepo: repo,
		UserRepo:         &mocks.MockUserRepository{},
		MemberRepo:       &mocks.MockMemberRepository{},
	}, zap.NewNop(), config.NotificationConfig{})

	t.Run("owner marks read", func(t *testing.T) {
		err := svc.MarkRead(ctx, "owner", "n-1", true)
		assert.NoError(t, err)
		assert.Equal(t, "n-1", markedID)
		assert.True(t, markedRead)
	})

	t.Run("other user refused", func(t *testing.T) {
		err := svc.MarkRead(ctx, "intruder", "n-1", true)
		assertDomainCode(t, err, "FORBIDDEN")
	})

	t.Run("missing notification", func(t *testing.T) {
		missing := NewNotificationService(NotificationDependencies{
			NotificationRepo: &mocks.MockNotificationRepository{},
			UserRepo:         &mocks.MockUserRepository{},
			MemberRepo:       &mocks.MockMemberRepository{},
		}, zap.NewNop(), config.NotificationConfig{})
		err := missing.MarkRead(ctx, "owner", "n-404", true)
		assertDomainCode(t, err, "NOT_FOUND")
	})
}
