package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/helpdeskd/helpdesk/internal/config"
	"github.com/helpdeskd/helpdesk/internal/domain"
	"github.com/helpdeskd/helpdesk/internal/events"
	"github.com/helpdeskd/helpdesk/internal/repository"
	apperrors "github.com/helpdeskd/helpdesk/pkg/util"
)

// NotificationService persists in-app notifications for domain events and
// sends the email copy to users who opted in. The actor of an event never
// gets notified about their own action.
type NotificationService struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
	members       repository.MemberRepository
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	cfg           config.NotificationConfig
}

// NotificationDependencies bundles repositories.
type NotificationDependencies struct {
	NotificationRepo repository.NotificationRepository
	UserRepo         repository.UserRepository
	MemberRepo       repository.MemberRepository
	Dispatcher       events.Dispatcher
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		notifications: deps.NotificationRepo,
		users:         deps.UserRepo,
		members:       deps.MemberRepo,
		dispatcher:    deps.Dispatcher,
		logger:        logger,
		cfg:           cfg,
	}
}

// RegisterHandlers subscribes to the event stream.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleStatusChanged)
	n.dispatcher.Subscribe(events.EventTicketPriorityChanged, n.handlePriorityChanged)
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.handleAssigned)
	n.dispatcher.Subscribe(events.EventTicketCommented, n.handleCommented)
	n.dispatcher.Subscribe(events.EventTicketEscalated, n.handleEscalated)
	n.dispatcher.Subscribe(events.EventTicketOverdue, n.handleOverdue)
	n.dispatcher.Subscribe(events.EventTicketRated, n.handleRated)
}

// ListForUser returns a user's notifications, newest first.
func (n *NotificationService) ListForUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	items, err := n.notifications.ListByUser(ctx, userID, unreadOnly, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// UnreadCount returns the unread badge count.
func (n *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	count, err := n.notifications.CountUnread(ctx, userID)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	return count, nil
}

// MarkRead flips the read flag on one of the user's own notifications.
func (n *NotificationService) MarkRead(ctx context.Context, userID, notificationID string, read bool) error {
	notification, err := n.notifications.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("notification", map[string]any{"notification_id": notificationID})
		}
		return apperrors.MapError(err)
	}
	if notification.UserID != userID {
		return apperrors.NewForbidden("access denied")
	}
	return apperrors.MapError(n.notifications.MarkRead(ctx, notificationID, read))
}

// MarkAllRead marks every unread notification for the user and returns how
// many were flipped.
func (n *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	count, err := n.notifications.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	return count, nil
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return nil
	}
	if payload.DepartmentID == nil {
		return nil
	}
	members, err := n.members.ListByDepartment(ctx, *payload.DepartmentID)
	if err != nil {
		n.logger.Warn("notification fan-out failed", zap.Error(err), zap.String("ticket_id", event.TicketID))
		return err
	}
	title := "New ticket: " + payload.Title
	message := fmt.Sprintf("A new %s priority ticket was opened in your department.", strings.ToLower(string(payload.Priority)))
	for _, member := range members {
		if !member.IsActive {
			continue
		}
		n.notify(ctx, member.UserID, event, domain.NotifyTicketCreated, title, message)
	}
	return nil
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return nil
	}
	kind := domain.NotifyTicketUpdated
	message := fmt.Sprintf("Status changed from %s to %s.", payload.OldStatus, payload.NewStatus)
	switch payload.NewStatus {
	case domain.TicketStatusResolved:
		kind = domain.NotifyTicketResolved
		message = "Your ticket was resolved."
	case domain.TicketStatusClosed:
		kind = domain.NotifyTicketClosed
		message = "Your ticket was closed."
	case domain.TicketStatusReopened:
		kind = domain.NotifyTicketReopened
		message = "Your ticket was reopened."
	}
	if payload.Comment != "" {
		message += " " + payload.Comment
	}
	n.notify(ctx, payload.RequesterID, event, kind, payload.Title, message)
	if payload.NewStatus == domain.TicketStatusReopened && payload.ClosedByID != nil {
		n.notify(ctx, *payload.ClosedByID, event, domain.NotifyTicketReopened, payload.Title,
			"A ticket you closed was reopened. "+payload.Comment)
	}
	return nil
}

func (n *NotificationService) handlePriorityChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketPriorityChangedPayload)
	if !ok {
		return nil
	}
	message := fmt.Sprintf("Priority changed from %s to %s.", payload.OldPriority, payload.NewPriority)
	n.notify(ctx, payload.RequesterID, event, domain.NotifyTicketUpdated, payload.Title, message)
	return nil
}

func (n *NotificationService) handleAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketAssignedPayload)
	if !ok {
		return nil
	}
	if payload.AssigneeID != nil {
		n.notify(ctx, *payload.AssigneeID, event, domain.NotifyTicketAssigned, payload.Title, "A ticket was assigned to you.")
	}
	message := "Your ticket was assigned to an agent."
	if payload.AssignmentType == domain.AssignmentSelfAssigned {
		message = "An agent accepted your ticket."
	}
	n.notify(ctx, payload.RequesterID, event, domain.NotifyTicketAccepted, payload.Title, message)
	return nil
}

func (n *NotificationService) handleCommented(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCommentedPayload)
	if !ok {
		return nil
	}
	message := "New comment: " + payload.BodyPreview
	n.notify(ctx, payload.RequesterID, event, domain.NotifyTicketCommented, payload.Title, message)
	if payload.AssigneeID != nil {
		n.notify(ctx, *payload.AssigneeID, event, domain.NotifyTicketCommented, payload.Title, message)
	}
	return nil
}

func (n *NotificationService) handleEscalated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketEscalatedPayload)
	if !ok {
		return nil
	}
	message := fmt.Sprintf("Ticket escalated to level %d: %s", payload.EscalationLevel, payload.Reason)
	for _, userID := range payload.NotifyUserIDs {
		n.notify(ctx, userID, event, domain.NotifySystem, payload.Title, message)
	}
	return nil
}

func (n *NotificationService) handleOverdue(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketOverduePayload)
	if !ok {
		return nil
	}
	message := "The ticket is past its due date."
	n.notify(ctx, payload.RequesterID, event, domain.NotifyTicketOverdue, payload.Title, message)
	if payload.AssigneeID != nil {
		n.notify(ctx, *payload.AssigneeID, event, domain.NotifyTicketOverdue, payload.Title, message)
	}
	return nil
}

func (n *NotificationService) handleRated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketRatedPayload)
	if !ok || payload.AssigneeID == nil {
		return nil
	}
	message := fmt.Sprintf("The requester rated the ticket %d/5.", payload.Stars)
	if payload.Feedback != "" {
		message += " " + payload.Feedback
	}
	n.notify(ctx, *payload.AssigneeID, event, domain.NotifyTicketRated, payload.Title, message)
	return nil
}

// notify persists one notification, skipping the event's actor and inactive
// accounts, then sends the email copy for opted-in users.
func (n *NotificationService) notify(ctx context.Context, userID string, event events.Event, kind domain.NotificationType, title, message string) {
	if userID == "" || userID == event.ActorID {
		return
	}
	user, err := n.users.GetByID(ctx, userID)
	if err != nil || !user.Active {
		return
	}

	ticketID := event.TicketID
	notification := &domain.Notification{
		UserID:   userID,
		TicketID: &ticketID,
		Type:     kind,
		Title:    title,
		Message:  message,
	}
	if err := n.notifications.Create(ctx, notification); err != nil {
		n.logger.Warn("notification create failed", zap.Error(err), zap.String("user_id", userID))
		return
	}

	if user.EmailNotifications && strings.TrimSpace(n.cfg.EmailFrom) != "" {
		n.sendEmail(ctx, user, notification)
	}
}

// sendEmail is the delivery stub. TODO: wire an SMTP client once the mail
// relay for the helpdesk is provisioned.
func (n *NotificationService) sendEmail(ctx context.Context, user *domain.User, notification *domain.Notification) {
	n.logger.Debug("email notification",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", user.Email),
		zap.String("subject", notification.Title))
	if err := n.notifications.MarkEmailSent(ctx, notification.ID); err != nil {
		n.logger.Warn("mark email sent failed", zap.Error(err), zap.String("notification_id", notification.ID))
	}
}
