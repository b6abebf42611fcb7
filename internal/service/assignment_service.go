package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/helpdeskd/helpdesk/internal/auth"
	"github.com/helpdeskd/helpdesk/internal/domain"
	"github.com/helpdeskd/helpdesk/internal/events"
	"github.com/helpdeskd/helpdesk/internal/repository"
	apperrors "github.com/helpdeskd/helpdesk/pkg/util"
)

// AssignmentService handles ticket routing and assignment.
type AssignmentService struct {
	tickets     repository.TicketRepository
	users       repository.UserRepository
	departments repository.DepartmentRepository
	members     repository.MemberRepository
	history     repository.TicketHistoryRepository
	sla         *SLAService
	dispatcher  events.Dispatcher
}

// AssignmentDependencies bundles repositories.
type AssignmentDependencies struct {
	TicketRepo     repository.TicketRepository
	UserRepo       repository.UserRepository
	DepartmentRepo repository.DepartmentRepository
	MemberRepo     repository.MemberRepository
	HistoryRepo    repository.TicketHistoryRepository
	SLA            *SLAService
	Dispatcher     events.Dispatcher
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		tickets:     deps.TicketRepo,
		users:       deps.UserRepo,
		departments: deps.DepartmentRepo,
		members:     deps.MemberRepo,
		history:     deps.HistoryRepo,
		sla:         deps.SLA,
		dispatcher:  deps.Dispatcher,
	}
}

// AcceptTicket lets a department member pull an unassigned ticket onto
// themselves. Accepting moves the ticket to in-progress.
func (s *AssignmentService) AcceptTicket(ctx context.Context, principal *auth.Principal, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ok, reason := principal.CanAcceptTicket(ticket); !ok {
		return nil, apperrors.NewForbidden(reason)
	}

	actorID := principal.User.ID
	now := time.Now()
	oldStatus := ticket.Status
	ticket.AssigneeID = &actorID
	ticket.AssignmentType = domain.AssignmentSelfAssigned
	ticket.AssignedByID = &actorID
	ticket.AssignedAt = &now
	ticket.Status = domain.TicketStatusInProgress
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	if err := s.recordAssignment(ctx, ticket, &actorID, "", actorID, "self-assigned"); err != nil {
		return nil, err
	}
	if oldStatus != ticket.Status {
		if err := s.recordStatus(ctx, ticket.ID, &actorID, oldStatus, ticket.Status); err != nil {
			return nil, err
		}
	}
	s.publishAssigned(ctx, actorID, ticket)
	return ticket, nil
}

// AssignToUser routes the ticket to a specific agent. The assignee must be
// an active member of the ticket's department.
func (s *AssignmentService) AssignToUser(ctx context.Context, principal *auth.Principal, ticketID, assigneeID string) (*domain.Ticket, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !principal.CanAssignTicket(ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	if !ticket.Status.IsOpenForWork() && ticket.Status != domain.TicketStatusExpired {
		return nil, apperrors.NewConflict("ticket is not open for assignment", map[string]any{"status": ticket.Status})
	}

	assignee, err := s.users.GetByID(ctx, assigneeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": assigneeID})
		}
		return nil, apperrors.MapError(err)
	}
	if !assignee.Active {
		return nil, apperrors.NewConflict("assignee inactive", map[string]any{"user_id": assigneeID})
	}
	if ticket.DepartmentID != nil {
		member, err := s.members.Get(ctx, assignee.ID, *ticket.DepartmentID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewConflict("assignee is not a member of the ticket's department", map[string]any{
					"user_id":       assigneeID,
					"department_id": *ticket.DepartmentID,
				})
			}
			return nil, apperrors.MapError(err)
		}
		if !member.IsActive {
			return nil, apperrors.NewConflict("assignee membership inactive", map[string]any{"user_id": assigneeID})
		}
	}

	actorID := principal.User.ID
	now := time.Now()
	oldAssignee := strPtrValue(ticket.AssigneeID)
	oldStatus := ticket.Status
	ticket.AssigneeID = &assignee.ID
	ticket.AssignmentType = domain.AssignmentManual
	ticket.AssignedByID = &actorID
	ticket.AssignedAt = &now
	if ticket.Status == domain.TicketStatusOpen || ticket.Status == domain.TicketStatusReopened || ticket.Status == domain.TicketStatusExpired {
		ticket.Status = domain.TicketStatusInProgress
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	if err := s.recordAssignment(ctx, ticket, &actorID, oldAssignee, assignee.ID, ""); err != nil {
		return nil, err
	}
	if oldStatus != ticket.Status {
		if err := s.recordStatus(ctx, ticket.ID, &actorID, oldStatus, ticket.Status); err != nil {
			return nil, err
		}
	}
	s.publishAssigned(ctx, actorID, ticket)
	return ticket, nil
}

// AssignToDepartment reroutes the ticket to another department, clearing the
// assignee and restamping SLA deadlines for the new scope.
func (s *AssignmentService) AssignToDepartment(ctx context.Context, principal *auth.Principal, ticketID, departmentID string) (*domain.Ticket, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !principal.CanAssignTicket(ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}

	dept, err := s.departments.GetByID(ctx, departmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("department", map[string]any{"department_id": departmentID})
		}
		return nil, apperrors.MapError(err)
	}
	if !dept.IsActive {
		return nil, apperrors.NewConflict("department inactive", map[string]any{"department_id": departmentID})
	}

	actorID := principal.User.ID
	oldDept := strPtrValue(ticket.DepartmentID)
	ticket.DepartmentID = &dept.ID
	ticket.AssigneeID = nil
	ticket.AssignmentType = domain.AssignmentUnassigned
	ticket.AssignedByID = nil
	ticket.AssignedAt = nil
	if policy, err := s.sla.ResolvePolicy(ctx, ticket); err == nil && policy != nil {
		s.sla.ApplyDeadlines(ticket, policy, ticket.CreatedAt)
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	if err := s.history.Create(ctx, &domain.TicketHistory{
		TicketID:    ticket.ID,
		ChangedByID: &actorID,
		Action:      domain.HistoryAssigned,
		FieldName:   "department_id",
		OldValue:    oldDept,
		NewValue:    dept.ID,
		Description: "routed to " + dept.Name,
	}); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishAssigned(ctx, actorID, ticket)
	return ticket, nil
}

// AutoAssign deterministically picks an active member of the ticket's
// department. A nil principal means a system caller; user-initiated calls
// need the same assignment permission as manual routing. The pick hashes the
// ticket id so retries land on the same agent.
func (s *AssignmentService) AutoAssign(ctx context.Context, principal *auth.Principal, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if principal != nil && !principal.CanAssignTicket(ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	if ticket.DepartmentID == nil {
		return nil, apperrors.NewConflict("ticket has no department to auto-assign within", nil)
	}
	if ticket.AssigneeID != nil {
		return nil, apperrors.NewConflict("ticket is already assigned", nil)
	}

	members, err := s.members.ListByDepartment(ctx, *ticket.DepartmentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	eligible := members[:0]
	for _, member := range members {
		if member.IsActive && member.UserID != ticket.RequesterID {
			eligible = append(eligible, member)
		}
	}
	if len(eligible) == 0 {
		return nil, apperrors.NewConflict("no eligible members in department", map[string]any{
			"department_id": *ticket.DepartmentID,
		})
	}
	sort.Slice(eligible, func(i, j int) bool {
		return eligible[i].JoinedAt.Before(eligible[j].JoinedAt)
	})
	pick := eligible[selectIndex(ticket.ID, len(eligible))]

	actorID := ""
	if principal != nil {
		actorID = principal.User.ID
	}
	now := time.Now()
	oldStatus := ticket.Status
	ticket.AssigneeID = &pick.UserID
	ticket.AssignmentType = domain.AssignmentAuto
	ticket.AssignedAt = &now
	if actorID != "" {
		ticket.AssignedByID = &actorID
	}
	if ticket.Status == domain.TicketStatusOpen || ticket.Status == domain.TicketStatusReopened {
		ticket.Status = domain.TicketStatusInProgress
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	var changedBy *string
	if actorID != "" {
		changedBy = &actorID
	}
	if err := s.recordAssignment(ctx, ticket, changedBy, "", pick.UserID, "auto-assigned"); err != nil {
		return nil, err
	}
	if oldStatus != ticket.Status {
		if err := s.recordStatus(ctx, ticket.ID, changedBy, oldStatus, ticket.Status); err != nil {
			return nil, err
		}
	}
	s.publishAssigned(ctx, actorID, ticket)
	return ticket, nil
}

func selectIndex(key string, length int) int {
	if length == 0 {
		return 0
	}
	sum := 0
	for _, ch := range key {
		sum += int(ch)
	}
	return sum % length
}

func (s *AssignmentService) loadTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *AssignmentService) recordAssignment(ctx context.Context, ticket *domain.Ticket, changedBy *string, oldAssignee, newAssignee, description string) error {
	err := s.history.Create(ctx, &domain.TicketHistory{
		TicketID:    ticket.ID,
		ChangedByID: changedBy,
		Action:      domain.HistoryAssigned,
		FieldName:   "assignee_id",
		OldValue:    oldAssignee,
		NewValue:    newAssignee,
		Description: description,
	})
	return apperrors.MapError(err)
}

func (s *AssignmentService) recordStatus(ctx context.Context, ticketID string, changedBy *string, old, next domain.TicketStatus) error {
	err := s.history.Create(ctx, &domain.TicketHistory{
		TicketID:    ticketID,
		ChangedByID: changedBy,
		Action:      domain.HistoryStatusChanged,
		FieldName:   "status",
		OldValue:    string(old),
		NewValue:    string(next),
	})
	return apperrors.MapError(err)
}

func (s *AssignmentService) publishAssigned(ctx context.Context, actorID string, ticket *domain.Ticket) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketAssigned,
		TicketID:  ticket.ID,
		ActorID:   actorID,
		Timestamp: time.Now(),
		Payload: events.TicketAssignedPayload{
			Title:          ticket.Title,
			RequesterID:    ticket.RequesterID,
			AssigneeID:     ticket.AssigneeID,
			DepartmentID:   ticket.DepartmentID,
			AssignmentType: ticket.AssignmentType,
		},
	})
}
