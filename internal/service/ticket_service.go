package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/helpdeskd/helpdesk/internal/auth"
	"github.com/helpdeskd/helpdesk/internal/domain"
	"github.com/helpdeskd/helpdesk/internal/events"
	"github.com/helpdeskd/helpdesk/internal/repository"
	apperrors "github.com/helpdeskd/helpdesk/pkg/util"
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets     repository.TicketRepository
	comments    repository.CommentRepository
	history     repository.TicketHistoryRepository
	departments repository.DepartmentRepository
	categories  repository.CategoryRepository
	ratings     repository.RatingRepository
	sla         *SLAService
	dispatcher  events.Dispatcher
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	CommentRepo    repository.CommentRepository
	HistoryRepo    repository.TicketHistoryRepository
	DepartmentRepo repository.DepartmentRepository
	CategoryRepo   repository.CategoryRepository
	RatingRepo     repository.RatingRepository
	SLA            *SLAService
	Dispatcher     events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:     deps.TicketRepo,
		comments:    deps.CommentRepo,
		history:     deps.HistoryRepo,
		departments: deps.DepartmentRepo,
		categories:  deps.CategoryRepo,
		ratings:     deps.RatingRepo,
		sla:         deps.SLA,
		dispatcher:  deps.Dispatcher,
	}
}

// TicketCreateInput describes the ticket creation payload.
type TicketCreateInput struct {
	Title        string
	Description  string
	Priority     domain.TicketPriority
	DepartmentID *string
	CategoryID   *string
	DueDate      *time.Time
}

// TicketUpdateInput carries optional field updates.
type TicketUpdateInput struct {
	Title       *string
	Description *string
	Priority    *domain.TicketPriority
	CategoryID  *string
	DueDate     *time.Time
}

// AttachmentInput carries attachment metadata for a comment.
type AttachmentInput struct {
	StorageKey string
	FileName   string
	MimeType   string
	SizeBytes  int64
}

// TicketListFilter describes listing parameters before visibility scoping.
type TicketListFilter struct {
	RequesterID  *string
	AssigneeID   *string
	DepartmentID *string
	CategoryID   *string
	Statuses     []domain.TicketStatus
	Priorities   []domain.TicketPriority
	SearchTerm   *string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	Limit        int
	Offset       int
}

// TicketDetail aggregates everything the detail view needs.
type TicketDetail struct {
	Ticket    *domain.Ticket
	Comments  []domain.Comment
	History   []domain.TicketHistory
	Rating    *domain.TicketRating
	SLAStatus domain.SLAStatus
}

// CreateTicket opens a new ticket for the principal. Category falls back to
// keyword suggestion when none is given; SLA deadlines are stamped from the
// resolved policy.
func (s *TicketService) CreateTicket(ctx context.Context, principal *auth.Principal, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" {
		return nil, apperrors.NewValidationError("title is required", nil)
	}
	if input.Priority == "" {
		input.Priority = domain.TicketPriorityMedium
	}
	if !domain.ValidPriority(input.Priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": input.Priority})
	}

	if input.DepartmentID != nil {
		dept, err := s.departments.GetByID(ctx, *input.DepartmentID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("department", map[string]any{"department_id": *input.DepartmentID})
			}
			return nil, apperrors.MapError(err)
		}
		if !dept.IsActive {
			return nil, apperrors.NewConflict("department inactive", map[string]any{"department_id": dept.ID})
		}
	}

	categoryID := input.CategoryID
	if categoryID != nil {
		if _, err := s.categories.GetByID(ctx, *categoryID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("category", map[string]any{"category_id": *categoryID})
			}
			return nil, apperrors.MapError(err)
		}
	} else {
		categoryID = s.suggestCategory(ctx, title+" "+description)
	}

	now := time.Now()
	ticket := &domain.Ticket{
		ExternalKey:    generateTicketKey(),
		Title:          title,
		Description:    description,
		RequesterID:    principal.User.ID,
		DepartmentID:   input.DepartmentID,
		CategoryID:     categoryID,
		Status:         domain.TicketStatusOpen,
		Priority:       input.Priority,
		DueDate:        input.DueDate,
		AssignmentType: domain.AssignmentUnassigned,
	}

	if policy, err := s.sla.ResolvePolicy(ctx, ticket); err == nil && policy != nil {
		s.sla.ApplyDeadlines(ticket, policy, now)
		if ticket.DueDate == nil {
			ticket.DueDate = ticket.SLAResolutionDeadline
		}
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	if err := s.record(ctx, ticket.ID, &principal.User.ID, domain.HistoryCreated, "", "", "", "ticket created"); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  principal.User.ID,
		Payload: events.TicketCreatedPayload{
			Title:        ticket.Title,
			RequesterID:  ticket.RequesterID,
			DepartmentID: ticket.DepartmentID,
			Priority:     ticket.Priority,
		},
	})
	return ticket, nil
}

// ListTickets returns tickets visible to the principal. Superusers see
// everything; everyone else is scoped to their own, their assigned, their
// departments' and unrouted tickets.
func (s *TicketService) ListTickets(ctx context.Context, principal *auth.Principal, filter TicketListFilter) ([]domain.Ticket, error) {
	repoFilter := repository.TicketFilter{
		RequesterID:  filter.RequesterID,
		AssigneeID:   filter.AssigneeID,
		DepartmentID: filter.DepartmentID,
		CategoryID:   filter.CategoryID,
		Statuses:     filter.Statuses,
		Priorities:   filter.Priorities,
		SearchTerm:   filter.SearchTerm,
		CreatedFrom:  filter.CreatedFrom,
		CreatedTo:    filter.CreatedTo,
		Limit:        filter.Limit,
		Offset:       filter.Offset,
	}
	if !principal.User.IsSuperuser {
		userID := principal.User.ID
		repoFilter.AccessUserID = &userID
		repoFilter.AccessDepartmentIDs = principal.DepartmentIDs()
	}
	tickets, err := s.tickets.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// GetTicket loads the detail view, enforcing visibility.
func (s *TicketService) GetTicket(ctx context.Context, principal *auth.Principal, ticketID string) (*TicketDetail, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !principal.CanViewTicket(ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}

	comments, err := s.comments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	history, err := s.history.ListByTicket(ctx, ticket.ID, 50, 0)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	rating, err := s.ratings.GetByTicket(ctx, ticket.ID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	return &TicketDetail{
		Ticket:    ticket,
		Comments:  comments,
		History:   history,
		Rating:    rating,
		SLAStatus: domain.SLAStatusFor(ticket, time.Now()),
	}, nil
}

// UpdateTicket applies field-level edits. A priority change re-resolves the
// SLA policy and restamps deadlines from the creation time.
func (s *TicketService) UpdateTicket(ctx context.Context, principal *auth.Principal, ticketID string, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !principal.CanUpdateTicket(ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	if ticket.Status.IsTerminal() {
		return nil, apperrors.NewConflict("closed tickets cannot be edited", nil)
	}

	actorID := principal.User.ID
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperrors.NewValidationError("title cannot be empty", nil)
		}
		if title != ticket.Title {
			if err := s.record(ctx, ticket.ID, &actorID, domain.HistoryUpdated, "title", ticket.Title, title, ""); err != nil {
				return nil, err
			}
			ticket.Title = title
		}
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description != ticket.Description {
			if err := s.record(ctx, ticket.ID, &actorID, domain.HistoryUpdated, "description", "", "", "description updated"); err != nil {
				return nil, err
			}
			ticket.Description = description
		}
	}
	if input.CategoryID != nil && (ticket.CategoryID == nil || *ticket.CategoryID != *input.CategoryID) {
		if _, err := s.categories.GetByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("category", map[string]any{"category_id": *input.CategoryID})
			}
			return nil, apperrors.MapError(err)
		}
		if err := s.record(ctx, ticket.ID, &actorID, domain.HistoryUpdated, "category_id", strPtrValue(ticket.CategoryID), *input.CategoryID, ""); err != nil {
			return nil, err
		}
		ticket.CategoryID = input.CategoryID
	}
	if input.DueDate != nil && (ticket.DueDate == nil || !ticket.DueDate.Equal(*input.DueDate)) {
		if err := s.record(ctx, ticket.ID, &actorID, domain.HistoryUpdated, "due_date", timePtrValue(ticket.DueDate), input.DueDate.Format(time.RFC3339), ""); err != nil {
			return nil, err
		}
		ticket.DueDate = input.DueDate
	}
	if input.Priority != nil && *input.Priority != ticket.Priority {
		if !domain.ValidPriority(*input.Priority) {
			return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": *input.Priority})
		}
		oldPriority := ticket.Priority
		ticket.Priority = *input.Priority
		if policy, err := s.sla.ResolvePolicy(ctx, ticket); err == nil && policy != nil {
			s.sla.ApplyDeadlines(ticket, policy, ticket.CreatedAt)
		}
		if err := s.record(ctx, ticket.ID, &actorID, domain.HistoryPriorityChanged, "priority", string(oldPriority), string(ticket.Priority), ""); err != nil {
			return nil, err
		}
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketPriorityChanged,
			TicketID: ticket.ID,
			ActorID:  actorID,
			Payload: events.TicketPriorityChangedPayload{
				Title:       ticket.Title,
				RequesterID: ticket.RequesterID,
				OldPriority: oldPriority,
				NewPriority: ticket.Priority,
			},
		})
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// ChangeStatus moves the ticket through the lifecycle. Closing and reopening
// have dedicated flows; this handles the remaining transitions.
func (s *TicketService) ChangeStatus(ctx context.Context, principal *auth.Principal, ticketID string, next domain.TicketStatus) (*domain.Ticket, error) {
	if next == domain.TicketStatusClosed || next == domain.TicketStatusReopened {
		return nil, apperrors.NewValidationError("use the close or reopen operation", map[string]any{"status": next})
	}
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !principal.CanUpdateTicket(ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	if !domain.ValidTransition(ticket.Status, next) {
		return nil, apperrors.NewConflict("invalid status transition", map[string]any{
			"from": ticket.Status, "to": next,
		})
	}

	old := ticket.Status
	ticket.Status = next
	if next == domain.TicketStatusResolved {
		now := time.Now()
		ticket.ResolvedAt = &now
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	actorID := principal.User.ID
	if err := s.record(ctx, ticket.ID, &actorID, domain.HistoryStatusChanged, "status", string(old), string(next), ""); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		ActorID:  actorID,
		Payload: events.TicketStatusChangedPayload{
			Title:       ticket.Title,
			RequesterID: ticket.RequesterID,
			OldStatus:   old,
			NewStatus:   next,
		},
	})
	return ticket, nil
}

// CloseTicket closes the ticket with a mandatory closing comment.
func (s *TicketService) CloseTicket(ctx context.Context, principal *auth.Principal, ticketID, closingComment string) (*domain.Ticket, error) {
	closingComment = strings.TrimSpace(closingComment)
	if closingComment == "" {
		return nil, apperrors.NewValidationError("closing comment is required", nil)
	}
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !principal.CanCloseTicket(ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	if !domain.ValidTransition(ticket.Status, domain.TicketStatusClosed) {
		return nil, apperrors.NewConflict("invalid status transition", map[string]any{
			"from": ticket.Status, "to": domain.TicketStatusClosed,
		})
	}

	actorID := principal.User.ID
	now := time.Now()
	old := ticket.Status
	ticket.Status = domain.TicketStatusClosed
	ticket.ClosedAt = &now
	ticket.ClosedByID = &actorID
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	comment := &domain.Comment{
		TicketID: ticket.ID,
		AuthorID: actorID,
		Kind:     domain.CommentKindClosing,
		Body:     closingComment,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}

	if err := s.record(ctx, ticket.ID, &actorID, domain.HistoryClosed, "status", string(old), string(domain.TicketStatusClosed), closingComment); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		ActorID:  actorID,
		Payload: events.TicketStatusChangedPayload{
			Title:       ticket.Title,
			RequesterID: ticket.RequesterID,
			ClosedByID:  ticket.ClosedByID,
			OldStatus:   old,
			NewStatus:   domain.TicketStatusClosed,
			Comment:     closingComment,
		},
	})
	return ticket, nil
}

// ReopenTicket reopens a resolved or closed ticket. Only the requester or a
// superuser may reopen; the reason lands in the thread as a reopen comment.
func (s *TicketService) ReopenTicket(ctx context.Context, principal *auth.Principal, ticketID, reason string) (*domain.Ticket, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.NewValidationError("reopen reason is required", nil)
	}
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.RequesterID != principal.User.ID && !principal.User.IsSuperuser {
		return nil, apperrors.NewForbidden("only the requester can reopen a ticket")
	}
	if !domain.ValidTransition(ticket.Status, domain.TicketStatusReopened) {
		return nil, apperrors.NewConflict("ticket cannot be reopened from its current status", map[string]any{
			"status": ticket.Status,
		})
	}

	actorID := principal.User.ID
	old := ticket.Status
	closedBy := ticket.ClosedByID
	ticket.Status = domain.TicketStatusReopened
	ticket.ResolvedAt = nil
	ticket.ClosedAt = nil
	ticket.ClosedByID = nil
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	comment := &domain.Comment{
		TicketID: ticket.ID,
		AuthorID: actorID,
		Kind:     domain.CommentKindReopen,
		Body:     reason,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}

	if err := s.record(ctx, ticket.ID, &actorID, domain.HistoryReopened, "status", string(old), string(domain.TicketStatusReopened), reason); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		ActorID:  actorID,
		Payload: events.TicketStatusChangedPayload{
			Title:       ticket.Title,
			RequesterID: ticket.RequesterID,
			ClosedByID:  closedBy,
			OldStatus:   old,
			NewStatus:   domain.TicketStatusReopened,
			Comment:     reason,
		},
	})
	return ticket, nil
}

// AddComment appends a comment to the thread. The first comment from someone
// other than the requester stops the SLA response clock.
func (s *TicketService) AddComment(ctx context.Context, principal *auth.Principal, ticketID, body string, attachment *AttachmentInput) (*domain.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" && attachment == nil {
		return nil, apperrors.NewValidationError("comment body is required", nil)
	}
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !principal.CanViewTicket(ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	if ticket.Status.IsTerminal() {
		return nil, apperrors.NewConflict("closed tickets cannot be commented on", nil)
	}

	actorID := principal.User.ID
	comment := &domain.Comment{
		TicketID: ticket.ID,
		AuthorID: actorID,
		Kind:     domain.CommentKindComment,
		Body:     body,
	}
	if attachment != nil {
		comment.AttachmentKey = &attachment.StorageKey
		comment.AttachmentName = &attachment.FileName
		comment.AttachmentMime = &attachment.MimeType
		comment.AttachmentSize = &attachment.SizeBytes
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}

	if ticket.FirstResponseAt == nil && actorID != ticket.RequesterID {
		now := time.Now()
		ticket.FirstResponseAt = &now
		if err := s.tickets.Update(ctx, ticket); err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	if err := s.record(ctx, ticket.ID, &actorID, domain.HistoryCommented, "", "", "", previewOf(body)); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCommented,
		TicketID: ticket.ID,
		ActorID:  actorID,
		Payload: events.TicketCommentedPayload{
			Title:       ticket.Title,
			RequesterID: ticket.RequesterID,
			AssigneeID:  ticket.AssigneeID,
			CommentID:   comment.ID,
			BodyPreview: previewOf(body),
		},
	})
	return comment, nil
}

// RateTicket records satisfaction feedback. Only the requester may rate,
// only after resolution or closure, and only once.
func (s *TicketService) RateTicket(ctx context.Context, principal *auth.Principal, ticketID string, stars int, feedback string) (*domain.TicketRating, error) {
	if !domain.ValidStars(stars) {
		return nil, apperrors.NewValidationError("stars must be between 1 and 5", map[string]any{"stars": stars})
	}
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.RequesterID != principal.User.ID {
		return nil, apperrors.NewForbidden("only the requester can rate a ticket")
	}
	if ticket.Status != domain.TicketStatusResolved && ticket.Status != domain.TicketStatusClosed {
		return nil, apperrors.NewConflict("ticket must be resolved or closed before rating", map[string]any{
			"status": ticket.Status,
		})
	}
	if _, err := s.ratings.GetByTicket(ctx, ticket.ID); err == nil {
		return nil, apperrors.NewConflict("ticket already rated", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	rating := &domain.TicketRating{
		TicketID: ticket.ID,
		RatedBy:  principal.User.ID,
		Stars:    stars,
		Feedback: strings.TrimSpace(feedback),
	}
	if err := s.ratings.Create(ctx, rating); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketRated,
		TicketID: ticket.ID,
		ActorID:  principal.User.ID,
		Payload: events.TicketRatedPayload{
			Title:      ticket.Title,
			AssigneeID: ticket.AssigneeID,
			Stars:      stars,
			Feedback:   rating.Feedback,
		},
	})
	return rating, nil
}

// DeleteTicket hard-deletes a ticket. Cascades remove the thread and audit
// trail with it.
func (s *TicketService) DeleteTicket(ctx context.Context, principal *auth.Principal, ticketID string) error {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return err
	}
	if !principal.CanDeleteTicket(ticket) {
		return apperrors.NewForbidden("access denied")
	}
	return apperrors.MapError(s.tickets.Delete(ctx, ticketID))
}

// ListHistory returns the paginated audit trail, enforcing visibility.
func (s *TicketService) ListHistory(ctx context.Context, principal *auth.Principal, ticketID string, limit, offset int) ([]domain.TicketHistory, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !principal.CanViewTicket(ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	entries, err := s.history.ListByTicket(ctx, ticketID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// ListCategories returns active categories for ticket classification.
func (s *TicketService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.ListActive(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return categories, nil
}

// suggestCategory picks the active category whose keywords hit the text the
// most. Nil when nothing matches.
func (s *TicketService) suggestCategory(ctx context.Context, text string) *string {
	categories, err := s.categories.ListActive(ctx)
	if err != nil {
		return nil
	}
	lowered := strings.ToLower(text)
	bestHits := 0
	var bestID string
	for _, category := range categories {
		hits := 0
		for _, keyword := range category.Keywords {
			if keyword != "" && strings.Contains(lowered, strings.ToLower(keyword)) {
				hits++
			}
		}
		if hits > bestHits {
			bestHits = hits
			bestID = category.ID
		}
	}
	if bestHits == 0 {
		return nil
	}
	return &bestID
}

func (s *TicketService) loadTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) record(ctx context.Context, ticketID string, actorID *string, action domain.HistoryAction, field, oldValue, newValue, description string) error {
	err := s.history.Create(ctx, &domain.TicketHistory{
		TicketID:    ticketID,
		ChangedByID: actorID,
		Action:      action,
		FieldName:   field,
		OldValue:    oldValue,
		NewValue:    newValue,
		Description: description,
	})
	return apperrors.MapError(err)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func generateTicketKey() string {
	return "HD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// previewOf truncates on a rune boundary so multi-byte text never yields an
// invalid preview.
func previewOf(body string) string {
	const max = 120
	if len(body) <= max {
		return body
	}
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	return string(runes[:max]) + "…"
}

func strPtrValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func timePtrValue(p *time.Time) string {
	if p == nil {
		return ""
	}
	return p.Format(time.RFC3339)
}
