package dto

import (
	"time"

	"github.com/helpdeskd/helpdesk/internal/domain"
	"github.com/helpdeskd/helpdesk/internal/service"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title        string                `json:"title"`
	Description  string                `json:"description"`
	Priority     domain.TicketPriority `json:"priority"`
	DepartmentID *string               `json:"department_id"`
	CategoryID   *string               `json:"category_id"`
	DueDate      *time.Time            `json:"due_date"`
}

// UpdateTicketRequest payload. Absent fields are left untouched.
type UpdateTicketRequest struct {
	Title       *string                `json:"title"`
	Description *string                `json:"description"`
	Priority    *domain.TicketPriority `json:"priority"`
	CategoryID  *string                `json:"category_id"`
	DueDate     *time.Time             `json:"due_date"`
}

// ChangeStatusRequest payload.
type ChangeStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// CloseTicketRequest payload.
type CloseTicketRequest struct {
	Comment string `json:"comment"`
}

// ReopenTicketRequest payload.
type ReopenTicketRequest struct {
	Reason string `json:"reason"`
}

// AssignRequest payload. Exactly one of assignee_id and department_id is set;
// auto triggers deterministic in-department assignment.
type AssignRequest struct {
	AssigneeID   *string `json:"assignee_id"`
	DepartmentID *string `json:"department_id"`
	Auto         bool    `json:"auto"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Body       string             `json:"body"`
	Attachment *AttachmentPayload `json:"attachment"`
}

// AttachmentPayload holds attachment metadata.
type AttachmentPayload struct {
	StorageKey string `json:"storage_key"`
	FileName   string `json:"file_name"`
	MimeType   string `json:"mime_type"`
	SizeBytes  int64  `json:"size_bytes"`
}

// RateTicketRequest payload.
type RateTicketRequest struct {
	Stars    int    `json:"stars"`
	Feedback string `json:"feedback"`
}

// TicketSummary response.
type TicketSummary struct {
	ID              string                `json:"id"`
	ExternalKey     string                `json:"external_key"`
	Title           string                `json:"title"`
	Status          domain.TicketStatus   `json:"status"`
	Priority        domain.TicketPriority `json:"priority"`
	RequesterID     string                `json:"requester_id"`
	DepartmentID    *string               `json:"department_id"`
	CategoryID      *string               `json:"category_id"`
	AssigneeID      *string               `json:"assignee_id"`
	DueDate         *time.Time            `json:"due_date"`
	EscalationLevel int                   `json:"escalation_level"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// TicketDetailResponse provides the full ticket view.
type TicketDetailResponse struct {
	TicketSummary
	Description           string                 `json:"description"`
	AssignmentType        domain.AssignmentType  `json:"assignment_type"`
	SLAStatus             domain.SLAStatus       `json:"sla_status"`
	SLAResponseDeadline   *time.Time             `json:"sla_response_deadline"`
	SLAResolutionDeadline *time.Time             `json:"sla_resolution_deadline"`
	SLAResponseBreached   bool                   `json:"sla_response_breached"`
	SLAResolutionBreached bool                   `json:"sla_resolution_breached"`
	FirstResponseAt       *time.Time             `json:"first_response_at"`
	ResolvedAt            *time.Time             `json:"resolved_at"`
	ClosedAt              *time.Time             `json:"closed_at"`
	ClosedByID            *string                `json:"closed_by_id"`
	Comments              []CommentResponse      `json:"comments"`
	History               []HistoryEntryResponse `json:"history"`
	Rating                *RatingResponse        `json:"rating"`
}

// CommentResponse response.
type CommentResponse struct {
	ID         string             `json:"id"`
	TicketID   string             `json:"ticket_id"`
	AuthorID   string             `json:"author_id"`
	Kind       domain.CommentKind `json:"kind"`
	Body       string             `json:"body"`
	Attachment *AttachmentPayload `json:"attachment,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
}

// HistoryEntryResponse response.
type HistoryEntryResponse struct {
	ID          string               `json:"id"`
	ChangedByID *string              `json:"changed_by_id"`
	Action      domain.HistoryAction `json:"action"`
	FieldName   string               `json:"field_name,omitempty"`
	OldValue    string               `json:"old_value,omitempty"`
	NewValue    string               `json:"new_value,omitempty"`
	Description string               `json:"description,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}

// RatingResponse response.
type RatingResponse struct {
	Stars    int       `json:"stars"`
	Feedback string    `json:"feedback,omitempty"`
	RatedBy  string    `json:"rated_by"`
	RatedAt  time.Time `json:"rated_at"`
}

// CategoryResponse response.
type CategoryResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords"`
}

// NewTicketSummary maps a domain ticket.
func NewTicketSummary(t *domain.Ticket) TicketSummary {
	return TicketSummary{
		ID:              t.ID,
		ExternalKey:     t.ExternalKey,
		Title:           t.Title,
		Status:          t.Status,
		Priority:        t.Priority,
		RequesterID:     t.RequesterID,
		DepartmentID:    t.DepartmentID,
		CategoryID:      t.CategoryID,
		AssigneeID:      t.AssigneeID,
		DueDate:         t.DueDate,
		EscalationLevel: t.EscalationLevel,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

// NewTicketDetail maps the aggregated detail view.
func NewTicketDetail(detail *service.TicketDetail) TicketDetailResponse {
	t := detail.Ticket
	resp := TicketDetailResponse{
		TicketSummary:         NewTicketSummary(t),
		Description:           t.Description,
		AssignmentType:        t.AssignmentType,
		SLAStatus:             detail.SLAStatus,
		SLAResponseDeadline:   t.SLAResponseDeadline,
		SLAResolutionDeadline: t.SLAResolutionDeadline,
		SLAResponseBreached:   t.SLAResponseBreached,
		SLAResolutionBreached: t.SLAResolutionBreached,
		FirstResponseAt:       t.FirstResponseAt,
		ResolvedAt:            t.ResolvedAt,
		ClosedAt:              t.ClosedAt,
		ClosedByID:            t.ClosedByID,
		Comments:              make([]CommentResponse, 0, len(detail.Comments)),
		History:               make([]HistoryEntryResponse, 0, len(detail.History)),
	}
	for i := range detail.Comments {
		resp.Comments = append(resp.Comments, NewCommentResponse(&detail.Comments[i]))
	}
	for i := range detail.History {
		resp.History = append(resp.History, NewHistoryEntryResponse(&detail.History[i]))
	}
	if detail.Rating != nil {
		resp.Rating = &RatingResponse{
			Stars:    detail.Rating.Stars,
			Feedback: detail.Rating.Feedback,
			RatedBy:  detail.Rating.RatedBy,
			RatedAt:  detail.Rating.RatedAt,
		}
	}
	return resp
}

// NewCommentResponse maps a domain comment.
func NewCommentResponse(c *domain.Comment) CommentResponse {
	resp := CommentResponse{
		ID:        c.ID,
		TicketID:  c.TicketID,
		AuthorID:  c.AuthorID,
		Kind:      c.Kind,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
	if c.AttachmentKey != nil {
		resp.Attachment = &AttachmentPayload{
			StorageKey: *c.AttachmentKey,
			FileName:   strOrEmpty(c.AttachmentName),
			MimeType:   strOrEmpty(c.AttachmentMime),
			SizeBytes:  sizeOrZero(c.AttachmentSize),
		}
	}
	return resp
}

// NewHistoryEntryResponse maps an audit entry.
func NewHistoryEntryResponse(h *domain.TicketHistory) HistoryEntryResponse {
	return HistoryEntryResponse{
		ID:          h.ID,
		ChangedByID: h.ChangedByID,
		Action:      h.Action,
		FieldName:   h.FieldName,
		OldValue:    h.OldValue,
		NewValue:    h.NewValue,
		Description: h.Description,
		CreatedAt:   h.CreatedAt,
	}
}

// NewCategoryResponse maps a category.
func NewCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Keywords:    c.Keywords,
	}
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func sizeOrZero(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}
