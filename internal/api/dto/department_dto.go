package dto

import (
	"time"

	"github.com/helpdeskd/helpdesk/internal/domain"
)

// CreateDepartmentRequest payload.
type CreateDepartmentRequest struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Email       string `json:"email"`
}

// UpdateDepartmentRequest payload.
type UpdateDepartmentRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Email       string `json:"email"`
	IsActive    *bool  `json:"is_active"`
}

// MemberRequest payload for adding or updating a membership.
type MemberRequest struct {
	UserID           string            `json:"user_id"`
	Role             domain.MemberRole `json:"role"`
	CanAssignTickets bool              `json:"can_assign_tickets"`
	CanCloseTickets  bool              `json:"can_close_tickets"`
	CanDeleteTickets bool              `json:"can_delete_tickets"`
	IsActive         *bool             `json:"is_active"`
}

// DepartmentResponse response.
type DepartmentResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description,omitempty"`
	Email       string    `json:"email,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// MemberResponse response.
type MemberResponse struct {
	UserID           string            `json:"user_id"`
	DepartmentID     string            `json:"department_id"`
	Role             domain.MemberRole `json:"role"`
	IsActive         bool              `json:"is_active"`
	CanAssignTickets bool              `json:"can_assign_tickets"`
	CanCloseTickets  bool              `json:"can_close_tickets"`
	CanDeleteTickets bool              `json:"can_delete_tickets"`
	JoinedAt         time.Time         `json:"joined_at"`
}

// CreateSLAPolicyRequest payload.
type CreateSLAPolicyRequest struct {
	Name            string                 `json:"name"`
	Description     string                 `json:"description"`
	Priority        *domain.TicketPriority `json:"priority"`
	DepartmentID    *string                `json:"department_id"`
	ResponseHours   int                    `json:"response_hours"`
	ResolutionHours int                    `json:"resolution_hours"`
}

// SLAPolicyResponse response.
type SLAPolicyResponse struct {
	ID              string                 `json:"id"`
	Name            string                 `json:"name"`
	Description     string                 `json:"description,omitempty"`
	Priority        *domain.TicketPriority `json:"priority"`
	DepartmentID    *string                `json:"department_id"`
	ResponseHours   int                    `json:"response_hours"`
	ResolutionHours int                    `json:"resolution_hours"`
	IsActive        bool                   `json:"is_active"`
}

// CreateEscalationRuleRequest payload.
type CreateEscalationRuleRequest struct {
	Name             string                   `json:"name"`
	Description      string                   `json:"description"`
	Trigger          domain.EscalationTrigger `json:"trigger"`
	HoursThreshold   *int                     `json:"hours_threshold"`
	Priority         *domain.TicketPriority   `json:"priority"`
	DepartmentID     *string                  `json:"department_id"`
	EscalateToRole   domain.MemberRole        `json:"escalate_to_role"`
	SendNotification bool                     `json:"send_notification"`
}

// EscalationRuleResponse response.
type EscalationRuleResponse struct {
	ID               string                   `json:"id"`
	Name             string                   `json:"name"`
	Description      string                   `json:"description,omitempty"`
	Trigger          domain.EscalationTrigger `json:"trigger"`
	HoursThreshold   *int                     `json:"hours_threshold"`
	Priority         *domain.TicketPriority   `json:"priority"`
	DepartmentID     *string                  `json:"department_id"`
	EscalateToRole   domain.MemberRole        `json:"escalate_to_role"`
	SendNotification bool                     `json:"send_notification"`
	IsActive         bool                     `json:"is_active"`
}

// NewDepartmentResponse maps a domain department.
func NewDepartmentResponse(d *domain.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:          d.ID,
		Name:        d.Name,
		Code:        d.Code,
		Description: d.Description,
		Email:       d.Email,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt,
	}
}

// NewMemberResponse maps a membership.
func NewMemberResponse(m *domain.DepartmentMember) MemberResponse {
	return MemberResponse{
		UserID:           m.UserID,
		DepartmentID:     m.DepartmentID,
		Role:             m.Role,
		IsActive:         m.IsActive,
		CanAssignTickets: m.CanAssignTickets,
		CanCloseTickets:  m.CanCloseTickets,
		CanDeleteTickets: m.CanDeleteTickets,
		JoinedAt:         m.JoinedAt,
	}
}

// NewSLAPolicyResponse maps a policy.
func NewSLAPolicyResponse(p *domain.SLAPolicy) SLAPolicyResponse {
	return SLAPolicyResponse{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Priority:        p.Priority,
		DepartmentID:    p.DepartmentID,
		ResponseHours:   p.ResponseHours,
		ResolutionHours: p.ResolutionHours,
		IsActive:        p.IsActive,
	}
}

// NewEscalationRuleResponse maps a rule.
func NewEscalationRuleResponse(r *domain.EscalationRule) EscalationRuleResponse {
	return EscalationRuleResponse{
		ID:               r.ID,
		Name:             r.Name,
		Description:      r.Description,
		Trigger:          r.Trigger,
		HoursThreshold:   r.HoursThreshold,
		Priority:         r.Priority,
		DepartmentID:     r.DepartmentID,
		EscalateToRole:   r.EscalateToRole,
		SendNotification: r.SendNotification,
		IsActive:         r.IsActive,
	}
}
