package service

import (
	"context"
	"time"

	"github.com/helpdeskd/helpdesk/internal/domain"
	"github.com/helpdeskd/helpdesk/internal/repository"
)

// SLAService resolves policies and maintains SLA clocks on tickets.
type SLAService struct {
	policies repository.SLARepository
}

// NewSLAService constructs the service.
func NewSLAService(policies repository.SLARepository) *SLAService {
	return &SLAService{policies: policies}
}

// ResolvePolicy picks the policy for a ticket. Precedence: exact priority and
// department match, then priority-only, then the global default (no scope).
func (s *SLAService) ResolvePolicy(ctx context.Context, ticket *domain.Ticket) (*domain.SLAPolicy, error) {
	policies, err := s.policies.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return pickPolicy(policies, ticket), nil
}

func pickPolicy(policies []domain.SLAPolicy, ticket *domain.Ticket) *domain.SLAPolicy {
	var priorityOnly, global *domain.SLAPolicy
	for i := range policies {
		policy := &policies[i]
		priorityMatch := policy.Priority != nil && *policy.Priority == ticket.Priority
		departmentMatch := policy.DepartmentID != nil &&
			ticket.DepartmentID != nil && *policy.DepartmentID == *ticket.DepartmentID

		switch {
		case priorityMatch && departmentMatch:
			return policy
		case priorityMatch && policy.DepartmentID == nil:
			if priorityOnly == nil {
				priorityOnly = policy
			}
		case policy.Priority == nil && policy.DepartmentID == nil:
			if global == nil {
				global = policy
			}
		}
	}
	if priorityOnly != nil {
		return priorityOnly
	}
	return global
}

// ApplyDeadlines stamps SLA deadlines onto the ticket from the policy.
func (s *SLAService) ApplyDeadlines(ticket *domain.Ticket, policy *domain.SLAPolicy, from time.Time) {
	if policy == nil {
		return
	}
	ticket.SLAPolicyID = &policy.ID
	response := from.Add(time.Duration(policy.ResponseHours) * time.Hour)
	resolution := from.Add(time.Duration(policy.ResolutionHours) * time.Hour)
	ticket.SLAResponseDeadline = &response
	ticket.SLAResolutionDeadline = &resolution
}

// CheckBreach flags newly breached SLA clocks on the ticket and reports
// whether anything changed. Response breach fires when no agent responded
// before the response deadline; resolution breach when the ticket is still
// being worked past the resolution deadline.
func (s *SLAService) CheckBreach(ticket *domain.Ticket, now time.Time) bool {
	changed := false
	if !ticket.SLAResponseBreached &&
		ticket.FirstResponseAt == nil &&
		ticket.SLAResponseDeadline != nil &&
		now.After(*ticket.SLAResponseDeadline) {
		ticket.SLAResponseBreached = true
		changed = true
	}
	if !ticket.SLAResolutionBreached &&
		ticket.Status.IsOpenForWork() &&
		ticket.SLAResolutionDeadline != nil &&
		now.After(*ticket.SLAResolutionDeadline) {
		ticket.SLAResolutionBreached = true
		changed = true
	}
	return changed
}
