package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/helpdeskd/helpdesk/internal/auth"
	"github.com/helpdeskd/helpdesk/internal/domain"
	"github.com/helpdeskd/helpdesk/internal/repository"
	apperrors "github.com/helpdeskd/helpdesk/pkg/util"
)

// DepartmentService manages departments, memberships, SLA policies and
// escalation rules. Everything here is superuser territory except reads.
type DepartmentService struct {
	departments repository.DepartmentRepository
	members     repository.MemberRepository
	users       repository.UserRepository
	policies    repository.SLARepository
	escalations repository.EscalationRepository
}

// OrgDependencies encapsulates repositories for org management.
type OrgDependencies struct {
	DepartmentRepo repository.DepartmentRepository
	MemberRepo     repository.MemberRepository
	UserRepo       repository.UserRepository
	SLARepo        repository.SLARepository
	EscalationRepo repository.EscalationRepository
}

// NewDepartmentService constructs the service.
func NewDepartmentService(deps OrgDependencies) *DepartmentService {
	return &DepartmentService{
		departments: deps.DepartmentRepo,
		members:     deps.MemberRepo,
		users:       deps.UserRepo,
		policies:    deps.SLARepo,
		escalations: deps.EscalationRepo,
	}
}

func requireSuperuser(principal *auth.Principal) error {
	if principal == nil || !principal.User.IsSuperuser {
		return apperrors.NewForbidden("superuser required")
	}
	return nil
}

// DepartmentInput carries creation/update fields.
type DepartmentInput struct {
	Name        string
	Code        string
	Description string
	Email       string
}

// MemberInput carries membership fields.
type MemberInput struct {
	Role             domain.MemberRole
	CanAssignTickets bool
	CanCloseTickets  bool
	CanDeleteTickets bool
}

// CreateDepartment creates a new department.
func (s *DepartmentService) CreateDepartment(ctx context.Context, principal *auth.Principal, input DepartmentInput) (*domain.Department, error) {
	if err := requireSuperuser(principal); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if name == "" || code == "" {
		return nil, apperrors.NewValidationError("name and code are required", nil)
	}
	if _, err := s.departments.GetByCode(ctx, code); err == nil {
		return nil, apperrors.NewConflict("department code already in use", map[string]any{"code": code})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	dept := &domain.Department{
		Name:        name,
		Code:        code,
		Description: strings.TrimSpace(input.Description),
		Email:       strings.TrimSpace(input.Email),
		IsActive:    true,
	}
	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, apperrors.MapError(err)
	}
	return dept, nil
}

// UpdateDepartment modifies department metadata.
func (s *DepartmentService) UpdateDepartment(ctx context.Context, principal *auth.Principal, id string, input DepartmentInput, isActive *bool) (*domain.Department, error) {
	if err := requireSuperuser(principal); err != nil {
		return nil, err
	}
	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("department", map[string]any{"department_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		dept.Name = name
	}
	if input.Description != "" {
		dept.Description = strings.TrimSpace(input.Description)
	}
	if input.Email != "" {
		dept.Email = strings.TrimSpace(input.Email)
	}
	if isActive != nil {
		dept.IsActive = *isActive
	}
	if err := s.departments.Update(ctx, dept); err != nil {
		return nil, apperrors.MapError(err)
	}
	return dept, nil
}

// ListDepartments returns active departments. Any authenticated user may
// list them to route a ticket.
func (s *DepartmentService) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	departments, err := s.departments.ListActive(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return departments, nil
}

// GetDepartment fetches one department with its member roster.
func (s *DepartmentService) GetDepartment(ctx context.Context, id string) (*domain.Department, []domain.DepartmentMember, error) {
	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("department", map[string]any{"department_id": id})
		}
		return nil, nil, apperrors.MapError(err)
	}
	members, err := s.members.ListByDepartment(ctx, id)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return dept, members, nil
}

// AddMember adds a user to a department.
func (s *DepartmentService) AddMember(ctx context.Context, principal *auth.Principal, departmentID, userID string, input MemberInput) (*domain.DepartmentMember, error) {
	if err := requireSuperuser(principal); err != nil {
		return nil, err
	}
	if _, err := s.departments.GetByID(ctx, departmentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("department", map[string]any{"department_id": departmentID})
		}
		return nil, apperrors.MapError(err)
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	if !user.Active {
		return nil, apperrors.NewConflict("user inactive", map[string]any{"user_id": userID})
	}
	if _, err := s.members.Get(ctx, userID, departmentID); err == nil {
		return nil, apperrors.NewConflict("user already a member", map[string]any{"user_id": userID})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	role := input.Role
	if role == "" {
		role = domain.MemberRoleMember
	}
	member := &domain.DepartmentMember{
		UserID:           userID,
		DepartmentID:     departmentID,
		Role:             role,
		IsActive:         true,
		CanAssignTickets: input.CanAssignTickets || role.IsLeadOrHigher(),
		CanCloseTickets:  input.CanCloseTickets || role.IsLeadOrHigher(),
		CanDeleteTickets: input.CanDeleteTickets,
	}
	if err := s.members.Add(ctx, member); err != nil {
		return nil, apperrors.MapError(err)
	}
	return member, nil
}

// UpdateMember changes a membership's role or permission flags.
func (s *DepartmentService) UpdateMember(ctx context.Context, principal *auth.Principal, departmentID, userID string, input MemberInput, isActive *bool) (*domain.DepartmentMember, error) {
	if err := requireSuperuser(principal); err != nil {
		return nil, err
	}
	member, err := s.members.Get(ctx, userID, departmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("membership", map[string]any{
				"user_id": userID, "department_id": departmentID,
			})
		}
		return nil, apperrors.MapError(err)
	}
	if input.Role != "" {
		member.Role = input.Role
	}
	member.CanAssignTickets = input.CanAssignTickets || member.Role.IsLeadOrHigher()
	member.CanCloseTickets = input.CanCloseTickets || member.Role.IsLeadOrHigher()
	member.CanDeleteTickets = input.CanDeleteTickets
	if isActive != nil {
		member.IsActive = *isActive
	}
	if err := s.members.Update(ctx, member); err != nil {
		return nil, apperrors.MapError(err)
	}
	return member, nil
}

// RemoveMember removes a user from a department.
func (s *DepartmentService) RemoveMember(ctx context.Context, principal *auth.Principal, departmentID, userID string) error {
	if err := requireSuperuser(principal); err != nil {
		return err
	}
	return apperrors.MapError(s.members.Remove(ctx, userID, departmentID))
}

// SLAPolicyInput carries SLA policy creation fields.
type SLAPolicyInput struct {
	Name            string
	Description     string
	Priority        *domain.TicketPriority
	DepartmentID    *string
	ResponseHours   int
	ResolutionHours int
}

// CreateSLAPolicy registers a new policy.
func (s *DepartmentService) CreateSLAPolicy(ctx context.Context, principal *auth.Principal, input SLAPolicyInput) (*domain.SLAPolicy, error) {
	if err := requireSuperuser(principal); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	if input.ResponseHours <= 0 || input.ResolutionHours <= 0 {
		return nil, apperrors.NewValidationError("response and resolution hours must be positive", nil)
	}
	if input.Priority != nil && !domain.ValidPriority(*input.Priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": *input.Priority})
	}
	if input.DepartmentID != nil {
		if _, err := s.departments.GetByID(ctx, *input.DepartmentID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("department", map[string]any{"department_id": *input.DepartmentID})
			}
			return nil, apperrors.MapError(err)
		}
	}

	policy := &domain.SLAPolicy{
		Name:            strings.TrimSpace(input.Name),
		Description:     strings.TrimSpace(input.Description),
		Priority:        input.Priority,
		DepartmentID:    input.DepartmentID,
		ResponseHours:   input.ResponseHours,
		ResolutionHours: input.ResolutionHours,
		IsActive:        true,
	}
	if err := s.policies.Create(ctx, policy); err != nil {
		return nil, apperrors.MapError(err)
	}
	return policy, nil
}

// ListSLAPolicies returns active policies.
func (s *DepartmentService) ListSLAPolicies(ctx context.Context) ([]domain.SLAPolicy, error) {
	policies, err := s.policies.ListActive(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return policies, nil
}

// EscalationRuleInput carries escalation rule creation fields.
type EscalationRuleInput struct {
	Name             string
	Description      string
	Trigger          domain.EscalationTrigger
	HoursThreshold   *int
	Priority         *domain.TicketPriority
	DepartmentID     *string
	EscalateToRole   domain.MemberRole
	SendNotification bool
}

// CreateEscalationRule registers a new rule for the SLA worker.
func (s *DepartmentService) CreateEscalationRule(ctx context.Context, principal *auth.Principal, input EscalationRuleInput) (*domain.EscalationRule, error) {
	if err := requireSuperuser(principal); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	if input.Trigger != domain.TriggerSLABreach && input.Trigger != domain.TriggerTimeBased {
		return nil, apperrors.NewValidationError("unknown trigger", map[string]any{"trigger": input.Trigger})
	}
	if input.Trigger == domain.TriggerTimeBased && (input.HoursThreshold == nil || *input.HoursThreshold <= 0) {
		return nil, apperrors.NewValidationError("time based rules need a positive hours threshold", nil)
	}

	role := input.EscalateToRole
	if role == "" {
		role = domain.MemberRoleLead
	}
	rule := &domain.EscalationRule{
		Name:             strings.TrimSpace(input.Name),
		Description:      strings.TrimSpace(input.Description),
		Trigger:          input.Trigger,
		HoursThreshold:   input.HoursThreshold,
		Priority:         input.Priority,
		DepartmentID:     input.DepartmentID,
		EscalateToRole:   role,
		SendNotification: input.SendNotification,
		IsActive:         true,
	}
	if err := s.escalations.Create(ctx, rule); err != nil {
		return nil, apperrors.MapError(err)
	}
	return rule, nil
}

// ListEscalationRules returns active escalation rules.
func (s *DepartmentService) ListEscalationRules(ctx context.Context) ([]domain.EscalationRule, error) {
	rules, err := s.escalations.ListActive(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return rules, nil
}
