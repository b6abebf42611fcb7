package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helpdeskd/helpdesk/internal/api/dto"
	"github.com/helpdeskd/helpdesk/internal/service"
	apperrors "github.com/helpdeskd/helpdesk/pkg/util"
)

// DepartmentsHandler exposes org administration endpoints.
type DepartmentsHandler struct {
	org *service.DepartmentService
}

// NewDepartmentsHandler constructs handler.
func NewDepartmentsHandler(orgService *service.DepartmentService) *DepartmentsHandler {
	return &DepartmentsHandler{org: orgService}
}

// ListDepartments GET /departments.
func (h *DepartmentsHandler) ListDepartments(c *fiber.Ctx) error {
	departments, err := h.org.ListDepartments(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.DepartmentResponse, 0, len(departments))
	for i := range departments {
		items = append(items, dto.NewDepartmentResponse(&departments[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetDepartment GET /departments/:id.
func (h *DepartmentsHandler) GetDepartment(c *fiber.Ctx) error {
	dept, members, err := h.org.GetDepartment(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	roster := make([]dto.MemberResponse, 0, len(members))
	for i := range members {
		roster = append(roster, dto.NewMemberResponse(&members[i]))
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"department": dto.NewDepartmentResponse(dept),
		"members":    roster,
	}})
}

// CreateDepartment POST /departments.
func (h *DepartmentsHandler) CreateDepartment(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	dept, err := h.org.CreateDepartment(c.UserContext(), principal, service.DepartmentInput{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		Email:       req.Email,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewDepartmentResponse(dept)})
}

// UpdateDepartment PATCH /departments/:id.
func (h *DepartmentsHandler) UpdateDepartment(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	dept, err := h.org.UpdateDepartment(c.UserContext(), principal, c.Params("id"), service.DepartmentInput{
		Name:        req.Name,
		Description: req.Description,
		Email:       req.Email,
	}, req.IsActive)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDepartmentResponse(dept)})
}

// AddMember POST /departments/:id/members.
func (h *DepartmentsHandler) AddMember(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.MemberRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.UserID == "" {
		return apperrors.NewValidationError("user_id required", nil)
	}
	member, err := h.org.AddMember(c.UserContext(), principal, c.Params("id"), req.UserID, service.MemberInput{
		Role:             req.Role,
		CanAssignTickets: req.CanAssignTickets,
		CanCloseTickets:  req.CanCloseTickets,
		CanDeleteTickets: req.CanDeleteTickets,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewMemberResponse(member)})
}

// UpdateMember PATCH /departments/:id/members/:userId.
func (h *DepartmentsHandler) UpdateMember(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.MemberRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	member, err := h.org.UpdateMember(c.UserContext(), principal, c.Params("id"), c.Params("userId"), service.MemberInput{
		Role:             req.Role,
		CanAssignTickets: req.CanAssignTickets,
		CanCloseTickets:  req.CanCloseTickets,
		CanDeleteTickets: req.CanDeleteTickets,
	}, req.IsActive)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMemberResponse(member)})
}

// RemoveMember DELETE /departments/:id/members/:userId.
func (h *DepartmentsHandler) RemoveMember(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	if err := h.org.RemoveMember(c.UserContext(), principal, c.Params("id"), c.Params("userId")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListSLAPolicies GET /sla/policies.
func (h *DepartmentsHandler) ListSLAPolicies(c *fiber.Ctx) error {
	policies, err := h.org.ListSLAPolicies(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.SLAPolicyResponse, 0, len(policies))
	for i := range policies {
		items = append(items, dto.NewSLAPolicyResponse(&policies[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateSLAPolicy POST /sla/policies.
func (h *DepartmentsHandler) CreateSLAPolicy(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateSLAPolicyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	policy, err := h.org.CreateSLAPolicy(c.UserContext(), principal, service.SLAPolicyInput{
		Name:            req.Name,
		Description:     req.Description,
		Priority:        req.Priority,
		DepartmentID:    req.DepartmentID,
		ResponseHours:   req.ResponseHours,
		ResolutionHours: req.ResolutionHours,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewSLAPolicyResponse(policy)})
}

// ListEscalationRules GET /sla/escalation-rules.
func (h *DepartmentsHandler) ListEscalationRules(c *fiber.Ctx) error {
	rules, err := h.org.ListEscalationRules(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.EscalationRuleResponse, 0, len(rules))
	for i := range rules {
		items = append(items, dto.NewEscalationRuleResponse(&rules[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateEscalationRule POST /sla/escalation-rules.
func (h *DepartmentsHandler) CreateEscalationRule(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateEscalationRuleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	rule, err := h.org.CreateEscalationRule(c.UserContext(), principal, service.EscalationRuleInput{
		Name:             req.Name,
		Description:      req.Description,
		Trigger:          req.Trigger,
		HoursThreshold:   req.HoursThreshold,
		Priority:         req.Priority,
		DepartmentID:     req.DepartmentID,
		EscalateToRole:   req.EscalateToRole,
		SendNotification: req.SendNotification,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewEscalationRuleResponse(rule)})
}
