package auth

import (
	"github.com/helpdeskd/helpdesk/internal/domain"
)

// Ticket access rules. Superusers see everything but are kept out of the
// agent workflow (they cannot accept tickets). Everyone else acts through
// their department memberships and per-member permission flags.

// CanViewTicket reports whether the principal may read the ticket.
func (p *Principal) CanViewTicket(ticket *domain.Ticket) bool {
	if p.User.IsSuperuser {
		return true
	}
	if ticket.RequesterID == p.User.ID {
		return true
	}
	if ticket.AssigneeID != nil && *ticket.AssigneeID == p.User.ID {
		return true
	}
	if ticket.DepartmentID == nil {
		return true
	}
	return p.MembershipIn(*ticket.DepartmentID) != nil
}

// CanAcceptTicket reports whether the principal may self-assign the ticket,
// with a human-readable reason on denial.
func (p *Principal) CanAcceptTicket(ticket *domain.Ticket) (bool, string) {
	if p.User.IsSuperuser {
		return false, "superuser cannot accept tickets"
	}
	if ticket.Status != domain.TicketStatusOpen {
		return false, "ticket is not open for acceptance"
	}
	if ticket.RequesterID == p.User.ID {
		return false, "you cannot accept your own ticket"
	}
	if ticket.AssigneeID != nil {
		return false, "ticket is already assigned"
	}
	if ticket.DepartmentID != nil && p.MembershipIn(*ticket.DepartmentID) == nil {
		return false, "ticket belongs to another department"
	}
	return true, ""
}

// CanUpdateTicket reports whether the principal may edit ticket fields.
func (p *Principal) CanUpdateTicket(ticket *domain.Ticket) bool {
	if p.User.IsSuperuser {
		return true
	}
	if ticket.RequesterID == p.User.ID {
		return true
	}
	if ticket.AssigneeID != nil && *ticket.AssigneeID == p.User.ID {
		return true
	}
	return p.hasDepartmentPermission(ticket, permissionAssign)
}

// CanCloseTicket reports whether the principal may close the ticket.
func (p *Principal) CanCloseTicket(ticket *domain.Ticket) bool {
	if p.User.IsSuperuser {
		return true
	}
	if ticket.AssigneeID != nil && *ticket.AssigneeID == p.User.ID {
		return true
	}
	return p.hasDepartmentPermission(ticket, permissionClose)
}

// CanDeleteTicket reports whether the principal may delete the ticket.
func (p *Principal) CanDeleteTicket(ticket *domain.Ticket) bool {
	if p.User.IsSuperuser {
		return true
	}
	return p.hasDepartmentPermission(ticket, permissionDelete)
}

// CanAssignTicket reports whether the principal may assign or route the ticket.
func (p *Principal) CanAssignTicket(ticket *domain.Ticket) bool {
	if p.User.IsSuperuser {
		return true
	}
	return p.hasDepartmentPermission(ticket, permissionAssign)
}

type memberPermission int

const (
	permissionAssign memberPermission = iota
	permissionClose
	permissionDelete
)

func (p *Principal) hasDepartmentPermission(ticket *domain.Ticket, perm memberPermission) bool {
	if ticket.DepartmentID == nil {
		return false
	}
	member := p.MembershipIn(*ticket.DepartmentID)
	if member == nil {
		return false
	}
	switch perm {
	case permissionAssign:
		return member.CanAssignTickets
	case permissionClose:
		return member.CanCloseTickets
	case permissionDelete:
		return member.CanDeleteTickets
	}
	return false
}
