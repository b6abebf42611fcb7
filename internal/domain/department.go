package domain

import "time"

// Department represents an organizational unit that tickets are routed to.
type Department struct {
	ID          string
	Name        string
	Code        string
	Description string
	Email       string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MemberRole enumerates roles within a department.
type MemberRole string

const (
	MemberRoleMember  MemberRole = "MEMBER"
	MemberRoleLead    MemberRole = "LEAD"
	MemberRoleManager MemberRole = "MANAGER"
	MemberRoleHead    MemberRole = "HEAD"
)

// IsLeadOrHigher reports whether the role carries supervisory weight.
func (r MemberRole) IsLeadOrHigher() bool {
	return r == MemberRoleLead || r == MemberRoleManager || r == MemberRoleHead
}

// DepartmentMember links a user to a department with a role and
// per-member ticket permissions.
type DepartmentMember struct {
	ID               string
	UserID           string
	DepartmentID     string
	Role             MemberRole
	IsActive         bool
	CanAssignTickets bool
	CanCloseTickets  bool
	CanDeleteTickets bool
	JoinedAt         time.Time
}
