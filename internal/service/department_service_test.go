package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/helpdeskd/helpdesk/internal/domain"
	"github.com/helpdeskd/helpdesk/internal/service/mocks"
)

func newDepartmentServiceForTest(deps OrgDependencies) *DepartmentService {
	if deps.DepartmentRepo == nil {
		deps.DepartmentRepo = &mocks.MockDepartmentRepository{}
	}
	if deps.MemberRepo == nil {
		deps.MemberRepo = &mocks.MockMemberRepository{}
	}
	if deps.UserRepo == nil {
		deps.UserRepo = &mocks.MockUserRepository{}
	}
	if deps.SLARepo == nil {
		deps.SLARepo = &mocks.MockSLARepository{}
	}
	if deps.EscalationRepo == nil {
		deps.EscalationRepo = &mocks.MockEscalationRepository{}
	}
	return NewDepartmentService(deps)
}

func TestCreateDepartment(t *testing.T) {
	ctx := context.Background()
	admin := testPrincipal("admin", true)

	t.Run("superuser creates with uppercased code", func(t *testing.T) {
		var created *domain.Department
		svc := newDepartmentServiceForTest(OrgDependencies{
			DepartmentRepo: &mocks.MockDepartmentRepository{
				CreateFunc: func(ctx context.Context, dept *domain.Department) error {
					dept.ID = "dept-1"
					created = dept
					return nil
				},
			},
		})
		dept, err := svc.CreateDepartment(ctx, admin, DepartmentInput{Name: "IT Support", Code: "it"})
		assert.NoError(t, err)
		assert.Equal(t, created, dept)
		assert.Equal(t, "IT", dept.Code)
		assert.True(t, dept.IsActive)
	})

	t.Run("non-superuser refused", func(t *testing.T) {
		svc := newDepartmentServiceForTest(OrgDependencies{})
		_, err := svc.CreateDepartment(ctx, testPrincipal("user-1", false), DepartmentInput{Name: "IT", Code: "IT"})
		assertDomainCode(t, err, "FORBIDDEN")
	})

	t.Run("duplicate code conflicts", func(t *testing.T) {
		svc := newDepartmentServiceForTest(OrgDependencies{
			DepartmentRepo: &mocks.MockDepartmentRepository{
				GetByCodeFunc: func(ctx context.Context, code string) (*domain.Department, error) {
					return &domain.Department{ID: "dept-1", Code: code}, nil
				},
			},
		})
		_, err := svc.CreateDepartment(ctx, admin, DepartmentInput{Name: "IT Support", Code: "IT"})
		assertDomainCode(t, err, "CONFLICT")
	})
}

func TestAddMember(t *testing.T) {
	ctx := context.Background()
	admin := testPrincipal("admin", true)

	activeDept := &mocks.MockDepartmentRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*domain.Department, error) {
			return &domain.Department{ID: id, IsActive: true}, nil
		},
	}
	activeUser := &mocks.MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*domain.User, error) {
			return &domain.User{ID: id, Active: true}, nil
		},
	}

	t.Run("lead role implies assign and close flags", func(t *testing.T) {
		svc := newDepartmentServiceForTest(OrgDependencies{DepartmentRepo: activeDept, UserRepo: activeUser})
		member, err := svc.AddMember(ctx, admin, "dept-1", "user-1", MemberInput{Role: domain.MemberRoleLead})
		assert.NoError(t, err)
		assert.True(t, member.CanAssignTickets)
		assert.True(t, member.CanCloseTickets)
		assert.False(t, member.CanDeleteTickets)
		assert.True(t, member.IsActive)
	})

	t.Run("defaults to member role", func(t *testing.T) {
		svc := newDepartmentServiceForTest(OrgDependencies{DepartmentRepo: activeDept, UserRepo: activeUser})
		member, err := svc.AddMember(ctx, admin, "dept-1", "user-1", MemberInput{})
		assert.NoError(t, err)
		assert.Equal(t, domain.MemberRoleMember, member.Role)
		assert.False(t, member.CanAssignTickets)
	})

	t.Run("existing membership conflicts", func(t *testing.T) {
		svc := newDepartmentServiceForTest(OrgDependencies{
			DepartmentRepo: activeDept,
			UserRepo:       activeUser,
			MemberRepo: &mocks.MockMemberRepository{
				GetFunc: func(ctx context.Context, userID, departmentID string) (*domain.DepartmentMember, error) {
					return &domain.DepartmentMember{UserID: userID, DepartmentID: departmentID}, nil
				},
			},
		})
		_, err := svc.AddMember(ctx, admin, "dept-1", "user-1", MemberInput{})
		assertDomainCode(t, err, "CONFLICT")
	})

	t.Run("inactive user refused", func(t *testing.T) {
		svc := newDepartmentServiceForTest(OrgDependencies{
			DepartmentRepo: activeDept,
			UserRepo: &mocks.MockUserRepository{
				GetByIDFunc: func(ctx context.Context, id string) (*domain.User, error) {
					return &domain.User{ID: id, Active: false}, nil
				},
			},
		})
		_, err := svc.AddMember(ctx, admin, "dept-1", "user-1", MemberInput{})
		assertDomainCode(t, err, "CONFLICT")
	})
}

func TestCreateSLAPolicy(t *testing.T) {
	ctx := context.Background()
	admin := testPrincipal("admin", true)

	t.Run("creates active policy", func(t *testing.T) {
		urgent := domain.TicketPriorityUrgent
		svc := newDepartmentServiceForTest(OrgDependencies{})
		policy, err := svc.CreateSLAPolicy(ctx, admin, SLAPolicyInput{
			Name: "Urgent SLA", Priority: &urgent, ResponseHours: 1, ResolutionHours: 8,
		})
		assert.NoError(t, err)
		assert.True(t, policy.IsActive)
		assert.Equal(t, &urgent, policy.Priority)
	})

	t.Run("non-positive hours rejected", func(t *testing.T) {
		svc := newDepartmentServiceForTest(OrgDependencies{})
		_, err := svc.CreateSLAPolicy(ctx, admin, SLAPolicyInput{Name: "Bad", ResponseHours: 0, ResolutionHours: 8})
		assertDomainCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("unknown scoped department rejected", func(t *testing.T) {
		dept := "dept-404"
		svc := newDepartmentServiceForTest(OrgDependencies{}) // GetByID reports no rows
		_, err := svc.CreateSLAPolicy(ctx, admin, SLAPolicyInput{
			Name: "Dept SLA", DepartmentID: &dept, ResponseHours: 2, ResolutionHours: 24,
		})
		assertDomainCode(t, err, "NOT_FOUND")
	})
}

func TestCreateEscalationRule(t *testing.T) {
	ctx := context.Background()
	admin := testPrincipal("admin", true)
	svc := newDepartmentServiceForTest(OrgDependencies{})

	t.Run("defaults escalate-to role to lead", func(t *testing.T) {
		rule, err := svc.CreateEscalationRule(ctx, admin, EscalationRuleInput{
			Name: "On breach", Trigger: domain.TriggerSLABreach, SendNotification: true,
		})
		assert.NoError(t, err)
		assert.Equal(t, domain.MemberRoleLead, rule.EscalateToRole)
		assert.True(t, rule.IsActive)
	})

	t.Run("time based rule needs a threshold", func(t *testing.T) {
		_, err := svc.CreateEscalationRule(ctx, admin, EscalationRuleInput{
			Name: "Stale", Trigger: domain.TriggerTimeBased,
		})
		assertDomainCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("unknown trigger rejected", func(t *testing.T) {
		_, err := svc.CreateEscalationRule(ctx, admin, EscalationRuleInput{
			Name: "Odd", Trigger: domain.EscalationTrigger("ON_FULL_MOON"),
		})
		assertDomainCode(t, err, "VALIDATION_FAILED")
	})
}
