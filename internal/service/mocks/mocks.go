// Package mocks provides func-field test doubles for the repository
// interfaces. Unset Get funcs report pgx.ErrNoRows; everything else no-ops.
package mocks

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/helpdeskd/helpdesk/internal/domain"
	"github.com/helpdeskd/helpdesk/internal/repository"
)

// MockTicketRepository implements repository.TicketRepository.
type MockTicketRepository struct {
	CreateFunc          func(ctx context.Context, ticket *domain.Ticket) error
	UpdateFunc          func(ctx context.Context, ticket *domain.Ticket) error
	DeleteFunc          func(ctx context.Context, id string) error
	GetByIDFunc         func(ctx context.Context, id string) (*domain.Ticket, error)
	GetByExternalKeyFunc func(ctx context.Context, key string) (*domain.Ticket, error)
	ListWithFilterFunc  func(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error)
	ListOpenForScanFunc func(ctx context.Context, limit int) ([]domain.Ticket, error)
}

func (m *MockTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	if m.CreateFunc == nil {
		return nil
	}
	return m.CreateFunc(ctx, ticket)
}

func (m *MockTicketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	if m.UpdateFunc == nil {
		return nil
	}
	return m.UpdateFunc(ctx, ticket)
}

func (m *MockTicketRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc == nil {
		return nil
	}
	return m.DeleteFunc(ctx, id)
}

func (m *MockTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	if m.GetByIDFunc == nil {
		return nil, pgx.ErrNoRows
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *MockTicketRepository) GetByExternalKey(ctx context.Context, key string) (*domain.Ticket, error) {
	if m.GetByExternalKeyFunc == nil {
		return nil, pgx.ErrNoRows
	}
	return m.GetByExternalKeyFunc(ctx, key)
}

func (m *MockTicketRepository) ListWithFilter(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	if m.ListWithFilterFunc == nil {
		return nil, nil
	}
	return m.ListWithFilterFunc(ctx, filter)
}

func (m *MockTicketRepository) ListOpenForScan(ctx context.Context, limit int) ([]domain.Ticket, error) {
	if m.ListOpenForScanFunc == nil {
		return nil, nil
	}
	return m.ListOpenForScanFunc(ctx, limit)
}

// MockUserRepository implements repository.UserRepository.
type MockUserRepository struct {
	CreateFunc     func(ctx context.Context, user *domain.User) error
	UpdateFunc     func(ctx context.Context, user *domain.User) error
	GetByIDFunc    func(ctx context.Context, id string) (*domain.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc == nil {
		return nil
	}
	return m.CreateFunc(ctx, user)
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFunc == nil {
		return nil
	}
	return m.UpdateFunc(ctx, user)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFunc == nil {
		return nil, pgx.ErrNoRows
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFunc == nil {
		return nil, pgx.ErrNoRows
	}
	return m.GetByEmailFunc(ctx, email)
}

// MockDepartmentRepository implements repository.DepartmentRepository.
type MockDepartmentRepository struct {
	CreateFunc     func(ctx context.Context, dept *domain.Department) error
	UpdateFunc     func(ctx context.Context, dept *domain.Department) error
	GetByIDFunc    func(ctx context.Context, id string) (*domain.Department, error)
	GetByCodeFunc  func(ctx context.Context, code string) (*domain.Department, error)
	ListActiveFunc func(ctx context.Context) ([]domain.Department, error)
}

func (m *MockDepartmentRepository) Create(ctx context.Context, dept *domain.Department) error {
	if m.CreateFunc == nil {
		return nil
	}
	return m.CreateFunc(ctx, dept)
}

func (m *MockDepartmentRepository) Update(ctx context.Context, dept *domain.Department) error {
	if m.UpdateFunc == nil {
		return nil
	}
	return m.UpdateFunc(ctx, dept)
}

func (m *MockDepartmentRepository) GetByID(ctx context.Context, id string) (*domain.Department, error) {
	if m.GetByIDFunc == nil {
		return nil, pgx.ErrNoRows
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *MockDepartmentRepository) GetByCode(ctx context.Context, code string) (*domain.Department, error) {
	if m.GetByCodeFunc == nil {
		return nil, pgx.ErrNoRows
	}
	return m.GetByCodeFunc(ctx, code)
}

func (m *MockDepartmentRepository) ListActive(ctx context.Context) ([]domain.Department, error) {
	if m.ListActiveFunc == nil {
		return nil, nil
	}
	return m.ListActiveFunc(ctx)
}

// MockMemberRepository implements repository.MemberRepository.
type MockMemberRepository struct {
	AddFunc                     func(ctx context.Context, member *domain.DepartmentMember) error
	UpdateFunc                  func(ctx context.Context, member *domain.DepartmentMember) error
	RemoveFunc                  func(ctx context.Context, userID, departmentID string) error
	GetFunc                     func(ctx context.Context, userID, departmentID string) (*domain.DepartmentMember, error)
	ListByUserFunc              func(ctx context.Context, userID string) ([]domain.DepartmentMember, error)
	ListByDepartmentFunc        func(ctx context.Context, departmentID string) ([]domain.DepartmentMember, error)
	ListByDepartmentRoleFunc    func(ctx context.Context, departmentID string, minRole domain.MemberRole) ([]domain.DepartmentMember, error)
	CountActiveByDepartmentFunc func(ctx context.Context, departmentID string) (int, error)
}

func (m *MockMemberRepository) Add(ctx context.Context, member *domain.DepartmentMember) error {
	if m.AddFunc == nil {
		return nil
	}
	return m.AddFunc(ctx, member)
}

func (m *MockMemberRepository) Update(ctx context.Context, member *domain.DepartmentMember) error {
	if m.UpdateFunc == nil {
		return nil
	}
	return m.UpdateFunc(ctx, member)
}

func (m *MockMemberRepository) Remove(ctx context.Context, userID, departmentID string) error {
	if m.RemoveFunc == nil {
		return nil
	}
	return m.RemoveFunc(ctx, userID, departmentID)
}

func (m *MockMemberRepository) Get(ctx context.Context, userID, departmentID string) (*domain.DepartmentMember, error) {
	if m.GetFunc == nil {
		return nil, pgx.ErrNoRows
	}
	return m.GetFunc(ctx, userID, departmentID)
}

func (m *MockMemberRepository) ListByUser(ctx context.Context, userID string) ([]domain.DepartmentMember, error) {
	if m.ListByUserFunc == nil {
		return nil, nil
	}
	return m.ListByUserFunc(ctx, userID)
}

func (m *MockMemberRepository) ListByDepartment(ctx context.Context, departmentID string) ([]domain.DepartmentMember, error) {
	if m.ListByDepartmentFunc == nil {
		return nil, nil
	}
	return m.ListByDepartmentFunc(ctx, departmentID)
}

func (m *MockMemberRepository) ListByDepartmentRole(ctx context.Context, departmentID string, minRole domain.MemberRole) ([]domain.DepartmentMember, error) {
	if m.ListByDepartmentRoleFunc == nil {
		return nil, nil
	}
	return m.ListByDepartmentRoleFunc(ctx, departmentID, minRole)
}

func (m *MockMemberRepository) CountActiveByDepartment(ctx context.Context, departmentID string) (int, error) {
	if m.CountActiveByDepartmentFunc == nil {
		return 0, nil
	}
	return m.CountActiveByDepartmentFunc(ctx, departmentID)
}

// MockCategoryRepository implements repository.CategoryRepository.
type MockCategoryRepository struct {
	CreateFunc     func(ctx context.Context, category *domain.Category) error
	GetByIDFunc    func(ctx context.Context, id string) (*domain.Category, error)
	ListActiveFunc func(ctx context.Context) ([]domain.Category, error)
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if m.CreateFunc == nil {
		return nil
	}
	return m.CreateFunc(ctx, category)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	if m.GetByIDFunc == nil {
		return nil, pgx.ErrNoRows
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *MockCategoryRepository) ListActive(ctx context.Context) ([]domain.Category, error) {
	if m.ListActiveFunc == nil {
		return nil, nil
	}
	return m.ListActiveFunc(ctx)
}

// MockCommentRepository implements repository.CommentRepository.
type MockCommentRepository struct {
	CreateFunc       func(ctx context.Context, comment *domain.Comment) error
	ListByTicketFunc func(ctx context.Context, ticketID string) ([]domain.Comment, error)
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	if m.CreateFunc == nil {
		return nil
	}
	return m.CreateFunc(ctx, comment)
}

func (m *MockCommentRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Comment, error) {
	if m.ListByTicketFunc == nil {
		return nil, nil
	}
	return m.ListByTicketFunc(ctx, ticketID)
}

// MockHistoryRepository implements repository.TicketHistoryRepository.
type MockHistoryRepository struct {
	CreateFunc       func(ctx context.Context, entry *domain.TicketHistory) error
	ListByTicketFunc func(ctx context.Context, ticketID string, limit, offset int) ([]domain.TicketHistory, error)
}

func (m *MockHistoryRepository) Create(ctx context.Context, entry *domain.TicketHistory) error {
	if m.CreateFunc == nil {
		return nil
	}
	return m.CreateFunc(ctx, entry)
}

func (m *MockHistoryRepository) ListByTicket(ctx context.Context, ticketID string, limit, offset int) ([]domain.TicketHistory, error) {
	if m.ListByTicketFunc == nil {
		return nil, nil
	}
	return m.ListByTicketFunc(ctx, ticketID, limit, offset)
}

// MockNotificationRepository implements repository.NotificationRepository.
type MockNotificationRepository struct {
	CreateFunc        func(ctx context.Context, notification *domain.Notification) error
	GetByIDFunc       func(ctx context.Context, id string) (*domain.Notification, error)
	ListByUserFunc    func(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]domain.Notification, error)
	CountUnreadFunc   func(ctx context.Context, userID string) (int, error)
	MarkReadFunc      func(ctx context.Context, id string, read bool) error
	MarkAllReadFunc   func(ctx context.Context, userID string) (int64, error)
	MarkEmailSentFunc func(ctx context.Context, id string) error
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	if m.CreateFunc == nil {
		return nil
	}
	return m.CreateFunc(ctx, notification)
}

func (m *MockNotificationRepository) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	if m.GetByIDFunc == nil {
		return nil, pgx.ErrNoRows
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *MockNotificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	if m.ListByUserFunc == nil {
		return nil, nil
	}
	return m.ListByUserFunc(ctx, userID, unreadOnly, limit, offset)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	if m.CountUnreadFunc == nil {
		return 0, nil
	}
	return m.CountUnreadFunc(ctx, userID)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id string, read bool) error {
	if m.MarkReadFunc == nil {
		return nil
	}
	return m.MarkReadFunc(ctx, id, read)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	if m.MarkAllReadFunc == nil {
		return 0, nil
	}
	return m.MarkAllReadFunc(ctx, userID)
}

func (m *MockNotificationRepository) MarkEmailSent(ctx context.Context, id string) error {
	if m.MarkEmailSentFunc == nil {
		return nil
	}
	return m.MarkEmailSentFunc(ctx, id)
}

// MockSLARepository implements repository.SLARepository.
type MockSLARepository struct {
	CreateFunc     func(ctx context.Context, policy *domain.SLAPolicy) error
	GetByIDFunc    func(ctx context.Context, id string) (*domain.SLAPolicy, error)
	ListActiveFunc func(ctx context.Context) ([]domain.SLAPolicy, error)
}

func (m *MockSLARepository) Create(ctx context.Context, policy *domain.SLAPolicy) error {
	if m.CreateFunc == nil {
		return nil
	}
	return m.CreateFunc(ctx, policy)
}

func (m *MockSLARepository) GetByID(ctx context.Context, id string) (*domain.SLAPolicy, error) {
	if m.GetByIDFunc == nil {
		return nil, pgx.ErrNoRows
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *MockSLARepository) ListActive(ctx context.Context) ([]domain.SLAPolicy, error) {
	if m.ListActiveFunc == nil {
		return nil, nil
	}
	return m.ListActiveFunc(ctx)
}

// MockEscalationRepository implements repository.EscalationRepository.
type MockEscalationRepository struct {
	CreateFunc     func(ctx context.Context, rule *domain.EscalationRule) error
	ListActiveFunc func(ctx context.Context) ([]domain.EscalationRule, error)
}

func (m *MockEscalationRepository) Create(ctx context.Context, rule *domain.EscalationRule) error {
	if m.CreateFunc == nil {
		return nil
	}
	return m.CreateFunc(ctx, rule)
}

func (m *MockEscalationRepository) ListActive(ctx context.Context) ([]domain.EscalationRule, error) {
	if m.ListActiveFunc == nil {
		return nil, nil
	}
	return m.ListActiveFunc(ctx)
}

// MockRatingRepository implements repository.RatingRepository.
type MockRatingRepository struct {
	CreateFunc      func(ctx context.Context, rating *domain.TicketRating) error
	GetByTicketFunc func(ctx context.Context, ticketID string) (*domain.TicketRating, error)
}

func (m *MockRatingRepository) Create(ctx context.Context, rating *domain.TicketRating) error {
	if m.CreateFunc == nil {
		return nil
	}
	return m.CreateFunc(ctx, rating)
}

func (m *MockRatingRepository) GetByTicket(ctx context.Context, ticketID string) (*domain.TicketRating, error) {
	if m.GetByTicketFunc == nil {
		return nil, pgx.ErrNoRows
	}
	return m.GetByTicketFunc(ctx, ticketID)
}

// MockPasswordResetRepository implements repository.PasswordResetRepository.
type MockPasswordResetRepository struct {
	CreateFunc     func(ctx context.Context, token *repository.PasswordResetToken) error
	GetByTokenFunc func(ctx context.Context, token string) (*repository.PasswordResetToken, error)
	MarkUsedFunc   func(ctx context.Context, id string) error
}

func (m *MockPasswordResetRepository) Create(ctx context.Context, token *repository.PasswordResetToken) error {
	if m.CreateFunc == nil {
		return nil
	}
	return m.CreateFunc(ctx, token)
}

func (m *MockPasswordResetRepository) GetByToken(ctx context.Context, token string) (*repository.PasswordResetToken, error) {
	if m.GetByTokenFunc == nil {
		return nil, pgx.ErrNoRows
	}
	return m.GetByTokenFunc(ctx, token)
}

func (m *MockPasswordResetRepository) MarkUsed(ctx context.Context, id string) error {
	if m.MarkUsedFunc == nil {
		return nil
	}
	return m.MarkUsedFunc(ctx, id)
}

// Now is a shorthand for tests that need a stable instant.
func Now() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}
