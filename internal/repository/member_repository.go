package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdeskd/helpdesk/internal/domain"
)

// MemberRepository manages department membership rows.
type MemberRepository interface {
	Add(ctx context.Context, member *domain.DepartmentMember) error
	Update(ctx context.Context, member *domain.DepartmentMember) error
	Remove(ctx context.Context, userID, departmentID string) error
	Get(ctx context.Context, userID, departmentID string) (*domain.DepartmentMember, error)
	ListByUser(ctx context.Context, userID string) ([]domain.DepartmentMember, error)
	ListByDepartment(ctx context.Context, departmentID string) ([]domain.DepartmentMember, error)
	ListByDepartmentRole(ctx context.Context, departmentID string, minRole domain.MemberRole) ([]domain.DepartmentMember, error)
	CountActiveByDepartment(ctx context.Context, departmentID string) (int, error)
}

type memberRepository struct {
	pool *pgxpool.Pool
}

// NewMemberRepository instantiates repository.
func NewMemberRepository(pool *pgxpool.Pool) MemberRepository {
	return &memberRepository{pool: pool}
}

const memberColumns = `id, user_id, department_id, role, is_active,
        can_assign_tickets, can_close_tickets, can_delete_tickets, joined_at`

func (r *memberRepository) Add(ctx context.Context, member *domain.DepartmentMember) error {
	const query = `
        INSERT INTO department_members
            (user_id, department_id, role, is_active, can_assign_tickets, can_close_tickets, can_delete_tickets)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, joined_at`
	return r.pool.QueryRow(ctx, query,
		member.UserID,
		member.DepartmentID,
		member.Role,
		member.IsActive,
		member.CanAssignTickets,
		member.CanCloseTickets,
		member.CanDeleteTickets,
	).Scan(&member.ID, &member.JoinedAt)
}

func (r *memberRepository) Update(ctx context.Context, member *domain.DepartmentMember) error {
	const query = `
        UPDATE department_members SET role=$1, is_active=$2,
            can_assign_tickets=$3, can_close_tickets=$4, can_delete_tickets=$5
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		member.Role,
		member.IsActive,
		member.CanAssignTickets,
		member.CanCloseTickets,
		member.CanDeleteTickets,
		member.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *memberRepository) Remove(ctx context.Context, userID, departmentID string) error {
	const query = `DELETE FROM department_members WHERE user_id=$1 AND department_id=$2`
	cmd, err := r.pool.Exec(ctx, query, userID, departmentID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *memberRepository) Get(ctx context.Context, userID, departmentID string) (*domain.DepartmentMember, error) {
	query := `SELECT ` + memberColumns + `
        FROM department_members WHERE user_id=$1 AND department_id=$2`
	var member domain.DepartmentMember
	if err := r.pool.QueryRow(ctx, query, userID, departmentID).Scan(
		&member.ID,
		&member.UserID,
		&member.DepartmentID,
		&member.Role,
		&member.IsActive,
		&member.CanAssignTickets,
		&member.CanCloseTickets,
		&member.CanDeleteTickets,
		&member.JoinedAt,
	); err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) ListByUser(ctx context.Context, userID string) ([]domain.DepartmentMember, error) {
	query := `SELECT ` + memberColumns + `
        FROM department_members WHERE user_id=$1 AND is_active`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMembers(rows)
}

func (r *memberRepository) ListByDepartment(ctx context.Context, departmentID string) ([]domain.DepartmentMember, error) {
	query := `SELECT ` + memberColumns + `
        FROM department_members WHERE department_id=$1 AND is_active ORDER BY joined_at`
	rows, err := r.pool.Query(ctx, query, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMembers(rows)
}

// ListByDepartmentRole lists active members at or above the given role.
func (r *memberRepository) ListByDepartmentRole(ctx context.Context, departmentID string, minRole domain.MemberRole) ([]domain.DepartmentMember, error) {
	roles := rolesAtOrAbove(minRole)
	query := `SELECT ` + memberColumns + `
        FROM department_members
        WHERE department_id=$1 AND is_active AND role = ANY($2)
        ORDER BY joined_at`
	rows, err := r.pool.Query(ctx, query, departmentID, roles)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMembers(rows)
}

func (r *memberRepository) CountActiveByDepartment(ctx context.Context, departmentID string) (int, error) {
	const query = `SELECT COUNT(*) FROM department_members WHERE department_id=$1 AND is_active`
	var count int
	if err := r.pool.QueryRow(ctx, query, departmentID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func rolesAtOrAbove(role domain.MemberRole) []string {
	order := []domain.MemberRole{
		domain.MemberRoleMember,
		domain.MemberRoleLead,
		domain.MemberRoleManager,
		domain.MemberRoleHead,
	}
	var result []string
	found := false
	for _, candidate := range order {
		if candidate == role {
			found = true
		}
		if found {
			result = append(result, string(candidate))
		}
	}
	if !found {
		return []string{string(role)}
	}
	return result
}

func scanMembers(rows pgx.Rows) ([]domain.DepartmentMember, error) {
	var result []domain.DepartmentMember
	for rows.Next() {
		var member domain.DepartmentMember
		if err := rows.Scan(
			&member.ID,
			&member.UserID,
			&member.DepartmentID,
			&member.Role,
			&member.IsActive,
			&member.CanAssignTickets,
			&member.CanCloseTickets,
			&member.CanDeleteTickets,
			&member.JoinedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, member)
	}
	return result, rows.Err()
}
