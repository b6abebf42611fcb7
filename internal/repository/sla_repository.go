package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdeskd/helpdesk/internal/domain"
)

// SLARepository stores SLA policies.
type SLARepository interface {
	Create(ctx context.Context, policy *domain.SLAPolicy) error
	GetByID(ctx context.Context, id string) (*domain.SLAPolicy, error)
	ListActive(ctx context.Context) ([]domain.SLAPolicy, error)
}

type slaRepository struct {
	pool *pgxpool.Pool
}

// NewSLARepository builds repository.
func NewSLARepository(pool *pgxpool.Pool) SLARepository {
	return &slaRepository{pool: pool}
}

const slaColumns = `id, name, description, priority, department_id,
        response_hours, resolution_hours, is_active, created_at, updated_at`

func (r *slaRepository) Create(ctx context.Context, policy *domain.SLAPolicy) error {
	const query = `
        INSERT INTO sla_policies (name, description, priority, department_id, response_hours, resolution_hours, is_active)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		policy.Name,
		policy.Description,
		policy.Priority,
		policy.DepartmentID,
		policy.ResponseHours,
		policy.ResolutionHours,
		policy.IsActive,
	).Scan(&policy.ID, &policy.CreatedAt, &policy.UpdatedAt)
}

func (r *slaRepository) GetByID(ctx context.Context, id string) (*domain.SLAPolicy, error) {
	query := `SELECT ` + slaColumns + ` FROM sla_policies WHERE id=$1`
	row := r.pool.QueryRow(ctx, query, id)
	policy, err := scanPolicy(row)
	if err != nil {
		return nil, err
	}
	return policy, nil
}

func (r *slaRepository) ListActive(ctx context.Context) ([]domain.SLAPolicy, error) {
	query := `SELECT ` + slaColumns + ` FROM sla_policies WHERE is_active ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SLAPolicy
	for rows.Next() {
		policy, err := scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *policy)
	}
	return result, rows.Err()
}

type policyScanner interface {
	Scan(dest ...any) error
}

func scanPolicy(row policyScanner) (*domain.SLAPolicy, error) {
	var policy domain.SLAPolicy
	if err := row.Scan(
		&policy.ID,
		&policy.Name,
		&policy.Description,
		&policy.Priority,
		&policy.DepartmentID,
		&policy.ResponseHours,
		&policy.ResolutionHours,
		&policy.IsActive,
		&policy.CreatedAt,
		&policy.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &policy, nil
}
