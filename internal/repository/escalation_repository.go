package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdeskd/helpdesk/internal/domain"
)

// EscalationRepository stores escalation rules.
type EscalationRepository interface {
	Create(ctx context.Context, rule *domain.EscalationRule) error
	ListActive(ctx context.Context) ([]domain.EscalationRule, error)
}

type escalationRepository struct {
	pool *pgxpool.Pool
}

// NewEscalationRepository builds repository.
func NewEscalationRepository(pool *pgxpool.Pool) EscalationRepository {
	return &escalationRepository{pool: pool}
}

func (r *escalationRepository) Create(ctx context.Context, rule *domain.EscalationRule) error {
	const query = `
        INSERT INTO escalation_rules
            (name, description, trigger_type, hours_threshold, priority, department_id,
             escalate_to_role, send_notification, is_active)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		rule.Name,
		rule.Description,
		rule.Trigger,
		rule.HoursThreshold,
		rule.Priority,
		rule.DepartmentID,
		rule.EscalateToRole,
		rule.SendNotification,
		rule.IsActive,
	).Scan(&rule.ID, &rule.CreatedAt)
}

func (r *escalationRepository) ListActive(ctx context.Context) ([]domain.EscalationRule, error) {
	const query = `
        SELECT id, name, description, trigger_type, hours_threshold, priority, department_id,
               escalate_to_role, send_notification, is_active, created_at
        FROM escalation_rules WHERE is_active ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.EscalationRule
	for rows.Next() {
		var rule domain.EscalationRule
		if err := rows.Scan(
			&rule.ID,
			&rule.Name,
			&rule.Description,
			&rule.Trigger,
			&rule.HoursThreshold,
			&rule.Priority,
			&rule.DepartmentID,
			&rule.EscalateToRole,
			&rule.SendNotification,
			&rule.IsActive,
			&rule.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, rule)
	}
	return result, rows.Err()
}
