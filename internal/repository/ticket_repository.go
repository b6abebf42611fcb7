package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdeskd/helpdesk/internal/domain"
)

// TicketFilter captures ticket search parameters. AccessUserID together with
// AccessDepartmentIDs narrows results to what that user may see: tickets they
// created, tickets assigned to them, tickets in their departments, and
// unrouted tickets.
type TicketFilter struct {
	RequesterID         *string
	AssigneeID          *string
	DepartmentID        *string
	CategoryID          *string
	Statuses            []domain.TicketStatus
	Priorities          []domain.TicketPriority
	SearchTerm          *string
	CreatedFrom         *time.Time
	CreatedTo           *time.Time
	AccessUserID        *string
	AccessDepartmentIDs []string
	Limit               int
	Offset              int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetByExternalKey(ctx context.Context, key string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	ListOpenForScan(ctx context.Context, limit int) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, external_key, title, description, requester_id, department_id,
        category_id, assignee_id, status, priority, due_date,
        assignment_type, assigned_by_id, assigned_at,
        sla_policy_id, sla_response_deadline, sla_resolution_deadline,
        sla_response_breached, sla_resolution_breached, first_response_at,
        escalation_level, last_escalated_at, escalated_to_id,
        resolved_at, closed_at, closed_by_id, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (external_key, title, description, requester_id, department_id,
            category_id, status, priority, due_date, assignment_type,
            sla_policy_id, sla_response_deadline, sla_resolution_deadline)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.ExternalKey,
		ticket.Title,
		ticket.Description,
		ticket.RequesterID,
		ticket.DepartmentID,
		ticket.CategoryID,
		ticket.Status,
		ticket.Priority,
		ticket.DueDate,
		ticket.AssignmentType,
		ticket.SLAPolicyID,
		ticket.SLAResponseDeadline,
		ticket.SLAResolutionDeadline,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET title=$1, description=$2, department_id=$3, category_id=$4,
            assignee_id=$5, status=$6, priority=$7, due_date=$8,
            assignment_type=$9, assigned_by_id=$10, assigned_at=$11,
            sla_policy_id=$12, sla_response_deadline=$13, sla_resolution_deadline=$14,
            sla_response_breached=$15, sla_resolution_breached=$16, first_response_at=$17,
            escalation_level=$18, last_escalated_at=$19, escalated_to_id=$20,
            resolved_at=$21, closed_at=$22, closed_by_id=$23, updated_at=NOW()
        WHERE id=$24`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.DepartmentID,
		ticket.CategoryID,
		ticket.AssigneeID,
		ticket.Status,
		ticket.Priority,
		ticket.DueDate,
		ticket.AssignmentType,
		ticket.AssignedByID,
		ticket.AssignedAt,
		ticket.SLAPolicyID,
		ticket.SLAResponseDeadline,
		ticket.SLAResolutionDeadline,
		ticket.SLAResponseBreached,
		ticket.SLAResolutionBreached,
		ticket.FirstResponseAt,
		ticket.EscalationLevel,
		ticket.LastEscalatedAt,
		ticket.EscalatedToID,
		ticket.ResolvedAt,
		ticket.ClosedAt,
		ticket.ClosedByID,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketRepository) GetByExternalKey(ctx context.Context, key string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE external_key=$1`
	return r.fetchSingle(ctx, query, key)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	row := r.pool.QueryRow(ctx, query, arg)
	ticket, err := scanTicketRow(row)
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT ` + ticketColumns + ` FROM tickets`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.RequesterID != nil {
		args = append(args, *filter.RequesterID)
		clauses = append(clauses, fmt.Sprintf("requester_id=$%d", len(args)))
	}
	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		clauses = append(clauses, fmt.Sprintf("assignee_id=$%d", len(args)))
	}
	if filter.DepartmentID != nil {
		args = append(args, *filter.DepartmentID)
		clauses = append(clauses, fmt.Sprintf("department_id=$%d", len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		clauses = append(clauses, fmt.Sprintf("category_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s)", placeholder, placeholder))
	}
	if filter.AccessUserID != nil {
		args = append(args, *filter.AccessUserID)
		user := fmt.Sprintf("$%d", len(args))
		access := fmt.Sprintf("(requester_id=%s OR assignee_id=%s OR department_id IS NULL", user, user)
		if len(filter.AccessDepartmentIDs) > 0 {
			args = append(args, filter.AccessDepartmentIDs)
			access += fmt.Sprintf(" OR department_id = ANY($%d)", len(args))
		}
		access += ")"
		clauses = append(clauses, access)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

// ListOpenForScan returns tickets the SLA worker must examine: anything still
// counting against SLA clocks or carrying a due date.
func (r *ticketRepository) ListOpenForScan(ctx context.Context, limit int) ([]domain.Ticket, error) {
	if limit <= 0 {
		limit = 500
	}
	query := `SELECT ` + ticketColumns + `
        FROM tickets
        WHERE status IN ('OPEN','IN_PROGRESS','REOPENED')
        ORDER BY created_at
        LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

type ticketScanner interface {
	Scan(dest ...any) error
}

func scanTicketRow(row ticketScanner) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.ExternalKey,
		&ticket.Title,
		&ticket.Description,
		&ticket.RequesterID,
		&ticket.DepartmentID,
		&ticket.CategoryID,
		&ticket.AssigneeID,
		&ticket.Status,
		&ticket.Priority,
		&ticket.DueDate,
		&ticket.AssignmentType,
		&ticket.AssignedByID,
		&ticket.AssignedAt,
		&ticket.SLAPolicyID,
		&ticket.SLAResponseDeadline,
		&ticket.SLAResolutionDeadline,
		&ticket.SLAResponseBreached,
		&ticket.SLAResolutionBreached,
		&ticket.FirstResponseAt,
		&ticket.EscalationLevel,
		&ticket.LastEscalatedAt,
		&ticket.EscalatedToID,
		&ticket.ResolvedAt,
		&ticket.ClosedAt,
		&ticket.ClosedByID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicketRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}
