package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StatusBreakdown holds ticket counts per lifecycle state.
type StatusBreakdown struct {
	Total      int `json:"total"`
	Open       int `json:"open"`
	InProgress int `json:"in_progress"`
	Resolved   int `json:"resolved"`
	Closed     int `json:"closed"`
	Reopened   int `json:"reopened"`
	Expired    int `json:"expired"`
}

// PriorityBreakdown holds ticket counts per priority.
type PriorityBreakdown struct {
	Urgent int `json:"urgent"`
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// DateCount is one point of a created-per-day series.
type DateCount struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// DepartmentStats aggregates ticket activity for one department.
type DepartmentStats struct {
	DepartmentID   string  `json:"department_id"`
	DepartmentName string  `json:"department_name"`
	Total          int     `json:"total"`
	Open           int     `json:"open"`
	Completed      int     `json:"completed"`
	AvgResolution  float64 `json:"avg_resolution_hours"`
	MemberCount    int     `json:"member_count"`
}

// UserCount pairs a user with an aggregate count.
type UserCount struct {
	UserID        string  `json:"user_id"`
	UserName      string  `json:"user_name"`
	Count         int     `json:"count"`
	AvgResolution float64 `json:"avg_resolution_hours,omitempty"`
}

// SLACompliance summarizes on-time completion of closed tickets.
type SLACompliance struct {
	Total   int `json:"total"`
	OnTime  int `json:"on_time"`
	Overdue int `json:"overdue"`
}

// RatingSummary aggregates satisfaction ratings.
type RatingSummary struct {
	Count   int         `json:"count"`
	Average float64     `json:"average"`
	PerStar map[int]int `json:"per_star"`
}

// AnalyticsRepository runs dashboard aggregation queries.
type AnalyticsRepository interface {
	StatusCounts(ctx context.Context, from, to time.Time, departmentID *string) (*StatusBreakdown, error)
	PriorityCounts(ctx context.Context, from, to time.Time, departmentID *string) (*PriorityBreakdown, error)
	AvgResolutionHours(ctx context.Context, from, to time.Time, departmentID *string) (float64, error)
	CreatedPerDay(ctx context.Context, from, to time.Time, departmentID *string) ([]DateCount, error)
	DepartmentStats(ctx context.Context, from, to time.Time) ([]DepartmentStats, error)
	TopCreators(ctx context.Context, from, to time.Time, limit int) ([]UserCount, error)
	TopResolvers(ctx context.Context, from, to time.Time, limit int) ([]UserCount, error)
	SLACompliance(ctx context.Context, from, to time.Time) (*SLACompliance, error)
	RatingSummary(ctx context.Context, from, to time.Time) (*RatingSummary, error)
}

type analyticsRepository struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository builds repository.
func NewAnalyticsRepository(pool *pgxpool.Pool) AnalyticsRepository {
	return &analyticsRepository{pool: pool}
}

func (r *analyticsRepository) StatusCounts(ctx context.Context, from, to time.Time, departmentID *string) (*StatusBreakdown, error) {
	const query = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE status='OPEN'),
               COUNT(*) FILTER (WHERE status='IN_PROGRESS'),
               COUNT(*) FILTER (WHERE status='RESOLVED'),
               COUNT(*) FILTER (WHERE status='CLOSED'),
               COUNT(*) FILTER (WHERE status='REOPENED'),
               COUNT(*) FILTER (WHERE status='EXPIRED')
        FROM tickets
        WHERE created_at >= $1 AND created_at < $2
          AND ($3::uuid IS NULL OR department_id=$3)`
	var b StatusBreakdown
	if err := r.pool.QueryRow(ctx, query, from, to, departmentID).Scan(
		&b.Total, &b.Open, &b.InProgress, &b.Resolved, &b.Closed, &b.Reopened, &b.Expired,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *analyticsRepository) PriorityCounts(ctx context.Context, from, to time.Time, departmentID *string) (*PriorityBreakdown, error) {
	const query = `
        SELECT COUNT(*) FILTER (WHERE priority='URGENT'),
               COUNT(*) FILTER (WHERE priority='HIGH'),
               COUNT(*) FILTER (WHERE priority='MEDIUM'),
               COUNT(*) FILTER (WHERE priority='LOW')
        FROM tickets
        WHERE created_at >= $1 AND created_at < $2
          AND ($3::uuid IS NULL OR department_id=$3)`
	var b PriorityBreakdown
	if err := r.pool.QueryRow(ctx, query, from, to, departmentID).Scan(
		&b.Urgent, &b.High, &b.Medium, &b.Low,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *analyticsRepository) AvgResolutionHours(ctx context.Context, from, to time.Time, departmentID *string) (float64, error) {
	const query = `
        SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (COALESCE(resolved_at, closed_at) - created_at)) / 3600), 0)
        FROM tickets
        WHERE status IN ('RESOLVED','CLOSED')
          AND COALESCE(resolved_at, closed_at) IS NOT NULL
          AND created_at >= $1 AND created_at < $2
          AND ($3::uuid IS NULL OR department_id=$3)`
	var avg float64
	if err := r.pool.QueryRow(ctx, query, from, to, departmentID).Scan(&avg); err != nil {
		return 0, err
	}
	return avg, nil
}

func (r *analyticsRepository) CreatedPerDay(ctx context.Context, from, to time.Time, departmentID *string) ([]DateCount, error) {
	const query = `
        SELECT date_trunc('day', created_at) AS day, COUNT(*)
        FROM tickets
        WHERE created_at >= $1 AND created_at < $2
          AND ($3::uuid IS NULL OR department_id=$3)
        GROUP BY day ORDER BY day`
	rows, err := r.pool.Query(ctx, query, from, to, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []DateCount
	for rows.Next() {
		var point DateCount
		if err := rows.Scan(&point.Date, &point.Count); err != nil {
			return nil, err
		}
		result = append(result, point)
	}
	return result, rows.Err()
}

func (r *analyticsRepository) DepartmentStats(ctx context.Context, from, to time.Time) ([]DepartmentStats, error) {
	const query = `
        SELECT d.id, d.name,
               COUNT(t.id),
               COUNT(t.id) FILTER (WHERE t.status='OPEN'),
               COUNT(t.id) FILTER (WHERE t.status IN ('RESOLVED','CLOSED')),
               COALESCE(AVG(EXTRACT(EPOCH FROM (COALESCE(t.resolved_at, t.closed_at) - t.created_at)) / 3600)
                   FILTER (WHERE t.status IN ('RESOLVED','CLOSED') AND COALESCE(t.resolved_at, t.closed_at) IS NOT NULL), 0),
               (SELECT COUNT(*) FROM department_members m WHERE m.department_id = d.id AND m.is_active)
        FROM departments d
        LEFT JOIN tickets t ON t.department_id = d.id AND t.created_at >= $1 AND t.created_at < $2
        WHERE d.is_active
        GROUP BY d.id, d.name
        ORDER BY d.name`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []DepartmentStats
	for rows.Next() {
		var stats DepartmentStats
		if err := rows.Scan(
			&stats.DepartmentID,
			&stats.DepartmentName,
			&stats.Total,
			&stats.Open,
			&stats.Completed,
			&stats.AvgResolution,
			&stats.MemberCount,
		); err != nil {
			return nil, err
		}
		result = append(result, stats)
	}
	return result, rows.Err()
}

func (r *analyticsRepository) TopCreators(ctx context.Context, from, to time.Time, limit int) ([]UserCount, error) {
	if limit <= 0 {
		limit = 10
	}
	const query = `
        SELECT u.id, u.name, COUNT(t.id)
        FROM tickets t
        JOIN users u ON u.id = t.requester_id
        WHERE t.created_at >= $1 AND t.created_at < $2
        GROUP BY u.id, u.name
        ORDER BY COUNT(t.id) DESC
        LIMIT $3`
	rows, err := r.pool.Query(ctx, query, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUserCounts(rows, false)
}

// TopResolvers ranks users by resolving/closing activity recorded in the
// ticket audit trail, with their average resolution time.
func (r *analyticsRepository) TopResolvers(ctx context.Context, from, to time.Time, limit int) ([]UserCount, error) {
	if limit <= 0 {
		limit = 10
	}
	const query = `
        SELECT u.id, u.name, COUNT(DISTINCT h.ticket_id),
               COALESCE(AVG(EXTRACT(EPOCH FROM (COALESCE(t.resolved_at, t.closed_at) - t.created_at)) / 3600)
                   FILTER (WHERE COALESCE(t.resolved_at, t.closed_at) IS NOT NULL), 0)
        FROM ticket_history h
        JOIN users u ON u.id = h.changed_by_id
        JOIN tickets t ON t.id = h.ticket_id
        WHERE h.created_at >= $1 AND h.created_at < $2
          AND (h.action='CLOSED' OR (h.action='STATUS_CHANGED' AND h.new_value='RESOLVED'))
        GROUP BY u.id, u.name
        ORDER BY COUNT(DISTINCT h.ticket_id) DESC
        LIMIT $3`
	rows, err := r.pool.Query(ctx, query, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUserCounts(rows, true)
}

func (r *analyticsRepository) SLACompliance(ctx context.Context, from, to time.Time) (*SLACompliance, error) {
	const query = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE closed_at <= due_date),
               COUNT(*) FILTER (WHERE closed_at > due_date)
        FROM tickets
        WHERE status IN ('RESOLVED','CLOSED')
          AND due_date IS NOT NULL AND closed_at IS NOT NULL
          AND closed_at >= $1 AND closed_at < $2`
	var c SLACompliance
	if err := r.pool.QueryRow(ctx, query, from, to).Scan(&c.Total, &c.OnTime, &c.Overdue); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *analyticsRepository) RatingSummary(ctx context.Context, from, to time.Time) (*RatingSummary, error) {
	const query = `
        SELECT stars, COUNT(*)
        FROM ticket_ratings
        WHERE rated_at >= $1 AND rated_at < $2
        GROUP BY stars`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summary := &RatingSummary{PerStar: map[int]int{}}
	sum := 0
	for rows.Next() {
		var stars, count int
		if err := rows.Scan(&stars, &count); err != nil {
			return nil, err
		}
		summary.PerStar[stars] = count
		summary.Count += count
		sum += stars * count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if summary.Count > 0 {
		summary.Average = float64(sum) / float64(summary.Count)
	}
	return summary, nil
}

type userCountScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanUserCounts(rows userCountScanner, withAvg bool) ([]UserCount, error) {
	var result []UserCount
	for rows.Next() {
		var item UserCount
		var err error
		if withAvg {
			err = rows.Scan(&item.UserID, &item.UserName, &item.Count, &item.AvgResolution)
		} else {
			err = rows.Scan(&item.UserID, &item.UserName, &item.Count)
		}
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
