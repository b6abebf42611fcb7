package mocks

import (
	"context"
	"time"

	"github.com/helpdeskd/helpdesk/internal/repository"
)

// MockAnalyticsRepository implements repository.AnalyticsRepository.
type MockAnalyticsRepository struct {
	StatusCountsFunc       func(ctx context.Context, from, to time.Time, departmentID *string) (*repository.StatusBreakdown, error)
	PriorityCountsFunc     func(ctx context.Context, from, to time.Time, departmentID *string) (*repository.PriorityBreakdown, error)
	AvgResolutionHoursFunc func(ctx context.Context, from, to time.Time, departmentID *string) (float64, error)
	CreatedPerDayFunc      func(ctx context.Context, from, to time.Time, departmentID *string) ([]repository.DateCount, error)
	DepartmentStatsFunc    func(ctx context.Context, from, to time.Time) ([]repository.DepartmentStats, error)
	TopCreatorsFunc        func(ctx context.Context, from, to time.Time, limit int) ([]repository.UserCount, error)
	TopResolversFunc       func(ctx context.Context, from, to time.Time, limit int) ([]repository.UserCount, error)
	SLAComplianceFunc      func(ctx context.Context, from, to time.Time) (*repository.SLACompliance, error)
	RatingSummaryFunc      func(ctx context.Context, from, to time.Time) (*repository.RatingSummary, error)
}

func (m *MockAnalyticsRepository) StatusCounts(ctx context.Context, from, to time.Time, departmentID *string) (*repository.StatusBreakdown, error) {
	if m.StatusCountsFunc == nil {
		return &repository.StatusBreakdown{}, nil
	}
	return m.StatusCountsFunc(ctx, from, to, departmentID)
}

func (m *MockAnalyticsRepository) PriorityCounts(ctx context.Context, from, to time.Time, departmentID *string) (*repository.PriorityBreakdown, error) {
	if m.PriorityCountsFunc == nil {
		return &repository.PriorityBreakdown{}, nil
	}
	return m.PriorityCountsFunc(ctx, from, to, departmentID)
}

func (m *MockAnalyticsRepository) AvgResolutionHours(ctx context.Context, from, to time.Time, departmentID *string) (float64, error) {
	if m.AvgResolutionHoursFunc == nil {
		return 0, nil
	}
	return m.AvgResolutionHoursFunc(ctx, from, to, departmentID)
}

func (m *MockAnalyticsRepository) CreatedPerDay(ctx context.Context, from, to time.Time, departmentID *string) ([]repository.DateCount, error) {
	if m.CreatedPerDayFunc == nil {
		return nil, nil
	}
	return m.CreatedPerDayFunc(ctx, from, to, departmentID)
}

func (m *MockAnalyticsRepository) DepartmentStats(ctx context.Context, from, to time.Time) ([]repository.DepartmentStats, error) {
	if m.DepartmentStatsFunc == nil {
		return nil, nil
	}
	return m.DepartmentStatsFunc(ctx, from, to)
}

func (m *MockAnalyticsRepository) TopCreators(ctx context.Context, from, to time.Time, limit int) ([]repository.UserCount, error) {
	if m.TopCreatorsFunc == nil {
		return nil, nil
	}
	return m.TopCreatorsFunc(ctx, from, to, limit)
}

func (m *MockAnalyticsRepository) TopResolvers(ctx context.Context, from, to time.Time, limit int) ([]repository.UserCount, error) {
	if m.TopResolversFunc == nil {
		return nil, nil
	}
	return m.TopResolversFunc(ctx, from, to, limit)
}

func (m *MockAnalyticsRepository) SLACompliance(ctx context.Context, from, to time.Time) (*repository.SLACompliance, error) {
	if m.SLAComplianceFunc == nil {
		return &repository.SLACompliance{}, nil
	}
	return m.SLAComplianceFunc(ctx, from, to)
}

func (m *MockAnalyticsRepository) RatingSummary(ctx context.Context, from, to time.Time) (*repository.RatingSummary, error) {
	if m.RatingSummaryFunc == nil {
		return &repository.RatingSummary{}, nil
	}
	return m.RatingSummaryFunc(ctx, from, to)
}
