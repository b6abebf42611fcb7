package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/helpdeskd/helpdesk/internal/config"
	"github.com/helpdeskd/helpdesk/internal/repository"
	"github.com/helpdeskd/helpdesk/internal/service/mocks"
)

func TestResolveRange(t *testing.T) {
	// Sunday June 15th, mid-afternoon.
	now := time.Date(2025, 6, 15, 15, 30, 0, 0, time.UTC)
	dayStart := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		from, to time.Time
	}{
		{RangeLast7Days, dayStart.AddDate(0, 0, -6), now},
		{RangeLast30Days, dayStart.AddDate(0, 0, -29), now},
		{RangeLast90Days, dayStart.AddDate(0, 0, -89), now},
		{RangeThisMonth, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), now},
		{RangeLastMonth, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		{RangeThisYear, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), now},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			from, to, err := resolveRange(tc.name, now)
			assert.NoError(t, err)
			assert.Equal(t, tc.from, from)
			assert.Equal(t, tc.to, to)
		})
	}

	t.Run("empty defaults to 30 days", func(t *testing.T) {
		from, to, err := resolveRange("", now)
		assert.NoError(t, err)
		assert.Equal(t, dayStart.AddDate(0, 0, -29), from)
		assert.Equal(t, now, to)
	})

	t.Run("unknown range rejected", func(t *testing.T) {
		_, _, err := resolveRange("fortnight", now)
		assertDomainCode(t, err, "VALIDATION_FAILED")
	})
}

func TestFillMissingDays(t *testing.T) {
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 5)
	sparse := []repository.DateCount{
		{Date: from.AddDate(0, 0, 1), Count: 3},
		{Date: from.AddDate(0, 0, 4), Count: 7},
	}

	filled := fillMissingDays(sparse, from, to)
	assert.Len(t, filled, 5)
	counts := make([]int, len(filled))
	for i, c := range filled {
		counts[i] = c.Count
		assert.Equal(t, from.AddDate(0, 0, i), c.Date)
	}
	assert.Equal(t, []int{0, 3, 0, 0, 7}, counts)
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()

	t.Run("aggregates without cache", func(t *testing.T) {
		var gotFrom, gotTo time.Time
		analytics := &mocks.MockAnalyticsRepository{
			StatusCountsFunc: func(ctx context.Context, from, to time.Time, departmentID *string) (*repository.StatusBreakdown, error) {
				gotFrom, gotTo = from, to
				return &repository.StatusBreakdown{Total: 8, Open: 4, Resolved: 2, Closed: 2}, nil
			},
			AvgResolutionHoursFunc: func(ctx context.Context, from, to time.Time, departmentID *string) (float64, error) {
				return 12.5, nil
			},
			CreatedPerDayFunc: func(ctx context.Context, from, to time.Time, departmentID *string) ([]repository.DateCount, error) {
				return []repository.DateCount{{Date: from, Count: 2}}, nil
			},
		}
		svc := NewAnalyticsService(analytics, nil, config.AnalyticsConfig{CacheTTLSeconds: 120}, zap.NewNop())
		svc.now = mocks.Now

		dashboard, err := svc.Dashboard(ctx, RangeLast7Days, nil, false)
		assert.NoError(t, err)
		assert.Equal(t, RangeLast7Days, dashboard.Range)
		assert.False(t, dashboard.Cached)
		assert.Equal(t, 4, dashboard.Statuses.Open)
		assert.InDelta(t, 0.5, dashboard.CompletionRate, 1e-9)
		assert.Equal(t, 12.5, dashboard.AvgResolutionHours)
		assert.Equal(t, mocks.Now(), dashboard.GeneratedAt)
		assert.Equal(t, gotFrom, dashboard.From)
		assert.Equal(t, gotTo, dashboard.To)
		// zero-filled series covers every day of the window
		assert.Len(t, dashboard.CreatedPerDay, 7)
		assert.Equal(t, 2, dashboard.CreatedPerDay[0].Count)
		assert.Equal(t, 0, dashboard.CreatedPerDay[1].Count)
	})

	t.Run("department scope passes through", func(t *testing.T) {
		dept := "dept-1"
		var gotDept *string
		analytics := &mocks.MockAnalyticsRepository{
			PriorityCountsFunc: func(ctx context.Context, from, to time.Time, departmentID *string) (*repository.PriorityBreakdown, error) {
				gotDept = departmentID
				return &repository.PriorityBreakdown{}, nil
			},
		}
		svc := NewAnalyticsService(analytics, nil, config.AnalyticsConfig{}, zap.NewNop())
		svc.now = mocks.Now

		dashboard, err := svc.Dashboard(ctx, RangeThisMonth, &dept, false)
		assert.NoError(t, err)
		assert.Equal(t, &dept, gotDept)
		assert.Equal(t, &dept, dashboard.DepartmentID)
	})

	t.Run("unknown range rejected", func(t *testing.T) {
		svc := NewAnalyticsService(&mocks.MockAnalyticsRepository{}, nil, config.AnalyticsConfig{}, zap.NewNop())
		_, err := svc.Dashboard(ctx, "quarter", nil, false)
		assertDomainCode(t, err, "VALIDATION_FAILED")
	})
}

func TestAnalyticsCacheKey(t *testing.T) {
	svc := NewAnalyticsService(&mocks.MockAnalyticsRepository{}, nil, config.AnalyticsConfig{}, zap.NewNop())
	dept := "dept-1"
	assert.Equal(t, "analytics:dashboard:7_days:all", svc.cacheKey(RangeLast7Days, nil))
	assert.Equal(t, "analytics:dashboard:30_days:all", svc.cacheKey("", nil))
	assert.Equal(t, "analytics:dashboard:this_month:dept-1", svc.cacheKey(RangeThisMonth, &dept))
}
