package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/helpdeskd/helpdesk/internal/config"
	"github.com/helpdeskd/helpdesk/internal/repository"
	apperrors "github.com/helpdeskd/helpdesk/pkg/util"
)

// Named reporting ranges accepted by the dashboard.
const (
	RangeLast7Days  = "7_days"
	RangeLast30Days = "30_days"
	RangeLast90Days = "90_days"
	RangeThisMonth  = "this_month"
	RangeLastMonth  = "last_month"
	RangeThisYear   = "this_year"
)

// Dashboard is the aggregated analytics payload.
type Dashboard struct {
	Range              string                        `json:"range"`
	From               time.Time                     `json:"from"`
	To                 time.Time                     `json:"to"`
	DepartmentID       *string                       `json:"department_id,omitempty"`
	Statuses           *repository.StatusBreakdown   `json:"statuses"`
	Priorities         *repository.PriorityBreakdown `json:"priorities"`
	CompletionRate     float64                       `json:"completion_rate"`
	AvgResolutionHours float64                       `json:"avg_resolution_hours"`
	CreatedPerDay      []repository.DateCount        `json:"created_per_day"`
	Departments        []repository.DepartmentStats  `json:"departments"`
	TopCreators        []repository.UserCount        `json:"top_creators"`
	TopResolvers       []repository.UserCount        `json:"top_resolvers"`
	SLA                *repository.SLACompliance     `json:"sla"`
	Ratings            *repository.RatingSummary     `json:"ratings"`
	GeneratedAt        time.Time                     `json:"generated_at"`
	Cached             bool                          `json:"cached"`
}

// AnalyticsService builds the dashboard, caching results in Redis so
// repeated loads do not hammer the aggregate queries.
type AnalyticsService struct {
	analytics repository.AnalyticsRepository
	cache     *redis.Client
	ttl       time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewAnalyticsService creates the service. cache may be nil when Redis is
// unavailable; the dashboard is then computed on every request.
func NewAnalyticsService(analytics repository.AnalyticsRepository, cache *redis.Client, cfg config.AnalyticsConfig, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		analytics: analytics,
		cache:     cache,
		ttl:       cfg.CacheTTL(),
		logger:    logger,
		now:       time.Now,
	}
}

// Dashboard computes (or serves from cache) the analytics for the named
// range, optionally scoped to one department. refresh bypasses the cache.
func (s *AnalyticsService) Dashboard(ctx context.Context, rangeName string, departmentID *string, refresh bool) (*Dashboard, error) {
	now := s.now()
	from, to, err := resolveRange(rangeName, now)
	if err != nil {
		return nil, err
	}

	key := s.cacheKey(rangeName, departmentID)
	if !refresh {
		if cached := s.fromCache(ctx, key); cached != nil {
			cached.Cached = true
			return cached, nil
		}
	}

	dashboard := &Dashboard{
		Range:        rangeName,
		From:         from,
		To:           to,
		DepartmentID: departmentID,
		GeneratedAt:  now,
	}

	if dashboard.Statuses, err = s.analytics.StatusCounts(ctx, from, to, departmentID); err != nil {
		return nil, apperrors.MapError(err)
	}
	if dashboard.Statuses.Total > 0 {
		completed := dashboard.Statuses.Resolved + dashboard.Statuses.Closed
		dashboard.CompletionRate = float64(completed) / float64(dashboard.Statuses.Total)
	}
	if dashboard.Priorities, err = s.analytics.PriorityCounts(ctx, from, to, departmentID); err != nil {
		return nil, apperrors.MapError(err)
	}
	if dashboard.AvgResolutionHours, err = s.analytics.AvgResolutionHours(ctx, from, to, departmentID); err != nil {
		return nil, apperrors.MapError(err)
	}
	perDay, err := s.analytics.CreatedPerDay(ctx, from, to, departmentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	dashboard.CreatedPerDay = fillMissingDays(perDay, from, to)
	if dashboard.Departments, err = s.analytics.DepartmentStats(ctx, from, to); err != nil {
		return nil, apperrors.MapError(err)
	}
	if dashboard.TopCreators, err = s.analytics.TopCreators(ctx, from, to, 10); err != nil {
		return nil, apperrors.MapError(err)
	}
	if dashboard.TopResolvers, err = s.analytics.TopResolvers(ctx, from, to, 10); err != nil {
		return nil, apperrors.MapError(err)
	}
	if dashboard.SLA, err = s.analytics.SLACompliance(ctx, from, to); err != nil {
		return nil, apperrors.MapError(err)
	}
	if dashboard.Ratings, err = s.analytics.RatingSummary(ctx, from, to); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.toCache(ctx, key, dashboard)
	return dashboard, nil
}

// resolveRange turns a named range into a [from, to) window anchored at now.
func resolveRange(rangeName string, now time.Time) (time.Time, time.Time, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch rangeName {
	case "", RangeLast30Days:
		return dayStart.AddDate(0, 0, -29), now, nil
	case RangeLast7Days:
		return dayStart.AddDate(0, 0, -6), now, nil
	case RangeLast90Days:
		return dayStart.AddDate(0, 0, -89), now, nil
	case RangeThisMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), now, nil
	case RangeLastMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return first.AddDate(0, -1, 0), first, nil
	case RangeThisYear:
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()), now, nil
	default:
		return time.Time{}, time.Time{}, apperrors.NewValidationError("unknown range", map[string]any{"range": rangeName})
	}
}

// fillMissingDays zero-fills the per-day series so charts get a point for
// every day in the window.
func fillMissingDays(counts []repository.DateCount, from, to time.Time) []repository.DateCount {
	byDay := make(map[string]int, len(counts))
	for _, c := range counts {
		byDay[c.Date.Format("2006-01-02")] = c.Count
	}
	var filled []repository.DateCount
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		filled = append(filled, repository.DateCount{Date: day, Count: byDay[day.Format("2006-01-02")]})
	}
	return filled
}

func (s *AnalyticsService) cacheKey(rangeName string, departmentID *string) string {
	dept := "all"
	if departmentID != nil {
		dept = *departmentID
	}
	if rangeName == "" {
		rangeName = RangeLast30Days
	}
	return fmt.Sprintf("analytics:dashboard:%s:%s", rangeName, dept)
}

func (s *AnalyticsService) fromCache(ctx context.Context, key string) *Dashboard {
	if s.cache == nil || s.ttl <= 0 {
		return nil
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	var dashboard Dashboard
	if err := json.Unmarshal(raw, &dashboard); err != nil {
		return nil
	}
	return &dashboard
}

func (s *AnalyticsService) toCache(ctx context.Context, key string, dashboard *Dashboard) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(dashboard)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		s.logger.Debug("analytics cache write failed", zap.Error(err))
	}
}
