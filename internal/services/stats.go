package services

import (
	"context"
	"fmt"
	"time"

	"ponte/internal/domain"
	"ponte/internal/ports"
)

// UsageReport aggregates archived queries over a period
type UsageReport struct {
	Since    time.Time
	Totals   ports.QueryTotals
	Outcomes map[domain.Outcome]int
}

// StatsService computes usage reports from the query archive
type StatsService struct {
	archive ports.QueryArchive
}

// NewStatsService creates a StatsService over the given archive
func NewStatsService(archive ports.QueryArchive) *StatsService {
	return &StatsService{archive: archive}
}

// ReportSince aggregates all queries archived at or after since
func (s *StatsService) ReportSince(ctx context.Context, since time.Time) (UsageReport, error) {
	totals, err := s.archive.TotalsSince(ctx, since)
	if err != nil {
		return UsageReport{}, fmt.Errorf("failed to aggregate query totals: %w", err)
	}
	outcomes, err := s.archive.OutcomeCountsSince(ctx, since)
	if err != nil {
		return UsageReport{}, fmt.Errorf("failed to count outcomes: %w", err)
	}
	return UsageReport{Since: since, Totals: totals, Outcomes: outcomes}, nil
}

// ReportToday aggregates queries since local midnight
func (s *StatsService) ReportToday(ctx context.Context) (UsageReport, error) {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.ReportSince(ctx, midnight.UTC())
}

// ReportDays aggregates queries over the last n days
func (s *StatsService) ReportDays(ctx context.Context, days int) (UsageReport, error) {
	if days < 1 {
		days = 1
	}
	return s.ReportSince(ctx, time.Now().UTC().AddDate(0, 0, -days))
}
