package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"ponte/internal/domain"
	"ponte/internal/services"
)

// StatsCmd shows query and token usage statistics
type StatsCmd struct {
	Days int `help:"Number of days to aggregate (1 = since midnight)" default:"1"`
}

// Run executes the stats command
func (s *StatsCmd) Run(container *Container) error {
	ctx := context.Background()

	var report services.UsageReport
	var err error
	if s.Days <= 1 {
		report, err = container.StatsService.ReportToday(ctx)
	} else {
		report, err = container.StatsService.ReportDays(ctx, s.Days)
	}
	if err != nil {
		return fmt.Errorf("failed to build usage report: %w", err)
	}

	fmt.Printf("Usage since %s\n\n", report.Since.Local().Format("2006-01-02 15:04"))

	if report.Totals.Queries == 0 {
		fmt.Println("No queries yet.")
		return nil
	}

	fmt.Println("Tokens        Input       Output      Cache read  Cache creation")
	fmt.Println(strings.Repeat("─", 66))
	fmt.Printf("Total         %-11s %-11s %-11s %s\n",
		formatNumber(report.Totals.InputTokens),
		formatNumber(report.Totals.OutputTokens),
		formatNumber(report.Totals.CacheRead),
		formatNumber(report.Totals.CacheCreation))

	fmt.Printf("\nQueries: %d\n", report.Totals.Queries)

	outcomes := make([]domain.Outcome, 0, len(report.Outcomes))
	for outcome := range report.Outcomes {
		outcomes = append(outcomes, outcome)
	}
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i] < outcomes[j] })
	for _, outcome := range outcomes {
		fmt.Printf("  %-24s %d\n", outcome, report.Outcomes[outcome])
	}
	return nil
}

// formatNumber formats a number with comma separators
func formatNumber(n int) string {
	if n == 0 {
		return "0"
	}
	s := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteRune(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}
