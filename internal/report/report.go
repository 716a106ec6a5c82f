// Package report builds the periodic plain-text market intelligence report:
// a pipeline-generated market analysis, the sector overview table, and the
// monitoring status footer.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chipsight/chipsight/internal/monitor"
	"github.com/chipsight/chipsight/pkg/models"
)

// hourlyQuery is the fixed query that drives the report's analysis section.
const hourlyQuery = "What happened in semiconductor market in the past hour?"

// Analyst produces the narrative market analysis.
type Analyst interface {
	Answer(ctx context.Context, query string) (models.Answer, error)
}

// SectorSource provides the overview table data.
type SectorSource interface {
	Overview(ctx context.Context) (*monitor.SectorOverview, error)
}

// Generator assembles full reports.
type Generator struct {
	analyst    Analyst
	sector     SectorSource
	highPct    float64
	extremePct float64
	now        func() time.Time
}

// NewGenerator creates a report generator with the given alert thresholds
// echoed in the status footer.
func NewGenerator(analyst Analyst, sector SectorSource, highPct, extremePct float64) *Generator {
	return &Generator{
		analyst:    analyst,
		sector:     sector,
		highPct:    highPct,
		extremePct: extremePct,
		now:        time.Now,
	}
}

// Generate produces the full report. A failed analysis degrades to a
// placeholder line rather than failing the whole report; a failed overview
// renders an empty table.
func (g *Generator) Generate(ctx context.Context) string {
	analysis := "Unable to generate market analysis"
	if g.analyst != nil {
		if answer, err := g.analyst.Answer(ctx, hourlyQuery); err == nil && answer.HumanizedAnswer != "" {
			analysis = answer.HumanizedAnswer
		}
	}

	var overview *monitor.SectorOverview
	if g.sector != nil {
		if ov, err := g.sector.Overview(ctx); err == nil {
			overview = ov
		}
	}
	if overview == nil {
		overview = &monitor.SectorOverview{}
	}

	return g.build(analysis, overview)
}

func (g *Generator) build(analysis string, overview *monitor.SectorOverview) string {
	var b strings.Builder

	b.WriteString("SEMICONDUCTOR MARKET INTELLIGENCE REPORT\n")
	fmt.Fprintf(&b, "Generated at: %s\n\n", g.now().Format("2006-01-02 15:04"))

	b.WriteString("=== MARKET ANALYSIS ===\n")
	b.WriteString(analysis)
	b.WriteString("\n\n")

	b.WriteString("=== SECTOR OVERVIEW ===\n")
	fmt.Fprintf(&b, "Sector Average: %+.2f%%\n", overview.AverageChange)
	fmt.Fprintf(&b, "Companies Tracked: %d\n\n", overview.Tracked)
	b.WriteString("Individual Stock Performance:\n")
	b.WriteString(strings.Repeat("-", 40) + "\n")
	for _, c := range overview.Companies {
		fmt.Fprintf(&b, "%-15s (%-4s): $%8.2f (%+6.2f%%)\n", c.Company, c.Symbol, c.Price, c.ChangePct)
	}
	b.WriteString("\n")

	b.WriteString("=== MONITORING STATUS ===\n")
	fmt.Fprintf(&b, "Volatility Thresholds: High >=%.0f%%, Extreme >=%.0f%%\n", g.highPct, g.extremePct)
	fmt.Fprintf(&b, "Next Report: %s\n", NextHour(g.now).Format("2006-01-02 15:00"))

	return b.String()
}

// NextHour returns the next top-of-hour after now().
func NextHour(now func() time.Time) time.Time {
	t := now()
	return t.Add(time.Hour).Truncate(time.Hour)
}
