// Package monitor watches the tracked semiconductor stocks for short-window
// volatility and builds sector-wide overviews. A price move beyond the high
// or extreme threshold produces an alert, enriched with a pipeline analysis
// of the likely cause, and dispatched to the registered sinks.
package monitor

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/chipsight/chipsight/pkg/models"
	"github.com/chipsight/chipsight/pkg/utils"
)

// analysisMaxLen caps the attached analysis so alert payloads stay short.
const analysisMaxLen = 500

// MarketSource provides the price lookups the monitor needs.
type MarketSource interface {
	CompanyData(ctx context.Context, company string) (*models.CompanyStockData, error)
	PriceAt(ctx context.Context, symbol string, minutesBack int) (float64, time.Time, error)
}

// Analyst explains a price movement. The orchestrator satisfies this.
type Analyst interface {
	Answer(ctx context.Context, query string) (models.Answer, error)
}

// AlertSink receives dispatched alerts.
type AlertSink interface {
	Notify(ctx context.Context, alerts []models.Alert) error
}

// LogSink writes alerts to the standard logger.
type LogSink struct{}

// Notify logs each alert.
func (LogSink) Notify(_ context.Context, alerts []models.Alert) error {
	for _, a := range alerts {
		log.Printf("monitor: %s alert: %s (%s) %+.2f%% over %s", a.Severity, a.Company, a.Symbol, a.ChangePct, a.Window)
	}
	return nil
}

// Monitor checks tracked companies for volatility.
type Monitor struct {
	companies  []string
	market     MarketSource
	analyst    Analyst // nil disables cause analysis
	highPct    float64
	extremePct float64
	windowMin  int

	mu    sync.Mutex
	sinks []AlertSink
}

// Config holds monitor settings.
type Config struct {
	Companies  []string
	HighPct    float64
	ExtremePct float64
	WindowMin  int
}

// DefaultCompanies is the watch list used when none is configured.
var DefaultCompanies = []string{
	"NVIDIA", "TSMC", "Intel", "AMD", "Qualcomm",
	"Broadcom", "Micron", "ASML", "Texas Instruments",
}

// New creates a monitor. Zero config fields fall back to the defaults:
// 5%/10% thresholds over a 5-minute window across DefaultCompanies.
func New(market MarketSource, analyst Analyst, cfg Config) *Monitor {
	m := &Monitor{
		companies:  cfg.Companies,
		market:     market,
		analyst:    analyst,
		highPct:    cfg.HighPct,
		extremePct: cfg.ExtremePct,
		windowMin:  cfg.WindowMin,
	}
	if len(m.companies) == 0 {
		m.companies = DefaultCompanies
	}
	if m.highPct == 0 {
		m.highPct = 5.0
	}
	if m.extremePct == 0 {
		m.extremePct = 10.0
	}
	if m.windowMin == 0 {
		m.windowMin = 5
	}
	return m
}

// AddSink registers an alert sink.
func (m *Monitor) AddSink(s AlertSink) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sinks = append(m.sinks, s)
}

// Check compares each tracked company's current price against its price one
// window ago and returns alerts for moves beyond the thresholds. Per-company
// failures are logged and skipped. Alerts are dispatched to the sinks before
// returning.
func (m *Monitor) Check(ctx context.Context) []models.Alert {
	window := fmt.Sprintf("%d minutes", m.windowMin)
	var alerts []models.Alert

	for _, company := range m.companies {
		data, err := m.market.CompanyData(ctx, company)
		if err != nil || data.Current == nil {
			log.Printf("monitor: %s: no current data: %v", company, err)
			continue
		}
		current := data.Current.Price

		previous, _, err := m.market.PriceAt(ctx, data.Symbol, m.windowMin)
		if err != nil || previous <= 0 {
			log.Printf("monitor: %s (%s): $%.2f (no %s lookback)", company, data.Symbol, current, window)
			continue
		}

		changePct := (current - previous) / previous * 100
		log.Printf("monitor: %s (%s): %+.2f%% ($%.2f -> $%.2f)", company, data.Symbol, changePct, previous, current)

		severity, trigger := classify(changePct, m.highPct, m.extremePct, window)
		if severity == "" {
			continue
		}

		alerts = append(alerts, models.Alert{
			Company:       company,
			Symbol:        data.Symbol,
			CurrentPrice:  current,
			PreviousPrice: previous,
			ChangePct:     changePct,
			Trigger:       trigger,
			Severity:      severity,
			Window:        window,
			Analysis:      m.analyze(ctx, company, data.Symbol, changePct, current, previous, window),
		})
	}

	if len(alerts) > 0 {
		m.dispatch(ctx, alerts)
	} else {
		log.Printf("monitor: no significant volatility detected")
	}
	return alerts
}

// classify grades a change against the thresholds. An empty severity means
// no alert.
func classify(changePct, highPct, extremePct float64, window string) (models.Severity, string) {
	abs := changePct
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= extremePct:
		return models.SeverityExtreme, fmt.Sprintf("Extreme %s volatility: %+.2f%%", windowLabel(window), changePct)
	case abs >= highPct:
		return models.SeverityHigh, fmt.Sprintf("High %s volatility: %+.2f%%", windowLabel(window), changePct)
	default:
		return "", ""
	}
}

// windowLabel turns "5 minutes" into "5-minute" for trigger text.
func windowLabel(window string) string {
	var n int
	if _, err := fmt.Sscanf(window, "%d minutes", &n); err == nil {
		return fmt.Sprintf("%d-minute", n)
	}
	return window
}

// analyze asks the pipeline what caused the move, truncated to keep alert
// payloads bounded. A failed or absent analyst yields canned fallback text.
func (m *Monitor) analyze(ctx context.Context, company, symbol string, changePct, current, previous float64, window string) string {
	fallback := fmt.Sprintf("Price moved %+.2f%% in %s. Unable to analyze the cause at this time.", changePct, window)
	if m.analyst == nil {
		return fallback
	}

	query := fmt.Sprintf(
		"%s (%s) stock price just moved %+.2f%% in the last %s, from $%.2f to $%.2f. "+
			"What might have caused this significant price movement? "+
			"Please analyze recent news, market events, or company developments that could explain this volatility. "+
			"Keep the response concise and focused on the most likely causes.",
		company, symbol, changePct, window, previous, current)

	answer, err := m.analyst.Answer(ctx, query)
	if err != nil {
		log.Printf("monitor: analysis for %s failed: %v", company, err)
		return fallback
	}
	return utils.Truncate(answer.HumanizedAnswer, analysisMaxLen)
}

func (m *Monitor) dispatch(ctx context.Context, alerts []models.Alert) {
	m.mu.Lock()
	sinks := make([]AlertSink, len(m.sinks))
	copy(sinks, m.sinks)
	m.mu.Unlock()

	for _, sink := range sinks {
		if err := sink.Notify(ctx, alerts); err != nil {
			log.Printf("monitor: sink notify failed: %v", err)
		}
	}
}

// ── Sector overview ──

// CompanyPerformance is one company's line in the sector overview.
type CompanyPerformance struct {
	Company   string  `json:"company"`
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	ChangePct float64 `json:"change_percent"`
	Volume    int64   `json:"volume"`
	MarketCap float64 `json:"market_cap,omitempty"`
}

// SectorOverview summarizes the tracked companies' session performance.
type SectorOverview struct {
	Companies     []CompanyPerformance `json:"companies"`
	AverageChange float64              `json:"sector_average_change"`
	Tracked       int                  `json:"companies_tracked"`
}

// Overview fetches every tracked company's quote concurrently and averages
// the session change across those that succeed.
func (m *Monitor) Overview(ctx context.Context) (*SectorOverview, error) {
	perf := make([]*CompanyPerformance, len(m.companies))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, company := range m.companies {
		i, company := i, company
		g.Go(func() error {
			data, err := m.market.CompanyData(gctx, company)
			if err != nil || data.Current == nil {
				log.Printf("monitor: overview %s: %v", company, err)
				return nil
			}
			perf[i] = &CompanyPerformance{
				Company:   company,
				Symbol:    data.Symbol,
				Price:     data.Current.Price,
				ChangePct: data.Current.ChangePct,
				Volume:    data.Current.Volume,
				MarketCap: data.Current.MarketCap,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	overview := &SectorOverview{}
	var total float64
	for _, p := range perf {
		if p == nil {
			continue
		}
		overview.Companies = append(overview.Companies, *p)
		total += p.ChangePct
	}
	overview.Tracked = len(overview.Companies)
	if overview.Tracked > 0 {
		overview.AverageChange = round2(total / float64(overview.Tracked))
	}
	return overview, nil
}

// Companies returns the watch list.
func (m *Monitor) Companies() []string { return m.companies }

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
