package monitor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chipsight/chipsight/pkg/models"
)

// fakeMarket serves canned prices per company.
type fakeMarket struct {
	current  map[string]float64 // company -> current price
	previous map[string]float64 // symbol -> lookback price
	prevErr  error
}

func (f *fakeMarket) CompanyData(_ context.Context, company string) (*models.CompanyStockData, error) {
	price, ok := f.current[company]
	if !ok {
		return nil, errors.New("no data")
	}
	return &models.CompanyStockData{
		Company: company,
		Symbol:  company[:3],
		Current: &models.StockSnapshot{Price: price, ChangePct: 1.0, Volume: 100},
	}, nil
}

func (f *fakeMarket) PriceAt(_ context.Context, symbol string, _ int) (float64, time.Time, error) {
	if f.prevErr != nil {
		return 0, time.Time{}, f.prevErr
	}
	return f.previous[symbol], time.Now(), nil
}

type fakeAnalyst struct{ answer string }

func (f fakeAnalyst) Answer(_ context.Context, _ string) (models.Answer, error) {
	return models.Answer{HumanizedAnswer: f.answer}, nil
}

type recordingSink struct {
	mu     sync.Mutex
	alerts []models.Alert
}

func (r *recordingSink) Notify(_ context.Context, alerts []models.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, alerts...)
	return nil
}

func TestCheckNoVolatility(t *testing.T) {
	market := &fakeMarket{
		current:  map[string]float64{"NVIDIA": 101},
		previous: map[string]float64{"NVI": 100},
	}
	m := New(market, nil, Config{Companies: []string{"NVIDIA"}})

	if alerts := m.Check(context.Background()); len(alerts) != 0 {
		t.Fatalf("1%% move should not alert, got %v", alerts)
	}
}

func TestCheckHighVolatility(t *testing.T) {
	market := &fakeMarket{
		current:  map[string]float64{"NVIDIA": 106},
		previous: map[string]float64{"NVI": 100},
	}
	sink := &recordingSink{}
	m := New(market, fakeAnalyst{answer: "earnings beat"}, Config{Companies: []string{"NVIDIA"}})
	m.AddSink(sink)

	alerts := m.Check(context.Background())
	if len(alerts) != 1 {
		t.Fatalf("got %d alerts, want 1", len(alerts))
	}
	a := alerts[0]
	if a.Severity != models.SeverityHigh {
		t.Fatalf("got severity %q", a.Severity)
	}
	if !strings.Contains(a.Trigger, "High 5-minute volatility: +6.00%") {
		t.Fatalf("got trigger %q", a.Trigger)
	}
	if a.Window != "5 minutes" {
		t.Fatalf("got window %q", a.Window)
	}
	if a.Analysis != "earnings beat" {
		t.Fatalf("got analysis %q", a.Analysis)
	}
	if len(sink.alerts) != 1 {
		t.Fatalf("sink got %d alerts", len(sink.alerts))
	}
}

func TestCheckExtremeVolatilityDownMove(t *testing.T) {
	market := &fakeMarket{
		current:  map[string]float64{"NVIDIA": 88},
		previous: map[string]float64{"NVI": 100},
	}
	m := New(market, nil, Config{Companies: []string{"NVIDIA"}})

	alerts := m.Check(context.Background())
	if len(alerts) != 1 || alerts[0].Severity != models.SeverityExtreme {
		t.Fatalf("got %+v", alerts)
	}
	if !strings.Contains(alerts[0].Trigger, "-12.00%") {
		t.Fatalf("got trigger %q", alerts[0].Trigger)
	}
	// No analyst configured: canned fallback text.
	if !strings.Contains(alerts[0].Analysis, "Unable to analyze the cause") {
		t.Fatalf("got analysis %q", alerts[0].Analysis)
	}
}

func TestCheckSkipsMissingLookback(t *testing.T) {
	market := &fakeMarket{
		current: map[string]float64{"NVIDIA": 120},
		prevErr: errors.New("stale"),
	}
	m := New(market, nil, Config{Companies: []string{"NVIDIA"}})
	if alerts := m.Check(context.Background()); len(alerts) != 0 {
		t.Fatalf("missing lookback should skip, got %v", alerts)
	}
}

func TestCheckCustomWindow(t *testing.T) {
	market := &fakeMarket{
		current:  map[string]float64{"Intel": 111},
		previous: map[string]float64{"Int": 100},
	}
	m := New(market, nil, Config{Companies: []string{"Intel"}, WindowMin: 15})

	alerts := m.Check(context.Background())
	if len(alerts) != 1 {
		t.Fatalf("got %d alerts", len(alerts))
	}
	if alerts[0].Window != "15 minutes" {
		t.Fatalf("got window %q", alerts[0].Window)
	}
	if !strings.Contains(alerts[0].Trigger, "15-minute") {
		t.Fatalf("got trigger %q", alerts[0].Trigger)
	}
}

func TestAnalysisTruncated(t *testing.T) {
	market := &fakeMarket{
		current:  map[string]float64{"NVIDIA": 120},
		previous: map[string]float64{"NVI": 100},
	}
	m := New(market, fakeAnalyst{answer: strings.Repeat("x", 800)}, Config{Companies: []string{"NVIDIA"}})

	alerts := m.Check(context.Background())
	if len(alerts) != 1 {
		t.Fatalf("got %d alerts", len(alerts))
	}
	if len(alerts[0].Analysis) != analysisMaxLen+3 || !strings.HasSuffix(alerts[0].Analysis, "...") {
		t.Fatalf("analysis not truncated: len=%d", len(alerts[0].Analysis))
	}
}

func TestOverview(t *testing.T) {
	market := &fakeMarket{
		current: map[string]float64{"NVIDIA": 100, "Intel": 50},
	}
	m := New(market, nil, Config{Companies: []string{"NVIDIA", "Intel", "Missing"}})

	ov, err := m.Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if ov.Tracked != 2 {
		t.Fatalf("got %d tracked, want 2 (failures skipped)", ov.Tracked)
	}
	// fakeMarket reports ChangePct 1.0 for every company.
	if ov.AverageChange != 1.0 {
		t.Fatalf("got average %v", ov.AverageChange)
	}
	// Watch-list order preserved.
	if ov.Companies[0].Company != "NVIDIA" || ov.Companies[1].Company != "Intel" {
		t.Fatalf("got %+v", ov.Companies)
	}
}

func TestDefaults(t *testing.T) {
	m := New(&fakeMarket{}, nil, Config{})
	if len(m.Companies()) != len(DefaultCompanies) {
		t.Fatalf("got %d companies", len(m.Companies()))
	}
	if m.highPct != 5.0 || m.extremePct != 10.0 || m.windowMin != 5 {
		t.Fatalf("got %v/%v/%d", m.highPct, m.extremePct, m.windowMin)
	}
}
