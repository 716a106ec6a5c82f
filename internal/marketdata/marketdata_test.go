package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestResolveSymbol(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"NVIDIA", "NVDA", true},
		{"nvidia", "NVDA", true},
		{"NVDA", "NVDA", true},
		{"nvda", "NVDA", true},
		{"TSMC", "TSM", true},
		{"Samsung", "005930.KS", true},
		{"Texas", "TXN", true},         // partial name
		{"Intel Corp", "INTC", true},   // name contained in input
		{"Fairchild", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ResolveSymbol(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ResolveSymbol(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestChangePercent(t *testing.T) {
	if got := changePercent(110, 100); got != 10.00 {
		t.Fatalf("got %v, want 10.00", got)
	}
	if got := changePercent(95, 100); got != -5.00 {
		t.Fatalf("got %v, want -5.00", got)
	}
	if got := changePercent(100, 0); got != 0 {
		t.Fatalf("zero prev close should yield 0, got %v", got)
	}
	if got := changePercent(100.333, 100); got != 0.33 {
		t.Fatalf("got %v, want 0.33 (2dp rounding)", got)
	}
}

// fakeYahoo serves canned v7 quote and v8 chart responses.
func fakeYahoo(t *testing.T, quoteJSON, chartJSON string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/v7/finance/quote"):
			fmt.Fprint(w, quoteJSON)
		case strings.HasPrefix(r.URL.Path, "/v8/finance/chart/"):
			fmt.Fprint(w, chartJSON)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func quoteBody(price, prevClose float64, volume int64, ts int64) string {
	return fmt.Sprintf(`{"quoteResponse":{"result":[{
		"symbol":"NVDA",
		"regularMarketPrice":%g,
		"regularMarketPreviousClose":%g,
		"regularMarketVolume":%d,
		"regularMarketTime":%d,
		"marketCap":1000000000000
	}],"error":null}}`, price, prevClose, volume, ts)
}

// chartBody builds a 1m-interval chart response ending at end with n candles
// one minute apart, closing at base, base+1, base+2, ...
func chartBody(end time.Time, n int, base float64) string {
	var ts []string
	var closes []string
	for i := 0; i < n; i++ {
		tm := end.Add(-time.Duration(n-1-i) * time.Minute)
		ts = append(ts, fmt.Sprintf("%d", tm.Unix()))
		closes = append(closes, fmt.Sprintf("%g", base+float64(i)))
	}
	return fmt.Sprintf(`{"chart":{"result":[{
		"timestamp":[%s],
		"indicators":{"quote":[{"close":[%s]}]}
	}],"error":null}}`, strings.Join(ts, ","), strings.Join(closes, ","))
}

func TestQuote(t *testing.T) {
	now := time.Now().Unix()
	srv := fakeYahoo(t, quoteBody(110, 100, 12345, now), "{}")
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	snap, err := c.Quote(context.Background(), "NVDA")
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if snap.Price != 110 || snap.PrevClose != 100 {
		t.Fatalf("got price=%v prev=%v", snap.Price, snap.PrevClose)
	}
	if snap.Change != 10 || snap.ChangePct != 10.00 {
		t.Fatalf("got change=%v pct=%v", snap.Change, snap.ChangePct)
	}
	if snap.Volume != 12345 {
		t.Fatalf("got volume %d", snap.Volume)
	}
}

func TestQuoteMissingPrevClose(t *testing.T) {
	srv := fakeYahoo(t, quoteBody(250, 0, 1, time.Now().Unix()), "{}")
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	snap, err := c.Quote(context.Background(), "NVDA")
	if err != nil {
		t.Fatal(err)
	}
	if snap.PrevClose != 250 || snap.Change != 0 || snap.ChangePct != 0 {
		t.Fatalf("missing prev close should default to current: %+v", snap)
	}
}

func TestQuoteCached(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, quoteBody(100, 100, 1, time.Now().Unix()))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	for i := 0; i < 3; i++ {
		if _, err := c.Quote(context.Background(), "NVDA"); err != nil {
			t.Fatal(err)
		}
	}
	if hits != 1 {
		t.Fatalf("got %d upstream hits, want 1 (cache)", hits)
	}
}

func TestPriceAt(t *testing.T) {
	// 10 candles ending now: closes 100..109.
	srv := fakeYahoo(t, "{}", chartBody(time.Now(), 10, 100))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	price, _, err := c.PriceAt(context.Background(), "NVDA", 5)
	if err != nil {
		t.Fatalf("PriceAt: %v", err)
	}
	if price != 104 {
		t.Fatalf("got %v, want 104 (5 candles back from 109)", price)
	}

	// Lookback past the start of the series clamps to the first candle.
	price, _, err = c.PriceAt(context.Background(), "NVDA", 500)
	if err != nil {
		t.Fatal(err)
	}
	if price != 100 {
		t.Fatalf("got %v, want 100 (clamped)", price)
	}
}

func TestPriceAtStale(t *testing.T) {
	srv := fakeYahoo(t, "{}", chartBody(time.Now().Add(-2*time.Hour), 10, 100))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, _, err := c.PriceAt(context.Background(), "NVDA", 5)
	if err == nil || !strings.Contains(err.Error(), "stale") {
		t.Fatalf("expected stale error, got %v", err)
	}
}

func TestHistory(t *testing.T) {
	chart := `{"chart":{"result":[{
		"timestamp":[1000,2000,3000,4000,5000,6000,7000],
		"indicators":{"quote":[{
			"close":[10,11,12,13,14,15,16],
			"high":[10.5,11.5,12.5,13.5,14.5,15.5,16.5],
			"low":[9.5,10.5,11.5,12.5,13.5,14.5,15.5],
			"open":[10,11,12,13,14,15,16],
			"volume":[100,200,300,400,500,600,700]
		}]}
	}],"error":null}}`
	srv := fakeYahoo(t, "{}", chart)
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	h, err := c.History(context.Background(), "NVDA", "5d")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if h.High != 16.5 || h.Low != 9.5 {
		t.Fatalf("got high=%v low=%v", h.High, h.Low)
	}
	if h.AvgVolume != 400 {
		t.Fatalf("got avg volume %d, want 400", h.AvgVolume)
	}
	if len(h.Candles) != historyCandles {
		t.Fatalf("got %d candles, want %d (most recent only)", len(h.Candles), historyCandles)
	}
	if h.Candles[len(h.Candles)-1].Close != 16 {
		t.Fatalf("last candle close = %v", h.Candles[len(h.Candles)-1].Close)
	}
}

func TestCompanyDataUnknown(t *testing.T) {
	c := NewClient()
	_, err := c.CompanyData(context.Background(), "Fairchild")
	if err == nil || !strings.Contains(err.Error(), "unknown company") {
		t.Fatalf("expected unknown company error, got %v", err)
	}
}

func TestCompanyData(t *testing.T) {
	now := time.Now().Unix()
	srv := fakeYahoo(t, quoteBody(110, 100, 9, now), chartBody(time.Now(), 3, 100))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	data, err := c.CompanyData(context.Background(), "NVIDIA")
	if err != nil {
		t.Fatalf("CompanyData: %v", err)
	}
	if data.Symbol != "NVDA" || data.Company != "NVIDIA" {
		t.Fatalf("got %+v", data)
	}
	if data.Current == nil || data.Current.Price != 110 {
		t.Fatalf("got current %+v", data.Current)
	}
	if data.History == nil {
		t.Fatal("history should be populated")
	}
}

func TestChartAPIError(t *testing.T) {
	chart := `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`
	srv := fakeYahoo(t, "{}", chart)
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	if _, err := c.History(context.Background(), "XXXX", "5d"); err == nil {
		t.Fatal("expected error from chart API error payload")
	}
}

func TestDecodeChartJSON(t *testing.T) {
	var resp yfChartResponse
	body := chartBody(time.Now(), 2, 50)
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	candles := parseCandles(resp.Chart.Result[0])
	if len(candles) != 2 || candles[1].Close != 51 {
		t.Fatalf("got %+v", candles)
	}
}
