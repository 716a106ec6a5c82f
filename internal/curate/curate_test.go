package curate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/chipsight/chipsight/pkg/models"
)

type fakeLLM struct {
	response string
	err      error
	calls    int
}

func (f *fakeLLM) Name() string { return "fake" }
func (f *fakeLLM) Complete(context.Context, string, int) (string, error) {
	f.calls++
	return f.response, f.err
}
func (f *fakeLLM) Ping(context.Context) error { return nil }

func makeItems(n int) []models.NewsItem {
	items := make([]models.NewsItem, n)
	for i := range items {
		items[i] = models.NewsItem{
			Title:     "article " + string(rune('A'+i)),
			Published: "2026-08-30",
			Source:    "Test",
		}
	}
	return items
}

func TestSelectWithinLimitNoLLMCall(t *testing.T) {
	f := &fakeLLM{}
	c := NewCurator(f)
	items := makeItems(10)

	got := c.Select(context.Background(), items, "q", "3d")
	if len(got) != 10 {
		t.Fatalf("got %d items", len(got))
	}
	if f.calls != 0 {
		t.Fatal("collections within the cap must not trigger an LLM call")
	}
}

func TestSelectValidJSON(t *testing.T) {
	f := &fakeLLM{response: `{"selected_articles": [3, 1, 17]}`}
	c := NewCuratorWithLimit(f, 2)
	items := makeItems(17)

	got := c.Select(context.Background(), items, "q", "3d")
	if len(got) != 2 {
		t.Fatalf("got %d items, want cap 2", len(got))
	}
	// 1-based indices, selection order preserved.
	if got[0].Title != items[2].Title || got[1].Title != items[0].Title {
		t.Fatalf("got %q, %q", got[0].Title, got[1].Title)
	}
}

func TestSelectEmbeddedJSON(t *testing.T) {
	f := &fakeLLM{response: `After review I chose {"selected_articles": [2, 4]} for relevance.`}
	c := NewCuratorWithLimit(f, 5)
	items := makeItems(10)

	got := c.Select(context.Background(), items, "q", "3d")
	if len(got) != 2 || got[0].Title != items[1].Title {
		t.Fatalf("got %+v", got)
	}
}

func TestSelectBareNumbers(t *testing.T) {
	f := &fakeLLM{response: "The best articles are 5, 2 and 8."}
	c := NewCuratorWithLimit(f, 5)
	items := makeItems(10)

	got := c.Select(context.Background(), items, "q", "3d")
	if len(got) != 3 || got[0].Title != items[4].Title {
		t.Fatalf("got %+v", got)
	}
}

func TestSelectGarbageFallsBackToFirstN(t *testing.T) {
	f := &fakeLLM{response: "no usable selection here"}
	c := NewCuratorWithLimit(f, 3)
	items := makeItems(10)

	got := c.Select(context.Background(), items, "q", "3d")
	if len(got) != 3 {
		t.Fatalf("got %d items", len(got))
	}
	for i := range got {
		if got[i].Title != items[i].Title {
			t.Fatalf("fallback should keep first items in order")
		}
	}
}

func TestSelectLLMErrorFallsBack(t *testing.T) {
	f := &fakeLLM{err: errors.New("down")}
	c := NewCuratorWithLimit(f, 4)
	items := makeItems(9)

	got := c.Select(context.Background(), items, "q", "3d")
	if len(got) != 4 || got[0].Title != items[0].Title {
		t.Fatalf("got %+v", got)
	}
}

func TestSelectIgnoresOutOfRangeIndices(t *testing.T) {
	f := &fakeLLM{response: `{"selected_articles": [0, 99, 2]}`}
	c := NewCuratorWithLimit(f, 5)
	items := makeItems(8)

	got := c.Select(context.Background(), items, "q", "3d")
	if len(got) != 1 || got[0].Title != items[1].Title {
		t.Fatalf("got %+v", got)
	}
}

func TestSummarizeShortPassthrough(t *testing.T) {
	f := &fakeLLM{response: "should not be used"}
	c := NewCurator(f)

	item := models.NewsItem{Title: "t", Description: "short description"}
	if got := c.Summarize(context.Background(), item); got != "short description" {
		t.Fatalf("got %q", got)
	}
	if f.calls != 0 {
		t.Fatal("short descriptions must not trigger an LLM call")
	}
}

func TestSummarizeLong(t *testing.T) {
	f := &fakeLLM{response: "  concise summary  "}
	c := NewCurator(f)

	item := models.NewsItem{Title: "t", Description: strings.Repeat("x", 400)}
	if got := c.Summarize(context.Background(), item); got != "concise summary" {
		t.Fatalf("got %q", got)
	}
}

func TestSummarizeErrorTruncates(t *testing.T) {
	f := &fakeLLM{err: errors.New("down")}
	c := NewCurator(f)

	item := models.NewsItem{Title: "t", Description: strings.Repeat("x", 400)}
	got := c.Summarize(context.Background(), item)
	if len(got) != 303 || !strings.HasSuffix(got, "...") {
		t.Fatalf("got len %d, want 300 chars plus ellipsis", len(got))
	}
}

func TestSynthesizeEmpty(t *testing.T) {
	c := NewCurator(&fakeLLM{})
	analysis, processed := c.Synthesize(context.Background(), nil)
	if analysis != "No news to summarize." || processed != nil {
		t.Fatalf("got %q, %v", analysis, processed)
	}
}

func TestSynthesize(t *testing.T) {
	f := &fakeLLM{response: "cross-article analysis"}
	c := NewCurator(f)
	items := []models.NewsItem{
		{Title: "a", Description: "short a"},
		{Title: "b", Description: "short b"},
	}

	analysis, processed := c.Synthesize(context.Background(), items)
	if analysis != "cross-article analysis" {
		t.Fatalf("got %q", analysis)
	}
	if len(processed) != 2 || processed[0].ProcessedDescription != "short a" {
		t.Fatalf("got %+v", processed)
	}
}

func TestSynthesizeErrorFallsBackToListing(t *testing.T) {
	f := &fakeLLM{err: errors.New("down")}
	c := NewCurator(f)
	items := []models.NewsItem{
		{Title: "Chip news", Published: "2026-08-30", Source: "Test", Description: "d"},
	}

	analysis, processed := c.Synthesize(context.Background(), items)
	if !strings.Contains(analysis, "Latest semiconductor news - 1 articles") {
		t.Fatalf("got %q", analysis)
	}
	if !strings.Contains(analysis, "Chip news") {
		t.Fatalf("listing missing title: %q", analysis)
	}
	if len(processed) != 1 {
		t.Fatalf("got %d processed", len(processed))
	}
}

func TestSourceReferencesSortedNewestFirst(t *testing.T) {
	items := []models.NewsItem{
		{Title: "older", Published: "2026-08-28T10:00:00Z", Source: "A", URL: "u1"},
		{Title: "newest", Published: "2026-08-30T10:00:00Z", Source: "B", URL: "u2"},
		{Title: "middle", Published: "2026-08-29T10:00:00Z", Source: "C"},
	}
	refs := SourceReferences(items)
	if !strings.HasPrefix(refs, "\n\n **NEWS SOURCES REFERENCED** \n") {
		t.Fatalf("got %q", refs[:40])
	}
	newest := strings.Index(refs, "newest")
	middle := strings.Index(refs, "middle")
	older := strings.Index(refs, "older")
	if !(newest < middle && middle < older) {
		t.Fatalf("order wrong: newest=%d middle=%d older=%d", newest, middle, older)
	}
	if !strings.Contains(refs, "Link: u2") {
		t.Fatal("URL missing")
	}
}

func TestSourceReferencesEmpty(t *testing.T) {
	if got := SourceReferences(nil); got != "" {
		t.Fatalf("got %q", got)
	}
}
