// Package curate runs the LLM-driven stages between raw article collection
// and answer synthesis: relevance selection, per-article condensation, and
// cross-article analysis. Every stage has a deterministic fallback so a
// misbehaving model degrades output quality instead of failing the pipeline.
package curate

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/chipsight/chipsight/internal/llm"
	"github.com/chipsight/chipsight/internal/prompts"
	"github.com/chipsight/chipsight/pkg/models"
	"github.com/chipsight/chipsight/pkg/utils"
)

const (
	// MaxArticles caps how many articles survive relevance selection.
	MaxArticles = 15

	// summarizeThreshold is the description length below which an article
	// is passed through without an LLM summary call.
	summarizeThreshold = 300
)

// Curator drives the curation stages against one LLM provider.
type Curator struct {
	llm         llm.Provider
	maxArticles int
}

// NewCurator creates a curator with the default article cap.
func NewCurator(p llm.Provider) *Curator {
	return &Curator{llm: p, maxArticles: MaxArticles}
}

// NewCuratorWithLimit creates a curator with a custom article cap.
func NewCuratorWithLimit(p llm.Provider, maxArticles int) *Curator {
	return &Curator{llm: p, maxArticles: maxArticles}
}

// Select asks the LLM to pick the most important articles for the query.
// Collections already within the cap are returned untouched without an LLM
// call. Selection failures fall back to the first maxArticles items.
func (c *Curator) Select(ctx context.Context, items []models.NewsItem, query, period string) []models.NewsItem {
	if len(items) <= c.maxArticles {
		return items
	}

	response, err := c.llm.Complete(ctx, prompts.NewsFiltering(query, period, items, c.maxArticles), llm.FilterTokens)
	if err != nil {
		log.Printf("curate: selection call failed, keeping first %d: %v", c.maxArticles, err)
		return items[:c.maxArticles]
	}

	indices := parseSelection(llm.CleanResponse(response), len(items), c.maxArticles)
	if len(indices) == 0 {
		log.Printf("curate: no usable indices in selection response, keeping first %d", c.maxArticles)
		return items[:c.maxArticles]
	}

	selected := make([]models.NewsItem, 0, c.maxArticles)
	for _, idx := range indices {
		if idx < 1 || idx > len(items) {
			continue
		}
		selected = append(selected, items[idx-1])
		if len(selected) == c.maxArticles {
			break
		}
	}
	if len(selected) == 0 {
		return items[:c.maxArticles]
	}
	log.Printf("curate: selected %d of %d articles", len(selected), len(items))
	return selected
}

// parseSelection extracts 1-based article indices from a selection response
// using the layered parse chain: whole-object JSON, then an embedded object
// keyed by selected_articles, then bare integers clipped to range.
func parseSelection(response string, total, limit int) []int {
	var result struct {
		Selected []int `json:"selected_articles"`
	}
	if llm.DecodeObject(response, &result) && len(result.Selected) > 0 {
		return result.Selected
	}
	if llm.ExtractKeyedObject(response, "selected_articles", &result) && len(result.Selected) > 0 {
		return result.Selected
	}
	return llm.ExtractInts(response, 1, total, limit)
}

// Summarize condenses one article's description. Short descriptions pass
// through untouched; an LLM failure falls back to truncation.
func (c *Curator) Summarize(ctx context.Context, item models.NewsItem) string {
	if len(item.Description) < summarizeThreshold {
		return item.Description
	}
	summary, err := c.llm.Complete(ctx, prompts.ArticleSummary(item.Title, item.Description), llm.SummaryTokens)
	if err != nil {
		log.Printf("curate: summary failed for %q: %v", utils.Truncate(item.Title, 60), err)
		return utils.Truncate(item.Description, summarizeThreshold)
	}
	return strings.TrimSpace(summary)
}

// Synthesize produces the cross-article analysis over the selected items.
// Each item gets its ProcessedDescription filled first; the returned slice
// carries those processed copies for citation building. A failed synthesis
// call falls back to a plain listing.
func (c *Curator) Synthesize(ctx context.Context, items []models.NewsItem) (string, []models.NewsItem) {
	if len(items) == 0 {
		return "No news to summarize.", nil
	}

	processed := make([]models.NewsItem, len(items))
	for i, item := range items {
		item.ProcessedDescription = c.Summarize(ctx, item)
		processed[i] = item
	}

	analysis, err := c.llm.Complete(ctx, prompts.ComprehensiveAnalysis(processed), llm.SynthesisTokens)
	if err != nil {
		log.Printf("curate: synthesis failed, using plain listing: %v", err)
		return formatSimple(processed), processed
	}
	return analysis, processed
}

// formatSimple renders articles as a numbered listing, the no-LLM fallback
// for synthesis.
func formatSimple(items []models.NewsItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Latest semiconductor news - %d articles:\n\n", len(items))
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item.Title)
		fmt.Fprintf(&b, "   Published: %s | Source: %s\n", item.Published, item.Source)
		if item.Description != "" {
			fmt.Fprintf(&b, "   Summary: %s\n", utils.Truncate(item.Description, 200))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// SourceReferences renders the citation block appended to answers that used
// news evidence, newest first.
func SourceReferences(items []models.NewsItem) string {
	if len(items) == 0 {
		return ""
	}
	sorted := make([]models.NewsItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Published > sorted[j].Published
	})

	var b strings.Builder
	b.WriteString("\n\n **NEWS SOURCES REFERENCED** \n")
	for i, item := range sorted {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item.Title)
		fmt.Fprintf(&b, "   Source: %s | Published: %s\n", item.Source, item.Published)
		if item.URL != "" {
			fmt.Fprintf(&b, "   Link: %s\n", item.URL)
		}
		b.WriteString("\n")
	}
	return b.String()
}
