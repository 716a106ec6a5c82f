// Package orchestrator runs the full answer pipeline: classify the query,
// gather evidence per intent, and synthesize a narrative answer. Evidence
// sections are assembled additively, one per matched intent, in a fixed
// order; gaps render as "N/A" rather than dropping the section.
package orchestrator

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/chipsight/chipsight/internal/curate"
	"github.com/chipsight/chipsight/internal/knowledge"
	"github.com/chipsight/chipsight/internal/llm"
	"github.com/chipsight/chipsight/pkg/models"
)

// Apology texts returned verbatim when the narrative call yields nothing
// usable. Failures are values here; Answer never propagates an error for a
// failed dependency.
const (
	emptyResponseApology = "I apologize, but I received an empty response. Please try again."
	errorApology         = "I apologize, but I encountered an error processing your semiconductor market query. Please try again."
)

// QueryClassifier extracts the intent bundle from a query.
type QueryClassifier interface {
	Classify(ctx context.Context, query string) models.IntentBundle
}

// NewsFetcher collects articles for a set of search queries over a period.
type NewsFetcher interface {
	Fetch(ctx context.Context, queries []string, period string) ([]models.NewsItem, error)
}

// ArticleCurator filters and synthesizes collected articles.
type ArticleCurator interface {
	Select(ctx context.Context, items []models.NewsItem, query, period string) []models.NewsItem
	Synthesize(ctx context.Context, items []models.NewsItem) (string, []models.NewsItem)
}

// MarketData provides company stock evidence.
type MarketData interface {
	CompanyData(ctx context.Context, company string) (*models.CompanyStockData, error)
}

// Orchestrator wires the pipeline stages together.
type Orchestrator struct {
	classifier      QueryClassifier
	news            NewsFetcher
	curator         ArticleCurator
	market          MarketData
	facts           *knowledge.Store
	llm             llm.Provider
	narrativeTokens int
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithNarrativeTokens overrides the token budget for the final narrative
// call.
func WithNarrativeTokens(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.narrativeTokens = n
		}
	}
}

// New creates an orchestrator over the given collaborators.
func New(classifier QueryClassifier, news NewsFetcher, curator ArticleCurator, market MarketData, facts *knowledge.Store, provider llm.Provider, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		classifier:      classifier,
		news:            news,
		curator:         curator,
		market:          market,
		facts:           facts,
		llm:             provider,
		narrativeTokens: llm.NarrativeTokens,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Answer runs the pipeline for one query and returns the narrative answer
// with citations appended when news evidence was used.
func (o *Orchestrator) Answer(ctx context.Context, query string) (models.Answer, error) {
	bundle := o.classifier.Classify(ctx, query)

	var sections []string
	sections = append(sections, fmt.Sprintf("Query: '%s'\n", query))
	var newsRefs string

	if bundle.HasIntent(models.IntentRecentNews) {
		summary, refs := o.newsEvidence(ctx, query, bundle)
		sections = append(sections, fmt.Sprintf("\n%s LATEST NEWS %s\n%s\n", rule(20), rule(20), summary))
		newsRefs = refs
	}

	if bundle.HasIntent(models.IntentStockPrice) && bundle.Company != "" {
		if s := o.stockEvidence(ctx, bundle.Company); s != "" {
			sections = append(sections, s)
		}
	}

	if bundle.HasIntent(models.IntentCompanyAnalysis) && bundle.Company != "" {
		sections = append(sections, o.companyEvidence(bundle.Company)...)
	}

	if bundle.HasIntent(models.IntentRecommendation) && bundle.Company != "" {
		sections = append(sections,
			"=== INVESTMENT RECOMMENDATION ===\n"+
				"Company: "+bundle.Company+"\n"+
				"Current Recommendation: "+orNA(o.facts.Recommendation(bundle.Company))+"\n"+
				"Market Cap: "+orNA(o.facts.MarketCap(bundle.Company))+"\n\n")
	}

	if bundle.HasIntent(models.IntentMarketCap) && bundle.Company != "" {
		sections = append(sections,
			"=== MARKET CAPITALIZATION ===\n"+
				"Company: "+bundle.Company+"\n"+
				"Market Cap: "+orNA(o.facts.MarketCap(bundle.Company))+"\n\n")
	}

	if bundle.HasIntent(models.IntentRevenueGrowth) && bundle.Company != "" {
		sections = append(sections,
			"=== REVENUE GROWTH ===\n"+
				"Company: "+bundle.Company+"\n"+
				"Growth: "+orNA(o.facts.RevenueGrowth(bundle.Company))+"\n\n")
	}

	if bundle.HasIntent(models.IntentRegionAnalysis) && (bundle.Company != "" || bundle.Topic != "") {
		region := bundle.Company
		if region == "" {
			region = bundle.Topic
		}
		sections = append(sections,
			"=== REGIONAL ANALYSIS ===\n"+
				"Region: "+region+"\n"+
				"Companies: "+orNA(strings.Join(o.facts.CompaniesIn(region), ", "))+"\n\n")
	}

	if bundle.HasIntent(models.IntentSystemLevel) && bundle.Topic != "" {
		sections = append(sections,
			"=== SYSTEM-LEVEL FACTORS ===\n"+
				"Topic: "+bundle.Topic+"\n"+
				"Info: "+orNA(strings.Join(o.facts.Lookup(knowledge.RelSystemTopic, bundle.Topic), ", "))+"\n\n")
	}

	if bundle.HasIntent(models.IntentCompanyLevel) && bundle.Topic != "" {
		sections = append(sections,
			"=== COMPANY-LEVEL FACTORS ===\n"+
				"Topic: "+bundle.Topic+"\n"+
				"Info: "+orNA(strings.Join(o.facts.Lookup(knowledge.RelCompanyTopic, bundle.Topic), ", "))+"\n\n")
	}

	if bundle.HasIntent(models.IntentIndustryTrend) && bundle.Topic != "" {
		sections = append(sections,
			"=== INDUSTRY TREND ===\n"+
				"Trend: "+bundle.Topic+"\n"+
				"Info: "+orNA(strings.Join(o.facts.Lookup(knowledge.RelTrend, bundle.Topic), ", "))+"\n\n")
	}

	if bundle.HasIntent(models.IntentRiskFactor) && bundle.Topic != "" {
		sections = append(sections,
			"=== RISK FACTORS ===\n"+
				"Risk: "+bundle.Topic+"\n"+
				"Info: "+orNA(strings.Join(o.facts.Lookup(knowledge.RelRisk, bundle.Topic), ", "))+"\n\n")
	}

	if bundle.HasIntent(models.IntentFAQ) {
		if answer, ok := o.facts.FAQ(query); ok {
			sections = append(sections,
				"=== FAQ ANSWER ===\n"+
					"Q: "+query+"\n"+
					"A: "+answer+"\n\n")
		}
	}

	prompt := strings.Join(sections, "") +
		"Provide professional semiconductor market analysis. Be comprehensive and actionable."

	response, err := o.llm.Complete(ctx, prompt, o.narrativeTokens)
	if err != nil {
		log.Printf("orchestrator: narrative synthesis: %v", err)
		return models.Answer{SelectedQuestion: query, HumanizedAnswer: errorApology}, nil
	}
	narrative := strings.TrimSpace(response)
	if narrative == "" {
		return models.Answer{SelectedQuestion: query, HumanizedAnswer: emptyResponseApology}, nil
	}

	return models.Answer{
		SelectedQuestion: query,
		HumanizedAnswer:  narrative + newsRefs,
	}, nil
}

// newsEvidence runs the collect → select → synthesize chain and returns the
// analysis text plus the citation block.
func (o *Orchestrator) newsEvidence(ctx context.Context, query string, bundle models.IntentBundle) (summary, refs string) {
	items, err := o.news.Fetch(ctx, bundle.Queries, bundle.Period)
	if err != nil {
		log.Printf("orchestrator: news fetch failed: %v", err)
		return "No recent news found.", ""
	}
	if len(items) == 0 {
		return "No recent news found.", ""
	}

	selected := o.curator.Select(ctx, items, query, bundle.Period)
	analysis, processed := o.curator.Synthesize(ctx, selected)
	return analysis, curate.SourceReferences(processed)
}

// stockEvidence fetches live market data for a company. Failures drop the
// section; live quotes are evidence, not a hard dependency.
func (o *Orchestrator) stockEvidence(ctx context.Context, company string) string {
	data, err := o.market.CompanyData(ctx, company)
	if err != nil {
		log.Printf("orchestrator: stock data for %s: %v", company, err)
		return ""
	}
	cur := data.Current
	return "=== REAL-TIME STOCK DATA ===\n" +
		fmt.Sprintf("Company: %s (%s)\n", company, data.Symbol) +
		fmt.Sprintf("Current Price: $%.2f\n", cur.Price) +
		fmt.Sprintf("Daily Change: $%.2f (%.2f%%)\n", cur.Change, cur.ChangePct) +
		fmt.Sprintf("Volume: %s\n", groupDigits(cur.Volume)) +
		fmt.Sprintf("Market Cap: %s\n", marketCapOrNA(cur.MarketCap)) +
		fmt.Sprintf("Last Updated: %s\n\n", cur.Timestamp.Format("2006-01-02 15:04:05"))
}

// companyEvidence builds the fundamentals and macro sections for company
// analysis.
func (o *Orchestrator) companyEvidence(company string) []string {
	geo := strings.Join(o.facts.Lookup(knowledge.RelSystemTopic, "geopolitics"), ", ")
	if geo == "" {
		geo = "US-China tensions, export controls"
	}
	policy := strings.Join(o.facts.Lookup(knowledge.RelSystemTopic, "policy"), ", ")
	if policy == "" {
		policy = "CHIPS Act, subsidies"
	}

	return []string{
		"=== COMPANY FUNDAMENTALS ===\n" +
			"Company: " + company + "\n" +
			"Market Cap: " + orNA(o.facts.MarketCap(company)) + "\n" +
			"Revenue Growth: " + orNA(o.facts.RevenueGrowth(company)) + "\n" +
			"Region: " + orNA(o.facts.Region(company)) + "\n" +
			"Segment: " + orNA(o.facts.Segment(company)) + "\n" +
			"Recommendation: " + orNA(o.facts.Recommendation(company)) + "\n\n",
		"=== MACRO FACTORS ===\n" +
			"Geopolitics: " + geo + "\n" +
			"Policy: " + policy + "\n\n",
	}
}

// ── Formatting helpers ──

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func rule(n int) string {
	return strings.Repeat("=", n)
}

// groupDigits formats an integer with thousands separators.
func groupDigits(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func marketCapOrNA(v float64) string {
	if v == 0 {
		return "N/A"
	}
	return groupDigits(int64(v))
}
