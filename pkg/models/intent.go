// Package models defines the core data structures used throughout ChipSight.
package models

import "github.com/chipsight/chipsight/pkg/utils"

// Intent is a classified purpose tag attached to a query. Intents drive
// which evidence sections the orchestrator gathers.
type Intent string

// Recognized intent vocabulary. A query may carry several intents at once.
const (
	IntentCompanyAnalysis Intent = "company_analysis"
	IntentMarketCap       Intent = "market_cap"
	IntentRevenueGrowth   Intent = "revenue_growth"
	IntentRecommendation  Intent = "recommendation"
	IntentRegionAnalysis  Intent = "region_analysis"
	IntentSystemLevel     Intent = "system_level"
	IntentCompanyLevel    Intent = "company_level"
	IntentIndustryTrend   Intent = "industry_trend"
	IntentRiskFactor      Intent = "risk_factor"
	IntentRecentNews      Intent = "recent_news"
	IntentStockPrice      Intent = "stock_price"
	IntentFAQ             Intent = "faq"
	IntentUnknown         Intent = "unknown"
)

// IntentBundle is the structured result of classifying a free-text query.
type IntentBundle struct {
	Intents []Intent `json:"intents"`
	Company string   `json:"company_name,omitempty"`
	Period  string   `json:"time_period"` // compact duration grammar, e.g. "3d", "2h"
	Topic   string   `json:"topic,omitempty"`
	Queries []string `json:"recommended_search_queries"` // 2-3 news search queries
}

// HasIntent reports whether the bundle carries the given intent.
func (b IntentBundle) HasIntent(in Intent) bool {
	for _, i := range b.Intents {
		if i == in {
			return true
		}
	}
	return false
}

// DefaultIntentBundle is the safe fallback used when classification fails
// for any reason. It never aborts a query.
func DefaultIntentBundle() IntentBundle {
	return IntentBundle{
		Intents: []Intent{IntentUnknown},
		Period:  utils.DefaultPeriod,
		Queries: []string{"semiconductor"},
	}
}
