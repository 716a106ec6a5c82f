// Package knowledge holds the curated semiconductor market facts that back
// the evidence-gathering pipeline. Facts are stored as (relation, subject,
// value) triples; lookups preserve insertion order so seeded facts render
// deterministically.
package knowledge

import (
	"strings"
	"sync"
)

// Relation names used by the seeded fact base.
const (
	RelMarketCap      = "company_market_cap"
	RelRevenueGrowth  = "revenue_growth"
	RelRegion         = "company_region"
	RelSegment        = "company_segment"
	RelRecommendation = "recommendation"
	RelSystemTopic    = "system_level_topic"
	RelCompanyTopic   = "company_level_topic"
	RelTrend          = "industry_trend"
	RelRisk           = "risk_factor"
	RelFAQ            = "faq"
)

type triple struct {
	relation string
	subject  string
	value    string
}

// Store is an in-memory triple store. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	triples []triple
}

// NewStore returns a store seeded with the semiconductor fact base.
func NewStore() *Store {
	s := &Store{}
	seed(s)
	return s
}

// NewEmptyStore returns a store with no facts, for tests and custom seeding.
func NewEmptyStore() *Store {
	return &Store{}
}

// Add appends a fact. Duplicates are allowed; Lookup returns them all.
func (s *Store) Add(relation, subject, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.triples = append(s.triples, triple{relation, subject, value})
}

// Lookup returns every value recorded for (relation, subject). Subject
// matching is case-insensitive so "nvidia" and "NVIDIA" resolve alike.
func (s *Store) Lookup(relation, subject string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for _, t := range s.triples {
		if t.relation == relation && strings.EqualFold(t.subject, subject) {
			out = append(out, t.value)
		}
	}
	return out
}

// First returns the first value for (relation, subject), or "" if none.
func (s *Store) First(relation, subject string) string {
	if vals := s.Lookup(relation, subject); len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// Subjects returns every subject whose (relation, value) matches, in
// insertion order. Used for reverse lookups such as companies by region.
func (s *Store) Subjects(relation, value string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for _, t := range s.triples {
		if t.relation == relation && strings.EqualFold(t.value, value) {
			out = append(out, t.subject)
		}
	}
	return out
}

// All returns every (subject, value) pair under a relation, in insertion
// order.
func (s *Store) All(relation string) [][2]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out [][2]string
	for _, t := range s.triples {
		if t.relation == relation {
			out = append(out, [2]string{t.subject, t.value})
		}
	}
	return out
}

// Companies returns the distinct companies the fact base covers, taken from
// the market-cap relation.
func (s *Store) Companies() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for _, t := range s.triples {
		if t.relation != RelMarketCap || seen[t.subject] {
			continue
		}
		seen[t.subject] = true
		out = append(out, t.subject)
	}
	return out
}

// FAQ answers a frequently-asked question. The match is case-insensitive on
// the full question text.
func (s *Store) FAQ(question string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.triples {
		if t.relation == RelFAQ && strings.EqualFold(t.subject, question) {
			return t.value, true
		}
	}
	return "", false
}

// ── Convenience accessors ──

// MarketCap returns the recorded market capitalization for a company.
func (s *Store) MarketCap(company string) string { return s.First(RelMarketCap, company) }

// RevenueGrowth returns the recent revenue growth trend for a company.
func (s *Store) RevenueGrowth(company string) string { return s.First(RelRevenueGrowth, company) }

// Region returns the company's primary region.
func (s *Store) Region(company string) string { return s.First(RelRegion, company) }

// Segment returns the company's business segment summary.
func (s *Store) Segment(company string) string { return s.First(RelSegment, company) }

// Recommendation returns the investment recommendation for a company.
func (s *Store) Recommendation(company string) string { return s.First(RelRecommendation, company) }

// CompaniesIn returns the companies headquartered in a region.
func (s *Store) CompaniesIn(region string) []string { return s.Subjects(RelRegion, region) }
