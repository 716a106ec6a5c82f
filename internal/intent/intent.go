// Package intent classifies user queries into the intent bundle that drives
// evidence gathering. Classification is a single LLM call; any failure in
// the call or its parsing degrades to the default bundle rather than an
// error, so a flaky provider never blocks an answer.
package intent

import (
	"context"
	"log"
	"strings"

	"github.com/chipsight/chipsight/internal/llm"
	"github.com/chipsight/chipsight/internal/prompts"
	"github.com/chipsight/chipsight/pkg/models"
	"github.com/chipsight/chipsight/pkg/utils"
)

// Classifier extracts intents and entities from queries.
type Classifier struct {
	llm llm.Provider
}

// NewClassifier creates a classifier backed by the given provider.
func NewClassifier(p llm.Provider) *Classifier {
	return &Classifier{llm: p}
}

// classificationResult mirrors the JSON shape the classification prompt
// asks for.
type classificationResult struct {
	Intents []string `json:"intents"`
	Company string   `json:"company_name"`
	Period  string   `json:"time_period"`
	Topic   string   `json:"topic"`
	Queries []string `json:"recommended_search_queries"`
}

// Classify returns the intent bundle for a query. Missing fields are filled
// with defaults; a failed call or unparseable response yields the full
// default bundle.
func (c *Classifier) Classify(ctx context.Context, query string) models.IntentBundle {
	response, err := c.llm.Complete(ctx, prompts.IntentClassification(query), llm.IntentTokens)
	if err != nil {
		log.Printf("intent: classification failed: %v", err)
		return models.DefaultIntentBundle()
	}

	var result classificationResult
	if !llm.DecodeObject(llm.CleanResponse(response), &result) {
		log.Printf("intent: unparseable classification response")
		return models.DefaultIntentBundle()
	}

	bundle := models.IntentBundle{
		Company: cleanField(result.Company),
		Period:  cleanField(result.Period),
		Topic:   cleanField(result.Topic),
		Queries: result.Queries,
	}
	for _, raw := range result.Intents {
		if tag := models.Intent(strings.TrimSpace(raw)); tag != "" {
			bundle.Intents = append(bundle.Intents, tag)
		}
	}

	if len(bundle.Intents) == 0 {
		bundle.Intents = []models.Intent{models.IntentUnknown}
	}
	if bundle.Period == "" {
		bundle.Period = utils.DefaultPeriod
	}
	if len(bundle.Queries) == 0 {
		bundle.Queries = []string{"semiconductor"}
	}

	log.Printf("intent: intents=%v company=%q period=%s topic=%q queries=%v",
		bundle.Intents, bundle.Company, bundle.Period, bundle.Topic, bundle.Queries)
	return bundle
}

// cleanField normalizes entity values; models sometimes return the literal
// string "null" instead of JSON null.
func cleanField(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "null") || strings.EqualFold(s, "none") {
		return ""
	}
	return s
}
