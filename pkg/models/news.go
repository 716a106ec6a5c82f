package models

// NewsItem is a single article collected from one of the news providers.
// Identity is not a stable key: two items are considered the same article
// when their title word sets are sufficiently similar, not on exact equality.
type NewsItem struct {
	Title       string `json:"title"`
	Published   string `json:"published"` // provider-native timestamp string, not normalized
	Source      string `json:"source"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Query       string `json:"search_query"` // the search query that surfaced this item

	// ProcessedDescription is filled by the summarizer once the item has
	// been condensed for the synthesis prompt.
	ProcessedDescription string `json:"processed_description,omitempty"`
}

// Body returns the summarized description when available, falling back to
// the raw description.
func (n NewsItem) Body() string {
	if n.ProcessedDescription != "" {
		return n.ProcessedDescription
	}
	return n.Description
}
