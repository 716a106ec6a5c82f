package models

// Severity grades a volatility alert.
type Severity string

const (
	SeverityHigh    Severity = "high"
	SeverityExtreme Severity = "extreme"
)

// Alert is a volatility notification produced by the stock monitor when a
// tracked symbol's short-window price change exceeds a configured threshold.
type Alert struct {
	Company       string   `json:"company"`
	Symbol        string   `json:"symbol"`
	CurrentPrice  float64  `json:"current_price"`
	PreviousPrice float64  `json:"previous_price"`
	ChangePct     float64  `json:"change_percent"`
	Trigger       string   `json:"trigger_reason"`
	Severity      Severity `json:"severity"`
	Window        string   `json:"time_period"` // e.g. "5 minutes"
	Analysis      string   `json:"llm_analysis,omitempty"`
}
