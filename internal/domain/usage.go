package domain

import "math"

// TokenUsage holds token counters reported by the agent's terminal result
// event. Never populated incrementally.
type TokenUsage struct {
	InputTokens              int `json:"input_tokens"`
	OutputTokens             int `json:"output_tokens"`
	CacheReadInputTokens     int `json:"cache_read_input_tokens"`
	CacheCreationInputTokens int `json:"cache_creation_input_tokens"`
}

// Total returns the combined token count counted against the context window
func (u TokenUsage) Total() int {
	return u.InputTokens + u.OutputTokens + u.CacheReadInputTokens + u.CacheCreationInputTokens
}

// IsZero reports whether no counters were populated
func (u TokenUsage) IsZero() bool {
	return u == TokenUsage{}
}

// ContextPercent expresses usage against a context window as 0-100
func ContextPercent(usage TokenUsage, contextWindow int) int {
	if contextWindow <= 0 {
		return 0
	}
	pct := int(math.Round(100 * float64(usage.Total()) / float64(contextWindow)))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
