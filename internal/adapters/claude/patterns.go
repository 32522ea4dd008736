package claude

import "strings"

// contextLimitPatterns are matched case-insensitively against result text and
// stderr to detect an exhausted context window. Free-text matching against
// the CLI's human-readable errors is brittle across CLI versions; review
// these when bumping the supported agent version.
var contextLimitPatterns = []string{
	"prompt is too long",
	"context low",
	"context window exceeded",
	"conversation is too long",
	"input length and `max_tokens` exceed context limit",
}

// MatchesContextLimit reports whether text looks like a context/prompt
// too-long error from the agent CLI
func MatchesContextLimit(text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, p := range contextLimitPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
