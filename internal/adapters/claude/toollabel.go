package claude

import (
	"encoding/json"
	"fmt"
)

const maxToolLabelLen = 120

// FormatToolLabel builds a short human-readable status for a tool
// invocation, picking the most salient input field when one is present.
func FormatToolLabel(name string, input json.RawMessage) string {
	detail := toolDetail(input)
	if detail == "" {
		return name
	}
	label := fmt.Sprintf("%s: %s", name, detail)
	if len(label) > maxToolLabelLen {
		label = label[:maxToolLabelLen] + "…"
	}
	return label
}

func toolDetail(input json.RawMessage) string {
	if len(input) == 0 {
		return ""
	}
	var fields map[string]any
	if err := json.Unmarshal(input, &fields); err != nil {
		return ""
	}
	// Ordered by how descriptive each field tends to be
	for _, key := range []string{"description", "command", "file_path", "path", "pattern", "query", "url", "prompt"} {
		if v, ok := fields[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
