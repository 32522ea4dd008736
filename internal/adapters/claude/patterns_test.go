package claude

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesContextLimit(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Prompt is too long: 215000 tokens > 200000 maximum", true},
		{"ERROR: Context Window Exceeded", true},
		{"the conversation is too long to continue", true},
		{"input length and `max_tokens` exceed context limit", true},
		{"Context low · Run /compact to compact and continue", true},
		{"everything is fine", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesContextLimit(tt.text))
		})
	}
}

func TestFormatToolLabel(t *testing.T) {
	tests := []struct {
		name  string
		tool  string
		input string
		want  string
	}{
		{
			name:  "command is picked for bash",
			tool:  "Bash",
			input: `{"command":"go test ./...","timeout":60}`,
			want:  "Bash: go test ./...",
		},
		{
			name:  "file path is picked for read",
			tool:  "Read",
			input: `{"file_path":"/tmp/x.go"}`,
			want:  "Read: /tmp/x.go",
		},
		{
			name:  "description wins over command",
			tool:  "Bash",
			input: `{"description":"Run tests","command":"go test"}`,
			want:  "Bash: Run tests",
		},
		{
			name: "no input yields bare name",
			tool: "TodoWrite",
			want: "TodoWrite",
		},
		{
			name:  "unknown fields yield bare name",
			tool:  "Custom",
			input: `{"weird":42}`,
			want:  "Custom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatToolLabel(tt.tool, []byte(tt.input)))
		})
	}
}

func TestFormatToolLabelTruncatesLongDetail(t *testing.T) {
	input := `{"command":"` + strings.Repeat("x", 300) + `"}`
	label := FormatToolLabel("Bash", []byte(input))
	assert.LessOrEqual(t, len(label), maxToolLabelLen+len("…"))
	assert.True(t, strings.HasSuffix(label, "…"))
}
