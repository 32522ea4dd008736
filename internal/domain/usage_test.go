package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenUsageTotal(t *testing.T) {
	u := TokenUsage{
		InputTokens:              10,
		OutputTokens:             20,
		CacheReadInputTokens:     30,
		CacheCreationInputTokens: 40,
	}
	assert.Equal(t, 100, u.Total())
	assert.False(t, u.IsZero())
	assert.True(t, TokenUsage{}.IsZero())
}

func TestContextPercent(t *testing.T) {
	tests := []struct {
		name   string
		usage  TokenUsage
		window int
		want   int
	}{
		{
			name:   "sixty thousand of two hundred thousand is thirty",
			usage:  TokenUsage{InputTokens: 50_000, CacheReadInputTokens: 10_000},
			window: 200_000,
			want:   30,
		},
		{
			name:   "rounds to nearest",
			usage:  TokenUsage{InputTokens: 1_499},
			window: 100_000,
			want:   1,
		},
		{
			name:   "clamped to one hundred",
			usage:  TokenUsage{InputTokens: 500_000},
			window: 200_000,
			want:   100,
		},
		{
			name:   "zero window yields zero",
			usage:  TokenUsage{InputTokens: 1000},
			window: 0,
			want:   0,
		},
		{
			name:   "zero usage yields zero",
			window: 200_000,
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContextPercent(tt.usage, tt.window))
		})
	}
}
