package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextDeltaGrowth(t *testing.T) {
	d := newDedupTracker()
	d.beginTurn("msg_01")

	delta, ok := d.textDelta(0, "Hello")
	require.True(t, ok)
	assert.Equal(t, "Hello", delta)

	delta, ok = d.textDelta(0, "Hello, world")
	require.True(t, ok)
	assert.Equal(t, ", world", delta)

	// Replayed snapshot with no growth yields nothing
	_, ok = d.textDelta(0, "Hello, world")
	assert.False(t, ok)
}

func TestTextDeltaTracksPositionsIndependently(t *testing.T) {
	d := newDedupTracker()
	d.beginTurn("msg_01")

	_, ok := d.textDelta(0, "thinking...")
	require.True(t, ok)

	delta, ok := d.textDelta(1, "answer")
	require.True(t, ok)
	assert.Equal(t, "answer", delta)
}

func TestBeginTurnResetsPositions(t *testing.T) {
	d := newDedupTracker()
	d.beginTurn("msg_01")
	_, _ = d.textDelta(0, "first turn text")

	d.beginTurn("msg_02")
	delta, ok := d.textDelta(0, "new")
	require.True(t, ok)
	assert.Equal(t, "new", delta)

	// Same turn id again must not reset
	d.beginTurn("msg_02")
	_, ok = d.textDelta(0, "new")
	assert.False(t, ok)
}

func TestFirstToolUse(t *testing.T) {
	d := newDedupTracker()
	d.beginTurn("msg_01")

	assert.True(t, d.firstToolUse("toolu_01"))
	assert.False(t, d.firstToolUse("toolu_01"))
	assert.False(t, d.firstToolUse(""))

	// Tool ids survive turn boundaries
	d.beginTurn("msg_02")
	assert.False(t, d.firstToolUse("toolu_01"))
	assert.True(t, d.firstToolUse("toolu_02"))
}
