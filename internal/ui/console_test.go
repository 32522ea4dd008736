package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ponte/internal/domain"
)

func TestConsoleSinkStreamsSuffixes(t *testing.T) {
	var buf bytes.Buffer
	sink := NewConsoleSink(&buf)

	require.NoError(t, sink.Deliver(domain.EmitText, "Hello", 0))
	require.NoError(t, sink.Deliver(domain.EmitText, "Hello, world", 0))
	require.NoError(t, sink.Deliver(domain.EmitSegmentEnd, "Hello, world!", 0))

	assert.Equal(t, "Hello, world!\n", buf.String())
}

func TestConsoleSinkResetsBetweenSegments(t *testing.T) {
	var buf bytes.Buffer
	sink := NewConsoleSink(&buf)

	require.NoError(t, sink.Deliver(domain.EmitSegmentEnd, "first", 0))
	require.NoError(t, sink.Deliver(domain.EmitText, "second", 1))

	assert.Contains(t, buf.String(), "first\nsecond")
}

func TestConsoleSinkThinkingMarkerShownOnce(t *testing.T) {
	var buf bytes.Buffer
	sink := NewConsoleSink(&buf)

	require.NoError(t, sink.Deliver(domain.EmitThinking, "a", 0))
	require.NoError(t, sink.Deliver(domain.EmitThinking, "ab", 0))
	require.NoError(t, sink.Deliver(domain.EmitThinking, "abc", 0))

	assert.Equal(t, 1, strings.Count(buf.String(), "thinking"))
}

func TestConsoleSinkToolAndDone(t *testing.T) {
	var buf bytes.Buffer
	sink := NewConsoleSink(&buf)

	require.NoError(t, sink.Deliver(domain.EmitTool, "Bash: ls", 0))
	require.NoError(t, sink.Deliver(domain.EmitDone, "", 0))

	out := buf.String()
	assert.Contains(t, out, "Bash: ls")
	assert.Contains(t, out, "────")
}
