package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ponte/internal/domain"
)

type recordedDelivery struct {
	kind      domain.EmitKind
	content   string
	segmentID int
}

type recordingSink struct {
	deliveries []recordedDelivery
	failWith   error
}

func (r *recordingSink) Deliver(kind domain.EmitKind, content string, segmentID int) error {
	r.deliveries = append(r.deliveries, recordedDelivery{kind, content, segmentID})
	return r.failWith
}

func (r *recordingSink) kinds() []domain.EmitKind {
	out := make([]domain.EmitKind, 0, len(r.deliveries))
	for _, d := range r.deliveries {
		out = append(out, d.kind)
	}
	return out
}

func newTestEmitter(sink *recordingSink, interval time.Duration, minChars int) *segmentEmitter {
	e := newSegmentEmitter(sink, interval, minChars)
	return e
}

func TestEmitterFlushesSegmentOnEnd(t *testing.T) {
	sink := &recordingSink{}
	e := newTestEmitter(sink, time.Hour, 1000)

	e.AppendText("short")
	e.EndSegment()

	// Below the threshold nothing streams, but segment_end always carries
	// the complete text
	require.Len(t, sink.deliveries, 1)
	assert.Equal(t, domain.EmitSegmentEnd, sink.deliveries[0].kind)
	assert.Equal(t, "short", sink.deliveries[0].content)
	assert.Equal(t, 0, sink.deliveries[0].segmentID)
}

func TestEmitterStreamsWhenThresholdCrossed(t *testing.T) {
	sink := &recordingSink{}
	e := newTestEmitter(sink, time.Hour, 10)

	e.AppendText("this is clearly more than ten characters")

	require.Len(t, sink.deliveries, 1)
	assert.Equal(t, domain.EmitText, sink.deliveries[0].kind)
	assert.Equal(t, "this is clearly more than ten characters", sink.deliveries[0].content)
}

func TestEmitterThrottlesUpdates(t *testing.T) {
	sink := &recordingSink{}
	e := newTestEmitter(sink, time.Hour, 1)

	e.AppendText("first chunk")
	e.AppendText("second chunk arrives immediately after")

	// The second update falls inside the throttle window
	require.Len(t, sink.deliveries, 1)

	e.EndSegment()
	require.Len(t, sink.deliveries, 2)
	assert.Equal(t, domain.EmitSegmentEnd, sink.deliveries[1].kind)
	assert.Equal(t, "first chunksecond chunk arrives immediately after", sink.deliveries[1].content)
}

func TestEmitterThrottleExpires(t *testing.T) {
	sink := &recordingSink{}
	e := newTestEmitter(sink, 50*time.Millisecond, 1)

	e.AppendText("first")
	time.Sleep(60 * time.Millisecond)
	e.AppendText(" second")

	require.Len(t, sink.deliveries, 2)
	assert.Equal(t, "first second", sink.deliveries[1].content)
}

func TestEmitterToolClosesSegment(t *testing.T) {
	sink := &recordingSink{}
	e := newTestEmitter(sink, time.Hour, 1000)

	e.AppendText("before the tool")
	e.Tool("Bash: ls")
	e.AppendText("after the tool")
	e.Done()

	assert.Equal(t, []domain.EmitKind{
		domain.EmitSegmentEnd,
		domain.EmitTool,
		domain.EmitSegmentEnd,
		domain.EmitDone,
	}, sink.kinds())

	assert.Equal(t, 0, sink.deliveries[0].segmentID)
	assert.Equal(t, "before the tool", sink.deliveries[0].content)
	// The tool notice belongs to the next segment
	assert.Equal(t, 1, sink.deliveries[1].segmentID)
	assert.Equal(t, 1, sink.deliveries[2].segmentID)
	assert.Equal(t, "after the tool", sink.deliveries[2].content)
}

func TestEmitterEmptySegmentsAreSilent(t *testing.T) {
	sink := &recordingSink{}
	e := newTestEmitter(sink, time.Hour, 1000)

	e.Tool("Read: a.go")
	e.Tool("Read: b.go")
	e.Done()

	assert.Equal(t, []domain.EmitKind{
		domain.EmitTool,
		domain.EmitTool,
		domain.EmitDone,
	}, sink.kinds())
	// Empty segments reuse their id
	assert.Equal(t, 0, sink.deliveries[0].segmentID)
	assert.Equal(t, 0, sink.deliveries[1].segmentID)
}

func TestEmitterSegmentOrdering(t *testing.T) {
	sink := &recordingSink{}
	e := newTestEmitter(sink, 0, 1)

	e.AppendText(strings.Repeat("a", 20))
	e.Tool("Bash: make")
	e.AppendText(strings.Repeat("b", 20))
	e.Done()

	lastEnd := -1
	for _, d := range sink.deliveries {
		switch d.kind {
		case domain.EmitText:
			assert.Greater(t, d.segmentID, lastEnd, "text must follow its segment's predecessors")
		case domain.EmitSegmentEnd:
			assert.Equal(t, lastEnd+1, d.segmentID, "segment ids must increase without gaps")
			lastEnd = d.segmentID
		}
	}
}

func TestEmitterSinkFailureIsSwallowed(t *testing.T) {
	sink := &recordingSink{failWith: errors.New("network down")}
	e := newTestEmitter(sink, time.Hour, 1)

	assert.NotPanics(t, func() {
		e.AppendText("hello world")
		e.Tool("Bash: ls")
		e.Done()
	})
}
