package services

import (
	"strings"
	"time"

	"ponte/internal/domain"
	"ponte/internal/logging"
	"ponte/internal/ports"
)

// segmentEmitter turns the raw text delta stream into throttled segment
// updates. A segment is the run of response text between tool invocations.
// Intermediate updates carry the segment's full accumulated text so the sink
// can replace in place; they are rate limited and gated on a minimum growth
// so tiny deltas do not flood the sink. The closing segment_end is exempt
// from both gates and always carries the complete text.
//
// Sink failures are logged and dropped. Delivery is best effort; a broken
// sink must not abort the query.
type segmentEmitter struct {
	sink     ports.DeliverySink
	interval time.Duration
	minChars int

	segmentID     int
	buf           strings.Builder
	deliveredLen  int
	lastDelivery  time.Time
	now           func() time.Time
}

func newSegmentEmitter(sink ports.DeliverySink, interval time.Duration, minChars int) *segmentEmitter {
	return &segmentEmitter{
		sink:     sink,
		interval: interval,
		minChars: minChars,
		now:      time.Now,
	}
}

// AppendText adds a delta to the current segment and delivers an update if
// the throttle allows it
func (e *segmentEmitter) AppendText(delta string) {
	e.buf.WriteString(delta)
	grown := e.buf.Len() - e.deliveredLen
	if grown < e.minChars {
		return
	}
	if !e.lastDelivery.IsZero() && e.now().Sub(e.lastDelivery) < e.interval {
		return
	}
	e.deliver(domain.EmitText, e.buf.String())
	e.deliveredLen = e.buf.Len()
	e.lastDelivery = e.now()
}

// Thinking forwards the cumulative thinking text for the sink to replace
func (e *segmentEmitter) Thinking(text string) {
	e.deliver(domain.EmitThinking, text)
}

// Tool closes the current segment and announces a tool invocation
func (e *segmentEmitter) Tool(label string) {
	e.EndSegment()
	e.deliver(domain.EmitTool, label)
}

// EndSegment closes the current segment, flushing its complete text past the
// throttle. Empty segments close silently and reuse their id.
func (e *segmentEmitter) EndSegment() {
	if e.buf.Len() == 0 {
		return
	}
	e.deliver(domain.EmitSegmentEnd, e.buf.String())
	e.segmentID++
	e.buf.Reset()
	e.deliveredLen = 0
	e.lastDelivery = time.Time{}
}

// Done flushes the final segment and signals the end of query processing
func (e *segmentEmitter) Done() {
	e.EndSegment()
	e.deliver(domain.EmitDone, "")
}

func (e *segmentEmitter) deliver(kind domain.EmitKind, content string) {
	if err := e.sink.Deliver(kind, content, e.segmentID); err != nil {
		logging.Logger.Warn("Delivery failed", "kind", kind, "segment", e.segmentID, "error", err)
	}
}
