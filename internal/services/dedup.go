package services

// dedupTracker collapses the cumulative block lists the agent replays on
// every assistant event into one-shot deltas. Text and thinking blocks are
// tracked by position within the current turn; tool invocations are tracked
// by tool id across the whole query so a replayed block never re-triggers a
// side effect.
type dedupTracker struct {
	turnID    string
	blockLens map[int]int
	seenTools map[string]bool
}

func newDedupTracker() *dedupTracker {
	return &dedupTracker{
		blockLens: make(map[int]int),
		seenTools: make(map[string]bool),
	}
}

// beginTurn resets per-position state when the message id changes. Tool ids
// survive turn boundaries.
func (d *dedupTracker) beginTurn(turnID string) {
	if turnID == d.turnID {
		return
	}
	d.turnID = turnID
	d.blockLens = make(map[int]int)
}

// textDelta returns the unseen suffix of a cumulative block. A block that
// has not grown yields ok=false.
func (d *dedupTracker) textDelta(pos int, cumulative string) (string, bool) {
	prev := d.blockLens[pos]
	if len(cumulative) <= prev {
		return "", false
	}
	d.blockLens[pos] = len(cumulative)
	return cumulative[prev:], true
}

// firstToolUse reports whether this tool id is new, marking it as seen
func (d *dedupTracker) firstToolUse(toolID string) bool {
	if toolID == "" || d.seenTools[toolID] {
		return false
	}
	d.seenTools[toolID] = true
	return true
}
