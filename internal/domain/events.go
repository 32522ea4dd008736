package domain

import "encoding/json"

// EventKind discriminates decoded stream events
type EventKind string

const (
	EventSessionMeta   EventKind = "session-meta"
	EventAssistantTurn EventKind = "assistant-turn"
	EventResult        EventKind = "result"
)

// BlockType discriminates message blocks within an assistant turn
type BlockType string

const (
	BlockThinking BlockType = "thinking"
	BlockText     BlockType = "text"
	BlockToolUse  BlockType = "tool_use"
)

// MessageBlock is one atomic unit within an assistant turn. Thinking and text
// blocks carry cumulative content; tool_use blocks carry a stable id.
type MessageBlock struct {
	Type      BlockType
	Text      string
	ToolID    string
	ToolName  string
	ToolInput json.RawMessage
}

// StreamEvent is one decoded line from the agent subprocess. Transient,
// never persisted.
type StreamEvent struct {
	Kind      EventKind
	SessionID string

	// Assistant turn fields
	TurnID string
	Blocks []MessageBlock

	// Result fields
	ResultText    string
	IsError       bool
	Usage         TokenUsage
	ContextWindow int // from the first per-model usage breakdown, 0 if unreported
}

// EmitKind classifies updates pushed to the delivery sink
type EmitKind string

const (
	EmitThinking   EmitKind = "thinking"
	EmitTool       EmitKind = "tool"
	EmitText       EmitKind = "text"
	EmitSegmentEnd EmitKind = "segment_end"
	EmitDone       EmitKind = "done"
)
