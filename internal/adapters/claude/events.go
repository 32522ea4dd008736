package claude

import (
	"encoding/json"

	"ponte/internal/domain"
)

// Wire structs for the agent CLI's stream-json output. One JSON object per
// stdout line; anything that fails to parse is log noise, not protocol data.

type streamLine struct {
	Type      string          `json:"type"`
	Subtype   string          `json:"subtype,omitempty"`
	SessionID string          `json:"session_id,omitempty"`
	Message   json.RawMessage `json:"message,omitempty"`
	Result    string          `json:"result,omitempty"`
	IsError   bool            `json:"is_error,omitempty"`
	Usage     *wireUsage      `json:"usage,omitempty"`
	// Per-model usage breakdown on result events; carries the model's
	// context window when the CLI reports it.
	ModelUsage map[string]wireModelUsage `json:"modelUsage,omitempty"`
}

type wireMessage struct {
	ID      string      `json:"id"`
	Content []wireBlock `json:"content"`
}

type wireBlock struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	Thinking string          `json:"thinking,omitempty"`
	ID       string          `json:"id,omitempty"`
	Name     string          `json:"name,omitempty"`
	Input    json.RawMessage `json:"input,omitempty"`
}

type wireUsage struct {
	InputTokens              int `json:"input_tokens"`
	OutputTokens             int `json:"output_tokens"`
	CacheReadInputTokens     int `json:"cache_read_input_tokens"`
	CacheCreationInputTokens int `json:"cache_creation_input_tokens"`
}

type wireModelUsage struct {
	ContextWindow int `json:"contextWindow"`
}

// ParseLine decodes one stdout line into a domain event. Returns false for
// non-JSON lines and event types the engine does not act on.
func ParseLine(line []byte) (domain.StreamEvent, bool) {
	if len(line) == 0 {
		return domain.StreamEvent{}, false
	}

	var raw streamLine
	if err := json.Unmarshal(line, &raw); err != nil {
		return domain.StreamEvent{}, false
	}

	switch raw.Type {
	case "system":
		// Session metadata (subtype init carries the session identifier)
		return domain.StreamEvent{
			Kind:      domain.EventSessionMeta,
			SessionID: raw.SessionID,
		}, true

	case "assistant":
		var msg wireMessage
		if err := json.Unmarshal(raw.Message, &msg); err != nil {
			return domain.StreamEvent{}, false
		}
		return domain.StreamEvent{
			Kind:      domain.EventAssistantTurn,
			SessionID: raw.SessionID,
			TurnID:    msg.ID,
			Blocks:    toDomainBlocks(msg.Content),
		}, true

	case "result":
		ev := domain.StreamEvent{
			Kind:       domain.EventResult,
			SessionID:  raw.SessionID,
			ResultText: raw.Result,
			IsError:    raw.IsError,
		}
		if raw.Usage != nil {
			ev.Usage = domain.TokenUsage{
				InputTokens:              raw.Usage.InputTokens,
				OutputTokens:             raw.Usage.OutputTokens,
				CacheReadInputTokens:     raw.Usage.CacheReadInputTokens,
				CacheCreationInputTokens: raw.Usage.CacheCreationInputTokens,
			}
		}
		for _, mu := range raw.ModelUsage {
			if mu.ContextWindow > 0 {
				ev.ContextWindow = mu.ContextWindow
				break
			}
		}
		return ev, true
	}

	// stream_event, user and unknown types carry nothing the engine needs:
	// assistant events already repeat the cumulative block list.
	return domain.StreamEvent{}, false
}

func toDomainBlocks(blocks []wireBlock) []domain.MessageBlock {
	out := make([]domain.MessageBlock, 0, len(blocks))
	for _, b := range blocks {
		switch b.Type {
		case "thinking":
			out = append(out, domain.MessageBlock{
				Type: domain.BlockThinking,
				Text: b.Thinking,
			})
		case "text":
			out = append(out, domain.MessageBlock{
				Type: domain.BlockText,
				Text: b.Text,
			})
		case "tool_use":
			out = append(out, domain.MessageBlock{
				Type:      domain.BlockToolUse,
				ToolID:    b.ID,
				ToolName:  b.Name,
				ToolInput: b.Input,
			})
		}
	}
	return out
}
