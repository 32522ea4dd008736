package ports

import "ponte/internal/domain"

// DeliverySink receives incremental output from the engine. The engine has
// no opinion on rendering, only on when updates are produced; sink failures
// are logged and ignored, never surfaced as query failures.
type DeliverySink interface {
	// Deliver pushes one update. segmentID is meaningful for text and
	// segment_end kinds and carries the current segment otherwise.
	Deliver(kind domain.EmitKind, content string, segmentID int) error
}

// AskPrompter presents an interactive choice to the user when the ask-bridge
// surfaces a pending request. The selection comes back to the engine as an
// ordinary next message holding the option text.
type AskPrompter interface {
	PromptChoice(question string, options []string) error
}
