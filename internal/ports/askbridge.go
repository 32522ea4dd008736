package ports

import "context"

// AskBridge polls the filesystem side channel for out-of-band requests
// raised by a tool inside the agent subprocess
type AskBridge interface {
	// PollPending reports whether a pending request materialized for the
	// given correlation id. On first match it prompts the user through
	// prompter, marks the record sent (idempotent) and returns the request
	// id so the caller can consume it once the answer is used.
	PollPending(ctx context.Context, chatID string, prompter AskPrompter) (string, bool, error)

	// Consume deletes a request file after the user's answer was used
	Consume(requestID string) error
}
