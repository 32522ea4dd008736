package domain

// Outcome is the terminal classification of one query
type Outcome string

const (
	// OutcomeCompleted means a result event arrived with no stop in effect
	OutcomeCompleted Outcome = "completed"
	// OutcomeStopped means the user explicitly stopped the query
	OutcomeStopped Outcome = "stopped"
	// OutcomeSuspended means an ask-bridge request surfaced; the query is
	// awaiting external input, not failed
	OutcomeSuspended Outcome = "suspended"
	// OutcomeContextLimit means the agent reported its context window was
	// exhausted; the session identity was cleared automatically
	OutcomeContextLimit Outcome = "context-limit"
	// OutcomeCancelled means a stop arrived before the subprocess spawned
	OutcomeCancelled Outcome = "cancelled-before-start"
	// OutcomeFailed means the subprocess crashed or reported an error result
	OutcomeFailed Outcome = "failed"
)

// StopCause distinguishes why a stop was requested. Both causes set the same
// low-level flag; only an explicit user stop should surface a visible notice.
type StopCause string

const (
	CauseNone       StopCause = ""
	CauseUser       StopCause = "user"
	CauseSuperseded StopCause = "superseded"
)
