package domain

// Ask request lifecycle: pending → sent → (deleted on consumption)
const (
	AskStatusPending = "pending"
	AskStatusSent    = "sent"
)

// AskRequest is a side-channel record written by the agent's tooling when it
// needs to solicit interactive input mid-turn
type AskRequest struct {
	RequestID string   `json:"request_id"`
	ChatID    string   `json:"chat_id"`
	Question  string   `json:"question"`
	Options   []string `json:"options"`
	Status    string   `json:"status"`
}
