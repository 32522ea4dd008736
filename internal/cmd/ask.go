package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"

	"ponte/internal/adapters/askbridge"
	"ponte/internal/config"
	"ponte/internal/domain"
	"ponte/internal/logging"
)

// AskCmd writes an ask request file. It is invoked by the tool the agent
// calls when it needs a user decision; the chat-side engine picks the file
// up and prompts the user.
type AskCmd struct {
	Question string   `arg:"" help:"Question to put to the user"`
	Options  []string `arg:"" optional:"" help:"Choices offered to the user"`
}

// Run executes the ask command
func (a *AskCmd) Run() error {
	chatID := os.Getenv("PONTE_CHAT_ID")
	if chatID == "" {
		return fmt.Errorf("PONTE_CHAT_ID is not set; ask only works inside an agent run")
	}

	bridge := askbridge.New(config.GetAskDir())
	req := domain.AskRequest{
		RequestID: uuid.NewString(),
		ChatID:    chatID,
		Question:  a.Question,
		Options:   a.Options,
		Status:    domain.AskStatusPending,
	}
	path, err := bridge.WriteRequest(req)
	if err != nil {
		return err
	}

	logging.Logger.Info("Ask request written", "request_id", req.RequestID, "path", path)
	fmt.Println(req.RequestID)
	return nil
}
