package ui

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"ponte/internal/ports"
)

// ConsolePrompter shows ask-bridge questions as an interactive select. The
// chosen option is held until the chat loop collects it and replays it as
// the next message.
type ConsolePrompter struct {
	selection string
	answered  bool
}

// Verify interface compliance at compile time
var _ ports.AskPrompter = (*ConsolePrompter)(nil)

// NewConsolePrompter creates an interactive prompter
func NewConsolePrompter() *ConsolePrompter {
	return &ConsolePrompter{}
}

// PromptChoice implements ports.AskPrompter
func (p *ConsolePrompter) PromptChoice(question string, options []string) error {
	opts := make([]huh.Option[string], 0, len(options))
	for _, o := range options {
		opts = append(opts, huh.NewOption(o, o))
	}

	var choice string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(question).
				Options(opts...).
				Value(&choice),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("failed to prompt for choice: %w", err)
	}

	p.selection = choice
	p.answered = true
	return nil
}

// TakeSelection returns and clears the last answer, if any
func (p *ConsolePrompter) TakeSelection() (string, bool) {
	if !p.answered {
		return "", false
	}
	p.answered = false
	sel := p.selection
	p.selection = ""
	return sel, true
}
