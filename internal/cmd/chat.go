package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"ponte/internal/domain"
	"ponte/internal/logging"
	"ponte/internal/services"
	"ponte/internal/ui"
)

// ChatCmd runs the interactive chat loop
type ChatCmd struct {
	Dir    string `help:"Working directory handed to the agent" default:"."`
	Resume string `help:"Resume a saved session by id"`
}

// Run executes the chat command
func (cc *ChatCmd) Run(container *Container) error {
	workingDir, err := filepath.Abs(cc.Dir)
	if err != nil {
		return fmt.Errorf("failed to resolve working directory: %w", err)
	}

	sess := domain.NewSession(workingDir)
	sess.ChatID = uuid.NewString()

	if cc.Resume != "" {
		saved, err := container.SessionService.Resume(sess, cc.Resume)
		if err != nil {
			return err
		}
		fmt.Printf("Resumed session %s (%s)\n", saved.SessionID, saved.Title)
	}

	sink := ui.NewConsoleSink(os.Stdout)
	prompter := ui.NewConsolePrompter()
	ctrl := services.NewController()

	// First Ctrl-C stops the in-flight query; at the prompt it exits
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)
	go func() {
		for range sigCh {
			if !ctrl.RequestStop(domain.CauseUser) {
				fmt.Println("\nBye.")
				os.Exit(0)
			}
		}
	}()

	fmt.Printf("Chatting in %s. Type /new to reset, /sessions to list, /quit to leave.\n", workingDir)

	reader := bufio.NewReader(os.Stdin)
	var pending string // answer replayed from a suspended query
	for {
		prompt := pending
		pending = ""
		if prompt == "" {
			fmt.Print("> ")
			line, err := reader.ReadString('\n')
			if err != nil {
				fmt.Println()
				return nil
			}
			prompt = strings.TrimSpace(line)
		}

		switch prompt {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/new":
			container.SessionService.ResetSession(sess)
			fmt.Println("Started a fresh conversation.")
			continue
		case "/sessions":
			printSessions(container, workingDir)
			continue
		}

		res, err := container.Engine.Query(context.Background(), sess, prompt, sink, prompter, ctrl)
		if err != nil {
			if errors.Is(err, domain.ErrQueryInFlight) {
				fmt.Println("A query is already running.")
				continue
			}
			fmt.Printf("Query failed: %v\n", err)
			continue
		}

		switch res.Outcome {
		case domain.OutcomeStopped, domain.OutcomeCancelled:
			if res.Cause == domain.CauseUser {
				fmt.Println("Stopped.")
			}
		case domain.OutcomeContextLimit:
			fmt.Println("Context window exhausted; started a fresh conversation. Send your message again.")
		case domain.OutcomeSuspended:
			if answer, ok := prompter.TakeSelection(); ok {
				if err := container.Bridge.Consume(res.AskRequestID); err != nil {
					logging.Logger.Warn("Failed to consume ask request", "error", err)
				}
				pending = answer
			}
		}
	}
}

func printSessions(container *Container, workingDir string) {
	sessions := container.SessionService.ListSessions(workingDir)
	if len(sessions) == 0 {
		fmt.Println("No saved sessions for this directory.")
		return
	}
	for _, s := range sessions {
		title := s.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("%s  %s  %s\n", s.SessionID, s.SavedAt.Local().Format("2006-01-02 15:04"), title)
	}
}
