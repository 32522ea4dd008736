package askbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ponte/internal/domain"
	"ponte/internal/logging"
	"ponte/internal/ports"
)

// Request files live in a shared temp directory, named by a fixed prefix
// plus the request id. The writer (the agent's tooling) and the poller run
// concurrently with no synchronization beyond the filesystem, so every read
// tolerates files vanishing mid-scan.
const (
	filePrefix = "ponte_ask_"
	fileSuffix = ".json"
)

// Poll pacing: the tool-writing side races the poller, so a poll is one
// fixed delay followed by a few short retries.
const (
	initialDelay  = 500 * time.Millisecond
	retryInterval = 300 * time.Millisecond
	maxRetries    = 3
)

// Bridge implements ports.AskBridge over a shared directory
type Bridge struct {
	dir string
}

// Verify interface compliance at compile time
var _ ports.AskBridge = (*Bridge)(nil)

// New creates a Bridge scanning dir for request files
func New(dir string) *Bridge {
	return &Bridge{dir: dir}
}

// PollPending scans for a pending request matching chatID. On the first
// match it prompts the user and transitions the record to sent so later
// polls cannot re-deliver it.
func (b *Bridge) PollPending(ctx context.Context, chatID string, prompter ports.AskPrompter) (string, bool, error) {
	if err := sleepCtx(ctx, initialDelay); err != nil {
		return "", false, err
	}

	for attempt := 0; ; attempt++ {
		requestID, found, err := b.scanOnce(chatID, prompter)
		if err != nil {
			return "", false, err
		}
		if found {
			return requestID, true, nil
		}
		if attempt >= maxRetries {
			return "", false, nil
		}
		if err := sleepCtx(ctx, retryInterval); err != nil {
			return "", false, err
		}
	}
}

// scanOnce reads the request directory once and handles the first eligible
// record
func (b *Bridge) scanOnce(chatID string, prompter ports.AskPrompter) (string, bool, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		// Missing directory means no requests, not a failure
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read ask directory: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}

		path := filepath.Join(b.dir, name)
		req, ok := readRequest(path)
		if !ok {
			continue
		}
		if req.ChatID != chatID || req.Status != domain.AskStatusPending {
			continue
		}

		logging.Logger.Info("Ask request surfaced",
			"request_id", req.RequestID,
			"options", len(req.Options))

		if err := prompter.PromptChoice(req.Question, req.Options); err != nil {
			// Sink failures never fail the query
			logging.Logger.Warn("Ask prompt delivery failed", "error", err)
		}

		req.Status = domain.AskStatusSent
		if err := writeRequest(path, req); err != nil {
			logging.Logger.Warn("Failed to mark ask request sent", "error", err)
		}
		return req.RequestID, true, nil
	}

	return "", false, nil
}

// Consume deletes the request file after the user's answer was used.
// Already-deleted files are fine.
func (b *Bridge) Consume(requestID string) error {
	path := filepath.Join(b.dir, filePrefix+requestID+fileSuffix)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete ask request: %w", err)
	}
	return nil
}

// WriteRequest creates a new pending request file. Used by the tooling side
// (the hidden ask command) that runs inside the agent subprocess.
func (b *Bridge) WriteRequest(req domain.AskRequest) (string, error) {
	if req.Status == "" {
		req.Status = domain.AskStatusPending
	}
	path := filepath.Join(b.dir, filePrefix+req.RequestID+fileSuffix)
	if err := writeRequest(path, req); err != nil {
		return "", err
	}
	return path, nil
}

// readRequest loads one record, tolerating races with writers and deleters
func readRequest(path string) (domain.AskRequest, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.AskRequest{}, false
	}
	var req domain.AskRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return domain.AskRequest{}, false
	}
	if req.RequestID == "" {
		return domain.AskRequest{}, false
	}
	return req, true
}

func writeRequest(path string, req domain.AskRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal ask request: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write ask request: %w", err)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
