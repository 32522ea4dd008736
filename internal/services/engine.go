package services

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ponte/internal/adapters/claude"
	"ponte/internal/config"
	"ponte/internal/domain"
	"ponte/internal/logging"
	"ponte/internal/ports"
)

// scanBufferLimit bounds one NDJSON line from the agent. Tool results can
// embed whole files, so the ceiling is generous.
const scanBufferLimit = 10 * 1024 * 1024

const maxTitleLen = 48

// errAgentCrash marks a subprocess death with no result event. Wrapping
// errors carry the stderr detail; the retry policy matches on this sentinel.
var errAgentCrash = errors.New("agent subprocess crashed")

// RetryPolicy decides whether a failed query attempt is retried. A retry
// always starts a fresh conversation; the crashed session id is assumed
// poisoned.
type RetryPolicy struct {
	MaxAttempts int
	Qualifies   func(error) bool
}

// DefaultRetryPolicy retries a crashed subprocess exactly once
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 2,
		Qualifies:   func(err error) bool { return errors.Is(err, errAgentCrash) },
	}
}

// QueryResult is the terminal state of one query
type QueryResult struct {
	Outcome      domain.Outcome
	Text         string // final response text, set only when completed
	Cause        domain.StopCause
	AskRequestID string // set when suspended, consumed once the answer is used
}

// Engine runs queries against an agent subprocess: it spawns the agent,
// decodes its event stream, deduplicates replayed blocks and delivers
// segmented output through the sink. One Engine drives one Session at a
// time; the Controller enforces that.
type Engine struct {
	launcher ports.AgentLauncher
	bridge   ports.AskBridge
	sessions *SessionService
	archive  ports.QueryArchive
	sound    ports.SoundPlayer
	settings *config.Settings
	retry    RetryPolicy
}

// NewEngine wires an Engine. archive and sound may be nil; both are best
// effort and never fail a query.
func NewEngine(
	launcher ports.AgentLauncher,
	bridge ports.AskBridge,
	sessions *SessionService,
	archive ports.QueryArchive,
	sound ports.SoundPlayer,
	settings *config.Settings,
) *Engine {
	return &Engine{
		launcher: launcher,
		bridge:   bridge,
		sessions: sessions,
		archive:  archive,
		sound:    sound,
		settings: settings,
		retry:    DefaultRetryPolicy(),
	}
}

// Query runs one user message through the agent and streams the response to
// the sink. It blocks until the query reaches a terminal outcome. A second
// call while one is in flight fails with domain.ErrQueryInFlight.
func (e *Engine) Query(
	ctx context.Context,
	sess *domain.Session,
	prompt string,
	sink ports.DeliverySink,
	prompter ports.AskPrompter,
	ctrl *Controller,
) (QueryResult, error) {
	if err := ctrl.Begin(); err != nil {
		return QueryResult{}, err
	}
	defer ctrl.Finish()

	if sess.Title == "" {
		sess.Title = titleFromPrompt(prompt)
	}

	started := time.Now()
	var res QueryResult
	var err error
	for attempt := 1; ; attempt++ {
		res, err = e.runOnce(ctx, sess, prompt, sink, prompter, ctrl)
		if err == nil || attempt >= e.retry.MaxAttempts || !e.retry.Qualifies(err) || ctrl.Stopping() {
			break
		}
		logging.Logger.Warn("Agent crashed, retrying with a fresh conversation",
			"attempt", attempt, "error", err)
		sess.Reset()
	}

	if err != nil {
		res.Outcome = domain.OutcomeFailed
		sess.RecordError(err.Error())
	}
	sess.ClearCurrentTool()
	sess.TouchActivity()

	e.recordOutcome(ctx, sess, res, started)
	e.notify(res.Outcome)
	return res, err
}

func (e *Engine) runOnce(
	ctx context.Context,
	sess *domain.Session,
	prompt string,
	sink ports.DeliverySink,
	prompter ports.AskPrompter,
	ctrl *Controller,
) (QueryResult, error) {
	if ctrl.Stopping() {
		return QueryResult{Outcome: domain.OutcomeCancelled, Cause: ctrl.Cause()}, nil
	}

	emitter := newSegmentEmitter(sink, e.settings.UpdateIntervalOrDefault(), e.settings.MinUpdateCharsOrDefault())
	defer emitter.Done()

	handle, err := e.launcher.Launch(ctx, ports.LaunchOptions{
		ChatID:     sess.ChatID,
		Prompt:     prompt,
		SessionID:  sess.SessionID,
		WorkingDir: sess.WorkingDir,
	})
	if err != nil {
		return QueryResult{}, fmt.Errorf("failed to launch agent: %w", err)
	}

	if !ctrl.MarkRunning(handle.Terminate) {
		// Stop raced the spawn; the subprocess never gets to speak
		handle.Terminate()
		_ = handle.Wait()
		return QueryResult{Outcome: domain.OutcomeStopped, Cause: ctrl.Cause()}, nil
	}

	res, decodeErr := e.decode(ctx, sess, handle, emitter, prompter, ctrl)

	switch {
	case res.Outcome == domain.OutcomeSuspended:
		// The agent is blocked inside its ask tool; the answer arrives as
		// a future message, so this process is done
		handle.Terminate()
		_ = handle.Wait()
		return res, nil
	case ctrl.Stopping():
		handle.Terminate()
		_ = handle.Wait()
		return QueryResult{Outcome: domain.OutcomeStopped, Cause: ctrl.Cause()}, nil
	}

	werr := handle.Wait()
	if decodeErr != nil {
		return QueryResult{}, decodeErr
	}
	if res.Outcome != "" {
		return res, nil
	}

	// Stream ended without a result event
	tail := domain.TruncateError(handle.StderrTail())
	if claude.MatchesContextLimit(handle.StderrTail()) {
		logging.Logger.Warn("Context window exhausted, clearing session", "stderr", tail)
		sess.Reset()
		return QueryResult{Outcome: domain.OutcomeContextLimit}, nil
	}
	if werr != nil {
		return QueryResult{}, fmt.Errorf("%w: %v: %s", errAgentCrash, werr, tail)
	}
	return QueryResult{}, fmt.Errorf("agent exited without a result: %s", tail)
}

// decode consumes the NDJSON event stream until a terminal event, a stop or
// stream end. It returns a zero-outcome result when the stream ended with no
// terminal event.
func (e *Engine) decode(
	ctx context.Context,
	sess *domain.Session,
	handle ports.AgentHandle,
	emitter *segmentEmitter,
	prompter ports.AskPrompter,
	ctrl *Controller,
) (QueryResult, error) {
	scanner := bufio.NewScanner(handle.Output())
	scanner.Buffer(make([]byte, 0, 64*1024), scanBufferLimit)

	dedup := newDedupTracker()
	askPrefix := e.settings.AskToolPrefixOrDefault()

	for scanner.Scan() {
		if ctrl.Stopping() {
			return QueryResult{}, nil
		}
		ev, ok := claude.ParseLine(scanner.Bytes())
		if !ok {
			continue
		}
		sess.TouchActivity()

		if ev.SessionID != "" && sess.AdoptSessionID(ev.SessionID) {
			if err := e.sessions.SaveSession(sess); err != nil {
				logging.Logger.Warn("Failed to persist session id", "error", err)
			}
		}

		switch ev.Kind {
		case domain.EventAssistantTurn:
			if requestID, suspended := e.handleTurn(ctx, sess, ev, dedup, emitter, prompter, askPrefix); suspended {
				return QueryResult{Outcome: domain.OutcomeSuspended, AskRequestID: requestID}, nil
			}
		case domain.EventResult:
			return e.handleResult(sess, ev)
		}
	}
	if err := scanner.Err(); err != nil {
		logging.Logger.Warn("Agent stream read failed", "error", err)
	}
	return QueryResult{}, nil
}

// handleTurn applies one cumulative assistant snapshot. Returns the request
// id and true when an ask request surfaced and the query must suspend.
func (e *Engine) handleTurn(
	ctx context.Context,
	sess *domain.Session,
	ev domain.StreamEvent,
	dedup *dedupTracker,
	emitter *segmentEmitter,
	prompter ports.AskPrompter,
	askPrefix string,
) (string, bool) {
	dedup.beginTurn(ev.TurnID)
	for pos, block := range ev.Blocks {
		switch block.Type {
		case domain.BlockThinking:
			if _, ok := dedup.textDelta(pos, block.Text); ok {
				emitter.Thinking(block.Text)
			}
		case domain.BlockText:
			if delta, ok := dedup.textDelta(pos, block.Text); ok {
				emitter.AppendText(delta)
			}
		case domain.BlockToolUse:
			if !dedup.firstToolUse(block.ToolID) {
				continue
			}
			if askPrefix != "" && strings.HasPrefix(block.ToolName, askPrefix) {
				requestID, found, err := e.bridge.PollPending(ctx, sess.ChatID, prompter)
				if err != nil {
					logging.Logger.Warn("Ask bridge poll failed", "error", err)
				}
				if found {
					return requestID, true
				}
				continue
			}
			sess.SetCurrentTool(block.ToolName)
			emitter.Tool(claude.FormatToolLabel(block.ToolName, block.ToolInput))
		}
	}
	return "", false
}

func (e *Engine) handleResult(sess *domain.Session, ev domain.StreamEvent) (QueryResult, error) {
	if !ev.Usage.IsZero() {
		window := ev.ContextWindow
		if window <= 0 {
			window = e.settings.ContextWindowOrDefault()
		}
		sess.LastUsage = ev.Usage
		sess.ContextPercent = domain.ContextPercent(ev.Usage, window)
		logging.Logger.Debug("Query usage",
			"input_tokens", ev.Usage.InputTokens,
			"output_tokens", ev.Usage.OutputTokens,
			"context_percent", sess.ContextPercent)
	}

	if claude.MatchesContextLimit(ev.ResultText) {
		logging.Logger.Warn("Context window exhausted, clearing session",
			"session_id", sess.SessionID)
		sess.Reset()
		return QueryResult{Outcome: domain.OutcomeContextLimit}, nil
	}
	if ev.IsError {
		return QueryResult{}, fmt.Errorf("agent reported an error: %s", domain.TruncateError(ev.ResultText))
	}
	return QueryResult{Outcome: domain.OutcomeCompleted, Text: ev.ResultText}, nil
}

// recordOutcome archives the finished query for statistics. Failures are
// logged only.
func (e *Engine) recordOutcome(ctx context.Context, sess *domain.Session, res QueryResult, started time.Time) {
	if e.archive == nil {
		return
	}
	outcome := res.Outcome
	if outcome == "" {
		outcome = domain.OutcomeFailed
	}
	rec := ports.QueryRecord{
		SessionID:      sess.SessionID,
		WorkingDir:     sess.WorkingDir,
		Outcome:        outcome,
		Usage:          sess.LastUsage,
		ContextPercent: sess.ContextPercent,
		Duration:       time.Since(started),
		StartedAt:      started.UTC(),
	}
	if err := e.archive.Record(ctx, rec); err != nil {
		logging.Logger.Warn("Failed to archive query", "error", err)
	}
}

func (e *Engine) notify(outcome domain.Outcome) {
	if e.sound == nil || !e.settings.SoundEnabledOrDefault() {
		return
	}
	var event string
	switch outcome {
	case domain.OutcomeCompleted:
		event = "done"
	case domain.OutcomeSuspended:
		event = "ask"
	default:
		return
	}
	if err := e.sound.PlaySoundForEvent(event); err != nil {
		logging.Logger.Debug("Sound notification failed", "event", event, "error", err)
	}
}

// titleFromPrompt derives a short session title from the first message
func titleFromPrompt(prompt string) string {
	line := strings.TrimSpace(prompt)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	if len(line) > maxTitleLen {
		line = strings.TrimSpace(line[:maxTitleLen]) + "…"
	}
	return line
}
