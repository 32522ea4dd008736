package services

import (
	"sync"

	"ponte/internal/domain"
	"ponte/internal/logging"
)

// Phase tracks where a query is in its lifecycle
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseProcessing Phase = "processing" // claimed, subprocess not yet spawned
	PhaseRunning    Phase = "running"    // subprocess is live
)

// Controller coordinates stop requests against the query lifecycle. One
// Controller guards one Session: Begin fails while a query is in flight,
// which is what enforces the single-query invariant.
//
// A stop during the processing phase is recorded and honored before spawn.
// A stop during the running phase terminates the subprocess tree; the decode
// loop notices on the next line. Both stop causes set the same flag, but the
// cause is kept so callers can decide whether to surface a notice.
type Controller struct {
	mu            sync.Mutex
	phase         Phase
	stopRequested bool
	cause         domain.StopCause
	terminate     func()
}

// NewController creates an idle Controller
func NewController() *Controller {
	return &Controller{phase: PhaseIdle}
}

// Begin claims the controller for a new query
func (c *Controller) Begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseIdle {
		return domain.ErrQueryInFlight
	}
	c.phase = PhaseProcessing
	c.stopRequested = false
	c.cause = domain.CauseNone
	c.terminate = nil
	return nil
}

// MarkRunning transitions to the running phase and registers the terminate
// capability. Returns false if a stop was requested during processing, in
// which case the caller must kill the just-spawned subprocess.
func (c *Controller) MarkRunning(terminate func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopRequested {
		return false
	}
	c.phase = PhaseRunning
	c.terminate = terminate
	return true
}

// RequestStop asks the in-flight query to stop. Idempotent; the first cause
// wins. Returns true if there was a query to stop.
func (c *Controller) RequestStop(cause domain.StopCause) bool {
	c.mu.Lock()
	if c.phase == PhaseIdle {
		c.mu.Unlock()
		return false
	}
	if !c.stopRequested {
		c.stopRequested = true
		c.cause = cause
	}
	terminate := c.terminate
	phase := c.phase
	c.mu.Unlock()

	logging.Logger.Info("Stop requested", "phase", phase, "cause", cause)
	if terminate != nil {
		terminate()
	}
	return true
}

// Stopping reports whether a stop has been requested
func (c *Controller) Stopping() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopRequested
}

// Cause returns why the stop was requested
func (c *Controller) Cause() domain.StopCause {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cause
}

// Phase returns the current lifecycle phase
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Finish releases the controller back to idle
func (c *Controller) Finish() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.phase = PhaseIdle
	c.terminate = nil
}
