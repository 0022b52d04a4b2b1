package health

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// RunState tracks the outcome of the latest validation run.
type RunState struct {
	mu      sync.RWMutex
	runs    int
	lastRun time.Time
	status  string
	loadErr error
}

// NewRunState creates a state with no runs recorded.
func NewRunState() *RunState {
	return &RunState{}
}

// Succeeded records a completed run with its overall status.
func (s *RunState) Succeeded(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs++
	s.lastRun = time.Now()
	s.status = status
	s.loadErr = nil
}

// Failed records a run that could not load or evaluate its inputs.
func (s *RunState) Failed(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs++
	s.lastRun = time.Now()
	s.status = ""
	s.loadErr = err
}

// Snapshot returns the number of runs, the last run time and status.
func (s *RunState) Snapshot() (runs int, lastRun time.Time, status string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runs, s.lastRun, s.status
}

// Check is a CheckFunc: unhealthy before the first run and after a failed
// one. A run whose rules are not all valid is still healthy.
func (s *RunState) Check(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.runs == 0 {
		return fmt.Errorf("no validation run completed yet")
	}
	if s.loadErr != nil {
		return fmt.Errorf("last run failed: %w", s.loadErr)
	}
	return nil
}
