// Package pipeline orchestrates the bronze, silver and gold stages.
//
// Stages run sequentially, each reading the persisted artifact of the
// previous layer (or the in-memory rows when stages run back to back in
// the same invocation). A stage failure aborts the run; no partial
// artifact is left behind because the store writes through a temp file.
package pipeline

import (
	"context"
	"sync"
	"time"
)

// Stage identifiers, also used as metric and span labels.
const (
	StageIDBronze = "bronze"
	StageIDSilver = "silver"
	StageIDGold   = "gold"
	StageIDAll    = "all"
)

// Stage is a single pipeline layer.
type Stage interface {
	// ID returns the stable identifier for this stage.
	ID() string

	// Name returns the human-readable name for this stage.
	Name() string

	// Validate checks that the stage's inputs are available before it runs.
	Validate(state *RunState) error

	// Execute runs the stage, reading inputs from and writing outputs to
	// the run state and the configured artifact paths.
	Execute(ctx context.Context, state *RunState) error
}

// StageStatus is the lifecycle state of a stage within a run.
type StageStatus string

const (
	StageStatusPending   StageStatus = "pending"
	StageStatusActive    StageStatus = "active"
	StageStatusCompleted StageStatus = "completed"
	StageStatusFailed    StageStatus = "failed"
	StageStatusSkipped   StageStatus = "skipped"
)

// StageState is the runtime record of one stage in one run.
type StageState struct {
	mu        sync.RWMutex
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Status    StageStatus    `json:"status"`
	StartTime *time.Time     `json:"start_time,omitempty"`
	EndTime   *time.Time     `json:"end_time,omitempty"`
	Message   string         `json:"message,omitempty"`
	Err       error          `json:"-"`
	Counts    map[string]int `json:"counts,omitempty"`
}

// NewStageState returns a pending state for the given stage.
func NewStageState(id, name string) *StageState {
	return &StageState{
		ID:     id,
		Name:   name,
		Status: StageStatusPending,
		Counts: make(map[string]int),
	}
}

// Start marks the stage active.
func (s *StageState) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.StartTime = &now
	s.Status = StageStatusActive
}

// Complete marks the stage completed.
func (s *StageState) Complete(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.Status = StageStatusCompleted
	s.Message = message
}

// Fail marks the stage failed with the given error.
func (s *StageState) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.Status = StageStatusFailed
	s.Err = err
	if err != nil {
		s.Message = err.Error()
	}
}

// Skip marks the stage skipped.
func (s *StageState) Skip(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = StageStatusSkipped
	s.Message = reason
}

// SetCount records a named row count for the stage.
func (s *StageState) SetCount(name string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Counts[name] = n
}

// Duration returns how long the stage ran, or zero if it has not finished.
func (s *StageState) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.StartTime == nil || s.EndTime == nil {
		return 0
	}
	return s.EndTime.Sub(*s.StartTime)
}
