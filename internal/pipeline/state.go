package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"sgjobs/pkg/contracts/domain"
)

// RunStatus is the lifecycle state of a whole run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// RunState is the shared state of one pipeline invocation. Stages read the
// previous layer's rows from here when running back to back, falling back
// to the persisted artifact otherwise.
type RunState struct {
	mu        sync.RWMutex
	ID        string        `json:"id"`
	Status    RunStatus     `json:"status"`
	StartTime time.Time     `json:"start_time"`
	EndTime   *time.Time    `json:"end_time,omitempty"`
	Stages    []*StageState `json:"stages"`

	// In-memory hand-off between stages of the same run.
	bronzeRows []domain.Posting
	silverRows []domain.EnrichedPosting

	summary *domain.LayerSummary
}

// NewRunState returns a running state with a fresh run ID.
func NewRunState() *RunState {
	return &RunState{
		ID:        uuid.New().String(),
		Status:    RunStatusRunning,
		StartTime: time.Now(),
	}
}

// AddStage registers a stage state with the run.
func (r *RunState) AddStage(s *StageState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Stages = append(r.Stages, s)
}

// Complete marks the run finished.
func (r *RunState) Complete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.EndTime = &now
	r.Status = RunStatusCompleted
}

// Fail marks the run failed.
func (r *RunState) Fail() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.EndTime = &now
	r.Status = RunStatusFailed
}

// SetBronzeRows stores the bronze layer rows for the next stage.
func (r *RunState) SetBronzeRows(rows []domain.Posting) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bronzeRows = rows
}

// BronzeRows returns the in-memory bronze rows, nil when the bronze stage
// did not run in this invocation.
func (r *RunState) BronzeRows() []domain.Posting {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bronzeRows
}

// SetSilverRows stores the silver layer rows for the next stage.
func (r *RunState) SetSilverRows(rows []domain.EnrichedPosting) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.silverRows = rows
}

// SilverRows returns the in-memory silver rows, nil when the silver stage
// did not run in this invocation.
func (r *RunState) SilverRows() []domain.EnrichedPosting {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.silverRows
}

// SetSummary records the end-of-run layer summary.
func (r *RunState) SetSummary(s domain.LayerSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summary = &s
}

// Summary returns the layer summary, nil before the gold stage completes.
func (r *RunState) Summary() *domain.LayerSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.summary
}

// StageState returns the state of the named stage, nil if not registered.
func (r *RunState) StageState(id string) *StageState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.Stages {
		if s.ID == id {
			return s
		}
	}
	return nil
}
