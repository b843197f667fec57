package tasks

import (
	"sync"

	"github.com/algotrader1/Meta-Ads-Transcriptor/app/ads"
)

// Progress statuses reported to the polling surface.
const (
	StatusIdle     = "idle"
	StatusRunning  = "running"
	StatusComplete = "complete"
	StatusError    = "error"
)

// TotalSteps is the number of stages an analysis run goes through.
const TotalSteps = 5

// Progress is a point-in-time view of an analysis run. Poll handlers read
// snapshots of it while the pipeline mutates the registry entry.
type Progress struct {
	Status      string      `json:"status"`
	CurrentStep int         `json:"current_step"`
	TotalSteps  int         `json:"total_steps"`
	StepName    string      `json:"step_name"`
	Detail      string      `json:"detail"`
	Progress    int         `json:"progress"`
	Total       int         `json:"total"`
	Error       string      `json:"error,omitempty"`
	Result      *ads.Result `json:"result,omitempty"`
}

// ProgressRegistry tracks progress per run ID. All methods are safe for
// concurrent use; Get returns a copy so callers never observe a partial
// update.
type ProgressRegistry struct {
	mu   sync.RWMutex
	runs map[string]*Progress
}

func NewProgressRegistry() *ProgressRegistry {
	return &ProgressRegistry{
		runs: make(map[string]*Progress),
	}
}

func (r *ProgressRegistry) Create(runID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.runs[runID] = &Progress{
		Status:     StatusRunning,
		TotalSteps: TotalSteps,
	}
}

func (r *ProgressRegistry) Get(runID string) (Progress, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.runs[runID]
	if !ok {
		return Progress{Status: StatusIdle, TotalSteps: TotalSteps}, false
	}
	return *p, true
}

// StartStep advances the run to a new stage and resets the per-stage
// counters.
func (r *ProgressRegistry) StartStep(runID string, step int, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.runs[runID]
	if !ok {
		return
	}
	p.CurrentStep = step
	p.StepName = name
	p.Detail = ""
	p.Progress = 0
	p.Total = 0
}

func (r *ProgressRegistry) SetDetail(runID string, detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.runs[runID]; ok {
		p.Detail = detail
	}
}

// SetCounts updates the per-stage done/total counters.
func (r *ProgressRegistry) SetCounts(runID string, done int, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.runs[runID]; ok {
		p.Progress = done
		p.Total = total
	}
}

func (r *ProgressRegistry) Complete(runID string, result *ads.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.runs[runID]
	if !ok {
		return
	}
	p.Status = StatusComplete
	p.CurrentStep = TotalSteps
	p.StepName = "Done"
	p.Detail = ""
	p.Result = result
}

func (r *ProgressRegistry) Fail(runID string, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.runs[runID]
	if !ok {
		return
	}
	p.Status = StatusError
	p.Error = message
}
