package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"papersim/internal/market"
	"papersim/internal/report"
)

type RunStatus string

const (
	StatusRunning RunStatus = "running"
	StatusDone    RunStatus = "done"
	StatusFailed  RunStatus = "failed"
)

// Run is one backtest submitted over HTTP. Results live in memory only.
type Run struct {
	ID         string          `json:"id"`
	Status     RunStatus       `json:"status"`
	Request    RunRequest      `json:"request"`
	CreatedAt  time.Time       `json:"created_at"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
	Summary    *report.Summary `json:"summary,omitempty"`
	Error      string          `json:"error,omitempty"`

	equity  []float64
	candles []market.Candle
}

// Registry is the in-memory run store, newest first.
type Registry struct {
	mu    sync.RWMutex
	runs  map[string]*Run
	order []string
}

func NewRegistry() *Registry {
	return &Registry{runs: make(map[string]*Run)}
}

func (r *Registry) Create(req RunRequest) *Run {
	run := &Run{
		ID:        uuid.NewString(),
		Status:    StatusRunning,
		Request:   req,
		CreatedAt: time.Now().UTC(),
	}
	r.mu.Lock()
	r.runs[run.ID] = run
	r.order = append(r.order, run.ID)
	r.mu.Unlock()
	return run
}

func (r *Registry) complete(id string, summary report.Summary, equity []float64, candles []market.Candle) {
	now := time.Now().UTC()
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	if !ok {
		return
	}
	run.Status = StatusDone
	run.FinishedAt = &now
	run.Summary = &summary
	run.equity = equity
	run.candles = candles
}

func (r *Registry) fail(id string, err error) {
	now := time.Now().UTC()
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	if !ok {
		return
	}
	run.Status = StatusFailed
	run.FinishedAt = &now
	run.Error = err.Error()
}

// remove drops a run that never got scheduled.
func (r *Registry) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.runs[id]; !ok {
		return
	}
	delete(r.runs, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Get returns a copy of the run without the bulky series.
func (r *Registry) Get(id string) (Run, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.runs[id]
	if !ok {
		return Run{}, false
	}
	out := *run
	out.equity = nil
	out.candles = nil
	return out, true
}

// List returns run copies, most recent first, capped at limit.
func (r *Registry) List(limit int) []Run {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Run, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		run := *r.runs[r.order[i]]
		run.equity = nil
		run.candles = nil
		out = append(out, run)
	}
	return out
}

// Equity returns the equity curve of a finished run.
func (r *Registry) Equity(id string) ([]float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.runs[id]
	if !ok {
		return nil, fmt.Errorf("run %s not found", id)
	}
	if run.Status != StatusDone {
		return nil, fmt.Errorf("run %s is %s", id, run.Status)
	}
	return append([]float64(nil), run.equity...), nil
}

// Series returns the candles and equity for chart rendering.
func (r *Registry) Series(id string) ([]market.Candle, []float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.runs[id]
	if !ok {
		return nil, nil, fmt.Errorf("run %s not found", id)
	}
	if run.Status != StatusDone {
		return nil, nil, fmt.Errorf("run %s is %s", id, run.Status)
	}
	candles := append([]market.Candle(nil), run.candles...)
	equity := append([]float64(nil), run.equity...)
	return candles, equity, nil
}
