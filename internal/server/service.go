package server

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"papersim/internal/app"
	"papersim/internal/config"
	"papersim/internal/logger"
)

// DefaultMaxConcurrentRuns bounds background backtests per process.
const DefaultMaxConcurrentRuns = 4

// RunRequest is the HTTP submission payload. Empty fields inherit from the
// server's base config.
type RunRequest struct {
	Mode      string  `json:"mode"`
	Source    string  `json:"source"`
	Symbol    string  `json:"symbol"`
	Timeframe string  `json:"timeframe"`
	Bars      int     `json:"bars"`
	Seed      int64   `json:"seed"`
	Fee       float64 `json:"fee"`
	Strategy  string  `json:"strategy"`
	Window    int     `json:"window"`
	Threshold float64 `json:"threshold"`
	Start     string  `json:"start"`
	End       string  `json:"end"`
}

// Service runs submitted backtests in the background with bounded
// concurrency. TryStart rejects when all slots are busy.
type Service struct {
	mu       sync.RWMutex
	base     *config.Config
	registry *Registry
	group    *errgroup.Group
}

func NewService(base *config.Config, maxConcurrent int) *Service {
	if base == nil {
		base = config.Default()
	}
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentRuns
	}
	group := &errgroup.Group{}
	group.SetLimit(maxConcurrent)
	return &Service{base: base, registry: NewRegistry(), group: group}
}

func (s *Service) Registry() *Registry { return s.registry }

// UpdateBase swaps the base config that new runs inherit from. In-flight
// runs keep the config they started with.
func (s *Service) UpdateBase(cfg *config.Config) {
	if cfg == nil {
		return
	}
	s.mu.Lock()
	s.base = cfg
	s.mu.Unlock()
}

// TryStart validates the request, registers the run, and schedules it. The
// returned bool is false when the concurrency limit is hit.
func (s *Service) TryStart(req RunRequest) (Run, bool, error) {
	cfg, err := s.mergedConfig(req)
	if err != nil {
		return Run{}, false, err
	}

	run := s.registry.Create(req)
	started := s.group.TryGo(func() error {
		res, err := app.Execute(context.Background(), cfg)
		if err != nil {
			logger.Errorf("run %s failed: %v", run.ID, err)
			s.registry.fail(run.ID, err)
			return nil
		}
		s.registry.complete(run.ID, res.Summary, res.Equity, res.Candles)
		logger.Infof("run %s finished: %d trades, final equity %.4f", run.ID, res.Summary.Trades, res.Summary.FinalEquity)
		return nil
	})
	if !started {
		// The run never got a slot, so it leaves no trace in the registry.
		s.registry.remove(run.ID)
		return Run{}, false, nil
	}

	snapshot, _ := s.registry.Get(run.ID)
	return snapshot, true, nil
}

// Wait blocks until all scheduled runs drain. Used on shutdown and in tests.
func (s *Service) Wait() { _ = s.group.Wait() }

// mergedConfig overlays the request onto a copy of the base config and
// re-validates the result via config defaults.
func (s *Service) mergedConfig(req RunRequest) (*config.Config, error) {
	s.mu.RLock()
	cfg := *s.base
	s.mu.RUnlock()

	if req.Mode != "" {
		cfg.Backtest.Mode = req.Mode
	}
	if req.Source != "" {
		cfg.Data.Source = req.Source
	}
	if req.Symbol != "" {
		cfg.Data.Symbol = req.Symbol
	}
	if req.Timeframe != "" {
		cfg.Data.Timeframe = req.Timeframe
	}
	if req.Bars > 0 {
		cfg.Data.Bars = req.Bars
	}
	if req.Seed != 0 {
		cfg.Data.Seed = req.Seed
	}
	if req.Fee > 0 {
		cfg.Backtest.Fee = req.Fee
	}
	if req.Strategy != "" {
		cfg.Strategy.Name = req.Strategy
	}
	if req.Window > 0 {
		cfg.Strategy.Window = req.Window
	}
	if req.Threshold > 0 {
		cfg.Strategy.Threshold = req.Threshold
	}
	cfg.Data.Start = req.Start
	cfg.Data.End = req.End
	// Submitted runs never touch the server's CSV cache.
	cfg.Data.CSVPath = ""

	switch cfg.Backtest.Mode {
	case "close", "onebar":
	default:
		return nil, fmt.Errorf("mode must be close or onebar")
	}
	return &cfg, nil
}
