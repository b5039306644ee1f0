package sweep

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"papersim/internal/backtest"
	"papersim/internal/logger"
	"papersim/internal/market"
	"papersim/internal/report"
	"papersim/internal/strategy"
)

// Params is one cell of the sweep grid.
type Params struct {
	Mode      string
	Symbol    string
	Timeframe string
	Bars      int
	Seed      int64
	Window    int
	Threshold float64
	Fee       float64
}

// Grid spans the parameter space. Empty dimensions collapse to a single
// default cell so a sparse grid still runs.
type Grid struct {
	Mode      string
	Symbol    string
	Timeframe string
	Bars      int

	Seeds      []int64
	Windows    []int
	Thresholds []float64
	Fees       []float64
}

// Combos expands the grid in deterministic order: seed, window, threshold,
// fee, innermost last.
func (g Grid) Combos() []Params {
	seeds := g.Seeds
	if len(seeds) == 0 {
		seeds = []int64{42}
	}
	windows := g.Windows
	if len(windows) == 0 {
		windows = []int{strategy.DefaultWindow}
	}
	thresholds := g.Thresholds
	if len(thresholds) == 0 {
		thresholds = []float64{strategy.DefaultThreshold}
	}
	fees := g.Fees
	if len(fees) == 0 {
		fees = []float64{0.001}
	}

	combos := make([]Params, 0, len(seeds)*len(windows)*len(thresholds)*len(fees))
	for _, seed := range seeds {
		for _, window := range windows {
			for _, threshold := range thresholds {
				for _, fee := range fees {
					combos = append(combos, Params{
						Mode:      g.Mode,
						Symbol:    g.Symbol,
						Timeframe: g.Timeframe,
						Bars:      g.Bars,
						Seed:      seed,
						Window:    window,
						Threshold: threshold,
						Fee:       fee,
					})
				}
			}
		}
	}
	return combos
}

// Loader supplies the candle series for one cell. Every cell gets its own
// call so one run can never observe another's data.
type Loader func(ctx context.Context, p Params) ([]market.Candle, error)

// Result pairs a cell with its summary.
type Result struct {
	Params  Params
	Summary report.Summary
}

// Runner executes a grid with bounded parallelism.
type Runner struct {
	Parallelism int // 0 means GOMAXPROCS
	Load        Loader
}

// Run expands the grid and backtests every cell. Each cell builds a fresh
// strategy and engine, so no rolling state or exchange balance leaks between
// cells. The first cell error cancels the rest.
func (r Runner) Run(ctx context.Context, grid Grid) ([]Result, error) {
	if r.Load == nil {
		return nil, fmt.Errorf("sweep: nil loader")
	}
	combos := grid.Combos()
	results := make([]Result, len(combos))

	limit := r.Parallelism
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)
	for i, p := range combos {
		i, p := i, p
		eg.Go(func() error {
			bars, err := r.Load(ctx, p)
			if err != nil {
				return fmt.Errorf("load cell %+v: %w", p, err)
			}
			summary, err := runCell(p, bars)
			if err != nil {
				return err
			}
			results[i] = Result{Params: p, Summary: summary}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	logger.Infof("sweep finished: %d cells", len(results))
	return results, nil
}

func runCell(p Params, bars []market.Candle) (report.Summary, error) {
	strat, err := strategy.NewMeanReversion(p.Window, p.Threshold, p.Timeframe)
	if err != nil {
		return report.Summary{}, err
	}
	meta := report.Meta{
		Strategy:  strat.Name(),
		Symbol:    p.Symbol,
		Bars:      len(bars),
		Fee:       p.Fee,
		Threshold: p.Threshold,
		Window:    p.Window,
		Seed:      p.Seed,
	}
	switch p.Mode {
	case "onebar":
		metrics, _ := backtest.OnebarEngine{Fee: p.Fee}.Run(bars, strat)
		return report.FromOnebar(meta, metrics), nil
	case "", "close":
		metrics, _ := backtest.CloseEngine{Fee: p.Fee}.Run(bars, strat)
		return report.FromClose(meta, metrics), nil
	default:
		return report.Summary{}, fmt.Errorf("unknown sweep mode: %q", p.Mode)
	}
}

// Criteria filters sweep results before ranking. Zero values fall back to
// the defaults.
type Criteria struct {
	MinTrades   int
	MinPF       float64
	MaxDrawdown float64
}

const (
	defaultMinTrades   = 50
	defaultMinPF       = 1.3
	defaultMaxDrawdown = 0.25
)

func (c Criteria) withDefaults() Criteria {
	if c.MinTrades <= 0 {
		c.MinTrades = defaultMinTrades
	}
	if c.MinPF <= 0 {
		c.MinPF = defaultMinPF
	}
	if c.MaxDrawdown <= 0 {
		c.MaxDrawdown = defaultMaxDrawdown
	}
	return c
}

func (c Criteria) admits(s report.Summary) bool {
	if s.Trades < c.MinTrades || s.MaxDrawdown > c.MaxDrawdown {
		return false
	}
	if s.Mode == "onebar" && s.ProfitFactor < c.MinPF {
		return false
	}
	return true
}

// score ranks admitted cells: risk-adjusted profit factor for onebar cells,
// risk-adjusted return for close cells. An infinite profit factor wins over
// any finite one.
func score(s report.Summary) float64 {
	riskAdj := 1 - s.MaxDrawdown
	if s.Mode == "onebar" {
		if math.IsInf(s.ProfitFactor, 1) {
			return math.Inf(1)
		}
		return s.ProfitFactor * riskAdj
	}
	return (1 + s.ReturnPct/100) * riskAdj
}

// SelectBest picks the highest-scoring result that passes the criteria,
// breaking score ties on return. When nothing qualifies it falls back to the
// best raw score, so a sweep always nominates something.
func SelectBest(results []Result, c Criteria) (Result, bool) {
	if len(results) == 0 {
		return Result{}, false
	}
	c = c.withDefaults()

	better := func(a, b Result) bool {
		sa, sb := score(a.Summary), score(b.Summary)
		if sa != sb {
			return sa > sb
		}
		return a.Summary.ReturnPct > b.Summary.ReturnPct
	}
	pick := func(admit func(report.Summary) bool) (Result, bool) {
		var best Result
		found := false
		for _, r := range results {
			if !admit(r.Summary) {
				continue
			}
			if !found || better(r, best) {
				best = r
				found = true
			}
		}
		return best, found
	}

	if best, ok := pick(c.admits); ok {
		return best, true
	}
	best, _ := pick(func(report.Summary) bool { return true })
	return best, false
}
