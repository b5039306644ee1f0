package sweep

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"papersim/internal/data"
	"papersim/internal/market"
	"papersim/internal/report"
)

func syntheticLoader() Loader {
	return func(ctx context.Context, p Params) ([]market.Candle, error) {
		return data.NewSynthetic(p.Seed, p.Symbol).Load(ctx, p.Timeframe, p.Bars, "", "")
	}
}

func TestGridCombos(t *testing.T) {
	grid := Grid{
		Mode:       "close",
		Symbol:     "BTCUSDT",
		Timeframe:  "1h",
		Bars:       100,
		Seeds:      []int64{1, 2},
		Windows:    []int{10, 20},
		Thresholds: []float64{0.005},
		Fees:       []float64{0, 0.001},
	}
	combos := grid.Combos()
	require.Len(t, combos, 8)

	assert.Equal(t, Params{Mode: "close", Symbol: "BTCUSDT", Timeframe: "1h", Bars: 100, Seed: 1, Window: 10, Threshold: 0.005, Fee: 0}, combos[0])
	assert.Equal(t, 0.001, combos[1].Fee)
	assert.Equal(t, int64(2), combos[7].Seed)
}

func TestGridCombosDefaults(t *testing.T) {
	combos := Grid{Mode: "close", Timeframe: "1h", Bars: 50}.Combos()
	require.Len(t, combos, 1)
	assert.Equal(t, 20, combos[0].Window)
	assert.Equal(t, 0.005, combos[0].Threshold)
	assert.Equal(t, int64(42), combos[0].Seed)
}

func TestRunCellIsolation(t *testing.T) {
	grid := Grid{
		Mode:      "close",
		Symbol:    "BTCUSDT",
		Timeframe: "1h",
		Bars:      300,
		Seeds:     []int64{7},
		Windows:   []int{5},
		Thresholds: []float64{
			0.002,
		},
		Fees: []float64{0, 0.001},
	}

	runner := Runner{Parallelism: 2, Load: syntheticLoader()}
	results, err := runner.Run(context.Background(), grid)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Same data and strategy in both cells, so trade counts match while
	// only the fee differs.
	assert.Equal(t, results[0].Summary.Trades, results[1].Summary.Trades)
	assert.Zero(t, results[0].Summary.TotalFees)
	if results[1].Summary.Trades > 0 {
		assert.Greater(t, results[1].Summary.TotalFees, 0.0)
	}
}

func TestRunDeterministic(t *testing.T) {
	grid := Grid{
		Mode:      "onebar",
		Symbol:    "BTCUSDT",
		Timeframe: "1h",
		Bars:      200,
		Seeds:     []int64{1, 2, 3},
		Windows:   []int{5, 10},
		Fees:      []float64{0.001},
	}
	runner := Runner{Parallelism: 4, Load: syntheticLoader()}

	first, err := runner.Run(context.Background(), grid)
	require.NoError(t, err)
	second, err := runner.Run(context.Background(), grid)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRunPropagatesLoadError(t *testing.T) {
	runner := Runner{Load: func(ctx context.Context, p Params) ([]market.Candle, error) {
		return nil, fmt.Errorf("boom")
	}}
	_, err := runner.Run(context.Background(), Grid{Mode: "close", Timeframe: "1h", Bars: 10})
	assert.ErrorContains(t, err, "boom")
}

func TestRunUnknownMode(t *testing.T) {
	runner := Runner{Load: syntheticLoader()}
	_, err := runner.Run(context.Background(), Grid{Mode: "martingale", Timeframe: "1h", Bars: 10})
	assert.ErrorContains(t, err, "unknown sweep mode")
}

func mkResult(mode string, trades int, pf, dd, ret float64) Result {
	return Result{Summary: report.Summary{
		Mode: mode, Trades: trades, ProfitFactor: pf, MaxDrawdown: dd, ReturnPct: ret,
	}}
}

func TestSelectBestQualified(t *testing.T) {
	results := []Result{
		mkResult("onebar", 60, 1.2, 0.10, 5),  // pf below cutoff
		mkResult("onebar", 60, 1.8, 0.10, 8),  // qualifies, score 1.62
		mkResult("onebar", 60, 1.5, 0.05, 9),  // qualifies, score 1.425
		mkResult("onebar", 10, 9.0, 0.01, 50), // too few trades
	}

	best, ok := SelectBest(results, Criteria{})
	require.True(t, ok)
	assert.Equal(t, 1.8, best.Summary.ProfitFactor)
}

func TestSelectBestInfinitePFWins(t *testing.T) {
	results := []Result{
		mkResult("onebar", 60, 3.0, 0.05, 10),
		mkResult("onebar", 60, math.Inf(1), 0.20, 4),
	}
	best, ok := SelectBest(results, Criteria{})
	require.True(t, ok)
	assert.True(t, math.IsInf(best.Summary.ProfitFactor, 1))
}

func TestSelectBestFallback(t *testing.T) {
	results := []Result{
		mkResult("onebar", 5, 1.1, 0.40, -2),
		mkResult("onebar", 5, 1.4, 0.30, 3),
	}
	best, ok := SelectBest(results, Criteria{})
	assert.False(t, ok)
	assert.Equal(t, 1.4, best.Summary.ProfitFactor)

	_, ok = SelectBest(nil, Criteria{})
	assert.False(t, ok)
}

func TestSelectBestCloseMode(t *testing.T) {
	results := []Result{
		mkResult("close", 60, 0, 0.10, 4), // score 0.936
		mkResult("close", 60, 0, 0.05, 6), // score 1.007
	}
	best, ok := SelectBest(results, Criteria{})
	require.True(t, ok)
	assert.Equal(t, 6.0, best.Summary.ReturnPct)
}
