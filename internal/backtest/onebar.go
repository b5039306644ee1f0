package backtest

import (
	"math"

	"papersim/internal/market"
)

// OnebarSeedEquity is the fixed first entry of the onebar equity curve.
const OnebarSeedEquity = 1000.0

// OnebarEngine replays bars under a strict no-lookahead contract: the
// decision for bar t sees only bars [0, t). A buy enters at open[t] and
// exits at close[t] of the same bar. Fees are a flat fractional cost per
// side, independent of notional - intentionally a different model from the
// close engine's notional-proportional fee; unifying the two would change
// historical metric values.
type OnebarEngine struct {
	Fee float64
}

// onebarTrade captures one single-bar round trip.
type onebarTrade struct {
	Timestamp  int64
	EntryPrice float64
	ExitPrice  float64
	PnL        float64
	NetPnL     float64
	Commission float64
}

// Run executes the backtest. The equity curve updates multiplicatively from
// the seed and has exactly len(bars) entries.
func (e OnebarEngine) Run(bars []market.Candle, strategy HistoryStrategy) (OnebarMetrics, []float64) {
	equity := make([]float64, 1, max(len(bars), 1))
	equity[0] = OnebarSeedEquity
	var trades []onebarTrade

	for t := 1; t < len(bars); t++ {
		signal := strategy.Signal(bars[:t])
		if signal != SignalBuy {
			equity = append(equity, equity[len(equity)-1])
			continue
		}

		bar := bars[t]
		entry, exit := bar.Open, bar.Close
		pnl := (exit - entry) / entry
		commission := 2 * e.Fee // entry + exit
		netPnL := pnl - commission

		equity = append(equity, equity[len(equity)-1]*(1+netPnL))
		trades = append(trades, onebarTrade{
			Timestamp:  bar.Timestamp,
			EntryPrice: entry,
			ExitPrice:  exit,
			PnL:        pnl,
			NetPnL:     netPnL,
			Commission: commission,
		})
	}

	finalEquity := equity[len(equity)-1]
	if len(trades) == 0 {
		return OnebarMetrics{FinalEquity: finalEquity}, equity
	}

	netPnLs := make([]float64, len(trades))
	for i, tr := range trades {
		netPnLs[i] = tr.NetPnL
	}
	return OnebarMetrics{
		Trades:       len(trades),
		FinalEquity:  finalEquity,
		ProfitFactor: ProfitFactor(netPnLs),
		MaxDrawdown:  MaxDrawdown(equity),
	}, equity
}

// ProfitFactor is the ratio of summed positive outcomes to the absolute sum
// of negative ones. No losses with positive profit yields +Inf; no losses
// and no profit yields 0.
func ProfitFactor(outcomes []float64) float64 {
	var profit, loss float64
	for _, v := range outcomes {
		switch {
		case v > 0:
			profit += v
		case v < 0:
			loss += -v
		}
	}
	if loss > 0 {
		return profit / loss
	}
	if profit > 0 {
		return math.Inf(1)
	}
	return 0
}
