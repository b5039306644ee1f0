package backtest

import (
	"papersim/internal/exchange"
	"papersim/internal/logger"
	"papersim/internal/market"
	"papersim/internal/risk"
)

// DefaultOrderQty is the fixed close-mode position size.
const DefaultOrderQty = 1.0

// RiskParams enables risk-based order sizing and stop/take-profit brackets.
// The zero value keeps the plain fixed-quantity behavior.
type RiskParams struct {
	PerTrade      float64 // fraction of balance risked per trade
	StopLossPct   float64
	TakeProfitPct float64
}

func (r RiskParams) enabled() bool { return r.PerTrade > 0 }

// CloseEngine replays bars through a BarStrategy and executes actionable
// signals against a fresh paper exchange at each bar's close. The replay is
// strictly sequential; the engine owns its exchange for exactly one run.
// Zero filter fields fall back to the exchange defaults.
type CloseEngine struct {
	Fee            float64
	InitialBalance float64 // 0 means the exchange default
	OrderQty       float64 // 0 means DefaultOrderQty
	TickSize       float64
	StepSize       float64
	MinNotional    float64
	Risk           RiskParams
}

// trade is the minimal record kept per successful fill; close-mode win rate
// is derived from sequential (buy, sell) pairs of these.
type trade struct {
	Timestamp int64
	Side      exchange.Side
	Price     float64
	Quantity  float64
}

// Run executes the backtest and returns the metrics plus the equity curve,
// one sample per bar. Rejected orders are logged and treated as "no trade";
// they never abort the replay.
func (e CloseEngine) Run(bars []market.Candle, strategy BarStrategy) (CloseMetrics, []float64) {
	orderQty := e.OrderQty
	if orderQty <= 0 {
		orderQty = DefaultOrderQty
	}
	ex := exchange.New(exchange.Config{
		TakerFee:       e.Fee,
		InitialBalance: e.InitialBalance,
		TickSize:       e.TickSize,
		StepSize:       e.StepSize,
		MinNotional:    e.MinNotional,
	})
	initialBalance := ex.Balance()

	equity := make([]float64, 0, len(bars))
	var trades []trade
	var bracket risk.Levels

	for _, bar := range bars {
		// An armed bracket exits before the strategy sees the bar.
		if e.Risk.enabled() && ex.Position().Quantity > 0 {
			if stop, take := bracket.Breached(bar.Low, bar.High); stop || take {
				exitPrice := bracket.TakeProfit
				if stop {
					exitPrice = bracket.StopLoss
				}
				qty := ex.Position().Quantity
				if res := ex.MarketOrder(exchange.Sell, qty, exitPrice, bar.Timestamp); res.Success {
					trades = append(trades, trade{Timestamp: bar.Timestamp, Side: exchange.Sell, Price: exitPrice, Quantity: qty})
				} else {
					logger.Debugf("bracket exit rejected at ts=%d: %s", bar.Timestamp, res.Reason)
				}
			}
		}

		signal := strategy.OnBar(bar)

		switch {
		case signal == SignalBuy && ex.Position().Quantity == 0:
			qty := orderQty
			if e.Risk.enabled() {
				levels, err := risk.StopLevels(bar.Close, e.Risk.StopLossPct, e.Risk.TakeProfitPct)
				if err != nil {
					logger.Debugf("bracket levels rejected at ts=%d: %v", bar.Timestamp, err)
					break
				}
				qty = risk.PositionSize(ex.Balance(), e.Risk.PerTrade, bar.Close, levels.StopLoss)
				bracket = levels
			}
			res := ex.MarketOrder(exchange.Buy, qty, bar.Close, bar.Timestamp)
			if res.Success {
				trades = append(trades, trade{Timestamp: bar.Timestamp, Side: exchange.Buy, Price: bar.Close, Quantity: qty})
			} else {
				logger.Debugf("buy rejected at ts=%d: %s", bar.Timestamp, res.Reason)
			}
		case signal == SignalSell && ex.Position().Quantity > 0:
			qty := ex.Position().Quantity
			res := ex.MarketOrder(exchange.Sell, qty, bar.Close, bar.Timestamp)
			if res.Success {
				trades = append(trades, trade{Timestamp: bar.Timestamp, Side: exchange.Sell, Price: bar.Close, Quantity: qty})
			} else {
				logger.Debugf("sell rejected at ts=%d: %s", bar.Timestamp, res.Reason)
			}
		}

		// Exactly one equity sample per bar, trade or not.
		equity = append(equity, ex.Balance()+ex.Position().Quantity*bar.Close)
	}

	finalEquity := initialBalance
	if len(equity) > 0 {
		finalEquity = equity[len(equity)-1]
	}
	grossPnL := finalEquity - initialBalance
	totalFees := ex.TotalFees()

	metrics := CloseMetrics{
		Trades:         len(trades),
		GrossPnL:       grossPnL,
		TotalFees:      totalFees,
		NetPnL:         grossPnL - totalFees,
		WinRate:        pairWinRate(trades),
		MaxDrawdown:    maxDrawdownFrom(initialBalance, equity),
		InitialBalance: initialBalance,
		FinalEquity:    finalEquity,
		ReturnPct:      grossPnL / initialBalance * 100,
	}
	return metrics, equity
}

// pairWinRate consumes trades in sequential (buy, sell) pairs; a pair wins
// when the sell price beats the paired buy price.
func pairWinRate(trades []trade) float64 {
	pairs := len(trades) / 2
	if pairs == 0 {
		return 0
	}
	wins := 0
	for i := 0; i+1 < len(trades); i += 2 {
		if trades[i+1].Price > trades[i].Price {
			wins++
		}
	}
	return float64(wins) / float64(pairs)
}

// maxDrawdownFrom works like MaxDrawdown but seeds the running peak, so a
// curve that starts underwater counts the initial decline too.
func maxDrawdownFrom(peak float64, equity []float64) float64 {
	maxDD := 0.0
	for _, eq := range equity {
		if eq > peak {
			peak = eq
		}
		if peak <= 0 {
			continue
		}
		if dd := (peak - eq) / peak; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}
