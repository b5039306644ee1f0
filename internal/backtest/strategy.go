package backtest

import "papersim/internal/market"

// Signal is a strategy's verdict for one decision point.
type Signal string

const (
	SignalBuy  Signal = "buy"
	SignalSell Signal = "sell"
	SignalNone Signal = ""
)

// BarStrategy is the close-mode contract. OnBar is called exactly once per
// bar, in chronological order; implementations own whatever rolling state
// they need and must return SignalNone while that state is warming up.
type BarStrategy interface {
	OnBar(bar market.Candle) Signal
	Name() string
}

// HistoryStrategy is the onebar-mode contract. Signal receives only bars
// strictly before the bar under decision; implementations must never assume
// anything about the current bar. A too-short history is the strategy's
// problem to detect by returning SignalNone.
type HistoryStrategy interface {
	Signal(history []market.Candle) Signal
	Name() string
}
