package strategy

import (
	"fmt"

	talib "github.com/markcheno/go-talib"

	"papersim/internal/backtest"
	"papersim/internal/market"
)

const (
	DefaultWindow    = 20
	DefaultThreshold = 0.005
)

// MeanReversion trades deviations from a simple moving average: buy when
// the close drops below the lower band, sell when it rises above the upper
// one. It supports both engine contracts; each backtest run gets its own
// instance because OnBar keeps rolling state.
type MeanReversion struct {
	window    int
	threshold float64
	tfSec     int64

	prices []float64 // rolling closes, bounded to window
	prevTS int64
}

// NewMeanReversion validates the timeframe and builds a strategy. window
// and threshold fall back to the defaults when non-positive.
func NewMeanReversion(window int, threshold float64, timeframe string) (*MeanReversion, error) {
	if window <= 0 {
		window = DefaultWindow
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	tf, err := backtest.ParseTimeframe(timeframe)
	if err != nil {
		return nil, err
	}
	return &MeanReversion{
		window:    window,
		threshold: threshold,
		tfSec:     tf.Seconds(),
		prices:    make([]float64, 0, window),
	}, nil
}

func (s *MeanReversion) Name() string {
	return fmt.Sprintf("mean_reversion_%d_%g", s.window, s.threshold)
}

// OnBar implements backtest.BarStrategy over a bounded rolling window. A
// gap in the feed larger than the staleness tolerance drops the window, so
// the SMA never spans missing candles.
func (s *MeanReversion) OnBar(bar market.Candle) backtest.Signal {
	if s.prevTS != 0 && market.IsStale(s.prevTS, bar.Timestamp, s.tfSec, market.DefaultStaleTolerance) {
		s.prices = s.prices[:0]
	}
	s.prevTS = bar.Timestamp

	s.prices = append(s.prices, bar.Close)
	if len(s.prices) > s.window {
		s.prices = s.prices[len(s.prices)-s.window:]
	}
	if len(s.prices) < s.window {
		return backtest.SignalNone
	}

	sma := talib.Sma(s.prices, s.window)
	return s.classify(bar.Close, sma[len(sma)-1])
}

// Signal implements backtest.HistoryStrategy. The SMA spans every close in
// the supplied history, matching the close-free no-lookahead variant of the
// same rule.
func (s *MeanReversion) Signal(history []market.Candle) backtest.Signal {
	if len(history) < s.window {
		return backtest.SignalNone
	}
	closes := market.Closes(history)
	sma := talib.Sma(closes, len(closes))
	return s.classify(closes[len(closes)-1], sma[len(sma)-1])
}

func (s *MeanReversion) classify(last, sma float64) backtest.Signal {
	switch {
	case last < sma*(1-s.threshold):
		return backtest.SignalBuy
	case last > sma*(1+s.threshold):
		return backtest.SignalSell
	default:
		return backtest.SignalNone
	}
}
