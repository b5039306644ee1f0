package strategy

import (
	"fmt"

	talib "github.com/markcheno/go-talib"

	"papersim/internal/backtest"
	"papersim/internal/market"
)

const (
	DefaultRSIPeriod     = 14
	DefaultRSIOversold   = 30.0
	DefaultRSIOverbought = 70.0
)

// RSIReversal buys oversold and sells overbought readings. Close mode only.
type RSIReversal struct {
	period     int
	oversold   float64
	overbought float64

	closes []float64
}

func NewRSIReversal(period int, oversold, overbought float64) *RSIReversal {
	if period <= 0 {
		period = DefaultRSIPeriod
	}
	if oversold <= 0 {
		oversold = DefaultRSIOversold
	}
	if overbought <= 0 {
		overbought = DefaultRSIOverbought
	}
	return &RSIReversal{period: period, oversold: oversold, overbought: overbought}
}

func (s *RSIReversal) Name() string {
	return fmt.Sprintf("rsi_reversal_%d", s.period)
}

// OnBar implements backtest.BarStrategy.
func (s *RSIReversal) OnBar(bar market.Candle) backtest.Signal {
	s.closes = append(s.closes, bar.Close)
	// talib needs period+1 points; keep a little slack and a bounded buffer.
	if limit := s.period * 4; len(s.closes) > limit {
		s.closes = s.closes[len(s.closes)-limit:]
	}
	if len(s.closes) <= s.period {
		return backtest.SignalNone
	}

	rsi := talib.Rsi(s.closes, s.period)
	switch last := rsi[len(rsi)-1]; {
	case last < s.oversold:
		return backtest.SignalBuy
	case last > s.overbought:
		return backtest.SignalSell
	default:
		return backtest.SignalNone
	}
}
