package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"papersim/internal/backtest"
)

func TestRSIReversalWarmup(t *testing.T) {
	s := NewRSIReversal(3, 30, 70)
	for _, bar := range barsAt(100, 101, 102) {
		assert.Equal(t, backtest.SignalNone, s.OnBar(bar))
	}
}

func TestRSIReversalExtremes(t *testing.T) {
	// A pure decline drives RSI to 0.
	s := NewRSIReversal(3, 30, 70)
	bars := barsAt(100, 99, 98, 97, 96)
	var last backtest.Signal
	for _, bar := range bars {
		last = s.OnBar(bar)
	}
	assert.Equal(t, backtest.SignalBuy, last)

	// A pure rise drives RSI to 100.
	s = NewRSIReversal(3, 30, 70)
	for _, bar := range barsAt(100, 101, 102, 103, 104) {
		last = s.OnBar(bar)
	}
	assert.Equal(t, backtest.SignalSell, last)
}

func TestRSIReversalDefaults(t *testing.T) {
	s := NewRSIReversal(0, 0, 0)
	assert.Equal(t, "rsi_reversal_14", s.Name())
}
