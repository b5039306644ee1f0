package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaxDrawdown(t *testing.T) {
	assert.Equal(t, 0.0, MaxDrawdown(nil))
	assert.Equal(t, 0.0, MaxDrawdown([]float64{100, 110, 120}))
	assert.InDelta(t, 0.25, MaxDrawdown([]float64{100, 120, 90, 130}), 1e-12)
	// Deepest trough counts even after recovery to new highs.
	assert.InDelta(t, 0.5, MaxDrawdown([]float64{100, 50, 200, 150}), 1e-12)
}

func TestMaxDrawdownFromSeededPeak(t *testing.T) {
	// A curve that starts below its seed is already in drawdown.
	assert.InDelta(t, 0.1, maxDrawdownFrom(100, []float64{90, 95}), 1e-12)
	assert.Equal(t, 0.0, maxDrawdownFrom(100, nil))
}
