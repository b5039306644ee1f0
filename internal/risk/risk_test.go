package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionSize(t *testing.T) {
	// Risking 1% of 10000 with a 2-point stop distance: 100/2 = 50 units.
	assert.InDelta(t, 50.0, PositionSize(10000, 0.01, 100, 98), 1e-9)

	// Capped by affordability: 1000/0.5 = 2000 units risked, but the
	// balance only buys 10.
	assert.InDelta(t, 10.0, PositionSize(1000, 0.01, 100, 99.5), 1e-9)

	assert.Zero(t, PositionSize(0, 0.01, 100, 98))
	assert.Zero(t, PositionSize(10000, 0, 100, 98))
	assert.Zero(t, PositionSize(10000, 0.01, 100, 100))
}

func TestStopLevels(t *testing.T) {
	lv, err := StopLevels(100, 0.02, 0.04)
	require.NoError(t, err)
	assert.InDelta(t, 98.0, lv.StopLoss, 1e-9)
	assert.InDelta(t, 104.0, lv.TakeProfit, 1e-9)

	lv, err = StopLevels(100, 0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 100*(1-DefaultStopLossPct), lv.StopLoss, 1e-9)
	assert.InDelta(t, 100*(1+DefaultTakeProfit), lv.TakeProfit, 1e-9)

	_, err = StopLevels(0, 0.02, 0.04)
	assert.ErrorIs(t, err, ErrInvalidLevels)
	_, err = StopLevels(100, 1.5, 0.04)
	assert.ErrorIs(t, err, ErrInvalidLevels)
}

func TestBreached(t *testing.T) {
	lv := Levels{StopLoss: 98, TakeProfit: 104}

	stop, take := lv.Breached(99, 103)
	assert.False(t, stop)
	assert.False(t, take)

	stop, take = lv.Breached(97, 103)
	assert.True(t, stop)
	assert.False(t, take)

	stop, take = lv.Breached(99, 105)
	assert.False(t, stop)
	assert.True(t, take)

	// Both levels inside the range: stop wins.
	stop, take = lv.Breached(97, 105)
	assert.True(t, stop)
	assert.False(t, take)
}
