package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"papersim/internal/backtest"
	"papersim/internal/market"
)

func barsAt(closes ...float64) []market.Candle {
	bars := make([]market.Candle, len(closes))
	for i, c := range closes {
		bars[i] = market.Candle{
			Timestamp: int64(1704067200 + i*3600),
			Open:      c, High: c, Low: c, Close: c,
			Volume: 1,
		}
	}
	return bars
}

func TestMeanReversionOnBarBands(t *testing.T) {
	s, err := NewMeanReversion(3, 0.005, "1h")
	require.NoError(t, err)

	// Window not yet full.
	bars := barsAt(100, 100, 95)
	assert.Equal(t, backtest.SignalNone, s.OnBar(bars[0]))
	assert.Equal(t, backtest.SignalNone, s.OnBar(bars[1]))

	// sma 98.33, lower band 97.84, close 95 sits below it.
	assert.Equal(t, backtest.SignalBuy, s.OnBar(bars[2]))

	s2, err := NewMeanReversion(3, 0.005, "1h")
	require.NoError(t, err)
	up := barsAt(100, 100, 105)
	s2.OnBar(up[0])
	s2.OnBar(up[1])
	// sma 101.67, upper band 102.17, close 105 sits above it.
	assert.Equal(t, backtest.SignalSell, s2.OnBar(up[2]))

	s3, err := NewMeanReversion(3, 0.005, "1h")
	require.NoError(t, err)
	flat := barsAt(100, 100, 100)
	s3.OnBar(flat[0])
	s3.OnBar(flat[1])
	assert.Equal(t, backtest.SignalNone, s3.OnBar(flat[2]))
}

func TestMeanReversionRollingWindow(t *testing.T) {
	s, err := NewMeanReversion(3, 0.005, "1h")
	require.NoError(t, err)

	// Old closes fall out of the window: after 200,200,100,100,100 the
	// window is the last three closes, so the final bar is neutral.
	bars := barsAt(200, 200, 100, 100, 100)
	var last backtest.Signal
	for _, bar := range bars {
		last = s.OnBar(bar)
	}
	assert.Equal(t, backtest.SignalNone, last)
}

func TestMeanReversionHistorySignal(t *testing.T) {
	s, err := NewMeanReversion(3, 0.005, "1h")
	require.NoError(t, err)

	assert.Equal(t, backtest.SignalNone, s.Signal(barsAt(100, 100)))

	// mean 98, lower band 97.51, last 94 below it.
	assert.Equal(t, backtest.SignalBuy, s.Signal(barsAt(100, 100, 94)))

	// mean 102, upper band 102.51, last 106 above it.
	assert.Equal(t, backtest.SignalSell, s.Signal(barsAt(100, 100, 106)))

	assert.Equal(t, backtest.SignalNone, s.Signal(barsAt(100, 100, 100)))
}

func TestMeanReversionDefaults(t *testing.T) {
	s, err := NewMeanReversion(0, 0, "15m")
	require.NoError(t, err)
	assert.Equal(t, "mean_reversion_20_0.005", s.Name())

	_, err = NewMeanReversion(3, 0.005, "7m")
	assert.Error(t, err)
}

func TestMeanReversionFeedGapResetsWindow(t *testing.T) {
	s, err := NewMeanReversion(3, 0.005, "1h")
	require.NoError(t, err)

	bars := barsAt(100, 100, 95)
	s.OnBar(bars[0])
	s.OnBar(bars[1])

	// Two missing candles: the window restarts, so no signal even though
	// the close would otherwise pierce the lower band.
	gapped := bars[2]
	gapped.Timestamp = bars[1].Timestamp + 3*3600
	assert.Equal(t, backtest.SignalNone, s.OnBar(gapped))
}
