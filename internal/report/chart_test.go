package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"papersim/internal/market"
)

func testCandles(n int) []market.Candle {
	bars := make([]market.Candle, n)
	for i := range bars {
		price := 100 + float64(i)
		bars[i] = market.Candle{
			Timestamp: int64(1704067200 + i*3600),
			Open:      price, High: price + 1, Low: price - 1, Close: price + 0.5,
			Volume: 10,
		}
	}
	return bars
}

func TestRenderEquityPage(t *testing.T) {
	var buf bytes.Buffer
	err := RenderEquityPage(&buf, ChartInput{
		Title:   "BTCUSDT 1h mean_reversion",
		Candles: testCandles(5),
		Equity:  []float64{10000, 10010, 10005, 10020, 10030},
	})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "BTCUSDT 1h mean_reversion")
	assert.Contains(t, html, "Equity")
	assert.Contains(t, html, "echarts")
}

func TestRenderEquityPageNoEquity(t *testing.T) {
	err := RenderEquityPage(&bytes.Buffer{}, ChartInput{Title: "x"})
	assert.Error(t, err)
}

func TestSaveEquityPage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts", "run.html")
	err := SaveEquityPage(path, ChartInput{
		Title:  "equity only",
		Equity: []float64{1000, 1008},
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
}
