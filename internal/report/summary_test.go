package report

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"papersim/internal/backtest"
)

func TestFromCloseCarriesMetrics(t *testing.T) {
	m := backtest.CloseMetrics{
		Trades:         4,
		GrossPnL:       120.5,
		TotalFees:      2.5,
		NetPnL:         118.0,
		WinRate:        0.5,
		MaxDrawdown:    0.08,
		InitialBalance: 10000,
		FinalEquity:    10118,
		ReturnPct:      1.18,
	}
	s := FromClose(Meta{Strategy: "mean_reversion_20_0.005", Symbol: "BTCUSDT", Bars: 500, Fee: 0.001, Seed: 42}, m)

	assert.Equal(t, "close", s.Mode)
	assert.Equal(t, 4, s.Trades)
	assert.Equal(t, 118.0, s.NetPnL)
	assert.Equal(t, 10118.0, s.FinalEquity)
}

func TestFromOnebarReturnPct(t *testing.T) {
	m := backtest.OnebarMetrics{Trades: 3, FinalEquity: 1050, ProfitFactor: 2.5, MaxDrawdown: 0.02}
	s := FromOnebar(Meta{Strategy: "mean_reversion_20_0.005"}, m)

	assert.Equal(t, "onebar", s.Mode)
	assert.InDelta(t, 5.0, s.ReturnPct, 1e-9)
	assert.Equal(t, backtest.OnebarSeedEquity, s.InitialBalance)
}

func TestFormatPF(t *testing.T) {
	assert.Equal(t, "inf", FormatPF(math.Inf(1)))
	assert.Equal(t, "1.5000", FormatPF(1.5))
	assert.Equal(t, "0.0000", FormatPF(0))
}

func TestSummaryJSONInfinitePF(t *testing.T) {
	s := FromOnebar(Meta{Strategy: "x"}, backtest.OnebarMetrics{
		Trades: 2, FinalEquity: 1016, ProfitFactor: math.Inf(1), MaxDrawdown: 0,
	})

	raw, err := s.JSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "inf", decoded["pf"])
	assert.Equal(t, "onebar", decoded["mode"])
}

func TestTableModes(t *testing.T) {
	closeSum := FromClose(Meta{Strategy: "s", Symbol: "BTCUSDT", Bars: 10}, backtest.CloseMetrics{WinRate: 0.75})
	out := closeSum.Table()
	assert.Contains(t, out, "win_rate")
	assert.Contains(t, out, "75.00%")
	assert.NotContains(t, out, "profit_factor")

	onebarSum := FromOnebar(Meta{Strategy: "s", Symbol: "BTCUSDT", Bars: 10}, backtest.OnebarMetrics{ProfitFactor: math.Inf(1)})
	out = onebarSum.Table()
	assert.Contains(t, out, "profit_factor")
	assert.Contains(t, out, "inf")
	assert.NotContains(t, out, "win_rate")
}
