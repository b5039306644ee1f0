package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
data:
  symbol: ETHUSDT
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ETHUSDT", cfg.Data.Symbol)
	assert.Equal(t, "synthetic", cfg.Data.Source)
	assert.Equal(t, 500, cfg.Data.Bars)
	assert.Equal(t, int64(42), cfg.Data.Seed)
	assert.Equal(t, "close", cfg.Backtest.Mode)
	assert.Equal(t, 0.001, cfg.Backtest.Fee)
	assert.Equal(t, 10000.0, cfg.Backtest.InitialBalance)
	assert.Equal(t, "mean_reversion", cfg.Strategy.Name)
	assert.Equal(t, 20, cfg.Strategy.Window)
	assert.Equal(t, "info", cfg.App.LogLevel)
}

func TestLoadKeepsExplicitZeroFee(t *testing.T) {
	path := writeConfig(t, `
backtest:
  fee: 0
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Zero(t, cfg.Backtest.Fee)
}

func TestLoadValidation(t *testing.T) {
	cases := map[string]string{
		"bad mode":      "backtest:\n  mode: martingale\n",
		"bad source":    "data:\n  source: oracle\n",
		"bad timeframe": "data:\n  timeframe: 7m\n",
		"bad fee":       "backtest:\n  fee: 1.5\n",
		"bad window":    "strategy:\n  window: -1\n",
		"bad rsi bands": "strategy:\n  oversold: 80\n  overbought: 20\n",
		"bad log level": "app:\n  log_level: chatty\n",
		"bad risk":      "risk:\n  enabled: true\n  risk_per_trade: 2\n",
		"bad notional":  "exchange:\n  min_notional: -1\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
	_, err = Load("")
	assert.Error(t, err)
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, validate(cfg))
	assert.Equal(t, "close", cfg.Backtest.Mode)
	assert.Equal(t, "results/runs.csv", cfg.Report.ResultsCSV)
}

func TestSweepDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
sweep:
  seeds: [1, 2, 3]
  thresholds: [0.002, 0.005]
`))
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, cfg.Sweep.Seeds)
	assert.Equal(t, 50, cfg.Sweep.MinTrades)
	assert.Equal(t, 1.3, cfg.Sweep.MinPF)
	assert.Equal(t, 0.25, cfg.Sweep.MaxDrawdown)
}
