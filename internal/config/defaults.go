package config

import (
	"papersim/internal/exchange"
	"papersim/internal/risk"
	"papersim/internal/strategy"
)

// fieldDefault is one defaulting rule: apply fires only when the config
// file left the key unset and need agrees the value looks empty.
type fieldDefault struct {
	key   string
	need  func(c *Config) bool
	apply func(c *Config)
}

var fieldDefaults = []fieldDefault{
	{"app.env", func(c *Config) bool { return c.App.Env == "" }, func(c *Config) { c.App.Env = "dev" }},
	{"app.log_level", func(c *Config) bool { return c.App.LogLevel == "" }, func(c *Config) { c.App.LogLevel = "info" }},
	{"app.http_addr", func(c *Config) bool { return c.App.HTTPAddr == "" }, func(c *Config) { c.App.HTTPAddr = ":8181" }},

	{"data.source", func(c *Config) bool { return c.Data.Source == "" }, func(c *Config) { c.Data.Source = "synthetic" }},
	{"data.symbol", func(c *Config) bool { return c.Data.Symbol == "" }, func(c *Config) { c.Data.Symbol = "BTCUSDT" }},
	{"data.seed", func(c *Config) bool { return c.Data.Seed == 0 }, func(c *Config) { c.Data.Seed = 42 }},
	{"data.bars", func(c *Config) bool { return c.Data.Bars == 0 }, func(c *Config) { c.Data.Bars = 500 }},
	{"data.timeframe", func(c *Config) bool { return c.Data.Timeframe == "" }, func(c *Config) { c.Data.Timeframe = "1h" }},

	{"backtest.mode", func(c *Config) bool { return c.Backtest.Mode == "" }, func(c *Config) { c.Backtest.Mode = "close" }},
	{"backtest.fee", func(c *Config) bool { return c.Backtest.Fee == 0 }, func(c *Config) { c.Backtest.Fee = 0.001 }},
	{"backtest.initial_balance", func(c *Config) bool { return c.Backtest.InitialBalance == 0 }, func(c *Config) { c.Backtest.InitialBalance = exchange.DefaultInitialBalance }},
	{"backtest.order_qty", func(c *Config) bool { return c.Backtest.OrderQty == 0 }, func(c *Config) { c.Backtest.OrderQty = 1.0 }},

	{"strategy.name", func(c *Config) bool { return c.Strategy.Name == "" }, func(c *Config) { c.Strategy.Name = "mean_reversion" }},
	{"strategy.window", func(c *Config) bool { return c.Strategy.Window == 0 }, func(c *Config) { c.Strategy.Window = strategy.DefaultWindow }},
	{"strategy.threshold", func(c *Config) bool { return c.Strategy.Threshold == 0 }, func(c *Config) { c.Strategy.Threshold = strategy.DefaultThreshold }},
	{"strategy.rsi_period", func(c *Config) bool { return c.Strategy.RSIPeriod == 0 }, func(c *Config) { c.Strategy.RSIPeriod = strategy.DefaultRSIPeriod }},
	{"strategy.oversold", func(c *Config) bool { return c.Strategy.Oversold == 0 }, func(c *Config) { c.Strategy.Oversold = strategy.DefaultRSIOversold }},
	{"strategy.overbought", func(c *Config) bool { return c.Strategy.Overbought == 0 }, func(c *Config) { c.Strategy.Overbought = strategy.DefaultRSIOverbought }},

	{"risk.risk_per_trade", func(c *Config) bool { return c.Risk.RiskPerTrade == 0 }, func(c *Config) { c.Risk.RiskPerTrade = risk.DefaultRiskPerTrade }},
	{"risk.stop_loss_pct", func(c *Config) bool { return c.Risk.StopLossPct == 0 }, func(c *Config) { c.Risk.StopLossPct = risk.DefaultStopLossPct }},
	{"risk.take_profit_pct", func(c *Config) bool { return c.Risk.TakeProfitPct == 0 }, func(c *Config) { c.Risk.TakeProfitPct = risk.DefaultTakeProfit }},

	{"exchange.tick_size", func(c *Config) bool { return c.Exchange.TickSize == 0 }, func(c *Config) { c.Exchange.TickSize = exchange.DefaultTickSize }},
	{"exchange.step_size", func(c *Config) bool { return c.Exchange.StepSize == 0 }, func(c *Config) { c.Exchange.StepSize = exchange.DefaultStepSize }},
	{"exchange.min_notional", func(c *Config) bool { return c.Exchange.MinNotional == 0 }, func(c *Config) { c.Exchange.MinNotional = exchange.DefaultMinNotional }},

	{"report.results_csv", func(c *Config) bool { return c.Report.ResultsCSV == "" }, func(c *Config) { c.Report.ResultsCSV = "results/runs.csv" }},
	{"report.chart_dir", func(c *Config) bool { return c.Report.ChartDir == "" }, func(c *Config) { c.Report.ChartDir = "results/charts" }},

	{"sweep.min_trades", func(c *Config) bool { return c.Sweep.MinTrades == 0 }, func(c *Config) { c.Sweep.MinTrades = 50 }},
	{"sweep.min_pf", func(c *Config) bool { return c.Sweep.MinPF == 0 }, func(c *Config) { c.Sweep.MinPF = 1.3 }},
	{"sweep.max_dd", func(c *Config) bool { return c.Sweep.MaxDrawdown == 0 }, func(c *Config) { c.Sweep.MaxDrawdown = 0.25 }},
}

func (c *Config) applyDefaults(set keySet) {
	for _, fd := range fieldDefaults {
		if set.isSet(fd.key) {
			continue
		}
		if fd.need(c) {
			fd.apply(c)
		}
	}
}
