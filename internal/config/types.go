package config

import "strings"

// Config is the root configuration for a backtest run.
type Config struct {
	App      AppConfig      `toml:"app"`
	Data     DataConfig     `toml:"data"`
	Backtest BacktestConfig `toml:"backtest"`
	Strategy StrategyConfig `toml:"strategy"`
	Risk     RiskConfig     `toml:"risk"`
	Exchange ExchangeConfig `toml:"exchange"`
	Report   ReportConfig   `toml:"report"`
	Sweep    SweepConfig    `toml:"sweep"`
}

type AppConfig struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`
	HTTPAddr string `toml:"http_addr"`
	LogPath  string `toml:"log_path"`
}

type DataConfig struct {
	Source    string `toml:"source"` // synthetic | historical | binance
	Symbol    string `toml:"symbol"`
	Seed      int64  `toml:"seed"`
	Bars      int    `toml:"bars"`
	Timeframe string `toml:"timeframe"`
	Start     string `toml:"start"`
	End       string `toml:"end"`
	CSVPath   string `toml:"csv_path"` // when set, candles are cached here
}

type BacktestConfig struct {
	Mode           string  `toml:"mode"` // close | onebar
	Fee            float64 `toml:"fee"`
	InitialBalance float64 `toml:"initial_balance"`
	OrderQty       float64 `toml:"order_qty"`
}

type StrategyConfig struct {
	Name       string  `toml:"name"` // mean_reversion | rsi_reversal
	Window     int     `toml:"window"`
	Threshold  float64 `toml:"threshold"`
	RSIPeriod  int     `toml:"rsi_period"`
	Oversold   float64 `toml:"oversold"`
	Overbought float64 `toml:"overbought"`
}

// RiskConfig switches close mode from fixed-quantity orders to risk-based
// sizing with stop/take-profit brackets.
type RiskConfig struct {
	Enabled       bool    `toml:"enabled"`
	RiskPerTrade  float64 `toml:"risk_per_trade"`
	StopLossPct   float64 `toml:"stop_loss_pct"`
	TakeProfitPct float64 `toml:"take_profit_pct"`
}

type ExchangeConfig struct {
	TickSize    float64 `toml:"tick_size"`
	StepSize    float64 `toml:"step_size"`
	MinNotional float64 `toml:"min_notional"`
}

type ReportConfig struct {
	ResultsCSV string `toml:"results_csv"`
	ChartDir   string `toml:"chart_dir"`
}

type SweepConfig struct {
	Parallelism int       `toml:"parallelism"`
	Seeds       []int64   `toml:"seeds"`
	Windows     []int     `toml:"windows"`
	Thresholds  []float64 `toml:"thresholds"`
	Fees        []float64 `toml:"fees"`
	MinTrades   int       `toml:"min_trades"`
	MinPF       float64   `toml:"min_pf"`
	MaxDrawdown float64   `toml:"max_dd"`
}

// keySet tracks which field paths the config file set explicitly, so a
// deliberate zero (fee = 0) is not clobbered by a default.
type keySet map[string]struct{}

func (k keySet) mark(path string) {
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return
	}
	k[path] = struct{}{}
}

func (k keySet) isSet(path string) bool {
	if len(k) == 0 {
		return false
	}
	_, ok := k[strings.ToLower(strings.TrimSpace(path))]
	return ok
}
