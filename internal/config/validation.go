package config

import (
	"fmt"
	"strings"

	"papersim/internal/backtest"
)

func validate(c *Config) error {
	if err := c.App.validate(); err != nil {
		return err
	}
	if err := c.Data.validate(); err != nil {
		return err
	}
	if err := c.Backtest.validate(); err != nil {
		return err
	}
	if err := c.Strategy.validate(); err != nil {
		return err
	}
	if err := c.Risk.validate(); err != nil {
		return err
	}
	if err := c.Exchange.validate(); err != nil {
		return err
	}
	return nil
}

func (a *AppConfig) validate() error {
	switch strings.ToLower(a.LogLevel) {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("app.log_level must be debug, info, warn or error")
	}
}

func (d *DataConfig) validate() error {
	switch strings.ToLower(d.Source) {
	case "synthetic", "historical", "binance":
	default:
		return fmt.Errorf("data.source must be synthetic, historical or binance")
	}
	if d.Bars < 0 {
		return fmt.Errorf("data.bars must be >= 0")
	}
	if _, err := backtest.ParseTimeframe(d.Timeframe); err != nil {
		return fmt.Errorf("data.timeframe: %w", err)
	}
	return nil
}

func (b *BacktestConfig) validate() error {
	switch b.Mode {
	case "close", "onebar":
	default:
		return fmt.Errorf("backtest.mode must be close or onebar")
	}
	if b.Fee < 0 || b.Fee >= 1 {
		return fmt.Errorf("backtest.fee must be in [0,1)")
	}
	if b.InitialBalance <= 0 {
		return fmt.Errorf("backtest.initial_balance must be > 0")
	}
	if b.OrderQty <= 0 {
		return fmt.Errorf("backtest.order_qty must be > 0")
	}
	return nil
}

func (s *StrategyConfig) validate() error {
	switch s.Name {
	case "mean_reversion", "rsi_reversal":
	default:
		return fmt.Errorf("strategy.name must be mean_reversion or rsi_reversal")
	}
	if s.Window <= 0 {
		return fmt.Errorf("strategy.window must be > 0")
	}
	if s.Threshold <= 0 || s.Threshold >= 1 {
		return fmt.Errorf("strategy.threshold must be in (0,1)")
	}
	if s.RSIPeriod <= 0 {
		return fmt.Errorf("strategy.rsi_period must be > 0")
	}
	if s.Oversold >= s.Overbought {
		return fmt.Errorf("strategy.oversold must be below strategy.overbought")
	}
	return nil
}

func (r *RiskConfig) validate() error {
	if !r.Enabled {
		return nil
	}
	if r.RiskPerTrade <= 0 || r.RiskPerTrade >= 1 {
		return fmt.Errorf("risk.risk_per_trade must be in (0,1)")
	}
	if r.StopLossPct <= 0 || r.StopLossPct >= 1 {
		return fmt.Errorf("risk.stop_loss_pct must be in (0,1)")
	}
	if r.TakeProfitPct <= 0 {
		return fmt.Errorf("risk.take_profit_pct must be > 0")
	}
	return nil
}

func (e *ExchangeConfig) validate() error {
	if e.TickSize <= 0 || e.StepSize <= 0 {
		return fmt.Errorf("exchange.tick_size and exchange.step_size must be > 0")
	}
	if e.MinNotional < 0 {
		return fmt.Errorf("exchange.min_notional must be >= 0")
	}
	return nil
}
