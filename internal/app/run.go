// Package app composes a full backtest run out of the config: data source,
// strategy, engine, summary. The CLI and the HTTP server both go through it.
package app

import (
	"context"
	"fmt"

	"papersim/internal/backtest"
	"papersim/internal/config"
	"papersim/internal/data"
	"papersim/internal/logger"
	"papersim/internal/market"
	"papersim/internal/report"
	"papersim/internal/strategy"
)

// RunResult bundles everything one backtest produced.
type RunResult struct {
	Summary report.Summary
	Equity  []float64
	Candles []market.Candle
}

// Execute runs one backtest as described by cfg. It builds every component
// fresh, so repeated calls never share state.
func Execute(ctx context.Context, cfg *config.Config) (*RunResult, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}

	bars, err := loadCandles(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("data source %q returned no candles", cfg.Data.Source)
	}
	logger.Infof("loaded %d candles for %s %s from %s", len(bars), cfg.Data.Symbol, cfg.Data.Timeframe, cfg.Data.Source)

	meta := report.Meta{
		Symbol:    cfg.Data.Symbol,
		Bars:      len(bars),
		Fee:       cfg.Backtest.Fee,
		Threshold: cfg.Strategy.Threshold,
		Window:    cfg.Strategy.Window,
		Seed:      cfg.Data.Seed,
	}

	switch cfg.Backtest.Mode {
	case "close":
		strat, err := buildBarStrategy(cfg)
		if err != nil {
			return nil, err
		}
		meta.Strategy = strat.Name()
		engine := backtest.CloseEngine{
			Fee:            cfg.Backtest.Fee,
			InitialBalance: cfg.Backtest.InitialBalance,
			OrderQty:       cfg.Backtest.OrderQty,
			TickSize:       cfg.Exchange.TickSize,
			StepSize:       cfg.Exchange.StepSize,
			MinNotional:    cfg.Exchange.MinNotional,
		}
		if cfg.Risk.Enabled {
			engine.Risk = backtest.RiskParams{
				PerTrade:      cfg.Risk.RiskPerTrade,
				StopLossPct:   cfg.Risk.StopLossPct,
				TakeProfitPct: cfg.Risk.TakeProfitPct,
			}
		}
		metrics, equity := engine.Run(bars, strat)
		return &RunResult{Summary: report.FromClose(meta, metrics), Equity: equity, Candles: bars}, nil

	case "onebar":
		strat, err := buildHistoryStrategy(cfg)
		if err != nil {
			return nil, err
		}
		meta.Strategy = strat.Name()
		metrics, equity := backtest.OnebarEngine{Fee: cfg.Backtest.Fee}.Run(bars, strat)
		return &RunResult{Summary: report.FromOnebar(meta, metrics), Equity: equity, Candles: bars}, nil

	default:
		return nil, fmt.Errorf("unknown backtest mode: %q", cfg.Backtest.Mode)
	}
}

// loadCandles reads from the configured source, with an optional CSV cache:
// a hit skips the source entirely, a miss loads and fills the cache.
func loadCandles(ctx context.Context, cfg *config.Config) ([]market.Candle, error) {
	if cfg.Data.CSVPath != "" {
		if bars, err := data.LoadCSV(cfg.Data.CSVPath); err == nil && len(bars) > 0 {
			logger.Debugf("using cached candles from %s", cfg.Data.CSVPath)
			return bars, nil
		}
	}

	src, err := data.NewSource(cfg.Data.Source, data.Config{Symbol: cfg.Data.Symbol, Seed: cfg.Data.Seed})
	if err != nil {
		return nil, err
	}
	bars, err := src.Load(ctx, cfg.Data.Timeframe, cfg.Data.Bars, cfg.Data.Start, cfg.Data.End)
	if err != nil {
		return nil, fmt.Errorf("load from %s: %w", src.Name(), err)
	}

	if cfg.Data.CSVPath != "" && len(bars) > 0 {
		if err := data.SaveCSV(cfg.Data.CSVPath, bars); err != nil {
			logger.Warnf("caching candles to %s failed: %v", cfg.Data.CSVPath, err)
		}
	}
	return bars, nil
}

func buildBarStrategy(cfg *config.Config) (backtest.BarStrategy, error) {
	switch cfg.Strategy.Name {
	case "mean_reversion":
		return strategy.NewMeanReversion(cfg.Strategy.Window, cfg.Strategy.Threshold, cfg.Data.Timeframe)
	case "rsi_reversal":
		return strategy.NewRSIReversal(cfg.Strategy.RSIPeriod, cfg.Strategy.Oversold, cfg.Strategy.Overbought), nil
	default:
		return nil, fmt.Errorf("unknown strategy: %q", cfg.Strategy.Name)
	}
}

func buildHistoryStrategy(cfg *config.Config) (backtest.HistoryStrategy, error) {
	switch cfg.Strategy.Name {
	case "mean_reversion":
		return strategy.NewMeanReversion(cfg.Strategy.Window, cfg.Strategy.Threshold, cfg.Data.Timeframe)
	default:
		return nil, fmt.Errorf("strategy %q does not support onebar mode", cfg.Strategy.Name)
	}
}
