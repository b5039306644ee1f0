package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"papersim/internal/app"
	"papersim/internal/config"
	"papersim/internal/logger"
	"papersim/internal/report"
)

func main() {
	var (
		cfgPath   = flag.String("config", "", "config file (YAML); empty uses built-in defaults")
		mode      = flag.String("mode", "", "backtest mode override: close or onebar")
		source    = flag.String("source", "", "data source override: synthetic, historical or binance")
		timeframe = flag.String("timeframe", "", "timeframe override (1m/5m/15m/1h/4h/1d)")
		seed      = flag.Int64("seed", 0, "data seed override")
		bars      = flag.Int("bars", 0, "bar count override")
		fee       = flag.Float64("fee", -1, "taker fee override")
		window    = flag.Int("window", 0, "strategy window override")
		threshold = flag.Float64("threshold", 0, "strategy threshold override")
		start     = flag.String("start", "", "start date (UTC), e.g. 2024-01-01")
		end       = flag.String("end", "", "end date (UTC), inclusive for date-only values")
		chartPath = flag.String("chart", "", "write an equity chart HTML to this path")
		jsonOut   = flag.Bool("json", false, "print the summary as JSON instead of a table")
	)
	flag.Parse()

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("loading config failed: %v", err)
	}
	if *mode != "" {
		cfg.Backtest.Mode = *mode
	}
	if *source != "" {
		cfg.Data.Source = *source
	}
	if *timeframe != "" {
		cfg.Data.Timeframe = *timeframe
	}
	if *seed != 0 {
		cfg.Data.Seed = *seed
	}
	if *bars > 0 {
		cfg.Data.Bars = *bars
	}
	if *fee >= 0 {
		cfg.Backtest.Fee = *fee
	}
	if *window > 0 {
		cfg.Strategy.Window = *window
	}
	if *threshold > 0 {
		cfg.Strategy.Threshold = *threshold
	}
	if *start != "" {
		cfg.Data.Start = *start
	}
	if *end != "" {
		cfg.Data.End = *end
	}

	logFile, err := setupLogOutput(cfg.App.LogPath)
	if err != nil {
		log.Fatalf("initializing log file failed: %v", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}
	logger.SetLevel(cfg.App.LogLevel)

	res, err := app.Execute(context.Background(), cfg)
	if err != nil {
		log.Fatalf("backtest failed: %v", err)
	}

	if *jsonOut {
		raw, err := res.Summary.JSON()
		if err != nil {
			log.Fatalf("encoding summary failed: %v", err)
		}
		fmt.Println(string(raw))
	} else {
		fmt.Print(res.Summary.Table())
	}

	if cfg.Report.ResultsCSV != "" {
		if err := report.AppendCSV(cfg.Report.ResultsCSV, res.Summary); err != nil {
			logger.Warnf("appending results log failed: %v", err)
		}
	}
	if *chartPath != "" {
		input := report.ChartInput{
			Title:   fmt.Sprintf("%s %s %s", cfg.Data.Symbol, cfg.Data.Timeframe, res.Summary.Strategy),
			Candles: res.Candles,
			Equity:  res.Equity,
		}
		if err := report.SaveEquityPage(*chartPath, input); err != nil {
			log.Fatalf("writing chart failed: %v", err)
		}
		logger.Infof("chart written to %s", *chartPath)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("PAPERSIM_CONFIG"); env != "" {
			path = env
		}
	}
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func setupLogOutput(path string) (*os.File, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, nil
	}
	dir := filepath.Dir(trimmed)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	file, err := os.OpenFile(trimmed, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	mw := io.MultiWriter(os.Stdout, file)
	log.SetOutput(mw)
	logger.SetOutput(mw)
	return file, nil
}
