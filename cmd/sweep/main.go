package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"papersim/internal/config"
	"papersim/internal/data"
	"papersim/internal/logger"
	"papersim/internal/market"
	"papersim/internal/report"
	"papersim/internal/sweep"
)

func main() {
	var (
		cfgPath = flag.String("config", "", "config file (YAML); empty uses built-in defaults")
		mode    = flag.String("mode", "", "sweep mode override: close or onebar")
		jsonOut = flag.Bool("json", false, "print the best cell as JSON instead of a table")
	)
	flag.Parse()

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("loading config failed: %v", err)
	}
	if *mode != "" {
		cfg.Backtest.Mode = *mode
	}
	logger.SetLevel(cfg.App.LogLevel)

	grid := sweep.Grid{
		Mode:       cfg.Backtest.Mode,
		Symbol:     cfg.Data.Symbol,
		Timeframe:  cfg.Data.Timeframe,
		Bars:       cfg.Data.Bars,
		Seeds:      cfg.Sweep.Seeds,
		Windows:    cfg.Sweep.Windows,
		Thresholds: cfg.Sweep.Thresholds,
		Fees:       cfg.Sweep.Fees,
	}

	runner := sweep.Runner{
		Parallelism: cfg.Sweep.Parallelism,
		Load:        loader(cfg),
	}
	results, err := runner.Run(context.Background(), grid)
	if err != nil {
		log.Fatalf("sweep failed: %v", err)
	}

	for _, r := range results {
		s := r.Summary
		fmt.Printf("seed=%d window=%d threshold=%g fee=%g  trades=%d equity=%.4f pf=%s dd=%.2f%% ret=%.2f%%\n",
			r.Params.Seed, r.Params.Window, r.Params.Threshold, r.Params.Fee,
			s.Trades, s.FinalEquity, report.FormatPF(s.ProfitFactor), s.MaxDrawdown*100, s.ReturnPct)
		if cfg.Report.ResultsCSV != "" {
			if err := report.AppendCSV(cfg.Report.ResultsCSV, s); err != nil {
				logger.Warnf("appending results log failed: %v", err)
			}
		}
	}

	criteria := sweep.Criteria{
		MinTrades:   cfg.Sweep.MinTrades,
		MinPF:       cfg.Sweep.MinPF,
		MaxDrawdown: cfg.Sweep.MaxDrawdown,
	}
	best, qualified := sweep.SelectBest(results, criteria)
	if *jsonOut {
		raw, err := best.Summary.JSON()
		if err != nil {
			log.Fatalf("encoding best cell failed: %v", err)
		}
		fmt.Println(string(raw))
		return
	}
	if !qualified {
		fmt.Println("\nno cell met the criteria; best by raw score:")
	} else {
		fmt.Println("\nbest qualified cell:")
	}
	fmt.Printf("  seed=%d window=%d threshold=%g fee=%g\n",
		best.Params.Seed, best.Params.Window, best.Params.Threshold, best.Params.Fee)
	fmt.Print(best.Summary.Table())
}

func loader(cfg *config.Config) sweep.Loader {
	return func(ctx context.Context, p sweep.Params) ([]market.Candle, error) {
		src, err := data.NewSource(cfg.Data.Source, data.Config{Symbol: p.Symbol, Seed: p.Seed})
		if err != nil {
			return nil, err
		}
		return src.Load(ctx, p.Timeframe, p.Bars, cfg.Data.Start, cfg.Data.End)
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
