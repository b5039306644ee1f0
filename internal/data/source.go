package data

import (
	"context"
	"fmt"
	"strings"

	"papersim/internal/market"
)

// Source loads an ascending OHLCV series. bars caps the series length when
// no date range is given; start/end are date strings ("2024-01-02" or
// "2024-01-02T15:04") interpreted as UTC. Implementations decide how much
// of the range they can honor; gap and staleness checks are a strategy
// concern, not the loader's.
type Source interface {
	Load(ctx context.Context, tf string, bars int, start, end string) ([]market.Candle, error)
	Name() string
}

// Config carries the knobs shared by all source kinds.
type Config struct {
	Symbol string
	Seed   int64
}

// NewSource builds a source by kind. An unknown kind is a configuration
// error and fails fast before any replay starts.
func NewSource(kind string, cfg Config) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "synthetic":
		return NewSynthetic(cfg.Seed, cfg.Symbol), nil
	case "historical":
		return NewHistorical(cfg.Symbol, cfg.Seed), nil
	case "binance":
		return NewBinance(cfg.Symbol), nil
	default:
		return nil, fmt.Errorf("unknown data source kind: %q (want synthetic, historical or binance)", kind)
	}
}
