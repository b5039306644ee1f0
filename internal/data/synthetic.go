package data

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"math"
	"math/rand"
	"strconv"

	"papersim/internal/backtest"
	"papersim/internal/market"
)

const (
	syntheticBasePrice   = 100.0
	syntheticVolatility  = 0.02
	syntheticBaseVolume  = 1000.0
	syntheticEpochStart  = 1609459200 // 2021-01-01T00:00:00Z
	syntheticDefaultBars = 500
)

// Synthetic generates a deterministic random-walk OHLCV series. Every Load
// builds its own rand.Rand from the configured seed (and, in range mode,
// from the requested window), so results never depend on process-wide
// random state or call order.
type Synthetic struct {
	Seed   int64
	Symbol string
}

func NewSynthetic(seed int64, symbol string) *Synthetic {
	if symbol == "" {
		symbol = "BTCUSDT"
	}
	return &Synthetic{Seed: seed, Symbol: symbol}
}

func (s *Synthetic) Name() string { return "synthetic" }

func (s *Synthetic) Load(_ context.Context, tf string, bars int, start, end string) ([]market.Candle, error) {
	timeframe, err := backtest.ParseTimeframe(tf)
	if err != nil {
		return nil, err
	}
	tfSec := timeframe.Seconds()

	if start != "" && end != "" {
		startTS, err := ToTimestampUTC(start)
		if err != nil {
			return nil, err
		}
		endTS, err := ToTimestampUTC(end)
		if err != nil {
			return nil, err
		}
		if endTS < startTS {
			return nil, fmt.Errorf("end %s before start %s", end, start)
		}
		n := int((endTS-startTS)/tfSec) + 1
		rng := rand.New(rand.NewSource(s.rangeSeed(tf, startTS, endTS)))
		return s.walk(rng, startTS, n, tfSec), nil
	}

	if bars <= 0 {
		bars = syntheticDefaultBars
	}
	rng := rand.New(rand.NewSource(s.Seed))
	return s.walk(rng, syntheticEpochStart, bars, tfSec), nil
}

// rangeSeed derives a deterministic per-window seed so the same date range
// always produces the same bars regardless of other queries.
func (s *Synthetic) rangeSeed(tf string, startTS, endTS int64) int64 {
	key := fmt.Sprintf("%s-%s-%d-%d-%d", s.Symbol, tf, startTS, endTS, s.Seed)
	sum := md5.Sum([]byte(key))
	v, _ := strconv.ParseUint(hex.EncodeToString(sum[:])[:8], 16, 64)
	return int64(v)
}

func (s *Synthetic) walk(rng *rand.Rand, startTS int64, n int, tfSec int64) []market.Candle {
	out := make([]market.Candle, 0, n)
	price := syntheticBasePrice
	for i := 0; i < n; i++ {
		change := rng.NormFloat64() * syntheticVolatility
		// Mean reversion once the walk strays more than 10% from base.
		if math.Abs(price-syntheticBasePrice) > syntheticBasePrice*0.1 {
			change *= -0.5
		}
		next := price * (1 + change)
		if next < syntheticBasePrice*0.5 {
			next = syntheticBasePrice * 0.5
		}

		open, closeP := price, next
		intraday := math.Abs(change) * 0.5
		high := math.Max(open, closeP) * (1 + intraday)
		low := math.Min(open, closeP) * (1 - intraday)
		volume := syntheticBaseVolume * (1 + math.Abs(change)*2) * (0.5 + rng.Float64())

		out = append(out, market.Candle{
			Timestamp: startTS + int64(i)*tfSec,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closeP,
			Volume:    volume,
		})
		price = next
	}
	return out
}
