package data

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/adshao/go-binance/v2"

	"papersim/internal/backtest"
	"papersim/internal/logger"
	"papersim/internal/market"
)

const binancePageLimit = 1000

// Binance loads spot klines through the go-binance SDK. It is a live
// collaborator for fetching real market data; backtests themselves never
// touch the network.
type Binance struct {
	Symbol string
	client *binance.Client
}

func NewBinance(symbol string) *Binance {
	if symbol == "" {
		symbol = "BTCUSDT"
	}
	// Public kline endpoints need no credentials.
	return &Binance{
		Symbol: strings.ReplaceAll(strings.ToUpper(symbol), "/", ""),
		client: binance.NewClient("", ""),
	}
}

func (b *Binance) Name() string { return "binance" }

func (b *Binance) Load(ctx context.Context, tf string, bars int, start, end string) ([]market.Candle, error) {
	timeframe, err := backtest.ParseTimeframe(tf)
	if err != nil {
		return nil, err
	}
	var startMs, endMs int64
	if start != "" {
		ts, err := ToTimestampUTC(start)
		if err != nil {
			return nil, err
		}
		startMs = ts * 1000
	}
	if end != "" {
		ts, err := ToTimestampUTC(end)
		if err != nil {
			return nil, err
		}
		endMs = ts * 1000
	}
	// With an explicit window we page until the window is exhausted,
	// otherwise until bars candles have been collected.
	ranged := startMs > 0 && endMs > 0
	if bars <= 0 {
		bars = binancePageLimit
	}

	var out []market.Candle
	cursor := startMs
	for {
		limit := binancePageLimit
		if !ranged && bars-len(out) < limit {
			limit = bars - len(out)
		}
		if limit <= 0 {
			break
		}
		svc := b.client.NewKlinesService().
			Symbol(b.Symbol).
			Interval(timeframe.Key).
			Limit(limit)
		if cursor > 0 {
			svc.StartTime(cursor)
		}
		if endMs > 0 {
			svc.EndTime(endMs)
		}
		kls, err := svc.Do(ctx)
		if err != nil {
			return nil, fmt.Errorf("binance klines %s %s: %w", b.Symbol, timeframe.Key, err)
		}
		if len(kls) == 0 {
			break
		}
		for _, k := range kls {
			out = append(out, market.Candle{
				Timestamp: k.OpenTime / 1000,
				Open:      parseFloat(k.Open),
				High:      parseFloat(k.High),
				Low:       parseFloat(k.Low),
				Close:     parseFloat(k.Close),
				Volume:    parseFloat(k.Volume),
			})
		}
		last := kls[len(kls)-1]
		next := last.CloseTime + 1
		if next <= cursor || len(kls) < limit {
			break
		}
		cursor = next
		if ranged && cursor >= endMs {
			break
		}
		if !ranged && len(out) >= bars {
			break
		}
	}
	logger.Debugf("binance: fetched %d %s candles for %s", len(out), timeframe.Key, b.Symbol)
	return out, nil
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
