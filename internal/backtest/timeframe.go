package backtest

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Timeframe describes a supported bar interval.
type Timeframe struct {
	Key      string
	Duration time.Duration
}

var supportedTimeframes = map[string]Timeframe{
	"1m":  {Key: "1m", Duration: time.Minute},
	"5m":  {Key: "5m", Duration: 5 * time.Minute},
	"15m": {Key: "15m", Duration: 15 * time.Minute},
	"1h":  {Key: "1h", Duration: time.Hour},
	"4h":  {Key: "4h", Duration: 4 * time.Hour},
	"1d":  {Key: "1d", Duration: 24 * time.Hour},
}

// ParseTimeframe normalizes a timeframe string. An unsupported timeframe is
// a configuration error and callers are expected to fail fast before any
// replay starts.
func ParseTimeframe(input string) (Timeframe, error) {
	key := strings.ToLower(strings.TrimSpace(input))
	tf, ok := supportedTimeframes[key]
	if !ok {
		return Timeframe{}, fmt.Errorf("unsupported timeframe: %s (supported: %s)",
			input, strings.Join(SupportedTimeframes(), ", "))
	}
	return tf, nil
}

// SupportedTimeframes returns all supported keys, sorted.
func SupportedTimeframes() []string {
	keys := make([]string, 0, len(supportedTimeframes))
	for k := range supportedTimeframes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Seconds returns the interval length in seconds.
func (tf Timeframe) Seconds() int64 {
	return int64(tf.Duration / time.Second)
}

// AlignRange snaps a start/end pair (Unix seconds) down onto the timeframe
// grid, swapping if needed so start <= end.
func (tf Timeframe) AlignRange(start, end int64) (int64, int64) {
	step := tf.Seconds()
	if end < start {
		start, end = end, start
	}
	start = alignDown(start, step)
	end = alignDown(end, step)
	if end < start {
		end = start
	}
	return start, end
}

func alignDown(ts, step int64) int64 {
	if step <= 0 {
		return ts
	}
	rem := ts % step
	if rem < 0 {
		rem += step
	}
	return ts - rem
}
