package data

import (
	"fmt"
	"strings"
	"time"

	"papersim/internal/market"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ToTimestampUTC parses a date or datetime string as UTC and returns Unix
// seconds.
func ToTimestampUTC(s string) (int64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("empty date string")
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, time.UTC); err == nil {
			return t.UTC().Unix(), nil
		}
	}
	return 0, fmt.Errorf("unparseable date: %q", s)
}

// ISOUTC formats a Unix-seconds timestamp as RFC3339 UTC, "none" for 0.
func ISOUTC(ts int64) string {
	if ts == 0 {
		return "none"
	}
	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}

// FilterByDate keeps bars inside [start, end]. A date-only end bound is
// inclusive through the end of that day. Empty bounds are open. Returns the
// filtered bars plus the resolved bound timestamps (0 when unset).
func FilterByDate(bars []market.Candle, start, end string) ([]market.Candle, int64, int64, error) {
	var startTS, endTS int64
	if start != "" {
		ts, err := ToTimestampUTC(start)
		if err != nil {
			return nil, 0, 0, err
		}
		startTS = ts
	}
	if end != "" {
		ts, err := ToTimestampUTC(end)
		if err != nil {
			return nil, 0, 0, err
		}
		if len(strings.TrimSpace(end)) == len("2006-01-02") {
			ts += 86399 // end of day, inclusive
		}
		endTS = ts
	}
	out := make([]market.Candle, 0, len(bars))
	for _, b := range bars {
		if startTS != 0 && b.Timestamp < startTS {
			continue
		}
		if endTS != 0 && b.Timestamp > endTS {
			continue
		}
		out = append(out, b)
	}
	return out, startTS, endTS, nil
}
