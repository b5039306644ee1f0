package market

// DefaultStaleTolerance allows one timeframe interval plus 20% before a
// candle counts as stale.
const DefaultStaleTolerance = 1.2

// IsStale reports whether the last candle timestamp is too old relative to
// now. tfSec is the timeframe length in seconds, tol the tolerance
// multiplier (values <= 0 fall back to DefaultStaleTolerance).
func IsStale(lastTS, nowTS, tfSec int64, tol float64) bool {
	if tol <= 0 {
		tol = DefaultStaleTolerance
	}
	expected := float64(tfSec) * tol
	return float64(nowTS-lastTS) > expected
}
