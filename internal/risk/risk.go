package risk

import (
	"errors"
	"math"
)

var ErrInvalidLevels = errors.New("risk: invalid levels")

const (
	DefaultRiskPerTrade = 0.01
	DefaultStopLossPct  = 0.02
	DefaultTakeProfit   = 0.04
)

// Levels is a stop-loss / take-profit pair bracketing an entry.
type Levels struct {
	StopLoss   float64 `json:"stop_loss"`
	TakeProfit float64 `json:"take_profit"`
}

// PositionSize returns the quantity that risks riskPerTrade of balance if
// price moves from entry to stop. Zero when the inputs cannot produce a
// meaningful size.
func PositionSize(balance, riskPerTrade, entry, stop float64) float64 {
	if balance <= 0 || riskPerTrade <= 0 || entry <= 0 {
		return 0
	}
	perUnit := math.Abs(entry - stop)
	if perUnit == 0 {
		return 0
	}
	qty := balance * riskPerTrade / perUnit
	// Never size beyond what the balance can actually buy.
	if affordable := balance / entry; qty > affordable {
		qty = affordable
	}
	return qty
}

// StopLevels brackets a long entry with percentage-based stops. Percentages
// fall back to the defaults when non-positive.
func StopLevels(entry, slPct, tpPct float64) (Levels, error) {
	if entry <= 0 {
		return Levels{}, ErrInvalidLevels
	}
	if slPct <= 0 {
		slPct = DefaultStopLossPct
	}
	if tpPct <= 0 {
		tpPct = DefaultTakeProfit
	}
	if slPct >= 1 {
		return Levels{}, ErrInvalidLevels
	}
	return Levels{
		StopLoss:   entry * (1 - slPct),
		TakeProfit: entry * (1 + tpPct),
	}, nil
}

// Breached reports whether a long position's bracket fired inside a bar's
// range. The stop takes priority when both levels sit inside the range.
func (l Levels) Breached(low, high float64) (stop, take bool) {
	if low <= l.StopLoss {
		return true, false
	}
	if high >= l.TakeProfit {
		return false, true
	}
	return false, false
}
