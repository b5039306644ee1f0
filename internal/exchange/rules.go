package exchange

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Exchange-level defaults, mirroring common spot market filters.
const (
	DefaultTickSize    = 0.01
	DefaultStepSize    = 0.01
	DefaultMinNotional = 10.0
)

// ErrInvalidOrder marks order parameters that violate exchange filters.
var ErrInvalidOrder = errors.New("invalid order")

// roundStep rounds value to the nearest multiple of step using
// round-half-to-even, so 0.005 with step 0.01 lands on 0.0 and not 0.01.
// decimal keeps the halfway comparison exact where float64 cannot.
func roundStep(value, step float64) float64 {
	if step <= 0 {
		return value
	}
	v := decimal.NewFromFloat(value)
	s := decimal.NewFromFloat(step)
	return v.Div(s).RoundBank(0).Mul(s).InexactFloat64()
}

// RoundPrice rounds price to the nearest tick.
func RoundPrice(price, tickSize float64) float64 {
	return roundStep(price, tickSize)
}

// RoundQty rounds quantity to the nearest lot step.
func RoundQty(qty, stepSize float64) float64 {
	return roundStep(qty, stepSize)
}

// ValidateNotional rejects orders whose monetary size is below the exchange
// minimum. This is the only rule that fails with an error; MarketOrder
// converts it into a rejected ExecutionResult.
func ValidateNotional(qty, price, minNotional float64) error {
	notional := qty * price
	if notional < minNotional {
		return fmt.Errorf("%w: notional %g below minimum %g", ErrInvalidOrder, notional, minNotional)
	}
	return nil
}
