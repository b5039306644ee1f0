package exchange

import "fmt"

// Side of a market order.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// DefaultInitialBalance seeds a fresh paper account.
const DefaultInitialBalance = 10000.0

// Order is a transient execution request; it survives only inside the Fill
// it produces.
type Order struct {
	Side      Side    `json:"side"`
	Quantity  float64 `json:"quantity"`
	Price     float64 `json:"price"`
	Timestamp int64   `json:"timestamp"`
}

// Fill records one executed order. Fills are append-only and never mutated.
// AvgCost is the position's average entry price at the moment a sell
// executed (zero for buys); realized PnL is derived from it per fill instead
// of from the live position, which would drift as the position changes.
type Fill struct {
	Order     Order   `json:"order"`
	Quantity  float64 `json:"quantity"`
	Price     float64 `json:"price"`
	Fee       float64 `json:"fee"`
	AvgCost   float64 `json:"avg_cost,omitempty"`
	Timestamp int64   `json:"timestamp"`
}

// Position is the single net long exposure. Quantity 0 means flat and
// AvgPrice is meaningless then. Shorts are not modeled.
type Position struct {
	Quantity float64 `json:"quantity"`
	AvgPrice float64 `json:"avg_price"`
}

// ExecutionResult is returned by every order attempt. Business rejections
// (insufficient balance/position, sub-minimum notional) are not Go errors:
// they come back as Success=false with a human-readable Reason and leave the
// account untouched.
type ExecutionResult struct {
	Success bool   `json:"success"`
	Fill    *Fill  `json:"fill,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// Config for a paper account. Zero values fall back to exchange defaults.
type Config struct {
	TakerFee       float64
	InitialBalance float64
	TickSize       float64
	StepSize       float64
	MinNotional    float64
}

// PaperExchange simulates a spot account: cash balance, one net long
// position and an append-only fill history. An instance belongs to exactly
// one backtest run; accumulated fees and position state must not leak into
// the next run.
type PaperExchange struct {
	takerFee    float64
	tickSize    float64
	stepSize    float64
	minNotional float64

	balance  float64
	position Position
	fills    []Fill
}

// New builds a paper exchange from cfg.
func New(cfg Config) *PaperExchange {
	if cfg.InitialBalance <= 0 {
		cfg.InitialBalance = DefaultInitialBalance
	}
	if cfg.TickSize <= 0 {
		cfg.TickSize = DefaultTickSize
	}
	if cfg.StepSize <= 0 {
		cfg.StepSize = DefaultStepSize
	}
	if cfg.MinNotional <= 0 {
		cfg.MinNotional = DefaultMinNotional
	}
	return &PaperExchange{
		takerFee:    cfg.TakerFee,
		tickSize:    cfg.TickSize,
		stepSize:    cfg.StepSize,
		minNotional: cfg.MinNotional,
		balance:     cfg.InitialBalance,
	}
}

// NewPaperExchange builds a paper exchange with default filters and balance.
func NewPaperExchange(takerFee float64) *PaperExchange {
	return New(Config{TakerFee: takerFee})
}

// MarketOrder executes a market order at the given price. Validation and
// rounding run first; any rejection leaves balance, position and fills
// untouched.
func (e *PaperExchange) MarketOrder(side Side, quantity, price float64, ts int64) ExecutionResult {
	if err := ValidateNotional(quantity, price, e.minNotional); err != nil {
		return ExecutionResult{Reason: err.Error()}
	}
	quantity = RoundQty(quantity, e.stepSize)
	price = RoundPrice(price, e.tickSize)
	if quantity <= 0 {
		return ExecutionResult{Reason: "invalid quantity"}
	}

	var fee, avgCost float64
	switch side {
	case Buy:
		cost := quantity * price
		fee = cost * e.takerFee
		total := cost + fee
		if total > e.balance {
			return ExecutionResult{Reason: "insufficient balance"}
		}
		if e.position.Quantity == 0 {
			e.position = Position{Quantity: quantity, AvgPrice: price}
		} else {
			// Weighted-average cost basis merge.
			newQty := e.position.Quantity + quantity
			basis := e.position.Quantity*e.position.AvgPrice + cost
			e.position = Position{Quantity: newQty, AvgPrice: basis / newQty}
		}
		e.balance -= total

	case Sell:
		if e.position.Quantity == 0 {
			return ExecutionResult{Reason: "no position to sell"}
		}
		if quantity > e.position.Quantity {
			return ExecutionResult{Reason: "insufficient position"}
		}
		proceeds := quantity * price
		fee = proceeds * e.takerFee
		avgCost = e.position.AvgPrice
		e.position.Quantity -= quantity
		e.balance += proceeds - fee

	default:
		return ExecutionResult{Reason: fmt.Sprintf("unknown side %q", side)}
	}

	fill := Fill{
		Order:     Order{Side: side, Quantity: quantity, Price: price, Timestamp: ts},
		Quantity:  quantity,
		Price:     price,
		Fee:       fee,
		AvgCost:   avgCost,
		Timestamp: ts,
	}
	e.fills = append(e.fills, fill)
	return ExecutionResult{Success: true, Fill: &fill}
}

// Balance returns the current cash balance.
func (e *PaperExchange) Balance() float64 { return e.balance }

// Position returns a copy of the current position.
func (e *PaperExchange) Position() Position { return e.position }

// Fills returns a copy of the fill history.
func (e *PaperExchange) Fills() []Fill {
	return append([]Fill(nil), e.fills...)
}

// TotalFees sums the fees across all fills.
func (e *PaperExchange) TotalFees() float64 {
	var sum float64
	for _, f := range e.fills {
		sum += f.Fee
	}
	return sum
}

// PnL returns realized plus unrealized profit. Realized profit sums, over
// sell fills, the price delta against the average cost captured when each
// sell executed; unrealized marks the open position at currentPrice.
func (e *PaperExchange) PnL(currentPrice float64) float64 {
	var realized float64
	for _, f := range e.fills {
		if f.Order.Side == Sell {
			realized += (f.Price - f.AvgCost) * f.Quantity
		}
	}
	var unrealized float64
	if e.position.Quantity > 0 {
		unrealized = (currentPrice - e.position.AvgPrice) * e.position.Quantity
	}
	return realized + unrealized
}
