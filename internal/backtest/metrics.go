package backtest

// CloseMetrics is the fixed-shape summary of a close-mode run. Field names
// follow the reporting schema consumed downstream.
type CloseMetrics struct {
	Trades         int     `json:"trades"`
	GrossPnL       float64 `json:"gross_pnl"`
	TotalFees      float64 `json:"total_fees"`
	NetPnL         float64 `json:"net_pnl"`
	WinRate        float64 `json:"win_rate"`
	MaxDrawdown    float64 `json:"max_dd"`
	InitialBalance float64 `json:"initial_balance"`
	FinalEquity    float64 `json:"final_equity"`
	ReturnPct      float64 `json:"return_pct"`
}

// OnebarMetrics is the fixed-shape summary of a onebar-mode run.
// ProfitFactor is +Inf when there are winning trades and no losing ones.
type OnebarMetrics struct {
	Trades       int     `json:"trades"`
	FinalEquity  float64 `json:"final_equity"`
	ProfitFactor float64 `json:"pf"`
	MaxDrawdown  float64 `json:"max_dd"`
}

// MaxDrawdown returns the largest fractional decline from the running peak
// of an equity curve, 0 for an empty curve.
func MaxDrawdown(equity []float64) float64 {
	if len(equity) == 0 {
		return 0
	}
	peak := equity[0]
	maxDD := 0.0
	for _, eq := range equity {
		if eq > peak {
			peak = eq
		}
		if peak <= 0 {
			continue
		}
		if dd := (peak - eq) / peak; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}
