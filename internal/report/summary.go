package report

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"papersim/internal/backtest"
)

// Summary flattens either engine's metrics into one record for tables,
// CSV logs, and the sweep ranking.
type Summary struct {
	Mode      string  `json:"mode"`
	Strategy  string  `json:"strategy"`
	Symbol    string  `json:"symbol"`
	Bars      int     `json:"bars"`
	Fee       float64 `json:"fee"`
	Threshold float64 `json:"threshold"`
	Window    int     `json:"window"`
	Seed      int64   `json:"seed"`

	Trades         int     `json:"trades"`
	GrossPnL       float64 `json:"gross_pnl"`
	TotalFees      float64 `json:"total_fees"`
	NetPnL         float64 `json:"net_pnl"`
	WinRate        float64 `json:"win_rate"`
	ProfitFactor   float64 `json:"-"`
	MaxDrawdown    float64 `json:"max_dd"`
	InitialBalance float64 `json:"initial_balance"`
	FinalEquity    float64 `json:"final_equity"`
	ReturnPct      float64 `json:"return_pct"`
}

// Meta carries the run parameters that metrics alone cannot reconstruct.
type Meta struct {
	Strategy  string
	Symbol    string
	Bars      int
	Fee       float64
	Threshold float64
	Window    int
	Seed      int64
}

func FromClose(meta Meta, m backtest.CloseMetrics) Summary {
	return Summary{
		Mode:      "close",
		Strategy:  meta.Strategy,
		Symbol:    meta.Symbol,
		Bars:      meta.Bars,
		Fee:       meta.Fee,
		Threshold: meta.Threshold,
		Window:    meta.Window,
		Seed:      meta.Seed,

		Trades:         m.Trades,
		GrossPnL:       m.GrossPnL,
		TotalFees:      m.TotalFees,
		NetPnL:         m.NetPnL,
		WinRate:        m.WinRate,
		MaxDrawdown:    m.MaxDrawdown,
		InitialBalance: m.InitialBalance,
		FinalEquity:    m.FinalEquity,
		ReturnPct:      m.ReturnPct,
	}
}

func FromOnebar(meta Meta, m backtest.OnebarMetrics) Summary {
	ret := 0.0
	if m.FinalEquity > 0 {
		ret = (m.FinalEquity - backtest.OnebarSeedEquity) / backtest.OnebarSeedEquity * 100
	}
	return Summary{
		Mode:      "onebar",
		Strategy:  meta.Strategy,
		Symbol:    meta.Symbol,
		Bars:      meta.Bars,
		Fee:       meta.Fee,
		Threshold: meta.Threshold,
		Window:    meta.Window,
		Seed:      meta.Seed,

		Trades:         m.Trades,
		ProfitFactor:   m.ProfitFactor,
		MaxDrawdown:    m.MaxDrawdown,
		InitialBalance: backtest.OnebarSeedEquity,
		FinalEquity:    m.FinalEquity,
		ReturnPct:      ret,
	}
}

// MarshalJSON emits the profit factor as a string so the +Inf convention
// survives encoding, which encoding/json otherwise rejects.
func (s Summary) MarshalJSON() ([]byte, error) {
	type alias Summary
	out := struct {
		alias
		PF string `json:"pf,omitempty"`
	}{alias: alias(s)}
	if s.Mode == "onebar" {
		out.PF = FormatPF(s.ProfitFactor)
	}
	return json.Marshal(out)
}

// FormatPF renders a profit factor, keeping the infinite case readable in
// text output and parseable back via strconv.ParseFloat.
func FormatPF(pf float64) string {
	if math.IsInf(pf, 1) {
		return "inf"
	}
	return strconv.FormatFloat(pf, 'f', 4, 64)
}

// JSON renders the summary with stable key order via the custom marshaler.
func (s Summary) JSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Table renders a two-column summary for terminal output.
func (s Summary) Table() string {
	var b strings.Builder
	row := func(k, v string) {
		fmt.Fprintf(&b, "  %-16s %s\n", k, v)
	}
	fmt.Fprintf(&b, "%s backtest: %s on %s (%d bars)\n", s.Mode, s.Strategy, s.Symbol, s.Bars)
	row("trades", strconv.Itoa(s.Trades))
	if s.Mode == "close" {
		row("gross_pnl", fmt.Sprintf("%.4f", s.GrossPnL))
		row("total_fees", fmt.Sprintf("%.4f", s.TotalFees))
		row("net_pnl", fmt.Sprintf("%.4f", s.NetPnL))
		row("win_rate", fmt.Sprintf("%.2f%%", s.WinRate*100))
	} else {
		row("profit_factor", FormatPF(s.ProfitFactor))
	}
	row("max_drawdown", fmt.Sprintf("%.2f%%", s.MaxDrawdown*100))
	row("final_equity", fmt.Sprintf("%.4f", s.FinalEquity))
	row("return", fmt.Sprintf("%.2f%%", s.ReturnPct))
	return b.String()
}
