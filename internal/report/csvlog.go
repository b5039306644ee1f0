package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

var csvHeader = []string{
	"mode", "strategy", "symbol", "bars", "fee", "threshold", "window", "seed",
	"trades", "final_equity", "win_rate", "pf", "max_dd", "return_pct", "total_fees",
}

// AppendCSV appends one summary row to a results log, writing the header
// when the file does not exist yet. Parent directories are created.
func AppendCSV(path string, s Summary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create results dir: %w", err)
	}

	_, statErr := os.Stat(path)
	fresh := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open results log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if fresh {
		if err := w.Write(csvHeader); err != nil {
			return err
		}
	}
	row := []string{
		s.Mode,
		s.Strategy,
		s.Symbol,
		strconv.Itoa(s.Bars),
		formatFloat(s.Fee),
		formatFloat(s.Threshold),
		strconv.Itoa(s.Window),
		strconv.FormatInt(s.Seed, 10),
		strconv.Itoa(s.Trades),
		formatFloat(s.FinalEquity),
		formatFloat(s.WinRate),
		FormatPF(s.ProfitFactor),
		formatFloat(s.MaxDrawdown),
		formatFloat(s.ReturnPct),
		formatFloat(s.TotalFees),
	}
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
