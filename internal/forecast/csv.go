package forecast

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

func WriteLedgerCSV(path string, ledger []LedgerRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := EncodeLedgerCSV(f, ledger); err != nil {
		return err
	}
	return f.Close()
}

// EncodeLedgerCSV writes the ledger with a header row.
func EncodeLedgerCSV(out io.Writer, ledger []LedgerRow) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	header := []string{
		"month",
		"predicted_kwh",
		"actual_kwh",
		"representative_mj",
		"current_mj",
		"ratio",
		"adjusted_kwh",
		"best_day",
		"best_day_score",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range ledger {
		row := []string{
			strconv.Itoa(int(r.Month)),
			fmtFloat(r.Predicted),
			fmtFloat(r.Actual),
			fmtFloat(r.RepresentativeIrradiance),
			fmtFloat(r.CurrentIrradiance),
			fmtFloat(r.Ratio),
			fmtFloat(r.Adjusted),
			fmtDay(r.BestDay),
			fmtFloat(r.BestDayScore),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// WriteHourlyCSV writes predicted and metered generation side by side, one
// row per predicted hour. Missing metered hours are left empty.
func WriteHourlyCSV(out io.Writer, r *Result) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"time", "irradiance_kwh_m2", "predicted_kwh", "actual_kwh"}); err != nil {
		return err
	}
	actual := r.Actual.Lookup()
	for i, p := range r.Generation.Hourly {
		act := ""
		if v, ok := actual[p.Time]; ok {
			act = fmtFloat(v)
		}
		irr := ""
		if i < len(r.Irradiance) {
			irr = fmtFloat(r.Irradiance[i].Value)
		}
		if err := w.Write([]string{p.Time.Format("2006-01-02T15:04:05"), irr, fmtFloat(p.Value), act}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func fmtDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
