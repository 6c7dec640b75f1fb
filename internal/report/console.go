// Package report renders a forecast result for people: console text,
// spreadsheets, PDF and columnar exports.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"pv-forecast/internal/forecast"
	"pv-forecast/internal/model"
)

// PrintSummary writes the error metrics of a run with three decimals. MAPE
// is printed in percent.
func PrintSummary(w io.Writer, r *forecast.Result) error {
	bw := &errWriter{w: w}
	bw.printf("run %s (%d, window %s)\n\n", r.RunID, r.Year, r.Window)

	if r.Reference != nil {
		bw.printf("Monthly reference vs hourly table\n")
		bw.printf("RMSE[kWh/m2], %0.3f\n", r.Reference.RMSE)
		bw.printf("MAPE[%%]     , %0.3f\n\n", r.Reference.MAPE*100)
	}
	if r.Adjustment != nil {
		a := r.Adjustment
		bw.printf("Predicted vs actual generation, before and after year adjustment\n")
		bw.printf("metric, unadjusted, adjusted\n")
		bw.printf("RMSE[kWh], %0.3f, %0.3f\n", a.Unadjusted.RMSE, a.Corrected.RMSE)
		bw.printf("MAPE[%%]  , %0.3f, %0.3f\n\n", a.Unadjusted.MAPE*100, a.Corrected.MAPE*100)
	}
	if bw.err != nil {
		return bw.err
	}

	ledger := r.Ledger()
	if len(ledger) == 0 {
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "month\tpredicted\tactual\tratio\tadjusted\tbest day\t")
	for _, row := range ledger {
		day := ""
		if !row.BestDay.IsZero() {
			day = row.BestDay.Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%d\t%0.3f\t%0.3f\t%0.3f\t%0.3f\t%s\t\n",
			int(row.Month), row.Predicted, row.Actual, row.Ratio, row.Adjusted, day)
	}
	return tw.Flush()
}

// PrintEstimate writes the monthly generation sums of an estimate.
func PrintEstimate(w io.Writer, monthly model.MonthlySeries) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "month\tgeneration[kWh]\t")
	total := 0.0
	for _, m := range monthly {
		fmt.Fprintf(tw, "%d-%02d\t%0.3f\t\n", m.Year, int(m.Month), m.Sum)
		total += m.Sum
	}
	fmt.Fprintf(tw, "total\t%0.3f\t\n", total)
	return tw.Flush()
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
