package analysis

import (
	"fmt"
	"time"

	"pv-forecast/internal/model"
)

// SplitByYear partitions s at threshold. Samples from earlier years form the
// representative series, re-indexed onto nominalYear and sorted; samples from
// threshold onwards form the current series.
func SplitByYear(s model.Series, threshold, nominalYear int) (rep, cur model.Series) {
	for _, p := range s {
		if p.Time.Year() < threshold {
			rep = append(rep, p)
		} else {
			cur = append(cur, p)
		}
	}
	rep = rep.ReindexYear(nominalYear)
	rep.Sort()
	cur.Sort()
	return rep, cur
}

// RatioRow is one month of the year adjustment.
type RatioRow struct {
	Month          time.Month `json:"month"`
	Representative float64    `json:"representative"`
	Current        float64    `json:"current"`
	Ratio          float64    `json:"ratio"`
}

// CorrectionRatios returns current/representative monthly irradiance sums for
// every month of w. A zero representative month gives an infinite or NaN
// ratio.
func CorrectionRatios(rep, cur model.Series, w model.Window) ([]RatioRow, error) {
	repMonthly := model.GroupMonthly(rep)
	curMonthly := model.GroupMonthly(cur)
	out := make([]RatioRow, 0, len(w.Months()))
	for _, m := range w.Months() {
		r, ok := repMonthly.ByMonth(m)
		if !ok {
			return nil, fmt.Errorf("representative irradiance has no data for %s", m)
		}
		c, ok := curMonthly.ByMonth(m)
		if !ok {
			return nil, fmt.Errorf("current-year irradiance has no data for %s", m)
		}
		out = append(out, RatioRow{Month: m, Representative: r.Sum, Current: c.Sum, Ratio: c.Sum / r.Sum})
	}
	return out, nil
}

// Adjustment is the year-adjusted monthly prediction against metered
// generation.
type Adjustment struct {
	Ratios     []RatioRow   `json:"ratios"`
	Adjusted   []MonthlyRow `json:"adjusted"`
	Unadjusted ErrorMetrics `json:"unadjusted"`
	Corrected  ErrorMetrics `json:"corrected"`
}

// AdjustForYear scales every predicted month of actual by its correction
// ratio and recomputes the error metrics before and after.
func AdjustForYear(actual *ActualComparison, ratios []RatioRow) (*Adjustment, error) {
	if len(ratios) != len(actual.Rows) {
		return nil, fmt.Errorf("have %d ratios for %d months", len(ratios), len(actual.Rows))
	}
	out := &Adjustment{Ratios: ratios, Adjusted: make([]MonthlyRow, len(actual.Rows))}
	for i, row := range actual.Rows {
		if ratios[i].Month != row.Month {
			return nil, fmt.Errorf("ratio for %s paired with %s", ratios[i].Month, row.Month)
		}
		out.Adjusted[i] = MonthlyRow{Month: row.Month, Predicted: row.Predicted * ratios[i].Ratio, Observed: row.Observed}
	}
	var err error
	if out.Unadjusted, err = Compare(Predicted(actual.Rows), Observed(actual.Rows)); err != nil {
		return nil, err
	}
	if out.Corrected, err = Compare(Predicted(out.Adjusted), Observed(out.Adjusted)); err != nil {
		return nil, err
	}
	return out, nil
}
