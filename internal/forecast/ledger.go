package forecast

import (
	"time"

	"pv-forecast/internal/analysis"
	"pv-forecast/internal/model"
)

// LedgerRow is one month of the analysis window.
// This is the primary artifact for "how close was the forecast".
type LedgerRow struct {
	Month time.Month `json:"month"`

	Predicted float64 `json:"predicted_kwh"`
	Actual    float64 `json:"actual_kwh"`

	RepresentativeIrradiance float64 `json:"representative_mj"`
	CurrentIrradiance        float64 `json:"current_mj"`
	Ratio                    float64 `json:"ratio"`

	Adjusted float64 `json:"adjusted_kwh"`

	BestDay      time.Time `json:"best_day"`
	BestDayScore float64   `json:"best_day_score"`
}

type Result struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Inputs model.Inputs `json:"inputs"`
	System model.System `json:"system"`
	Window model.Window `json:"window"`
	Year   int          `json:"year"`

	Site      string `json:"site"`
	YearLabel string `json:"year_label"`

	// Irradiance is the hourly table in kWh/m².
	Irradiance model.Series                 `json:"-"`
	Reference  *analysis.ReferenceComparison `json:"-"`
	Generation *analysis.Generation          `json:"-"`
	// Actual is metered generation stamped at the end of each hour.
	Actual     model.Series               `json:"-"`
	Comparison *analysis.ActualComparison `json:"-"`
	Days       []analysis.DayMatch        `json:"-"`

	Representative model.Series         `json:"-"`
	Current        model.Series         `json:"-"`
	Adjustment     *analysis.Adjustment `json:"-"`
}

// Ledger joins the per-month outputs of the comparison, day matching and
// year adjustment.
func (r *Result) Ledger() []LedgerRow {
	if r.Comparison == nil {
		return nil
	}
	out := make([]LedgerRow, len(r.Comparison.Rows))
	for i, row := range r.Comparison.Rows {
		out[i] = LedgerRow{
			Month:     row.Month,
			Predicted: row.Predicted,
			Actual:    row.Observed,
		}
		if r.Adjustment != nil && i < len(r.Adjustment.Ratios) {
			ratio := r.Adjustment.Ratios[i]
			out[i].RepresentativeIrradiance = ratio.Representative
			out[i].CurrentIrradiance = ratio.Current
			out[i].Ratio = ratio.Ratio
			out[i].Adjusted = r.Adjustment.Adjusted[i].Predicted
		}
		if i < len(r.Days) {
			out[i].BestDay = r.Days[i].Best.Day
			out[i].BestDayScore = r.Days[i].Best.Score
		}
	}
	return out
}
