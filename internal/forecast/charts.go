package forecast

import (
	"fmt"
	"time"

	"pv-forecast/internal/analysis"
	"pv-forecast/internal/chart"
)

const (
	irradianceLabel = "Global Solar Radiation[kWh/m2]"
	generationLabel = "Power Generation[kWh]"
	archiveLabel    = "Solar radiation[MJ/m2]"
)

// Chart file names.
const (
	ReferenceChartFile = "STEP1-2_Comparison of MONSOLA with METPV monthly totals.png"
	MonthlyChartFile   = "STEP3-1_Comparison of predicted and actual PV power generation(monthly).png"
	AdjustedChartFile  = "STEP4_Comparison of predicted and actual PV power generation(monthly adjusted).png"
)

// DayChartFile names the hourly profile chart of day.
func DayChartFile(day time.Time) string {
	return fmt.Sprintf("STEP3-2_Comparison of predicted and actual PV power generation(%s).png", day.Format(time.DateOnly))
}

// IrradianceChartFile names the current vs representative irradiance chart.
func IrradianceChartFile(site string) string {
	return fmt.Sprintf("STEP4_Total solar radiation in %s.png", site)
}

func monthAxis(rows []analysis.MonthlyRow) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = float64(r.Month)
	}
	return out
}

// Charts lists every chart of the run in output order.
func (r *Result) Charts() []chart.Spec {
	var out []chart.Spec
	if r.Reference != nil {
		out = append(out, chart.Spec{
			File:   ReferenceChartFile,
			XLabel: "Month",
			YLabel: irradianceLabel,
			Lines: []chart.Line{
				{Label: "Monthly data calculated from hourly data", X: monthAxis(r.Reference.Rows), Y: analysis.Predicted(r.Reference.Rows)},
				{Label: "Monthly reference data", X: monthAxis(r.Reference.Rows), Y: analysis.Observed(r.Reference.Rows)},
			},
		})
	}
	if r.Comparison != nil {
		rows := r.Comparison.Rows
		out = append(out, chart.Spec{
			File:   MonthlyChartFile,
			XLabel: "Month",
			YLabel: generationLabel,
			Lines: []chart.Line{
				{Label: "Predicted data", X: monthAxis(rows), Y: analysis.Predicted(rows)},
				{Label: "Actual data", X: monthAxis(rows), Y: analysis.Observed(rows)},
			},
		})
	}
	for _, d := range r.Days {
		hours := make([]float64, len(d.Profile))
		pred := make([]float64, len(d.Profile))
		act := make([]float64, len(d.Profile))
		for i, h := range d.Profile {
			hours[i] = float64(h.Hour)
			pred[i] = h.Predicted
			act[i] = h.Actual
		}
		out = append(out, chart.Spec{
			File:   DayChartFile(d.Best.Day),
			Title:  "PV power generation on " + d.Best.Day.Format(time.DateOnly),
			XLabel: "Hour",
			YLabel: generationLabel,
			Lines: []chart.Line{
				{Label: "Predicted data", X: hours, Y: pred},
				{Label: "Actual data", X: hours, Y: act},
			},
		})
	}
	if r.Adjustment != nil {
		ratios := r.Adjustment.Ratios
		x := make([]float64, len(ratios))
		cur := make([]float64, len(ratios))
		rep := make([]float64, len(ratios))
		for i, row := range ratios {
			x[i] = float64(row.Month)
			cur[i] = row.Current
			rep[i] = row.Representative
		}
		out = append(out, chart.Spec{
			File:   IrradianceChartFile(r.Site),
			Title:  "Total solar radiation in " + r.Site,
			XLabel: "Month",
			YLabel: archiveLabel,
			Lines: []chart.Line{
				{Label: r.YearLabel, X: x, Y: cur},
				{Label: "Representative year", X: x, Y: rep},
			},
		})
		rows := r.Comparison.Rows
		out = append(out, chart.Spec{
			File:   AdjustedChartFile,
			XLabel: "Month",
			YLabel: generationLabel,
			Lines: []chart.Line{
				{Label: "Predicted data(unadjusted)", X: monthAxis(rows), Y: analysis.Predicted(rows)},
				{Label: "Predicted data(adjusted)", X: monthAxis(rows), Y: analysis.Predicted(r.Adjustment.Adjusted)},
				{Label: "Actual data", X: monthAxis(rows), Y: analysis.Observed(rows)},
			},
		})
	}
	return out
}
