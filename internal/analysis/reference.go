package analysis

import (
	"fmt"
	"time"

	"pv-forecast/internal/model"
)

// MonthlyRow is one month of a predicted-vs-observed comparison.
type MonthlyRow struct {
	Month     time.Month `json:"month"`
	Predicted float64    `json:"predicted"`
	Observed  float64    `json:"observed"`
}

// ReferenceComparison is the hourly table's monthly daily average against
// the monthly reference table.
type ReferenceComparison struct {
	Rows []MonthlyRow `json:"rows"`
	ErrorMetrics
}

// MonthlyDailyAverage groups s by calendar month and divides each monthly
// sum by its day count, round(samples/24). The rollover bucket produced by
// the final hour 24 is dropped.
func MonthlyDailyAverage(s model.Series) model.MonthlySeries {
	buckets := model.GroupMonthly(s).DropRollover()
	out := make(model.MonthlySeries, len(buckets))
	for i, b := range buckets {
		out[i] = b
		out[i].Sum = b.DailyAverage()
	}
	return out
}

// CompareReference joins the daily averages of hourly to ref by month.
// Every month present in hourly must be present in ref.
func CompareReference(hourly model.Series, ref model.MonthlyValues) (*ReferenceComparison, error) {
	avg := MonthlyDailyAverage(hourly)
	if len(avg) == 0 {
		return nil, ErrNoData
	}
	out := &ReferenceComparison{Rows: make([]MonthlyRow, 0, len(avg))}
	pred := make([]float64, 0, len(avg))
	obs := make([]float64, 0, len(avg))
	for _, b := range avg {
		r, ok := ref[b.Month]
		if !ok {
			return nil, fmt.Errorf("reference has no value for %s", b.Month)
		}
		out.Rows = append(out.Rows, MonthlyRow{Month: b.Month, Predicted: b.Sum, Observed: r})
		pred = append(pred, b.Sum)
		obs = append(obs, r)
	}
	m, err := Compare(pred, obs)
	if err != nil {
		return nil, err
	}
	out.ErrorMetrics = m
	return out, nil
}

// Predicted returns the predicted column.
func Predicted(rows []MonthlyRow) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.Predicted
	}
	return out
}

// Observed returns the observed column.
func Observed(rows []MonthlyRow) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.Observed
	}
	return out
}
