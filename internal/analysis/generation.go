package analysis

import (
	"fmt"

	"pv-forecast/internal/model"
)

// Generation is the predicted output of a PV system.
type Generation struct {
	// Hourly has the same timestamps as the irradiance it came from, in kWh.
	Hourly model.Series
	// Monthly holds the calendar-month sums of Hourly.
	Monthly model.MonthlySeries
}

// EstimateGeneration applies irradiance × capacity × loss[month] to every
// sample of irr.
func EstimateGeneration(irr model.Series, sys model.System) *Generation {
	hourly := make(model.Series, len(irr))
	for i, p := range irr {
		hourly[i] = model.Point{Time: p.Time, Value: sys.Generation(p.Time, p.Value)}
	}
	return &Generation{
		Hourly:  hourly,
		Monthly: model.GroupMonthly(hourly),
	}
}

// ActualComparison is predicted against metered generation over the
// analysis window.
type ActualComparison struct {
	Window model.Window        `json:"window"`
	Rows   []MonthlyRow        `json:"rows"`
	Actual model.MonthlySeries `json:"-"`
	ErrorMetrics
}

// CompareActual compares the monthly sums of pred and actual for every month
// of w. Both are looked up by calendar month; the earliest year wins when a
// series spans more than one.
func CompareActual(pred *Generation, actual model.Series, w model.Window) (*ActualComparison, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	actMonthly := model.GroupMonthly(actual)
	out := &ActualComparison{Window: w, Actual: actMonthly}
	for _, m := range w.Months() {
		p, ok := pred.Monthly.ByMonth(m)
		if !ok {
			return nil, fmt.Errorf("prediction has no data for %s", m)
		}
		a, ok := actMonthly.ByMonth(m)
		if !ok {
			return nil, fmt.Errorf("metered generation has no data for %s", m)
		}
		out.Rows = append(out.Rows, MonthlyRow{Month: m, Predicted: p.Sum, Observed: a.Sum})
	}
	metrics, err := Compare(Predicted(out.Rows), Observed(out.Rows))
	if err != nil {
		return nil, err
	}
	out.ErrorMetrics = metrics
	return out, nil
}
