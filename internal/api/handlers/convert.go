package handlers

import (
	"time"

	"pv-forecast/internal/api/models"
	"pv-forecast/internal/forecast"
	"pv-forecast/internal/model"
)

func buildRunResponse(res *forecast.Result, includeDays bool, charts []string) models.RunResponse {
	resp := models.RunResponse{
		ID:         res.RunID,
		Status:     "completed",
		StartedAt:  res.StartedAt,
		FinishedAt: res.FinishedAt,
		Year:       res.Year,
		Window:     models.MonthWindow{From: int(res.Window.From), To: int(res.Window.To)},
		System: models.SystemInfo{
			CapacityKW:       res.System.CapacityKW,
			LossCoefficients: append([]float64(nil), res.System.Loss[:]...),
		},
		Charts: charts,
	}
	if r := res.Reference; r != nil {
		resp.Summary.ReferenceRMSE = models.Float(r.RMSE)
		resp.Summary.ReferenceMAPE = models.Float(r.MAPE)
	}
	if a := res.Adjustment; a != nil {
		resp.Summary.UnadjustedRMSE = models.Float(a.Unadjusted.RMSE)
		resp.Summary.UnadjustedMAPE = models.Float(a.Unadjusted.MAPE)
		resp.Summary.AdjustedRMSE = models.Float(a.Corrected.RMSE)
		resp.Summary.AdjustedMAPE = models.Float(a.Corrected.MAPE)
	}

	ledger := res.Ledger()
	resp.Ledger = make([]models.LedgerRow, len(ledger))
	for i, row := range ledger {
		resp.Ledger[i] = models.LedgerRow{
			Month:                    int(row.Month),
			Predicted:                models.Float(row.Predicted),
			Actual:                   models.Float(row.Actual),
			RepresentativeIrradiance: models.Float(row.RepresentativeIrradiance),
			CurrentIrradiance:        models.Float(row.CurrentIrradiance),
			Ratio:                    models.Float(row.Ratio),
			Adjusted:                 models.Float(row.Adjusted),
		}
		if !row.BestDay.IsZero() {
			resp.Ledger[i].BestDay = row.BestDay.Format(time.DateOnly)
		}
	}

	if includeDays {
		for _, d := range res.Days {
			day := models.DayRow{
				Month: int(d.Month),
				Day:   d.Best.Day.Format(time.DateOnly),
				Score: models.Float(d.Best.Score),
				Hours: make([]models.HourRow, len(d.Profile)),
			}
			for i, h := range d.Profile {
				day.Hours[i] = models.HourRow{
					Hour:      h.Hour,
					Predicted: models.Float(h.Predicted),
					Actual:    models.Float(h.Actual),
				}
			}
			resp.Days = append(resp.Days, day)
		}
	}
	return resp
}

func buildEstimateResponse(year int, monthly model.MonthlySeries) models.EstimateResponse {
	resp := models.EstimateResponse{
		Year:   year,
		Months: make([]models.MonthRow, len(monthly)),
		Total:  models.Float(monthly.Total()),
	}
	for i, m := range monthly {
		resp.Months[i] = models.MonthRow{
			Year:       m.Year,
			Month:      int(m.Month),
			Generation: models.Float(m.Sum),
			Hours:      m.Count,
		}
	}
	return resp
}
