package models

import (
	"math"
	"time"
)

// RunResponse represents the response from a forecast run
type RunResponse struct {
	ID         string      `json:"id"`
	Status     string      `json:"status"`
	Cached     bool        `json:"cached"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`
	Year       int         `json:"year"`
	Window     MonthWindow `json:"window"`
	System     SystemInfo  `json:"system"`
	Summary    RunSummary  `json:"summary"`
	Ledger     []LedgerRow `json:"ledger"`
	Days       []DayRow    `json:"days,omitempty"`
	Charts     []string    `json:"charts,omitempty"`
}

type MonthWindow struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// RunSummary holds the error metrics of each comparison. Metrics that are
// not finite (a zero observed month, for example) are null.
type RunSummary struct {
	ReferenceRMSE  *float64 `json:"reference_rmse_kwh_m2"`
	ReferenceMAPE  *float64 `json:"reference_mape"`
	UnadjustedRMSE *float64 `json:"unadjusted_rmse_kwh"`
	UnadjustedMAPE *float64 `json:"unadjusted_mape"`
	AdjustedRMSE   *float64 `json:"adjusted_rmse_kwh"`
	AdjustedMAPE   *float64 `json:"adjusted_mape"`
}

// LedgerRow represents one month of the analysis window
type LedgerRow struct {
	Month                    int      `json:"month"`
	Predicted                *float64 `json:"predicted_kwh"`
	Actual                   *float64 `json:"actual_kwh"`
	RepresentativeIrradiance *float64 `json:"representative_mj"`
	CurrentIrradiance        *float64 `json:"current_mj"`
	Ratio                    *float64 `json:"ratio"`
	Adjusted                 *float64 `json:"adjusted_kwh"`
	BestDay                  string   `json:"best_day,omitempty"` // YYYY-MM-DD
}

// DayRow is the hourly profile of the best matching day of a month
type DayRow struct {
	Month int       `json:"month"`
	Day   string    `json:"day"`
	Score *float64  `json:"score"`
	Hours []HourRow `json:"hours"`
}

type HourRow struct {
	Hour      int      `json:"hour"`
	Predicted *float64 `json:"predicted_kwh"`
	Actual    *float64 `json:"actual_kwh"`
}

// EstimateResponse lists monthly generation sums of an estimate
type EstimateResponse struct {
	Year   int        `json:"year"`
	Months []MonthRow `json:"months"`
	Total  *float64   `json:"total_kwh"`
}

type MonthRow struct {
	Year       int      `json:"year"`
	Month      int      `json:"month"`
	Generation *float64 `json:"generation_kwh"`
	Hours      int      `json:"hours"`
}

// SystemInfo represents a PV system preset
type SystemInfo struct {
	ID               string    `json:"id,omitempty"`
	Name             string    `json:"name"`
	File             string    `json:"file,omitempty"`
	CapacityKW       float64   `json:"capacity_kw"`
	LossCoefficients []float64 `json:"loss_coefficients"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Float returns nil for NaN and infinities, which JSON cannot carry.
func Float(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
