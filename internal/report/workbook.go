package report

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"

	"pv-forecast/internal/forecast"
)

// Workbook sheet names.
const (
	SummarySheet   = "summary"
	MonthlySheet   = "monthly"
	ReferenceSheet = "reference"
	DaysSheet      = "best_days"
)

// cell keeps non-finite numbers readable; excelize would write them as
// numeric cells spreadsheet tools reject.
func cell(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return v
}

// BuildWorkbook renders the run as an XLSX workbook.
func BuildWorkbook(r *forecast.Result) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, err
	}
	for _, name := range []string{MonthlySheet, ReferenceSheet, DaysSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}

	summary := [][]any{
		{"PV generation forecast"},
		{},
		{"Run", r.RunID},
		{"Started", r.StartedAt.Format("2006-01-02 15:04:05")},
		{"Year", r.Year},
		{"Window", r.Window.String()},
		{"Capacity (kW)", r.System.CapacityKW},
		{"Site", r.Site},
	}
	if r.Reference != nil {
		summary = append(summary,
			[]any{"Reference RMSE (kWh/m2)", cell(r.Reference.RMSE)},
			[]any{"Reference MAPE (%)", cell(r.Reference.MAPE * 100)},
		)
	}
	if r.Adjustment != nil {
		summary = append(summary,
			[]any{"RMSE unadjusted (kWh)", cell(r.Adjustment.Unadjusted.RMSE)},
			[]any{"RMSE adjusted (kWh)", cell(r.Adjustment.Corrected.RMSE)},
			[]any{"MAPE unadjusted (%)", cell(r.Adjustment.Unadjusted.MAPE * 100)},
			[]any{"MAPE adjusted (%)", cell(r.Adjustment.Corrected.MAPE * 100)},
		)
	}
	if err := writeRows(f, SummarySheet, summary); err != nil {
		return nil, err
	}

	monthly := [][]any{{"Month", "Predicted (kWh)", "Actual (kWh)", "Representative (MJ/m2)", "Current (MJ/m2)", "Ratio", "Adjusted (kWh)"}}
	for _, row := range r.Ledger() {
		monthly = append(monthly, []any{
			int(row.Month), cell(row.Predicted), cell(row.Actual),
			cell(row.RepresentativeIrradiance), cell(row.CurrentIrradiance), cell(row.Ratio), cell(row.Adjusted),
		})
	}
	if err := writeRows(f, MonthlySheet, monthly); err != nil {
		return nil, err
	}

	reference := [][]any{{"Month", "Hourly table (kWh/m2/day)", "Reference (kWh/m2/day)"}}
	if r.Reference != nil {
		for _, row := range r.Reference.Rows {
			reference = append(reference, []any{int(row.Month), cell(row.Predicted), cell(row.Observed)})
		}
	}
	if err := writeRows(f, ReferenceSheet, reference); err != nil {
		return nil, err
	}

	days := [][]any{{"Month", "Day", "Hours", "Score"}}
	for _, d := range r.Days {
		days = append(days, []any{int(d.Month), d.Best.Day.Format("2006-01-02"), d.Best.Hours, cell(d.Best.Score)})
	}
	if err := writeRows(f, DaysSheet, days); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
