package report

import (
	"io"
	"math"

	"github.com/parquet-go/parquet-go"

	"pv-forecast/internal/forecast"
)

// HourlyRow is one hour of the Parquet export. Actual is null where no
// metered value exists.
type HourlyRow struct {
	TimeMillis int64    `parquet:"time_ms"`
	Irradiance float64  `parquet:"irradiance_kwh_m2"`
	Predicted  float64  `parquet:"predicted_kwh"`
	Actual     *float64 `parquet:"actual_kwh,optional"`
}

// HourlyRows joins the hourly irradiance, prediction and metered generation.
func HourlyRows(r *forecast.Result) []HourlyRow {
	actual := r.Actual.Lookup()
	out := make([]HourlyRow, len(r.Generation.Hourly))
	for i, p := range r.Generation.Hourly {
		row := HourlyRow{
			TimeMillis: p.Time.UnixMilli(),
			Predicted:  p.Value,
		}
		if i < len(r.Irradiance) {
			row.Irradiance = r.Irradiance[i].Value
		}
		if v, ok := actual[p.Time]; ok && !math.IsNaN(v) {
			row.Actual = &v
		}
		out[i] = row
	}
	return out
}

// EncodeHourlyParquet writes the hourly rows of r as a Parquet file to w.
func EncodeHourlyParquet(w io.Writer, r *forecast.Result) error {
	return parquet.Write(w, HourlyRows(r))
}

func WriteHourlyParquet(path string, r *forecast.Result) error {
	return parquet.WriteFile(path, HourlyRows(r))
}

func ReadHourlyParquet(path string) ([]HourlyRow, error) {
	return parquet.ReadFile[HourlyRow](path)
}
