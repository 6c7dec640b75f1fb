// Package fixture writes synthetic input files in the layouts the forecast
// loaders read. It backs the demo command and the tests.
package fixture

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"pv-forecast/internal/model"
)

// templateYear supplies the 365 (month, day) rows of the hourly table.
const templateYear = 2001

// RawFunc returns the hourly table value (0.01 MJ/m²) for hour 1..24 of a day.
type RawFunc func(month time.Month, day, hour int) float64

// Constant returns a RawFunc with the same raw value every hour.
func Constant(raw float64) RawFunc {
	return func(time.Month, int, int) float64 { return raw }
}

// Daylight returns a RawFunc shaped like a clear-sky day whose noon value is
// peak, scaled by a mild seasonal curve peaking in June.
func Daylight(peak float64) RawFunc {
	return func(m time.Month, _ int, h int) float64 {
		if h <= 6 || h >= 18 {
			return 0
		}
		season := 0.75 + 0.25*math.Cos(2*math.Pi*float64(int(m)-6)/12)
		return math.Round(peak * season * math.Sin(math.Pi*float64(h-6)/12))
	}
}

// WriteHourlyTable writes a yearly-hourly irradiance table with one row per
// day of a non-leap year.
func WriteHourlyTable(w io.Writer, raw RawFunc) error {
	cw := csv.NewWriter(w)
	header := []string{"id", "element", "month", "day", "rep_year"}
	for h := 1; h <= 24; h++ {
		header = append(header, strconv.Itoa(h))
	}
	header = append(header, "max", "min", "total", "average", "row")
	if err := cw.Write(header); err != nil {
		return err
	}
	row := 0
	for d := time.Date(templateYear, 1, 1, 0, 0, 0, 0, time.UTC); d.Year() == templateYear; d = d.AddDate(0, 0, 1) {
		row++
		rec := []string{strconv.Itoa(row), "5", strconv.Itoa(int(d.Month())), strconv.Itoa(d.Day()), "2005"}
		maxv, minv, total := math.Inf(-1), math.Inf(1), 0.0
		for h := 1; h <= 24; h++ {
			v := raw(d.Month(), d.Day(), h)
			maxv = math.Max(maxv, v)
			minv = math.Min(minv, v)
			total += v
			rec = append(rec, formatFloat(v))
		}
		rec = append(rec, formatFloat(maxv), formatFloat(minv), formatFloat(total), formatFloat(total/24), strconv.Itoa(row))
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMonthlyReference writes the monthly daily-average table.
func WriteMonthlyReference(w io.Writer, values model.MonthlyValues) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"月", "value"}); err != nil {
		return err
	}
	for m := time.January; m <= time.December; m++ {
		v, ok := values[m]
		if !ok {
			continue
		}
		if err := cw.Write([]string{strconv.Itoa(int(m)), formatFloat(v)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMetered writes a metered-generation export (UTF-8 with a byte-order
// mark) holding s in the named column.
func WriteMetered(w io.Writer, s model.Series, column string) error {
	if _, err := io.WriteString(w, "\ufeff"); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"日時", column, "消費"}); err != nil {
		return err
	}
	for _, p := range s {
		if err := cw.Write([]string{p.Time.Format("2006/01/02 15:04"), formatFloat(p.Value), "0"}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteArchive writes an irradiance archive download in Shift_JIS with the
// three preamble lines, the header and a quality-flag row.
func WriteArchive(w io.Writer, s model.Series, column string) error {
	tw := transform.NewWriter(w, japanese.ShiftJIS.NewEncoder())
	preamble := "ダウンロードした時刻：2023/10/01 12:00:00\n\n,東京,東京\n"
	if _, err := io.WriteString(tw, preamble); err != nil {
		return err
	}
	cw := csv.NewWriter(tw)
	if err := cw.Write([]string{"年月日時", column, column}); err != nil {
		return err
	}
	if err := cw.Write([]string{"", "", "品質情報"}); err != nil {
		return err
	}
	for _, p := range s {
		if err := cw.Write([]string{p.Time.Format("2006/1/2 15:04:05"), formatFloat(p.Value), "8"}); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return tw.Close()
}

// WriteFile creates path (and its directory) and fills it with write.
func WriteFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
