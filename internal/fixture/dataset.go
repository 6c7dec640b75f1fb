package fixture

import (
	"io"
	"path/filepath"
	"time"

	"pv-forecast/internal/model"
)

// DatasetOptions shapes a synthetic dataset.
type DatasetOptions struct {
	// Year places the hourly table and the metered data on the calendar.
	Year int
	// Peak is the noon value of the hourly table in 0.01 MJ/m².
	Peak float64
	// System converts irradiance into the metered generation.
	System model.System
	// MeteredFactor scales the predicted generation into the metered values.
	MeteredFactor float64
	// ReferenceFactor scales the computed monthly averages into the reference.
	ReferenceFactor float64
	// CurrentRatio is the current-year over representative-year irradiance.
	CurrentRatio float64
	// ThresholdYear separates representative years from the current year.
	ThresholdYear int
	// NominalYear is where representative years are pooled.
	NominalYear int
}

// DefaultDatasetOptions returns options for a well-formed dataset whose
// metered generation sits 5% under the prediction and whose current year is
// 10% sunnier than the representative one.
func DefaultDatasetOptions() DatasetOptions {
	return DatasetOptions{
		Year:            2023,
		Peak:            300,
		System:          model.DefaultSystem(),
		MeteredFactor:   0.95,
		ReferenceFactor: 1.02,
		CurrentRatio:    1.1,
		ThresholdYear:   2023,
		NominalYear:     2020,
	}
}

// Dataset writes a complete set of inputs under dir and returns their paths.
func Dataset(dir string, opt DatasetOptions) (model.Inputs, error) {
	in := model.Inputs{
		HourlyIrradiance: filepath.Join(dir, "hourly.csv"),
		MonthlyReference: filepath.Join(dir, "monthly.csv"),
		MeteredDir:       filepath.Join(dir, "metered"),
		ArchiveDir:       filepath.Join(dir, "archive"),
	}
	raw := Daylight(opt.Peak)

	if err := WriteFile(in.HourlyIrradiance, func(w io.Writer) error {
		return WriteHourlyTable(w, raw)
	}); err != nil {
		return in, err
	}

	// The reference is derived from the same table so the comparison is close.
	hourly := hourlySeries(opt.Year, raw)
	ref := model.MonthlyValues{}
	for _, b := range model.GroupMonthly(hourly).DropRollover() {
		ref[b.Month] = b.DailyAverage() * opt.ReferenceFactor
	}
	if err := WriteFile(in.MonthlyReference, func(w io.Writer) error {
		return WriteMonthlyReference(w, ref)
	}); err != nil {
		return in, err
	}

	// Metered data is stamped at the start of the hour, so it is the hour
	// ending prediction moved back one hour. Two files overlap by one day.
	var metered model.Series
	for _, p := range hourly {
		if p.Time.Month() < time.February || p.Time.Month() > time.October || p.Time.Year() != opt.Year {
			continue
		}
		metered = append(metered, model.Point{
			Time:  p.Time.Add(-time.Hour),
			Value: opt.System.Generation(p.Time, p.Value) * opt.MeteredFactor,
		})
	}
	split := time.Date(opt.Year, time.June, 1, 0, 0, 0, 0, time.UTC)
	var first, second model.Series
	for _, p := range metered {
		if p.Time.Before(split.AddDate(0, 0, 1)) {
			first = append(first, p)
		}
		if !p.Time.Before(split) {
			second = append(second, p)
		}
	}
	if err := WriteFile(filepath.Join(in.MeteredDir, "gen_1.csv"), func(w io.Writer) error {
		return WriteMetered(w, first, "発電")
	}); err != nil {
		return in, err
	}
	if err := WriteFile(filepath.Join(in.MeteredDir, "gen_2.csv"), func(w io.Writer) error {
		return WriteMetered(w, second, "発電")
	}); err != nil {
		return in, err
	}
	if err := WriteFile(filepath.Join(in.MeteredDir, "notes.txt"), func(w io.Writer) error {
		_, err := io.WriteString(w, "not a csv\n")
		return err
	}); err != nil {
		return in, err
	}

	// Archive: two representative years and the current year, one noon value
	// per day.
	for _, y := range []int{opt.ThresholdYear - 5, opt.ThresholdYear - 4, opt.ThresholdYear} {
		factor := 1.0
		if y >= opt.ThresholdYear {
			// two representative years are pooled into one nominal year
			factor = 2 * opt.CurrentRatio
		}
		var s model.Series
		for d := time.Date(y, 1, 1, 12, 0, 0, 0, time.UTC); d.Year() == y; d = d.AddDate(0, 0, 1) {
			s = append(s, model.Point{Time: d, Value: 10 * factor})
		}
		path := filepath.Join(in.ArchiveDir, "data_"+time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006")+".csv")
		if err := WriteFile(path, func(w io.Writer) error {
			return WriteArchive(w, s, "日射量(MJ/㎡)")
		}); err != nil {
			return in, err
		}
	}
	return in, nil
}

// hourlySeries mirrors the loader: hour h of each template row is stamped
// date+h hours on the given year, in kWh/m².
func hourlySeries(year int, raw RawFunc) model.Series {
	var s model.Series
	for d := time.Date(templateYear, 1, 1, 0, 0, 0, 0, time.UTC); d.Year() == templateYear; d = d.AddDate(0, 0, 1) {
		date := time.Date(year, d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		for h := 1; h <= 24; h++ {
			s = append(s, model.Point{Time: date.Add(time.Duration(h) * time.Hour), Value: model.RawToKWh(raw(d.Month(), d.Day(), h))})
		}
	}
	return s
}
