package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"pv-forecast/internal/model"
)

// Column layout of the yearly-hourly irradiance table: row id, element code,
// month, day, representative year, hours 1..24, then max/min/total/average/
// row number which are ignored.
const (
	hourlyMonthCol     = 2
	hourlyDayCol       = 3
	hourlyFirstHourCol = 5
	hoursPerDay        = 24
	hourlyMinColumns   = hourlyFirstHourCol + hoursPerDay
)

// LoadHourlyIrradiance reshapes the yearly-hourly irradiance table into an
// hourly series in kWh/m², sorted by time. The table has one row per
// (month, day) of a representative year; year places those rows on the
// calendar.
//
// Hour h of a row is stamped date+h hours, so "hour 24" lands on 00:00 of the
// following day and the value covers the hour ending at the timestamp.
func LoadHourlyIrradiance(r io.Reader, year int) (model.Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	var out model.Series
	for n := 0; ; n++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if n == 0 {
			continue // header
		}
		line, _ := cr.FieldPos(0)
		if len(rec) < hourlyMinColumns {
			return nil, &SchemaError{Line: line, Detail: fmt.Sprintf("expected at least %d columns, got %d", hourlyMinColumns, len(rec))}
		}
		month, err := strconv.Atoi(strings.TrimSpace(rec[hourlyMonthCol]))
		if err != nil {
			return nil, fmt.Errorf("line %d month: %w", line, err)
		}
		day, err := strconv.Atoi(strings.TrimSpace(rec[hourlyDayCol]))
		if err != nil {
			return nil, fmt.Errorf("line %d day: %w", line, err)
		}
		date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		if int(date.Month()) != month || date.Day() != day {
			return nil, &SchemaError{Line: line, Detail: fmt.Sprintf("invalid date %d-%02d-%02d", year, month, day)}
		}
		for h := 1; h <= hoursPerDay; h++ {
			col := hourlyFirstHourCol + h - 1
			raw, err := strconv.ParseFloat(strings.TrimSpace(rec[col]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d column %d: %w", line, col+1, err)
			}
			out = append(out, model.Point{
				Time:  date.Add(time.Duration(h) * time.Hour),
				Value: model.RawToKWh(raw),
			})
		}
	}
	out.Sort()
	return out, nil
}

// LoadHourlyIrradianceFile opens path and calls LoadHourlyIrradiance.
func LoadHourlyIrradianceFile(path string, year int) (model.Series, error) {
	r, closeFn, err := OpenText(path, UTF8)
	if err != nil {
		return nil, err
	}
	defer closeFn()
	s, err := LoadHourlyIrradiance(r, year)
	if err != nil {
		return nil, withPath(err, path)
	}
	return s, nil
}
