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

// LoadMonthlyReference reads the monthly daily-average table: a header row,
// then one row per month with the month number first and the value second.
func LoadMonthlyReference(r io.Reader) (model.MonthlyValues, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	out := model.MonthlyValues{}
	for n := 0; ; n++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if n == 0 {
			continue
		}
		line, _ := cr.FieldPos(0)
		if len(rec) < 2 {
			return nil, &SchemaError{Line: line, Detail: fmt.Sprintf("expected month and value columns, got %d columns", len(rec))}
		}
		m, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			return nil, fmt.Errorf("line %d month: %w", line, err)
		}
		if m < 1 || m > 12 {
			return nil, &SchemaError{Line: line, Detail: fmt.Sprintf("month %d out of range", m)}
		}
		if _, dup := out[time.Month(m)]; dup {
			return nil, &SchemaError{Line: line, Detail: fmt.Sprintf("month %d listed twice", m)}
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d value: %w", line, err)
		}
		out[time.Month(m)] = v
	}
	return out, nil
}

func LoadMonthlyReferenceFile(path string) (model.MonthlyValues, error) {
	r, closeFn, err := OpenText(path, UTF8)
	if err != nil {
		return nil, err
	}
	defer closeFn()
	v, err := LoadMonthlyReference(r)
	if err != nil {
		return nil, withPath(err, path)
	}
	return v, nil
}
