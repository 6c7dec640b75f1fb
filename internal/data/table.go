package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"pv-forecast/internal/model"
)

// readIndexedColumn reads a CSV whose first record is a header. Column 0 is
// the timestamp index and the value comes from the named column. Rows with
// an empty index are skipped. lineOffset is added to reported line numbers.
func readIndexedColumn(r io.Reader, column string, lineOffset int) (model.Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &SchemaError{Line: lineOffset + 1, Detail: "missing header row"}
	}
	if err != nil {
		return nil, err
	}
	col := -1
	for i, h := range header {
		if strings.TrimSpace(h) == column {
			col = i
			break
		}
	}
	if col <= 0 {
		line, _ := cr.FieldPos(0)
		return nil, &SchemaError{Line: lineOffset + line, Detail: fmt.Sprintf("column %q not found in header %q", column, header)}
	}

	var out model.Series
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		line += lineOffset
		if strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) <= col {
			return nil, &SchemaError{Line: line, Detail: fmt.Sprintf("expected at least %d columns, got %d", col+1, len(rec))}
		}
		ts, err := ParseTimestamp(rec[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		v, err := parseValue(rec[col])
		if err != nil {
			return nil, fmt.Errorf("line %d column %q: %w", line, column, err)
		}
		out = append(out, model.Point{Time: ts, Value: v})
	}
	return out, nil
}

// listFiles returns the regular files of dir accepted by match, sorted by
// name.
func listFiles(dir string, match func(name string) bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !match(e.Name()) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no csv files in %s", dir)
	}
	return out, nil
}
