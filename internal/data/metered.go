package data

import (
	"io"
	"strings"

	"pv-forecast/internal/model"
)

// DefaultGenerationColumn is the generation column of the power monitor's
// CSV export.
const DefaultGenerationColumn = "発電"

// LoadMetered reads one metered-generation export: UTF-8 (optionally with a
// byte-order mark), timestamp in the first column, energy in column.
// Timestamps mark the start of the metered hour.
func LoadMetered(r io.Reader, column string) (model.Series, error) {
	return readIndexedColumn(Decode(r, UTF8), column, 0)
}

func LoadMeteredFile(path, column string) (model.Series, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	s, err := LoadMetered(rc, column)
	if err != nil {
		return nil, withPath(err, path)
	}
	return s, nil
}

// LoadMeteredDir loads every file in dir whose name contains ".csv", in name
// order, concatenates them and drops repeated timestamps so the file loaded
// first wins. The result is sorted and keeps the start-of-hour convention.
func LoadMeteredDir(dir, column string) (model.Series, error) {
	files, err := listFiles(dir, func(name string) bool {
		return strings.Contains(name, ".csv")
	})
	if err != nil {
		return nil, err
	}
	parts := make([]model.Series, 0, len(files))
	for _, f := range files {
		s, err := LoadMeteredFile(f, column)
		if err != nil {
			return nil, err
		}
		parts = append(parts, s)
	}
	out := model.Concat(parts...).Dedup()
	out.Sort()
	return out, nil
}
