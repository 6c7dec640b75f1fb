package data

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"pv-forecast/internal/model"
)

// DefaultIrradianceColumn is the irradiance column of the weather archive
// download, in MJ/m².
const DefaultIrradianceColumn = "日射量(MJ/㎡)"

// archivePreambleLines precede the header of an archive download.
const archivePreambleLines = 3

// LoadArchive reads one irradiance archive download. The file is Shift_JIS
// (code page 932); the first three lines are a preamble, the fourth is the
// header. Values stay in MJ/m².
func LoadArchive(r io.Reader, column string) (model.Series, error) {
	br := bufio.NewReader(Decode(r, ShiftJIS))
	for i := 0; i < archivePreambleLines; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if err == io.EOF {
				return nil, &SchemaError{Line: i + 1, Detail: "file ends inside the preamble"}
			}
			return nil, err
		}
	}
	return readIndexedColumn(br, column, archivePreambleLines)
}

func LoadArchiveFile(path, column string) (model.Series, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	s, err := LoadArchive(rc, column)
	if err != nil {
		return nil, withPath(err, path)
	}
	return s, nil
}

// LoadArchiveDir loads every file in dir whose name contains "csv", in name
// order, and returns the concatenation sorted by time. Duplicates are kept.
func LoadArchiveDir(dir, column string) (model.Series, error) {
	files, err := listFiles(dir, func(name string) bool {
		return strings.Contains(name, "csv")
	})
	if err != nil {
		return nil, err
	}
	parts := make([]model.Series, 0, len(files))
	for _, f := range files {
		s, err := LoadArchiveFile(f, column)
		if err != nil {
			return nil, fmt.Errorf("load archive: %w", err)
		}
		parts = append(parts, s)
	}
	out := model.Concat(parts...)
	out.Sort()
	return out, nil
}
