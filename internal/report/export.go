package report

import (
	"fmt"
	"os"
	"path/filepath"

	"pv-forecast/internal/forecast"
)

// Export file names written by WriteAll.
const (
	LedgerFile   = "ledger.csv"
	HourlyFile   = "hourly.csv"
	ParquetFile  = "hourly.parquet"
	WorkbookFile = "forecast.xlsx"
	PDFFile      = "forecast.pdf"
)

// WriteAll writes every export of r into dir and returns the written paths.
// Charts already rendered into imgDir are embedded in the PDF.
func WriteAll(dir string, r *forecast.Result, imgDir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	var paths []string

	path := filepath.Join(dir, LedgerFile)
	if err := forecast.WriteLedgerCSV(path, r.Ledger()); err != nil {
		return paths, fmt.Errorf("write ledger: %w", err)
	}
	paths = append(paths, path)

	path = filepath.Join(dir, HourlyFile)
	if err := writeHourlyCSV(path, r); err != nil {
		return paths, fmt.Errorf("write hourly csv: %w", err)
	}
	paths = append(paths, path)

	path = filepath.Join(dir, ParquetFile)
	if err := WriteHourlyParquet(path, r); err != nil {
		return paths, fmt.Errorf("write parquet: %w", err)
	}
	paths = append(paths, path)

	xlsx, err := BuildWorkbook(r)
	if err != nil {
		return paths, fmt.Errorf("build workbook: %w", err)
	}
	path = filepath.Join(dir, WorkbookFile)
	if err := os.WriteFile(path, xlsx, 0o644); err != nil {
		return paths, err
	}
	paths = append(paths, path)

	pdf, err := BuildPDF(r, imgDir)
	if err != nil {
		return paths, fmt.Errorf("build pdf: %w", err)
	}
	path = filepath.Join(dir, PDFFile)
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return paths, err
	}
	paths = append(paths, path)

	return paths, nil
}

func writeHourlyCSV(path string, r *forecast.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := forecast.WriteHourlyCSV(f, r); err != nil {
		return err
	}
	return f.Close()
}
