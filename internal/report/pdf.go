package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"pv-forecast/internal/forecast"
)

// BuildPDF renders a summary PDF: the metrics, the monthly ledger and every
// chart of the run found in imgDir.
func BuildPDF(r *forecast.Result, imgDir string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "PV Generation Forecast")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Run: %s", r.RunID))
	pdf.Ln(5)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Site: %s  Year: %d  Window: %s", r.Site, r.Year, r.Window)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Capacity (kW): %.2f", r.System.CapacityKW))
	pdf.Ln(8)

	if r.Reference != nil {
		pdf.Cell(0, 6, fmt.Sprintf("Reference RMSE (kWh/m2): %.3f  MAPE (%%): %.3f", r.Reference.RMSE, r.Reference.MAPE*100))
		pdf.Ln(5)
	}
	if a := r.Adjustment; a != nil {
		pdf.Cell(0, 6, fmt.Sprintf("RMSE (kWh): %.3f unadjusted, %.3f adjusted", a.Unadjusted.RMSE, a.Corrected.RMSE))
		pdf.Ln(5)
		pdf.Cell(0, 6, fmt.Sprintf("MAPE (%%): %.3f unadjusted, %.3f adjusted", a.Unadjusted.MAPE*100, a.Corrected.MAPE*100))
		pdf.Ln(8)
	}

	// Ledger table
	pdf.SetFont("Arial", "B", 10)
	for _, h := range []string{"Month", "Predicted", "Actual", "Ratio", "Adjusted"} {
		pdf.CellFormat(34, 6, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, row := range r.Ledger() {
		pdf.CellFormat(34, 6, fmt.Sprintf("%d", int(row.Month)), "1", 0, "C", false, 0, "")
		pdf.CellFormat(34, 6, fmt.Sprintf("%.3f", row.Predicted), "1", 0, "R", false, 0, "")
		pdf.CellFormat(34, 6, fmt.Sprintf("%.3f", row.Actual), "1", 0, "R", false, 0, "")
		pdf.CellFormat(34, 6, fmt.Sprintf("%.3f", row.Ratio), "1", 0, "R", false, 0, "")
		pdf.CellFormat(34, 6, fmt.Sprintf("%.3f", row.Adjusted), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	if imgDir != "" {
		for _, spec := range r.Charts() {
			path := filepath.Join(imgDir, spec.File)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			pdf.AddPage()
			pdf.Cell(0, 6, tr(spec.File))
			pdf.Ln(8)
			pdf.ImageOptions(path, 10, pdf.GetY(), 180, 0, false, gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
