package report

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"pv-forecast/internal/chart"
	"pv-forecast/internal/config"
	"pv-forecast/internal/fixture"
	"pv-forecast/internal/forecast"
)

func runDataset(t *testing.T) *forecast.Result {
	t.Helper()
	in, err := fixture.Dataset(t.TempDir(), fixture.DefaultDatasetOptions())
	require.NoError(t, err)
	cfg := config.Default()
	cfg.Analysis.Year = 2023
	e, err := forecast.New(cfg)
	require.NoError(t, err)
	res, err := e.Run(context.Background(), in)
	require.NoError(t, err)
	return res
}

func TestPrintSummary(t *testing.T) {
	res := runDataset(t)
	var buf bytes.Buffer
	require.NoError(t, PrintSummary(&buf, res))

	out := buf.String()
	assert.Contains(t, out, "RMSE[kWh/m2]")
	assert.Contains(t, out, "RMSE[kWh]")
	assert.Contains(t, out, "MAPE[%]")
	// 0.05/0.95 and 0.15/0.95 in percent
	assert.Contains(t, out, "5.263, 15.789")
	assert.Contains(t, out, "2023-03-01")
}

func TestPrintEstimate(t *testing.T) {
	res := runDataset(t)
	var buf bytes.Buffer
	require.NoError(t, PrintEstimate(&buf, res.Generation.Monthly))
	assert.Contains(t, buf.String(), "2023-01")
	assert.Contains(t, buf.String(), "total")
}

func TestBuildWorkbook(t *testing.T) {
	res := runDataset(t)
	// a non-finite value must not break the workbook
	res.Adjustment.Ratios[0].Ratio = math.Inf(1)

	raw, err := BuildWorkbook(res)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SummarySheet, MonthlySheet, ReferenceSheet, DaysSheet}, f.GetSheetList())

	rows, err := f.GetRows(MonthlySheet)
	require.NoError(t, err)
	require.Len(t, rows, 8)
	assert.Equal(t, "Month", rows[0][0])
	assert.Equal(t, "3", rows[1][0])
	assert.Equal(t, "+Inf", rows[1][5])

	rows, err = f.GetRows(ReferenceSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 13)

	rows, err = f.GetRows(DaysSheet)
	require.NoError(t, err)
	require.Len(t, rows, 8)
	assert.Equal(t, "2023-03-01", rows[1][1])
}

func TestBuildPDF(t *testing.T) {
	res := runDataset(t)
	imgDir := t.TempDir()
	specs := res.Charts()
	_, err := chart.RenderAll(imgDir, specs[:1])
	require.NoError(t, err)

	withCharts, err := BuildPDF(res, imgDir)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(withCharts, []byte("%PDF")))

	plain, err := BuildPDF(res, "")
	require.NoError(t, err)
	assert.Greater(t, len(withCharts), len(plain))
}

func TestHourlyParquetRoundTrip(t *testing.T) {
	res := runDataset(t)
	path := filepath.Join(t.TempDir(), "hourly.parquet")
	require.NoError(t, WriteHourlyParquet(path, res))

	rows, err := ReadHourlyParquet(path)
	require.NoError(t, err)
	require.Len(t, rows, len(res.Generation.Hourly))

	// January has no metered data in the fixture
	assert.Nil(t, rows[12].Actual)
	assert.Equal(t, res.Generation.Hourly[0].Time.UnixMilli(), rows[0].TimeMillis)

	withActual := 0
	for _, r := range rows {
		if r.Actual != nil {
			withActual++
		}
	}
	assert.Positive(t, withActual)
}

func TestEncodeHourlyParquet(t *testing.T) {
	res := runDataset(t)
	var buf bytes.Buffer
	require.NoError(t, EncodeHourlyParquet(&buf, res))

	rows, err := parquet.Read[HourlyRow](bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, rows, len(res.Generation.Hourly))
	assert.Equal(t, res.Generation.Hourly[5].Value, rows[5].Predicted)
}

func TestWriteAll(t *testing.T) {
	res := runDataset(t)
	dir := filepath.Join(t.TempDir(), "out")
	paths, err := WriteAll(dir, res, "")
	require.NoError(t, err)
	require.Len(t, paths, 5)
	for _, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size(), p)
	}
	assert.Equal(t, filepath.Join(dir, PDFFile), paths[4])
}
