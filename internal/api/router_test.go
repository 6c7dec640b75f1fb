package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pv-forecast/internal/api/handlers"
	"pv-forecast/internal/api/models"
	"pv-forecast/internal/config"
	"pv-forecast/internal/fixture"
	"pv-forecast/internal/forecast"
	"pv-forecast/internal/observability/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	in, err := fixture.Dataset(t.TempDir(), fixture.DefaultDatasetOptions())
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Analysis.Year = 2023
	cfg.Inputs.HourlyIrradiance = in.HourlyIrradiance
	cfg.Inputs.MonthlyReference = in.MonthlyReference
	cfg.Inputs.MeteredDir = in.MeteredDir
	cfg.Inputs.ArchiveDir = in.ArchiveDir
	cfg.Output.ImageDir = t.TempDir()

	systemsDir := filepath.Join("..", "..", "examples", "systems")
	m := metrics.New()
	return NewRouter(
		handlers.NewForecastHandler(cfg, systemsDir, forecast.NewResultCache(time.Hour), m),
		handlers.NewSystemHandler(cfg, systemsDir),
		m.Registry(),
	)
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	w := do(t, r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRunForecast(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/v1/runs", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	first := decode[models.RunResponse](t, w)
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.Cached)
	assert.Equal(t, models.MonthWindow{From: 3, To: 9}, first.Window)
	require.Len(t, first.Ledger, 7)
	assert.Equal(t, "2023-03-01", first.Ledger[0].BestDay)
	require.NotNil(t, first.Summary.UnadjustedMAPE)
	assert.InDelta(t, 0.05/0.95, *first.Summary.UnadjustedMAPE, 1e-9)
	require.NotNil(t, first.Summary.AdjustedMAPE)
	assert.InDelta(t, 0.15/0.95, *first.Summary.AdjustedMAPE, 1e-9)
	assert.Empty(t, first.Days)

	w = do(t, r, http.MethodPost, "/api/v1/runs", `{"options":{"include_days":true}}`)
	require.Equal(t, http.StatusOK, w.Code)
	second := decode[models.RunResponse](t, w)
	assert.True(t, second.Cached)
	assert.Equal(t, first.ID, second.ID)
	require.Len(t, second.Days, 7)
	assert.Len(t, second.Days[0].Hours, 24)

	w = do(t, r, http.MethodGet, "/api/v1/runs/latest", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, first.ID, decode[models.RunResponse](t, w).ID)

	w = do(t, r, http.MethodGet, "/api/v1/runs/"+first.ID, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/api/v1/runs/unknown", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode[models.ErrorResponse](t, w).Error.Code)
}

func TestRunForecastOverrides(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/v1/runs", `{"system":{"system_file":"rooftop-8.5kw-autumn.yaml"},"analysis":{"day_metric":"mape"}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[models.RunResponse](t, w)
	assert.Equal(t, 0.80, resp.System.LossCoefficients[8])

	w = do(t, r, http.MethodPost, "/api/v1/runs", `{"system":{"system_file":"../config.yaml"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/api/v1/runs", `{"analysis":{"day_metric":"mae"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/api/v1/runs", `{"system":{"capacity_kw":-1}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_CONFIG", decode[models.ErrorResponse](t, w).Error.Code)

	w = do(t, r, http.MethodPost, "/api/v1/runs", `{"inputs":{"hourly_irradiance":"/nonexistent/hourly.csv"},"options":{"no_cache":true}}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "INPUT_NOT_FOUND", decode[models.ErrorResponse](t, w).Error.Code)

	w = do(t, r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `pvforecast_runs_total{result="error"} 1`)
	assert.Contains(t, w.Body.String(), `pvforecast_runs_total{result="success"} 1`)
}

func TestExportRun(t *testing.T) {
	r := newTestRouter(t)
	require.Equal(t, http.StatusOK, do(t, r, http.MethodPost, "/api/v1/runs", "").Code)

	w := do(t, r, http.MethodGet, "/api/v1/runs/latest/export/csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "month,predicted_kwh"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "ledger.csv")

	w = do(t, r, http.MethodGet, "/api/v1/runs/latest/export/xlsx", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))

	w = do(t, r, http.MethodGet, "/api/v1/runs/latest/export/pdf", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	w = do(t, r, http.MethodGet, "/api/v1/runs/latest/export/parquet", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PAR1")))

	w = do(t, r, http.MethodGet, "/api/v1/runs/latest/export/doc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCharts(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/v1/runs", `{"options":{"render_charts":true}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[models.RunResponse](t, w)
	require.Len(t, resp.Charts, 11)
	assert.Equal(t, forecast.ReferenceChartFile, resp.Charts[0])

	w = do(t, r, http.MethodGet, "/api/v1/charts/"+url.PathEscape(resp.Charts[0]), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))

	w = do(t, r, http.MethodGet, "/api/v1/charts/missing.png", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodGet, "/api/v1/charts/notes.txt", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEstimate(t *testing.T) {
	dir := t.TempDir()
	in, err := fixture.Dataset(dir, fixture.DefaultDatasetOptions())
	require.NoError(t, err)
	r := newTestRouter(t)

	body, err := json.Marshal(models.EstimateRequest{HourlyIrradiance: in.HourlyIrradiance, Year: 2023})
	require.NoError(t, err)
	w := do(t, r, http.MethodPost, "/api/v1/estimate", string(body))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[models.EstimateResponse](t, w)
	assert.Equal(t, 2023, resp.Year)
	require.Len(t, resp.Months, 12)
	assert.Equal(t, 1, resp.Months[0].Month)
	require.NotNil(t, resp.Total)
	assert.Positive(t, *resp.Total)

	w = do(t, r, http.MethodPost, "/api/v1/estimate", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSystems(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/api/v1/systems", "")
	require.Equal(t, http.StatusOK, w.Code)
	systems := decode[struct {
		Systems []models.SystemInfo `json:"systems"`
		Count   int                 `json:"count"`
	}](t, w)
	require.Equal(t, 2, systems.Count)
	assert.Equal(t, "rooftop-8.5kw", systems.Systems[0].ID)
	assert.Equal(t, "rooftop-8.5kw-autumn", systems.Systems[1].ID)

	w = do(t, r, http.MethodGet, "/api/v1/system", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"capacity_kw":8.5`)

	w = do(t, r, http.MethodGet, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
