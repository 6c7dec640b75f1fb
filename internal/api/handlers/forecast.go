package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"pv-forecast/internal/api/models"
	"pv-forecast/internal/chart"
	"pv-forecast/internal/config"
	"pv-forecast/internal/data"
	"pv-forecast/internal/forecast"
	"pv-forecast/internal/log"
	"pv-forecast/internal/model"
	"pv-forecast/internal/observability/metrics"
	"pv-forecast/internal/report"
)

// ForecastHandler handles forecast runs and their exports
type ForecastHandler struct {
	// mu serializes runs; each one reads every input file and renders charts
	// into the shared image directory.
	mu         sync.Mutex
	cfg        *config.Config
	systemsDir string
	cache      *forecast.ResultCache
	metrics    *metrics.Metrics
}

// NewForecastHandler creates a new forecast handler. cfg is the server
// configuration requests are merged onto.
func NewForecastHandler(cfg *config.Config, systemsDir string, cache *forecast.ResultCache, m *metrics.Metrics) *ForecastHandler {
	return &ForecastHandler{cfg: cfg, systemsDir: systemsDir, cache: cache, metrics: m}
}

// RunForecast handles POST /api/v1/runs
func (h *ForecastHandler) RunForecast(c *gin.Context) {
	var req models.RunRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	cfg, err := h.buildConfig(req)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_CONFIG", err)
		return
	}
	in := mergeInputs(cfg.ModelInputs(), req.Inputs)
	if err := in.Validate(); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_INPUTS", err)
		return
	}

	key := forecast.CacheKey(in, cfg)
	if !req.Options.NoCache {
		if res, ok := h.cache.Get(key); ok {
			resp := buildRunResponse(res, req.Options.IncludeDays, nil)
			resp.Cached = true
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	engine, err := forecast.New(cfg)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_CONFIG", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	start := time.Now()
	res, err := engine.Run(c.Request.Context(), in)
	if err != nil {
		h.metrics.RecordFailure(time.Since(start))
		status, code := runErrorStatus(err)
		abortWithError(c, status, code, err)
		return
	}

	var charts []string
	if req.Options.RenderCharts {
		paths, err := chart.RenderAll(cfg.Output.ImageDir, res.Charts())
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, "CHART_ERROR", err)
			return
		}
		for _, p := range paths {
			charts = append(charts, filepath.Base(p))
		}
	}

	h.cache.Set(key, res)
	h.metrics.Record(res)
	log.Ctx(c.Request.Context()).Info("forecast run finished",
		slog.String("runID", res.RunID),
		slog.Int("charts", len(charts)),
	)
	c.JSON(http.StatusOK, buildRunResponse(res, req.Options.IncludeDays, charts))
}

// GetRun handles GET /api/v1/runs/:id. The id "latest" names the most
// recent run.
func (h *ForecastHandler) GetRun(c *gin.Context) {
	res, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, buildRunResponse(res, c.Query("days") == "true", nil))
}

// ExportRun handles GET /api/v1/runs/:id/export/:format
func (h *ForecastHandler) ExportRun(c *gin.Context) {
	res, ok := h.lookup(c)
	if !ok {
		return
	}

	var (
		body        []byte
		contentType string
		err         error
	)
	format := c.Param("format")
	switch format {
	case "csv":
		contentType = "text/csv"
		c.Header("Content-Disposition", attachment(res, "ledger.csv"))
		c.Status(http.StatusOK)
		c.Header("Content-Type", contentType)
		if err := forecast.EncodeLedgerCSV(c.Writer, res.Ledger()); err != nil {
			log.Ctx(c.Request.Context()).Error("write ledger csv", slog.Any("error", err))
		}
		return
	case "xlsx":
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		body, err = report.BuildWorkbook(res)
	case "pdf":
		contentType = "application/pdf"
		body, err = report.BuildPDF(res, h.cfg.Output.ImageDir)
	case "parquet":
		contentType = "application/vnd.apache.parquet"
		body, err = parquetBytes(res)
	default:
		abortWithError(c, http.StatusBadRequest, "INVALID_FORMAT", fmt.Errorf("unknown export format %q", format))
		return
	}
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "EXPORT_ERROR", err)
		return
	}
	c.Header("Content-Disposition", attachment(res, "forecast."+format))
	c.Data(http.StatusOK, contentType, body)
}

// GetChart handles GET /api/v1/charts/:name
func (h *ForecastHandler) GetChart(c *gin.Context) {
	name := c.Param("name")
	if name != filepath.Base(name) || filepath.Ext(name) != ".png" {
		abortWithError(c, http.StatusBadRequest, "INVALID_CHART", fmt.Errorf("invalid chart name %q", name))
		return
	}
	path := filepath.Join(h.cfg.Output.ImageDir, name)
	if _, err := os.Stat(path); err != nil {
		abortWithError(c, http.StatusNotFound, "NOT_FOUND", fmt.Errorf("chart %q not found", name))
		return
	}
	c.File(path)
}

// Estimate handles POST /api/v1/estimate
func (h *ForecastHandler) Estimate(c *gin.Context) {
	var req models.EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}
	cfg := h.cfg.Clone()
	if req.Year != 0 {
		cfg.Analysis.Year = req.Year
	}
	if req.CapacityKW != 0 {
		cfg.System.CapacityKW = req.CapacityKW
	}
	engine, err := forecast.New(cfg)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_CONFIG", err)
		return
	}
	gen, err := engine.Estimate(c.Request.Context(), req.HourlyIrradiance)
	if err != nil {
		status, code := runErrorStatus(err)
		abortWithError(c, status, code, err)
		return
	}
	c.JSON(http.StatusOK, buildEstimateResponse(cfg.HourlyYear(), gen.Monthly))
}

func (h *ForecastHandler) lookup(c *gin.Context) (*forecast.Result, bool) {
	id := c.Param("id")
	var (
		res *forecast.Result
		ok  bool
	)
	if id == "latest" {
		res = h.cache.Latest()
		ok = res != nil
	} else {
		res, ok = h.cache.Find(id)
	}
	if !ok {
		abortWithError(c, http.StatusNotFound, "NOT_FOUND", fmt.Errorf("run %q not found", id))
	}
	return res, ok
}

// buildConfig merges the request onto a copy of the server configuration.
func (h *ForecastHandler) buildConfig(req models.RunRequest) (*config.Config, error) {
	cfg := h.cfg.Clone()

	if name := req.System.SystemFile; name != "" {
		if name != filepath.Base(name) {
			return nil, fmt.Errorf("invalid system file %q", name)
		}
		sys, err := config.LoadSystemFile(filepath.Join(h.systemsDir, name))
		if err != nil {
			return nil, err
		}
		cfg.System = config.MergeSystem(cfg.System, sys)
	}
	cfg.System = config.MergeSystem(cfg.System, config.SystemConfig{
		Name:             req.System.Name,
		CapacityKW:       req.System.CapacityKW,
		LossCoefficients: req.System.LossCoefficients,
	})
	if req.Analysis.Year != 0 {
		cfg.Analysis.Year = req.Analysis.Year
	}
	if req.Analysis.DayMetric != "" {
		cfg.Analysis.DayMetric = req.Analysis.DayMetric
	}
	return cfg, cfg.Validate()
}

func mergeInputs(base model.Inputs, req models.InputsConfig) model.Inputs {
	if req.HourlyIrradiance != "" {
		base.HourlyIrradiance = req.HourlyIrradiance
	}
	if req.MonthlyReference != "" {
		base.MonthlyReference = req.MonthlyReference
	}
	if req.MeteredDir != "" {
		base.MeteredDir = req.MeteredDir
	}
	if req.ArchiveDir != "" {
		base.ArchiveDir = req.ArchiveDir
	}
	return base
}

// runErrorStatus maps a pipeline error onto an HTTP status and error code.
func runErrorStatus(err error) (int, string) {
	var schemaErr *data.SchemaError
	switch {
	case errors.Is(err, os.ErrNotExist):
		return http.StatusNotFound, "INPUT_NOT_FOUND"
	case errors.As(err, &schemaErr):
		return http.StatusUnprocessableEntity, "INVALID_INPUT"
	default:
		return http.StatusInternalServerError, "RUN_ERROR"
	}
}

func abortWithError(c *gin.Context, status int, code string, err error) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: err.Error(),
		},
	})
}

func attachment(res *forecast.Result, name string) string {
	return fmt.Sprintf("attachment; filename=%q", res.RunID+"-"+name)
}

func parquetBytes(res *forecast.Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := report.EncodeHourlyParquet(&buf, res); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
