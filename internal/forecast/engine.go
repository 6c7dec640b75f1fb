package forecast

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"pv-forecast/internal/analysis"
	"pv-forecast/internal/config"
	"pv-forecast/internal/data"
	"pv-forecast/internal/log"
	"pv-forecast/internal/model"
)

type Engine struct {
	cfg    *config.Config
	system model.System
	window model.Window
	metric analysis.DayMetric
}

// New validates cfg and returns an engine for it.
func New(cfg *config.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sys, err := cfg.ModelSystem()
	if err != nil {
		return nil, err
	}
	metric := analysis.DayRMSE
	if cfg.Analysis.DayMetric == config.DayMetricMAPE {
		metric = analysis.DayMAPE
	}
	return &Engine{cfg: cfg, system: *sys, window: cfg.Window(), metric: metric}, nil
}

func (e *Engine) Config() *config.Config { return e.cfg }

// Run executes the five stages over in and returns the combined result.
// ctx is checked between stages.
func (e *Engine) Run(ctx context.Context, in model.Inputs) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	res := &Result{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Inputs:    in,
		System:    e.system,
		Window:    e.window,
		Year:      e.cfg.HourlyYear(),
		Site:      e.cfg.Labels.Site,
		YearLabel: e.cfg.CurrentYearLabel(),
	}
	ctx = log.With(ctx, log.Ctx(ctx).With(slog.String("runID", res.RunID)))
	l := log.Ctx(ctx)
	l.Info("starting forecast run", slog.Int("year", res.Year), slog.String("window", e.window.String()))

	// Hourly table and monthly reference.
	hourly, err := data.LoadHourlyIrradianceFile(in.HourlyIrradiance, res.Year)
	if err != nil {
		return nil, fmt.Errorf("load hourly irradiance: %w", err)
	}
	res.Irradiance = hourly
	l.Debug("loaded hourly irradiance", slog.Int("samples", len(hourly)))

	ref, err := data.LoadMonthlyReferenceFile(in.MonthlyReference)
	if err != nil {
		return nil, fmt.Errorf("load monthly reference: %w", err)
	}
	if res.Reference, err = analysis.CompareReference(hourly, ref); err != nil {
		return nil, fmt.Errorf("compare reference: %w", err)
	}
	l.Info("compared monthly reference", slog.Float64("rmse", res.Reference.RMSE), slog.Float64("mape", res.Reference.MAPE))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Generation estimate.
	res.Generation = analysis.EstimateGeneration(hourly, e.system)
	l.Debug("estimated generation", slog.Float64("total_kwh", res.Generation.Hourly.Sum()))

	// Metered generation.
	metered, err := data.LoadMeteredDir(in.MeteredDir, e.cfg.Inputs.GenerationColumn)
	if err != nil {
		return nil, fmt.Errorf("load metered generation: %w", err)
	}
	res.Actual = model.HourEnding(metered)
	l.Debug("loaded metered generation", slog.Int("samples", len(metered)))
	if res.Comparison, err = analysis.CompareActual(res.Generation, res.Actual, e.window); err != nil {
		return nil, fmt.Errorf("compare metered generation: %w", err)
	}
	if res.Days, err = analysis.MatchDays(res.Generation.Hourly, res.Actual, e.window, e.metric); err != nil {
		return nil, fmt.Errorf("match days: %w", err)
	}
	l.Info("compared metered generation", slog.Float64("rmse", res.Comparison.RMSE), slog.Float64("mape", res.Comparison.MAPE))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Year adjustment.
	archive, err := data.LoadArchiveDir(in.ArchiveDir, e.cfg.Inputs.IrradianceColumn)
	if err != nil {
		return nil, fmt.Errorf("load irradiance archive: %w", err)
	}
	res.Representative, res.Current = analysis.SplitByYear(archive, e.cfg.Analysis.ThresholdYear, e.cfg.Analysis.NominalYear)
	l.Debug("split irradiance archive",
		slog.Int("representative", len(res.Representative)),
		slog.Int("current", len(res.Current)),
	)
	ratios, err := analysis.CorrectionRatios(res.Representative, res.Current, e.window)
	if err != nil {
		return nil, fmt.Errorf("correction ratios: %w", err)
	}
	if res.Adjustment, err = analysis.AdjustForYear(res.Comparison, ratios); err != nil {
		return nil, fmt.Errorf("adjust for year: %w", err)
	}

	res.FinishedAt = time.Now().UTC()
	l.Info("finished forecast run",
		slog.Float64("rmse", res.Adjustment.Unadjusted.RMSE),
		slog.Float64("rmse_adjusted", res.Adjustment.Corrected.RMSE),
		slog.Duration("elapsed", res.FinishedAt.Sub(res.StartedAt)),
	)
	return res, nil
}

// Estimate runs only the irradiance load and generation estimate.
func (e *Engine) Estimate(ctx context.Context, hourlyPath string) (*analysis.Generation, error) {
	year := e.cfg.HourlyYear()
	hourly, err := data.LoadHourlyIrradianceFile(hourlyPath, year)
	if err != nil {
		return nil, fmt.Errorf("load hourly irradiance: %w", err)
	}
	gen := analysis.EstimateGeneration(hourly, e.system)
	gen.Monthly = gen.Monthly.DropRollover()
	log.Ctx(ctx).Info("estimated generation", slog.Int("year", year), slog.Float64("total_kwh", gen.Monthly.Total()))
	return gen, nil
}
