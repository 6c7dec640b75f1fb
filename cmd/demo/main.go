package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"pv-forecast/internal/chart"
	"pv-forecast/internal/config"
	"pv-forecast/internal/fixture"
	"pv-forecast/internal/forecast"
	"pv-forecast/internal/report"
)

// Demo:
// - Write a synthetic dataset (hourly table, monthly reference, metered
//   exports, irradiance archive) into a directory
// - Run the full forecast over it to show how the stages fit together
func main() {
	dir := flag.String("dir", "", "Directory for the synthetic dataset (default: a temporary directory)")
	cfgPath := flag.String("config", "", "Path to YAML config (optional)")
	imgDir := flag.String("img", "", "Optional chart output directory")
	meteredFactor := flag.Float64("metered-factor", 0.95, "Metered generation as a fraction of the prediction")
	ratio := flag.Float64("ratio", 1.1, "Current-year irradiance as a fraction of the representative years")
	flag.Parse()

	if *dir == "" {
		tmp, err := os.MkdirTemp("", "pvforecast-demo")
		if err != nil {
			panic(err)
		}
		defer os.RemoveAll(tmp)
		*dir = tmp
	}

	// Defaults (can be overridden via --config).
	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			panic(err)
		}
	}

	opt := fixture.DefaultDatasetOptions()
	opt.MeteredFactor = *meteredFactor
	opt.CurrentRatio = *ratio
	opt.ThresholdYear = cfg.Analysis.ThresholdYear
	opt.NominalYear = cfg.Analysis.NominalYear
	opt.Year = cfg.Analysis.ThresholdYear
	cfg.Analysis.Year = opt.Year
	sys, err := cfg.ModelSystem()
	if err != nil {
		panic(err)
	}
	opt.System = *sys

	in, err := fixture.Dataset(*dir, opt)
	if err != nil {
		panic(err)
	}
	fmt.Printf("Wrote synthetic dataset to %s\n\n", *dir)

	engine, err := forecast.New(cfg)
	if err != nil {
		panic(err)
	}
	res, err := engine.Run(context.Background(), in)
	if err != nil {
		panic(err)
	}
	if err := report.PrintSummary(os.Stdout, res); err != nil {
		panic(err)
	}

	if *imgDir != "" {
		paths, err := chart.RenderAll(*imgDir, res.Charts())
		if err != nil {
			panic(err)
		}
		fmt.Printf("\nWrote %d charts to %s\n", len(paths), *imgDir)
	}
}
