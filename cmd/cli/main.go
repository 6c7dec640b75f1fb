package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"pv-forecast/internal/analysis"
	"pv-forecast/internal/chart"
	"pv-forecast/internal/config"
	"pv-forecast/internal/data"
	"pv-forecast/internal/forecast"
	"pv-forecast/internal/log"
	"pv-forecast/internal/model"
	"pv-forecast/internal/report"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "run":
		cmdRun(os.Args[2:])
	case "estimate":
		cmdEstimate(os.Args[2:])
	case "inspect":
		cmdInspect(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli run --config examples/config.yaml [hourly.csv monthly.csv metered_dir archive_dir]")
	fmt.Println("  cli estimate --config examples/config.yaml --year 2023 hourly.csv")
	fmt.Println("  cli inspect --config examples/config.yaml hourly.csv")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - run compares the hourly table with the monthly reference and metered generation,")
	fmt.Println("    then corrects the prediction for the current year's irradiance")
	fmt.Println("  - input paths on the command line override the inputs section of the config")
	fmt.Println("  - charts are written to --img (default: output.image_dir)")
	fmt.Println("  - inputs ending in .gz or .zst are decompressed")
}

// setLogLevel applies a --log-level flag value.
func setLogLevel(name string) {
	level, err := log.ParseLevel(name)
	if err != nil {
		panic(err)
	}
	log.SetDefaultLogLevel(level)
}

func loadConfig(path string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// applyYear overrides the hourly table year when --year is set. Unset, every
// subcommand uses cfg.HourlyYear.
func applyYear(cfg *config.Config, year int) {
	if year != 0 {
		cfg.Analysis.Year = year
	}
}

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config (optional)")
	imgDir := fs.String("img", "", "Chart output directory (default: output.image_dir)")
	outDir := fs.String("out", "", "Optional directory for ledger CSV, Parquet, XLSX and PDF exports")
	year := fs.Int("year", 0, "Calendar year of the hourly table (default: analysis.year, else analysis.threshold_year)")
	dayMetric := fs.String("day-metric", "", "Best day ranking: rmse or mape (default: analysis.day_metric)")
	noCharts := fs.Bool("no-charts", false, "Skip chart rendering")
	logLevel := fs.String("log-level", "warn", "Log level (debug, info, warn, error)")
	_ = fs.Parse(args)
	setLogLevel(*logLevel)

	cfg := loadConfig(*cfgPath)
	applyYear(cfg, *year)
	if *dayMetric != "" {
		cfg.Analysis.DayMetric = *dayMetric
	}
	if *imgDir != "" {
		cfg.Output.ImageDir = *imgDir
	}
	if *outDir != "" {
		cfg.Output.ReportDir = *outDir
	}

	in := cfg.ModelInputs()
	switch fs.NArg() {
	case 0:
	case 4:
		in = model.Inputs{
			HourlyIrradiance: fs.Arg(0),
			MonthlyReference: fs.Arg(1),
			MeteredDir:       fs.Arg(2),
			ArchiveDir:       fs.Arg(3),
		}
	default:
		fmt.Println("run takes either no input paths or all four")
		os.Exit(2)
	}

	engine, err := forecast.New(cfg)
	if err != nil {
		panic(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	res, err := engine.Run(ctx, in)
	if err != nil {
		panic(err)
	}
	if err := report.PrintSummary(os.Stdout, res); err != nil {
		panic(err)
	}

	if !*noCharts {
		paths, err := chart.RenderAll(cfg.Output.ImageDir, res.Charts())
		if err != nil {
			panic(err)
		}
		fmt.Printf("\nWrote %d charts to %s\n", len(paths), cfg.Output.ImageDir)
	}

	if cfg.Output.ReportDir != "" {
		paths, err := report.WriteAll(cfg.Output.ReportDir, res, cfg.Output.ImageDir)
		if err != nil {
			panic(err)
		}
		for _, p := range paths {
			fmt.Printf("Wrote %s\n", p)
		}
	}
}

func cmdEstimate(args []string) {
	fs := flag.NewFlagSet("estimate", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config (optional)")
	year := fs.Int("year", 0, "Calendar year of the hourly table")
	capacity := fs.Float64("capacity", 0, "Override system capacity in kW")
	outPath := fs.String("out", "", "Optional path to write hourly generation CSV")
	logLevel := fs.String("log-level", "warn", "Log level (debug, info, warn, error)")
	_ = fs.Parse(args)
	setLogLevel(*logLevel)

	if fs.NArg() != 1 {
		fmt.Println("estimate takes one hourly irradiance table")
		os.Exit(2)
	}

	cfg := loadConfig(*cfgPath)
	applyYear(cfg, *year)
	if *capacity != 0 {
		cfg.System.CapacityKW = *capacity
	}
	engine, err := forecast.New(cfg)
	if err != nil {
		panic(err)
	}
	gen, err := engine.Estimate(context.Background(), fs.Arg(0))
	if err != nil {
		panic(err)
	}
	if err := report.PrintEstimate(os.Stdout, gen.Monthly); err != nil {
		panic(err)
	}

	if *outPath != "" {
		res := &forecast.Result{Generation: gen}
		if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
			panic(err)
		}
		f, err := os.Create(*outPath)
		if err != nil {
			panic(err)
		}
		defer f.Close()
		if err := forecast.WriteHourlyCSV(f, res); err != nil {
			panic(err)
		}
		fmt.Printf("Wrote %d rows to %s\n", len(gen.Hourly), *outPath)
	}
}

func cmdInspect(args []string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config (optional)")
	year := fs.Int("year", 0, "Calendar year of the hourly table (default: analysis.year, else analysis.threshold_year)")
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Println("inspect takes one hourly irradiance table")
		os.Exit(2)
	}
	cfg := loadConfig(*cfgPath)
	applyYear(cfg, *year)
	s, err := data.LoadHourlyIrradianceFile(fs.Arg(0), cfg.HourlyYear())
	if err != nil {
		panic(err)
	}
	sum := analysis.Summarize(s)
	fmt.Printf("%-8s %s .. %s\n", "range", sum.Start.Format(time.DateTime), sum.End.Format(time.DateTime))
	fmt.Printf("%-8s %d (%d missing)\n", "samples", sum.Count, sum.Missing)
	fmt.Printf("%-8s %.3f kWh/m2\n", "total", sum.Sum)
	fmt.Printf("%-8s %.3f / %.3f / %.3f kWh/m2\n", "min/mean/max", sum.Min, sum.Mean, sum.Max)
	fmt.Printf("%-8s %.3f / %.3f kWh/m2\n", "p05/p95", sum.P05, sum.P95)
	fmt.Printf("%-8s %s\n", "peak", sum.Peak.Format(time.DateTime))
}
