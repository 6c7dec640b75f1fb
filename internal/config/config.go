package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"pv-forecast/internal/data"
	"pv-forecast/internal/model"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load system parameters from a separate YAML (e.g. examples/systems/*.yaml).
	// If both SystemFile and System are provided, System overrides SystemFile.
	SystemFile string         `yaml:"system_file" json:"system_file,omitempty"`
	System     SystemConfig   `yaml:"system" json:"system"`
	Analysis   AnalysisConfig `yaml:"analysis" json:"analysis"`
	Inputs     InputsConfig   `yaml:"inputs" json:"inputs"`
	Output     OutputConfig   `yaml:"output" json:"output"`
	Labels     LabelsConfig   `yaml:"labels" json:"labels"`
}

type SystemConfig struct {
	Name             string    `yaml:"name" json:"name,omitempty"`
	CapacityKW       float64   `yaml:"capacity_kw" json:"capacity_kw"`
	LossCoefficients []float64 `yaml:"loss_coefficients" json:"loss_coefficients"`
}

type AnalysisConfig struct {
	WindowFrom int `yaml:"window_from" json:"window_from"`
	WindowTo   int `yaml:"window_to" json:"window_to"`
	// ThresholdYear is the first year treated as "current" in the archive.
	ThresholdYear int `yaml:"threshold_year" json:"threshold_year"`
	// NominalYear pools the representative years; keep it a leap year.
	NominalYear int `yaml:"nominal_year" json:"nominal_year"`
	// Year places the hourly table on the calendar. 0 means ThresholdYear,
	// the year the metered data and the current archive partition cover.
	Year int `yaml:"year" json:"year"`
	// DayMetric ranks days for the hourly profile: "rmse" or "mape".
	DayMetric string `yaml:"day_metric" json:"day_metric"`
}

type InputsConfig struct {
	HourlyIrradiance string `yaml:"hourly_irradiance" json:"hourly_irradiance"`
	MonthlyReference string `yaml:"monthly_reference" json:"monthly_reference"`
	MeteredDir       string `yaml:"metered_dir" json:"metered_dir"`
	ArchiveDir       string `yaml:"archive_dir" json:"archive_dir"`
	GenerationColumn string `yaml:"generation_column" json:"generation_column"`
	IrradianceColumn string `yaml:"irradiance_column" json:"irradiance_column"`
}

type OutputConfig struct {
	ImageDir  string `yaml:"image_dir" json:"image_dir"`
	ReportDir string `yaml:"report_dir" json:"report_dir,omitempty"`
}

type LabelsConfig struct {
	Site string `yaml:"site" json:"site"`
	// CurrentYear labels the current-year irradiance line. Empty means the
	// threshold year.
	CurrentYear string `yaml:"current_year" json:"current_year,omitempty"`
}

const (
	DayMetricRMSE = "rmse"
	DayMetricMAPE = "mape"
)

// Default returns the configuration of the reference installation.
func Default() *Config {
	return &Config{
		System: SystemConfig{
			CapacityKW:       model.DefaultCapacityKW,
			LossCoefficients: append([]float64(nil), model.DefaultLossTable[:]...),
		},
		Analysis: AnalysisConfig{
			WindowFrom:    int(model.DefaultWindow.From),
			WindowTo:      int(model.DefaultWindow.To),
			ThresholdYear: 2023,
			NominalYear:   2020,
			DayMetric:     DayMetricRMSE,
		},
		Inputs: InputsConfig{
			GenerationColumn: data.DefaultGenerationColumn,
			IrradianceColumn: data.DefaultIrradianceColumn,
		},
		Output: OutputConfig{ImageDir: "./img"},
		Labels: LabelsConfig{Site: "Tokyo"},
	}
}

// Load reads path (when non-empty), applies the environment overlay and
// validates the result.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Fields left out of the file keep their defaults.
func LoadUnchecked(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	sys := Default().System
	// If system_file is set, load it underneath any explicit values from c.System.
	if c.SystemFile != "" {
		systemPath := c.SystemFile
		if !filepath.IsAbs(systemPath) {
			// Prefer interpreting relative paths as relative to the config file directory,
			// but fall back to the provided path (relative to cwd) if that doesn't exist.
			cand := filepath.Join(filepath.Dir(path), systemPath)
			if _, err := os.Stat(cand); err == nil {
				systemPath = cand
			}
		}
		loaded, err := LoadSystemFile(systemPath)
		if err != nil {
			return nil, err
		}
		sys = MergeSystem(sys, loaded)
	}
	c.System = MergeSystem(sys, c.System)
	c.fillDefaults()
	return &c, nil
}

func (c *Config) fillDefaults() {
	d := Default()
	if c.Analysis.WindowFrom == 0 {
		c.Analysis.WindowFrom = d.Analysis.WindowFrom
	}
	if c.Analysis.WindowTo == 0 {
		c.Analysis.WindowTo = d.Analysis.WindowTo
	}
	if c.Analysis.ThresholdYear == 0 {
		c.Analysis.ThresholdYear = d.Analysis.ThresholdYear
	}
	if c.Analysis.NominalYear == 0 {
		c.Analysis.NominalYear = d.Analysis.NominalYear
	}
	if c.Analysis.DayMetric == "" {
		c.Analysis.DayMetric = d.Analysis.DayMetric
	}
	if c.Inputs.GenerationColumn == "" {
		c.Inputs.GenerationColumn = d.Inputs.GenerationColumn
	}
	if c.Inputs.IrradianceColumn == "" {
		c.Inputs.IrradianceColumn = d.Inputs.IrradianceColumn
	}
	if c.Output.ImageDir == "" {
		c.Output.ImageDir = d.Output.ImageDir
	}
	if c.Labels.Site == "" {
		c.Labels.Site = d.Labels.Site
	}
}

// ApplyEnv loads .env when present and overlays the PVFORECAST_* variables.
func (c *Config) ApplyEnv() error {
	// Load .env file if it exists (ignore error if not present)
	_ = godotenv.Load()

	if v := os.Getenv("PVFORECAST_CAPACITY_KW"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("PVFORECAST_CAPACITY_KW: %w", err)
		}
		c.System.CapacityKW = f
	}
	if v := os.Getenv("PVFORECAST_IMAGE_DIR"); v != "" {
		c.Output.ImageDir = v
	}
	if v := os.Getenv("PVFORECAST_REPORT_DIR"); v != "" {
		c.Output.ReportDir = v
	}
	for key, dst := range map[string]*int{
		"PVFORECAST_THRESHOLD_YEAR": &c.Analysis.ThresholdYear,
		"PVFORECAST_YEAR":           &c.Analysis.Year,
	} {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
	}
	return nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if _, err := c.ModelSystem(); err != nil {
		return fmt.Errorf("system config invalid: %w", err)
	}
	if err := c.Window().Validate(); err != nil {
		return fmt.Errorf("analysis window invalid: %w", err)
	}
	if c.Analysis.NominalYear <= 0 {
		return errors.New("analysis.nominal_year must be > 0")
	}
	if c.Analysis.ThresholdYear <= 0 {
		return errors.New("analysis.threshold_year must be > 0")
	}
	if c.Analysis.Year < 0 {
		return errors.New("analysis.year must be >= 0")
	}
	switch c.Analysis.DayMetric {
	case DayMetricRMSE, DayMetricMAPE:
	default:
		return fmt.Errorf("analysis.day_metric must be %q or %q, got %q", DayMetricRMSE, DayMetricMAPE, c.Analysis.DayMetric)
	}
	if c.Inputs.GenerationColumn == "" {
		return errors.New("inputs.generation_column is required")
	}
	if c.Inputs.IrradianceColumn == "" {
		return errors.New("inputs.irradiance_column is required")
	}
	if c.Output.ImageDir == "" {
		return errors.New("output.image_dir is required")
	}
	return nil
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.System.LossCoefficients = append([]float64(nil), c.System.LossCoefficients...)
	return &out
}

// ModelSystem builds the validated model.System.
func (c *Config) ModelSystem() (*model.System, error) {
	loss, err := model.LossTableFromSlice(c.System.LossCoefficients)
	if err != nil {
		return nil, err
	}
	return model.NewSystem(c.System.CapacityKW, loss)
}

func (c *Config) Window() model.Window {
	return model.Window{From: time.Month(c.Analysis.WindowFrom), To: time.Month(c.Analysis.WindowTo)}
}

// HourlyYear is the calendar year the hourly table is placed on. It
// defaults to the threshold year so predictions line up with metered data.
func (c *Config) HourlyYear() int {
	if c.Analysis.Year != 0 {
		return c.Analysis.Year
	}
	return c.Analysis.ThresholdYear
}

// CurrentYearLabel names the current-year series in charts.
func (c *Config) CurrentYearLabel() string {
	if c.Labels.CurrentYear != "" {
		return c.Labels.CurrentYear
	}
	return strconv.Itoa(c.Analysis.ThresholdYear)
}

// ModelInputs returns the input paths from the inputs section.
func (c *Config) ModelInputs() model.Inputs {
	return model.Inputs{
		HourlyIrradiance: c.Inputs.HourlyIrradiance,
		MonthlyReference: c.Inputs.MonthlyReference,
		MeteredDir:       c.Inputs.MeteredDir,
		ArchiveDir:       c.Inputs.ArchiveDir,
	}
}

type systemFileWrapper struct {
	System SystemConfig `yaml:"system"`
}

// LoadSystemFile reads the system section of a system YAML file.
func LoadSystemFile(path string) (SystemConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return SystemConfig{}, err
	}
	var w systemFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return SystemConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return w.System, nil
}

// MergeSystem overlays non-zero fields from override onto base.
// This is used when loading a system file and then applying overrides from the config.
func MergeSystem(base, override SystemConfig) SystemConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.CapacityKW != 0 {
		out.CapacityKW = override.CapacityKW
	}
	if len(override.LossCoefficients) != 0 {
		out.LossCoefficients = append([]float64(nil), override.LossCoefficients...)
	}
	return out
}
