package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pv-forecast/internal/model"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	sys, err := c.ModelSystem()
	require.NoError(t, err)
	assert.Equal(t, 8.5, sys.CapacityKW)
	assert.Equal(t, model.DefaultLossTable, sys.Loss)
	assert.Equal(t, model.DefaultWindow, c.Window())
	assert.Equal(t, "2023", c.CurrentYearLabel())
	assert.Equal(t, "Tokyo", c.Labels.Site)
	assert.Equal(t, 2023, c.HourlyYear(), "defaults to the threshold year")

	// Default must not share the package table
	c.System.LossCoefficients[0] = 0.1
	assert.Equal(t, 0.90, model.DefaultLossTable[0])
}

func TestLoadUncheckedEmptyPath(t *testing.T) {
	c, err := LoadUnchecked("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "c.yaml", `
analysis:
  year: 2022
labels:
  current_year: "this year"
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2022, c.HourlyYear())
	assert.Equal(t, 2023, c.Analysis.ThresholdYear)
	assert.Equal(t, 8.5, c.System.CapacityKW)
	assert.Len(t, c.System.LossCoefficients, 12)
	assert.Equal(t, "this year", c.CurrentYearLabel())
	assert.Equal(t, "./img", c.Output.ImageDir)
}

func TestLoadSystemFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "systems/small.yaml", `
system:
  name: small
  capacity_kw: 4
  loss_coefficients: [1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0.5]
`)
	path := writeFile(t, dir, "c.yaml", `
system_file: systems/small.yaml
system:
  capacity_kw: 5
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "small", c.System.Name)
	assert.Equal(t, 5.0, c.System.CapacityKW)

	sys, err := c.ModelSystem()
	require.NoError(t, err)
	assert.Equal(t, 0.5, sys.Loss.For(time.December))
	assert.Equal(t, 1.0, sys.Loss.For(time.June))
}

func TestLoadSystemFileMissing(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "c.yaml", "system_file: nope.yaml\n")
	_, err := Load(path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadExampleConfig(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "examples", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "rooftop-8.5kw", c.System.Name)
	sys, err := c.ModelSystem()
	require.NoError(t, err)
	assert.Equal(t, model.DefaultLossTable, sys.Loss)
	assert.Equal(t, "発電", c.Inputs.GenerationColumn)
	require.NoError(t, c.ModelInputs().Validate())
	assert.Equal(t, 2023, c.HourlyYear())
}

func TestHourlyYearFollowsThresholdYear(t *testing.T) {
	c := Default()
	c.Analysis.ThresholdYear = 2024
	assert.Equal(t, 2024, c.HourlyYear())
	c.Analysis.Year = 2021
	assert.Equal(t, 2021, c.HourlyYear())
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *Config){
		"capacity":   func(c *Config) { c.System.CapacityKW = 0 },
		"loss range": func(c *Config) { c.System.LossCoefficients[3] = 1.2 },
		"loss count": func(c *Config) { c.System.LossCoefficients = []float64{0.9} },
		"window":     func(c *Config) { c.Analysis.WindowFrom = 10 },
		"metric":     func(c *Config) { c.Analysis.DayMetric = "mae" },
		"column":     func(c *Config) { c.Inputs.GenerationColumn = "" },
		"year":       func(c *Config) { c.Analysis.Year = -1 },
		"image dir":  func(c *Config) { c.Output.ImageDir = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}

	var nilConfig *Config
	assert.Error(t, nilConfig.Validate())
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PVFORECAST_CAPACITY_KW", "6.25")
	t.Setenv("PVFORECAST_IMAGE_DIR", "/tmp/charts")
	t.Setenv("PVFORECAST_THRESHOLD_YEAR", "2024")
	t.Setenv("PVFORECAST_YEAR", "2024")

	c := Default()
	require.NoError(t, c.ApplyEnv())
	assert.Equal(t, 6.25, c.System.CapacityKW)
	assert.Equal(t, "/tmp/charts", c.Output.ImageDir)
	assert.Equal(t, 2024, c.Analysis.ThresholdYear)
	assert.Equal(t, 2024, c.HourlyYear())

	t.Setenv("PVFORECAST_YEAR", "soon")
	assert.Error(t, Default().ApplyEnv())
}

func TestMergeSystem(t *testing.T) {
	base := SystemConfig{Name: "a", CapacityKW: 8.5, LossCoefficients: []float64{1}}
	out := MergeSystem(base, SystemConfig{CapacityKW: 3})
	assert.Equal(t, SystemConfig{Name: "a", CapacityKW: 3, LossCoefficients: []float64{1}}, out)

	override := []float64{0.5}
	out = MergeSystem(base, SystemConfig{LossCoefficients: override})
	override[0] = 0.7
	assert.Equal(t, []float64{0.5}, out.LossCoefficients)
}

func TestClone(t *testing.T) {
	c := Default()
	cp := c.Clone()
	cp.System.LossCoefficients[0] = 0.5
	cp.Labels.Site = "Osaka"
	assert.Equal(t, 0.90, c.System.LossCoefficients[0])
	assert.Equal(t, "Tokyo", c.Labels.Site)
}
