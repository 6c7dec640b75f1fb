package chart

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func months() []float64 {
	return []float64{3, 4, 5, 6, 7, 8, 9}
}

func TestRenderAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "img")
	specs := []Spec{
		{
			File:   "monthly.png",
			XLabel: "Month",
			YLabel: "Power Generation[kWh]",
			Lines: []Line{
				{Label: "Predicted data", X: months(), Y: []float64{700, 800, 900, 850, 900, 880, 700}},
				{Label: "Actual data", X: months(), Y: []float64{650, 780, 880, 800, 870, 860, 690}},
			},
		},
		{
			File:   "day.png",
			Title:  "PV power generation on 2023-05-14",
			XLabel: "Hour",
			Lines: []Line{
				{Label: "Predicted data", X: []float64{0, 1, 2}, Y: []float64{0, math.NaN(), 1.5}},
				{Label: "Actual data", X: []float64{0, 1, 2}, Y: []float64{math.NaN(), math.NaN(), math.NaN()}},
			},
		},
	}
	paths, err := RenderAll(dir, specs)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	for _, p := range paths {
		raw, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(raw, pngMagic), p)
	}
}

func TestRenderLengthMismatch(t *testing.T) {
	err := Render(Spec{File: "bad.png", Lines: []Line{{X: []float64{1, 2}, Y: []float64{1}}}}, filepath.Join(t.TempDir(), "bad.png"))
	assert.Error(t, err)
}

func TestIntegerTicks(t *testing.T) {
	p, err := Plot(Spec{Lines: []Line{{X: months(), Y: months()}}})
	require.NoError(t, err)
	ticks := p.X.Tick.Marker.Ticks(3, 9)
	require.Len(t, ticks, 7)
	assert.Equal(t, "3", ticks[0].Label)
	assert.Equal(t, "9", ticks[6].Label)
}
