package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLossTable(t *testing.T) {
	require.NoError(t, DefaultLossTable.Validate())
	for _, m := range []time.Month{time.January, time.February, time.March, time.October, time.November, time.December} {
		assert.Equal(t, 0.90, DefaultLossTable.For(m), m.String())
	}
	for _, m := range []time.Month{time.April, time.May, time.September} {
		assert.Equal(t, 0.85, DefaultLossTable.For(m), m.String())
	}
	for _, m := range []time.Month{time.June, time.July, time.August} {
		assert.Equal(t, 0.80, DefaultLossTable.For(m), m.String())
	}
}

func TestLossTableValidate(t *testing.T) {
	bad := DefaultLossTable
	bad[6] = 0
	assert.Error(t, bad.Validate())
	bad[6] = 1.01
	assert.Error(t, bad.Validate())
	assert.NoError(t, UniformLossTable(1).Validate())

	_, err := LossTableFromSlice([]float64{0.9, 0.9})
	assert.Error(t, err)
	tbl, err := LossTableFromSlice([]float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0.5})
	require.NoError(t, err)
	assert.Equal(t, 0.5, tbl.For(time.December))
}

func TestSystemGeneration(t *testing.T) {
	sys, err := NewSystem(10, UniformLossTable(1))
	require.NoError(t, err)
	ts := at(2023, 7, 1, 12)
	assert.Equal(t, 10.0, sys.Generation(ts, 1))
	assert.Equal(t, 2*sys.Generation(ts, 0.37), sys.Generation(ts, 0.74))

	_, err = NewSystem(0, DefaultLossTable)
	assert.Error(t, err)
}

func TestWindow(t *testing.T) {
	w := DefaultWindow
	require.NoError(t, w.Validate())
	assert.Equal(t, []time.Month{3, 4, 5, 6, 7, 8, 9}, w.Months())
	assert.True(t, w.Contains(time.June))
	assert.False(t, w.Contains(time.October))
	assert.Error(t, Window{From: time.May, To: time.April}.Validate())
	assert.Error(t, Window{From: 0, To: time.April}.Validate())
}
