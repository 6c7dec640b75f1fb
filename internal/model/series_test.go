package model

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func TestSeriesDedupFirstWins(t *testing.T) {
	s := Series{
		{Time: at(2023, 3, 1, 10), Value: 1},
		{Time: at(2023, 3, 1, 11), Value: 2},
		{Time: at(2023, 3, 1, 10), Value: 99},
		{Time: at(2023, 3, 1, 12), Value: 3},
	}
	got := s.Dedup()
	require.Len(t, got, 3)
	assert.Equal(t, []float64{1, 2, 3}, got.Values())
}

func TestSeriesSortIsStable(t *testing.T) {
	s := Series{
		{Time: at(2023, 3, 2, 0), Value: 3},
		{Time: at(2023, 3, 1, 0), Value: 1},
		{Time: at(2023, 3, 1, 0), Value: 2},
	}
	s.Sort()
	assert.Equal(t, []float64{1, 2, 3}, s.Values())
	assert.False(t, s.Increasing())
	assert.True(t, s.Dedup().Increasing())
}

func TestHourEnding(t *testing.T) {
	s := Series{{Time: at(2023, 3, 31, 23), Value: 5}}
	got := HourEnding(s)
	assert.Equal(t, at(2023, 4, 1, 0), got[0].Time)
	// the source is untouched
	assert.Equal(t, at(2023, 3, 31, 23), s[0].Time)
}

func TestReindexYear(t *testing.T) {
	s := Series{
		{Time: at(2011, 5, 3, 13), Value: 1},
		{Time: at(2016, 2, 29, 1), Value: 2},
	}
	got := s.ReindexYear(2020)
	assert.Equal(t, at(2020, 5, 3, 13), got[0].Time)
	assert.Equal(t, at(2020, 2, 29, 1), got[1].Time)

	got = s.ReindexYear(2021)
	assert.Equal(t, at(2021, 3, 1, 1), got[1].Time)
}

func TestFilterMonthAndDate(t *testing.T) {
	s := Series{
		{Time: at(2023, 3, 1, 1), Value: 1},
		{Time: at(2023, 3, 2, 1), Value: 2},
		{Time: at(2023, 4, 1, 1), Value: 3},
	}
	assert.Len(t, s.FilterMonth(time.March), 2)
	assert.Equal(t, []float64{2}, s.FilterDate(at(2023, 3, 2, 0)).Values())
}

func TestSumSkipsNaN(t *testing.T) {
	s := Series{
		{Time: at(2023, 3, 1, 1), Value: 1.5},
		{Time: at(2023, 3, 1, 2), Value: math.NaN()},
		{Time: at(2023, 3, 1, 3), Value: 2.5},
	}
	assert.Equal(t, 4.0, s.Sum())
}

func TestUnitConversionRoundTrip(t *testing.T) {
	for _, raw := range []float64{0, 1, 36, 123.45, 360, 9999} {
		kwh := RawToKWh(raw)
		assert.InDelta(t, raw/100/3.6, kwh, 1e-12)
		assert.InDelta(t, raw, KWhToRaw(kwh), 1e-9)
	}
	assert.InDelta(t, 1.0, RawToKWh(360), 1e-12)
}
