package model

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullYear(year int, v float64) Series {
	var s Series
	for t := at(year, 1, 1, 0); t.Year() == year; t = t.Add(time.Hour) {
		s = append(s, Point{Time: t, Value: v})
	}
	return s
}

func TestGroupMonthlyFullYear(t *testing.T) {
	ms := GroupMonthly(fullYear(2023, 0.5))
	require.Len(t, ms, 12)
	for _, b := range ms {
		days := time.Date(2023, b.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
		assert.Equal(t, days*24, b.Count, b.Month.String())
		assert.Equal(t, days, b.Days(), b.Month.String())
		assert.InDelta(t, 0.5*24, b.DailyAverage(), 1e-9, b.Month.String())
	}
}

func TestDropRollover(t *testing.T) {
	s := fullYear(2023, 1)
	s = append(s, Point{Time: at(2024, 1, 1, 0), Value: 1})
	ms := GroupMonthly(s)
	require.Len(t, ms, 13)

	trimmed := ms.DropRollover()
	require.Len(t, trimmed, 12)
	assert.Equal(t, time.December, trimmed[11].Month)
	assert.Equal(t, 2023, trimmed[11].Year)
}

func TestGroupMonthlyCountsNaN(t *testing.T) {
	s := Series{
		{Time: at(2023, 3, 1, 1), Value: 2},
		{Time: at(2023, 3, 1, 2), Value: math.NaN()},
	}
	ms := GroupMonthly(s)
	require.Len(t, ms, 1)
	assert.Equal(t, 2, ms[0].Count)
	assert.Equal(t, 2.0, ms[0].Sum)
}

func TestByMonthPicksEarliestYear(t *testing.T) {
	s := Series{
		{Time: at(2024, 3, 1, 1), Value: 7},
		{Time: at(2023, 3, 1, 1), Value: 5},
	}
	s.Sort()
	b, ok := GroupMonthly(s).ByMonth(time.March)
	require.True(t, ok)
	assert.Equal(t, 2023, b.Year)
	assert.Equal(t, 5.0, GroupMonthly(s).Sums()[time.March])

	_, ok = GroupMonthly(s).ByMonth(time.April)
	assert.False(t, ok)
}
