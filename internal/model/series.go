package model

import (
	"math"
	"sort"
	"time"
)

// Point is one timestamped sample. The unit depends on the series: kWh/m²
// for converted irradiance, kWh for generation, MJ/m² for archive irradiance.
// A missing measurement is stored as NaN.
type Point struct {
	Time  time.Time
	Value float64
}

// Series is an ordered sequence of samples. Loaders return series sorted by
// time; the transforms below never reorder unless they say so.
type Series []Point

func (s Series) Clone() Series {
	out := make(Series, len(s))
	copy(out, s)
	return out
}

// Sort orders the series ascending by time. Equal timestamps keep their
// relative order.
func (s Series) Sort() {
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].Time.Before(s[j].Time)
	})
}

// Increasing reports whether timestamps are strictly increasing.
func (s Series) Increasing() bool {
	for i := 1; i < len(s); i++ {
		if !s[i].Time.After(s[i-1].Time) {
			return false
		}
	}
	return true
}

// Shift moves every timestamp by d.
func (s Series) Shift(d time.Duration) Series {
	out := make(Series, len(s))
	for i, p := range s {
		out[i] = Point{Time: p.Time.Add(d), Value: p.Value}
	}
	return out
}

// Scale multiplies every value by k.
func (s Series) Scale(k float64) Series {
	out := make(Series, len(s))
	for i, p := range s {
		out[i] = Point{Time: p.Time, Value: p.Value * k}
	}
	return out
}

func (s Series) Filter(keep func(Point) bool) Series {
	out := make(Series, 0, len(s))
	for _, p := range s {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// FilterMonth keeps samples whose calendar month is m, in any year.
func (s Series) FilterMonth(m time.Month) Series {
	return s.Filter(func(p Point) bool { return p.Time.Month() == m })
}

// FilterDate keeps samples that fall on the calendar date of day.
func (s Series) FilterDate(day time.Time) Series {
	y, m, d := day.Date()
	return s.Filter(func(p Point) bool {
		py, pm, pd := p.Time.Date()
		return py == y && pm == m && pd == d
	})
}

// Dedup drops samples whose timestamp already occurred earlier in the
// series. The first occurrence wins.
func (s Series) Dedup() Series {
	seen := make(map[time.Time]struct{}, len(s))
	out := make(Series, 0, len(s))
	for _, p := range s {
		k := p.Time.UTC()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Lookup indexes the series by timestamp. With duplicate timestamps the
// first sample wins.
func (s Series) Lookup() map[time.Time]float64 {
	out := make(map[time.Time]float64, len(s))
	for _, p := range s {
		k := p.Time.UTC()
		if _, ok := out[k]; ok {
			continue
		}
		out[k] = p.Value
	}
	return out
}

// ReindexYear moves every sample onto the given year, keeping month, day
// and time of day. Feb 29 rolls to Mar 1 when year is not a leap year.
func (s Series) ReindexYear(year int) Series {
	out := make(Series, len(s))
	for i, p := range s {
		t := p.Time
		out[i] = Point{
			Time:  time.Date(year, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location()),
			Value: p.Value,
		}
	}
	return out
}

func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// Sum adds every non-NaN value.
func (s Series) Sum() float64 {
	sum := 0.0
	for _, p := range s {
		if !math.IsNaN(p.Value) {
			sum += p.Value
		}
	}
	return sum
}

// Concat joins series in argument order without sorting or deduplicating.
func Concat(parts ...Series) Series {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make(Series, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// HourEnding converts a series stamped at the start of each hourly interval
// into one stamped at the end, so both conventions line up.
func HourEnding(s Series) Series {
	return s.Shift(time.Hour)
}
