package model

import (
	"math"
	"sort"
	"time"
)

// MonthlyBucket aggregates the samples of one calendar month.
type MonthlyBucket struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	// Sum adds the non-NaN values of the month.
	Sum float64 `json:"sum"`
	// Count is the number of samples in the month, NaN included.
	Count int `json:"count"`
}

// Days is the number of whole days the bucket covers at hourly resolution.
func (b MonthlyBucket) Days() int {
	return int(math.Round(float64(b.Count) / 24))
}

// DailyAverage spreads the monthly sum over Days. A bucket covering no whole
// day yields Inf or NaN.
func (b MonthlyBucket) DailyAverage() float64 {
	return b.Sum / float64(b.Days())
}

// MonthlySeries is a chronological list of monthly buckets.
type MonthlySeries []MonthlyBucket

// MonthlyValues maps a calendar month to one value.
type MonthlyValues map[time.Month]float64

// GroupMonthly buckets a series by calendar (year, month).
func GroupMonthly(s Series) MonthlySeries {
	type key struct {
		y int
		m time.Month
	}
	idx := map[key]int{}
	out := MonthlySeries{}
	for _, p := range s {
		k := key{p.Time.Year(), p.Time.Month()}
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, MonthlyBucket{Year: k.y, Month: k.m})
		}
		out[i].Count++
		if !math.IsNaN(p.Value) {
			out[i].Sum += p.Value
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

// DropRollover removes the partial bucket produced when the final "hour 24"
// of a yearly table rolls into January of the following year. Only buckets
// of the first bucket's year are kept.
func (ms MonthlySeries) DropRollover() MonthlySeries {
	if len(ms) == 0 {
		return ms
	}
	year := ms[0].Year
	out := make(MonthlySeries, 0, 12)
	for _, b := range ms {
		if b.Year != year {
			continue
		}
		out = append(out, b)
	}
	return out
}

// ByMonth returns the earliest bucket for calendar month m.
func (ms MonthlySeries) ByMonth(m time.Month) (MonthlyBucket, bool) {
	for _, b := range ms {
		if b.Month == m {
			return b, true
		}
	}
	return MonthlyBucket{}, false
}

// Sums returns the monthly sums keyed by calendar month, earliest year first.
func (ms MonthlySeries) Sums() MonthlyValues {
	out := MonthlyValues{}
	for _, b := range ms {
		if _, ok := out[b.Month]; ok {
			continue
		}
		out[b.Month] = b.Sum
	}
	return out
}

// Total adds the sums of every bucket.
func (ms MonthlySeries) Total() float64 {
	total := 0.0
	for _, b := range ms {
		total += b.Sum
	}
	return total
}
