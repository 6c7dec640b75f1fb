package analysis

import (
	"math"
	"sort"
	"time"

	"pv-forecast/internal/model"
)

// SeriesSummary describes the distribution of an hourly series. Missing
// (NaN) samples count towards Count but not towards the statistics.
type SeriesSummary struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	Count   int `json:"count"`
	Missing int `json:"missing"`

	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
	P05  float64 `json:"p05"`
	P95  float64 `json:"p95"`
	Sum  float64 `json:"sum"`

	// Peak is the first sample holding Max.
	Peak time.Time `json:"peak"`
}

func Summarize(s model.Series) SeriesSummary {
	out := SeriesSummary{}
	if len(s) == 0 {
		return out
	}
	out.Count = len(s)
	out.Start = s[0].Time
	out.End = s[len(s)-1].Time

	minv := math.Inf(1)
	maxv := math.Inf(-1)
	vals := make([]float64, 0, len(s))
	for _, p := range s {
		v := p.Value
		if math.IsNaN(v) {
			out.Missing++
			continue
		}
		vals = append(vals, v)
		out.Sum += v
		if v < minv {
			minv = v
		}
		if v > maxv {
			maxv = v
			out.Peak = p.Time
		}
	}
	if len(vals) == 0 {
		return out
	}
	sort.Float64s(vals)
	out.Min = minv
	out.Max = maxv
	out.Mean = out.Sum / float64(len(vals))
	out.P05 = percentileSorted(vals, 0.05)
	out.P95 = percentileSorted(vals, 0.95)
	return out
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
