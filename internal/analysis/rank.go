package analysis

import (
	"fmt"
	"math"
	"sort"
	"time"

	"pv-forecast/internal/model"
)

// DayMetric scores one day from the hourly values present in both series.
// Return NaN when the day cannot be scored.
type DayMetric func(pred, act []float64) float64

// DayRMSE is sqrt(mean((p-a)^2)) over the day's overlapping hours.
func DayRMSE(pred, act []float64) float64 {
	if len(pred) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for i := range pred {
		d := pred[i] - act[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(pred)))
}

// DayMAPE is |mean((p-a)/(a+1e-5))|, the alternative day ranking.
func DayMAPE(pred, act []float64) float64 {
	if len(pred) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for i := range pred {
		sum += (pred[i] - act[i]) / (act[i] + 1e-5)
	}
	return math.Abs(sum / float64(len(pred)))
}

// DayScore is the score of one calendar day.
type DayScore struct {
	Day   time.Time `json:"day"`
	Hours int       `json:"hours"`
	Score float64   `json:"score"`
}

// RankDays scores every day of month m that has at least one hour present
// in both pred and act, and sorts ascending by score. Days with equal scores
// keep chronological order. Hours with a NaN on either side are skipped.
func RankDays(pred, act model.Series, m time.Month, metric DayMetric) []DayScore {
	actual := act.FilterMonth(m).Lookup()

	type dayValues struct {
		day       time.Time
		pred, act []float64
	}
	var days []*dayValues
	byDay := map[time.Time]*dayValues{}
	for _, p := range pred.FilterMonth(m) {
		a, ok := actual[p.Time]
		if !ok || math.IsNaN(a) || math.IsNaN(p.Value) {
			continue
		}
		y, mo, d := p.Time.Date()
		key := time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
		dv, ok := byDay[key]
		if !ok {
			dv = &dayValues{day: key}
			byDay[key] = dv
			days = append(days, dv)
		}
		dv.pred = append(dv.pred, p.Value)
		dv.act = append(dv.act, a)
	}
	sort.SliceStable(days, func(i, j int) bool {
		return days[i].day.Before(days[j].day)
	})

	out := make([]DayScore, 0, len(days))
	for _, dv := range days {
		score := metric(dv.pred, dv.act)
		if math.IsNaN(score) {
			continue
		}
		out = append(out, DayScore{Day: dv.day, Hours: len(dv.pred), Score: score})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score < out[j].Score
	})
	return out
}

// BestMatchingDay returns the day of month m with the lowest hourly RMSE
// between pred and act.
func BestMatchingDay(pred, act model.Series, m time.Month) (DayScore, error) {
	ranked := RankDays(pred, act, m, DayRMSE)
	if len(ranked) == 0 {
		return DayScore{}, fmt.Errorf("no day in %s has both predicted and metered values", m)
	}
	return ranked[0], nil
}

// HourPair is one hour of a single-day comparison. Missing values are NaN.
type HourPair struct {
	Hour      int     `json:"hour"`
	Predicted float64 `json:"predicted"`
	Actual    float64 `json:"actual"`
}

// DayProfile returns the 24 hourly pairs of the calendar date of day.
func DayProfile(pred, act model.Series, day time.Time) []HourPair {
	out := make([]HourPair, 24)
	for h := range out {
		out[h] = HourPair{Hour: h, Predicted: math.NaN(), Actual: math.NaN()}
	}
	for _, p := range pred.FilterDate(day).Dedup() {
		out[p.Time.Hour()].Predicted = p.Value
	}
	for _, p := range act.FilterDate(day).Dedup() {
		out[p.Time.Hour()].Actual = p.Value
	}
	return out
}

// DayMatch is the best matching day of one month and its hourly profile.
type DayMatch struct {
	Month   time.Month `json:"month"`
	Best    DayScore   `json:"best"`
	Profile []HourPair `json:"profile"`
}

// MatchDays finds the best matching day and its profile for every month of
// w, ranking days with metric.
func MatchDays(pred, act model.Series, w model.Window, metric DayMetric) ([]DayMatch, error) {
	out := make([]DayMatch, 0, len(w.Months()))
	for _, m := range w.Months() {
		ranked := RankDays(pred, act, m, metric)
		if len(ranked) == 0 {
			return nil, fmt.Errorf("no day in %s has both predicted and metered values", m)
		}
		best := ranked[0]
		out = append(out, DayMatch{Month: m, Best: best, Profile: DayProfile(pred, act, best.Day)})
	}
	return out, nil
}
