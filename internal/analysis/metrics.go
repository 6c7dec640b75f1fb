package analysis

import (
	"errors"
	"fmt"
	"math"
)

var ErrNoData = errors.New("no values to compare")

// ErrorMetrics holds the two error measures reported for every comparison.
// MAPE is a fraction; multiply by 100 for percent.
type ErrorMetrics struct {
	RMSE float64 `json:"rmse"`
	MAPE float64 `json:"mape"`
}

func checkPair(pred, ref []float64) error {
	if len(pred) != len(ref) {
		return fmt.Errorf("length mismatch: %d predicted vs %d reference", len(pred), len(ref))
	}
	if len(pred) == 0 {
		return ErrNoData
	}
	return nil
}

// RMSE is sqrt(mean((pred-ref)^2)).
func RMSE(pred, ref []float64) (float64, error) {
	if err := checkPair(pred, ref); err != nil {
		return 0, err
	}
	sum := 0.0
	for i := range pred {
		d := pred[i] - ref[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(pred))), nil
}

// MAPE is mean(|(pred-ref)/ref|). A zero reference value is not guarded
// and yields +Inf or NaN.
func MAPE(pred, ref []float64) (float64, error) {
	if err := checkPair(pred, ref); err != nil {
		return 0, err
	}
	sum := 0.0
	for i := range pred {
		sum += math.Abs((pred[i] - ref[i]) / ref[i])
	}
	return sum / float64(len(pred)), nil
}

// Compare computes RMSE and MAPE of pred against ref.
func Compare(pred, ref []float64) (ErrorMetrics, error) {
	rmse, err := RMSE(pred, ref)
	if err != nil {
		return ErrorMetrics{}, err
	}
	mape, err := MAPE(pred, ref)
	if err != nil {
		return ErrorMetrics{}, err
	}
	return ErrorMetrics{RMSE: rmse, MAPE: mape}, nil
}
