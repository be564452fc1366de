// Package evaluate computes holdout accuracy metrics comparing forecast
// output against the actuals withheld from training.
package evaluate

import (
	"errors"
	"fmt"
	"math"

	"github.com/goccy/go-json"
)

var (
	ErrLenMismatch    = errors.New("predicted and actual lengths differ")
	ErrNoObservations = errors.New("no observations to evaluate")
)

// Report holds the holdout accuracy metrics. MAPE is a percentage averaged
// over nonzero actuals only and left undefined when every actual is zero.
type Report struct {
	RMSE        float64
	MAE         float64
	MAPE        float64
	MAPEDefined bool
}

// NewReport computes the metrics over parallel predicted and actual slices.
func NewReport(predicted, actual []float64) (*Report, error) {
	if len(predicted) != len(actual) {
		return nil, fmt.Errorf("%d predicted and %d actual, %w", len(predicted), len(actual), ErrLenMismatch)
	}
	if len(actual) == 0 {
		return nil, ErrNoObservations
	}

	var sqSum, absSum, mapeSum float64
	var mapeCnt int
	for i := 0; i < len(actual); i++ {
		diff := actual[i] - predicted[i]
		sqSum += diff * diff
		absSum += math.Abs(diff)
		if actual[i] != 0 {
			mapeSum += math.Abs(diff / actual[i])
			mapeCnt++
		}
	}

	rep := &Report{
		RMSE: math.Sqrt(sqSum / float64(len(actual))),
		MAE:  absSum / float64(len(actual)),
	}
	if mapeCnt > 0 {
		rep.MAPE = mapeSum / float64(mapeCnt) * 100
		rep.MAPEDefined = true
	}
	return rep, nil
}

// MarshalJSON emits mape as null when it is undefined so downstream readers
// cannot mistake it for a perfect score.
func (r *Report) MarshalJSON() ([]byte, error) {
	out := struct {
		RMSE float64  `json:"rmse"`
		MAE  float64  `json:"mae"`
		MAPE *float64 `json:"mape"`
	}{
		RMSE: r.RMSE,
		MAE:  r.MAE,
	}
	if r.MAPEDefined {
		out.MAPE = &r.MAPE
	}
	return json.Marshal(out)
}
