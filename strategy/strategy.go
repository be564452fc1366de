// Package strategy provides the interchangeable forecasting strategies of
// the pipeline and the selection policy that substitutes the autoregressive
// baseline when the preferred strategy cannot run.
package strategy

import (
	"errors"
	"time"

	"github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING/timeseries"
)

const (
	StrategySeasonal = "seasonal"
	StrategyBaseline = "baseline"

	// DefaultStrategy is used when no strategy is requested.
	DefaultStrategy = StrategySeasonal
)

var (
	// ErrModelFit marks fit failures the selector may recover from by
	// substituting the baseline strategy.
	ErrModelFit = errors.New("unable to fit model")

	// ErrInsufficientHistory marks a training series too short for a
	// strategy. Fatal when raised for the baseline, no further fallback
	// exists.
	ErrInsufficientHistory = errors.New("not enough training history")

	ErrUnknownStrategy   = errors.New("unknown strategy")
	ErrNoTargetDates     = errors.New("no target dates to predict")
	ErrTargetBeforeTrain = errors.New("target date not after training history")
	ErrDuplicateStrategy = errors.New("strategy name registered twice")
)

// Strategy fits a forecasting model to a training series. Implementations
// hold only configuration, every Fit returns an independent FittedModel.
type Strategy interface {
	Name() string
	MinHistory() int
	Fit(srs *timeseries.Series) (FittedModel, error)
}

// FittedModel generates forecasts for target dates. Models are immutable
// once fit and safe for concurrent Predict calls.
type FittedModel interface {
	Predict(t []time.Time) (*Forecast, error)
}

// Forecast holds predicted values for a set of dates with optional
// confidence bounds. Lower and Upper are either both nil or aligned with
// Predicted, and lower <= predicted <= upper holds per point.
type Forecast struct {
	T         []time.Time `json:"time"`
	Predicted []float64   `json:"predicted"`
	Lower     []float64   `json:"lower,omitempty"`
	Upper     []float64   `json:"upper,omitempty"`
}

func (f *Forecast) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Predicted)
}

// HasBounds reports whether the forecast carries confidence bounds.
func (f *Forecast) HasBounds() bool {
	return f != nil && f.Lower != nil && f.Upper != nil
}
