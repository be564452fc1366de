package strategy

import (
	"fmt"
	"math"
	"time"

	"github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING/timeseries"
	"gonum.org/v1/gonum/stat"
)

const (
	DefaultBaselineMinHistory   = 14
	DefaultBaselineOrder        = 2
	DefaultBaselineDifferencing = 1
)

// BaselineOptions configures the autoregressive baseline strategy. Zero
// values fall back to the package defaults.
type BaselineOptions struct {
	Order          int
	Differencing   int
	MinHistory     int
	ResidualZscore float64
}

func NewDefaultBaselineOptions() *BaselineOptions {
	return &BaselineOptions{
		Order:          DefaultBaselineOrder,
		Differencing:   DefaultBaselineDifferencing,
		MinHistory:     DefaultBaselineMinHistory,
		ResidualZscore: 1.96,
	}
}

// Baseline fits a low order autoregression on the differenced series. It
// needs far less history than the seasonal strategy and serves as its
// fallback.
type Baseline struct {
	opt *BaselineOptions
}

func NewBaseline(opt *BaselineOptions) *Baseline {
	if opt == nil {
		opt = NewDefaultBaselineOptions()
	}
	return &Baseline{opt: opt}
}

func (b *Baseline) Name() string {
	return StrategyBaseline
}

func (b *Baseline) MinHistory() int {
	if b.opt.MinHistory > 0 {
		return b.opt.MinHistory
	}
	return DefaultBaselineMinHistory
}

// Fit estimates the autoregressive coefficients by solving the Yule-Walker
// equations over the centered stationary series.
func (b *Baseline) Fit(srs *timeseries.Series) (FittedModel, error) {
	if srs.Len() < b.MinHistory() {
		return nil, fmt.Errorf(
			"training history of %d observations, need at least %d, %w",
			srs.Len(), b.MinHistory(), ErrInsufficientHistory,
		)
	}

	opt := b.opt
	order := opt.Order
	if order < 1 {
		order = DefaultBaselineOrder
	}
	diff := opt.Differencing
	if diff < 0 || diff > 1 {
		diff = DefaultBaselineDifferencing
	}
	zscore := opt.ResidualZscore
	if zscore <= 0 {
		zscore = 1.96
	}

	stationary := srs.Y
	if diff == 1 {
		stationary = difference(srs.Y)
	}
	if len(stationary) < order+2 {
		return nil, fmt.Errorf(
			"%d stationary observations for an order %d autoregression, %w",
			len(stationary), order, ErrInsufficientHistory,
		)
	}

	mean := stat.Mean(stationary, nil)
	centered := make([]float64, len(stationary))
	for i, v := range stationary {
		centered[i] = v - mean
	}

	coef, err := fitAutoregressive(centered, order)
	if err != nil {
		return nil, err
	}

	// one step ahead residuals in the stationary space
	residuals := make([]float64, 0, len(centered)-order)
	for i := order; i < len(centered); i++ {
		var pred float64
		for j := 0; j < order; j++ {
			pred += coef[j] * centered[i-1-j]
		}
		residuals = append(residuals, centered[i]-pred)
	}
	_, sigma := stat.MeanStdDev(residuals, nil)
	if math.IsNaN(sigma) {
		sigma = 0
	}

	tail := make([]float64, order)
	copy(tail, centered[len(centered)-order:])

	return &baselineModel{
		order:     order,
		diff:      diff,
		coef:      coef,
		mean:      mean,
		tail:      tail,
		lastValue: srs.Y[srs.Len()-1],
		trainEnd:  srs.EndTime(),
		sigma:     sigma,
		zscore:    zscore,
	}, nil
}

// fitAutoregressive solves the Yule-Walker equations with Levinson-Durbin
// recursion. A constant series yields all zero coefficients.
func fitAutoregressive(centered []float64, order int) ([]float64, error) {
	acov := make([]float64, order+1)
	for lag := 0; lag <= order; lag++ {
		var sum float64
		for i := 0; i < len(centered)-lag; i++ {
			sum += centered[i] * centered[i+lag]
		}
		acov[lag] = sum / float64(len(centered))
	}

	coef := make([]float64, order)
	if acov[0] == 0 {
		return coef, nil
	}

	prev := make([]float64, order)
	v := acov[0]
	for k := 1; k <= order; k++ {
		if v <= 0 {
			return nil, fmt.Errorf("unstable autocovariance at lag %d, %w", k, ErrModelFit)
		}
		num := acov[k]
		for j := 1; j < k; j++ {
			num -= prev[j-1] * acov[k-j]
		}
		ref := num / v

		coef[k-1] = ref
		for j := 1; j < k; j++ {
			coef[j-1] = prev[j-1] - ref*prev[k-1-j]
		}
		copy(prev, coef)
		v *= 1 - ref*ref
	}

	for i, c := range coef {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("non-finite coefficient at lag %d, %w", i+1, ErrModelFit)
		}
	}
	return coef, nil
}

func difference(y []float64) []float64 {
	out := make([]float64, len(y)-1)
	for i := 1; i < len(y); i++ {
		out[i-1] = y[i] - y[i-1]
	}
	return out
}

// baselineModel carries the state needed to roll the autoregression forward
// from the end of its training history.
type baselineModel struct {
	order     int
	diff      int
	coef      []float64
	mean      float64
	tail      []float64
	lastValue float64
	trainEnd  time.Time
	sigma     float64
	zscore    float64
}

// Predict rolls the recursion forward one day at a time up to the furthest
// target date. Every target must fall after the training history.
func (m *baselineModel) Predict(t []time.Time) (*Forecast, error) {
	if len(t) == 0 {
		return nil, ErrNoTargetDates
	}

	steps := make([]int, len(t))
	maxStep := 0
	for i, target := range t {
		h := int(math.Round(target.Sub(m.trainEnd).Hours() / 24.0))
		if h < 1 {
			return nil, fmt.Errorf(
				"target %s is not after training end %s, %w",
				target.Format(timeseries.DateLayout), m.trainEnd.Format(timeseries.DateLayout),
				ErrTargetBeforeTrain,
			)
		}
		steps[i] = h
		if h > maxStep {
			maxStep = h
		}
	}

	window := append([]float64{}, m.tail...)
	levels := make([]float64, maxStep)
	level := m.lastValue
	for h := 0; h < maxStep; h++ {
		var next float64
		for j := 0; j < m.order; j++ {
			next += m.coef[j] * window[len(window)-1-j]
		}
		window = append(window, next)

		if m.diff == 1 {
			level += next + m.mean
		} else {
			level = next + m.mean
		}
		levels[h] = level
	}

	predicted := make([]float64, len(t))
	lower := make([]float64, len(t))
	upper := make([]float64, len(t))
	for i, h := range steps {
		predicted[i] = levels[h-1]
		band := m.zscore * m.sigma * math.Sqrt(float64(h))
		lower[i] = predicted[i] - band
		upper[i] = predicted[i] + band
	}

	return &Forecast{
		T:         append([]time.Time{}, t...),
		Predicted: predicted,
		Lower:     lower,
		Upper:     upper,
	}, nil
}
