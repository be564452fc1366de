package timeseries

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DateLayout is the canonical rendering of observation dates.
const DateLayout = "2006-01-02"

var (
	ErrNoObservations = errors.New("no observations")
	ErrLenMismatch    = errors.New("timestamps have a different length than observations")
	ErrNonIncreasing  = errors.New("timestamps are not strictly increasing")
	ErrNonFinite      = errors.New("observation is not a finite number")
	ErrInvalidSplit   = errors.New("holdout size must leave at least one training observation")
)

// Series represents a univariate daily time series storing a slice of
// observation dates and a slice of values. Both are always the same length
// and dates are strictly increasing.
type Series struct {
	T []time.Time `json:"t"`
	Y []float64   `json:"y"`
}

// New returns an instance of a Series given a date and value slice after
// checking the series invariants. Input slices are copied.
func New(t []time.Time, y []float64) (*Series, error) {
	if len(y) == 0 {
		return nil, ErrNoObservations
	}
	if len(t) != len(y) {
		return nil, fmt.Errorf(
			"timestamps have a length of %d, but values has a length of %d, %w",
			len(t), len(y), ErrLenMismatch,
		)
	}

	var lastT time.Time
	for i := 0; i < len(t); i++ {
		currT := t[i]
		if currT.Before(lastT) || currT.Equal(lastT) {
			return nil, fmt.Errorf("not strictly increasing at %d, %w", i, ErrNonIncreasing)
		}
		lastT = currT
	}
	for i := 0; i < len(y); i++ {
		if math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			return nil, fmt.Errorf("value %f at %d, %w", y[i], i, ErrNonFinite)
		}
	}

	tSeries := make([]time.Time, len(t))
	ySeries := make([]float64, len(t))
	copy(tSeries, t)
	copy(ySeries, y)
	srs := &Series{
		T: tSeries,
		Y: ySeries,
	}

	return srs, nil
}

func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Y)
}

func (s *Series) Copy() *Series {
	tSeries := make([]time.Time, len(s.T))
	ySeries := make([]float64, len(s.T))
	copy(tSeries, s.T)
	copy(ySeries, s.Y)
	return &Series{
		T: tSeries,
		Y: ySeries,
	}
}

// StartTime returns the date of the first observation or the zero time for
// an empty series.
func (s *Series) StartTime() time.Time {
	var startTime time.Time
	if s.Len() == 0 {
		return startTime
	}
	return s.T[0]
}

// EndTime returns the date of the last observation or the zero time for an
// empty series.
func (s *Series) EndTime() time.Time {
	var endTime time.Time
	if s.Len() == 0 {
		return endTime
	}
	return s.T[len(s.T)-1]
}

// SplitTail splits off the last n observations into a holdout series leaving
// the remainder as the training series. Both results are copies and do not
// share memory with the receiver.
func (s *Series) SplitTail(n int) (*Series, *Series, error) {
	if n < 1 || n >= s.Len() {
		return nil, nil, fmt.Errorf(
			"holdout of %d observations out of %d, %w",
			n, s.Len(), ErrInvalidSplit,
		)
	}
	cut := s.Len() - n
	train := &Series{
		T: append([]time.Time{}, s.T[:cut]...),
		Y: append([]float64{}, s.Y[:cut]...),
	}
	holdout := &Series{
		T: append([]time.Time{}, s.T[cut:]...),
		Y: append([]float64{}, s.Y[cut:]...),
	}
	return train, holdout, nil
}

// FutureDates returns periods consecutive daily dates beginning the day
// after last.
func FutureDates(last time.Time, periods int) []time.Time {
	t := make([]time.Time, 0, periods)
	for i := 1; i <= periods; i++ {
		t = append(t, last.AddDate(0, 0, i))
	}
	return t
}
