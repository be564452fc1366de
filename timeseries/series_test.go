package timeseries

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	testData := map[string]struct {
		t        []time.Time
		y        []float64
		expected *Series
		err      error
	}{
		"no observations": {
			err: ErrNoObservations,
		},
		"length mismatch": {
			y:   []float64{1},
			err: ErrLenMismatch,
		},
		"decreasing dates": {
			t: []time.Time{
				time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			},
			y:   []float64{0.5, 0.6},
			err: ErrNonIncreasing,
		},
		"duplicate dates": {
			t: []time.Time{
				time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			},
			y:   []float64{0.5, 0.6},
			err: ErrNonIncreasing,
		},
		"non finite value": {
			t: []time.Time{
				time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			},
			y:   []float64{0.5, math.NaN()},
			err: ErrNonFinite,
		},
		"infinite value": {
			t: []time.Time{
				time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			},
			y:   []float64{math.Inf(1), 0.6},
			err: ErrNonFinite,
		},
		"valid": {
			t: []time.Time{
				time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			},
			y: []float64{0.5, 0.6},
			expected: &Series{
				T: []time.Time{
					time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
					time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
				},
				Y: []float64{0.5, 0.6},
			},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			srs, err := New(td.t, td.y)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, srs)
		})
	}
}

func TestCopy(t *testing.T) {
	tSeries := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	y := []float64{0.4, 0.5}

	srs, err := New(tSeries, y)
	require.Nil(t, err)

	next := srs.Copy()
	require.Equal(t, srs, next)

	srs.Y[0] = 0.9
	require.NotEqual(t, next, srs)
}

func TestSplitTail(t *testing.T) {
	tSeries := GenerateT(10, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	y := GenerateTrendY(tSeries, 0.1, 0.01)

	srs, err := New(tSeries, y)
	require.Nil(t, err)

	testData := map[string]struct {
		n          int
		trainLen   int
		holdoutLen int
		err        error
	}{
		"zero":            {n: 0, err: ErrInvalidSplit},
		"negative":        {n: -3, err: ErrInvalidSplit},
		"full series":     {n: 10, err: ErrInvalidSplit},
		"beyond series":   {n: 11, err: ErrInvalidSplit},
		"single holdout":  {n: 1, trainLen: 9, holdoutLen: 1},
		"typical holdout": {n: 3, trainLen: 7, holdoutLen: 3},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			train, holdout, err := srs.SplitTail(td.n)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			require.Equal(t, td.trainLen, train.Len())
			require.Equal(t, td.holdoutLen, holdout.Len())
			assert.Equal(t, srs.T[:td.trainLen], train.T)
			assert.Equal(t, srs.T[td.trainLen:], holdout.T)
			assert.Equal(t, srs.EndTime(), holdout.EndTime())

			// mutating a split must not write through to the source
			holdout.Y[0] += 1.0
			assert.Equal(t, y[td.trainLen], srs.Y[td.trainLen])
		})
	}
}

func TestFutureDates(t *testing.T) {
	last := time.Date(2024, 2, 27, 0, 0, 0, 0, time.UTC)

	futures := FutureDates(last, 4)
	expected := []time.Time{
		time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, expected, futures)

	assert.Empty(t, FutureDates(last, 0))
}

func TestGenerateT(t *testing.T) {
	tSeries := GenerateT(3, time.Date(2024, 5, 30, 13, 45, 7, 0, time.UTC))
	expected := []time.Time{
		time.Date(2024, 5, 30, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, expected, tSeries)
}
