package strategy

import (
	"testing"
	"time"

	"github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING/timeseries"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeSelectSeries(t *testing.T, n int) *timeseries.Series {
	t.Helper()

	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	dates := timeseries.GenerateT(n, start)
	y := timeseries.GenerateTrendY(dates, 60.0, 0.02).
		Add(timeseries.GenerateWaveY(dates, 5.0, weeklyPeriod.Seconds(), 1.0, 0))

	srs, err := timeseries.New(dates, y)
	require.Nil(t, err)
	return srs
}

func TestSelect(t *testing.T) {
	reg := NewDefaultRegistry()

	cases := map[string]struct {
		name        string
		n           int
		expStrategy string
		expWarnings []string
		expected    error
	}{
		"seasonal with full history": {
			name:        StrategySeasonal,
			n:           400,
			expStrategy: StrategySeasonal,
		},
		"seasonal falls back on short history": {
			name:        StrategySeasonal,
			n:           60,
			expStrategy: StrategyBaseline,
			expWarnings: []string{"fallback: seasonal unavailable (insufficient history), used baseline"},
		},
		"baseline honored despite long history": {
			name:        StrategyBaseline,
			n:           730,
			expStrategy: StrategyBaseline,
		},
		"empty name selects default": {
			name:        "",
			n:           400,
			expStrategy: StrategySeasonal,
		},
		"baseline below its own minimum": {
			name:     StrategyBaseline,
			n:        10,
			expected: ErrInsufficientHistory,
		},
		"fallback below baseline minimum": {
			name:     StrategySeasonal,
			n:        10,
			expected: ErrInsufficientHistory,
		},
		"unknown strategy": {
			name:     "drift",
			n:        400,
			expected: ErrUnknownStrategy,
		},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			sel, err := Select(reg, c.name, makeSelectSeries(t, c.n))
			if c.expected != nil {
				assert.ErrorIs(t, err, c.expected)
				return
			}
			require.Nil(t, err)
			require.NotNil(t, sel.Model)
			assert.Equal(t, c.expStrategy, sel.Strategy)
			assert.Equal(t, c.expWarnings, sel.Warnings)
		})
	}
}

func TestSelectFallbackModelPredicts(t *testing.T) {
	reg := NewDefaultRegistry()
	srs := makeSelectSeries(t, 60)

	sel, err := Select(reg, StrategySeasonal, srs)
	require.Nil(t, err)
	require.Equal(t, StrategyBaseline, sel.Strategy)

	fc, err := sel.Model.Predict(timeseries.FutureDates(srs.EndTime(), 7))
	require.Nil(t, err)
	assert.Equal(t, 7, fc.Len())
}
