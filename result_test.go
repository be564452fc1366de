package fleetforecast

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING/evaluate"
	"github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteForecastCSV(t *testing.T) {
	res := &Result{
		FutureForecast: &strategy.Forecast{
			T: []time.Time{
				time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
			},
			Predicted: []float64{70.5, 71.25},
			Lower:     []float64{65.0, 66.125},
			Upper:     []float64{75.5, 76.0},
		},
	}

	var buf bytes.Buffer
	require.Nil(t, res.WriteForecastCSV(&buf))

	expected := "date,forecast,lower,upper\n" +
		"2024-05-01,70.5000,65.0000,75.5000\n" +
		"2024-05-02,71.2500,66.1250,76.0000\n"
	assert.Equal(t, expected, buf.String())
}

func TestWriteForecastCSVNoBounds(t *testing.T) {
	res := &Result{
		FutureForecast: &strategy.Forecast{
			T:         []time.Time{time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
			Predicted: []float64{70.5},
		},
	}

	var buf bytes.Buffer
	require.Nil(t, res.WriteForecastCSV(&buf))

	assert.Equal(t, "date,forecast,lower,upper\n2024-05-01,70.5000,,\n", buf.String())
}

func TestResultWriteJSON(t *testing.T) {
	report, err := evaluate.NewReport([]float64{4}, []float64{0})
	require.Nil(t, err)

	res := &Result{
		Params:       NewDefaultParams(),
		StrategyUsed: strategy.StrategyBaseline,
		Warnings:     []string{"fallback: seasonal unavailable (insufficient history), used baseline"},
		Report:       report,
	}

	var buf bytes.Buffer
	require.Nil(t, res.WriteJSON(&buf))

	out := buf.String()
	assert.Contains(t, out, `"strategy_used":"baseline"`)
	assert.Contains(t, out, `"mape":null`)
	assert.Contains(t, out, `"warnings"`)
}

func TestResultPlot(t *testing.T) {
	srs := makeRunSeries(t, 200)
	res, err := New(nil).Run(srs, NewDefaultParams())
	require.Nil(t, err)

	path := filepath.Join(t.TempDir(), "forecast.html")
	require.Nil(t, res.Plot(path))

	data, err := os.ReadFile(path)
	require.Nil(t, err)
	assert.Contains(t, string(data), "Utilization Forecast")
	assert.Contains(t, string(data), "Holdout Evaluation")
}
