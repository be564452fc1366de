package fleetforecast

import (
	"io"
	"os"
	"time"

	"github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING/strategy"
	"github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING/timeseries"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// LineHistoryForecast generates an echart line chart extending the observed
// history with the future forecast and its confidence band.
func LineHistoryForecast(srs *timeseries.Series, fc *strategy.Forecast) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: "Utilization Forecast",
			},
		),
	)

	t := make([]time.Time, 0, srs.Len()+fc.Len())
	t = append(t, srs.T...)
	t = append(t, fc.T...)

	lineDataActual := make([]opts.LineData, 0, len(t))
	lineDataForecast := make([]opts.LineData, 0, len(t))
	lineDataUpper := make([]opts.LineData, 0, len(t))
	lineDataLower := make([]opts.LineData, 0, len(t))

	for i := 0; i < srs.Len(); i++ {
		lineDataActual = append(lineDataActual, opts.LineData{Value: srs.Y[i]})
		lineDataForecast = append(lineDataForecast, opts.LineData{})
		lineDataUpper = append(lineDataUpper, opts.LineData{})
		lineDataLower = append(lineDataLower, opts.LineData{})
	}
	bounds := fc.HasBounds()
	for i := 0; i < fc.Len(); i++ {
		lineDataActual = append(lineDataActual, opts.LineData{})
		lineDataForecast = append(lineDataForecast, opts.LineData{Value: fc.Predicted[i]})
		upper, lower := opts.LineData{}, opts.LineData{}
		if bounds {
			upper.Value = fc.Upper[i]
			lower.Value = fc.Lower[i]
		}
		lineDataUpper = append(lineDataUpper, upper)
		lineDataLower = append(lineDataLower, lower)
	}

	line.SetXAxis(t).
		AddSeries("Actual", lineDataActual).
		AddSeries("Forecast", lineDataForecast).
		AddSeries("Upper", lineDataUpper).
		AddSeries("Lower", lineDataLower)
	return line
}

// LineHoldout generates an echart line chart comparing the holdout tail of
// the series against the forecast that was scored on it.
func LineHoldout(srs *timeseries.Series, fc *strategy.Forecast) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: "Holdout Evaluation",
			},
		),
	)

	offset := srs.Len() - fc.Len()
	if offset < 0 {
		offset = 0
	}

	lineDataActual := make([]opts.LineData, 0, fc.Len())
	lineDataPredicted := make([]opts.LineData, 0, fc.Len())
	for i := 0; i < fc.Len(); i++ {
		lineDataActual = append(lineDataActual, opts.LineData{Value: srs.Y[offset+i]})
		lineDataPredicted = append(lineDataPredicted, opts.LineData{Value: fc.Predicted[i]})
	}

	line.SetXAxis(fc.T).
		AddSeries("Actual", lineDataActual).
		AddSeries("Predicted", lineDataPredicted)
	return line
}

// RenderCharts uses the Apache Echarts library to generate an html page
// showing the future forecast over the history along with the holdout
// evaluation.
func (r *Result) RenderCharts(w io.Writer) error {
	page := components.NewPage()
	page.AddCharts(
		LineHistoryForecast(r.Series, r.FutureForecast),
		LineHoldout(r.Series, r.HoldoutForecast),
	)
	return page.Render(w)
}

// Plot renders the result charts to an html file at path.
func (r *Result) Plot(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return r.RenderCharts(io.MultiWriter(file))
}
