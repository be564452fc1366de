package fleetforecast

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING/evaluate"
	"github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING/strategy"
	"github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING/timeseries"
	"github.com/goccy/go-json"
)

// Result bundles everything a single pipeline run produces. Rerunning with
// the same inputs yields an equal bundle.
type Result struct {
	Params          Params             `json:"params"`
	StrategyUsed    string             `json:"strategy_used"`
	Warnings        []string           `json:"warnings,omitempty"`
	Series          *timeseries.Series `json:"series"`
	HoldoutForecast *strategy.Forecast `json:"holdout_forecast"`
	Report          *evaluate.Report   `json:"report"`
	FutureForecast  *strategy.Forecast `json:"future_forecast"`
}

// WriteJSON writes the bundle as a single JSON document.
func (r *Result) WriteJSON(w io.Writer) error {
	return json.NewEncoder(w).Encode(r)
}

// WriteForecastCSV writes the future forecast as date,forecast,lower,upper
// rows with four decimal values. Bound cells are left empty when the
// forecast carries no confidence bounds.
func (r *Result) WriteForecastCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "forecast", "lower", "upper"}); err != nil {
		return err
	}

	fc := r.FutureForecast
	bounds := fc.HasBounds()
	for i := 0; i < fc.Len(); i++ {
		row := []string{
			fc.T[i].Format(timeseries.DateLayout),
			strconv.FormatFloat(fc.Predicted[i], 'f', 4, 64),
			"",
			"",
		}
		if bounds {
			row[2] = strconv.FormatFloat(fc.Lower[i], 'f', 4, 64)
			row[3] = strconv.FormatFloat(fc.Upper[i], 'f', 4, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
