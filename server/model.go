package server

import (
	fleetforecast "github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING"
	"github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING/evaluate"
	"github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING/strategy"
)

// APIResponse represents standard API response.
type APIResponse struct {
	Status  int         `json:"status" example:"200"`
	Message string      `json:"message" example:"OK"`
	Data    interface{} `json:"data,omitempty"`
}

// ValidationError represents validation error detail.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_REQUIRED"`
	Field   string                 `json:"field,omitempty" example:"test_days"`
	Message string                 `json:"message,omitempty" example:"TestDays must be at least 1"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

// ForecastRequest carries the run parameters accompanying a dataset upload.
// Zero values fall back to the deployment defaults.
type ForecastRequest struct {
	Strategy      string `query:"strategy" form:"strategy" json:"strategy"`
	TestDays      int    `query:"test_days" form:"test_days" json:"test_days" validate:"omitempty,gte=1,lte=365"`
	FuturePeriods int    `query:"future_periods" form:"future_periods" json:"future_periods" validate:"omitempty,gte=1,lte=1096"`
	MissingPolicy string `query:"missing_policy" form:"missing_policy" json:"missing_policy" validate:"omitempty,oneof=drop interpolate"`
}

// ForecastResponse summarizes a completed run. The full bundle stays
// retrievable under the returned key.
type ForecastResponse struct {
	Key          string             `json:"key"`
	Cached       bool               `json:"cached"`
	StrategyUsed string             `json:"strategy_used"`
	Warnings     []string           `json:"warnings,omitempty"`
	Report       *evaluate.Report   `json:"report"`
	Future       *strategy.Forecast `json:"future_forecast"`
}

// NewForecastResponse trims a result bundle down to the run summary.
func NewForecastResponse(key string, cached bool, res *fleetforecast.Result) *ForecastResponse {
	return &ForecastResponse{
		Key:          key,
		Cached:       cached,
		StrategyUsed: res.StrategyUsed,
		Warnings:     res.Warnings,
		Report:       res.Report,
		Future:       res.FutureForecast,
	}
}
