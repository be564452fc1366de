package fleetforecast

import (
	"fmt"

	"github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING/strategy"
)

const (
	DefaultTestDays      = 30
	DefaultFuturePeriods = 30
)

// Params controls a single pipeline run.
type Params struct {
	Strategy      string `json:"strategy"`
	TestDays      int    `json:"test_days"`
	FuturePeriods int    `json:"future_periods"`
}

// NewDefaultParams returns run parameters with the default strategy, a 30
// day holdout, and a 30 day future forecast.
func NewDefaultParams() Params {
	return Params{
		Strategy:      strategy.DefaultStrategy,
		TestDays:      DefaultTestDays,
		FuturePeriods: DefaultFuturePeriods,
	}
}

// Validate rejects parameter combinations no dataset could satisfy.
func (p Params) Validate() error {
	if p.TestDays < 1 {
		return fmt.Errorf("holdout of %d days, need at least 1, %w", p.TestDays, ErrConfig)
	}
	if p.FuturePeriods < 1 {
		return fmt.Errorf("future forecast of %d periods, need at least 1, %w", p.FuturePeriods, ErrConfig)
	}
	return nil
}
