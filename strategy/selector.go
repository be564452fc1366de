package strategy

import (
	"errors"
	"fmt"

	"github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING/timeseries"
)

// Selection is the outcome of resolving a strategy request against the
// available training history.
type Selection struct {
	Model    FittedModel
	Strategy string
	Warnings []string
}

// Select fits the requested strategy against the training series, falling
// back to the baseline when the request cannot be served because of missing
// history or a failed fit. The fallback is recorded as a warning. A baseline
// that cannot fit either is a hard error.
func Select(reg *Registry, name string, srs *timeseries.Series) (*Selection, error) {
	if name == "" {
		name = DefaultStrategy
	}
	strat, err := reg.Get(name)
	if err != nil {
		return nil, err
	}

	model, err := strat.Fit(srs)
	if err == nil {
		return &Selection{Model: model, Strategy: strat.Name()}, nil
	}
	if strat.Name() == StrategyBaseline {
		return nil, err
	}
	if !errors.Is(err, ErrInsufficientHistory) && !errors.Is(err, ErrModelFit) {
		return nil, err
	}

	reason := "model fit failed"
	if errors.Is(err, ErrInsufficientHistory) {
		reason = "insufficient history"
	}

	baseline, baseErr := reg.Get(StrategyBaseline)
	if baseErr != nil {
		return nil, fmt.Errorf("no baseline registered to fall back on, %w", err)
	}
	model, baseErr = baseline.Fit(srs)
	if baseErr != nil {
		return nil, baseErr
	}

	return &Selection{
		Model:    model,
		Strategy: StrategyBaseline,
		Warnings: []string{
			fmt.Sprintf("fallback: %s unavailable (%s), used baseline", strat.Name(), reason),
		},
	}, nil
}
