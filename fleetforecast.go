// Package fleetforecast turns raw fleet utilization exports into daily
// forecasts with holdout accuracy metrics. A pipeline run validates and
// normalizes the input, fits the requested strategy with baseline fallback,
// scores a holdout window, and projects future utilization.
package fleetforecast

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING/dataset"
	"github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING/evaluate"
	"github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING/strategy"
	"github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING/timeseries"
)

// ErrConfig marks parameter combinations no dataset could satisfy, as
// opposed to failures caused by the data itself.
var ErrConfig = errors.New("invalid run configuration")

// Stage names the pipeline phase an error surfaced in.
type Stage string

const (
	StageValidate Stage = "validate"
	StageSplit    Stage = "split"
	StageFit      Stage = "fit"
	StageEvaluate Stage = "evaluate"
	StageForecast Stage = "forecast"
	StageExport   Stage = "export"
)

// StageError ties a pipeline failure to the stage that produced it.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func newStageError(stage Stage, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}

// Forecaster runs the forecasting pipeline using the strategies of its
// registry.
type Forecaster struct {
	registry *strategy.Registry
}

// New creates a new instance of a Forecaster using the provided registry.
// If no registry is provided the default one is used.
func New(reg *strategy.Registry) *Forecaster {
	if reg == nil {
		reg = strategy.NewDefaultRegistry()
	}
	return &Forecaster{registry: reg}
}

// RunTable normalizes a raw table and runs the pipeline over the resulting
// series. Normalization warnings lead the result warnings.
func (f *Forecaster) RunTable(tbl *dataset.Table, opt *dataset.Options, params Params) (*Result, error) {
	srs, warnings, err := dataset.Normalize(tbl, opt)
	if err != nil {
		return nil, newStageError(StageValidate, err)
	}
	for _, warning := range warnings {
		slog.Warn("dataset normalization", "warning", warning)
	}

	res, err := f.Run(srs, params)
	if err != nil {
		return nil, err
	}
	res.Warnings = append(warnings, res.Warnings...)
	return res, nil
}

// Run executes split, fit, evaluate, and forecast over an already normalized
// series and returns the result bundle.
func (f *Forecaster) Run(srs *timeseries.Series, params Params) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, newStageError(StageValidate, err)
	}
	if params.TestDays >= srs.Len() {
		return nil, newStageError(StageSplit, fmt.Errorf(
			"holdout of %d days needs more than the %d observations available, %w",
			params.TestDays, srs.Len(), ErrConfig,
		))
	}

	train, holdout, err := srs.SplitTail(params.TestDays)
	if err != nil {
		return nil, newStageError(StageSplit, err)
	}

	sel, err := strategy.Select(f.registry, params.Strategy, train)
	if err != nil {
		return nil, newStageError(StageFit, err)
	}
	warnings := append([]string{}, sel.Warnings...)

	holdoutFc, err := sel.Model.Predict(holdout.T)
	if err != nil {
		return nil, newStageError(StageEvaluate, err)
	}
	report, err := evaluate.NewReport(holdoutFc.Predicted, holdout.Y)
	if err != nil {
		return nil, newStageError(StageEvaluate, err)
	}

	// refit over the full history so the future forecast sees the holdout too
	fullSel, err := strategy.Select(f.registry, sel.Strategy, srs)
	if err != nil {
		return nil, newStageError(StageForecast, err)
	}
	warnings = append(warnings, fullSel.Warnings...)
	for _, warning := range warnings {
		slog.Warn("strategy fallback", "warning", warning)
	}

	future := timeseries.FutureDates(srs.EndTime(), params.FuturePeriods)
	futureFc, err := fullSel.Model.Predict(future)
	if err != nil {
		return nil, newStageError(StageForecast, err)
	}

	return &Result{
		Params:          params,
		StrategyUsed:    fullSel.Strategy,
		Warnings:        warnings,
		Series:          srs.Copy(),
		HoldoutForecast: holdoutFc,
		Report:          report,
		FutureForecast:  futureFc,
	}, nil
}
