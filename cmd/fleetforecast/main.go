// Command fleetforecast runs the forecasting pipeline over a CSV dataset and
// prints a run summary. The result bundle can be exported as JSON, CSV, or an
// HTML chart.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	fleetforecast "github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING"
	"github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING/dataset"
	"github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING/strategy"
	"github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING/timeseries"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "fleetforecast:", err)
		os.Exit(exitCode(err))
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("fleetforecast", flag.ContinueOnError)
	var (
		datasetPath   = fs.String("dataset", "", "CSV dataset path (required)")
		strategyName  = fs.String("strategy", "", "forecast strategy, seasonal or baseline")
		testDays      = fs.Int("test-days", fleetforecast.DefaultTestDays, "holdout window in days")
		futurePeriods = fs.Int("future-periods", fleetforecast.DefaultFuturePeriods, "days to forecast past the history")
		missingPolicy = fs.String("missing-policy", string(dataset.MissingDrop), "missing value policy, drop or interpolate")
		exportJSON    = fs.String("export-json", "", "write the full result bundle to this path")
		exportCSV     = fs.String("export-csv", "", "write the future forecast to this path as CSV")
		plotPath      = fs.String("plot", "", "write an HTML chart of the run to this path")
	)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%v, %w", err, fleetforecast.ErrConfig)
	}

	if *datasetPath == "" {
		fs.Usage()
		return fmt.Errorf("-dataset is required, %w", fleetforecast.ErrConfig)
	}

	f, err := os.Open(*datasetPath)
	if err != nil {
		return fmt.Errorf("open dataset, %w", err)
	}
	defer f.Close()

	tbl, err := dataset.ReadCSV(f)
	if err != nil {
		return err
	}

	opt := dataset.NewDefaultOptions()
	opt.MissingPolicy = dataset.MissingPolicy(*missingPolicy)

	params := fleetforecast.Params{
		Strategy:      *strategyName,
		TestDays:      *testDays,
		FuturePeriods: *futurePeriods,
	}

	res, err := fleetforecast.New(nil).RunTable(tbl, opt, params)
	if err != nil {
		return err
	}

	printSummary(stdout, res)

	if *exportJSON != "" {
		if err := writeFile(*exportJSON, res.WriteJSON); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "wrote", *exportJSON)
	}
	if *exportCSV != "" {
		if err := writeFile(*exportCSV, res.WriteForecastCSV); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "wrote", *exportCSV)
	}
	if *plotPath != "" {
		if err := res.Plot(*plotPath); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "wrote", *plotPath)
	}

	return nil
}

func printSummary(w io.Writer, res *fleetforecast.Result) {
	srs := res.Series
	fmt.Fprintf(w, "observations:  %d (%s to %s)\n",
		srs.Len(),
		srs.StartTime().Format(timeseries.DateLayout),
		srs.EndTime().Format(timeseries.DateLayout))
	fmt.Fprintf(w, "strategy:      %s\n", res.StrategyUsed)
	for _, warn := range res.Warnings {
		fmt.Fprintf(w, "warning:       %s\n", warn)
	}

	fmt.Fprintf(w, "holdout:       %d days\n", res.Params.TestDays)
	fmt.Fprintf(w, "  rmse:        %.4f\n", res.Report.RMSE)
	fmt.Fprintf(w, "  mae:         %.4f\n", res.Report.MAE)
	if res.Report.MAPEDefined {
		fmt.Fprintf(w, "  mape:        %.4f\n", res.Report.MAPE)
	} else {
		fmt.Fprintf(w, "  mape:        undefined\n")
	}

	fc := res.FutureForecast
	fmt.Fprintf(w, "future:        %d days (%s to %s)\n",
		fc.Len(),
		fc.T[0].Format(timeseries.DateLayout),
		fc.T[len(fc.T)-1].Format(timeseries.DateLayout))
}

func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s, %w", path, err)
	}
	defer file.Close()

	return write(file)
}

// exitCode separates caller mistakes from pipeline failures. Bad parameters
// and rejected datasets exit 2, anything else exits 1.
func exitCode(err error) int {
	switch {
	case errors.Is(err, fleetforecast.ErrConfig),
		errors.Is(err, dataset.ErrNoHeader),
		errors.Is(err, dataset.ErrSchema),
		errors.Is(err, dataset.ErrInsufficientData),
		errors.Is(err, dataset.ErrUnknownPolicy),
		errors.Is(err, strategy.ErrUnknownStrategy),
		errors.Is(err, strategy.ErrInsufficientHistory):
		return 2
	}
	return 1
}
