package dataset

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING/timeseries"
)

var (
	ErrSchema           = errors.New("unable to resolve required columns")
	ErrInsufficientData = errors.New("not enough observations")
	ErrUnknownPolicy    = errors.New("unknown missing value policy")
)

// MissingPolicy controls what Normalize does with rows whose target value is
// absent.
type MissingPolicy string

const (
	// MissingDrop removes the row and records a warning.
	MissingDrop MissingPolicy = "drop"

	// MissingInterpolate fills the value linearly in time from the nearest
	// observations on either side. Missing values at the edges of the series
	// have no surrounding observations and are still dropped.
	MissingInterpolate MissingPolicy = "interpolate"
)

// DefaultMinObservations covers the smallest training history any strategy
// accepts plus one holdout point.
const DefaultMinObservations = 15

// Options configures column resolution and row cleaning. Alias lists are
// ordered, the first alias with a matching column wins.
type Options struct {
	TimestampAliases []string
	ValueAliases     []string
	MissingPolicy    MissingPolicy
	MinObservations  int
}

// NewDefaultOptions returns the default column aliases and cleaning policy.
func NewDefaultOptions() *Options {
	return &Options{
		TimestampAliases: []string{"date", "ds", "timestamp"},
		ValueAliases:     []string{"utilization_rate", "target", "y"},
		MissingPolicy:    MissingDrop,
		MinObservations:  DefaultMinObservations,
	}
}

// Schema maps a Table's columns to the roles Normalize reads from.
type Schema struct {
	TimeColumn  string
	TimeIndex   int
	ValueColumn string
	ValueIndex  int
}

// ResolveSchema matches headers against the ordered alias lists.
// Matching is case-insensitive and ignores surrounding whitespace.
func ResolveSchema(headers []string, opt *Options) (Schema, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	if len(headers) == 0 {
		return Schema{}, fmt.Errorf("empty header row, %w", ErrSchema)
	}

	cols := make([]string, len(headers))
	for i, h := range headers {
		cols[i] = strings.ToLower(strings.TrimSpace(h))
	}

	timeIdx, timeCol := matchAlias(cols, opt.TimestampAliases)
	if timeIdx < 0 {
		return Schema{}, fmt.Errorf(
			"no timestamp column in %v matching aliases %v, %w",
			headers, opt.TimestampAliases, ErrSchema,
		)
	}
	valueIdx, valueCol := matchAlias(cols, opt.ValueAliases)
	if valueIdx < 0 {
		return Schema{}, fmt.Errorf(
			"no value column in %v matching aliases %v, %w",
			headers, opt.ValueAliases, ErrSchema,
		)
	}

	return Schema{
		TimeColumn:  timeCol,
		TimeIndex:   timeIdx,
		ValueColumn: valueCol,
		ValueIndex:  valueIdx,
	}, nil
}

func matchAlias(cols []string, aliases []string) (int, string) {
	for _, alias := range aliases {
		for i, col := range cols {
			if col == alias {
				return i, col
			}
		}
	}
	return -1, ""
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
}

// parseDate parses raw into a timezone-naive calendar date. Inputs carrying
// a timezone are converted to UTC before the date is taken.
func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		ts, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		ts = ts.UTC()
		return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

func missingValue(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "nan", "na", "null", "none":
		return true
	}
	return false
}

type record struct {
	t time.Time
	y float64 // NaN marks a missing value pending interpolation
}

// Normalize turns a raw Table into a validated Series. It resolves the
// timestamp and value columns, parses and cleans every row, sorts ascending,
// collapses duplicate dates keeping the last occurrence, and enforces the
// minimum observation count. Returned warnings describe every row that was
// dropped, filled, or collapsed, in input order then date order.
func Normalize(tbl *Table, opt *Options) (*timeseries.Series, []string, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	switch opt.MissingPolicy {
	case MissingDrop, MissingInterpolate, "":
	default:
		return nil, nil, fmt.Errorf("%q, %w", opt.MissingPolicy, ErrUnknownPolicy)
	}
	if tbl == nil || len(tbl.Headers) == 0 {
		return nil, nil, fmt.Errorf("empty header row, %w", ErrSchema)
	}

	schema, err := ResolveSchema(tbl.Headers, opt)
	if err != nil {
		return nil, nil, err
	}

	var warnings []string
	records := make([]record, 0, len(tbl.Rows))
	for i, cells := range tbl.Rows {
		rowNum := i + 1

		if schema.TimeIndex >= len(cells) {
			warnings = append(warnings, fmt.Sprintf("dropped row %d: missing timestamp", rowNum))
			continue
		}
		ts, ok := parseDate(cells[schema.TimeIndex])
		if !ok {
			warnings = append(warnings, fmt.Sprintf(
				"dropped row %d: unparseable timestamp %q",
				rowNum, cells[schema.TimeIndex],
			))
			continue
		}

		var raw string
		if schema.ValueIndex < len(cells) {
			raw = cells[schema.ValueIndex]
		}
		if missingValue(raw) {
			if opt.MissingPolicy == MissingInterpolate {
				records = append(records, record{t: ts, y: math.NaN()})
				continue
			}
			warnings = append(warnings, fmt.Sprintf("dropped row %d: missing value", rowNum))
			continue
		}
		val, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("dropped row %d: non-numeric value %q", rowNum, raw))
			continue
		}
		if math.IsNaN(val) || math.IsInf(val, 0) {
			warnings = append(warnings, fmt.Sprintf("dropped row %d: non-finite value %q", rowNum, raw))
			continue
		}
		records = append(records, record{t: ts, y: val})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].t.Before(records[j].t)
	})

	collapsed := make([]record, 0, len(records))
	for _, rec := range records {
		if len(collapsed) > 0 && collapsed[len(collapsed)-1].t.Equal(rec.t) {
			collapsed[len(collapsed)-1] = rec
			warnings = append(warnings, fmt.Sprintf(
				"duplicate timestamp %s, kept last occurrence",
				rec.t.Format(timeseries.DateLayout),
			))
			continue
		}
		collapsed = append(collapsed, rec)
	}

	if opt.MissingPolicy == MissingInterpolate {
		collapsed, warnings = interpolateMissing(collapsed, warnings)
	}

	minObs := opt.MinObservations
	if minObs < 1 {
		minObs = 1
	}
	if len(collapsed) < minObs {
		return nil, warnings, fmt.Errorf(
			"%d observations after cleaning, need at least %d, %w",
			len(collapsed), minObs, ErrInsufficientData,
		)
	}

	tSeries := make([]time.Time, 0, len(collapsed))
	ySeries := make([]float64, 0, len(collapsed))
	for _, rec := range collapsed {
		tSeries = append(tSeries, rec.t)
		ySeries = append(ySeries, rec.y)
	}
	srs, err := timeseries.New(tSeries, ySeries)
	if err != nil {
		return nil, warnings, fmt.Errorf("unable to build series, %w", err)
	}
	return srs, warnings, nil
}

func interpolateMissing(records []record, warnings []string) ([]record, []string) {
	out := make([]record, 0, len(records))
	for i, rec := range records {
		if !math.IsNaN(rec.y) {
			out = append(out, rec)
			continue
		}
		prev, next := -1, -1
		for j := i - 1; j >= 0; j-- {
			if !math.IsNaN(records[j].y) {
				prev = j
				break
			}
		}
		for j := i + 1; j < len(records); j++ {
			if !math.IsNaN(records[j].y) {
				next = j
				break
			}
		}
		if prev < 0 || next < 0 {
			warnings = append(warnings, fmt.Sprintf(
				"dropped %s: missing value outside interpolation range",
				rec.t.Format(timeseries.DateLayout),
			))
			continue
		}

		span := records[next].t.Sub(records[prev].t).Seconds()
		frac := rec.t.Sub(records[prev].t).Seconds() / span
		val := records[prev].y + (records[next].y-records[prev].y)*frac
		warnings = append(warnings, fmt.Sprintf(
			"interpolated missing value at %s",
			rec.t.Format(timeseries.DateLayout),
		))
		out = append(out, record{t: rec.t, y: val})
	}
	return out, warnings
}
