package strategy

import (
	"fmt"
	"math"
	"time"

	"github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING/feature"
	"github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING/timeseries"
	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const (
	// DefaultSeasonalMinHistory is the smallest daily history that gives the
	// weekly fit enough cycles to be stable.
	DefaultSeasonalMinHistory = 90

	// DefaultYearlyMinHistory is the history needed to observe two full
	// yearly cycles before the yearly component is enabled.
	DefaultYearlyMinHistory = 730

	LabelSeasWeekly = "weekly"
	LabelSeasYearly = "yearly"

	weeklyPeriod = 7 * 24 * time.Hour
	yearlyPeriod = 8766 * time.Hour // 365.25 days
)

// Holiday describes a recurring calendar event modeled with an indicator
// column. Dates within the window around each observed occurrence share one
// coefficient.
type Holiday struct {
	Name       string
	Cal        *cal.Holiday
	DaysBefore int
	DaysAfter  int
}

// DefaultHolidays covers the US holidays that move fleet demand the most.
func DefaultHolidays() []Holiday {
	return []Holiday{
		{Name: "new_years", Cal: us.NewYear, DaysBefore: 1, DaysAfter: 1},
		{Name: "memorial_day", Cal: us.MemorialDay, DaysBefore: 1, DaysAfter: 1},
		{Name: "independence_day", Cal: us.IndependenceDay, DaysBefore: 1, DaysAfter: 1},
		{Name: "labor_day", Cal: us.LaborDay, DaysBefore: 1, DaysAfter: 1},
		{Name: "thanksgiving", Cal: us.ThanksgivingDay, DaysBefore: 1, DaysAfter: 2},
		{Name: "christmas", Cal: us.ChristmasDay, DaysBefore: 2, DaysAfter: 2},
	}
}

// OutlierOptions configures the iterative outlier removal passes run during
// a seasonal fit.
type OutlierOptions struct {
	NumPasses       int
	UpperPercentile float64
	LowerPercentile float64
	TukeyFactor     float64
}

func NewOutlierOptions() *OutlierOptions {
	return &OutlierOptions{
		NumPasses:       3,
		UpperPercentile: 0.9,
		LowerPercentile: 0.1,
		TukeyFactor:     1.0,
	}
}

// SeasonalOptions configures the seasonal strategy. Zero values fall back
// to the package defaults.
type SeasonalOptions struct {
	WeeklyOrders     int
	YearlyOrders     int
	MinHistory       int
	YearlyMinHistory int
	Holidays         []Holiday
	OutlierOptions   *OutlierOptions
	ResidualZscore   float64
}

// NewDefaultSeasonalOptions returns seasonal options with weekly and yearly
// cycles, the default holiday set, and a 95% confidence band.
func NewDefaultSeasonalOptions() *SeasonalOptions {
	return &SeasonalOptions{
		WeeklyOrders:     3,
		YearlyOrders:     10,
		MinHistory:       DefaultSeasonalMinHistory,
		YearlyMinHistory: DefaultYearlyMinHistory,
		Holidays:         DefaultHolidays(),
		ResidualZscore:   1.96,
	}
}

// Seasonal models trend plus additive weekly and yearly cycles with holiday
// indicators, fit by least squares. The yearly cycle is only enabled when
// the training history holds at least YearlyMinHistory observations.
type Seasonal struct {
	opt *SeasonalOptions
}

func NewSeasonal(opt *SeasonalOptions) *Seasonal {
	if opt == nil {
		opt = NewDefaultSeasonalOptions()
	}
	return &Seasonal{opt: opt}
}

func (s *Seasonal) Name() string {
	return StrategySeasonal
}

func (s *Seasonal) MinHistory() int {
	if s.opt.MinHistory > 0 {
		return s.opt.MinHistory
	}
	return DefaultSeasonalMinHistory
}

// Fit builds the feature matrix over the training series and solves for the
// component coefficients, iterating to remove outliers when configured.
func (s *Seasonal) Fit(srs *timeseries.Series) (FittedModel, error) {
	if srs.Len() < s.MinHistory() {
		return nil, fmt.Errorf(
			"training history of %d observations, need at least %d, %w",
			srs.Len(), s.MinHistory(), ErrInsufficientHistory,
		)
	}

	opt := s.opt

	yearlyMin := opt.YearlyMinHistory
	if yearlyMin <= 0 {
		yearlyMin = DefaultYearlyMinHistory
	}
	yearlyOrders := opt.YearlyOrders
	if srs.Len() < yearlyMin {
		yearlyOrders = 0
	}

	zscore := opt.ResidualZscore
	if zscore <= 0 {
		zscore = 1.96
	}

	m := &seasonalModel{
		weeklyOrders: opt.WeeklyOrders,
		yearlyOrders: yearlyOrders,
		holidays:     append([]Holiday{}, opt.Holidays...),
		trainStart:   srs.StartTime(),
		trainEnd:     srs.EndTime(),
		zscore:       zscore,
	}

	trainT := append([]time.Time{}, srs.T...)
	trainY := append([]float64{}, srs.Y...)

	numPasses := 0
	if opt.OutlierOptions != nil {
		numPasses = opt.OutlierOptions.NumPasses
	}

	var residual []float64
	for pass := 0; pass <= numPasses; pass++ {
		if err := m.fit(trainT, trainY); err != nil {
			return nil, err
		}

		predicted := m.evaluate(trainT)
		residual = make([]float64, len(trainY))
		floats.Add(residual, predicted)
		floats.Sub(residual, trainY)

		if opt.OutlierOptions == nil {
			break
		}

		outlierIdxs := DetectOutliers(
			residual,
			opt.OutlierOptions.LowerPercentile,
			opt.OutlierOptions.UpperPercentile,
			opt.OutlierOptions.TukeyFactor,
		)
		if len(outlierIdxs) == 0 {
			break
		}
		outlierSet := make(map[int]struct{}, len(outlierIdxs))
		for _, idx := range outlierIdxs {
			outlierSet[idx] = struct{}{}
		}

		keptT := make([]time.Time, 0, len(trainT))
		keptY := make([]float64, 0, len(trainY))
		for i := 0; i < len(trainT); i++ {
			if _, exists := outlierSet[i]; exists {
				continue
			}
			keptT = append(keptT, trainT[i])
			keptY = append(keptY, trainY[i])
		}
		if len(keptT) < s.MinHistory() {
			break
		}
		trainT, trainY = keptT, keptY
	}

	_, sigma := stat.MeanStdDev(residual, nil)
	if math.IsNaN(sigma) {
		sigma = 0
	}
	m.sigma = sigma

	return m, nil
}

// seasonalModel holds the fit coefficients along with everything needed to
// regenerate the feature matrix for new target dates.
type seasonalModel struct {
	weeklyOrders int
	yearlyOrders int
	holidays     []Holiday

	labels *feature.Labels
	coef   []float64

	trainStart time.Time
	trainEnd   time.Time
	sigma      float64
	zscore     float64
}

func (m *seasonalModel) fit(t []time.Time, y []float64) error {
	x := m.generateFeatures(t)

	// prune constant columns, indicator features with no occurrence in the
	// training window would otherwise make the design matrix singular
	interceptLabel := feature.Intercept().String()
	for label, data := range x {
		if label == interceptLabel {
			continue
		}
		if floats.Max(data.Data) == floats.Min(data.Data) {
			delete(x, label)
		}
	}

	m.labels = x.Labels()

	coef, err := solveLeastSquares(x.Matrix(), y)
	if err != nil {
		return err
	}
	m.coef = coef
	return nil
}

// evaluate computes the model output for the given dates. Features absent
// from the fit carry zero weight.
func (m *seasonalModel) evaluate(t []time.Time) []float64 {
	x := m.generateFeatures(t)
	xLabels := x.Labels()

	n := xLabels.Len()
	weights := make([]float64, 0, n)
	for _, label := range xLabels.Labels() {
		if idx, exists := m.labels.Index(label); exists {
			weights = append(weights, m.coef[idx])
			continue
		}
		weights = append(weights, 0.0)
	}

	wMx := mat.NewDense(1, n, weights)
	featMx := x.Matrix().T()

	var resMx mat.Dense
	resMx.Mul(wMx, featMx)
	return mat.Row(nil, 0, &resMx)
}

func (m *seasonalModel) Predict(t []time.Time) (*Forecast, error) {
	if len(t) == 0 {
		return nil, ErrNoTargetDates
	}

	predicted := m.evaluate(t)

	lower := make([]float64, len(predicted))
	upper := make([]float64, len(predicted))
	band := m.zscore * m.sigma
	for i, p := range predicted {
		lower[i] = p - band
		upper[i] = p + band
	}

	return &Forecast{
		T:         append([]time.Time{}, t...),
		Predicted: predicted,
		Lower:     lower,
		Upper:     upper,
	}, nil
}

func (m *seasonalModel) generateFeatures(t []time.Time) feature.Set {
	feat := make(feature.Set)

	epoch := make([]float64, len(t))
	for i, tPnt := range t {
		epoch[i] = float64(tPnt.Unix())
	}

	ones := make([]float64, len(t))
	floats.AddConst(1.0, ones)
	feat.Add(feature.Intercept(), ones)

	span := m.trainEnd.Sub(m.trainStart).Seconds()
	if span > 0 {
		start := float64(m.trainStart.Unix())
		linear := make([]float64, len(t))
		for i, e := range epoch {
			linear[i] = (e - start) / span
		}
		feat.Add(feature.Linear(), linear)
	}

	addFourier(feat, LabelSeasWeekly, epoch, m.weeklyOrders, weeklyPeriod)
	addFourier(feat, LabelSeasYearly, epoch, m.yearlyOrders, yearlyPeriod)

	for _, hol := range m.holidays {
		feat.Add(feature.NewEvent(hol.Name), holidayIndicator(t, hol))
	}

	return feat
}

func addFourier(feat feature.Set, label string, epoch []float64, orders int, period time.Duration) {
	periodSec := period.Seconds()
	for order := 1; order <= orders; order++ {
		omega := 2.0 * math.Pi * float64(order) / periodSec
		sinFeat := make([]float64, len(epoch))
		cosFeat := make([]float64, len(epoch))
		for i, e := range epoch {
			rad := omega * e
			sinFeat[i] = math.Sin(rad)
			cosFeat[i] = math.Cos(rad)
		}
		feat.Add(feature.NewSeasonality(label, feature.FourierCompSin, order), sinFeat)
		feat.Add(feature.NewSeasonality(label, feature.FourierCompCos, order), cosFeat)
	}
}

// holidayIndicator marks every date falling in the window around an observed
// occurrence of the holiday across the years spanned by t.
func holidayIndicator(t []time.Time, hol Holiday) []float64 {
	ind := make([]float64, len(t))
	if hol.Cal == nil || len(t) == 0 {
		return ind
	}

	type window struct {
		start, end time.Time
	}
	startYear := t[0].Year() - 1
	endYear := t[len(t)-1].Year() + 1
	windows := make([]window, 0, endYear-startYear+1)
	for year := startYear; year <= endYear; year++ {
		_, observed := hol.Cal.Calc(year)
		day := time.Date(observed.Year(), observed.Month(), observed.Day(), 0, 0, 0, 0, time.UTC)
		windows = append(windows, window{
			start: day.AddDate(0, 0, -hol.DaysBefore),
			end:   day.AddDate(0, 0, hol.DaysAfter),
		})
	}

	for i, tPnt := range t {
		for _, w := range windows {
			if !tPnt.Before(w.start) && !tPnt.After(w.end) {
				ind[i] = 1.0
				break
			}
		}
	}
	return ind
}
