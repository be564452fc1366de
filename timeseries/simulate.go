package timeseries

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/floats"
)

// GenerateT returns n consecutive daily dates starting at the day of start
// truncated to midnight UTC.
func GenerateT(n int, start time.Time) []time.Time {
	t := make([]time.Time, 0, n)
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		t = append(t, day.AddDate(0, 0, i))
	}
	return t
}

type Signal []float64

func (s Signal) Add(src Signal) Signal {
	floats.Add(s, src)
	return s
}

func (s Signal) Clamp(lo, hi float64) Signal {
	n := len(s)
	for i := 0; i < n; i++ {
		s[i] = math.Min(math.Max(s[i], lo), hi)
	}
	return s
}

func (s Signal) MaskWithWeekend(t []time.Time) Signal {
	n := len(s)
	for i := 0; i < n; i++ {
		switch t[i].Weekday() {
		case time.Saturday, time.Sunday:
			continue
		default:
			s[i] = 0.0
		}
	}
	return s
}

func GenerateConstY(n int, val float64) Signal {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, val)
	}
	return Signal(y)
}

func GenerateWaveY(t []time.Time, amp, periodSec, order, timeOffset float64) Signal {
	n := len(t)
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		val := amp * math.Sin(2.0*math.Pi*order/periodSec*(float64(t[i].Unix())+timeOffset))
		y = append(y, val)
	}
	return Signal(y)
}

func GenerateTrendY(t []time.Time, intercept, slopePerDay float64) Signal {
	n := len(t)
	y := make([]float64, 0, n)
	if n == 0 {
		return Signal(y)
	}
	start := t[0]
	for i := 0; i < n; i++ {
		y = append(y, intercept+slopePerDay*t[i].Sub(start).Hours()/24.0)
	}
	return Signal(y)
}

func GenerateNoise(t []time.Time, noiseScale float64) Signal {
	n := len(t)
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, rand.NormFloat64()*noiseScale)
	}
	return Signal(y)
}
