package strategy

import (
	"math"
	"sort"
)

// DetectOutliers returns the indexes of values falling outside the Tukey
// fences drawn around the given percentile range. A nil result means no
// outliers were found.
func DetectOutliers(y []float64, lowerPerc, upperPerc, tukeyFactor float64) []int {
	if len(y) == 0 {
		return nil
	}
	if lowerPerc > upperPerc {
		lowerPerc, upperPerc = upperPerc, lowerPerc
	}
	lowerPerc = math.Max(lowerPerc, 0.0)
	upperPerc = math.Min(upperPerc, 1.0)
	tukeyFactor = math.Max(0.0, tukeyFactor)

	sorted := make([]float64, len(y))
	copy(sorted, y)
	sort.Float64s(sorted)

	lowerIdx := int(math.Floor(float64(len(sorted)) * lowerPerc))
	upperIdx := int(math.Ceil(float64(len(sorted)) * upperPerc))
	if upperIdx >= len(sorted) {
		upperIdx = len(sorted) - 1
	}
	lowerVal := sorted[lowerIdx]
	upperVal := sorted[upperIdx]
	innerRange := upperVal - lowerVal

	var outlierIdxs []int
	for i, val := range y {
		if val > upperVal+tukeyFactor*innerRange || val < lowerVal-tukeyFactor*innerRange {
			outlierIdxs = append(outlierIdxs, i)
		}
	}
	return outlierIdxs
}
