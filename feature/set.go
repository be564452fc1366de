package feature

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Data pairs a feature label with its column of values.
type Data struct {
	F    Feature
	Data []float64
}

// Set represents a mapping to each feature data keyed by the string
// representation of the feature.
type Set map[string]Data

func (s Set) Add(f Feature, data []float64) {
	s[f.String()] = Data{F: f, Data: data}
}

func (s Set) Update(src Set) {
	for label, d := range src {
		s[label] = d
	}
}

// Labels returns all tracked features of the set sorted by their string
// representation.
func (s Set) Labels() *Labels {
	if s == nil {
		return nil
	}

	labels := make([]Feature, 0, len(s))
	for _, feat := range s {
		labels = append(labels, feat.F)
	}
	sort.Slice(labels, func(i, j int) bool {
		return labels[i].String() < labels[j].String()
	})
	return NewLabels(labels)
}

// Matrix returns the design matrix with one row per observation and one
// column per feature in sorted label order.
func (s Set) Matrix() *mat.Dense {
	if s == nil {
		return nil
	}

	featureLabels := s.Labels()
	if featureLabels.Len() == 0 {
		return nil
	}

	var m int
	// use first feature to get length
	for _, flabel := range featureLabels.Labels() {
		m = len(s[flabel.String()].Data)
		break
	}
	n := featureLabels.Len()

	obs := make([]float64, m*n)
	for featNum, label := range featureLabels.Labels() {
		data := s[label.String()].Data
		for i := 0; i < len(data); i++ {
			obs[n*i+featNum] = data[i]
		}
	}
	return mat.NewDense(m, n, obs)
}

// Labels tracks a slice of features and their column positions matching the
// ordering of fit coefficients.
type Labels struct {
	idx    map[string]int
	labels []Feature
}

func NewLabels(labels []Feature) *Labels {
	idx := make(map[string]int)
	for i := 0; i < len(labels); i++ {
		idx[labels[i].String()] = i
	}
	return &Labels{
		idx:    idx,
		labels: labels,
	}
}

func (l *Labels) Len() int {
	return len(l.labels)
}

func (l *Labels) Labels() []Feature {
	labels := make([]Feature, len(l.labels))
	copy(labels, l.labels)
	return labels
}

func (l *Labels) Index(label Feature) (int, bool) {
	if idx, exists := l.idx[label.String()]; exists {
		return idx, exists
	}
	return -1, false
}
