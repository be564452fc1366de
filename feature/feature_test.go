package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestFeatureString(t *testing.T) {
	testData := map[string]struct {
		feat     Feature
		expected string
	}{
		"intercept":      {feat: Intercept(), expected: "growth_intercept"},
		"linear":         {feat: Linear(), expected: "growth_linear"},
		"seasonality":    {feat: NewSeasonality("weekly", FourierCompSin, 2), expected: "seas_weekly_02_sin"},
		"double digits":  {feat: NewSeasonality("yearly", FourierCompCos, 10), expected: "seas_yearly_10_cos"},
		"event":          {feat: NewEvent("christmas"), expected: "event_christmas"},
		"event with gap": {feat: NewEvent("independence_day"), expected: "event_independence_day"},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, td.feat.String())
		})
	}
}

func TestSetMatrix(t *testing.T) {
	s := make(Set)
	s.Add(Intercept(), []float64{1, 1, 1})
	s.Add(NewSeasonality("weekly", FourierCompSin, 1), []float64{0.1, 0.2, 0.3})
	s.Add(NewEvent("christmas"), []float64{0, 1, 0})

	labels := s.Labels()
	require.Equal(t, 3, labels.Len())

	// columns follow sorted label order
	expectedOrder := []string{"event_christmas", "growth_intercept", "seas_weekly_01_sin"}
	for i, label := range labels.Labels() {
		assert.Equal(t, expectedOrder[i], label.String())
	}

	mx := s.Matrix()
	rows, cols := mx.Dims()
	require.Equal(t, 3, rows)
	require.Equal(t, 3, cols)

	assert.Equal(t, []float64{0, 1, 0.1}, mat.Row(nil, 0, mx))
	assert.Equal(t, []float64{1, 1, 0.2}, mat.Row(nil, 1, mx))
	assert.Equal(t, []float64{0, 1, 0.3}, mat.Row(nil, 2, mx))
}

func TestLabelsIndex(t *testing.T) {
	labels := NewLabels([]Feature{Intercept(), Linear()})

	idx, exists := labels.Index(Linear())
	require.True(t, exists)
	assert.Equal(t, 1, idx)

	_, exists = labels.Index(NewEvent("thanksgiving"))
	assert.False(t, exists)
}
