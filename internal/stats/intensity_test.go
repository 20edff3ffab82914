package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	t.Parallel()

	assert.Zero(t, Mean(nil))
	assert.Equal(t, 2.0, Mean([]float64{2}))
	assert.InDelta(t, 2.5, Mean([]float64{1, 2, 3, 4}), 1e-12)
}

func TestPercentile(t *testing.T) {
	t.Parallel()

	values := []float64{4, 1, 3, 2, 5}

	tests := []struct {
		name string
		p    float64
		want float64
	}{
		{"minimum", 0, 1},
		{"median", 50, 3},
		{"maximum", 100, 5},
		{"interpolated", 25, 2},
		{"between ranks", 90, 4.6},
		{"clamped below", -10, 1},
		{"clamped above", 150, 5},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tc.want, Percentile(values, tc.p), 1e-12)
		})
	}
}

func TestPercentileDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	values := []float64{3, 1, 2}
	Percentile(values, 50)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestPercentileEmpty(t *testing.T) {
	t.Parallel()

	assert.Zero(t, Percentile(nil, 95))
}

func TestActiveFraction(t *testing.T) {
	t.Parallel()

	assert.Zero(t, ActiveFraction(nil, 0.01))

	values := []float64{0, 0.005, 0.01, 0.2, 0.9}
	// Strictly above: 0.01 itself does not count.
	assert.InDelta(t, 0.4, ActiveFraction(values, 0.01), 1e-12)
	assert.InDelta(t, 1.0, ActiveFraction(values, -1), 1e-12)
	assert.Zero(t, ActiveFraction(values, 1))
}
