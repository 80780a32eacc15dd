package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func oneToTen() []float64 {
	return []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
}

func TestComputeStatistics(t *testing.T) {
	summary, err := ComputeStatistics(oneToTen())
	require.NoError(t, err)

	assert.Equal(t, 5.5, summary.Mean)
	assert.Equal(t, 1.0, summary.Min)
	assert.Equal(t, 10.0, summary.Max)
	assert.Greater(t, summary.Std, 0.0)
	assert.InDelta(t, 2.8722813, summary.Std, 1e-6)
	assert.Equal(t, 3.0, summary.Percentile25)
	assert.Equal(t, 8.0, summary.Percentile75)
	assert.Equal(t, 6.0, summary.Median)
}

func TestComputeStatisticsDeterministic(t *testing.T) {
	values := []float64{3.2, -1, 8, 8, 0.5, 12.25, 7}

	first, err := ComputeStatistics(values)
	require.NoError(t, err)
	second, err := ComputeStatistics(values)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComputeStatisticsDoesNotMutateInput(t *testing.T) {
	values := []float64{9, 1, 5, 3}

	_, err := ComputeStatistics(values)
	require.NoError(t, err)

	assert.Equal(t, []float64{9, 1, 5, 3}, values)
}

func TestComputeStatisticsEmpty(t *testing.T) {
	_, err := ComputeStatistics(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = ComputeStatistics([]float64{})
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"single", []float64{4}, 4},
		{"odd", []float64{5, 1, 3}, 3},
		{"even takes upper middle", []float64{4, 1, 3, 2}, 3},
		{"unsorted even", []float64{10, 20, 30, 40, 50, 60}, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Median(tt.values)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPercentileClamped(t *testing.T) {
	got, err := Percentile(oneToTen(), 100)
	require.NoError(t, err)
	assert.Equal(t, 10.0, got)

	got, err = Percentile(oneToTen(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	_, err = Percentile(nil, 50)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestAverage(t *testing.T) {
	assert.Equal(t, 98.5, Average([]float64{100, 100, 94, 100}))
}
