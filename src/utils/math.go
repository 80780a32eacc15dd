package utils

import (
	"errors"
	"math"
	"slices"

	"biometric-session-analyzer/src/types"

	"github.com/montanaflynn/stats"
)

var ErrEmptyInput = errors.New("empty input")

func Average(xs []float64) float64 {
	total := 0.0
	for _, v := range xs {
		total += v
	}
	return total / float64(len(xs))
}

// ComputeStatistics summarises a non-empty sequence. The input is not modified.
func ComputeStatistics(values []float64) (types.StatisticalSummary, error) {
	if len(values) == 0 {
		return types.StatisticalSummary{}, ErrEmptyInput
	}

	mean, err := stats.Mean(values)
	if err != nil {
		return types.StatisticalSummary{}, err
	}
	minValue, err := stats.Min(values)
	if err != nil {
		return types.StatisticalSummary{}, err
	}
	maxValue, err := stats.Max(values)
	if err != nil {
		return types.StatisticalSummary{}, err
	}
	std, err := stats.StandardDeviationPopulation(values)
	if err != nil {
		return types.StatisticalSummary{}, err
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	return types.StatisticalSummary{
		Mean:         mean,
		Min:          minValue,
		Max:          maxValue,
		Median:       medianOfSorted(sorted),
		Std:          std,
		Percentile25: percentileOfSorted(sorted, 25),
		Percentile75: percentileOfSorted(sorted, 75),
	}, nil
}

// Median returns sorted[n/2]. For even n this is the upper of the two middle
// elements, not their average.
func Median(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptyInput
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return medianOfSorted(sorted), nil
}

// Percentile uses the nearest-rank method: sorted[floor(p/100*n)], clamped.
func Percentile(values []float64, p float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptyInput
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return percentileOfSorted(sorted, p), nil
}

func medianOfSorted(sorted []float64) float64 {
	return sorted[len(sorted)/2]
}

func percentileOfSorted(sorted []float64, p float64) float64 {
	idx := int(math.Floor(p / 100 * float64(len(sorted))))
	if idx < 0 {
		idx = 0
	}
	if idx > len(sorted)-1 {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
