package utils

import (
	"errors"
	"slices"
)

var ErrInvalidTargetLength = errors.New("target length must be positive")

// Downsample block-averages values down to targetLength points. Blocks are
// floor(n/targetLength) wide and the last block absorbs the remainder. Inputs
// no longer than targetLength are returned as a copy.
func Downsample(values []float64, targetLength int) ([]float64, error) {
	if targetLength <= 0 {
		return nil, ErrInvalidTargetLength
	}
	if len(values) <= targetLength {
		return slices.Clone(values), nil
	}

	blockSize := len(values) / targetLength
	out := make([]float64, targetLength)

	for i := 0; i < targetLength; i++ {
		start := i * blockSize
		end := start + blockSize
		if i == targetLength-1 {
			end = len(values)
		}
		out[i] = Average(values[start:end])
	}

	return out, nil
}
