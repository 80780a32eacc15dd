package utils

import (
	"fmt"
	"time"
)

// GetTimeDiff returns the difference in whole seconds between two instants.
func GetTimeDiff(start, end time.Time) (int, error) {
	if end.Before(start) {
		return 0, fmt.Errorf("end %s is before start %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}

	return int(end.Sub(start) / time.Second), nil
}

// StrictlyIncreasing reports whether epoch-millisecond timestamps are strictly
// increasing. It returns the first offending index, or -1.
func StrictlyIncreasing(timestamps []int64) (bool, int) {
	for i := 1; i < len(timestamps); i++ {
		if timestamps[i] <= timestamps[i-1] {
			return false, i
		}
	}

	return true, -1
}
