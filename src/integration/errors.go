package integration

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInsufficientInput is returned when neither sub-analysis carries a usable
// score.
var ErrInsufficientInput = errors.New("at least one of the eeg or ppg analyses is required")

// ValidationError reports a malformed subject profile or dimension score.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid integration input: " + strings.Join(e.Problems, "; ")
}

// ResponseError means the inference response could not be turned into a
// result. Retries are already exhausted when it is returned.
type ResponseError struct {
	Reason   string
	Response string
	Err      error
}

func (e *ResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unusable inference response: %s: %v", e.Reason, e.Err)
	}
	return "unusable inference response: " + e.Reason
}

func (e *ResponseError) Unwrap() error { return e.Err }
