package inference

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Completer is a text-completion service: a prompt in, a text response out.
// The response is expected to contain one JSON object.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// TransientError marks a server-side unavailability (503-equivalent) that is
// worth retrying.
type TransientError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s unavailable (status %d): %v", e.Provider, e.StatusCode, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// IsTransient reports whether err, or anything it wraps, is a *TransientError.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// IsUnavailableStatus reports whether an HTTP status is a 503-equivalent.
func IsUnavailableStatus(code int) bool {
	return code == http.StatusServiceUnavailable
}
