package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// TransientError marks a generation failure worth retrying: rate limits,
// request timeouts, provider 5xx, and network-level errors. Anything else
// (auth failures, malformed requests, context cancellation) is permanent.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient: %v", e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// Transient wraps err as retryable. A nil err returns nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// IsTransient reports whether err is marked retryable.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// classifyStatus wraps an HTTP-level provider error, marking retryable
// status codes as transient.
func classifyStatus(status int, err error) error {
	switch {
	case status == http.StatusTooManyRequests,
		status == http.StatusRequestTimeout,
		status >= 500:
		return Transient(err)
	default:
		return err
	}
}

// classifyNetErr marks network transport failures transient unless the
// caller's context ended.
func classifyNetErr(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return Transient(err)
	}
	// client.Do failures that are not context errors are connection-level.
	return Transient(err)
}
