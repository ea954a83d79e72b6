// Package utils provides utility functions used throughout the application.
package utils

import (
	"context"
	"errors"
)

// IsCancellation reports whether err represents a caller-initiated abort
// rather than an ordinary failure. Cancellation is the one condition the
// preview subsystem surfaces instead of absorbing.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
