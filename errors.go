package ledgercore

import (
	"errors"
	"fmt"
)

// ErrAggregateNotFound occurs when a referenced aggregate id has no event stream
var ErrAggregateNotFound = errors.New("aggregate not found")

// InvalidArgumentError indicates that the caller is in error and passed an incorrect value.
type InvalidArgumentError string

func (i InvalidArgumentError) Error() string {
	return "ledgercore: invalid argument: " + string(i)
}

// ConcurrencyError occurs when the expected stream version does not match the
// aggregate's checkpoint version at append time. Callers may reload the
// aggregate and retry; the store itself never retries.
type ConcurrencyError struct {
	AggregateID     string
	ExpectedVersion int
	ActualVersion   int
}

func (c *ConcurrencyError) Error() string {
	return fmt.Sprintf(
		"optimistic concurrency check failed for aggregate %s: expected version %d, found %d",
		c.AggregateID,
		c.ExpectedVersion,
		c.ActualVersion,
	)
}

// IsConcurrencyError reports whether err is or wraps a *ConcurrencyError
func IsConcurrencyError(err error) bool {
	var concurrencyErr *ConcurrencyError
	return errors.As(err, &concurrencyErr)
}
