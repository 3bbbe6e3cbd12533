package dbretry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Policy controls how often and how long a query is retried.
type Policy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
	MaxRetries      uint64
}

// DefaultPolicy is used by Operation, NoResult and Transaction.
var DefaultPolicy = Policy{
	InitialInterval: 250 * time.Millisecond,
	MaxInterval:     4 * time.Second,
	MaxElapsedTime:  20 * time.Second,
	MaxRetries:      4,
}

// retryableClasses are the SQLSTATE classes that describe a transient condition:
// connection exceptions (08), transaction rollbacks such as deadlocks (40),
// insufficient resources (53) and operator intervention like restarts (57).
var retryableClasses = []string{"08", "40", "53", "57"}

// retryableCodes are individual SQLSTATE codes outside those classes worth retrying.
var retryableCodes = map[string]struct{}{
	"55P03": {}, // lock_not_available
	"55006": {}, // object_in_use
}

// IsRetryableError checks if the given error is likely to succeed when repeated.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var pgerr pgdriver.Error
	if errors.As(err, &pgerr) {
		code := pgerr.Field('C')
		if _, ok := retryableCodes[code]; ok {
			return true
		}
		for _, class := range retryableClasses {
			if strings.HasPrefix(code, class) {
				return true
			}
		}
		return false
	}

	// The caller's own deadline is never worth waiting out again
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	if errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "i/o timeout") || strings.Contains(msg, "bad connection")
}

// Run executes operation under the given policy and returns its result.
func Run[T any](ctx context.Context, policy Policy, operation func(context.Context) (T, error)) (T, error) {
	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(policy.InitialInterval),
		backoff.WithMaxInterval(policy.MaxInterval),
		backoff.WithMaxElapsedTime(policy.MaxElapsedTime),
	), policy.MaxRetries), ctx)

	var attempts int
	result, err := backoff.RetryWithData(func() (T, error) {
		attempts++
		result, err := operation(ctx)
		if err != nil && !IsRetryableError(err) {
			return result, backoff.Permanent(err)
		}
		return result, err
	}, b)
	if err != nil {
		if attempts > 1 {
			return result, fmt.Errorf("query failed after %d attempts: %w", attempts, err)
		}
		return result, err
	}

	return result, nil
}

// Operation wraps a query that returns a result with the default policy.
func Operation[T any](ctx context.Context, operation func(context.Context) (T, error)) (T, error) {
	return Run(ctx, DefaultPolicy, operation)
}

// NoResult wraps a query that only returns an error with the default policy.
func NoResult(ctx context.Context, operation func(context.Context) error) error {
	_, err := Run(ctx, DefaultPolicy, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, operation(ctx)
	})
	return err
}

// Transaction runs fn in a transaction, retrying the whole transaction on transient failures.
func Transaction(ctx context.Context, db bun.IDB, fn func(context.Context, bun.Tx) error) error {
	return NoResult(ctx, func(ctx context.Context) error {
		return db.RunInTx(ctx, nil, fn)
	})
}
