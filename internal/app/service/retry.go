package service

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/clozet/clozet-backend/internal/app/store"
	"github.com/clozet/clozet-backend/pkg/logger"
)

const readRetries = 3

// retryRead retries an idempotent read a bounded number of times with jittered
// exponential backoff. Missing records and cancelled contexts fail immediately.
// Writes must never go through here.
func retryRead[T any](ctx context.Context, op string, fn func() (T, error)) (T, error) {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 50 * time.Millisecond
	eb.MaxInterval = 500 * time.Millisecond
	eb.MaxElapsedTime = 2 * time.Second

	policy := backoff.WithContext(backoff.WithMaxRetries(eb, readRetries), ctx)

	return backoff.RetryNotifyWithData(func() (T, error) {
		v, err := fn()
		if err != nil && isPermanent(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}, policy, func(err error, wait time.Duration) {
		logger.Warn("Retrying read", map[string]interface{}{
			"op":    op,
			"error": err.Error(),
			"wait":  wait.String(),
		})
	})
}

func isPermanent(err error) bool {
	return errors.Is(err, store.ErrNotFound) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
