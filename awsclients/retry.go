package awsclients

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
)

const defaultRetryAttempts = 3

type retryableError interface {
	IsRetryable() bool
}

// Retry runs op up to attempts times, waiting between attempts using the
// SDK's standard backoff. An error that implements IsRetryable() bool decides
// its own fate; any other error is classified by the SDK retryer, which
// covers throttling, connection failures and 5xx responses from AWS APIs.
//
// Use this for operations which are not retried by the SDK itself, such as
// multi-call sequences or invocations of flaky downstream functions.
func Retry[T any](ctx context.Context, attempts int, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if attempts < 1 {
		attempts = defaultRetryAttempts
	}

	retryer := retry.NewStandard(func(so *retry.StandardOptions) {
		so.MaxAttempts = attempts
	})

	var err error
	for attempt := 1; ; attempt++ {
		var result T
		result, err = op(ctx)
		if err == nil {
			return result, nil
		}
		if attempt >= attempts || !shouldRetry(retryer, err) {
			return zero, err
		}

		delay, delayErr := retryer.RetryDelay(attempt, err)
		if delayErr != nil {
			return zero, err
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, errors.Join(ctx.Err(), err)
		case <-timer.C:
		}
	}
}

func shouldRetry(retryer aws.Retryer, err error) bool {
	var re retryableError
	if errors.As(err, &re) {
		return re.IsRetryable()
	}
	return retryer.IsErrorRetryable(err)
}
