package awsclients

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetry(t *testing.T) {

	t.Run("returns the first successful result", func(t *testing.T) {
		calls := 0
		result, err := Retry(t.Context(), 3, func(ctx context.Context) (string, error) {
			calls++
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", result)
		assert.Equal(t, 1, calls)
	})

	t.Run("does not retry a non-retryable error", func(t *testing.T) {
		calls := 0
		_, err := Retry(t.Context(), 3, func(ctx context.Context) (string, error) {
			calls++
			return "", errors.New("bad input")
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries an error that declares itself retryable", func(t *testing.T) {
		calls := 0
		result, err := Retry(t.Context(), 3, func(ctx context.Context) (string, error) {
			calls++
			if calls < 2 {
				return "", &flakyError{}
			}
			return "recovered", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "recovered", result)
		assert.Equal(t, 2, calls)
	})

	t.Run("retries an AWS throttling error", func(t *testing.T) {
		calls := 0
		result, err := Retry(t.Context(), 2, func(ctx context.Context) (int, error) {
			calls++
			if calls < 2 {
				return 0, &smithy.GenericAPIError{Code: "ThrottlingException", Message: "slow down"}
			}
			return 7, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 7, result)
		assert.Equal(t, 2, calls)
	})

	t.Run("an error that declares itself terminal is not retried", func(t *testing.T) {
		calls := 0
		_, err := Retry(t.Context(), 3, func(ctx context.Context) (string, error) {
			calls++
			return "", &terminalError{}
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after the configured attempts", func(t *testing.T) {
		calls := 0
		_, err := Retry(t.Context(), 2, func(ctx context.Context) (string, error) {
			calls++
			return "", &flakyError{}
		})
		require.Error(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("a cancelled context stops the retry loop", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		_, err := Retry(ctx, 3, func(ctx context.Context) (string, error) {
			return "", &flakyError{}
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

type flakyError struct {
}

func (e *flakyError) Error() string {
	return "temporarily unavailable"
}

func (e *flakyError) IsRetryable() bool {
	return true
}

type terminalError struct {
}

func (e *terminalError) Error() string {
	return "a 500 that must not be retried"
}

func (e *terminalError) IsRetryable() bool {
	return false
}
