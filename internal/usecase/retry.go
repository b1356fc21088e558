package usecase

import (
	"context"
	"time"
)

const DefaultMaxRetries = 3

// IsRetryable reports whether err is a transient commit failure. The unlock is
// idempotent, so repeating it after COMMIT_FAILED can't charge twice.
func IsRetryable(err error) bool {
	return ErrorCode(err) == CodeCommitFailed
}

// WithRetries runs op once plus up to maxRetries more times while retryable
// says the error is transient, with a small incremental backoff.
func WithRetries(ctx context.Context, maxRetries int, op func() error, retryable func(error) bool) error {
	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err = op()
		if err == nil {
			return nil
		}
		if attempt == maxRetries || !retryable(err) {
			break
		}

		select {
		case <-ctx.Done():
			return err
		case <-time.After(time.Duration(50*(attempt+1)) * time.Millisecond):
		}
	}
	return err
}
