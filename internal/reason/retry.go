package reason

import (
	"context"
	"encoding/json"
	"time"
)

// #region constants

const defaultMaxRetries = 2 // max 2 retries = 3 total attempts

// #endregion constants

// #region retrying-provider

// RetryingProvider wraps a Provider with a per-call retry budget and
// exponential backoff. The budget lives at the provider-access boundary;
// routing logic never retries.
type RetryingProvider struct {
	inner      Provider
	maxRetries int
	backoff    time.Duration
}

// WithRetry wraps a provider with the given retry budget. maxRetries < 0
// selects the default budget.
func WithRetry(inner Provider, maxRetries int) *RetryingProvider {
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}
	return &RetryingProvider{
		inner:      inner,
		maxRetries: maxRetries,
		backoff:    500 * time.Millisecond,
	}
}

// #endregion retrying-provider

// #region complete

// CompleteJSON retries failed calls up to the budget. Context
// cancellation stops the loop immediately; the in-flight result is
// discarded.
func (r *RetryingProvider) CompleteJSON(ctx context.Context, req Request) (json.RawMessage, error) {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(r.backoff << uint(attempt-1)):
			}
		}
		raw, err := r.inner.CompleteJSON(ctx, req)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

// #endregion complete
