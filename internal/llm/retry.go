package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// WithRetry wraps p so transient failures are retried with exponential
// backoff and jitter.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &retrying{Provider: p, cfg: cfg, jitter: rand.Float64}
}

type retrying struct {
	Provider
	cfg RetryConfig
	// jitter returns a value in [0, 1).
	jitter func() float64
}

func (r *retrying) Generate(ctx context.Context, req Request) (*Response, error) {
	var (
		err         error
		invalidSeen bool
	)
	for attempt := range max(r.cfg.MaxAttempts, 1) {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(r.delay(attempt-1, err)):
			}
		}

		var resp *Response
		resp, err = r.Provider.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if !retryable(err, &invalidSeen) {
			return nil, err
		}
	}
	return nil, err
}

// retryable reports whether err is worth another attempt. An invalid
// response is retried once per call.
func retryable(err error, invalidSeen *bool) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	kind, ok := KindOf(err)
	if !ok {
		return true
	}
	switch kind {
	case KindTruncated:
		return false
	case KindInvalid:
		if *invalidSeen {
			return false
		}
		*invalidSeen = true
	}
	return true
}

// delay returns the wait before retry number attempt+1.
func (r *retrying) delay(attempt int, err error) time.Duration {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindRateLimited && e.RetryAfter > 0 {
		return e.RetryAfter
	}
	d := float64(r.cfg.InitialWait) * math.Pow(r.cfg.Multiplier, float64(attempt))
	d = math.Min(d, float64(r.cfg.MaxWait))
	// ±20%
	d *= 0.8 + 0.4*r.jitter()
	return time.Duration(d)
}
