package llm

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// Kind classifies provider failures for retry decisions.
type Kind int

const (
	// KindUnavailable covers transport failures and 5xx answers.
	KindUnavailable Kind = iota
	KindRateLimited
	// KindInvalid means the output was missing or failed the schema.
	KindInvalid
	// KindTruncated means structured output hit MaxTokens.
	KindTruncated
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate limited"
	case KindInvalid:
		return "invalid response"
	case KindTruncated:
		return "response truncated at max tokens"
	default:
		return "provider unavailable"
	}
}

// Error is the error type returned by every adapter.
type Error struct {
	Kind Kind
	// RetryAfter is the server-requested wait for KindRateLimited, if any.
	RetryAfter time.Duration
	// Content is the offending output for KindInvalid and KindTruncated.
	Content json.RawMessage
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "llm: " + e.Kind.String()
	}
	return "llm: " + e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so the sentinels below work
// with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrUnavailable = &Error{Kind: KindUnavailable}
	ErrRateLimited = &Error{Kind: KindRateLimited}
	ErrInvalid     = &Error{Kind: KindInvalid}
	ErrTruncated   = &Error{Kind: KindTruncated}
)

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// statusError maps an HTTP status from a vendor SDK error.
func statusError(status int, err error) error {
	if status == http.StatusTooManyRequests {
		return &Error{Kind: KindRateLimited, Err: err}
	}
	return &Error{Kind: KindUnavailable, Err: err}
}
