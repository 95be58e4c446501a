package sentiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/pulseworks/newspulse/internal/domain"
)

// Engine turns raw text into a sentiment result. Implementations must be
// stateless per call and safe for concurrent use.
type Engine interface {
	Classify(ctx context.Context, text string) (domain.SentimentResult, error)
	Name() string
}

// UpstreamError marks any failure of the model engine: transport errors,
// timeouts, non-JSON responses, and schema violations. The classifier catches
// it and falls back to the keyword engine; it never reaches a caller.
type UpstreamError struct {
	Reason string // transport, status, parse, schema, breaker
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream model error (%s): %v", e.Reason, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// IsUpstream reports whether err is (or wraps) an UpstreamError.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}

func upstreamErr(reason string, err error) *UpstreamError {
	return &UpstreamError{Reason: reason, Err: err}
}
