// Package reason is the boundary to the external reasoning provider.
// Orchestration nodes request structured judgments through the Provider
// interface; everything provider-specific stays behind it.
package reason

import (
	"context"
	"encoding/json"
	"errors"
)

// #region request

// Request is one structured-output reasoning call. Schema is a JSON
// schema (object form); the provider must return a value conforming to
// it or an error.
type Request struct {
	System      string
	User        string
	Schema      map[string]any
	Temperature float64
}

// #endregion request

// #region provider

// ErrMalformedOutput reports provider output that failed to parse
// against the requested schema.
var ErrMalformedOutput = errors.New("provider returned malformed output")

// Provider produces a structured judgment from an external reasoning
// call. Implementations must tolerate arbitrary latency via ctx and must
// never panic on malformed model output.
type Provider interface {
	CompleteJSON(ctx context.Context, req Request) (json.RawMessage, error)
}

// #endregion provider

// #region decode

// Decode runs a request and unmarshals the result into out. A result
// that does not parse is reported as ErrMalformedOutput; the caller's
// fallback policy decides what happens next.
func Decode(ctx context.Context, p Provider, req Request, out any) error {
	raw, err := p.CompleteJSON(ctx, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Join(ErrMalformedOutput, err)
	}
	return nil
}

// #endregion decode
