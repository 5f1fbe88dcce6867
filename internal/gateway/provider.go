package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/visapack/internal/model"
)

// Payload is what a provider returns. Every capability payload in the model
// package implements it.
type Payload interface {
	IsEmpty() bool
}

// completeness is implemented by payloads that can score how many of their
// records carry the fields a stage needs.
type completeness interface {
	Completeness() float64
}

// Provider is an adapter for one external service.
type Provider interface {
	Name() string
	Capability() model.Capability
	Call(ctx context.Context, req any) (Payload, error)
}

// Recorder receives one ProviderCall per attempt.
type Recorder interface {
	ObserveCall(call model.ProviderCall)
}

type nopRecorder struct{}

func (nopRecorder) ObserveCall(model.ProviderCall) {}

// PlaceholderProvider is the ProviderUsed value of a degraded result.
const PlaceholderProvider = "placeholder"

var (
	// ErrEmptyResult lets a provider signal "no data" explicitly.
	ErrEmptyResult = errors.New("provider returned no results")

	// ErrNoProviders is returned when a capability has no provider at all.
	ErrNoProviders = errors.New("no providers configured")
)

// AllProvidersExhaustedError is returned when every provider in the chain
// failed and the caller opted out of degradation.
type AllProvidersExhaustedError struct {
	Capability model.Capability
	Calls      []model.ProviderCall
}

func (e *AllProvidersExhaustedError) Error() string {
	tried := make([]string, 0, len(e.Calls))
	for _, c := range e.Calls {
		tried = append(tried, fmt.Sprintf("%s#%d=%s", c.Provider, c.Attempt, c.Outcome))
	}
	return fmt.Sprintf("all %s providers exhausted (%s)", e.Capability, strings.Join(tried, ", "))
}

// Result is the outcome of a gateway call.
type Result struct {
	Data         Payload
	ProviderUsed string
	Confidence   model.Confidence
	Degraded     bool
	Calls        []model.ProviderCall
}

// As asserts the result payload type.
func As[T Payload](r *Result) (T, error) {
	var zero T
	if r == nil {
		return zero, errors.New("nil gateway result")
	}
	v, ok := r.Data.(T)
	if !ok {
		return zero, fmt.Errorf("provider %s returned %T, want %T", r.ProviderUsed, r.Data, zero)
	}
	return v, nil
}
