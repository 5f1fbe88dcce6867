package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/specialistvlad/visapack/internal/gateway"
	"github.com/specialistvlad/visapack/internal/model"
)

// Step is one scripted response of a FakeProvider.
type Step struct {
	Payload gateway.Payload
	Err     error
	// Delay blocks the call, honouring context cancellation.
	Delay time.Duration
}

// ExecutionRecord holds the start and end times of a single provider call.
type ExecutionRecord struct {
	Start time.Time
	End   time.Time
}

// FakeProvider is a scripted gateway.Provider. Calls consume Steps in order;
// once exhausted, the last Step repeats. Respond, when set, takes precedence
// over the script.
type FakeProvider struct {
	name       string
	capability model.Capability
	steps      []Step

	// Respond computes a response from the request.
	Respond func(ctx context.Context, req any) (gateway.Payload, error)

	mu       sync.Mutex
	requests []any
	records  []ExecutionRecord
}

// NewFakeProvider creates a scripted provider.
func NewFakeProvider(name string, capability model.Capability, steps ...Step) *FakeProvider {
	return &FakeProvider{name: name, capability: capability, steps: steps}
}

// NewFuncProvider creates a provider whose responses come from fn.
func NewFuncProvider(name string, capability model.Capability, fn func(ctx context.Context, req any) (gateway.Payload, error)) *FakeProvider {
	return &FakeProvider{name: name, capability: capability, Respond: fn}
}

func (f *FakeProvider) Name() string                 { return f.name }
func (f *FakeProvider) Capability() model.Capability { return f.capability }

// Call implements gateway.Provider.
func (f *FakeProvider) Call(ctx context.Context, req any) (gateway.Payload, error) {
	start := time.Now()
	f.mu.Lock()
	idx := len(f.requests)
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.records = append(f.records, ExecutionRecord{Start: start, End: time.Now()})
		f.mu.Unlock()
	}()

	if f.Respond != nil {
		return f.Respond(ctx, req)
	}

	var step Step
	if len(f.steps) > 0 {
		if idx >= len(f.steps) {
			idx = len(f.steps) - 1
		}
		step = f.steps[idx]
	}

	if step.Delay > 0 {
		t := time.NewTimer(step.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	return step.Payload, step.Err
}

// Calls returns how many times the provider was invoked.
func (f *FakeProvider) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// Requests returns a copy of every request received.
func (f *FakeProvider) Requests() []any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]any(nil), f.requests...)
}

// Records returns the timing of every finished call.
func (f *FakeProvider) Records() []ExecutionRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ExecutionRecord(nil), f.records...)
}

// CallRecorder collects ProviderCalls reported by a gateway.
type CallRecorder struct {
	mu    sync.Mutex
	calls []model.ProviderCall
}

// ObserveCall implements gateway.Recorder.
func (r *CallRecorder) ObserveCall(call model.ProviderCall) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

// Calls returns a copy of the observed calls.
func (r *CallRecorder) Calls() []model.ProviderCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.ProviderCall(nil), r.calls...)
}
