package gateway

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/specialistvlad/visapack/internal/ctxlog"
	"github.com/specialistvlad/visapack/internal/model"
)

// Gateway routes capability calls through provider chains. It is safe for
// concurrent use once configured.
type Gateway struct {
	mu              sync.RWMutex
	providers       map[string]Provider
	chains          map[model.Capability]Chain
	minCompleteness float64
	recorder        Recorder
}

// New creates an empty gateway.
func New(opts ...Option) *Gateway {
	g := &Gateway{
		providers:       make(map[string]Provider),
		chains:          make(map[model.Capability]Chain),
		minCompleteness: DefaultMinCompleteness,
		recorder:        nopRecorder{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Register adds a provider instance. Names must be unique.
func (g *Gateway) Register(p Provider) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.providers[p.Name()]; exists {
		return fmt.Errorf("provider %q already registered", p.Name())
	}
	g.providers[p.Name()] = p
	return nil
}

// SetChain sets the provider chain of a capability.
func (g *Gateway) SetChain(c model.Capability, chain Chain) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.chains[c] = chain
}

// Chain returns the configured chain of a capability.
func (g *Gateway) Chain(c model.Capability) Chain {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.chains[c]
}

// Available reports whether at least one registered provider serves the
// capability's chain.
func (g *Gateway) Available(c model.Capability) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, name := range g.chains[c].Providers {
		if p, ok := g.providers[name]; ok && p.Capability() == c {
			return true
		}
	}
	return false
}

// Call sends req to the capability's providers in chain order until one
// succeeds. See the package documentation for the full policy.
func (g *Gateway) Call(ctx context.Context, capability model.Capability, req any, opts ...CallOption) (*Result, error) {
	logger := ctxlog.FromContext(ctx).With("capability", capability)

	var cfg callConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	chain := g.Chain(capability)
	if len(cfg.providers) > 0 {
		chain.Providers = cfg.providers
	}
	if cfg.timeout > 0 {
		chain.Timeout = cfg.timeout
	}
	chain = chain.withDefaults()

	if len(chain.Providers) == 0 {
		return nil, fmt.Errorf("%s: %w", capability, ErrNoProviders)
	}

	var calls []model.ProviderCall
	for i, name := range chain.Providers {
		g.mu.RLock()
		p, ok := g.providers[name]
		g.mu.RUnlock()
		if !ok {
			logger.Warn("Provider in chain is not registered, skipping.", "provider", name)
			call := model.ProviderCall{Capability: capability, Attempt: 1, Provider: name, Outcome: model.OutcomeError, Error: "provider not registered"}
			calls = append(calls, call)
			g.recorder.ObserveCall(call)
			continue
		}

		for attempt := 1; attempt <= 1+chain.MaxRetries; attempt++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			payload, call := g.attempt(ctx, p, capability, attempt, req, chain.Timeout)
			calls = append(calls, call)
			g.recorder.ObserveCall(call)

			attemptLogger := logger.With("provider", name, "attempt", attempt, "outcome", call.Outcome, "latency", call.Latency)
			if call.Outcome == model.OutcomeSuccess {
				confidence := model.ConfidenceLow
				if i == 0 {
					confidence = model.ConfidenceHigh
				}
				attemptLogger.Debug("Provider call succeeded.")
				return &Result{Data: payload, ProviderUsed: name, Confidence: confidence, Calls: calls}, nil
			}

			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if call.Outcome == model.OutcomeEmpty {
				attemptLogger.Info("Provider returned no usable data, falling back.", "reason", call.Error)
				break
			}

			attemptLogger.Warn("Provider call failed.", "error", call.Error)
			if attempt <= chain.MaxRetries {
				if err := sleep(ctx, chain.Backoff); err != nil {
					return nil, err
				}
			}
		}
	}

	if cfg.degrade != nil && !cfg.noDegrade {
		logger.Warn("All providers exhausted, using placeholder data.", "attempts", len(calls))
		return &Result{
			Data:         cfg.degrade(),
			ProviderUsed: PlaceholderProvider,
			Confidence:   model.ConfidenceLow,
			Degraded:     true,
			Calls:        calls,
		}, nil
	}

	logger.Error("All providers exhausted.", "attempts", len(calls))
	return nil, &AllProvidersExhaustedError{Capability: capability, Calls: calls}
}

type attemptResult struct {
	payload Payload
	err     error
}

// attempt performs one bounded provider call and classifies its outcome. The
// timeout is enforced here even if the provider ignores its context.
func (g *Gateway) attempt(ctx context.Context, p Provider, capability model.Capability, attempt int, req any, timeout time.Duration) (Payload, model.ProviderCall) {
	call := model.ProviderCall{Capability: capability, Attempt: attempt, Provider: p.Name()}

	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	started := time.Now()
	done := make(chan attemptResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- attemptResult{err: fmt.Errorf("provider %s panicked: %v", p.Name(), r)}
			}
		}()
		payload, err := p.Call(attemptCtx, req)
		done <- attemptResult{payload: payload, err: err}
	}()

	var res attemptResult
	select {
	case res = <-done:
	case <-attemptCtx.Done():
		res = attemptResult{err: attemptCtx.Err()}
	}
	call.Latency = time.Since(started)

	switch {
	case res.err != nil && errors.Is(res.err, ErrEmptyResult):
		call.Outcome = model.OutcomeEmpty
		call.Error = res.err.Error()
	case res.err != nil && ctx.Err() == nil && (errors.Is(res.err, context.DeadlineExceeded) || errors.Is(attemptCtx.Err(), context.DeadlineExceeded)):
		call.Outcome = model.OutcomeTimeout
		call.Error = fmt.Sprintf("timed out after %s", timeout)
	case res.err != nil:
		call.Outcome = model.OutcomeError
		call.Error = res.err.Error()
	case res.payload == nil || res.payload.IsEmpty():
		call.Outcome = model.OutcomeEmpty
		call.Error = "empty result"
	default:
		if scored, ok := res.payload.(completeness); ok {
			if score := scored.Completeness(); score < g.minCompleteness {
				call.Outcome = model.OutcomeEmpty
				call.Error = fmt.Sprintf("completeness %.2f below %.2f", score, g.minCompleteness)
				return nil, call
			}
		}
		call.Outcome = model.OutcomeSuccess
		return res.payload, call
	}
	return nil, call
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
