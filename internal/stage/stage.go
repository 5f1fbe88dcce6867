// Package stage holds the pipeline stages. Each stage reads the namespaces it
// depends on from the run's TripState and returns one payload for its own
// namespace. Stages never write to the state themselves; the orchestrator
// does that with the returned Outcome.
package stage

import (
	"context"
	"errors"

	"github.com/specialistvlad/visapack/internal/gateway"
	"github.com/specialistvlad/visapack/internal/model"
	"github.com/specialistvlad/visapack/internal/tripstate"
)

// Stage is one step of the pipeline. A non-nil error from Run is fatal for
// the run.
type Stage interface {
	Name() model.StageName
	Run(ctx context.Context, st *tripstate.State) (Outcome, error)
}

// Placeholderer is implemented by non-critical stages. When Run fails the
// orchestrator records the stage as degraded with this payload instead of
// failing the run.
type Placeholderer interface {
	Placeholder(st *tripstate.State) any
}

// Outcome is what a stage produced.
type Outcome struct {
	Payload any
	Status  model.StageStatus
	Calls   []model.ProviderCall
}

// Gateway is the slice of the provider gateway the stages use.
type Gateway interface {
	Call(ctx context.Context, capability model.Capability, req any, opts ...gateway.CallOption) (*gateway.Result, error)
	Available(capability model.Capability) bool
}

// Settings tunes stage behavior.
type Settings struct {
	// ItineraryChunkDays is how many days one generation call plans.
	ItineraryChunkDays int
	// MaxOptions caps flight and hotel options kept per section.
	MaxOptions int
	// MaxSources caps web search results kept per query.
	MaxSources int
	// MaxTokens is passed to generation providers.
	MaxTokens int
}

// DefaultSettings returns the settings used when none are configured.
func DefaultSettings() Settings {
	return Settings{
		ItineraryChunkDays: 8,
		MaxOptions:         3,
		MaxSources:         5,
		MaxTokens:          900,
	}
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.ItineraryChunkDays <= 0 {
		s.ItineraryChunkDays = d.ItineraryChunkDays
	}
	if s.MaxOptions <= 0 {
		s.MaxOptions = d.MaxOptions
	}
	if s.MaxSources <= 0 {
		s.MaxSources = d.MaxSources
	}
	if s.MaxTokens <= 0 {
		s.MaxTokens = d.MaxTokens
	}
	return s
}

// callsOf extracts the per-attempt diagnostics from a gateway call, whether it
// succeeded or not.
func callsOf(res *gateway.Result, err error) []model.ProviderCall {
	if res != nil {
		return res.Calls
	}
	var exhausted *gateway.AllProvidersExhaustedError
	if errors.As(err, &exhausted) {
		return exhausted.Calls
	}
	return nil
}

func statusFor(degraded bool) model.StageStatus {
	if degraded {
		return model.StatusDegraded
	}
	return model.StatusOK
}

func minConfidence(cs ...model.Confidence) model.Confidence {
	for _, c := range cs {
		if c != model.ConfidenceHigh {
			return model.ConfidenceLow
		}
	}
	return model.ConfidenceHigh
}
