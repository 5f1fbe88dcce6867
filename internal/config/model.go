package config

import (
	"time"

	"github.com/specialistvlad/visapack/internal/model"
)

// Model is the unified, format-agnostic representation of the pipeline
// configuration.
type Model struct {
	Pipeline     Pipeline
	Providers    map[string]*ProviderDefinition
	Capabilities map[model.Capability]*CapabilityDefinition
}

// Pipeline holds the stage tuning knobs. Zero values fall back to the stage
// defaults.
type Pipeline struct {
	MinCompleteness    float64
	ItineraryChunkDays int
	MaxOptions         int
	MaxSources         int
	MaxTokens          int
}

// ProviderDefinition is one configured provider instance. Kind selects the
// adapter that serves it; several instances may share a kind.
type ProviderDefinition struct {
	Name       string
	Kind       string
	Capability model.Capability
	BaseURL    string
	APIKey     string
	APISecret  string
	Model      string
	Timeout    time.Duration
	Options    map[string]string
}

// Option returns a free-form option, or def when it is unset.
func (p *ProviderDefinition) Option(name, def string) string {
	if v, ok := p.Options[name]; ok && v != "" {
		return v
	}
	return def
}

// CapabilityDefinition is the provider chain of one capability.
type CapabilityDefinition struct {
	Capability model.Capability
	Providers  []string
	Timeout    time.Duration
	Backoff    time.Duration
	MaxRetries int
}

// New returns an empty model.
func New() *Model {
	return &Model{
		Providers:    make(map[string]*ProviderDefinition),
		Capabilities: make(map[model.Capability]*CapabilityDefinition),
	}
}
