package config

import (
	"time"

	"github.com/specialistvlad/visapack/internal/model"
)

// SampleKind is the provider kind of the offline sample adapters.
const SampleKind = "sample"

// Default returns the model used when no configuration file is given: one
// offline sample provider per capability.
func Default() *Model {
	m := New()
	for _, c := range model.Capabilities {
		name := "sample-" + string(c)
		m.Providers[name] = &ProviderDefinition{
			Name:       name,
			Kind:       SampleKind,
			Capability: c,
		}
		m.Capabilities[c] = &CapabilityDefinition{
			Capability: c,
			Providers:  []string{name},
			Timeout:    5 * time.Second,
			Backoff:    100 * time.Millisecond,
			MaxRetries: 1,
		}
	}
	return m
}
