// This file translates the decoded HCL blocks into the format-agnostic
// configuration model.

package hcl_adapter

import (
	"fmt"
	"time"

	"github.com/specialistvlad/visapack/internal/config"
	"github.com/specialistvlad/visapack/internal/model"
)

func translatePipeline(b *pipelineBlock) config.Pipeline {
	p := config.Pipeline{
		ItineraryChunkDays: b.ItineraryChunkDays,
		MaxOptions:         b.MaxOptions,
		MaxSources:         b.MaxSources,
		MaxTokens:          b.MaxTokens,
	}
	if b.MinCompleteness != nil {
		p.MinCompleteness = *b.MinCompleteness
	}
	return p
}

func translateProvider(b *providerBlock) (*config.ProviderDefinition, error) {
	timeout, err := parseDuration(b.Timeout)
	if err != nil {
		return nil, fmt.Errorf("provider '%s': timeout: %w", b.Name, err)
	}
	kind := b.Kind
	if kind == "" {
		kind = b.Name
	}
	return &config.ProviderDefinition{
		Name:       b.Name,
		Kind:       kind,
		Capability: model.Capability(b.Capability),
		BaseURL:    b.BaseURL,
		APIKey:     b.APIKey,
		APISecret:  b.APISecret,
		Model:      b.Model,
		Timeout:    timeout,
		Options:    b.Options,
	}, nil
}

func translateCapability(b *capabilityBlock) (*config.CapabilityDefinition, error) {
	timeout, err := parseDuration(b.Timeout)
	if err != nil {
		return nil, fmt.Errorf("capability '%s': timeout: %w", b.Name, err)
	}
	backoff, err := parseDuration(b.Backoff)
	if err != nil {
		return nil, fmt.Errorf("capability '%s': backoff: %w", b.Name, err)
	}
	retries := 1
	if b.Retries != nil {
		retries = *b.Retries
	}
	return &config.CapabilityDefinition{
		Capability: model.Capability(b.Name),
		Providers:  b.Providers,
		Timeout:    timeout,
		Backoff:    backoff,
		MaxRetries: retries,
	}, nil
}

// parseDuration treats an empty string as "use the default".
func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
