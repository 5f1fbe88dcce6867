package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Pipeline     *pipelineBlock     `hcl:"pipeline,block"`
	Providers    []*providerBlock   `hcl:"provider,block"`
	Capabilities []*capabilityBlock `hcl:"capability,block"`
	Remain       hcl.Body           `hcl:",remain"`
}

type pipelineBlock struct {
	MinCompleteness    *float64 `hcl:"min_completeness,optional"`
	ItineraryChunkDays int      `hcl:"itinerary_chunk_days,optional"`
	MaxOptions         int      `hcl:"max_options,optional"`
	MaxSources         int      `hcl:"max_sources,optional"`
	MaxTokens          int      `hcl:"max_tokens,optional"`
}

type providerBlock struct {
	Name       string            `hcl:"name,label"`
	Kind       string            `hcl:"kind,optional"`
	Capability string            `hcl:"capability"`
	BaseURL    string            `hcl:"base_url,optional"`
	APIKey     string            `hcl:"api_key,optional"`
	APISecret  string            `hcl:"api_secret,optional"`
	Model      string            `hcl:"model,optional"`
	Timeout    string            `hcl:"timeout,optional"`
	Options    map[string]string `hcl:"options,optional"`
}

type capabilityBlock struct {
	Name      string   `hcl:"name,label"`
	Providers []string `hcl:"providers"`
	Timeout   string   `hcl:"timeout,optional"`
	Backoff   string   `hcl:"backoff,optional"`
	Retries   *int     `hcl:"retries,optional"`
}
