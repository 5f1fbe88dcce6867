package exa

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/visapack/internal/config"
	"github.com/specialistvlad/visapack/internal/gateway"
	"github.com/specialistvlad/visapack/internal/model"
	"github.com/specialistvlad/visapack/internal/registry"
	"github.com/specialistvlad/visapack/modules/http_client"
	"resty.dev/v3"
)

const (
	// DefaultBaseURL is the Exa API host.
	DefaultBaseURL = "https://api.exa.ai"

	searchPath        = "/search"
	defaultMaxResults = 8
)

// Provider is an Exa search client.
type Provider struct {
	name       string
	client     *resty.Client
	apiKey     string
	searchType string
}

// New builds a provider from its configuration.
func New(def *config.ProviderDefinition, deps registry.Deps) (gateway.Provider, error) {
	baseURL := def.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Provider{
		name:       def.Name,
		client:     http_client.NewRest(deps.HTTPClient, baseURL, def.Timeout),
		apiKey:     def.APIKey,
		searchType: def.Option("search_type", "auto"),
	}, nil
}

func (p *Provider) Name() string                 { return p.name }
func (p *Provider) Capability() model.Capability { return model.CapabilityWebSearch }

type searchRequest struct {
	Type          string   `json:"type"`
	Query         string   `json:"query"`
	NumResults    int      `json:"numResults"`
	UseAutoprompt bool     `json:"useAutoprompt"`
	Contents      contents `json:"contents"`
}

type contents struct {
	Text       bool `json:"text"`
	Highlights bool `json:"highlights"`
}

type searchResponse struct {
	Results []struct {
		Title      string   `json:"title"`
		URL        string   `json:"url"`
		Text       string   `json:"text"`
		Summary    string   `json:"summary"`
		Highlights []string `json:"highlights"`
	} `json:"results"`
}

// Call runs a search for a model.SearchQuery.
func (p *Provider) Call(ctx context.Context, req any) (gateway.Payload, error) {
	q, ok := req.(model.SearchQuery)
	if !ok {
		return nil, fmt.Errorf("%s: unsupported request %T", p.name, req)
	}
	n := q.MaxResults
	if n <= 0 {
		n = defaultMaxResults
	}

	var out searchResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("x-api-key", p.apiKey).
		SetBody(searchRequest{
			Type:          p.searchType,
			Query:         q.Query,
			NumResults:    n,
			UseAutoprompt: true,
			Contents:      contents{Text: true, Highlights: true},
		}).
		SetResult(&out).
		Post(searchPath)
	if err := http_client.CheckResponse(p.name, resp, err); err != nil {
		return nil, err
	}

	results := make(model.SearchResults, 0, len(out.Results))
	for _, r := range out.Results {
		parts := make([]string, 0, 2+len(r.Highlights))
		if r.Summary != "" {
			parts = append(parts, r.Summary)
		}
		parts = append(parts, r.Highlights...)
		if r.Text != "" {
			parts = append(parts, r.Text)
		}
		results = append(results, model.SearchResult{
			Title:   r.Title,
			URL:     r.URL,
			Content: strings.Join(parts, " "),
		})
	}
	return results, nil
}
