package tavily

import (
	"context"
	"fmt"

	"github.com/specialistvlad/visapack/internal/config"
	"github.com/specialistvlad/visapack/internal/gateway"
	"github.com/specialistvlad/visapack/internal/model"
	"github.com/specialistvlad/visapack/internal/registry"
	"github.com/specialistvlad/visapack/modules/http_client"
	"resty.dev/v3"
)

const (
	// DefaultBaseURL is the Tavily API host.
	DefaultBaseURL = "https://api.tavily.com"

	searchPath        = "/search"
	defaultMaxResults = 5
)

// Provider is a Tavily search client.
type Provider struct {
	name   string
	client *resty.Client
	apiKey string
	depth  string
}

// New builds a provider from its configuration.
func New(def *config.ProviderDefinition, deps registry.Deps) (gateway.Provider, error) {
	baseURL := def.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	depth := def.Option("search_depth", "basic")
	if depth != "basic" && depth != "advanced" {
		return nil, fmt.Errorf("tavily: search_depth must be basic or advanced, got %q", depth)
	}
	return &Provider{
		name:   def.Name,
		client: http_client.NewRest(deps.HTTPClient, baseURL, def.Timeout),
		apiKey: def.APIKey,
		depth:  depth,
	}, nil
}

func (p *Provider) Name() string                 { return p.name }
func (p *Provider) Capability() model.Capability { return model.CapabilityWebSearch }

type searchRequest struct {
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth"`
}

type searchResponse struct {
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
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
		SetAuthToken(p.apiKey).
		SetBody(searchRequest{Query: q.Query, MaxResults: n, SearchDepth: p.depth}).
		SetResult(&out).
		Post(searchPath)
	if err := http_client.CheckResponse(p.name, resp, err); err != nil {
		return nil, err
	}

	results := make(model.SearchResults, 0, len(out.Results))
	for _, r := range out.Results {
		results = append(results, model.SearchResult{Title: r.Title, URL: r.URL, Content: r.Content})
	}
	return results, nil
}
