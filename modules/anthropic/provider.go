package anthropic

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
	// DefaultBaseURL is the Anthropic API host.
	DefaultBaseURL = "https://api.anthropic.com"
	// DefaultModel is used when the provider block names none.
	DefaultModel = "claude-3-5-sonnet-latest"

	messagesPath      = "/v1/messages"
	defaultAPIVersion = "2023-06-01"
	defaultMaxTokens  = 800
)

// Provider is an Anthropic Messages API client.
type Provider struct {
	name   string
	client *resty.Client
	model  string
}

// New builds a provider from its configuration.
func New(def *config.ProviderDefinition, deps registry.Deps) (gateway.Provider, error) {
	baseURL := def.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	modelName := def.Model
	if modelName == "" {
		modelName = DefaultModel
	}
	client := http_client.NewRest(deps.HTTPClient, baseURL, def.Timeout).
		SetHeader("x-api-key", def.APIKey).
		SetHeader("anthropic-version", def.Option("api_version", defaultAPIVersion))
	return &Provider{name: def.Name, client: client, model: modelName}, nil
}

func (p *Provider) Name() string                 { return p.name }
func (p *Provider) Capability() model.Capability { return model.CapabilityGeneration }

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type messagesResponse struct {
	StopReason string `json:"stop_reason"`
	Content    []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Call generates text for a model.GenerationRequest.
func (p *Provider) Call(ctx context.Context, req any) (gateway.Payload, error) {
	g, ok := req.(model.GenerationRequest)
	if !ok {
		return nil, fmt.Errorf("%s: unsupported request %T", p.name, req)
	}
	maxTokens := g.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	var out messagesResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(messagesRequest{
			Model:     p.model,
			MaxTokens: maxTokens,
			System:    g.System,
			Messages:  []message{{Role: "user", Content: g.Prompt}},
		}).
		SetResult(&out).
		Post(messagesPath)
	if err := http_client.CheckResponse(p.name, resp, err); err != nil {
		return nil, err
	}

	var b strings.Builder
	for _, block := range out.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return model.GeneratedText(strings.TrimSpace(b.String())), nil
}
