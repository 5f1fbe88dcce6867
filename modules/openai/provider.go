package openai

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
	// DefaultBaseURL is the OpenAI API host.
	DefaultBaseURL = "https://api.openai.com"
	// DefaultModel is used when the provider block names none.
	DefaultModel = "gpt-4.1-mini"

	responsesPath    = "/v1/responses"
	defaultMaxTokens = 800
)

// Provider is an OpenAI Responses API client.
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
	client := http_client.NewRest(deps.HTTPClient, baseURL, def.Timeout).SetAuthToken(def.APIKey)
	if org := def.Option("organization", ""); org != "" {
		client.SetHeader("OpenAI-Organization", org)
	}
	return &Provider{name: def.Name, client: client, model: modelName}, nil
}

func (p *Provider) Name() string                 { return p.name }
func (p *Provider) Capability() model.Capability { return model.CapabilityGeneration }

type responsesRequest struct {
	Model           string `json:"model"`
	Instructions    string `json:"instructions,omitempty"`
	Input           string `json:"input"`
	MaxOutputTokens int    `json:"max_output_tokens"`
}

type responsesResponse struct {
	Status string `json:"status"`
	Output []struct {
		Type    string `json:"type"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
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

	var out responsesResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(responsesRequest{
			Model:           p.model,
			Instructions:    g.System,
			Input:           g.Prompt,
			MaxOutputTokens: maxTokens,
		}).
		SetResult(&out).
		Post(responsesPath)
	if err := http_client.CheckResponse(p.name, resp, err); err != nil {
		return nil, err
	}

	var b strings.Builder
	for _, item := range out.Output {
		if item.Type != "message" {
			continue
		}
		for _, c := range item.Content {
			if c.Type == "output_text" {
				b.WriteString(c.Text)
			}
		}
	}
	return model.GeneratedText(strings.TrimSpace(b.String())), nil
}
