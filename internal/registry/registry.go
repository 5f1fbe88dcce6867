package registry

import (
	"net/http"

	"github.com/specialistvlad/visapack/internal/config"
	"github.com/specialistvlad/visapack/internal/gateway"
	"github.com/specialistvlad/visapack/internal/model"
)

// Module is the interface that all provider modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Deps are the process-wide resources shared by every provider instance.
type Deps struct {
	HTTPClient *http.Client
}

// Factory builds one provider instance from its configuration.
type Factory func(def *config.ProviderDefinition, deps Deps) (gateway.Provider, error)

// Setting names a ProviderDefinition field an adapter cannot work without.
type Setting string

const (
	SettingAPIKey    Setting = "api_key"
	SettingAPISecret Setting = "api_secret"
	SettingBaseURL   Setting = "base_url"
	SettingModel     Setting = "model"
)

// RegisteredProvider describes a provider kind implemented in Go.
type RegisteredProvider struct {
	Capabilities []model.Capability
	Requires     []Setting
	Options      []string
	New          Factory
}

// Serves reports whether the kind can be configured for capability c.
func (p *RegisteredProvider) Serves(c model.Capability) bool {
	for _, known := range p.Capabilities {
		if known == c {
			return true
		}
	}
	return false
}

// Registry holds the registered provider kinds and the configured provider
// definitions for a single application instance.
type Registry struct {
	ProviderRegistry   map[string]*RegisteredProvider
	DefinitionRegistry map[string]*config.ProviderDefinition
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		ProviderRegistry:   make(map[string]*RegisteredProvider),
		DefinitionRegistry: make(map[string]*config.ProviderDefinition),
	}
}

// PopulateDefinitionsFromModel copies the provider definitions from the
// config model into the registry.
func (r *Registry) PopulateDefinitionsFromModel(m *config.Model) {
	for key, val := range m.Providers {
		r.DefinitionRegistry[key] = val
	}
}
