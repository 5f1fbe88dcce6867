// Package openai serves the generation capability from the OpenAI Responses
// API.
package openai

import (
	"github.com/specialistvlad/visapack/internal/model"
	"github.com/specialistvlad/visapack/internal/registry"
)

// Kind is the provider kind this module registers.
const Kind = "openai"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the provider kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterProvider(Kind, &registry.RegisteredProvider{
		Capabilities: []model.Capability{model.CapabilityGeneration},
		Requires:     []registry.Setting{registry.SettingAPIKey},
		Options:      []string{"organization"},
		New:          New,
	})
}
