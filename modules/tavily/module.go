// Package tavily serves the websearch capability from the Tavily search API.
package tavily

import (
	"github.com/specialistvlad/visapack/internal/model"
	"github.com/specialistvlad/visapack/internal/registry"
)

// Kind is the provider kind this module registers.
const Kind = "tavily"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the provider kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterProvider(Kind, &registry.RegisteredProvider{
		Capabilities: []model.Capability{model.CapabilityWebSearch},
		Requires:     []registry.Setting{registry.SettingAPIKey},
		Options:      []string{"search_depth"},
		New:          New,
	})
}
