// Package serpapi serves the lodging capability from SerpApi's Google Hotels
// engine.
package serpapi

import (
	"github.com/specialistvlad/visapack/internal/model"
	"github.com/specialistvlad/visapack/internal/registry"
)

// Kind is the provider kind this module registers.
const Kind = "serpapi"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the provider kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterProvider(Kind, &registry.RegisteredProvider{
		Capabilities: []model.Capability{model.CapabilityLodging},
		Requires:     []registry.Setting{registry.SettingAPIKey},
		Options:      []string{"currency", "language", "max_results"},
		New:          New,
	})
}
