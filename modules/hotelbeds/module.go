// Package hotelbeds serves the lodging capability from the Hotelbeds
// availability API.
package hotelbeds

import (
	"github.com/specialistvlad/visapack/internal/model"
	"github.com/specialistvlad/visapack/internal/registry"
)

// Kind is the provider kind this module registers.
const Kind = "hotelbeds"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the provider kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterProvider(Kind, &registry.RegisteredProvider{
		Capabilities: []model.Capability{model.CapabilityLodging},
		Requires:     []registry.Setting{registry.SettingAPIKey, registry.SettingAPISecret},
		Options:      []string{"max_hotels"},
		New:          New,
	})
}
