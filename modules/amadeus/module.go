// Package amadeus serves the flight capability from the Amadeus Self-Service
// flight offers API, authenticating with OAuth client credentials.
package amadeus

import (
	"github.com/specialistvlad/visapack/internal/model"
	"github.com/specialistvlad/visapack/internal/registry"
)

// Kind is the provider kind this module registers.
const Kind = "amadeus"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the provider kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterProvider(Kind, &registry.RegisteredProvider{
		Capabilities: []model.Capability{model.CapabilityFlight},
		Requires:     []registry.Setting{registry.SettingAPIKey, registry.SettingAPISecret},
		Options:      []string{"currency", "max_results", "booking_url"},
		New:          New,
	})
}
