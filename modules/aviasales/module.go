// Package aviasales serves the flight capability from the Travelpayouts
// cheapest-prices API.
package aviasales

import (
	"github.com/specialistvlad/visapack/internal/model"
	"github.com/specialistvlad/visapack/internal/registry"
)

// Kind is the provider kind this module registers.
const Kind = "aviasales"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the provider kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterProvider(Kind, &registry.RegisteredProvider{
		Capabilities: []model.Capability{model.CapabilityFlight},
		Requires:     []registry.Setting{registry.SettingAPIKey},
		Options:      []string{"marker", "currency", "max_results"},
		New:          New,
	})
}
