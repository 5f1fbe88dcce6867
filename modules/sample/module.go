// Package sample provides offline providers for every capability. They return
// deterministic, plausible data so the pipeline can run end to end without
// network access or API keys.
package sample

import (
	"github.com/specialistvlad/visapack/internal/config"
	"github.com/specialistvlad/visapack/internal/model"
	"github.com/specialistvlad/visapack/internal/registry"
)

// Kind is the provider kind this module registers.
const Kind = config.SampleKind

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the provider kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterProvider(Kind, &registry.RegisteredProvider{
		Capabilities: model.Capabilities,
		Options:      []string{"delay"},
		New:          New,
	})
}
