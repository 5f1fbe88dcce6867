package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/specialistvlad/visapack/internal/config"
	"github.com/specialistvlad/visapack/internal/ctxlog"
	"github.com/specialistvlad/visapack/internal/gateway"
)

// RegisterProvider registers the Go implementation of a provider kind.
func (r *Registry) RegisterProvider(kind string, p *RegisteredProvider) {
	if _, exists := r.ProviderRegistry[kind]; exists {
		panic(fmt.Sprintf("provider kind '%s' already registered", kind))
	}
	if p.New == nil {
		panic(fmt.Sprintf("provider kind '%s' has no factory", kind))
	}
	slog.Debug("Registering provider kind.", "kind", kind, "capabilities", p.Capabilities)
	r.ProviderRegistry[kind] = p
}

// missingSettings lists the required settings a definition leaves empty.
func missingSettings(def *config.ProviderDefinition, required []Setting) []Setting {
	var missing []Setting
	for _, s := range required {
		var v string
		switch s {
		case SettingAPIKey:
			v = def.APIKey
		case SettingAPISecret:
			v = def.APISecret
		case SettingBaseURL:
			v = def.BaseURL
		case SettingModel:
			v = def.Model
		}
		if v == "" {
			missing = append(missing, s)
		}
	}
	return missing
}

// Instantiate builds every configured provider whose required settings are
// present. Definitions missing a setting are skipped with a warning. Call
// ValidateRegistry first; unknown kinds are an error here too.
func (r *Registry) Instantiate(ctx context.Context, deps Deps) ([]gateway.Provider, error) {
	logger := ctxlog.FromContext(ctx)

	names := make([]string, 0, len(r.DefinitionRegistry))
	for name := range r.DefinitionRegistry {
		names = append(names, name)
	}
	sort.Strings(names)

	var providers []gateway.Provider
	for _, name := range names {
		def := r.DefinitionRegistry[name]
		kind, ok := r.ProviderRegistry[def.Kind]
		if !ok {
			return nil, fmt.Errorf("provider '%s': unknown kind '%s'", name, def.Kind)
		}
		if missing := missingSettings(def, kind.Requires); len(missing) > 0 {
			logger.Warn("Provider disabled, required settings are empty.", "provider", name, "kind", def.Kind, "missing", missing)
			continue
		}
		p, err := kind.New(def, deps)
		if err != nil {
			return nil, fmt.Errorf("failed to create provider '%s': %w", name, err)
		}
		logger.Debug("Provider created.", "provider", name, "kind", def.Kind, "capability", def.Capability)
		providers = append(providers, p)
	}
	return providers, nil
}
