package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/specialistvlad/visapack/internal/ctxlog"
)

// ValidateRegistry performs a strict parity check between the configured
// provider definitions and the registered Go implementations. It checks that
// every kind exists, serves the capability it is configured for and supports
// every option it is given.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	names := make([]string, 0, len(r.DefinitionRegistry))
	for name := range r.DefinitionRegistry {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		def := r.DefinitionRegistry[name]
		kind, ok := r.ProviderRegistry[def.Kind]
		if !ok {
			errs = append(errs, fmt.Sprintf("provider '%s': kind '%s' is not implemented by any module", name, def.Kind))
			continue
		}

		if !kind.Serves(def.Capability) {
			errs = append(errs, fmt.Sprintf("provider '%s': configured for capability '%s' but kind '%s' serves %v",
				name, def.Capability, def.Kind, kind.Capabilities))
		}

		supported := make(map[string]struct{}, len(kind.Options))
		for _, opt := range kind.Options {
			supported[opt] = struct{}{}
		}
		optNames := make([]string, 0, len(def.Options))
		for opt := range def.Options {
			optNames = append(optNames, opt)
		}
		sort.Strings(optNames)
		for _, opt := range optNames {
			if _, ok := supported[opt]; !ok {
				errs = append(errs, fmt.Sprintf("provider '%s': option '%s' is not supported by kind '%s'", name, opt, def.Kind))
			}
		}

		if missing := missingSettings(def, kind.Requires); len(missing) > 0 {
			logger.Warn("Provider is missing required settings and will be disabled.", "provider", name, "missing", missing)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}
