package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/specialistvlad/visapack/internal/model"
)

// Validate checks the model for internal consistency: known capabilities,
// chains that only name declared providers of the right capability, and
// tuning values inside their ranges.
func (m *Model) Validate() error {
	var errs []string

	if m.Pipeline.MinCompleteness < 0 || m.Pipeline.MinCompleteness > 1 {
		errs = append(errs, fmt.Sprintf("pipeline: min_completeness must be between 0 and 1, got %g", m.Pipeline.MinCompleteness))
	}
	if m.Pipeline.ItineraryChunkDays < 0 {
		errs = append(errs, "pipeline: itinerary_chunk_days must not be negative")
	}

	for _, name := range sortedKeys(m.Providers) {
		p := m.Providers[name]
		if p.Kind == "" {
			errs = append(errs, fmt.Sprintf("provider '%s': kind is required", name))
		}
		if !p.Capability.Valid() {
			errs = append(errs, fmt.Sprintf("provider '%s': unknown capability '%s'", name, p.Capability))
		}
	}

	capNames := make([]string, 0, len(m.Capabilities))
	for c := range m.Capabilities {
		capNames = append(capNames, string(c))
	}
	sort.Strings(capNames)
	for _, name := range capNames {
		def := m.Capabilities[model.Capability(name)]
		if !def.Capability.Valid() {
			errs = append(errs, fmt.Sprintf("capability '%s': unknown capability", name))
			continue
		}
		if len(def.Providers) == 0 {
			errs = append(errs, fmt.Sprintf("capability '%s': providers list is empty", name))
		}
		if def.MaxRetries < 0 || def.MaxRetries > 1 {
			errs = append(errs, fmt.Sprintf("capability '%s': retries must be 0 or 1, got %d", name, def.MaxRetries))
		}
		seen := make(map[string]bool)
		for _, pname := range def.Providers {
			if seen[pname] {
				errs = append(errs, fmt.Sprintf("capability '%s': provider '%s' listed twice", name, pname))
				continue
			}
			seen[pname] = true
			p, ok := m.Providers[pname]
			if !ok {
				errs = append(errs, fmt.Sprintf("capability '%s': provider '%s' is not declared", name, pname))
				continue
			}
			if p.Capability != def.Capability {
				errs = append(errs, fmt.Sprintf("capability '%s': provider '%s' serves '%s'", name, pname, p.Capability))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
