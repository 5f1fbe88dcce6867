// Package registry provides the central "glue" between configuration and the
// provider adapters.
//
// Adapter modules register a provider kind (e.g. "amadeus") together with the
// capability it serves, the settings it needs and a factory. Configuration
// declares provider instances by kind. During startup the registry checks that
// both sides agree, then builds the live providers handed to the gateway.
// Instances whose credentials are missing are disabled rather than failing
// the whole process, so a chain simply falls through to the next provider.
package registry
