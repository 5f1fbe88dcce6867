// Package config defines the format-agnostic configuration model for the
// pipeline: stage tuning, the provider instances available to the gateway
// and the ordered provider chain of every capability.
//
// The `config.Model` is the single source of truth for the registry and the
// gateway. Concrete loaders, such as the HCL one, live in separate packages
// and only need to satisfy the Loader interface.
package config
