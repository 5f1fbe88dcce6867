// Package app contains the core application wiring. It turns configuration
// into a registry of providers, a gateway and an orchestrator, decoupled from
// any specific entrypoint like the CLI or the HTTP server.
package app
