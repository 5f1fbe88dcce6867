// Package server exposes pack generation over HTTP with gin. It serves
// /health, Prometheus /metrics and POST /v1/packs, and maps run errors to
// status codes.
package server
