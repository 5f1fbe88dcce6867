// Package gateway is the single way stages reach external providers.
//
// A call names a capability (flight, lodging, websearch, generation) and
// walks that capability's ordered provider chain:
//
//  1. Each provider gets an attempt bounded by the chain timeout.
//  2. A timeout or transport error is retried once after a backoff, then the
//     next provider is tried.
//  3. An empty or too-incomplete result is a soft failure and moves straight
//     to the next provider.
//  4. When every provider has failed, the caller's degradation generator
//     supplies placeholder data with low confidence. Callers that opt out of
//     degradation get an *AllProvidersExhaustedError instead.
//
// Only the first provider of a chain can produce high confidence. Every
// attempt is reported to a Recorder as a model.ProviderCall.
package gateway
