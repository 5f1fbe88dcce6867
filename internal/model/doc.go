// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model holds the shared vocabulary of a pack run: the trip request a
// caller submits, the resolved trip geometry, the payloads each stage writes
// into the trip state, and the assembled TravelPack returned to the caller.
//
// # Core Concepts
//
//   - TripRequest: the immutable input. It is validated and normalized once by
//     the intake stage and never mutated afterwards.
//
//   - Resolution: the primary destination, the overall date range and the
//     per-destination check-in/check-out ranges. Every downstream stage reads
//     these values instead of recomputing them.
//
//   - Sections: FlightSection, LodgingSection, BudgetSection, Itinerary,
//     VisaRules and DocumentKit. Each is owned by exactly one stage.
//
//   - ProviderCall: one attempt against an external provider, kept for
//     diagnostics only.
//
// The package has no behaviour beyond small helpers on these types and the
// error taxonomy in errors.go.
package model
