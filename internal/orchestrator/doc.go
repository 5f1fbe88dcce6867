// Package orchestrator drives a pipeline run from a raw TripRequest to an
// assembled TravelPack.
//
// The stages form a dependency graph (see package dag). The orchestrator runs
// the graph wave by wave: every stage of a wave runs concurrently and the next
// wave starts only when all of them have written their terminal status. The
// search stages (flights, hotels, budget) share one wave, so the join after
// that wave is the barrier the itinerary relies on.
//
// Failure policy:
//
//   - intake and resolution errors are fatal and no provider is called;
//   - a search stage that fails outright is recorded as degraded with its
//     placeholder payload;
//   - generation-backed stages degrade on their own and are fatal only when
//     no generation provider is configured;
//   - a validation failure returns the pack with status failed together with
//     the error;
//   - a cancelled context stops the run before the next wave.
//
// One TripState is created per run and dropped once the pack is assembled.
package orchestrator
