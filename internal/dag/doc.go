// Package dag holds the stage dependency graph of a pipeline run.
//
// Stages are nodes keyed by name; an edge from A to B means B reads what A
// writes. The orchestrator asks the graph for its Waves: groups of stages
// whose dependencies are all satisfied by earlier waves. Stages inside one
// wave run concurrently and the next wave starts only after every stage of
// the current one has finished. That join is the barrier between the search
// stages and the itinerary.
package dag
