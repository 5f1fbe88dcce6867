package stage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/visapack/internal/gateway"
	"github.com/specialistvlad/visapack/internal/model"
	"github.com/specialistvlad/visapack/internal/testutil"
	"github.com/specialistvlad/visapack/internal/tripstate"
)

// newGateway registers the providers and builds one chain per capability in
// argument order.
func newGateway(t *testing.T, providers ...*testutil.FakeProvider) *gateway.Gateway {
	t.Helper()
	gw := gateway.New()
	chains := make(map[model.Capability][]string)
	for _, p := range providers {
		require.NoError(t, gw.Register(p))
		chains[p.Capability()] = append(chains[p.Capability()], p.Name())
	}
	for c, names := range chains {
		gw.SetChain(c, gateway.Chain{Providers: names, Timeout: time.Second, MaxRetries: 1})
	}
	return gw
}

// healthyProviders answers every capability from the fixtures.
func healthyProviders() []*testutil.FakeProvider {
	return []*testutil.FakeProvider{
		testutil.NewFuncProvider("flights", model.CapabilityFlight, func(_ context.Context, req any) (gateway.Payload, error) {
			q := req.(model.FlightQuery)
			return testutil.Flights(q.Origin, q.Destination), nil
		}),
		testutil.NewFuncProvider("hotels", model.CapabilityLodging, func(_ context.Context, req any) (gateway.Payload, error) {
			return testutil.Hotels(req.(model.LodgingQuery).City), nil
		}),
		testutil.NewFakeProvider("search", model.CapabilityWebSearch, testutil.Step{Payload: testutil.SearchHits("visa")}),
		testutil.NewFuncProvider("writer", model.CapabilityGeneration, testutil.GenerationResponder),
	}
}

// resolvedState returns a state with intake and resolution written.
func resolvedState(t *testing.T, req model.TripRequest) *tripstate.State {
	t.Helper()
	st := tripstate.New(req)
	runStages(t, context.Background(), st, Intake{}, Resolve{})
	return st
}

// runStages runs each stage and records its outcome the way the
// orchestrator does.
func runStages(t *testing.T, ctx context.Context, st *tripstate.State, stages ...Stage) {
	t.Helper()
	for _, s := range stages {
		out, err := s.Run(ctx, st)
		require.NoError(t, err, "stage %s", s.Name())
		require.NoError(t, st.Write(s.Name(), out.Payload))
		require.NoError(t, st.SetStatus(s.Name(), out.Status))
	}
}

// completeState runs every stage before validation against gw.
func completeState(t *testing.T, req model.TripRequest, gw Gateway) *tripstate.State {
	t.Helper()
	st := resolvedState(t, req)
	runStages(t, context.Background(), st,
		&FlightSearch{Gateway: gw},
		&HotelSearch{Gateway: gw},
		&Budget{Gateway: gw},
		&Itinerary{Gateway: gw},
		&VisaRequirements{Gateway: gw},
		&DocumentKit{Gateway: gw},
	)
	return st
}
