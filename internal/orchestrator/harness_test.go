package orchestrator_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/visapack/internal/gateway"
	"github.com/specialistvlad/visapack/internal/model"
	"github.com/specialistvlad/visapack/internal/orchestrator"
	"github.com/specialistvlad/visapack/internal/progress"
	"github.com/specialistvlad/visapack/internal/testutil"
)

var fixedNow = time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC)

// harness wires an orchestrator to scripted providers. Each capability gets a
// chain in the order providers were added.
type harness struct {
	t         *testing.T
	providers []*testutil.FakeProvider
	opts      []orchestrator.Option
	events    *eventLog
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{t: t, events: &eventLog{}}
}

// withHealthyProviders adds providers that answer every capability.
func (h *harness) withHealthyProviders() *harness {
	return h.with(
		testutil.NewFuncProvider("amadeus", model.CapabilityFlight, func(_ context.Context, req any) (gateway.Payload, error) {
			q := req.(model.FlightQuery)
			return testutil.Flights(q.Origin, q.Destination), nil
		}),
		testutil.NewFuncProvider("hotelbeds", model.CapabilityLodging, func(_ context.Context, req any) (gateway.Payload, error) {
			return testutil.Hotels(req.(model.LodgingQuery).City), nil
		}),
		testutil.NewFakeProvider("tavily", model.CapabilityWebSearch, testutil.Step{Payload: testutil.SearchHits("visa")}),
		testutil.NewFuncProvider("openai", model.CapabilityGeneration, testutil.GenerationResponder),
	)
}

func (h *harness) with(providers ...*testutil.FakeProvider) *harness {
	h.providers = append(h.providers, providers...)
	return h
}

func (h *harness) option(opts ...orchestrator.Option) *harness {
	h.opts = append(h.opts, opts...)
	return h
}

func (h *harness) provider(name string) *testutil.FakeProvider {
	for _, p := range h.providers {
		if p.Name() == name {
			return p
		}
	}
	h.t.Fatalf("no provider %q", name)
	return nil
}

func (h *harness) totalCalls() int {
	n := 0
	for _, p := range h.providers {
		n += p.Calls()
	}
	return n
}

func (h *harness) buildGateway() *gateway.Gateway {
	h.t.Helper()
	gw := gateway.New()
	chains := make(map[model.Capability][]string)
	for _, p := range h.providers {
		require.NoError(h.t, gw.Register(p))
		chains[p.Capability()] = append(chains[p.Capability()], p.Name())
	}
	for c, names := range chains {
		gw.SetChain(c, gateway.Chain{Providers: names, Timeout: time.Second, MaxRetries: 1})
	}
	return gw
}

func (h *harness) build() *orchestrator.Orchestrator {
	h.t.Helper()
	opts := append([]orchestrator.Option{
		orchestrator.WithClock(func() time.Time { return fixedNow }),
		orchestrator.WithRunIDs(func() string { return "run-1" }),
		orchestrator.WithNotifier(h.events),
	}, h.opts...)
	o, err := orchestrator.New(h.buildGateway(), opts...)
	require.NoError(h.t, err)
	return o
}

// run builds the orchestrator and runs req with a logger-carrying context.
func (h *harness) run(req model.TripRequest) (*model.TravelPack, error) {
	h.t.Helper()
	ctx, _ := testutil.LoggerContext(h.t)
	return h.build().Run(ctx, req)
}

type eventLog struct {
	mu     sync.Mutex
	events []progress.Event
}

func (l *eventLog) Notify(_ context.Context, ev progress.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) finished() map[model.StageName]model.StageStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[model.StageName]model.StageStatus)
	for _, ev := range l.events {
		if ev.Phase == progress.PhaseFinished {
			out[ev.Stage] = ev.Status
		}
	}
	return out
}
