package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/specialistvlad/visapack/internal/ctxlog"
	"github.com/specialistvlad/visapack/internal/dag"
	"github.com/specialistvlad/visapack/internal/gateway"
	"github.com/specialistvlad/visapack/internal/model"
	"github.com/specialistvlad/visapack/internal/observability"
	"github.com/specialistvlad/visapack/internal/progress"
	"github.com/specialistvlad/visapack/internal/stage"
	"github.com/specialistvlad/visapack/internal/tripstate"
)

// Orchestrator runs the stage graph for one request at a time per call. It
// holds no per-run state and is safe for concurrent use.
type Orchestrator struct {
	gateway  stage.Gateway
	settings stage.Settings
	notifier progress.Notifier
	now      func() time.Time
	newRunID func() string

	stages map[model.StageName]stage.Stage
	waves  [][]model.StageName
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithSettings tunes the stages.
func WithSettings(s stage.Settings) Option {
	return func(o *Orchestrator) { o.settings = s }
}

// WithNotifier sets the receiver of stage events.
func WithNotifier(n progress.Notifier) Option {
	return func(o *Orchestrator) {
		if n != nil {
			o.notifier = n
		}
	}
}

// WithClock replaces time.Now for GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithRunIDs replaces the run id generator.
func WithRunIDs(next func() string) Option {
	return func(o *Orchestrator) { o.newRunID = next }
}

// WithStage replaces the stage registered under s.Name().
func WithStage(s stage.Stage) Option {
	return func(o *Orchestrator) { o.stages[s.Name()] = s }
}

// pipeline lists every stage with the stages it reads from.
var pipeline = []struct {
	name      model.StageName
	dependsOn []model.StageName
}{
	{model.StageIntake, nil},
	{model.StageResolve, []model.StageName{model.StageIntake}},
	{model.StageFlights, []model.StageName{model.StageResolve}},
	{model.StageHotels, []model.StageName{model.StageResolve}},
	{model.StageBudget, []model.StageName{model.StageResolve}},
	{model.StageItinerary, stage.SearchStages},
	{model.StageVisa, []model.StageName{model.StageItinerary}},
	{model.StageDocuments, []model.StageName{model.StageVisa}},
	{model.StageValidation, []model.StageName{model.StageDocuments}},
}

// New builds an orchestrator over the given gateway.
func New(gw stage.Gateway, opts ...Option) (*Orchestrator, error) {
	o := &Orchestrator{
		gateway:  gw,
		settings: stage.DefaultSettings(),
		notifier: progress.Log{},
		now:      time.Now,
		newRunID: uuid.NewString,
		stages:   make(map[model.StageName]stage.Stage),
	}
	// Options run first so the default stages see the configured settings.
	// Stages set with WithStage replace the defaults.
	for _, opt := range opts {
		opt(o)
	}
	overrides := o.stages
	o.stages = defaultStages(gw, o.settings)
	for name, s := range overrides {
		o.stages[name] = s
	}

	g := dag.New()
	for _, step := range pipeline {
		if _, ok := o.stages[step.name]; !ok {
			return nil, fmt.Errorf("no stage registered for %s", step.name)
		}
		g.AddNode(string(step.name))
	}
	for _, step := range pipeline {
		for _, dep := range step.dependsOn {
			if err := g.AddEdge(string(dep), string(step.name)); err != nil {
				return nil, fmt.Errorf("building stage graph: %w", err)
			}
		}
	}
	waves, err := g.Waves()
	if err != nil {
		return nil, fmt.Errorf("building stage graph: %w", err)
	}
	for _, wave := range waves {
		names := make([]model.StageName, 0, len(wave))
		for _, id := range wave {
			names = append(names, model.StageName(id))
		}
		o.waves = append(o.waves, names)
	}
	return o, nil
}

func defaultStages(gw stage.Gateway, s stage.Settings) map[model.StageName]stage.Stage {
	all := []stage.Stage{
		stage.Intake{},
		stage.Resolve{},
		&stage.FlightSearch{Gateway: gw, Settings: s},
		&stage.HotelSearch{Gateway: gw, Settings: s},
		&stage.Budget{Gateway: gw, Settings: s},
		&stage.Itinerary{Gateway: gw, Settings: s},
		&stage.VisaRequirements{Gateway: gw, Settings: s},
		&stage.DocumentKit{Gateway: gw, Settings: s},
		stage.Validation{},
	}
	m := make(map[model.StageName]stage.Stage, len(all))
	for _, st := range all {
		m[st.Name()] = st
	}
	return m
}

// Waves returns the execution plan.
func (o *Orchestrator) Waves() [][]model.StageName {
	out := make([][]model.StageName, len(o.waves))
	for i, w := range o.waves {
		out[i] = append([]model.StageName(nil), w...)
	}
	return out
}

// run is the per-request bookkeeping.
type run struct {
	id    string
	state *tripstate.State

	mu    sync.Mutex
	calls []model.ProviderCall
}

func (r *run) record(calls []model.ProviderCall) {
	if len(calls) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, calls...)
}

func (r *run) diagnostics() []model.ProviderCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.ProviderCall(nil), r.calls...)
}

// Run executes the pipeline for one request. On a validation failure it
// returns the failed pack together with a *model.ValidationFailedError; on
// every other error the pack is nil.
func (o *Orchestrator) Run(ctx context.Context, req model.TripRequest) (*model.TravelPack, error) {
	r := &run{id: o.newRunID(), state: tripstate.New(req)}
	ctx = ctxlog.With(ctx, "run_id", r.id)
	logger := ctxlog.FromContext(ctx)

	started := time.Now()
	logger.Info("🚀 Starting pack generation...", "destinations", len(req.Destinations), "travelers", len(req.Travelers))

	pack, err := o.execute(ctx, r)

	status := model.PackFailed
	if pack != nil {
		status = pack.Status
	}
	observability.RecordRun(status)
	if err != nil {
		logger.Error("🏁 Pack generation failed.", "kind", Classify(err), "error", err, "duration", time.Since(started))
		return pack, err
	}
	logger.Info("🏁 Pack generation finished.", "status", status, "duration", time.Since(started))
	return pack, nil
}

func (o *Orchestrator) execute(ctx context.Context, r *run) (*model.TravelPack, error) {
	for _, wave := range o.waves {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		err := o.runWave(ctx, r, wave)
		var failed *model.ValidationFailedError
		if errors.As(err, &failed) {
			return assemble(r.id, o.now(), r.state.Snapshot(), r.diagnostics()), err
		}
		if err != nil {
			return nil, err
		}

		if containsStage(wave, model.StageIntake) && !o.gateway.Available(model.CapabilityGeneration) {
			return nil, &model.GenerationUnavailableError{Err: gateway.ErrNoProviders}
		}
	}

	calls := r.diagnostics()
	if unreachable(calls) {
		return nil, fmt.Errorf("%w: %d provider calls, none answered", ErrProvidersUnreachable, len(calls))
	}
	return assemble(r.id, o.now(), r.state.Snapshot(), calls), nil
}

// runWave runs the stages of a wave concurrently and waits for all of them.
func (o *Orchestrator) runWave(ctx context.Context, r *run, wave []model.StageName) error {
	if len(wave) == 1 {
		return o.runStage(ctx, r, o.stages[wave[0]])
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, name := range wave {
		s := o.stages[name]
		g.Go(func() error {
			return o.runStage(gctx, r, s)
		})
	}
	return g.Wait()
}

// runStage runs one stage and records its payload and terminal status.
func (o *Orchestrator) runStage(ctx context.Context, r *run, s stage.Stage) error {
	name := s.Name()
	ctx = ctxlog.With(ctx, "stage", name)
	logger := ctxlog.FromContext(ctx)

	o.notify(ctx, r, name, progress.PhaseStarted, model.StatusPending)
	started := time.Now()

	out, err := s.Run(ctx, r.state)
	r.record(out.Calls)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			logger.Warn("Stage cancelled.", "error", err)
			return ctxErr
		}
		if ph, ok := s.(stage.Placeholderer); ok {
			logger.Warn("Stage failed, continuing with placeholder data.", "error", err)
			out = stage.Outcome{Payload: ph.Placeholder(r.state), Status: model.StatusDegraded}
		} else {
			if out.Payload != nil {
				if werr := r.state.Write(name, out.Payload); werr != nil {
					logger.Error("Failed to record stage payload.", "error", werr)
				}
			}
			o.finish(ctx, r, name, model.StatusFailed, time.Since(started))
			return fmt.Errorf("stage %s: %w", name, err)
		}
	}

	if !out.Status.Terminal() {
		out.Status = model.StatusOK
	}
	if err := r.state.Write(name, out.Payload); err != nil {
		return fmt.Errorf("stage %s: %w", name, err)
	}
	o.finish(ctx, r, name, out.Status, time.Since(started))
	return nil
}

func (o *Orchestrator) finish(ctx context.Context, r *run, name model.StageName, status model.StageStatus, d time.Duration) {
	if err := r.state.SetStatus(name, status); err != nil {
		ctxlog.FromContext(ctx).Error("Failed to record stage status.", "error", err)
	}
	observability.RecordStage(name, status, d)
	o.notify(ctx, r, name, progress.PhaseFinished, status)
}

func (o *Orchestrator) notify(ctx context.Context, r *run, name model.StageName, phase progress.Phase, status model.StageStatus) {
	o.notifier.Notify(ctx, progress.Event{
		RunID:  r.id,
		Stage:  name,
		Status: status,
		Phase:  phase,
		At:     time.Now(),
	})
}

func containsStage(wave []model.StageName, name model.StageName) bool {
	for _, n := range wave {
		if n == name {
			return true
		}
	}
	return false
}
