package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/visapack/internal/config"
	"github.com/specialistvlad/visapack/internal/ctxlog"
	"github.com/specialistvlad/visapack/internal/gateway"
	"github.com/specialistvlad/visapack/internal/model"
	"github.com/specialistvlad/visapack/internal/observability"
	"github.com/specialistvlad/visapack/internal/orchestrator"
	"github.com/specialistvlad/visapack/internal/progress"
	"github.com/specialistvlad/visapack/internal/registry"
	"github.com/specialistvlad/visapack/internal/stage"
	"github.com/specialistvlad/visapack/modules/http_client"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW         io.Writer
	logger       *slog.Logger
	registry     *registry.Registry
	config       *config.Model
	httpClient   *http.Client
	gateway      *gateway.Gateway
	orchestrator *orchestrator.Orchestrator
	dashboard    *progress.SocketIO
}

// NewApp is the constructor for the main application. It returns a fully
// wired App with its own isolated logger and registry. A registry that does
// not match the configuration is a startup bug and panics, like the rest of
// the module wiring.
func NewApp(ctx context.Context, outW io.Writer, appConfig *Config, loader config.Loader, modules ...registry.Module) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	cfgModel, err := loadModel(ctx, appConfig, loader)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules))

	reg.PopulateDefinitionsFromModel(cfgModel)
	if err := reg.ValidateRegistry(ctx); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	a := &App{
		outW:       outW,
		logger:     logger,
		registry:   reg,
		config:     cfgModel,
		httpClient: http_client.New(appConfig.HTTPTimeout),
	}

	if err := a.buildGateway(ctx); err != nil {
		return nil, err
	}

	notifier, err := a.buildNotifier(ctx, appConfig)
	if err != nil {
		return nil, err
	}

	a.orchestrator, err = orchestrator.New(a.gateway,
		orchestrator.WithSettings(settingsFrom(cfgModel.Pipeline)),
		orchestrator.WithNotifier(notifier),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build orchestrator: %w", err)
	}

	return a, nil
}

func loadModel(ctx context.Context, appConfig *Config, loader config.Loader) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	if len(appConfig.ConfigPaths) == 0 || loader == nil {
		logger.Warn("No pipeline configuration given, using offline sample providers.")
		return config.Default(), nil
	}
	m, err := loader.Load(ctx, appConfig.ConfigPaths...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Configuration loaded and translated into unified model.", "providers", len(m.Providers))
	return m, nil
}

// buildGateway instantiates the configured providers and installs one chain
// per capability. Providers that were disabled for missing credentials are
// dropped from their chains.
func (a *App) buildGateway(ctx context.Context) error {
	observability.RegisterMetrics()

	var opts []gateway.Option
	opts = append(opts, gateway.WithRecorder(observability.ProviderRecorder{}))
	if mc := a.config.Pipeline.MinCompleteness; mc > 0 {
		opts = append(opts, gateway.WithMinCompleteness(mc))
	}
	gw := gateway.New(opts...)

	providers, err := a.registry.Instantiate(ctx, registry.Deps{HTTPClient: a.httpClient})
	if err != nil {
		return err
	}
	live := make(map[string]bool, len(providers))
	for _, p := range providers {
		if err := gw.Register(p); err != nil {
			return err
		}
		live[p.Name()] = true
	}

	for _, c := range model.Capabilities {
		def, ok := a.config.Capabilities[c]
		if !ok {
			a.logger.Warn("Capability has no provider chain.", "capability", c)
			continue
		}
		chain := chainFrom(def, live)
		if len(chain.Providers) == 0 {
			a.logger.Warn("Every provider of the capability is disabled.", "capability", c, "configured", def.Providers)
		}
		gw.SetChain(c, chain)
		a.logger.Debug("Provider chain installed.", "capability", c, "providers", chain.Providers)
	}

	a.gateway = gw
	return nil
}

func chainFrom(def *config.CapabilityDefinition, live map[string]bool) gateway.Chain {
	chain := gateway.Chain{
		Timeout:    def.Timeout,
		Backoff:    def.Backoff,
		MaxRetries: def.MaxRetries,
	}
	if chain.Backoff == 0 {
		chain.Backoff = gateway.DefaultBackoff
	}
	for _, name := range def.Providers {
		if live[name] {
			chain.Providers = append(chain.Providers, name)
		}
	}
	return chain
}

func settingsFrom(p config.Pipeline) stage.Settings {
	s := stage.DefaultSettings()
	if p.ItineraryChunkDays > 0 {
		s.ItineraryChunkDays = p.ItineraryChunkDays
	}
	if p.MaxOptions > 0 {
		s.MaxOptions = p.MaxOptions
	}
	if p.MaxSources > 0 {
		s.MaxSources = p.MaxSources
	}
	if p.MaxTokens > 0 {
		s.MaxTokens = p.MaxTokens
	}
	return s
}

// buildNotifier always logs stage progress and additionally streams it to a
// socket.io dashboard when one is configured. An unreachable dashboard is
// logged and skipped.
func (a *App) buildNotifier(ctx context.Context, appConfig *Config) (progress.Notifier, error) {
	if appConfig.NotifierURL == "" {
		return progress.Log{}, nil
	}
	dash, err := progress.DialSocketIO(ctx, progress.SocketIOConfig{
		URL:       appConfig.NotifierURL,
		Namespace: appConfig.NotifierNamespace,
	})
	if err != nil {
		a.logger.Warn("Progress dashboard unavailable, continuing without it.", "url", appConfig.NotifierURL, "error", err)
		return progress.Log{}, nil
	}
	a.dashboard = dash
	return progress.Multi{progress.Log{}, dash}, nil
}

// Generate runs one pack generation with the app's logger in context.
func (a *App) Generate(ctx context.Context, req model.TripRequest) (*model.TravelPack, error) {
	return a.orchestrator.Run(ctxlog.WithLogger(ctx, a.logger), req)
}

// Logger returns the application's logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Gateway returns the application's provider gateway.
func (a *App) Gateway() *gateway.Gateway {
	return a.gateway
}

// HTTPClient returns the pooled client shared by every provider adapter.
func (a *App) HTTPClient() *http.Client {
	return a.httpClient
}

// Close releases the dashboard connection and idle HTTP connections.
func (a *App) Close() error {
	a.logger.Debug("Closing application resources.")
	var err error
	if a.dashboard != nil {
		err = a.dashboard.Close()
	}
	http_client.Close(a.httpClient)
	return err
}
