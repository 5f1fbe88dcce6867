package cli

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/specialistvlad/visapack/internal/app"
	"github.com/specialistvlad/visapack/internal/hcl_adapter"
)

// EnvPrefix prefixes every environment override, e.g. VISAPACK_LOG_LEVEL.
const EnvPrefix = "VISAPACK"

// command carries the per-invocation state shared by subcommands. Each
// Execute call gets its own viper instance so invocations do not leak
// settings into each other.
type command struct {
	v    *viper.Viper
	outW io.Writer
	errW io.Writer
}

// Execute runs the visapack command line. A returned *ExitError carries the
// process exit code; any other error means exit code 1.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	c := &command{v: viper.New(), outW: outW, errW: errW}
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(outW)
	root.SetErr(errW)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	if code := exitCodeFor(err); code != ExitFailure {
		return &ExitError{Code: code, Message: err.Error()}
	}
	return err
}

func (c *command) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "visapack",
		Short: "Build visa-ready travel packs",
		Long: `visapack assembles a visa-ready travel pack (flights, stays, budget,
itinerary, visa rules, cover letter and checklist) from a short trip request,
using the providers configured in an HCL pipeline file.

Without --config, offline sample providers are used.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			c.v.SetEnvPrefix(EnvPrefix)
			c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
			c.v.AutomaticEnv()
			return c.v.BindPFlags(cmd.Flags())
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	flags := root.PersistentFlags()
	flags.StringSliceP("config", "c", nil, "HCL pipeline file or directory (repeatable)")
	flags.String("log-level", "info", "Logging level: debug, info, warn or error")
	flags.String("log-format", "text", "Log output format: text or json")
	flags.Duration("http-timeout", 0, "Overall timeout of outbound provider HTTP requests (default 30s)")
	flags.String("notifier-url", "", "socket.io dashboard URL for live stage progress")
	flags.String("notifier-namespace", "/", "socket.io namespace of the progress dashboard")

	root.AddCommand(c.generateCmd(), c.serveCmd())
	return root
}

// appConfig builds the application configuration from flags and environment.
func (c *command) appConfig() (*app.Config, error) {
	cfg, err := app.NewConfig(app.Config{
		ConfigPaths:       c.v.GetStringSlice("config"),
		LogLevel:          strings.ToLower(c.v.GetString("log-level")),
		LogFormat:         strings.ToLower(c.v.GetString("log-format")),
		HTTPTimeout:       c.v.GetDuration("http-timeout"),
		NotifierURL:       c.v.GetString("notifier-url"),
		NotifierNamespace: c.v.GetString("notifier-namespace"),
	})
	if err != nil {
		return nil, usageError(err)
	}
	return cfg, nil
}

// newApp wires the application. Logs go to the error stream so that stdout
// only carries the rendered pack.
func (c *command) newApp(ctx context.Context) (*app.App, error) {
	cfg, err := c.appConfig()
	if err != nil {
		return nil, err
	}
	a, err := app.NewApp(ctx, c.errW, cfg, hcl_adapter.NewLoader())
	if err != nil {
		return nil, usageError(err)
	}
	return a, nil
}
