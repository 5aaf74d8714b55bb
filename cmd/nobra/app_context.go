package main

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/nobra/internal/config"
	"github.com/alexisbeaulieu97/nobra/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/nobra/internal/ports"
	"github.com/alexisbeaulieu97/nobra/internal/registry"
)

// pendingLogLimit bounds entries buffered before the configured logger exists.
const pendingLogLimit = 256

// AppContext bundles long-lived services created at startup.
type AppContext struct {
	Config     *config.Config
	ConfigPath string
	Logger     *logging.Deferred
	Service    *registry.Service

	source ports.CalculatorSource
	access zerolog.Logger
}

func newAppContext(source ports.CalculatorSource) *AppContext {
	return &AppContext{
		Logger: logging.NewDeferred(pendingLogLimit),
		source: source,
		access: zerolog.Nop(),
	}
}

// load reads configuration, builds the real logger and the score service.
// Entries logged before this point are replayed once the logger is attached.
func (a *AppContext) load(cmd *cobra.Command, flags *rootFlags) error {
	ctx := commandContext(cmd)
	a.Logger.Debug(ctx, "starting command", "command", cmd.CommandPath())

	cfg, path, err := config.Load(flags.configPath)
	if err != nil {
		return newCommandError("load configuration", valueOrFallback(flags.configPath, "defaults and environment"), err,
			"Fix the configuration file or the NOBRA_* environment variables and try again.")
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Log.Format = flags.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return newCommandError("load configuration", "applying command-line overrides", err,
			"Use a log level such as debug, info or warn and a format of json, console or auto.")
	}

	logger, err := logging.New(logging.Options{
		Writer: cmd.ErrOrStderr(),
		Level:  cfg.Log.Level,
		Format: logging.Format(cfg.Log.Format),
		Layer:  "cli",
	})
	if err != nil {
		return newCommandError("create logger", "configuring log output", err, "Check the log settings.")
	}

	a.Logger.Attach(logger)
	a.access = logger.Zerolog().With().Str("component", "http.access").Logger()
	a.Config = cfg
	a.ConfigPath = path
	a.Service = registry.NewService(a.source, a.Logger)

	if path != "" {
		a.Logger.Debug(ctx, "configuration loaded", "path", path)
	}
	return nil
}

// CommandContext returns a context carrying a fresh correlation id and a
// logger scoped to component.
func (a *AppContext) CommandContext(cmd *cobra.Command, component string) (context.Context, ports.Logger) {
	ctx := ports.WithCorrelationID(commandContext(cmd), ports.GenerateCorrelationID())
	return ctx, a.Logger.With("component", component)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
