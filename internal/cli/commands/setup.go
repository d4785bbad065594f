// Package commands implements the ormtour subcommands.
package commands

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/ormtour/internal/cli/config"
	"github.com/leapstack-labs/ormtour/internal/cli/output"
)

type configKey struct{}
type rendererKey struct{}
type loggerKey struct{}

// WithConfig stores the loaded config in a context.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// WithRenderer stores the output renderer in a context.
func WithRenderer(ctx context.Context, r *output.Renderer) context.Context {
	return context.WithValue(ctx, rendererKey{}, r)
}

// WithLogger stores the CLI logger in a context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// CommandContext bundles what every subcommand needs.
type CommandContext struct {
	Config   *config.Config
	Renderer *output.Renderer
	Logger   *slog.Logger
}

// NewCommandContext extracts the command context prepared by the root
// command, falling back to defaults when a command is executed outside
// the root (as in tests).
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	ctx := cmd.Context()

	cc := &CommandContext{}
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
		cc.Config = cfg
	} else {
		cc.Config = config.Default()
	}
	if r, ok := ctx.Value(rendererKey{}).(*output.Renderer); ok {
		cc.Renderer = r
	} else {
		cc.Renderer = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cc.Config.OutputFormat))
	}
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		cc.Logger = logger
	} else {
		cc.Logger = slog.New(slog.DiscardHandler)
	}
	return cc
}
