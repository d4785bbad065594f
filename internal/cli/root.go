// Package cli provides the command-line interface for ormtour.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/ormtour/internal/cli/commands"
	"github.com/leapstack-labs/ormtour/internal/cli/config"
	"github.com/leapstack-labs/ormtour/internal/cli/output"

	// Populate the example registry.
	_ "github.com/leapstack-labs/ormtour/internal/tour/examples"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ormtour",
		Short: "ormtour - A guided tour of object-relational mapping in Go",
		Long: `ormtour is a runnable tour of object-relational mapping with GORM.

Each example is a self-contained walkthrough of one mapping concept:
declarative tables, relationships, loading strategies, inheritance,
composites, validators, sessions, and transactions. Examples run
against a private in-memory database and print what they do.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			ctx := commands.WithConfig(cmd.Context(), cfg)

			mode := output.Mode(cfg.OutputFormat)
			renderer := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)
			ctx = commands.WithRenderer(ctx, renderer)

			logger := newLogger(cmd, cfg.Verbose)
			ctx = commands.WithLogger(ctx, logger)
			cmd.SetContext(ctx)

			if cfg.Verbose {
				if configFile := config.GetConfigFileUsed(); configFile != "" {
					fmt.Fprintf(os.Stderr, "Using config file: %s\n", configFile)
				}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
A guided tour of object-relational mapping in Go
`)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Path to config file (default: ormtour.yaml)")
	flags.String("dialect", "", "Database dialect (sqlite, postgres)")
	flags.String("dsn", "", "Database connection string (sqlite defaults to in-memory)")
	flags.Bool("echo", false, "Log every SQL statement the ORM emits")
	flags.Bool("verbose", false, "Verbose output")
	flags.StringP("output", "o", "", "Output format: auto, text, markdown, json")

	rootCmd.AddCommand(
		commands.NewListCommand(),
		commands.NewRunCommand(),
		commands.NewSQLCommand(),
		commands.NewBrowseCommand(),
		commands.NewInitCommand(),
		commands.NewVersionCommand(Version),
	)

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds the CLI logger. Diagnostics go to stderr so example
// output on stdout stays clean for piping.
func newLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
