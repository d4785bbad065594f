package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// initConfig is the YAML shape written by 'ormtour init'. Kept separate
// from config.Config so the generated file carries comments-by-example
// rather than zero values.
type initConfig struct {
	Database struct {
		Dialect string `yaml:"dialect"`
		DSN     string `yaml:"dsn"`
		Echo    bool   `yaml:"echo"`
	} `yaml:"database"`
	Output  string `yaml:"output"`
	Verbose bool   `yaml:"verbose"`
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter ormtour.yaml",
		Long: `Write a starter ormtour.yaml in the current directory.

The generated file selects the in-memory sqlite backend; edit
database.dialect and database.dsn to point the tour at postgres.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing ormtour.yaml")
	return cmd
}

func runInit(cmd *cobra.Command, force bool) error {
	const path = "ormtour.yaml"

	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists\nHint: use --force to overwrite", path)
		}
	}

	var cfg initConfig
	cfg.Database.Dialect = "sqlite"
	cfg.Output = "auto"

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}

	header := []byte("# ormtour configuration.\n# dialect: sqlite (in-memory by default) or postgres (requires dsn).\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
