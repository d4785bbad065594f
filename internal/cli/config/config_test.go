package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/ormtour/internal/db"
)

func testFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("dialect", DefaultDialect, "")
	flags.String("dsn", "", "")
	flags.Bool("echo", false, "")
	flags.Bool("verbose", false, "")
	flags.String("output", DefaultOutput, "")
	return flags
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	ResetConfig()

	cfg, err := LoadConfig("", testFlags())
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Dialect)
	assert.Equal(t, "", cfg.Database.DSN)
	assert.False(t, cfg.Database.Echo)
	assert.Equal(t, "auto", cfg.OutputFormat)
	assert.Empty(t, GetConfigFileUsed())
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	ResetConfig()

	content := `database:
  dialect: sqlite
  dsn: file:tour.db
  echo: true
output: json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ormtour.yaml"), []byte(content), 0o644))

	cfg, err := LoadConfig("", testFlags())
	require.NoError(t, err)
	assert.Equal(t, "file:tour.db", cfg.Database.DSN)
	assert.True(t, cfg.Database.Echo)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, "ormtour.yaml", GetConfigFileUsed())
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	ResetConfig()

	content := `database:
  dsn: file:from-file.db
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ormtour.yaml"), []byte(content), 0o644))
	t.Setenv("ORMTOUR_DATABASE_DSN", "file:from-env.db")

	cfg, err := LoadConfig("", testFlags())
	require.NoError(t, err)
	assert.Equal(t, "file:from-env.db", cfg.Database.DSN)
}

func TestLoadConfigFlagsOverrideEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	ResetConfig()

	t.Setenv("ORMTOUR_DATABASE_DSN", "file:from-env.db")

	flags := testFlags()
	require.NoError(t, flags.Set("dsn", "file:from-flag.db"))
	require.NoError(t, flags.Set("echo", "true"))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, "file:from-flag.db", cfg.Database.DSN)
	assert.True(t, cfg.Database.Echo)
}

func TestLoadConfigUnchangedFlagsIgnored(t *testing.T) {
	t.Chdir(t.TempDir())
	ResetConfig()

	t.Setenv("ORMTOUR_OUTPUT", "json")

	// The output flag keeps its default; the env var must win because
	// the flag was never set on the command line.
	cfg, err := LoadConfig("", testFlags())
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.OutputFormat)
}

func TestLoadConfigValidation(t *testing.T) {
	t.Chdir(t.TempDir())
	ResetConfig()

	tests := []struct {
		name    string
		set     map[string]string
		wantErr string
	}{
		{
			name:    "unknown dialect",
			set:     map[string]string{"dialect": "oracle"},
			wantErr: "unknown dialect",
		},
		{
			name:    "bad output format",
			set:     map[string]string{"output": "csv"},
			wantErr: "invalid output format",
		},
		{
			name:    "postgres without dsn",
			set:     map[string]string{"dialect": "postgres"},
			wantErr: "requires database.dsn",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			flags := testFlags()
			for name, value := range tt.set {
				require.NoError(t, flags.Set(name, value))
			}
			_, err := LoadConfig("", flags)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfigExplicitFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())
	ResetConfig()

	_, err := LoadConfig("does-not-exist.yaml", testFlags())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does-not-exist.yaml")
}

func TestValidateDialectError(t *testing.T) {
	cfg := Default()
	cfg.Database.Dialect = "mysql"
	err := cfg.Validate()

	var unknown *db.UnknownDialectError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "mysql", unknown.Dialect)
}
