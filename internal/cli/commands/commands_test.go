package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/ormtour/internal/cli/config"
	"github.com/leapstack-labs/ormtour/internal/tour"
)

var errBroken = errors.New("broken on purpose")

// The command tests register their own examples instead of importing
// the real tour, so they stay fast and independent of the corpus.
func init() {
	tour.Register(tour.Example{
		Name:    "basics/hello",
		Chapter: "basics",
		Title:   "Say hello",
		Run: func(_ context.Context, tc *tour.Context) error {
			var one int
			if err := tc.DB.Raw("SELECT 1").Scan(&one).Error; err != nil {
				return err
			}
			tc.Printf("hello %d\n", one)
			return nil
		},
	})
	tour.Register(tour.Example{
		Name:    "basics/broken",
		Chapter: "basics",
		Title:   "Always fails",
		Run: func(context.Context, *tour.Context) error {
			return errBroken
		},
	})
}

// execute runs a command with captured output and an optional config in
// the context.
func execute(t *testing.T, cmd *cobra.Command, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)

	ctx := context.Background()
	if cfg != nil {
		ctx = WithConfig(ctx, cfg)
	}
	err := cmd.ExecuteContext(ctx)
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, NewVersionCommand("1.2.3"), nil)
	require.NoError(t, err)
	assert.Contains(t, out, "ormtour v1.2.3")
}

func TestListCommand(t *testing.T) {
	out, err := execute(t, NewListCommand(), nil)
	require.NoError(t, err)
	assert.Contains(t, out, "Basics")
	assert.Contains(t, out, "basics/hello")
	assert.Contains(t, out, "Say hello")
}

func TestListCommandChapterFilter(t *testing.T) {
	out, err := execute(t, NewListCommand(), nil, "--chapter", "nope")
	require.NoError(t, err)
	assert.Contains(t, out, "No examples found.")
}

func TestListCommandJSON(t *testing.T) {
	cfg := config.Default()
	cfg.OutputFormat = "json"

	out, err := execute(t, NewListCommand(), cfg, "--chapter", "basics")
	require.NoError(t, err)

	var entries []listEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "basics/broken", entries[0].Name)
	assert.Equal(t, "basics/hello", entries[1].Name)
}

func TestRunCommandSingle(t *testing.T) {
	out, err := execute(t, NewRunCommand(), nil, "basics/hello")
	require.NoError(t, err)
	assert.Contains(t, out, "=== basics/hello: Say hello ===")
	assert.Contains(t, out, "hello 1")
}

func TestRunCommandUnknownExample(t *testing.T) {
	_, err := execute(t, NewRunCommand(), nil, "nope")
	require.Error(t, err)

	var unknown *tour.UnknownExampleError
	assert.ErrorAs(t, err, &unknown)
}

func TestRunCommandNoSelection(t *testing.T) {
	_, err := execute(t, NewRunCommand(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to run")
}

func TestRunCommandFailure(t *testing.T) {
	_, err := execute(t, NewRunCommand(), nil, "basics/broken")
	require.Error(t, err)
	assert.ErrorIs(t, err, errBroken)
	assert.Contains(t, err.Error(), "basics/broken")
}

func TestRunCommandChapter(t *testing.T) {
	out, err := execute(t, NewRunCommand(), nil, "--chapter", "basics")
	require.Error(t, err) // basics/broken fails
	assert.ErrorIs(t, err, errBroken)
	assert.Contains(t, out, "hello 1")
}

func TestSelectExamples(t *testing.T) {
	examples, err := selectExamples(nil, false, "basics")
	require.NoError(t, err)
	require.Len(t, examples, 2)

	_, err = selectExamples(nil, false, "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no examples in chapter "nope"`)

	all, err := selectExamples(nil, true, "")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(all), 2)
}

func TestSQLCommandOneShot(t *testing.T) {
	out, err := execute(t, NewSQLCommand(), nil, "--seed", "basics/hello", "SELECT 1 AS one, 'x' AS label")
	require.NoError(t, err)
	assert.Contains(t, out, "one")
	assert.Contains(t, out, "label")
	assert.Contains(t, out, "| 1 | x |")
}

func TestSQLCommandUnknownSeed(t *testing.T) {
	_, err := execute(t, NewSQLCommand(), nil, "--seed", "nope", "SELECT 1")
	require.Error(t, err)

	var unknown *tour.UnknownExampleError
	assert.ErrorAs(t, err, &unknown)
}

func TestInitCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := execute(t, NewInitCommand(), nil)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote ormtour.yaml")

	data, err := os.ReadFile("ormtour.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "dialect: sqlite")

	// Refuses to clobber without --force.
	_, err = execute(t, NewInitCommand(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, NewInitCommand(), nil, "--force")
	require.NoError(t, err)
}

func TestRunChapterOutputStable(t *testing.T) {
	// Running the same chapter twice produces identical transcripts:
	// every run starts from a fresh in-memory database.
	first, _ := execute(t, NewRunCommand(), nil, "basics/hello")
	second, _ := execute(t, NewRunCommand(), nil, "basics/hello")
	assert.Equal(t, first, second)
}
