// Package tour provides the example registry for the ORM tour.
//
// Each example package registers itself in its init() function. Import
// the examples with a blank identifier to populate the registry:
//
//	import _ "github.com/leapstack-labs/ormtour/internal/tour/examples"
package tour

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"gorm.io/gorm"
)

// Context carries everything a running example needs: a fresh database
// handle, the output writer, and a logger. Examples must not retain the
// database beyond their Run call.
type Context struct {
	DB     *gorm.DB
	Out    io.Writer
	Logger *slog.Logger
}

// Printf writes formatted narrative output for the example.
func (c *Context) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.Out, format, args...)
}

// Println writes a line of narrative output for the example.
func (c *Context) Println(args ...any) {
	_, _ = fmt.Fprintln(c.Out, args...)
}

// Section writes a section divider. Examples use it to separate the
// steps of a walkthrough.
func (c *Context) Section(title string) {
	_, _ = fmt.Fprintf(c.Out, "\n-- %s --\n", title)
}

// Example is a single runnable tour entry.
type Example struct {
	// Name is the unique identifier used on the command line,
	// e.g. "relationships/many-to-many".
	Name string

	// Chapter groups related examples, e.g. "relationships".
	Chapter string

	// Title is a one-line human description shown in listings.
	Title string

	// Run executes the example against a fresh database.
	Run func(ctx context.Context, tc *Context) error
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Example)
)

// Register adds an example to the registry. Called by example packages
// in their init() functions. Duplicate names panic: they indicate a
// programming error that should surface at startup.
func Register(ex Example) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if ex.Name == "" {
		panic("tour: example registered with empty name")
	}
	if ex.Run == nil {
		panic(fmt.Sprintf("tour: example %q registered with nil Run", ex.Name))
	}
	if _, dup := registry[ex.Name]; dup {
		panic(fmt.Sprintf("tour: duplicate example %q", ex.Name))
	}
	registry[ex.Name] = ex
}

// Get retrieves an example by name.
func Get(name string) (Example, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	ex, ok := registry[name]
	return ex, ok
}

// List returns all registered examples sorted by chapter, then name.
func List() []Example {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Example, 0, len(registry))
	for _, ex := range registry {
		out = append(out, ex)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Chapter != out[j].Chapter {
			return out[i].Chapter < out[j].Chapter
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Chapters returns the distinct chapter names in sorted order.
func Chapters() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	seen := make(map[string]struct{})
	var out []string
	for _, ex := range registry {
		if _, ok := seen[ex.Chapter]; !ok {
			seen[ex.Chapter] = struct{}{}
			out = append(out, ex.Chapter)
		}
	}
	sort.Strings(out)
	return out
}

// UnknownExampleError is returned when a requested example is not
// registered.
type UnknownExampleError struct {
	Name      string
	Available []string
}

func (e *UnknownExampleError) Error() string {
	return fmt.Sprintf("unknown example %q\nRun 'ormtour list' to see available examples", e.Name)
}

// Lookup resolves a name to an example, returning UnknownExampleError
// with the available names when it is missing.
func Lookup(name string) (Example, error) {
	ex, ok := Get(name)
	if !ok {
		names := make([]string, 0, len(registry))
		for n := range registry {
			names = append(names, n)
		}
		sort.Strings(names)
		return Example{}, &UnknownExampleError{Name: name, Available: names}
	}
	return ex, nil
}
