// Package output provides formatters that write a sweep plan as text
// (shell commands, json, yaml, csv, etc.).
//
// The package uses a registry pattern to allow registration of multiple
// formatter implementations that can be selected at runtime.
//
// Basic usage:
//
//	formatter, err := output.Get("shell")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	w := bufio.NewWriter(os.Stdout)
//	if err := formatter.Format(w, plan.Default(), output.DefaultOptions()); err != nil {
//	    log.Fatal(err)
//	}
//	w.Flush()
package output

import (
	"fmt"
	"io"
	"iter"
	"sort"
	"sync"

	"github.com/multivarm/ptbsweep/pkg/ptbsweep/logging"
	"github.com/multivarm/ptbsweep/pkg/ptbsweep/plan"
)

// logger is the package-level logger for output operations.
var logger = logging.Get("output")

// Options control how a plan is written.
type Options struct {
	// FloatStyle selects the text form of argument values.
	FloatStyle FloatStyle

	// Diagnostic enables the leading rate1 list line of the shell format.
	Diagnostic bool

	// Limit stops after this many runs. Zero means all runs.
	Limit int
}

// DefaultOptions returns the options that reproduce the reference output.
func DefaultOptions() Options {
	return Options{
		FloatStyle: StyleGo,
		Diagnostic: true,
	}
}

// Runs returns the runs of p, truncated to the limit.
func (o Options) Runs(p *plan.Plan) iter.Seq[plan.Run] {
	return func(yield func(plan.Run) bool) {
		n := 0
		for r := range p.Runs() {
			if o.Limit > 0 && n >= o.Limit {
				return
			}
			n++
			if !yield(r) {
				return
			}
		}
	}
}

// Count returns the number of runs that will be written.
func (o Options) Count(p *plan.Plan) int {
	n := p.Count()
	if o.Limit > 0 && o.Limit < n {
		return o.Limit
	}
	return n
}

// Formatter is the interface that all output formatters must implement.
type Formatter interface {
	// Format writes the plan to w. It returns the first write error.
	Format(w io.Writer, p *plan.Plan, opts Options) error
}

// FormatterFactory is a function that creates a new Formatter instance.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]FormatterFactory),
	}
}

// Register adds a formatter factory to the registry.
// It will replace any existing formatter with the same name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter instance by name.
// It returns an error if the formatter is not found.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown formatter: %s", name)
	}
	return factory(), nil
}

// Available returns a sorted list of all registered formatter names.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a new formatter instance from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}
