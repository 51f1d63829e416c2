// Package pipeline runs the complete load → index → connect → reduce
// process and renders its result.
//
// This package is the single entry point used by the CLI. It owns the
// caching, timing, logging and observability concerns so that the engine
// packages (distance, circuit, connect, reduce) stay free of them.
//
// # Architecture
//
// A run has three stages after the input is loaded:
//
//  1. Index: compute every pairwise distance and the sorted edge order
//  2. Connect: apply edges under the budget or unify policy
//  3. Reduce: derive the answer and size statistics
//
// With caching enabled, a finished run is stored as a JSON report keyed by
// the input's content hash and the options that influence the result; a
// later run with the same key skips all three stages.
//
// # Usage
//
//	in, err := pipeline.LoadFile("input.txt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, err := runner.Execute(ctx, in, pipeline.Options{Policy: "unify"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Answer)
//
// Render the final circuits:
//
//	svg, err := runner.Render(ctx, result, pipeline.RenderOptions{Format: "svg"})
package pipeline

import (
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/junction/pkg/cache"
	"github.com/matzehuels/junction/pkg/circuit"
	"github.com/matzehuels/junction/pkg/connect"
	"github.com/matzehuels/junction/pkg/distance"
	"github.com/matzehuels/junction/pkg/errors"
	"github.com/matzehuels/junction/pkg/junction"
	"github.com/matzehuels/junction/pkg/reduce"
	"github.com/matzehuels/junction/pkg/render"
)

// =============================================================================
// Default Values
// =============================================================================

// DefaultPolicy is the stopping policy used when none is given.
const DefaultPolicy = connect.NameBudget

// DefaultFormat is the default render format.
const DefaultFormat = render.FormatSVG

// DefaultWorkers returns the worker count used for index construction when
// none is configured.
func DefaultWorkers() int { return runtime.GOMAXPROCS(0) }

// =============================================================================
// Options
// =============================================================================

// Options configures one run.
type Options struct {
	Policy string `json:"policy"`

	// Budget overrides the input's header line when HasBudget is set.
	Budget    int  `json:"budget,omitempty"`
	HasBudget bool `json:"-"`

	Workers int  `json:"workers,omitempty"`
	Refresh bool `json:"refresh,omitempty"` // Ignore cached results (still writes them)

	// Trace keeps every applied step in Result.Steps. Traced runs never
	// read from the cache, since a cached report has no steps.
	Trace bool `json:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
	RunID  string      `json:"-"`

	policy    connect.Policy
	validated bool
}

// ValidateAndSetDefaults checks the options and applies defaults.
// Calling it more than once has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Policy == "" {
		o.Policy = DefaultPolicy
	}
	p, err := connect.ParsePolicy(o.Policy)
	if err != nil {
		return err
	}
	o.policy = p
	o.Policy = p.String()

	if o.HasBudget && o.Budget < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "budget must not be negative, got %d", o.Budget)
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "workers must not be negative, got %d", o.Workers)
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ResolveBudget returns the connection budget for a budget run over in:
// the explicit option if set, otherwise the input's header line.
func (o *Options) ResolveBudget(in *junction.Input) (int, error) {
	switch {
	case o.HasBudget:
		return o.Budget, nil
	case in.HasBudget:
		return in.Budget, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput,
		"no connection budget: pass --budget or start the input with a budget line")
}

// ResultKeyOpts returns cache key options for a run with the given budget.
func (o *Options) ResultKeyOpts(budget int) cache.ResultKeyOpts {
	k := cache.ResultKeyOpts{Policy: o.Policy}
	if o.policy == connect.PolicyBudget {
		k.Budget = budget
	}
	return k
}

// RenderOptions configures Runner.Render.
type RenderOptions struct {
	Format   string `json:"format,omitempty"`
	Detailed bool   `json:"detailed,omitempty"`
}

// ValidateAndSetDefaults checks the format and applies the default.
func (o *RenderOptions) ValidateAndSetDefaults() error {
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	return render.ValidateFormat(o.Format)
}

// ArtifactKeyOpts returns cache key options for this rendering.
func (o *RenderOptions) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: o.Format, Detailed: o.Detailed}
}

// =============================================================================
// Result
// =============================================================================

// Result is the outcome of one run.
type Result struct {
	RunID  string
	Input  *junction.Input
	Policy connect.Policy
	Budget int // Resolved budget (budget policy only)

	// Answer is the product of the three largest circuit sizes for a budget
	// run, or the product of the X coordinates of Last's endpoints for a
	// unify run.
	Answer int64

	Pairs       int
	Connections int
	Circuits    []circuit.Circuit
	Links       []distance.Edge // Applied edges that changed membership, in order
	Last        *distance.Edge  // Unifying edge (unify policy only)
	Summary     reduce.Summary

	// Steps holds every applied edge when Options.Trace is set.
	Steps []connect.Step

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains run timing and size information.
type Stats struct {
	Points      int
	Pairs       int
	IndexTime   time.Duration
	ConnectTime time.Duration
	ReduceTime  time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	ResultHit   bool // Whether the run result came from cache
	ArtifactHit bool // Whether the last rendering came from cache
}

// Scene returns the render input for the result.
func (r *Result) Scene() render.Scene {
	return render.Scene{
		Points:   r.Input.Points,
		Circuits: r.Circuits,
		Links:    r.Links,
		Last:     r.Last,
	}
}
