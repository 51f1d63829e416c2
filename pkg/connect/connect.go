// Package connect drives the nearest-pair connection process.
//
// [Run] walks the edges of a [distance.Index] in sorted order exactly once,
// applying each one to a fresh [circuit.Forest], until the stopping policy is
// satisfied:
//
//   - [PolicyBudget] stops after Budget connection attempts. Every attempt
//     counts, including one between two points that already share a circuit.
//   - [PolicyUnify] stops at the first edge after which a single circuit
//     contains every point, and records that edge.
//
// If the edges run out first, Run fails with EXHAUSTED_INPUT.
package connect

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/junction/pkg/circuit"
	"github.com/matzehuels/junction/pkg/distance"
	"github.com/matzehuels/junction/pkg/errors"
)

// Policy selects the stopping condition.
type Policy int

const (
	// PolicyBudget stops after a fixed number of connection attempts.
	PolicyBudget Policy = iota
	// PolicyUnify stops once every point belongs to one circuit.
	PolicyUnify
)

// Policy names accepted by ParsePolicy.
const (
	NameBudget = "budget"
	NameUnify  = "unify"
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case PolicyBudget:
		return NameBudget
	case PolicyUnify:
		return NameUnify
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy converts a policy name into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case NameBudget:
		return PolicyBudget, nil
	case NameUnify:
		return PolicyUnify, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidPolicy, "unknown policy %q (must be %s or %s)", s, NameBudget, NameUnify)
}

// cancelCheckInterval is how many edges are applied between context checks.
const cancelCheckInterval = 1024

// Step describes one applied edge.
type Step struct {
	Ordinal     int            // 1-based position in the sorted edge order
	Edge        distance.Edge  // Edge that was applied
	Result      circuit.Result // Structural effect on the forest
	Connections int            // Connection attempts so far, including this one
}

// Options configures Run.
type Options struct {
	Policy Policy
	Budget int // Connection attempts for PolicyBudget; ignored otherwise

	// OnStep, if set, is called after every applied edge.
	OnStep func(Step)

	// Logger receives a debug line per connection. Defaults to a discard logger.
	Logger *log.Logger
}

// Validate checks the options for the selected policy.
func (o Options) Validate() error {
	switch o.Policy {
	case PolicyBudget:
		if o.Budget < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "connection budget must not be negative, got %d", o.Budget)
		}
	case PolicyUnify:
	default:
		return errors.New(errors.ErrCodeInvalidPolicy, "unknown policy %v", o.Policy)
	}
	return nil
}

// Outcome is the terminal state of a run.
type Outcome struct {
	Policy      Policy
	Forest      *circuit.Forest
	Connections int // Connection attempts made
	Edges       int // Edges available

	// Last is the edge that unified all points (PolicyUnify only).
	Last distance.Edge
}

// Run applies sorted edges from idx until opts.Policy is satisfied.
func Run(ctx context.Context, idx *distance.Index, opts Options) (*Outcome, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	edges := idx.Sorted()
	out := &Outcome{
		Policy: opts.Policy,
		Forest: circuit.New(len(idx.Points())),
		Edges:  len(edges),
	}

	for i, e := range edges {
		if opts.Policy == PolicyBudget && out.Connections >= opts.Budget {
			return out, nil
		}
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		res := out.Forest.Connect(e.A, e.B)
		out.Connections++

		logger.Debug("connecting",
			"pair", idx.CanonicalKey(e),
			"weight", e.Weight,
			"n", out.Connections,
			"outcome", res.Outcome)
		if opts.OnStep != nil {
			opts.OnStep(Step{Ordinal: i + 1, Edge: e, Result: res, Connections: out.Connections})
		}

		if opts.Policy == PolicyUnify && out.Forest.Unified() {
			out.Last = e
			return out, nil
		}
	}

	if opts.Policy == PolicyBudget && out.Connections >= opts.Budget {
		return out, nil
	}
	return nil, exhausted(opts, out)
}

func exhausted(opts Options, out *Outcome) error {
	if opts.Policy == PolicyBudget {
		return errors.New(errors.ErrCodeExhaustedInput,
			"ran out of pairs after %d of %d connections (%d points)",
			out.Connections, opts.Budget, out.Forest.Points())
	}
	return errors.New(errors.ErrCodeExhaustedInput,
		"%d points never formed a single circuit (%d pairs, %d circuits left)",
		out.Forest.Points(), out.Edges, out.Forest.Len())
}
