package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/junction/pkg/cache"
	"github.com/matzehuels/junction/pkg/circuit"
	"github.com/matzehuels/junction/pkg/connect"
	"github.com/matzehuels/junction/pkg/distance"
	pkgio "github.com/matzehuels/junction/pkg/io"
	"github.com/matzehuels/junction/pkg/junction"
	"github.com/matzehuels/junction/pkg/observability"
	"github.com/matzehuels/junction/pkg/reduce"
)

// Runner executes runs with caching.
//
// The Runner is stateless except for the cache and logger; it doesn't store
// results. Multiple goroutines can safely use the same Runner with different
// options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the default cache lifetime of results and artifacts.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs index → connect → reduce over in, consulting the cache first.
func (r *Runner) Execute(ctx context.Context, in *junction.Input, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	logger := opts.Logger.With("run", opts.RunID)

	result := &Result{
		RunID:  opts.RunID,
		Input:  in,
		Policy: opts.policy,
		Stats:  Stats{Points: in.Len(), Pairs: distance.PairCount(in.Len())},
	}
	if opts.policy == connect.PolicyBudget {
		budget, err := opts.ResolveBudget(in)
		if err != nil {
			return nil, err
		}
		result.Budget = budget
	}

	cacheKey := r.Keyer.ResultKey(in.Hash(), opts.ResultKeyOpts(result.Budget))
	if !opts.Refresh && !opts.Trace {
		if r.loadCached(ctx, cacheKey, result) {
			result.CacheInfo.ResultHit = true
			logger.Info("using cached result", "policy", opts.Policy, "answer", result.Answer)
			return result, nil
		}
	}

	// Stage 1: Index
	idx, err := r.index(ctx, in, opts, logger, result)
	if err != nil {
		return nil, fmt.Errorf("index: %w", err)
	}

	// Stage 2: Connect
	out, err := r.connect(ctx, idx, opts, logger, result)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	// Stage 3: Reduce
	reduceStart := time.Now()
	result.Pairs = out.Edges
	result.Connections = out.Connections
	result.Circuits = out.Forest.Circuits()
	result.Summary = reduce.Summarize(result.Circuits, in.Len())
	if opts.policy == connect.PolicyUnify {
		last := out.Last
		result.Last = &last
		result.Answer = reduce.EndpointProduct(idx.Point(last.A), idx.Point(last.B))
	} else {
		result.Answer = reduce.TopSizeProduct(out.Forest.Sizes(), reduce.DefaultTop)
	}
	result.Stats.ReduceTime = time.Since(reduceStart)

	for _, c := range result.Circuits {
		logger.Debug("circuit", "id", c.ID, "size", c.Size(), "members", memberKeys(in, c))
	}
	logger.Info("reduced circuits",
		"circuits", result.Summary.Circuits,
		"largest", result.Summary.Largest,
		"answer", result.Answer)

	r.storeCached(ctx, cacheKey, result)
	return result, nil
}

func (r *Runner) index(ctx context.Context, in *junction.Input, opts Options, logger *log.Logger, result *Result) (*distance.Index, error) {
	hooks := observability.Engine()
	hooks.OnIndexStart(ctx, in.Len())

	start := time.Now()
	idx, err := distance.Build(ctx, in.Points, distance.Options{Workers: opts.Workers})
	result.Stats.IndexTime = time.Since(start)
	if err != nil {
		hooks.OnIndexComplete(ctx, in.Len(), 0, result.Stats.IndexTime, err)
		return nil, err
	}
	hooks.OnIndexComplete(ctx, in.Len(), idx.Len(), result.Stats.IndexTime, nil)

	logger.Info("indexed points",
		"points", in.Len(),
		"pairs", idx.Len(),
		"workers", opts.Workers,
		"duration", result.Stats.IndexTime)
	return idx, nil
}

func (r *Runner) connect(ctx context.Context, idx *distance.Index, opts Options, logger *log.Logger, result *Result) (*connect.Outcome, error) {
	hooks := observability.Engine()
	hooks.OnRunStart(ctx, opts.Policy, len(idx.Points()))

	runOpts := connect.Options{
		Policy: opts.policy,
		Budget: result.Budget,
		Logger: logger,
		OnStep: func(s connect.Step) {
			hooks.OnConnect(ctx, s.Result.Outcome.String())
			if s.Result.Outcome.Changed() {
				result.Links = append(result.Links, s.Edge)
			}
			if opts.Trace {
				result.Steps = append(result.Steps, s)
			}
		},
	}

	start := time.Now()
	out, err := connect.Run(ctx, idx, runOpts)
	result.Stats.ConnectTime = time.Since(start)
	connections := 0
	if out != nil {
		connections = out.Connections
	}
	hooks.OnRunComplete(ctx, opts.Policy, connections, result.Stats.ConnectTime, err)
	if err != nil {
		return nil, err
	}

	logger.Info("connected junction boxes",
		"policy", opts.Policy,
		"connections", out.Connections,
		"circuits", out.Forest.Len(),
		"duration", result.Stats.ConnectTime)
	return out, nil
}

// loadCached fills result from the cache. Unreadable entries count as misses.
func (r *Runner) loadCached(ctx context.Context, key string, result *Result) bool {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, cache.KeyTypeResult)
		return false
	}
	rep, err := pkgio.UnmarshalJSON(data)
	if err == nil {
		err = result.fromReport(rep)
	}
	if err != nil {
		r.Logger.Warn("discarding cached result", "err", err)
		_ = r.Cache.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, cache.KeyTypeResult)
		return false
	}
	observability.Cache().OnCacheHit(ctx, cache.KeyTypeResult)
	return true
}

func (r *Runner) storeCached(ctx context.Context, key string, result *Result) {
	rep := result.Report()
	rep.RunID = ""
	data, err := pkgio.MarshalJSON(rep)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, r.ttl(cache.TTLResult)); err != nil {
		r.Logger.Warn("failed to cache result", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cache.KeyTypeResult, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func memberKeys(in *junction.Input, c circuit.Circuit) []string {
	keys := make([]string, len(c.Members))
	for i, p := range c.Members {
		keys[i] = in.Points[p].Key
	}
	return keys
}
