package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/junction/pkg/cache"
	pkgio "github.com/matzehuels/junction/pkg/io"
	"github.com/matzehuels/junction/pkg/observability"
	"github.com/matzehuels/junction/pkg/render"
)

// Render draws the circuits of result in the requested format, using the
// artifact cache when available.
func (r *Runner) Render(ctx context.Context, result *Result, opts RenderOptions) ([]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	key, err := r.artifactKey(result, opts)
	if err != nil {
		return nil, fmt.Errorf("artifact key: %w", err)
	}
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, cache.KeyTypeArtifact)
		result.CacheInfo.ArtifactHit = true
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, cache.KeyTypeArtifact)
	result.CacheInfo.ArtifactHit = false

	hooks := observability.Engine()
	hooks.OnRenderStart(ctx, opts.Format)
	start := time.Now()
	data, err := render.Render(ctx, result.Scene(), opts.Format, render.Options{Detailed: opts.Detailed})
	hooks.OnRenderComplete(ctx, opts.Format, len(data), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", opts.Format, err)
	}

	r.Logger.Info("rendered circuits",
		"format", opts.Format,
		"bytes", len(data),
		"duration", time.Since(start))

	if err := r.Cache.Set(ctx, key, data, r.ttl(cache.TTLArtifact)); err == nil {
		observability.Cache().OnCacheSet(ctx, cache.KeyTypeArtifact, len(data))
	}
	return data, nil
}

// artifactKey hashes the run-independent part of the result report.
func (r *Runner) artifactKey(result *Result, opts RenderOptions) (string, error) {
	rep := result.Report()
	rep.RunID = ""
	data, err := pkgio.MarshalJSON(rep)
	if err != nil {
		return "", err
	}
	return r.Keyer.ArtifactKey(cache.Hash(data), opts.ArtifactKeyOpts()), nil
}
