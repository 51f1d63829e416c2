package cli

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/junction/pkg/observability"
)

// logHooks reports pipeline events through the CLI logger at debug level.
// Connection outcomes are tallied and logged once per run.
type logHooks struct {
	observability.NoopEngineHooks
	logger *log.Logger

	mu    sync.Mutex
	tally map[string]int
}

func newLogHooks(logger *log.Logger) *logHooks {
	return &logHooks{logger: logger, tally: make(map[string]int)}
}

// register installs h as the global engine and cache hooks.
func (h *logHooks) register() {
	observability.SetEngineHooks(h)
	observability.SetCacheHooks(h)
}

func (h *logHooks) OnIndexComplete(_ context.Context, points, edges int, d time.Duration, err error) {
	if err == nil {
		h.logger.Debug("index built", "points", points, "pairs", edges, "took", d.Round(time.Microsecond))
	}
}

func (h *logHooks) OnConnect(_ context.Context, outcome string) {
	h.mu.Lock()
	h.tally[outcome]++
	h.mu.Unlock()
}

func (h *logHooks) OnRunStart(context.Context, string, int) {
	h.mu.Lock()
	clear(h.tally)
	h.mu.Unlock()
}

func (h *logHooks) OnRunComplete(_ context.Context, policy string, connections int, d time.Duration, err error) {
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.logger.Debug("connection outcomes",
		"policy", policy,
		"connections", connections,
		"created", h.tally["created"],
		"extended", h.tally["extended"],
		"merged", h.tally["merged"],
		"redundant", h.tally["redundant"],
		"took", d.Round(time.Microsecond))
}

func (h *logHooks) OnRenderComplete(_ context.Context, format string, bytes int, d time.Duration, err error) {
	if err == nil {
		h.logger.Debug("rendered", "format", format, "bytes", bytes, "took", d.Round(time.Millisecond))
	}
}

// Outcomes returns a copy of the current tally.
func (h *logHooks) Outcomes() map[string]int {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make(map[string]int, len(h.tally))
	for k, v := range h.tally {
		out[k] = v
	}
	return out
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

var (
	_ observability.EngineHooks = (*logHooks)(nil)
	_ observability.CacheHooks  = (*logHooks)(nil)
)
