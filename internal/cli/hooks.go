package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depviz/pkg/observability"
)

var (
	_ observability.AnalysisHooks = (*logHooks)(nil)
	_ observability.CacheHooks    = (*logHooks)(nil)
	_ observability.HTTPHooks     = (*logHooks)(nil)
)

// logHooks reports analysis, cache and HTTP events as debug log lines.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnIndexLoaded(_ context.Context, mode, repo string, packages int, dur time.Duration, err error) {
	if err != nil {
		h.logger.Debug("index load failed", "mode", mode, "repo", repo, "error", err)
		return
	}
	h.logger.Debug("index loaded", "mode", mode, "repo", repo, "packages", packages, "took", dur.Round(time.Millisecond))
}

func (h *logHooks) OnBuildComplete(_ context.Context, root string, nodes int, cycle bool, dur time.Duration) {
	h.logger.Debug("graph built", "root", root, "nodes", nodes, "cycle", cycle, "took", dur.Round(time.Microsecond))
}

func (h *logHooks) OnRenderComplete(_ context.Context, backend, format string, dur time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "backend", backend, "format", format, "error", err)
		return
	}
	h.logger.Debug("rendered", "backend", backend, "format", format, "took", dur.Round(time.Millisecond))
}

func (h *logHooks) OnCacheHit(_ context.Context, kind string) {
	h.logger.Debug("cache hit", "kind", kind)
}

func (h *logHooks) OnCacheMiss(_ context.Context, kind string) {
	h.logger.Debug("cache miss", "kind", kind)
}

func (h *logHooks) OnCacheSet(_ context.Context, kind string, size int) {
	h.logger.Debug("cache set", "kind", kind, "bytes", size)
}

func (h *logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, method, host, path string, status int, dur time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "took", dur.Round(time.Millisecond))
}

func (h *logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "error", err)
}
