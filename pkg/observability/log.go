package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes pipeline, cache and HTTP events to a logger at debug
// level. Failures are logged at warn level.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks logging to l.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{Logger: l}
}

// Register installs h as the pipeline, cache and HTTP hooks.
func (h *LogHooks) Register() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnBuildStart(_ context.Context, workflow string) {
	h.Logger.Debug("build started", "workflow", workflow)
}

func (h *LogHooks) OnBuildComplete(_ context.Context, workflow string, nodeCount int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("build failed", "workflow", workflow, "error", err)
		return
	}
	h.Logger.Debug("build complete", "workflow", workflow, "nodes", nodeCount, "took", d)
}

func (h *LogHooks) OnFlattenComplete(_ context.Context, maxDepth, elementCount int, d time.Duration) {
	h.Logger.Debug("flatten complete", "depth", maxDepth, "elements", elementCount, "took", d)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, direction string, nodeCount int) {
	h.Logger.Debug("layout started", "direction", direction, "nodes", nodeCount)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, direction string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("layout failed", "direction", direction, "error", err)
		return
	}
	h.Logger.Debug("layout complete", "direction", direction, "took", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, format string) {
	h.Logger.Debug("render started", "format", format)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, format string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("render failed", "format", format, "error", err)
		return
	}
	h.Logger.Debug("render complete", "format", format, "took", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path, requestID string) {
	h.Logger.Debug("request", "method", method, "path", path, "request_id", requestID)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.Logger.Info("response", "method", method, "path", path, "status", status, "took", d)
}

func (h *LogHooks) OnError(_ context.Context, method, path string, err error) {
	h.Logger.Warn("request failed", "method", method, "path", path, "error", err)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
