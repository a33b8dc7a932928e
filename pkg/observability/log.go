package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every hook event to a logger at debug level, and failures
// at warn level. It implements all three hook interfaces.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks logging to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnLoadStart(_ context.Context, source string) {
	h.logger.Debug("loading events", "source", source)
}

func (h *LogHooks) OnLoadComplete(_ context.Context, source string, n int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("load failed", "source", source, "events", n, "error", err)
		return
	}
	h.logger.Debug("events loaded", "source", source, "events", n, "took", d)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, policy string, n int) {
	h.logger.Debug("layout", "policy", policy, "events", n)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, policy string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("layout failed", "policy", policy, "error", err)
		return
	}
	h.logger.Debug("layout done", "policy", policy, "took", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, format string) {
	h.logger.Debug("render", "format", format)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, format string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render failed", "format", format, "error", err)
		return
	}
	h.logger.Debug("render done", "format", format, "took", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "took", d)
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Warn("http error", "method", method, "host", host, "path", path, "error", err)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
