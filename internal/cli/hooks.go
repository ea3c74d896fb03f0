package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/legalscan/pkg/observability"
)

// debugHooks logs every observability event at debug level.
type debugHooks struct {
	logger *log.Logger
}

// installDebugHooks routes scan, HTTP and cache events to logger and
// returns a function restoring the no-op hooks.
func installDebugHooks(logger *log.Logger) func() {
	h := &debugHooks{logger: logger}
	observability.SetScanHooks(h)
	observability.SetHTTPHooks(h)
	observability.SetCacheHooks(h)
	return observability.Reset
}

func (h *debugHooks) OnArchiveStart(_ context.Context, path string, level int) {
	h.logger.Debug("archive start", "archive", path, "level", level)
}

func (h *debugHooks) OnArchiveComplete(_ context.Context, path string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("archive failed", "archive", path, "elapsed", d.Round(time.Millisecond), "error", err)
		return
	}
	h.logger.Debug("archive done", "archive", path, "elapsed", d.Round(time.Millisecond))
}

func (h *debugHooks) OnResolve(_ context.Context, coord string, err error) {
	if err != nil {
		h.logger.Debug("resolve failed", "coordinate", coord, "error", err)
		return
	}
	h.logger.Debug("resolved", "coordinate", coord)
}

func (h *debugHooks) OnClassify(_ context.Context, path string, ids []string) {
	h.logger.Debug("classified", "archive", path, "licenses", ids)
}

func (h *debugHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *debugHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "elapsed", d.Round(time.Millisecond))
}

func (h *debugHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "error", err)
}

func (h *debugHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *debugHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *debugHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

var (
	_ observability.ScanHooks  = (*debugHooks)(nil)
	_ observability.HTTPHooks  = (*debugHooks)(nil)
	_ observability.CacheHooks = (*debugHooks)(nil)
)
