package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug entries to a
// logger, so "imagerows --verbose" shows pass scheduling and cache traffic.
// Failures are logged at warn level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to l under the "hooks" prefix.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{logger: l.WithPrefix("hooks")}
}

func (h *LogHooks) OnPassScheduled(trigger string, delay time.Duration) {
	h.logger.Debug("pass scheduled", "trigger", trigger, "delay", delay)
}

func (h *LogHooks) OnTriggerCoalesced(trigger string) {
	h.logger.Debug("trigger coalesced", "trigger", trigger)
}

func (h *LogHooks) OnPassComplete(s PassStats, d time.Duration) {
	h.logger.Debug("pass complete",
		"width", s.ContainerWidth, "groups", s.Groups, "rows", s.Rows,
		"fallback", s.FallbackRows, "items", s.Items, "unmeasured", s.Unmeasured,
		"took", d)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, results int) {
	h.logger.Debug("layout start", "results", results)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("layout failed", "took", d, "err", err)
		return
	}
	h.logger.Debug("layout complete", "took", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render failed", "formats", formats, "took", d, "err", err)
		return
	}
	h.logger.Debug("render complete", "formats", formats, "took", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "kind", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "kind", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "kind", keyType, "bytes", size)
}

func (h *LogHooks) OnProbe(_ context.Context, src string) {
	h.logger.Debug("probe", "src", src)
}

func (h *LogHooks) OnMeasured(_ context.Context, src string, w, ht int, d time.Duration) {
	h.logger.Debug("measured", "src", src, "width", w, "height", ht, "took", d)
}

func (h *LogHooks) OnError(_ context.Context, src string, err error) {
	h.logger.Warn("probe failed", "src", src, "err", err)
}

var (
	_ LayoutHooks   = (*LogHooks)(nil)
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ AssetHooks    = (*LogHooks)(nil)
)
