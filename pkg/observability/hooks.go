// Package observability lets callers observe layout passes, pipeline stages,
// cache traffic and asset probes without the core packages depending on a
// metrics backend.
//
// Libraries emit events through the accessors:
//
//	observability.Layout().OnPassScheduled("load", cfg.Delay)
//	observability.Cache().OnCacheHit(ctx, "layout")
//
// Binaries install implementations once at startup, before any work begins.
// [Register] installs every hook interface a value implements; [LogHooks]
// is the implementation the imagerows command uses.
package observability

import (
	"context"
	"sync"
	"time"
)

// PassStats summarizes one layout pass.
type PassStats struct {
	ContainerWidth float64
	Groups         int
	Rows           int
	FallbackRows   int
	Items          int
	Unmeasured     int
}

// LayoutHooks receives events from a layout coordinator.
type LayoutHooks interface {
	// OnPassScheduled records a trigger that scheduled a deferred pass.
	OnPassScheduled(trigger string, delay time.Duration)

	// OnTriggerCoalesced records a trigger absorbed by an outstanding pass.
	OnTriggerCoalesced(trigger string)

	OnPassComplete(stats PassStats, duration time.Duration)
}

// PipelineHooks receives events from the layout pipeline.
type PipelineHooks interface {
	OnLayoutStart(ctx context.Context, results int)
	OnLayoutComplete(ctx context.Context, duration time.Duration, err error)
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives cache traffic. keyType is "layout", "artifact" or
// "asset".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// AssetHooks receives events from thumbnail size probing.
type AssetHooks interface {
	OnProbe(ctx context.Context, src string)
	OnMeasured(ctx context.Context, src string, width, height int, duration time.Duration)

	// OnError records a failed probe: a missing file, a network failure or
	// an image that does not decode.
	OnError(ctx context.Context, src string, err error)
}

type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnPassScheduled(string, time.Duration)   {}
func (NoopLayoutHooks) OnTriggerCoalesced(string)               {}
func (NoopLayoutHooks) OnPassComplete(PassStats, time.Duration) {}

type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLayoutStart(context.Context, int)                               {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, time.Duration, error)           {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopAssetHooks struct{}

func (NoopAssetHooks) OnProbe(context.Context, string)                             {}
func (NoopAssetHooks) OnMeasured(context.Context, string, int, int, time.Duration) {}
func (NoopAssetHooks) OnError(context.Context, string, error)                      {}

// slot holds one registered hook implementation.
type slot[T any] struct {
	mu  sync.RWMutex
	def T
	cur T
	set bool
}

func (s *slot[T]) get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return s.def
	}
	return s.cur
}

func (s *slot[T]) put(h T) {
	s.mu.Lock()
	s.cur, s.set = h, true
	s.mu.Unlock()
}

func (s *slot[T]) reset() {
	s.mu.Lock()
	var zero T
	s.cur, s.set = zero, false
	s.mu.Unlock()
}

var (
	layoutSlot   = slot[LayoutHooks]{def: NoopLayoutHooks{}}
	pipelineSlot = slot[PipelineHooks]{def: NoopPipelineHooks{}}
	cacheSlot    = slot[CacheHooks]{def: NoopCacheHooks{}}
	assetSlot    = slot[AssetHooks]{def: NoopAssetHooks{}}
)

// SetLayoutHooks installs h. A nil h is ignored; the same goes for the
// other setters.
func SetLayoutHooks(h LayoutHooks) {
	if h != nil {
		layoutSlot.put(h)
	}
}

func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		pipelineSlot.put(h)
	}
}

func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheSlot.put(h)
	}
}

func SetAssetHooks(h AssetHooks) {
	if h != nil {
		assetSlot.put(h)
	}
}

// Register installs h for every hook interface it implements and reports
// how many it matched.
func Register(h any) int {
	n := 0
	if v, ok := h.(LayoutHooks); ok {
		SetLayoutHooks(v)
		n++
	}
	if v, ok := h.(PipelineHooks); ok {
		SetPipelineHooks(v)
		n++
	}
	if v, ok := h.(CacheHooks); ok {
		SetCacheHooks(v)
		n++
	}
	if v, ok := h.(AssetHooks); ok {
		SetAssetHooks(v)
		n++
	}
	return n
}

func Layout() LayoutHooks     { return layoutSlot.get() }
func Pipeline() PipelineHooks { return pipelineSlot.get() }
func Cache() CacheHooks       { return cacheSlot.get() }
func Asset() AssetHooks       { return assetSlot.get() }

// Reset restores the no-op hooks.
func Reset() {
	layoutSlot.reset()
	pipelineSlot.reset()
	cacheSlot.reset()
	assetSlot.reset()
}
