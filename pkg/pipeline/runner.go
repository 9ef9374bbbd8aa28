package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/imagerows/pkg/cache"
	"github.com/matzehuels/imagerows/pkg/gallery"
	"github.com/matzehuels/imagerows/pkg/observability"
)

// Cache key types reported to cache hooks.
const (
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching behaves the same everywhere.
//
// The Runner holds no per-run state; multiple goroutines can share one
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
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
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs layout and render with caching.
func (r *Runner) Execute(ctx context.Context, l *gallery.Listing, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{Artifacts: make(map[string][]byte)}
	if l != nil {
		result.Stats.Results = len(l.Results)
	}

	layoutStart := time.Now()
	out, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = out
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Rows = out.RowCount()
	result.Stats.Items = out.ItemCount()
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"rows", result.Stats.Rows,
		"items", result.Stats.Items,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, out, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ComputeLayoutWithCacheInfo computes a layout with caching and reports
// whether it came from the cache.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, l *gallery.Listing, opts Options) (gallery.Layout, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return gallery.Layout{}, false, err
	}
	hooks := observability.Pipeline()
	if l != nil {
		hooks.OnLayoutStart(ctx, len(l.Results))
	}
	start := time.Now()

	out, hit, err := r.computeLayout(ctx, l, opts)
	hooks.OnLayoutComplete(ctx, time.Since(start), err)
	return out, hit, err
}

func (r *Runner) computeLayout(ctx context.Context, l *gallery.Listing, opts Options) (gallery.Layout, bool, error) {
	if l == nil {
		// ComputeLayout reports the error.
		out, err := ComputeLayout(l, opts)
		return out, false, err
	}
	cacheKey := r.Keyer.LayoutKey(l.Hash(), opts.LayoutKeyOpts(opts.Width(l)))
	cacheHooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := gallery.UnmarshalLayout(data); err == nil {
				cacheHooks.OnCacheHit(ctx, keyTypeLayout)
				// The hash ignores the listing id, so restore the caller's.
				cached.ListingID = l.ID
				return cached, true, nil
			}
			// Undecodable entries are recomputed and overwritten.
		} else if err != nil {
			r.Logger.Warn("layout cache read failed", "error", err)
		}
		cacheHooks.OnCacheMiss(ctx, keyTypeLayout)
	}

	out, err := ComputeLayout(l, opts)
	if err != nil {
		return gallery.Layout{}, false, err
	}

	if data, err := gallery.MarshalLayout(out); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, TTLLayout); err != nil {
			r.Logger.Warn("layout cache write failed", "error", err)
		} else {
			cacheHooks.OnCacheSet(ctx, keyTypeLayout, len(data))
		}
	}
	return out, false, nil
}

// ComputeLayout is a convenience wrapper that discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, l *gallery.Listing, opts Options) (gallery.Layout, error) {
	out, _, err := r.ComputeLayoutWithCacheInfo(ctx, l, opts)
	return out, err
}

// RenderWithCacheInfo renders artifacts with caching and reports whether
// every requested format came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l gallery.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, hit, err := r.render(ctx, l, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, hit, err
}

func (r *Runner) render(ctx context.Context, l gallery.Layout, opts Options) (map[string][]byte, bool, error) {
	// Pass ids differ between identical layouts; keep them out of the key.
	keyed := l
	keyed.PassID = ""
	layoutData, err := gallery.MarshalLayout(keyed)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)
	cacheHooks := observability.Cache()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				cacheHooks.OnCacheHit(ctx, keyTypeArtifact)
				artifacts[format] = data
				continue
			}
			cacheHooks.OnCacheMiss(ctx, keyTypeArtifact)
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	sub := opts
	sub.Formats = missing
	rendered, err := Render(l, sub)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, TTLArtifact); err != nil {
			r.Logger.Warn("artifact cache write failed", "format", format, "error", err)
			continue
		}
		cacheHooks.OnCacheSet(ctx, keyTypeArtifact, len(data))
	}
	return artifacts, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l gallery.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
