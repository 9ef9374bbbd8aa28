// Package pipeline provides the listing → layout → render pipeline shared by
// the CLI and the HTTP server.
//
// Centralizing the stages here keeps cache keys, defaults and validation
// identical across entry points.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: read a listing from listing JSON or an HTML results page,
//     optionally measuring unmeasured thumbnails
//  2. Layout: justify the listing into rows at a container width
//  3. Render: produce artifacts (JSON, SVG, PNG, DOT)
//
// Layout and render results are cached through a [cache.Cache]; the parse
// stage is not, since its input is already in hand.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, listing, pipeline.Options{
//	    ContainerWidth: 600,
//	    Formats:        []string{"svg", "png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	l, err := runner.ComputeLayout(ctx, listing, opts)
//	artifacts, err := runner.Render(ctx, l, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/imagerows/pkg/cache"
	"github.com/matzehuels/imagerows/pkg/errors"
	"github.com/matzehuels/imagerows/pkg/gallery"
	"github.com/matzehuels/imagerows/pkg/layout"
	"github.com/matzehuels/imagerows/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultScale is the PNG scale factor.
	DefaultScale = 1.0

	// MaxScale bounds the PNG scale factor.
	MaxScale = 8.0
)

// Cache TTLs per stage. Layouts and artifacts are pure functions of their
// keys, so they only expire to bound storage.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
	TTLAsset    = 24 * time.Hour
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options. Zero margins and max height inherit from Base.
	ContainerWidth   float64 `json:"container_width,omitempty"`
	VerticalMargin   float64 `json:"vertical_margin,omitempty"`
	HorizontalMargin float64 `json:"horizontal_margin,omitempty"`
	MaxHeight        float64 `json:"max_height,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Labels  bool     `json:"labels,omitempty"`
	Scale   float64  `json:"scale,omitempty"`

	// Refresh bypasses cached layouts and artifacts.
	Refresh bool `json:"refresh,omitempty"`

	// Base supplies selectors, the fallback image and default margins.
	// DefaultConfig is used when nil.
	Base *layout.Config `json:"-"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Layout gallery.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Results    int
	Rows       int
	Items      int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool // all requested artifacts came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks options and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLayout fills layout defaults from Base and validates them.
// The container width may be zero; the listing's own width is used then.
func (o *Options) ValidateForLayout() error {
	base := layout.DefaultConfig()
	if o.Base != nil {
		base = *o.Base
	}
	if o.VerticalMargin == 0 {
		o.VerticalMargin = base.VerticalMargin
	}
	if o.HorizontalMargin == 0 {
		o.HorizontalMargin = base.HorizontalMargin
	}
	if o.MaxHeight == 0 {
		o.MaxHeight = base.MaxHeight
	}
	if o.ContainerWidth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "container width must not be negative, got %v", o.ContainerWidth)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return o.LayoutConfig().Validate()
}

// ValidateForRender fills render defaults and validates formats.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{render.FormatSVG}
	}
	for _, f := range o.Formats {
		if err := render.ValidateFormat(f); err != nil {
			return err
		}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0 || o.Scale > MaxScale {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be in (0, %v], got %v", MaxScale, o.Scale)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// LayoutConfig returns the coordinator configuration for these options.
func (o *Options) LayoutConfig() layout.Config {
	cfg := layout.DefaultConfig()
	if o.Base != nil {
		cfg = *o.Base
	}
	if o.VerticalMargin != 0 {
		cfg.VerticalMargin = o.VerticalMargin
	}
	if o.HorizontalMargin != 0 {
		cfg.HorizontalMargin = o.HorizontalMargin
	}
	if o.MaxHeight != 0 {
		cfg.MaxHeight = o.MaxHeight
	}
	return cfg
}

// LayoutKeyOpts returns the cache key options for a layout at width.
func (o *Options) LayoutKeyOpts(width float64) cache.LayoutKeyOpts {
	cfg := o.LayoutConfig()
	return cache.LayoutKeyOpts{
		ContainerWidth:   width,
		VerticalMargin:   cfg.VerticalMargin,
		HorizontalMargin: cfg.HorizontalMargin,
		MaxHeight:        cfg.MaxHeight,
	}
}

// ArtifactKeyOpts returns the cache key options for a rendered format.
// Options that do not affect a format are left out of its key.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case render.FormatSVG:
		k.Labels = o.Labels
	case render.FormatPNG:
		k.Labels = o.Labels
		k.Scale = o.Scale
	}
	return k
}

// Width resolves the container width for l: the explicit option, else the
// width the listing was captured at.
func (o *Options) Width(l *gallery.Listing) float64 {
	if o.ContainerWidth > 0 {
		return o.ContainerWidth
	}
	return l.ContainerWidth
}
