// Package pkg provides the core libraries for imagerows, a justified
// thumbnail layout engine.
//
// # Overview
//
// imagerows arranges variable-aspect-ratio thumbnails into rows that fill a
// container's width exactly, the way image search results pages do. Rows are
// scaled to a common height; a row that cannot fill the width without
// exceeding the maximum height is laid out at that height and left ragged.
// The pkg directory is organized into four main areas:
//
//  1. Layout - the justification algorithm and the coordinator that keeps a
//     listing laid out as events arrive
//  2. Documents - listings, layouts and HTML results pages
//  3. Infrastructure - caching, storage, configuration and the HTTP server
//  4. [pipeline] - Orchestration (parse → layout → render)
//
// # Architecture
//
// The typical data flow through imagerows:
//
//	Listing JSON / HTML results page
//	         ↓
//	    [dom] or [gallery] (read results, container width, natural sizes)
//	         ↓
//	    [assets] (optionally probe unmeasured thumbnails)
//	         ↓
//	    [layout] → [justify] (partition into groups, justify into rows)
//	         ↓
//	    [render] (JSON, SVG, PNG, DOT)
//
// # Quick Start
//
// Lay out a listing and render it to SVG:
//
//	l, _ := gallery.ReadListingFile("listing.json")
//	out, _ := layout.Compute(l, layout.DefaultConfig())
//	svg := render.RenderSVG(out, render.WithLabels())
//
// Align an HTML page in place:
//
//	doc, _ := dom.Parse(r)
//	c, _ := layout.New(doc, layout.DefaultConfig())
//	c.Watch()
//	doc.Fire(layout.EventPageShow)
//
// # Main Packages
//
// ## Layout
//
// [justify] - Row justification: fills rows greedily, scales each to the
// container width and falls back to the maximum height for short rows.
//
// [layout] - The coordinator. It partitions results into groups of adjacent
// results, debounces layout triggers (pageshow, load, resize, error),
// substitutes a fallback image for failed thumbnails and records each pass.
//
// ## Documents
//
// [gallery] - Serialization types for listings and layouts.
//
// [dom] - HTML results pages backed by goquery. Implements the layout
// document model and writes computed styles back into the page.
//
// [assets] - Probes intrinsic sizes of local files, http(s) URLs and data
// URIs, with caching and retries.
//
// ## Rendering
//
// [render] - Layout output formats: JSON, SVG, PNG (via gg) and Graphviz DOT.
//
// ## Infrastructure
//
// [pipeline] - Parse, layout and render stages with caching, shared by the
// CLI and the server so both produce identical results.
//
// [cache] - Cache backends (null, file, Redis) and cache key derivation.
//
// [store] - Listing stores (memory, file, MongoDB).
//
// [config] - TOML configuration and backend wiring.
//
// [server] - HTTP API on chi.
//
// [errors] - Coded errors and input validation.
//
// [observability] - Hooks for layout passes, the pipeline, caches and asset
// probes.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/justify/...            # Specific package
//	go test -tags integration ./pkg/...  # Include integration tests (MongoDB)
//
// [justify]: https://pkg.go.dev/github.com/matzehuels/imagerows/pkg/justify
// [layout]: https://pkg.go.dev/github.com/matzehuels/imagerows/pkg/layout
// [gallery]: https://pkg.go.dev/github.com/matzehuels/imagerows/pkg/gallery
// [dom]: https://pkg.go.dev/github.com/matzehuels/imagerows/pkg/dom
// [assets]: https://pkg.go.dev/github.com/matzehuels/imagerows/pkg/assets
// [render]: https://pkg.go.dev/github.com/matzehuels/imagerows/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/imagerows/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/imagerows/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/imagerows/pkg/store
// [config]: https://pkg.go.dev/github.com/matzehuels/imagerows/pkg/config
// [server]: https://pkg.go.dev/github.com/matzehuels/imagerows/pkg/server
// [errors]: https://pkg.go.dev/github.com/matzehuels/imagerows/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/imagerows/pkg/observability
package pkg
