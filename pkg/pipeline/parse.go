package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/imagerows/pkg/assets"
	"github.com/matzehuels/imagerows/pkg/dom"
	"github.com/matzehuels/imagerows/pkg/errors"
	"github.com/matzehuels/imagerows/pkg/gallery"
)

// Parse reads a listing from r. Input starting with '<' is treated as an
// HTML results page and read with the selectors of opts.LayoutConfig();
// anything else is decoded as listing JSON.
func Parse(r io.Reader, opts Options) (*gallery.Listing, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty input")
	}
	if trimmed[0] == '<' {
		doc, err := dom.Parse(bytes.NewReader(trimmed))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse HTML")
		}
		return doc.Listing(opts.LayoutConfig()), nil
	}
	l, err := gallery.ReadListing(bytes.NewReader(trimmed))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidListing, err, "parse listing")
	}
	return l, nil
}

// Measure probes the intrinsic size of every unmeasured result that has a
// source. Results whose probe fails stay unmeasured and are laid out as
// squares. It returns the number of results measured.
func Measure(ctx context.Context, loader *assets.Loader, l *gallery.Listing, concurrency int) (int, error) {
	if concurrency <= 0 {
		concurrency = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	measured := make([]bool, len(l.Results))
	for i := range l.Results {
		r := &l.Results[i]
		if r.NoImage || r.Src == "" || r.Measured() {
			continue
		}
		g.Go(func() error {
			size, err := loader.Probe(ctx, r.Src)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return nil
			}
			r.Width, r.Height = float64(size.Width), float64(size.Height)
			measured[i] = true
			return nil
		})
	}
	err := g.Wait()

	n := 0
	for _, ok := range measured {
		if ok {
			n++
		}
	}
	return n, err
}
