package pipeline

import (
	"github.com/matzehuels/imagerows/pkg/errors"
	"github.com/matzehuels/imagerows/pkg/gallery"
	"github.com/matzehuels/imagerows/pkg/layout"
)

// ComputeLayout justifies l into rows. The container width comes from opts
// when set, else from the listing. The listing itself is not modified.
func ComputeLayout(l *gallery.Listing, opts Options) (gallery.Layout, error) {
	if l == nil {
		return gallery.Layout{}, errors.New(errors.ErrCodeInvalidListing, "listing is required")
	}
	if err := l.Validate(); err != nil {
		return gallery.Layout{}, errors.Wrap(errors.ErrCodeInvalidListing, err, "invalid listing")
	}
	width := opts.Width(l)
	if width <= 0 {
		return gallery.Layout{}, errors.New(errors.ErrCodeInvalidInput, "container width is required")
	}

	work := l
	if width != l.ContainerWidth {
		work = l.Clone()
		work.ContainerWidth = width
	}
	return layout.Compute(work, opts.LayoutConfig())
}
