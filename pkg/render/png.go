package render

import (
	"bytes"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/imagerows/pkg/errors"
	"github.com/matzehuels/imagerows/pkg/gallery"
)

// maxPNGPixels bounds the canvas so a huge layout cannot exhaust memory.
const maxPNGPixels = 64 << 20

// PNGOption configures RenderPNG.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale  float64
	labels bool
}

// WithScale sets the scale factor (default 1).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithPNGLabels writes each thumbnail's id inside its box.
func WithPNGLabels() PNGOption { return func(r *pngRenderer) { r.labels = true } }

// RenderPNG rasterizes the layout.
func RenderPNG(l gallery.Layout, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 1}
	for _, opt := range opts {
		opt(&r)
	}

	w := int(math.Ceil(l.ContainerWidth * r.scale))
	h := int(math.Ceil(l.Height * r.scale))
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "layout has empty bounds %dx%d", w, h)
	}
	if w*h > maxPNGPixels {
		return nil, errors.New(errors.ErrCodeInvalidInput, "layout too large to rasterize (%dx%d)", w, h)
	}

	dc := gg.NewContext(w, h)
	dc.SetHexColor(colorBackground)
	dc.Clear()
	dc.Scale(r.scale, r.scale)
	dc.SetLineWidth(1)

	for _, g := range l.Groups {
		for _, row := range g.Rows {
			for _, p := range row.Items {
				dc.DrawRectangle(p.X, p.Y, p.Width, p.Height)
				dc.SetHexColor(boxFill(p, row.Fallback))
				dc.FillPreserve()
				dc.SetHexColor(colorStroke)
				dc.Stroke()

				if r.labels {
					dc.SetHexColor(colorText)
					dc.DrawStringAnchored(p.ID, p.X+p.Width/2, p.Y+p.Height/2, 0.5, 0.5)
				}
			}
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
