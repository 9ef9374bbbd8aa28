package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/imagerows/pkg/gallery"
)

const (
	colorBackground = "#ffffff"
	colorKnown      = "#d0dcea"
	colorUnknown    = "#e6e6e6"
	colorFallback   = "#f4dccb"
	colorStroke     = "#5b6b7c"
	colorText       = "#1f2933"
)

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	labels bool
	images bool
}

// WithLabels writes each thumbnail's id inside its box.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// WithImages references each thumbnail's source with an <image> element.
func WithImages() SVGOption { return func(r *svgRenderer) { r.images = true } }

// RenderSVG draws the layout.
func RenderSVG(l gallery.Layout, opts ...SVGOption) []byte {
	var r svgRenderer
	for _, opt := range opts {
		opt(&r)
	}

	w, h := l.ContainerWidth, l.Height
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n", w, h, w, h)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", colorBackground)

	for gi, g := range l.Groups {
		fmt.Fprintf(&buf, `  <g class="group" data-group="%d">`+"\n", gi)
		for ri, row := range g.Rows {
			fmt.Fprintf(&buf, `    <g class="row" data-row="%d" data-height="%.3f"`, ri, row.Height)
			if row.Fallback {
				buf.WriteString(` data-fallback="true"`)
			}
			buf.WriteString(">\n")
			for _, p := range row.Items {
				renderBox(&buf, r, p, row.Fallback)
			}
			buf.WriteString("    </g>\n")
		}
		buf.WriteString("  </g>\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderBox(buf *bytes.Buffer, r svgRenderer, p gallery.Placement, fallback bool) {
	fill := boxFill(p, fallback)
	fmt.Fprintf(buf, `      <rect id="item-%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="%s" stroke-width="1"/>`+"\n",
		html.EscapeString(p.ID), p.X, p.Y, p.Width, p.Height, fill, colorStroke)
	if r.images && p.Src != "" {
		fmt.Fprintf(buf, `      <image href="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" preserveAspectRatio="none"/>`+"\n",
			html.EscapeString(p.Src), p.X, p.Y, p.Width, p.Height)
	}
	if r.labels {
		fmt.Fprintf(buf, `      <text x="%.2f" y="%.2f" font-family="sans-serif" font-size="12" text-anchor="middle" dominant-baseline="middle" fill="%s">%s</text>`+"\n",
			p.X+p.Width/2, p.Y+p.Height/2, colorText, html.EscapeString(p.ID))
	}
}

func boxFill(p gallery.Placement, fallback bool) string {
	switch {
	case fallback:
		return colorFallback
	case !p.Known:
		return colorUnknown
	default:
		return colorKnown
	}
}
