package pipeline

import (
	"fmt"

	"github.com/matzehuels/imagerows/pkg/gallery"
	"github.com/matzehuels/imagerows/pkg/render"
)

// Render generates output artifacts in the requested formats.
func Render(l gallery.Layout, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(l, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(l gallery.Layout, format string, opts Options) ([]byte, error) {
	switch format {
	case render.FormatJSON:
		return render.RenderJSON(l)
	case render.FormatSVG:
		var svgOpts []render.SVGOption
		if opts.Labels {
			svgOpts = append(svgOpts, render.WithLabels())
		}
		return render.RenderSVG(l, svgOpts...), nil
	case render.FormatPNG:
		pngOpts := []render.PNGOption{render.WithScale(opts.Scale)}
		if opts.Labels {
			pngOpts = append(pngOpts, render.WithPNGLabels())
		}
		return render.RenderPNG(l, pngOpts...)
	case render.FormatDOT:
		return []byte(render.ToDOT(l)), nil
	default:
		return nil, render.ValidateFormat(format)
	}
}
