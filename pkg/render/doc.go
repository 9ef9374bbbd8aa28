// Package render turns computed layouts into artifacts.
//
// # Formats
//
//   - JSON: the layout itself, see [RenderJSON]
//   - SVG: one box per thumbnail, see [RenderSVG]
//   - PNG: a raster preview drawn with gg, see [RenderPNG]
//   - DOT: the group/row/item partition as a Graphviz graph, see [ToDOT]
//     and [RenderDOTSVG]
//
// Boxes are drawn at the thumbnail's position inside a canvas as wide as the
// container. Fallback rows (rows capped at the maximum height instead of
// filling the container) are tinted so they stand out.
//
//	svg := render.RenderSVG(l, render.WithLabels())
//	png, err := render.RenderPNG(l, render.WithScale(2))
package render

import (
	"slices"

	"github.com/matzehuels/imagerows/pkg/errors"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatDOT  = "dot"
)

// Formats lists every supported format.
var Formats = []string{FormatJSON, FormatSVG, FormatPNG, FormatDOT}

// ValidateFormat rejects unknown formats.
func ValidateFormat(f string) error {
	if !slices.Contains(Formats, f) {
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (want one of %v)", f, Formats)
	}
	return nil
}

// ContentType returns the MIME type of a format.
func ContentType(f string) string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatDOT:
		return "text/vnd.graphviz"
	default:
		return "application/octet-stream"
	}
}
