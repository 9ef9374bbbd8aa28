package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/imagerows/pkg/gallery"
)

// ToDOT describes how a layout partitions its listing: the listing node
// points at each group, each group at its rows and each row at its
// thumbnails. Fallback rows are drawn dashed, unmeasured thumbnails grey.
func ToDOT(l gallery.Layout) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	root := "listing"
	if l.ListingID != "" {
		root = "listing " + l.ListingID
	}
	fmt.Fprintf(&buf, "  root [label=%q, shape=folder];\n", fmt.Sprintf("%s\nwidth %.0f", root, l.ContainerWidth))

	for gi, g := range l.Groups {
		gid := fmt.Sprintf("g%d", gi)
		fmt.Fprintf(&buf, "  %s [label=%q, fillcolor=%q];\n", gid, fmt.Sprintf("group %d", gi), colorKnown)
		fmt.Fprintf(&buf, "  root -> %s;\n", gid)

		for ri, row := range g.Rows {
			rid := fmt.Sprintf("g%dr%d", gi, ri)
			attrs := fmt.Sprintf("label=%q", fmt.Sprintf("row %d\nh %.1f", ri, row.Height))
			if row.Fallback {
				attrs += ", style=\"rounded,filled,dashed\", fillcolor=" + strconv.Quote(colorFallback)
			}
			fmt.Fprintf(&buf, "  %s [%s];\n", rid, attrs)
			fmt.Fprintf(&buf, "  %s -> %s;\n", gid, rid)

			for _, p := range row.Items {
				fill := colorBackground
				if !p.Known {
					fill = colorUnknown
				}
				fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%q];\n", "item:"+p.ID, fmt.Sprintf("%s\n%.0fx%.0f", p.ID, p.Width, p.Height), fill)
				fmt.Fprintf(&buf, "  %s -> %q;\n", rid, "item:"+p.ID)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderDOTSVG renders a DOT graph to SVG using Graphviz.
func RenderDOTSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a
// viewBox-only one so the SVG scales with its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
