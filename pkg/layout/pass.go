package layout

import (
	"time"

	"github.com/matzehuels/imagerows/pkg/gallery"
	"github.com/matzehuels/imagerows/pkg/justify"
	"github.com/matzehuels/imagerows/pkg/observability"
)

// Pass records the outcome of one layout pass.
type Pass struct {
	ID      string
	Trigger string

	// ContainerWidth is the content width read at the start of the pass.
	ContainerWidth float64

	Groups []PassGroup

	// Skipped counts results without a thumbnail.
	Skipped int

	Duration time.Duration
}

// PassGroup is a group together with the rows computed for it.
type PassGroup struct {
	Entries []Entry
	Rows    []justify.Row
}

// Stats summarizes the pass.
func (p *Pass) Stats() observability.PassStats {
	s := observability.PassStats{
		ContainerWidth: p.ContainerWidth,
		Groups:         len(p.Groups),
	}
	for _, g := range p.Groups {
		s.Rows += len(g.Rows)
		for _, r := range g.Rows {
			if r.Fallback {
				s.FallbackRows++
			}
			for _, it := range r.Items {
				s.Items++
				if !it.Known() {
					s.Unmeasured++
				}
			}
		}
	}
	return s
}

// Export converts the pass into a serializable layout. describe maps a
// result index to the id and source recorded for its placement.
//
// Groups are stacked top to bottom separated by the horizontal margin. Each
// row occupies its height plus the vertical margin, and each thumbnail its
// width plus the vertical margin, with the thumbnail centred in that cell.
func (p *Pass) Export(cfg Config, describe func(index int) (id, src string)) gallery.Layout {
	out := gallery.Layout{
		PassID:           p.ID,
		ContainerWidth:   p.ContainerWidth,
		VerticalMargin:   cfg.VerticalMargin,
		HorizontalMargin: cfg.HorizontalMargin,
		MaxHeight:        cfg.MaxHeight,
		Groups:           make([]gallery.Group, 0, len(p.Groups)),
	}
	margin := gallery.Margin(cfg.Margins())
	inset := cfg.VerticalMargin / 2

	var y float64
	for gi, g := range p.Groups {
		if gi > 0 {
			y += cfg.HorizontalMargin
		}
		group := gallery.Group{Rows: make([]gallery.Row, 0, len(g.Rows))}
		for _, r := range g.Rows {
			row := gallery.Row{
				Y:        y,
				Height:   r.Height,
				Fallback: r.Fallback,
				Items:    make([]gallery.Placement, 0, r.Len()),
			}
			var x float64
			for k, w := range r.Widths {
				id, src := describe(g.Entries[r.Start+k].Index)
				row.Items = append(row.Items, gallery.Placement{
					ID:     id,
					Src:    src,
					Known:  r.Items[k].Known(),
					X:      x + inset,
					Y:      y + inset,
					Width:  w,
					Height: r.Height,
					Margin: margin,
				})
				x += w + cfg.VerticalMargin
			}
			group.Rows = append(group.Rows, row)
			y += r.Height + cfg.VerticalMargin
		}
		out.Groups = append(out.Groups, group)
	}
	out.Height = y
	return out
}
