package justify

import "math"

// Row is a contiguous run of one group's items sharing a single height.
type Row struct {
	// Start is the index of the first item of the row within the group.
	Start int

	// Items are the row's items, in group order. The slice aliases the
	// input passed to Justify.
	Items []Item

	// Widths holds the rendered width of each item at Height.
	Widths []float64

	// Height is the shared row height.
	Height float64

	// Fallback marks the terminal row emitted when no prefix of the
	// remaining items got under MaxHeight. Its height is clamped instead of
	// solved, so it does not necessarily fill the container.
	Fallback bool
}

// Len returns the number of items in the row.
func (r Row) Len() int { return len(r.Items) }

// End returns the index one past the row's last item within the group.
func (r Row) End() int { return r.Start + len(r.Items) }

// Width returns the total rendered width of the row including the per-item
// margin.
func (r Row) Width(margin float64) float64 {
	w := float64(len(r.Items)) * margin
	for _, iw := range r.Widths {
		w += iw
	}
	return w
}

// Justifier computes justified rows. Margin is the horizontal space taken by
// each item in addition to its width (the sum of its left and right
// spacing). MaxHeight caps the height of every non-fallback row.
//
// The zero value is not useful: MaxHeight must be positive for any row to be
// accepted outside the fallback branch.
type Justifier struct {
	Margin    float64
	MaxHeight float64
}

// RowHeight returns the height at which items exactly fill containerWidth:
//
//	(containerWidth - len(items)*Margin) / Σ aspectRatio
//
// RowHeight returns +Inf for an empty slice.
func (j Justifier) RowHeight(items []Item, containerWidth float64) float64 {
	var ratios float64
	for _, it := range items {
		ratios += it.AspectRatio()
	}
	if ratios == 0 {
		return math.Inf(1)
	}
	return (containerWidth - float64(len(items))*j.Margin) / ratios
}

// Justify partitions items into rows. Rows cover the items exactly once and
// in order. A nil or empty slice yields no rows.
func (j Justifier) Justify(items []Item, containerWidth float64) []Row {
	var rows []Row
	start := 0
	for start < len(items) {
		rest := items[start:]

		var h float64
		accepted := 0
		for k := 1; k <= len(rest); k++ {
			h = j.RowHeight(rest[:k], containerWidth)
			if h < j.MaxHeight {
				accepted = k
				break
			}
		}

		if accepted == 0 {
			rows = append(rows, newRow(start, rest, math.Min(j.MaxHeight, h), true))
			break
		}

		rows = append(rows, newRow(start, rest[:accepted], h, false))
		start += accepted
	}
	return rows
}

func newRow(start int, items []Item, height float64, fallback bool) Row {
	row := Row{
		Start:    start,
		Items:    items,
		Widths:   make([]float64, len(items)),
		Height:   height,
		Fallback: fallback,
	}
	for i, it := range items {
		row.Widths[i] = ItemWidth(it, height)
	}
	return row
}
