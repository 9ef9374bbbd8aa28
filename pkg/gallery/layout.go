package gallery

// Layout is the serialized result of one layout pass.
type Layout struct {
	ListingID string `json:"listing_id,omitempty" bson:"listing_id,omitempty"`
	PassID    string `json:"pass_id,omitempty" bson:"pass_id,omitempty"`

	ContainerWidth   float64 `json:"container_width" bson:"container_width"`
	VerticalMargin   float64 `json:"vertical_margin" bson:"vertical_margin"`
	HorizontalMargin float64 `json:"horizontal_margin" bson:"horizontal_margin"`
	MaxHeight        float64 `json:"max_height" bson:"max_height"`

	// Height is the total height of all groups stacked vertically.
	Height float64 `json:"height" bson:"height"`

	Groups []Group `json:"groups" bson:"groups"`
}

// Group is a run of structurally adjacent results justified together.
type Group struct {
	Rows []Row `json:"rows" bson:"rows"`
}

// Row is one justified row.
type Row struct {
	Y        float64     `json:"y" bson:"y"`
	Height   float64     `json:"height" bson:"height"`
	Fallback bool        `json:"fallback,omitempty" bson:"fallback,omitempty"`
	Items    []Placement `json:"items" bson:"items"`
}

// Placement is a positioned thumbnail. X and Y locate the image box (margins
// excluded) inside a canvas of width ContainerWidth.
type Placement struct {
	ID     string  `json:"id" bson:"id"`
	Src    string  `json:"src,omitempty" bson:"src,omitempty"`
	Known  bool    `json:"known" bson:"known"`
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
	Margin Margin  `json:"margin" bson:"margin"`
}

// Margin is the per-side spacing applied around a thumbnail.
type Margin struct {
	Left   float64 `json:"left" bson:"left"`
	Top    float64 `json:"top" bson:"top"`
	Right  float64 `json:"right" bson:"right"`
	Bottom float64 `json:"bottom" bson:"bottom"`
}

// RowCount returns the number of rows across all groups.
func (l Layout) RowCount() int {
	n := 0
	for _, g := range l.Groups {
		n += len(g.Rows)
	}
	return n
}

// ItemCount returns the number of placed thumbnails.
func (l Layout) ItemCount() int {
	n := 0
	for _, g := range l.Groups {
		for _, r := range g.Rows {
			n += len(r.Items)
		}
	}
	return n
}

// Placements returns every placement in listing order.
func (l Layout) Placements() []Placement {
	out := make([]Placement, 0, l.ItemCount())
	for _, g := range l.Groups {
		for _, r := range g.Rows {
			out = append(out, r.Items...)
		}
	}
	return out
}
