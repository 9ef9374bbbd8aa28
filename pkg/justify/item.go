package justify

// Item is one thumbnail to be laid out. NaturalWidth and NaturalHeight are
// the intrinsic pixel dimensions of the loaded asset; a non-positive value
// in either field means the asset has not been measured yet.
type Item struct {
	NaturalWidth  float64
	NaturalHeight float64
}

// Known reports whether both intrinsic dimensions have been measured.
func (i Item) Known() bool {
	return i.NaturalWidth > 0 && i.NaturalHeight > 0
}

// AspectRatio returns width / height, or 1 for items that are not measured
// yet. Unmeasured items are laid out as squares until their asset loads.
func (i Item) AspectRatio() float64 {
	if !i.Known() {
		return 1
	}
	return i.NaturalWidth / i.NaturalHeight
}

// ItemWidth returns the rendered width of item at the given row height.
func ItemWidth(item Item, height float64) float64 {
	if !item.Known() {
		return height
	}
	return height * item.NaturalWidth / item.NaturalHeight
}
