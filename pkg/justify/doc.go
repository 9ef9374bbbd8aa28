// Package justify packs a sequence of thumbnails into justified rows.
//
// A justified row is a horizontal strip of items sharing one height, whose
// rendered width (items plus per-item spacing) equals the container width.
// For a prefix of k items the shared height follows directly from
//
//	containerWidth = k*margin + height * (r1 + r2 + ... + rk)
//
// where ri is the aspect ratio (width / height) of item i. Items whose
// intrinsic size is not known yet are treated as squares (ratio 1).
//
// # Packing
//
// [Justifier.Justify] walks the items left to right. For the remaining items
// it tries prefixes of length 1, 2, 3, ... and accepts the first prefix whose
// height is strictly below [Justifier.MaxHeight]. That prefix becomes a row
// and the search restarts on the rest. When no prefix of the remainder gets
// under the cap, the whole remainder is emitted as one fallback row whose
// height is clamped to MaxHeight.
//
// The search never backtracks across rows and always prefers the narrowest
// row that fits, so the output is deterministic and O(n²) in the worst case.
//
// # Example
//
//	j := justify.Justifier{Margin: 14, MaxHeight: 200}
//	rows := j.Justify([]justify.Item{
//	    {NaturalWidth: 400, NaturalHeight: 200},
//	    {NaturalWidth: 300, NaturalHeight: 300},
//	    {NaturalWidth: 100, NaturalHeight: 200},
//	}, 600)
//	// rows[0]: items 0-1 at height ~190.7
//	// rows[1]: item 2, fallback row clamped to 200
package justify
