package layout

import "github.com/matzehuels/imagerows/pkg/justify"

// Entry is a result that has a thumbnail.
type Entry struct {
	// Index is the result's position in document order, counting results
	// without a thumbnail.
	Index  int
	Result Result
	Image  Image
}

// Group is a maximal run of structurally adjacent results.
type Group struct {
	Entries []Entry
}

// Items returns the justifier input for the group, reading each
// thumbnail's current natural size.
func (g Group) Items() []justify.Item {
	items := make([]justify.Item, len(g.Entries))
	for i, e := range g.Entries {
		w, h := e.Image.NaturalSize()
		items[i] = justify.Item{NaturalWidth: w, NaturalHeight: h}
	}
	return items
}

// Partition splits results into groups. A group ends when a result does not
// directly follow the previous result. Results without a thumbnail are left
// out of every group but still take part in the adjacency chain. The second
// return value counts them.
func Partition(results []Result, imageSelector string) ([]Group, int) {
	var (
		groups  []Group
		cur     Group
		prev    Result
		skipped int
	)
	for i, r := range results {
		if len(cur.Entries) > 0 && !r.Follows(prev) {
			groups = append(groups, cur)
			cur = Group{}
		}
		prev = r

		img, ok := r.Image(imageSelector)
		if !ok {
			skipped++
			continue
		}
		cur.Entries = append(cur.Entries, Entry{Index: i, Result: r, Image: img})
	}
	if len(cur.Entries) > 0 {
		groups = append(groups, cur)
	}
	return groups, skipped
}
