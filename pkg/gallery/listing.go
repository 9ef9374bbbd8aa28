package gallery

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Result is one entry of a listing.
type Result struct {
	ID    string `json:"id" bson:"id"`
	Title string `json:"title,omitempty" bson:"title,omitempty"`
	Src   string `json:"src,omitempty" bson:"src,omitempty"`

	// Width and Height are the thumbnail's intrinsic size. Zero means the
	// thumbnail has not been measured.
	Width  float64 `json:"width,omitempty" bson:"width,omitempty"`
	Height float64 `json:"height,omitempty" bson:"height,omitempty"`

	// Break is set when the result does not directly follow the previous
	// result in the page structure.
	Break bool `json:"break,omitempty" bson:"break,omitempty"`

	// NoImage marks a result without a thumbnail element. Such results are
	// not laid out.
	NoImage bool `json:"no_image,omitempty" bson:"no_image,omitempty"`
}

// Measured reports whether both intrinsic dimensions are known.
func (r Result) Measured() bool { return r.Width > 0 && r.Height > 0 }

// Listing is an ordered sequence of results displayed in one container.
type Listing struct {
	ID string `json:"id,omitempty" bson:"_id,omitempty"`

	// ContainerWidth is the container's content width (padding excluded)
	// the listing was captured at. Callers may override it per request.
	ContainerWidth float64 `json:"container_width,omitempty" bson:"container_width,omitempty"`

	Results []Result `json:"results" bson:"results"`
}

// Validate checks that result IDs are present and unique.
func (l *Listing) Validate() error {
	seen := make(map[string]struct{}, len(l.Results))
	for i, r := range l.Results {
		if r.ID == "" {
			return fmt.Errorf("result %d: missing id", i)
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("result %d: duplicate id %q", i, r.ID)
		}
		if r.Width < 0 || r.Height < 0 {
			return fmt.Errorf("result %q: negative size", r.ID)
		}
		seen[r.ID] = struct{}{}
	}
	return nil
}

// Measured returns how many results have a known intrinsic size.
func (l *Listing) Measured() int {
	n := 0
	for _, r := range l.Results {
		if r.Measured() {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the listing.
func (l *Listing) Clone() *Listing {
	c := *l
	c.Results = append([]Result(nil), l.Results...)
	return &c
}

// Hash returns a content hash of the listing's layout-relevant fields.
// Titles and the listing ID do not contribute.
func (l *Listing) Hash() string {
	type entry struct {
		Src     string  `json:"s"`
		W       float64 `json:"w"`
		H       float64 `json:"h"`
		Break   bool    `json:"b"`
		NoImage bool    `json:"n"`
	}
	entries := make([]entry, len(l.Results))
	for i, r := range l.Results {
		entries[i] = entry{Src: r.Src, W: r.Width, H: r.Height, Break: r.Break, NoImage: r.NoImage}
	}
	data, _ := json.Marshal(entries)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
