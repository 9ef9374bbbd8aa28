package cache

import "fmt"

// Keyer generates cache keys.
type Keyer interface {
	// AssetKey is the key of a probed thumbnail size.
	AssetKey(src string) string

	// LayoutKey is the key of a computed layout.
	LayoutKey(listingHash string, opts LayoutKeyOpts) string

	// ArtifactKey is the key of a rendered layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the layout parameters that change the result.
type LayoutKeyOpts struct {
	ContainerWidth   float64 `json:"w"`
	VerticalMargin   float64 `json:"vm"`
	HorizontalMargin float64 `json:"hm"`
	MaxHeight        float64 `json:"mh"`
}

// ArtifactKeyOpts are the render parameters that change the output.
type ArtifactKeyOpts struct {
	Format string  `json:"f"`
	Labels bool    `json:"l,omitempty"`
	Scale  float64 `json:"s,omitempty"`
}

// DefaultKeyer produces keys of the form "kind:sha256".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// AssetKey implements Keyer. Sources are hashed so data URIs do not produce
// oversized keys.
func (DefaultKeyer) AssetKey(src string) string {
	return fmt.Sprintf("asset:%s", Hash([]byte(src)))
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(listingHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", listingHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
