package cache

// ScopedKeyer wraps a Keyer with a prefix. The server uses it to keep
// listings of different stores apart when they share one redis database.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "imagerows:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// AssetKey generates a prefixed key for a thumbnail size.
func (k *ScopedKeyer) AssetKey(src string) string {
	return k.prefix + k.inner.AssetKey(src)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(listingHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(listingHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
