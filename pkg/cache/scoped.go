package cache

// ScopedKeyer wraps a Keyer with a prefix so that several tools or
// deployments can share one Redis instance without colliding.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "depviz:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer falls back to [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// IndexKey generates a prefixed key for index archives.
func (k *ScopedKeyer) IndexKey(url string) string {
	return k.prefix + k.inner.IndexKey(url)
}

// RenderKey generates a prefixed key for rendered diagrams.
func (k *ScopedKeyer) RenderKey(digest, format, backend string) string {
	return k.prefix + k.inner.RenderKey(digest, format, backend)
}
