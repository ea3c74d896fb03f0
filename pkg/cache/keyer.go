package cache

// Keyer builds cache keys for the lookups legalscan caches.
type Keyer interface {
	// HTTPKey identifies a raw HTTP response body.
	HTTPKey(namespace, key string) string
	// SearchKey identifies a package-index search.
	SearchKey(name, version, classifier string) string
	// TextKey identifies a fetched license text.
	TextKey(url string) string
}

// DefaultKeyer is the unscoped key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the unscoped key scheme.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

func (DefaultKeyer) SearchKey(name, version, classifier string) string {
	return hashKey("search", name, version, classifier)
}

func (DefaultKeyer) TextKey(url string) string {
	return hashKey("text", url)
}

// ScopedKeyer prefixes every key, so caches shared between scanners that
// talk to different indexes or mirrors never mix answers.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner (the default scheme when nil) with prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

func (k *ScopedKeyer) SearchKey(name, version, classifier string) string {
	return k.prefix + k.inner.SearchKey(name, version, classifier)
}

func (k *ScopedKeyer) TextKey(url string) string {
	return k.prefix + k.inner.TextKey(url)
}
