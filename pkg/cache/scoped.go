package cache

// ScopedKeyer wraps a Keyer with a prefix.
//
// The CLI scopes keys by tool version so that results produced by an older
// parser are never served after an upgrade:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v1.4.0:")
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

// ParseKey generates a prefixed parse result key.
func (k *ScopedKeyer) ParseKey(parser string, content []byte) string {
	return k.prefix + k.inner.ParseKey(parser, content)
}
