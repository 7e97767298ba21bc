package cache

// ScopedKeyer prefixes every key of an inner Keyer. The HTTP server scopes
// keys per API version so a format change never reads old entries:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v1:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means the
// default keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ShrinkKey returns the prefixed shrink key.
func (k *ScopedKeyer) ShrinkKey(inputHash string, opts ShrinkKeyOpts) string {
	return k.prefix + k.inner.ShrinkKey(inputHash, opts)
}

// CloneKey returns the prefixed clone key.
func (k *ScopedKeyer) CloneKey(inputHash string, opts CloneKeyOpts) string {
	return k.prefix + k.inner.CloneKey(inputHash, opts)
}
