package cache

// Keyer builds cache keys for morphology operations.
type Keyer interface {
	// ShrinkKey addresses the cut-and-graft output of one input at one height.
	ShrinkKey(inputHash string, opts ShrinkKeyOpts) string
	// CloneKey addresses one jittered clone.
	CloneKey(inputHash string, opts CloneKeyOpts) string
}

// ShrinkKeyOpts are the parameters that change a cut-and-graft output.
type ShrinkKeyOpts struct {
	AnnotationHash string  `json:"annotation"`
	Height         float64 `json:"height"`
	Format         string  `json:"format"`
}

// CloneKeyOpts are the parameters that change a clone. Params holds the jitter
// parameters and must marshal to JSON deterministically.
type CloneKeyOpts struct {
	Seed   uint64 `json:"seed"`
	Index  int    `json:"index"`
	Format string `json:"format"`
	Params any    `json:"params"`
}

// DefaultKeyer hashes the options into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ShrinkKey returns "shrink:<hash>".
func (DefaultKeyer) ShrinkKey(inputHash string, opts ShrinkKeyOpts) string {
	return hashKey("shrink", inputHash, opts)
}

// CloneKey returns "clone:<hash>".
func (DefaultKeyer) CloneKey(inputHash string, opts CloneKeyOpts) string {
	return hashKey("clone", inputHash, opts)
}
