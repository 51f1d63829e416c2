package cache

// Key type names reported to observability hooks.
const (
	KeyTypeResult   = "result"
	KeyTypeArtifact = "artifact"
)

// Keyer builds cache keys.
type Keyer interface {
	// ResultKey addresses the outcome of one connection run.
	ResultKey(inputHash string, opts ResultKeyOpts) string

	// ArtifactKey addresses a rendering of a run result.
	ArtifactKey(resultHash string, opts ArtifactKeyOpts) string
}

// ResultKeyOpts are the run options that change a result.
type ResultKeyOpts struct {
	Policy string `json:"policy"`
	Budget int    `json:"budget,omitempty"`
}

// ArtifactKeyOpts are the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed,omitempty"`
}

// DefaultKeyer hashes key material into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ResultKey implements Keyer.
func (DefaultKeyer) ResultKey(inputHash string, opts ResultKeyOpts) string {
	return hashKey(KeyTypeResult, inputHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return hashKey(KeyTypeArtifact, resultHash, opts)
}

var _ Keyer = DefaultKeyer{}
