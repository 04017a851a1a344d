package types

// ArtifactRecord identifies one emitted file by its path relative to the
// output directory and a digest of its content.
type ArtifactRecord struct {
	Path   string `yaml:"path"`
	SHA256 string `yaml:"sha256"`
}

// GenerationManifest summarizes one compiler run. It is written next to
// the artifacts so downstream builds can detect drift without re-running
// the compiler.
type GenerationManifest struct {
	Tool        string           `yaml:"tool"`
	Version     string           `yaml:"version,omitempty"`
	CreatedAt   string           `yaml:"created_at"`
	Dialects    []string         `yaml:"dialects"`
	Merge       bool             `yaml:"merge"`
	ArrayPolicy ArrayPolicy      `yaml:"array_policy"`
	Enums       int              `yaml:"enums"`
	Messages    int              `yaml:"messages"`
	Artifacts   []ArtifactRecord `yaml:"artifacts"`
}
