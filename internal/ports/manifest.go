package ports

import "mavgen/internal/types"

// ManifestWriterPort persists the generation manifest describing one
// compiler run. Artifact digests are computed from the files on disk, so
// the manifest is written after every artifact.
type ManifestWriterPort interface {
	WriteManifest(outputDir string, manifest types.GenerationManifest) (string, error)
}
