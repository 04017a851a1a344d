package ports

// ArtifactWriterPort persists rendered artifacts. Paths are relative to
// the writer's output directory; parent directories are created as
// needed. Any write failure is fatal for the whole run.
type ArtifactWriterPort interface {
	WriteArtifact(relPath string, content string) (string, error)
}
