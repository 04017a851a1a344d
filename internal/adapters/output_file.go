package adapters

import (
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"mavgen/internal/ports"
)

// OutputFileAdapter writes rendered artifacts under a single output
// directory. Any failure here is fatal for the whole run.
type OutputFileAdapter struct {
	Dir string
}

func NewOutputFileAdapter(dir string) OutputFileAdapter {
	return OutputFileAdapter{Dir: dir}
}

func (a OutputFileAdapter) WriteArtifact(relPath string, content string) (string, error) {
	if a.Dir == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is required")
	}
	path := filepath.Join(a.Dir, relPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create output directory").
			WithCause(err)
	}
	file, err := os.Create(path)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create artifact file").
			WithCause(err)
	}
	defer file.Close()
	if _, err := file.WriteString(content); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write artifact file").
			WithCause(err)
	}
	return path, nil
}

var _ ports.ArtifactWriterPort = OutputFileAdapter{}
