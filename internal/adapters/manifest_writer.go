package adapters

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"mavgen/internal/ports"
	"mavgen/internal/types"
)

// ManifestFileName is the well-known name of the generation manifest
// inside the output directory.
const ManifestFileName = "mavgen.manifest.yaml"

type ManifestWriterAdapter struct{}

func NewManifestWriterAdapter() ManifestWriterAdapter {
	return ManifestWriterAdapter{}
}

// WriteManifest fills in digests and timestamps and writes the manifest
// into the output directory. Artifact paths in the manifest are relative
// to that directory; their digests are computed from the files on disk.
func (a ManifestWriterAdapter) WriteManifest(outputDir string, manifest types.GenerationManifest) (string, error) {
	if strings.TrimSpace(outputDir) == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is required")
	}
	if strings.TrimSpace(manifest.CreatedAt) == "" {
		manifest.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	ordered := append([]types.ArtifactRecord(nil), manifest.Artifacts...)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Path < ordered[j].Path
	})
	for i, record := range ordered {
		content, err := os.ReadFile(filepath.Join(outputDir, record.Path))
		if err != nil {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to read artifact for digesting").
				WithCause(err)
		}
		digest := sha256.Sum256(content)
		ordered[i].SHA256 = hex.EncodeToString(digest[:])
	}
	manifest.Artifacts = ordered

	payload, err := yaml.Marshal(manifest)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to marshal generation manifest").
			WithCause(err)
	}
	path := filepath.Join(outputDir, ManifestFileName)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write generation manifest").
			WithCause(err)
	}
	return path, nil
}

var _ ports.ManifestWriterPort = ManifestWriterAdapter{}
