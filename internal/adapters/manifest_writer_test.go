package adapters

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"mavgen/internal/types"
)

func TestWriteManifest(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.proto"), []byte("bbb"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.proto"), []byte("aaa"), 0644))

	writer := NewManifestWriterAdapter()
	path, err := writer.WriteManifest(dir, types.GenerationManifest{
		Tool:        "mavgen",
		Version:     "dev",
		Dialects:    []string{"minimal"},
		ArrayPolicy: types.ArrayPolicyRepeated,
		Enums:       4,
		Messages:    1,
		Artifacts: []types.ArtifactRecord{
			{Path: "b.proto"},
			{Path: "a.proto"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ManifestFileName), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	var manifest types.GenerationManifest
	require.NoError(t, yaml.Unmarshal(content, &manifest))

	assert.Equal(t, "mavgen", manifest.Tool)
	assert.NotEmpty(t, manifest.CreatedAt)
	require.Len(t, manifest.Artifacts, 2)
	// Records come out sorted by path with digests filled in.
	assert.Equal(t, "a.proto", manifest.Artifacts[0].Path)
	wantDigest := sha256.Sum256([]byte("aaa"))
	assert.Equal(t, hex.EncodeToString(wantDigest[:]), manifest.Artifacts[0].SHA256)
	assert.Equal(t, "b.proto", manifest.Artifacts[1].Path)
}

func TestWriteManifestMissingArtifact(t *testing.T) {
	writer := NewManifestWriterAdapter()
	_, err := writer.WriteManifest(t.TempDir(), types.GenerationManifest{
		Artifacts: []types.ArtifactRecord{{Path: "gone.proto"}},
	})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInternal, errbuilder.CodeOf(err))
}

func TestWriteManifestRequiresDir(t *testing.T) {
	writer := NewManifestWriterAdapter()
	_, err := writer.WriteManifest("  ", types.GenerationManifest{})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
