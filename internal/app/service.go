package app

import (
	"mavgen/internal/adapters"
	"mavgen/internal/ports"
)

// Service wires the compiler pipeline: dialect parsing, include
// resolution, artifact rendering, and output writing. The factory fields
// exist so tests can substitute fakes for the filesystem-backed adapters.
type Service struct {
	NewParser func(xmlDir string) ports.DialectParserPort
	NewWriter func(outputDir string) ports.ArtifactWriterPort
	Presets   ports.PresetSourcePort
	Manifest  ports.ManifestWriterPort
}

func NewService() Service {
	return Service{
		NewParser: func(xmlDir string) ports.DialectParserPort {
			return adapters.NewDialectXMLAdapter(xmlDir)
		},
		NewWriter: func(outputDir string) ports.ArtifactWriterPort {
			return adapters.NewOutputFileAdapter(outputDir)
		},
		Presets:  adapters.NewPresetFileAdapter(),
		Manifest: adapters.NewManifestWriterAdapter(),
	}
}
