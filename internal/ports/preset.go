package ports

import "mavgen/internal/types"

// GeneratePreset is a named generation configuration from the preset
// catalog, mirroring the dialect menu of the interactive front end.
type GeneratePreset struct {
	Dialects    []string
	Merge       bool
	Converter   bool
	SkipWIP     bool
	ArrayPolicy types.ArrayPolicy
}

// PresetSourcePort loads named generation presets from a catalog file.
type PresetSourcePort interface {
	LoadPreset(path string, name string) (GeneratePreset, error)
}
