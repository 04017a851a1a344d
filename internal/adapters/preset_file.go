package adapters

import (
	"fmt"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"mavgen/internal/ports"
	"mavgen/internal/types"
)

// PresetFileAdapter loads named generation presets from a YAML catalog.
// Presets replace the interactive dialect menu of the original front end:
// a preset names the dialects to compile plus the emission options.
type PresetFileAdapter struct{}

func NewPresetFileAdapter() PresetFileAdapter {
	return PresetFileAdapter{}
}

type presetCatalog struct {
	Presets map[string]presetEntry `yaml:"presets"`
}

type presetEntry struct {
	Dialects    []string `yaml:"dialects"`
	Merge       bool     `yaml:"merge"`
	Converter   bool     `yaml:"converter"`
	SkipWIP     bool     `yaml:"skip_wip"`
	ArrayPolicy string   `yaml:"array_policy"`
}

func (a PresetFileAdapter) LoadPreset(path string, name string) (ports.GeneratePreset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ports.GeneratePreset{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("preset catalog not found").
			WithCause(err)
	}
	var catalog presetCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return ports.GeneratePreset{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse preset catalog yaml").
			WithCause(err)
	}
	entry, ok := catalog.Presets[name]
	if !ok {
		return ports.GeneratePreset{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("preset not found in catalog: %s", name))
	}
	if len(entry.Dialects) == 0 {
		return ports.GeneratePreset{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("preset %s lists no dialects", name))
	}
	policy := types.ArrayPolicy(entry.ArrayPolicy)
	if entry.ArrayPolicy == "" {
		policy = types.ArrayPolicyRepeated
	}
	if !policy.Valid() {
		return ports.GeneratePreset{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("preset %s has invalid array_policy %q", name, entry.ArrayPolicy))
	}
	return ports.GeneratePreset{
		Dialects:    entry.Dialects,
		Merge:       entry.Merge,
		Converter:   entry.Converter,
		SkipWIP:     entry.SkipWIP,
		ArrayPolicy: policy,
	}, nil
}

var _ ports.PresetSourcePort = PresetFileAdapter{}
