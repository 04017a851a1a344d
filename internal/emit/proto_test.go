package emit

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mavgen/internal/core"
	"mavgen/internal/types"
)

// indexParser serves pre-built dialects so tests can build an enum
// ownership index without touching XML.
type indexParser struct {
	dialects map[string]*types.Dialect
}

func (p indexParser) Parse(fileName string) (*types.Dialect, error) {
	dialect, ok := p.dialects[fileName]
	if !ok {
		return nil, assert.AnError
	}
	return dialect, nil
}

func (p indexParser) Cached(dialectName string) (*types.Dialect, bool) {
	dialect, ok := p.dialects[dialectName+".xml"]
	return dialect, ok
}

func buildIndex(t *testing.T, dialects ...*types.Dialect) core.EnumIndex {
	t.Helper()
	files := map[string]*types.Dialect{}
	names := make([]string, 0, len(dialects))
	for _, dialect := range dialects {
		files[dialect.Name+".xml"] = dialect
		names = append(names, dialect.Name)
	}
	resolver := core.NewIncludeResolver(indexParser{dialects: files})
	index, err := resolver.BuildEnumIndex(names)
	require.NoError(t, err)
	return index
}

func strPtr(s string) *string { return &s }

func minimalDialect() *types.Dialect {
	mavType := types.Enum{
		Name:        "MAV_TYPE",
		Description: strPtr("Type of the vehicle."),
		Entries: []types.EnumEntry{
			{Value: 0, Name: "MAV_TYPE_GENERIC"},
			{Value: 1, Name: "MAV_TYPE_FIXED_WING"},
		},
	}
	heartbeat := types.Message{
		ID:          0,
		Name:        "HEARTBEAT",
		Description: strPtr("The heartbeat message."),
		Fields: []types.MessageField{
			{Type: "uint8_t", Name: "type", Enum: strPtr("MAV_TYPE"), Description: strPtr("Vehicle type")},
			{Type: "uint32_t", Name: "custom_mode"},
		},
	}
	return &types.Dialect{
		Name:         "minimal",
		FilePath:     "minimal.xml",
		Enums:        map[string]types.Enum{"MAV_TYPE": mavType},
		EnumOrder:    []string{"MAV_TYPE"},
		Messages:     map[int]types.Message{0: heartbeat},
		MessageOrder: []int{0},
	}
}

func TestRenderDialectProto(t *testing.T) {
	dialect := minimalDialect()
	ctx := &Context{
		Dialect:  dialect,
		Dialects: map[string]*types.Dialect{"minimal": dialect},
		Index:    buildIndex(t, dialect),
		Policy:   types.ArrayPolicyRepeated,
	}

	got, err := RenderDialectProto(ctx)
	require.NoError(t, err)

	want := `// Generated by mavgen from minimal.xml. Do not edit.

syntax = "proto3";

package mavlink.minimal;

// Type of the vehicle.
enum MavType {
  MAV_TYPE_GENERIC = 0;
  MAV_TYPE_FIXED_WING = 1;
}

// The heartbeat message.
message Heartbeat {
  // Vehicle type
  MavType type = 1;
  uint32 custom_mode = 2;
}
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rendered proto mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderDialectProtoImports(t *testing.T) {
	dialect := minimalDialect()
	dialect.Name = "common"
	ctx := &Context{
		Dialect:  dialect,
		Dialects: map[string]*types.Dialect{"common": dialect},
		Imports:  []string{"standard", "minimal"},
		Index:    buildIndex(t, dialect),
		Policy:   types.ArrayPolicyRepeated,
	}

	got, err := RenderDialectProto(ctx)
	require.NoError(t, err)
	assert.Contains(t, got, "package mavlink.common;\nimport \"mavlink/standard.proto\";\nimport \"mavlink/minimal.proto\";\n")
}

func TestRenderDialectProtoForeignEnumQualified(t *testing.T) {
	minimal := minimalDialect()
	dev := &types.Dialect{
		Name: "dev",
		Messages: map[int]types.Message{
			9000: {
				ID:   9000,
				Name: "VEHICLE_INFO",
				Fields: []types.MessageField{
					{Type: "uint8_t", Name: "type", Enum: strPtr("MAV_TYPE")},
				},
			},
		},
		MessageOrder: []int{9000},
	}
	ctx := &Context{
		Dialect:  dev,
		Dialects: map[string]*types.Dialect{"minimal": minimal, "dev": dev},
		Index:    buildIndex(t, minimal, dev),
		Policy:   types.ArrayPolicyRepeated,
	}

	got, err := RenderDialectProto(ctx)
	require.NoError(t, err)
	assert.Contains(t, got, "  minimal.MavType type = 1;\n")
}

func TestRenderDialectProtoLocalEnumWins(t *testing.T) {
	// Two flattened dialects both carry MAV_TYPE; the index can only
	// name one owner, but a local declaration must stay unqualified.
	minimal := minimalDialect()
	merged := minimalDialect()
	merged.Name = "common"
	ctx := &Context{
		Dialect:  merged,
		Dialects: map[string]*types.Dialect{"minimal": minimal, "common": merged},
		Index:    buildIndex(t, minimal, merged),
		Policy:   types.ArrayPolicyRepeated,
	}

	got, err := RenderDialectProto(ctx)
	require.NoError(t, err)
	assert.Contains(t, got, "  MavType type = 1;\n")
	assert.NotContains(t, got, "minimal.MavType")
}

func TestEnumBlockSynthesizesZeroEntry(t *testing.T) {
	ctx := &Context{Policy: types.ArrayPolicyRepeated}
	enum := types.Enum{
		Name: "MAV_MODE_FLAG",
		Entries: []types.EnumEntry{
			{Value: 1, Name: "MAV_MODE_FLAG_CUSTOM_MODE_ENABLED"},
			{Value: 128, Name: "MAV_MODE_FLAG_SAFETY_ARMED"},
		},
		IsBitmask: true,
	}

	got := ctx.enumBlock(enum)
	want := `// Bitmask: entries combine bitwise.
enum MavModeFlag {
  MAV_MODE_FLAG_UNSPECIFIED = 0;
  MAV_MODE_FLAG_CUSTOM_MODE_ENABLED = 1;
  MAV_MODE_FLAG_SAFETY_ARMED = 128;
}`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("enum block mismatch (-want +got):\n%s", diff)
	}
}

func TestEnumBlockZeroEntryNotFirst(t *testing.T) {
	// proto3 wants the zero value first; a late zero entry still needs
	// the synthesized first entry, which in turn needs allow_alias.
	ctx := &Context{Policy: types.ArrayPolicyRepeated}
	enum := types.Enum{
		Name: "MAV_STATE",
		Entries: []types.EnumEntry{
			{Value: 5, Name: "MAV_STATE_CRITICAL"},
			{Value: 0, Name: "MAV_STATE_UNINIT"},
		},
	}

	got := ctx.enumBlock(enum)
	want := `enum MavState {
  option allow_alias = true;
  MAV_STATE_UNSPECIFIED = 0;
  MAV_STATE_CRITICAL = 5;
  MAV_STATE_UNINIT = 0;
}`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("enum block mismatch (-want +got):\n%s", diff)
	}
}

func TestEnumBlockAllowsAliases(t *testing.T) {
	ctx := &Context{Policy: types.ArrayPolicyRepeated}
	enum := types.Enum{
		Name: "MAV_RESULT",
		Entries: []types.EnumEntry{
			{Value: 0, Name: "MAV_RESULT_ACCEPTED"},
			{Value: 0, Name: "MAV_RESULT_OK"},
		},
	}

	got := ctx.enumBlock(enum)
	assert.Contains(t, got, "  option allow_alias = true;\n")
	assert.NotContains(t, got, "UNSPECIFIED")
}

func TestMessageBlockAnnotations(t *testing.T) {
	ctx := &Context{Policy: types.ArrayPolicyRepeated}
	msg := types.Message{
		ID:         300,
		Name:       "PROTOCOL_VERSION",
		Deprecated: &types.Deprecation{Since: "2019-08", ReplacedBy: "MAV_CMD_REQUEST_MESSAGE"},
		WIP:        true,
		Fields: []types.MessageField{
			{Type: "uint16_t", Name: "version", Units: strPtr("rad"), Invalid: strPtr("0")},
			{Type: "char[16]", Name: "library"},
		},
	}

	got := ctx.messageBlock(msg)
	want := `// Work in progress: the definition may change.
// Deprecated since 2019-08; replaced by MAV_CMD_REQUEST_MESSAGE.
message ProtocolVersion {
  // [rad] Invalid: 0.
  uint32 version = 1;
  string library = 2;
}`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("message block mismatch (-want +got):\n%s", diff)
	}
}

func TestContextMessagesSkipWIP(t *testing.T) {
	dialect := minimalDialect()
	wip := types.Message{ID: 410, Name: "DRAFT", WIP: true}
	dialect.Messages[410] = wip
	dialect.MessageOrder = append(dialect.MessageOrder, 410)

	ctx := &Context{Dialect: dialect}
	assert.Len(t, ctx.Messages(), 2)

	ctx.SkipWIP = true
	kept := ctx.Messages()
	require.Len(t, kept, 1)
	assert.Equal(t, "HEARTBEAT", kept[0].Name)
}
