package cli

import (
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------- Command tree tests ----------

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCommand()
	names := make([]string, 0, len(root.Commands()))
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	expected := []string{"generate", "inspect", "validate"}
	for _, name := range expected {
		assert.Contains(t, names, name, "missing subcommand: %s", name)
	}
}

func TestRootCommandVersion(t *testing.T) {
	root := newRootCommand()
	assert.Equal(t, "dev", root.Version)
}

func TestRootCommandAttachesLoggerToContext(t *testing.T) {
	root := newRootCommand()
	root.SetContext(t.Context())
	require.NoError(t, root.PersistentPreRunE(root, nil))

	// Without a logger in the context, zerolog.Ctx returns its disabled
	// logger and every app-layer event would be dropped.
	logger := zerolog.Ctx(root.Context())
	assert.NotEqual(t, zerolog.Disabled, logger.GetLevel())
}

func TestGenerateCommandFlags(t *testing.T) {
	cmd := newGenerateCommand()
	flags := []string{
		"dialect", "xml-dir", "output", "merge",
		"converter", "skip-wip", "array-policy",
		"preset", "presets-file", "manifest",
	}
	for _, name := range flags {
		flag := cmd.Flags().Lookup(name)
		assert.NotNil(t, flag, "missing flag: %s", name)
	}
	assert.Equal(t, "proto", cmd.Flags().Lookup("output").DefValue)
	assert.Equal(t, "mavgen.presets.yaml", cmd.Flags().Lookup("presets-file").DefValue)
}

func TestInspectCommandFlags(t *testing.T) {
	cmd := newInspectCommand()
	assert.NotNil(t, cmd.Flags().Lookup("dialect"))
	assert.NotNil(t, cmd.Flags().Lookup("xml-dir"))
}

func TestValidateCommandFlags(t *testing.T) {
	cmd := newValidateCommand()
	assert.NotNil(t, cmd.Flags().Lookup("dialect"))
	assert.NotNil(t, cmd.Flags().Lookup("xml-dir"))
}

// ---------- Helper function tests ----------

func TestResolveString(t *testing.T) {
	tests := []struct {
		name     string
		cmd      *cobra.Command
		value    string
		expected string
	}{
		{
			name:     "nil cmd with value returns value",
			cmd:      nil,
			value:    "explicit",
			expected: "explicit",
		},
		{
			name:     "nil cmd empty value returns empty",
			cmd:      nil,
			value:    "",
			expected: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveString(tt.cmd, tt.value, "test_key", "test-flag")
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolveStrings(t *testing.T) {
	tests := []struct {
		name     string
		cmd      *cobra.Command
		values   []string
		expected []string
	}{
		{
			name:     "nil cmd with values returns values",
			cmd:      nil,
			values:   []string{"a", "b"},
			expected: []string{"a", "b"},
		},
		{
			name:     "nil cmd empty returns nil",
			cmd:      nil,
			values:   nil,
			expected: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveStrings(tt.cmd, tt.values, "test_key", "test-flag")
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolveBool(t *testing.T) {
	got := resolveBool(nil, true, "test_key", "test-flag")
	assert.True(t, got)

	got = resolveBool(nil, false, "test_key", "test-flag")
	assert.False(t, got)
}

func TestFlagChanged(t *testing.T) {
	assert.False(t, flagChanged(nil, "anything"), "nil cmd should return false")
	assert.False(t, flagChanged(nil, ""), "nil cmd with empty name")

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("myflag", "", "test flag")
	assert.False(t, flagChanged(cmd, "myflag"), "unchanged flag")
	assert.False(t, flagChanged(cmd, "nonexistent"), "nonexistent flag")
}

func TestFlagChangedAfterSet(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("myflag", "", "test flag")
	require.NoError(t, cmd.Flags().Set("myflag", "val"))
	assert.True(t, flagChanged(cmd, "myflag"))
}

// ---------- Exit code tests ----------

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name: "invalid argument",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("malformed dialect schema"),
			expected: 2,
		},
		{
			name: "not found",
			err: errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("dialect schema not found"),
			expected: 5,
		},
		{
			name: "unknown preset name",
			err: errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("preset not found in catalog: nope"),
			expected: 2,
		},
		{
			name: "internal",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to write artifact file"),
			expected: 5,
		},
		{
			name:     "plain error",
			err:      assert.AnError,
			expected: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, exitCodeForError(tt.err))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg("dialect schema not found: nope.xml")
	assert.Equal(t, "dialect schema not found: nope.xml", errorMessage(err))

	assert.Equal(t, assert.AnError.Error(), errorMessage(assert.AnError))
}
