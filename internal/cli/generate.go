package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mavgen/internal/app"
)

type generateOptions struct {
	Dialects    []string
	XMLDir      string
	OutputDir   string
	Merge       bool
	Converter   bool
	SkipWIP     bool
	ArrayPolicy string
	Preset      string
	PresetsFile string
	Manifest    bool
}

func newGenerateCommand() *cobra.Command {
	opts := generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Compile dialect schemas into proto, bridge, and converter artifacts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Dialects, "dialect", nil, "Dialect name(s) to compile")
	cmd.Flags().StringVar(&opts.XMLDir, "xml-dir", "", "Directory with dialect XML definitions")
	cmd.Flags().StringVar(&opts.OutputDir, "output", "proto", "Output directory")
	cmd.Flags().BoolVar(&opts.Merge, "merge", false, "Flatten each dialect with its includes")
	cmd.Flags().BoolVar(&opts.Converter, "converter", false, "Emit the C++ message converter pair")
	cmd.Flags().BoolVar(&opts.SkipWIP, "skip-wip", false, "Exclude work-in-progress messages")
	cmd.Flags().StringVar(&opts.ArrayPolicy, "array-policy", "", "Numeric array mapping (repeated or bytes)")
	cmd.Flags().StringVar(&opts.Preset, "preset", "", "Named preset from the preset catalog")
	cmd.Flags().StringVar(&opts.PresetsFile, "presets-file", "mavgen.presets.yaml", "Preset catalog path")
	cmd.Flags().BoolVar(&opts.Manifest, "manifest", false, "Write a generation manifest next to the artifacts")

	_ = viper.BindPFlag("dialects", cmd.Flags().Lookup("dialect"))
	_ = viper.BindPFlag("xml_dir", cmd.Flags().Lookup("xml-dir"))
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("merge", cmd.Flags().Lookup("merge"))
	_ = viper.BindPFlag("converter", cmd.Flags().Lookup("converter"))
	_ = viper.BindPFlag("skip_wip", cmd.Flags().Lookup("skip-wip"))
	_ = viper.BindPFlag("array_policy", cmd.Flags().Lookup("array-policy"))
	_ = viper.BindPFlag("preset", cmd.Flags().Lookup("preset"))
	_ = viper.BindPFlag("presets_file", cmd.Flags().Lookup("presets-file"))
	_ = viper.BindPFlag("manifest", cmd.Flags().Lookup("manifest"))

	return cmd
}

func runGenerate(ctx context.Context, cmd *cobra.Command, opts generateOptions) error {
	service := newAppService()
	result, err := service.Generate(ctx, app.GenerateRequest{
		Dialects:    resolveStrings(cmd, opts.Dialects, "dialects", "dialect"),
		XMLDir:      resolveString(cmd, opts.XMLDir, "xml_dir", "xml-dir"),
		OutputDir:   resolveString(cmd, opts.OutputDir, "output", "output"),
		Merge:       resolveBool(cmd, opts.Merge, "merge", "merge"),
		Converter:   resolveBool(cmd, opts.Converter, "converter", "converter"),
		SkipWIP:     resolveBool(cmd, opts.SkipWIP, "skip_wip", "skip-wip"),
		ArrayPolicy: resolveString(cmd, opts.ArrayPolicy, "array_policy", "array-policy"),
		Preset:      resolveString(cmd, opts.Preset, "preset", "preset"),
		PresetsFile: resolveString(cmd, opts.PresetsFile, "presets_file", "presets-file"),
		Manifest:    resolveBool(cmd, opts.Manifest, "manifest", "manifest"),
		ToolVersion: version,
	})
	if err != nil {
		return err
	}
	fmt.Printf("generated %d artifact(s): %d enums, %d messages\n",
		len(result.Artifacts), result.EnumCount, result.MessageCount)
	if len(result.RenderErrors) > 0 {
		fmt.Printf("skipped due to rendering errors: %v\n", result.RenderErrors)
	}
	return nil
}
