package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mavgen/internal/app"
)

type inspectOptions struct {
	Dialect string
	XMLDir  string
}

func newInspectCommand() *cobra.Command {
	opts := inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show a dialect's symbol counts and include closure",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Dialect, "dialect", "", "Dialect name")
	cmd.Flags().StringVar(&opts.XMLDir, "xml-dir", "", "Directory with dialect XML definitions")
	_ = viper.BindPFlag("dialect", cmd.Flags().Lookup("dialect"))
	_ = viper.BindPFlag("xml_dir", cmd.Flags().Lookup("xml-dir"))
	return cmd
}

func runInspect(ctx context.Context, cmd *cobra.Command, opts inspectOptions) error {
	service := newAppService()
	result, err := service.Inspect(ctx, app.InspectRequest{
		Dialect: resolveString(cmd, opts.Dialect, "dialect", "dialect"),
		XMLDir:  resolveString(cmd, opts.XMLDir, "xml_dir", "xml-dir"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("dialect: %s\n", result.Dialect)
	if result.Version != nil {
		fmt.Printf("version: %d\n", *result.Version)
	}
	if result.DialectNumber != nil {
		fmt.Printf("dialect number: %d\n", *result.DialectNumber)
	}
	if len(result.IncludeClosure) > 0 {
		fmt.Printf("includes (transitive): %s\n", strings.Join(result.IncludeClosure, ", "))
	}
	fmt.Printf("enums: %d (merged: %d)\n", result.EnumCount, result.MergedEnumCount)
	fmt.Printf("messages: %d (merged: %d)\n", result.MessageCount, result.MergedMessageCount)
	return nil
}
