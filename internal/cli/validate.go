package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mavgen/internal/app"
)

type validateOptions struct {
	Dialects []string
	XMLDir   string
}

func newValidateCommand() *cobra.Command {
	opts := validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Parse and structurally validate dialect schemas",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringSliceVar(&opts.Dialects, "dialect", nil, "Dialect name(s) to validate")
	cmd.Flags().StringVar(&opts.XMLDir, "xml-dir", "", "Directory with dialect XML definitions")
	_ = viper.BindPFlag("dialects", cmd.Flags().Lookup("dialect"))
	_ = viper.BindPFlag("xml_dir", cmd.Flags().Lookup("xml-dir"))
	return cmd
}

func runValidate(ctx context.Context, cmd *cobra.Command, opts validateOptions) error {
	service := newAppService()
	result, err := service.Validate(ctx, app.ValidateRequest{
		Dialects: resolveStrings(cmd, opts.Dialects, "dialects", "dialect"),
		XMLDir:   resolveString(cmd, opts.XMLDir, "xml_dir", "xml-dir"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("validated: %s\n", strings.Join(result.Dialects, ", "))
	return nil
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetString(key)
}

func resolveStrings(cmd *cobra.Command, values []string, key string, flagName string) []string {
	if cmd == nil {
		if len(values) > 0 {
			return values
		}
		return viper.GetStringSlice(key)
	}
	if flagChanged(cmd, flagName) {
		return values
	}
	return viper.GetStringSlice(key)
}

func resolveBool(cmd *cobra.Command, value bool, key string, flagName string) bool {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetBool(key)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}
