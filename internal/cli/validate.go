package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/typings-tools/publish-registry/internal/branding"
	"github.com/typings-tools/publish-registry/internal/registry"
	"github.com/typings-tools/publish-registry/internal/tags"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Validate a generated package directory",
	Long: `Checks package.json and index.json in a generated package directory against
their schemas, and the index's dist-tags against the tag catalog. Defaults to
<output_dir>/` + branding.PackageName() + `.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var dir string
		if len(args) == 1 {
			dir = args[0]
		} else {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			dir = filepath.Join(cfg.OutputDir, branding.PackageName())
		}

		catalog, err := tags.Default()
		if err != nil {
			return fmt.Errorf("loading tag catalog: %w", err)
		}
		if err := registry.ValidateDir(dir, catalog); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", dir)
		return nil
	},
}
