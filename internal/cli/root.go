package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/typings-tools/publish-registry/internal/branding"
	"github.com/typings-tools/publish-registry/internal/config"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	configPath string
	dryRun     bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (default ./publish-registry.yaml)")
	rootCmd.Flags().BoolVar(&dryRun, "dry", false, "Generate the package but only simulate publishing it")
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + `

Regenerates the ` + branding.PackageName() + ` package, an index of the dist-tags every
@types package carries in the npm registry, and publishes it when new typings
packages were added since the last run. The publish token is read from
` + branding.EnvVar("npm_token") + ` or npm_token in the config file.

  ` + branding.CLIName() + `          # generate and publish
  ` + branding.CLIName() + ` --dry    # generate, simulate the publish`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runPublish(cmd.Context(), cfg, dryRun, cmd.ErrOrStderr())
	},
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
