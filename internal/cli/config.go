package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/typings-tools/publish-registry/internal/config"
)

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show resolved settings",
	Long: `Show settings resolved from defaults, publish-registry.yaml and
TYPES_PUBLISHER_* environment variables.`,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		if !slices.Contains(config.Keys, key) {
			return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(config.Keys, ", "))
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), displayValue(key, cfg.Get(key)))
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if f := cfg.ConfigFile(); f != "" {
			fmt.Fprintf(out, "# %s\n", f)
		}
		for _, key := range config.Keys {
			fmt.Fprintf(out, "%s = %s\n", key, displayValue(key, cfg.Get(key)))
		}
		return nil
	},
}

// displayValue masks secrets.
func displayValue(key, value string) string {
	if key == "npm_token" && value != "" {
		return "********"
	}
	return value
}
