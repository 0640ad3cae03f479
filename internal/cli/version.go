package cli

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/typings-tools/publish-registry/internal/branding"
	"github.com/typings-tools/publish-registry/internal/tags"
)

var (
	versionShort bool
	versionJSON  bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version info as JSON")
	rootCmd.AddCommand(versionCmd)
}

// versionInfo describes the build and what it publishes.
type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go"`
	Package   string `json:"package"`
	Tags      int    `json:"catalogTags"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if versionShort {
			fmt.Fprintln(out, buildVersion)
			return nil
		}

		catalog, err := tags.Default()
		if err != nil {
			return fmt.Errorf("loading tag catalog: %w", err)
		}
		info := versionInfo{
			Version:   buildVersion,
			Commit:    buildCommit,
			Date:      buildDate,
			GoVersion: runtime.Version(),
			Package:   branding.PackageName(),
			Tags:      len(catalog),
		}

		if versionJSON {
			data, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling version info: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintf(out, "%s %s (commit %s, built %s, %s)\n", branding.CLIName(), info.Version, info.Commit, info.Date, info.GoVersion)
		fmt.Fprintf(out, "publishes %s, %d dist-tags in catalog\n", info.Package, info.Tags)
		return nil
	},
}
