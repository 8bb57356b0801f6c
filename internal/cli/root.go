// Package cli wires the scriptpack commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "scriptpack",
		Short: "Bundle remote scripts into a distributable archive",
		Long: `Scriptpack flattens remotely-hosted scripts into self-contained
files: imports of shared helpers are replaced by just the requested
symbols, and sibling or cross-group script imports are spliced in
place. The bundled scripts are packed into one zip archive, emitted
as base64 for easy transport.

The project root is read from SCRIPTPACK_ROOT_URL or the config file.`,
		Version: version,
	}

	packCmd := &cobra.Command{
		Use:   "pack <group> <scripts>",
		Short: "Resolve and bundle scripts, then emit the archive",
		Long: `Pack bundles each script in the comma-separated <scripts> list from
group <group>. Scripts resolve independently; a failing script is
reported and left out of the archive rather than aborting the run.`,
		Args: cobra.ExactArgs(2),
		RunE: RunPack,
	}
	packCmd.Flags().Bool("dev", false, "Print bundled lines to stdout before packaging")
	packCmd.Flags().StringP("output", "o", "", "Write raw archive bytes to a file instead of base64 to stdout")
	packCmd.Flags().IntP("jobs", "j", 0, "Max concurrent script resolutions (default: number of CPUs)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("scriptpack %s\n", version)
		},
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		packCmd,
		versionCmd,
	)

	return rootCmd
}
