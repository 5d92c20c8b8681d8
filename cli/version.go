package cli

import (
	"fmt"

	"github.com/compozy/solo/pkg/version"
	"github.com/spf13/cobra"
)

// VersionCmd returns the version command.
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "solo %s\n", info.Version)
			fmt.Fprintf(out, "commit: %s\n", info.CommitHash)
			fmt.Fprintf(out, "built: %s\n", info.BuildDate)
			return nil
		},
	}
}
