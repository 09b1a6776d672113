package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/autolab/autolab-cli/internal/update"
)

// version is set at build time via ldflags
var version = "dev"

func newVersionCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "autolab-cli version %s\n", version)

			if !check {
				return
			}
			// A failed check is informational; the version itself was
			// already printed.
			info, err := update.Check(cmd.Context(), version)
			errOut := cmd.ErrOrStderr()
			switch {
			case errors.Is(err, update.ErrUnreleased):
				_, _ = fmt.Fprintln(errOut, "Update checks are skipped for development builds.")
			case err != nil:
				_, _ = fmt.Fprintln(errOut, "Update check unavailable.")
			case info.Outdated:
				_, _ = fmt.Fprintf(errOut, "Update available: %s -> %s\n", info.Current, info.Latest)
				_, _ = fmt.Fprintf(errOut, "Download: %s\n", info.URL)
			default:
				_, _ = fmt.Fprintln(errOut, "You are on the latest version.")
			}
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Check GitHub for a newer release")
	return cmd
}
