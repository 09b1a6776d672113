package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newSubmitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "submit [course:assessment] <file>",
		Short: "Submit a file to an assessment",
		Args:  cobra.RangeArgs(1, 2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			refArg := ""
			if len(args) == 2 {
				refArg = args[0]
				args = args[1:]
			}
			ref, err := resolveRef(refArg, force)
			if err != nil {
				return err
			}

			filename := args[0]
			if _, err := os.Stat(filename); err != nil {
				return fmt.Errorf("cannot submit %q: %w", filename, err)
			}

			client, err := getClient()
			if err != nil {
				return err
			}
			version, err := client.Submit(cmd.Context(), ref.Course, ref.Assessment, filename)
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{
					"course":     ref.Course,
					"assessment": ref.Assessment,
					"version":    version,
				})
			}
			printf(cmd, "Submitted %s to %s as version %d\n", filename, ref, version)
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false,
		"Submit even when the named assessment differs from this directory's marker")
	return cmd
}
