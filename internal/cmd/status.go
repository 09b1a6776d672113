package cmd

import (
	"github.com/spf13/cobra"

	"github.com/autolab/autolab-cli/internal/asmtfile"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the signed-in user and the current assessment directory",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			user, err := client.GetUser(cmd.Context())
			if err != nil {
				return err
			}

			marker, inAsmtDir, err := asmtfile.FindFromWorkingDir()
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				payload := map[string]any{
					"user": user,
				}
				if inAsmtDir {
					payload["assessment"] = map[string]string{
						"course":     marker.Course,
						"assessment": marker.Assessment,
					}
				}
				return printJSON(cmd, payload)
			}

			printf(cmd, "Signed in as %s %s (%s)\n", user.FirstName, user.LastName, user.Email)
			if user.School != "" {
				printf(cmd, "%s, %s, year %s\n", user.School, user.Major, user.Year)
			}
			if inAsmtDir {
				printf(cmd, "Current assessment: %s\n", marker)
			} else {
				println(cmd, "Not inside an assessment directory.")
			}
			return nil
		}),
	}
}
