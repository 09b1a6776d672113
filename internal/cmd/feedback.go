package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFeedbackCmd() *cobra.Command {
	var problem string
	var version int

	cmd := &cobra.Command{
		Use:   "feedback [course:assessment]",
		Short: "Show grader feedback for a submission",
		Long: "Shows the feedback for one problem of one submission version.\n" +
			"Defaults to the latest submission and the first problem.",
		Args: cobra.MaximumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ref, _, err := refFromArgs(args, false)
			if err != nil {
				return err
			}
			client, err := getClient()
			if err != nil {
				return err
			}

			if version == 0 {
				submissions, err := client.GetSubmissions(cmd.Context(), ref.Course, ref.Assessment)
				if err != nil {
					return err
				}
				if len(submissions) == 0 {
					return fmt.Errorf("no submissions for %s yet", ref)
				}
				version = submissions[0].Version
			}

			if problem == "" {
				problems, err := client.GetProblems(cmd.Context(), ref.Course, ref.Assessment)
				if err != nil {
					return err
				}
				if len(problems) == 0 {
					return fmt.Errorf("%s has no problems to show feedback for", ref)
				}
				problem = problems[0].Name
			}

			feedback, err := client.GetFeedback(cmd.Context(), ref.Course, ref.Assessment, version, problem)
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{
					"version":  version,
					"problem":  problem,
					"feedback": feedback,
				})
			}

			println(cmd, feedback)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&problem, "problem", "p", "", "Problem name (default: first problem)")
	cmd.Flags().IntVarP(&version, "version", "v", 0, "Submission version (default: latest)")
	return cmd
}
