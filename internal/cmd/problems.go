package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProblemsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "problems [course:assessment]",
		Short: "List the problems of an assessment",
		Args:  cobra.MaximumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ref, _, err := refFromArgs(args, false)
			if err != nil {
				return err
			}
			client, err := getClient()
			if err != nil {
				return err
			}
			problems, err := client.GetProblems(cmd.Context(), ref.Course, ref.Assessment)
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, problems)
			}

			if len(problems) == 0 {
				printf(cmd, "No problems for %s.\n", ref)
				return nil
			}

			w := newTabWriterFromCmd(cmd)
			for _, problem := range problems {
				suffix := ""
				if problem.Optional {
					suffix = " (optional)"
				}
				fmt.Fprintf(w, "%s\t%g points%s\n", problem.Name, problem.MaxScore, suffix)
			}
			return w.Flush()
		}),
	}
}
