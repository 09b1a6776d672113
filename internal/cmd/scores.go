package cmd

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/autolab/autolab-cli/internal/api"
	"github.com/autolab/autolab-cli/internal/iocontext"
)

func newScoresCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "scores [course:assessment]",
		Short: "Show your submission scores for an assessment",
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
			submissions, err := client.GetSubmissions(cmd.Context(), ref.Course, ref.Assessment)
			if err != nil {
				return err
			}
			if !all && len(submissions) > 1 {
				submissions = submissions[:1]
			}

			if isJSON(cmd) {
				return printJSON(cmd, submissions)
			}

			if len(submissions) == 0 {
				printf(cmd, "No submissions for %s.\n", ref)
				return nil
			}

			renderScoresTable(cmd, problems, submissions)
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Show every submission version, not just the latest")
	return cmd
}

func renderScoresTable(cmd *cobra.Command, problems []api.Problem, submissions []api.Submission) {
	ioStreams := iocontext.GetIO(cmd.Context())

	t := table.NewWriter()
	t.SetOutputMirror(ioStreams.Out)

	header := table.Row{"Version", "Submitted"}
	for _, problem := range problems {
		header = append(header, problem.Name)
	}
	header = append(header, "Total")
	t.AppendHeader(header)

	for _, submission := range submissions {
		row := table.Row{strconv.Itoa(submission.Version), submission.CreatedAt}
		total := 0.0
		released := false
		for _, problem := range problems {
			score := submission.Scores[problem.Name]
			if score == nil {
				row = append(row, "--")
				continue
			}
			row = append(row, formatScore(*score))
			total += *score
			released = true
		}
		if released {
			row = append(row, formatScore(total))
		} else {
			row = append(row, "--")
		}
		t.AppendRow(row)
	}

	style := table.StyleLight
	// Problem names are case-sensitive identifiers; keep them as-is.
	style.Format.Header = text.FormatDefault
	t.SetStyle(style)
	t.Render()
}

func formatScore(score float64) string {
	return fmt.Sprintf("%g", score)
}
