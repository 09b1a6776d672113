package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/autolab/autolab-cli/internal/api"
)

func newAssessmentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "assessments <course> [assessment]",
		Aliases: []string{"asmts"},
		Short:   "List the assessments of a course, or show one in detail",
		Args:    cobra.RangeArgs(1, 2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			if len(args) == 2 {
				detail, err := client.GetAssessmentDetails(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				if isJSON(cmd) {
					return printJSON(cmd, detail)
				}
				printAssessmentDetail(cmd, detail)
				return nil
			}

			asmts, err := client.GetAssessments(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, asmts)
			}

			if len(asmts) == 0 {
				println(cmd, "No assessments.")
				return nil
			}

			bold := color.New(color.Bold)
			w := newTabWriterFromCmd(cmd)
			for _, asmt := range asmts {
				category := asmt.Category
				if category == "" {
					category = "-"
				}
				due := asmt.DueAt
				if due == "" {
					due = "-"
				}
				_, _ = w.Write([]byte(bold.Sprint(asmt.Name) + "\t" + category + "\tdue " + due + "\n"))
			}
			return w.Flush()
		}),
	}
}

func printAssessmentDetail(cmd *cobra.Command, detail *api.DetailedAssessment) {
	bold := color.New(color.Bold)
	printf(cmd, "%s", bold.Sprint(detail.Name))
	if detail.DisplayName != "" && detail.DisplayName != detail.Name {
		printf(cmd, "  %s", detail.DisplayName)
	}
	println(cmd)

	if detail.Description != "" {
		printf(cmd, "%s\n", detail.Description)
	}
	w := newTabWriterFromCmd(cmd)
	if detail.Category != "" {
		_, _ = w.Write([]byte("Category:\t" + detail.Category + "\n"))
	}
	if detail.StartAt != "" {
		_, _ = w.Write([]byte("Starts:\t" + detail.StartAt + "\n"))
	}
	if detail.DueAt != "" {
		_, _ = w.Write([]byte("Due:\t" + detail.DueAt + "\n"))
	}
	if detail.EndAt != "" {
		_, _ = w.Write([]byte("Ends:\t" + detail.EndAt + "\n"))
	}
	if detail.MaxSubmissions != 0 {
		_, _ = fmt.Fprintf(w, "Max submissions:\t%d\n", detail.MaxSubmissions)
	}
	if detail.MaxGraceDays != 0 {
		_, _ = fmt.Fprintf(w, "Grace days:\t%d\n", detail.MaxGraceDays)
	}
	if detail.GroupSize > 1 {
		_, _ = fmt.Fprintf(w, "Group size:\t%d\n", detail.GroupSize)
	}
	_ = w.Flush()
}
