package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newCoursesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "courses",
		Short: "List your current courses",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			courses, err := client.GetCourses(cmd.Context())
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, courses)
			}

			if len(courses) == 0 {
				println(cmd, "No current courses.")
				return nil
			}

			bold := color.New(color.Bold)
			for _, course := range courses {
				name := bold.Sprint(course.Name)
				if course.DisplayName != "" && course.DisplayName != course.Name {
					printf(cmd, "%s  %s\n", name, course.DisplayName)
				} else {
					printf(cmd, "%s\n", name)
				}
			}
			return nil
		}),
	}
}
