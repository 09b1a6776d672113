package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/autolab/autolab-cli/internal/api"
	"github.com/autolab/autolab-cli/internal/asmtfile"
)

func newDownloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "download <course:assessment>",
		Short: "Download an assessment into a new directory",
		Long: "Creates a directory named after the assessment, downloads the handout\n" +
			"and writeup into it, and marks it so later commands know which\n" +
			"assessment you are working on.",
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ref, err := asmtfile.Parse(args[0])
			if err != nil {
				return err
			}
			client, err := getClient()
			if err != nil {
				return err
			}

			dir := ref.Assessment
			if _, err := os.Stat(dir); err == nil {
				return fmt.Errorf("directory %q already exists", dir)
			}
			if err := os.Mkdir(dir, 0o755); err != nil {
				return fmt.Errorf("cannot create assessment directory: %w", err)
			}

			handout, err := client.DownloadHandout(cmd.Context(), dir, ref.Course, ref.Assessment)
			if err != nil {
				return err
			}
			reportAttachment(cmd, "handout", handout)

			writeup, err := client.DownloadWriteup(cmd.Context(), dir, ref.Course, ref.Assessment)
			if err != nil {
				return err
			}
			reportAttachment(cmd, "writeup", writeup)

			if err := asmtfile.Write(dir, ref); err != nil {
				return err
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				absDir = dir
			}
			printf(cmd, "Assessment %s set up in %s\n", ref, absDir)
			return nil
		}),
	}
}

func reportAttachment(cmd *cobra.Command, kind string, attachment *api.Attachment) {
	switch attachment.Format {
	case api.AttachmentFile:
		printf(cmd, "Downloaded %s to %s\n", kind, attachment.Path)
	case api.AttachmentURL:
		printf(cmd, "The %s is available at %s\n", kind, attachment.URL)
	default:
		printf(cmd, "No %s for this assessment.\n", kind)
	}
}
