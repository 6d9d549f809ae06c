package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/teilen/drivetasks/internal/drive"
	"github.com/teilen/drivetasks/internal/instrumentation"
	"github.com/teilen/drivetasks/internal/taskerror"
)

// newStatCmd creates the stat command
func newStatCmd() *cobra.Command {
	var fileName string

	cmd := &cobra.Command{
		Use:   "stat [file-id]",
		Short: "Print the modification time of a Drive file",
		Long: `Print the modification time of a Google Drive file in RFC 3339 form.

The file is addressed by ID (positional argument) or by name (--file_name).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var fileID string
			if len(args) > 0 {
				fileID = args[0]
			}

			out := cmd.OutOrStdout()
			return runTask(instrumentation.TaskStat, func(ctx context.Context, run *taskRun) error {
				if fileID == "" && fileName == "" {
					return taskerror.New(taskerror.KindValidation, "a file ID argument or --file_name is required")
				}

				client, err := drive.NewClient(ctx)
				if err != nil {
					return err
				}

				var modified time.Time
				if fileID != "" {
					modified, err = client.ModifiedTime(ctx, fileID)
					if err != nil {
						return err
					}
					run.invocation.WithFile("", fileID)
				} else {
					file, err := client.FindByName(ctx, fileName, "")
					if err != nil {
						return err
					}
					modified = file.ModifiedTime
					run.invocation.WithFile(file.Name, file.ID)
				}

				fmt.Fprintln(out, modified.Format(time.RFC3339))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&fileName, "file_name", "", "Name of the Drive file to stat")

	return cmd
}
