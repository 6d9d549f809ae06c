package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/teilen/drivetasks/internal/drive"
	"github.com/teilen/drivetasks/internal/instrumentation"
)

// newListCmd creates the list command
func newListCmd() *cobra.Command {
	var (
		folderID string
		pageSize int
		long     bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List files in a Drive folder",
		Long: `List files in a Google Drive folder, one file per line as name<TAB>id.

With --long each line also carries the MIME type, size in bytes, and
modification time. Without --folder-id the listing covers the whole Drive.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return runTask(instrumentation.TaskList, func(ctx context.Context, run *taskRun) error {
				client, err := drive.NewClient(ctx)
				if err != nil {
					return err
				}

				options := &drive.ListOptions{
					FolderID:   folderID,
					MaxResults: pageSize,
				}
				return client.ForeachFile(ctx, options, func(file *drive.FileInfo) error {
					if long {
						_, err := fmt.Fprintf(out, "%s\t%s\t%s\t%d\t%s\n",
							file.Name, file.ID, file.MimeType, file.Size,
							file.ModifiedTime.Format(time.RFC3339))
						return err
					}
					_, err := fmt.Fprintf(out, "%s\t%s\n", file.Name, file.ID)
					return err
				})
			})
		},
	}

	cmd.Flags().StringVar(&folderID, "folder-id", "", "Folder ID to list (default: all of Drive)")
	cmd.Flags().IntVar(&pageSize, "page-size", 100, "Number of files per page")
	cmd.Flags().BoolVar(&long, "long", false, "Include MIME type, size, and modification time")

	return cmd
}
