package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/teilen/drivetasks/internal/drive"
	"github.com/teilen/drivetasks/internal/instrumentation"
	"github.com/teilen/drivetasks/internal/taskerror"
)

// newUploadCmd creates the upload command
func newUploadCmd() *cobra.Command {
	var (
		filePath     string
		folderID     string
		name         string
		mimeType     string
		ensureFolder string
	)

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload a local file into a Drive folder",
		Long: `Upload a local file into a Google Drive folder.

The Drive name defaults to the local base name. With --ensure-folder the
named subfolder is looked up under --folder-id, created if absent, and the
file lands inside it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return runTask(instrumentation.TaskUpload, func(ctx context.Context, run *taskRun) error {
				f, err := os.Open(filePath)
				if err != nil {
					if os.IsNotExist(err) {
						return taskerror.Newf(taskerror.KindNotFound, "local file %s does not exist", filePath)
					}
					return taskerror.Wrap(taskerror.KindUnknown, "upload.open", err)
				}
				defer f.Close()

				client, err := drive.NewClient(ctx)
				if err != nil {
					return err
				}

				parentID := folderID
				if ensureFolder != "" {
					folder, err := client.EnsureFolder(ctx, ensureFolder, folderID)
					if err != nil {
						return err
					}
					parentID = folder.ID
				}

				driveName := name
				if driveName == "" {
					driveName = filepath.Base(filePath)
				}
				result, err := client.Upload(ctx, driveName, f, &drive.UploadOptions{
					ParentFolders: []string{parentID},
					MimeType:      mimeType,
				})
				if err != nil {
					return err
				}

				var written int64
				if fi, err := f.Stat(); err == nil {
					written = fi.Size()
				}
				run.invocation.WithFile(result.Name, result.ID).WithBytes(written)
				if run.metrics != nil {
					run.metrics.RecordTransfer(ctx, instrumentation.DirectionUp, written)
				}

				fmt.Fprintf(out, "%s\t%s\n", result.Name, result.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "", "Path of the local file to upload")
	cmd.Flags().StringVar(&folderID, "folder-id", "", "Destination folder ID")
	cmd.Flags().StringVar(&name, "name", "", "Drive file name (default: local base name)")
	cmd.Flags().StringVar(&mimeType, "mime-type", drive.DefaultUploadMimeType, "MIME type of the file content")
	cmd.Flags().StringVar(&ensureFolder, "ensure-folder", "", "Subfolder name to create under --folder-id if absent")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("folder-id")

	return cmd
}
