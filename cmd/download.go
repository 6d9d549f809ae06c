package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teilen/drivetasks/internal/drive"
	"github.com/teilen/drivetasks/internal/instrumentation"
)

// newDownloadCmd creates the download command
func newDownloadCmd() *cobra.Command {
	var (
		fileName  string
		withDate  bool
		outputDir string
	)

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download a Drive file by name",
		Long: `Download a Google Drive file by name into the output directory.

Native Google spreadsheets have no raw bytes to fetch; they are exported
as XLSX and the output name gets an .xlsx extension. With --with_date the
output name carries a _YYYYMMDDHHMMSS suffix.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return runTask(instrumentation.TaskDownload, func(ctx context.Context, run *taskRun) error {
				client, err := drive.NewClient(ctx)
				if err != nil {
					return err
				}

				path, written, err := client.DownloadByName(ctx, fileName, &drive.DownloadOptions{
					Dir:      outputDir,
					WithDate: withDate,
				})
				if err != nil {
					return err
				}

				run.invocation.WithFile(fileName, "").WithBytes(written)
				if run.metrics != nil {
					run.metrics.RecordTransfer(ctx, instrumentation.DirectionDown, written)
				}

				fmt.Fprintln(out, path)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&fileName, "file_name", "", "Name of the Drive file to download")
	cmd.Flags().BoolVar(&withDate, "with_date", false, "Append a timestamp suffix to the output name")
	cmd.Flags().StringVar(&outputDir, "output-dir", drive.DefaultDownloadDir, "Directory to write the downloaded file into")
	_ = cmd.MarkFlagRequired("file_name")

	return cmd
}
