package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teilen/drivetasks/internal/drive"
	"github.com/teilen/drivetasks/internal/instrumentation"
	"github.com/teilen/drivetasks/internal/logging"
)

// newEmptyCmd creates the empty command
func newEmptyCmd() *cobra.Command {
	var (
		folderID string
		yes      bool
	)

	cmd := &cobra.Command{
		Use:   "empty",
		Short: "Delete every file in a Drive folder",
		Long: `Delete every file directly inside a Google Drive folder. The folder
itself is kept.

Deletion is permanent and asks for confirmation unless --yes is given.
Deletion stops at the first failing file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				confirmed, err := confirmEmpty(cmd.InOrStdin(), cmd.ErrOrStderr(), folderID)
				if err != nil {
					return err
				}
				if !confirmed {
					return errors.New("aborted")
				}
			}

			out := cmd.OutOrStdout()
			return runTask(instrumentation.TaskEmpty, func(ctx context.Context, run *taskRun) error {
				client, err := drive.NewClient(ctx)
				if err != nil {
					return err
				}

				slog.Debug("emptying folder", logging.FolderID(folderID))
				deleted, err := client.EmptyFolder(ctx, folderID)
				if err != nil {
					return fmt.Errorf("emptied %d files before failing: %w", deleted, err)
				}

				fmt.Fprintf(out, "%d files deleted\n", deleted)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&folderID, "folder-id", "", "Folder ID to empty")
	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")
	_ = cmd.MarkFlagRequired("folder-id")

	return cmd
}

// confirmEmpty asks on stderr whether the folder should really be emptied
// and reads the answer from in. EOF counts as no.
func confirmEmpty(in io.Reader, errOut io.Writer, folderID string) (bool, error) {
	fmt.Fprintf(errOut, "Delete all files in folder %s? [y/N]: ", folderID)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
