package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teilen/drivetasks/internal/drive"
	"github.com/teilen/drivetasks/internal/instrumentation"
	"github.com/teilen/drivetasks/internal/sheets"
	"github.com/teilen/drivetasks/internal/taskerror"
)

// newWriteCmd creates the write command
func newWriteCmd() *cobra.Command {
	var (
		spreadsheet string
		sheetName   string
		cell        string
		values      string
		valuesFile  string
		format      string
	)

	cmd := &cobra.Command{
		Use:   "write",
		Short: "Write values into a spreadsheet",
		Long: `Write rows of values into a Google Sheets spreadsheet, starting at the
given cell. --spreadsheet takes the spreadsheet name (looked up in Drive)
or a raw spreadsheet ID.

The payload comes from --values or --values-file, as CSV text or as a JSON
array of row arrays (--format). Values are written RAW, without Sheets-side
parsing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return runTask(instrumentation.TaskWrite, func(ctx context.Context, run *taskRun) error {
				payload, err := valuesPayload(values, valuesFile)
				if err != nil {
					return err
				}
				rows, err := sheets.ParseValues(format, payload)
				if err != nil {
					return err
				}

				spreadsheetID, err := resolveSpreadsheetID(ctx, spreadsheet)
				if err != nil {
					return err
				}

				client, err := sheets.NewClient(ctx)
				if err != nil {
					return err
				}
				result, err := client.UpdateValues(ctx, spreadsheetID, sheets.Range(sheetName, cell), rows)
				if err != nil {
					return err
				}

				fmt.Fprintf(out, "%s: %d cells updated\n", result.UpdatedRange, result.UpdatedCells)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&spreadsheet, "spreadsheet", "", "Spreadsheet name or ID")
	cmd.Flags().StringVar(&sheetName, "sheet", "", "Sheet (tab) name inside the spreadsheet")
	cmd.Flags().StringVar(&cell, "cell", sheets.DefaultCellAddress, "Top-left cell of the target range")
	cmd.Flags().StringVar(&values, "values", "", "Values payload, inline")
	cmd.Flags().StringVar(&valuesFile, "values-file", "", "Path of a file holding the values payload")
	cmd.Flags().StringVar(&format, "format", sheets.FormatCSV, "Payload format: csv or json")
	_ = cmd.MarkFlagRequired("spreadsheet")
	_ = cmd.MarkFlagRequired("sheet")

	return cmd
}

// valuesPayload returns the payload bytes from exactly one of the inline
// flag and the file flag.
func valuesPayload(values, valuesFile string) ([]byte, error) {
	switch {
	case values != "" && valuesFile != "":
		return nil, taskerror.New(taskerror.KindValidation, "--values and --values-file are mutually exclusive")
	case values != "":
		return []byte(values), nil
	case valuesFile != "":
		payload, err := os.ReadFile(valuesFile)
		if err != nil {
			return nil, taskerror.Wrap(taskerror.KindValidation, "write.values-file", err)
		}
		return payload, nil
	default:
		return nil, taskerror.New(taskerror.KindValidation, "either --values or --values-file is required")
	}
}

// resolveSpreadsheetID resolves the --spreadsheet flag to a spreadsheet ID.
// The value is tried as a file name in Drive first; when no file carries
// that name, the value is assumed to already be an ID.
func resolveSpreadsheetID(ctx context.Context, spreadsheet string) (string, error) {
	client, err := drive.NewClient(ctx)
	if err != nil {
		return "", err
	}
	file, err := client.FindByName(ctx, spreadsheet, "")
	if err != nil {
		if taskerror.IsKind(err, taskerror.KindNotFound) {
			return spreadsheet, nil
		}
		return "", err
	}
	return file.ID, nil
}
