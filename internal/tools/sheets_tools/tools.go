package sheets_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teilen/drivetasks/internal/google"
	"github.com/teilen/drivetasks/internal/instrumentation"
	"github.com/teilen/drivetasks/internal/server"
	"github.com/teilen/drivetasks/internal/sheets"
	"github.com/teilen/drivetasks/internal/tools/common"
)

// getSheetsClient retrieves or creates a sheets client for the specified account
func getSheetsClient(ctx context.Context, account string, sc *server.ServerContext) (*sheets.Client, error) {
	client := sc.SheetsClientForAccount(account)
	if client == nil {
		// Check that credentials exist before trying to create the client
		if !sheets.HasCredentialsForAccount(account) {
			return nil, fmt.Errorf("%s", google.AuthenticationErrorMessageForAccount(account))
		}

		var err error
		client, err = sheets.NewClientForAccount(ctx, account)
		if err != nil {
			return nil, fmt.Errorf("failed to create Sheets client for account %s: %w", account, err)
		}
		sc.SetSheetsClientForAccount(account, client)
	}
	return client, nil
}

// RegisterSheetsTools registers all Google Sheets-related tools with the MCP server
func RegisterSheetsTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Sheet writes mutate spreadsheet data, so nothing registers in read-only mode
	if readOnly {
		return nil
	}

	updateValuesTool := mcp.NewTool("sheets_update_values",
		mcp.WithDescription("Write a block of cell values to a Google Sheets spreadsheet. Values are written as-is, without formula interpretation."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("spreadsheetId",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet to update"),
		),
		mcp.WithString("sheet",
			mcp.Required(),
			mcp.Description("The name of the sheet (tab) to write to"),
		),
		mcp.WithString("cell",
			mcp.Description("Top-left cell of the write in A1 notation (default: A2)"),
		),
		mcp.WithString("values",
			mcp.Required(),
			mcp.Description("Rows to write, as a JSON array of row arrays or as CSV text"),
		),
		mcp.WithString("format",
			mcp.Description("Format of the values payload: 'json' or 'csv' (default: json)"),
		),
	)

	s.AddTool(updateValuesTool, common.InstrumentedToolHandlerWithService("sheets_update_values",
		instrumentation.ServiceSheets, instrumentation.OperationUpdate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUpdateValues(ctx, request, sc)
		}))

	return nil
}

func handleUpdateValues(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	spreadsheetID, ok := args["spreadsheetId"].(string)
	if !ok || spreadsheetID == "" {
		return mcp.NewToolResultError("spreadsheetId is required"), nil
	}

	sheetName, ok := args["sheet"].(string)
	if !ok || sheetName == "" {
		return mcp.NewToolResultError("sheet is required"), nil
	}

	valuesStr, ok := args["values"].(string)
	if !ok || valuesStr == "" {
		return mcp.NewToolResultError("values is required"), nil
	}

	format := sheets.FormatJSON
	if f, ok := args["format"].(string); ok && f != "" {
		format = f
	}

	rows, err := sheets.ParseValues(format, []byte(valuesStr))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cell, _ := args["cell"].(string)

	client, err := getSheetsClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := client.UpdateValues(ctx, spreadsheetID, sheets.Range(sheetName, cell), rows)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to update values: %v", err)), nil
	}

	out, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(fmt.Sprintf("Values updated successfully:\n%s", string(out))), nil
}
