package drive_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teilen/drivetasks/internal/instrumentation"
	"github.com/teilen/drivetasks/internal/server"
	"github.com/teilen/drivetasks/internal/tools/common"
)

// registerFolderTools registers folder management tools
func registerFolderTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Emptying a folder deletes its contents, so it is a write tool
	if readOnly {
		return nil
	}

	emptyFolderTool := mcp.NewTool("drive_empty_folder",
		mcp.WithDescription("Permanently delete every file inside a Google Drive folder. The folder itself is kept."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("folderId",
			mcp.Required(),
			mcp.Description("The ID of the folder to empty"),
		),
	)

	s.AddTool(emptyFolderTool, common.InstrumentedToolHandlerWithService("drive_empty_folder",
		instrumentation.ServiceDrive, instrumentation.OperationDelete, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleEmptyFolder(ctx, request, sc)
		}))

	return nil
}

func handleEmptyFolder(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	folderID, ok := args["folderId"].(string)
	if !ok || folderID == "" {
		return mcp.NewToolResultError("folderId is required"), nil
	}

	client, err := getDriveClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	deleted, err := client.EmptyFolder(ctx, folderID)
	if err != nil {
		// Deletion stops at the first failure, so report how far it got.
		return mcp.NewToolResultError(fmt.Sprintf("Failed to empty folder after deleting %d files: %v", deleted, err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Folder emptied successfully: %d files deleted", deleted)), nil
}
