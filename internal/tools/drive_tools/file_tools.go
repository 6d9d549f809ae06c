package drive_tools

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teilen/drivetasks/internal/drive"
	"github.com/teilen/drivetasks/internal/instrumentation"
	"github.com/teilen/drivetasks/internal/server"
	"github.com/teilen/drivetasks/internal/tools/batch"
	"github.com/teilen/drivetasks/internal/tools/common"
)

// registerFileTools registers file management tools
func registerFileTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Register write tools only if not in read-only mode
	if !readOnly {
		// Upload file tool
		uploadFileTool := mcp.NewTool("drive_upload_file",
			mcp.WithDescription("Upload a file to Google Drive"),
			mcp.WithString("account",
				mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
			),
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("The name of the file"),
			),
			mcp.WithString("content",
				mcp.Required(),
				mcp.Description("The file content (plain text, or base64-encoded for binary files)"),
			),
			mcp.WithString("mimeType",
				mcp.Description("The MIME type of the file (e.g., 'text/plain', 'application/pdf', 'text/csv')"),
			),
			mcp.WithString("parentFolders",
				mcp.Description("Comma-separated list of parent folder IDs where the file should be placed"),
			),
			mcp.WithString("description",
				mcp.Description("A short description of the file"),
			),
			mcp.WithBoolean("isBase64",
				mcp.Description("Whether the content is base64-encoded (default: false)"),
			),
		)

		s.AddTool(uploadFileTool, common.InstrumentedToolHandlerWithService("drive_upload_file",
			instrumentation.ServiceDrive, instrumentation.OperationUpload, sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return handleUploadFile(ctx, request, sc)
			}))
	}

	// List files tool (read-only, always available)
	listFilesTool := mcp.NewTool("drive_list_files",
		mcp.WithDescription("List files in Google Drive with optional filtering"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("query",
			mcp.Description("Query for filtering files using Google Drive's query language (e.g., \"name contains 'report'\", \"mimeType='application/pdf'\")"),
		),
		mcp.WithString("folderId",
			mcp.Description("Restrict results to direct children of this folder"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of files to return (default: 100, max: 1000)"),
		),
		mcp.WithString("orderBy",
			mcp.Description("Sort order (e.g., 'folder,modifiedTime desc,name')"),
		),
		mcp.WithBoolean("includeTrashed",
			mcp.Description("Include trashed files in results (default: false)"),
		),
		mcp.WithString("pageToken",
			mcp.Description("Page token for retrieving the next page of results"),
		),
	)

	s.AddTool(listFilesTool, common.InstrumentedToolHandlerWithService("drive_list_files",
		instrumentation.ServiceDrive, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListFiles(ctx, request, sc)
		}))

	// Stat file tool
	statFileTool := mcp.NewTool("drive_stat_file",
		mcp.WithDescription("Get metadata for a file in Google Drive, including its RFC 3339 modification time"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("fileId",
			mcp.Description("ID of the file to inspect"),
		),
		mcp.WithString("fileName",
			mcp.Description("Name of the file to inspect (used when fileId is not given)"),
		),
		mcp.WithString("folderId",
			mcp.Description("Folder to search when resolving fileName"),
		),
	)

	s.AddTool(statFileTool, common.InstrumentedToolHandlerWithService("drive_stat_file",
		instrumentation.ServiceDrive, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleStatFile(ctx, request, sc)
		}))

	// Download file tool
	downloadFileTool := mcp.NewTool("drive_download_file",
		mcp.WithDescription("Download the content of a file from Google Drive. Native Google spreadsheets are exported as XLSX."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("fileId",
			mcp.Description("ID of the file to download"),
		),
		mcp.WithString("fileName",
			mcp.Description("Name of the file to download (used when fileId is not given)"),
		),
		mcp.WithString("folderId",
			mcp.Description("Folder to search when resolving fileName"),
		),
		mcp.WithBoolean("asBase64",
			mcp.Description("Return content as base64-encoded string (default: false for text)"),
		),
	)

	s.AddTool(downloadFileTool, common.InstrumentedToolHandlerWithService("drive_download_file",
		instrumentation.ServiceDrive, instrumentation.OperationDownload, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDownloadFile(ctx, request, sc)
		}))

	// Delete file tool (write operation, only available with !readOnly)
	if !readOnly {
		deleteFileTool := mcp.NewTool("drive_delete_file",
			mcp.WithDescription("Permanently delete one or more files from Google Drive"),
			mcp.WithString("account",
				mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
			),
			mcp.WithString("fileId",
				mcp.Required(),
				mcp.Description("File ID (string) or array of file IDs to delete"),
			),
		)

		s.AddTool(deleteFileTool, common.InstrumentedToolHandlerWithService("drive_delete_file",
			instrumentation.ServiceDrive, instrumentation.OperationDelete, sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return handleDeleteFile(ctx, request, sc)
			}))
	}

	return nil
}

func handleUploadFile(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	name, ok := args["name"].(string)
	if !ok || name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}

	contentStr, ok := args["content"].(string)
	if !ok || contentStr == "" {
		return mcp.NewToolResultError("content is required"), nil
	}

	client, err := getDriveClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	options := &drive.UploadOptions{}

	if mimeType, ok := args["mimeType"].(string); ok && mimeType != "" {
		options.MimeType = mimeType
	}

	if description, ok := args["description"].(string); ok && description != "" {
		options.Description = description
	}

	if parentFoldersStr, ok := args["parentFolders"].(string); ok && parentFoldersStr != "" {
		options.ParentFolders = parseCommaList(parentFoldersStr)
	}

	// Decode content if base64
	isBase64 := false
	if isB64, ok := args["isBase64"].(bool); ok {
		isBase64 = isB64
	}

	var content io.Reader
	var size int64
	if isBase64 {
		decoded, err := base64.StdEncoding.DecodeString(contentStr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to decode base64 content: %v", err)), nil
		}
		content = bytes.NewReader(decoded)
		size = int64(len(decoded))
	} else {
		content = strings.NewReader(contentStr)
		size = int64(len(contentStr))
	}

	fileInfo, err := client.Upload(ctx, name, content, options)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to upload file: %v", err)), nil
	}

	if m := sc.Metrics(); m != nil {
		m.RecordTransfer(ctx, instrumentation.DirectionUp, size)
	}

	result, _ := json.MarshalIndent(fileInfo, "", "  ")
	return mcp.NewToolResultText(fmt.Sprintf("File uploaded successfully:\n%s", string(result))), nil
}

func handleListFiles(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	client, err := getDriveClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	options := &drive.ListOptions{
		MaxResults: 100, // default
	}

	if query, ok := args["query"].(string); ok && query != "" {
		options.Query = query
	}

	if folderID, ok := args["folderId"].(string); ok && folderID != "" {
		options.FolderID = folderID
	}

	if maxResults, ok := args["maxResults"].(float64); ok && maxResults > 0 {
		options.MaxResults = int(maxResults)
	}

	if orderBy, ok := args["orderBy"].(string); ok && orderBy != "" {
		options.OrderBy = orderBy
	}

	if includeTrashed, ok := args["includeTrashed"].(bool); ok {
		options.IncludeTrashed = includeTrashed
	}

	if pageToken, ok := args["pageToken"].(string); ok && pageToken != "" {
		options.PageToken = pageToken
	}

	files, nextPageToken, err := client.ListFiles(ctx, options)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list files: %v", err)), nil
	}

	response := map[string]interface{}{
		"files":         files,
		"nextPageToken": nextPageToken,
	}

	result, _ := json.MarshalIndent(response, "", "  ")
	return mcp.NewToolResultText(string(result)), nil
}

func handleStatFile(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	fileID, _ := args["fileId"].(string)
	fileName, _ := args["fileName"].(string)
	if fileID == "" && fileName == "" {
		return mcp.NewToolResultError("fileId or fileName is required"), nil
	}

	client, err := getDriveClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	folderID, _ := args["folderId"].(string)
	fileInfo, err := lookupFile(ctx, client, fileID, fileName, folderID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to stat file: %v", err)), nil
	}

	result, _ := json.MarshalIndent(fileInfo, "", "  ")
	return mcp.NewToolResultText(string(result)), nil
}

func handleDownloadFile(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	fileID, _ := args["fileId"].(string)
	fileName, _ := args["fileName"].(string)
	if fileID == "" && fileName == "" {
		return mcp.NewToolResultError("fileId or fileName is required"), nil
	}

	asBase64 := false
	if asB64, ok := args["asBase64"].(bool); ok {
		asBase64 = asB64
	}

	client, err := getDriveClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	folderID, _ := args["folderId"].(string)
	fileInfo, err := lookupFile(ctx, client, fileID, fileName, folderID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to download file: %v", err)), nil
	}

	var buf bytes.Buffer
	var written int64
	if fileInfo.MimeType == drive.SpreadsheetMimeType {
		// Native spreadsheets have no raw bytes to fetch; export as XLSX
		// and return binary-safe output.
		written, err = client.Export(ctx, fileInfo.ID, drive.XLSXMimeType, &buf)
		asBase64 = true
	} else {
		written, err = client.Download(ctx, fileInfo.ID, &buf)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to download file: %v", err)), nil
	}

	if m := sc.Metrics(); m != nil {
		m.RecordTransfer(ctx, instrumentation.DirectionDown, written)
	}

	if asBase64 {
		encoded := base64.StdEncoding.EncodeToString(buf.Bytes())
		return mcp.NewToolResultText(fmt.Sprintf("File content (base64, %d bytes):\n%s", written, encoded)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("File content (text, %d bytes):\n%s", written, buf.String())), nil
}

func handleDeleteFile(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	fileIDs, err := batch.ParseStringOrArray(args["fileId"], "fileId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, err := getDriveClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	results := batch.ProcessBatch(fileIDs, func(fileID string) (string, error) {
		if err := client.Delete(ctx, fileID); err != nil {
			return "", err
		}
		return fmt.Sprintf("File %s deleted successfully", fileID), nil
	})

	return mcp.NewToolResultText(batch.FormatResults(results)), nil
}

// lookupFile resolves a file by ID when given, falling back to a name search
// scoped to folderID.
func lookupFile(ctx context.Context, client *drive.Client, fileID, fileName, folderID string) (*drive.FileInfo, error) {
	if fileID != "" {
		return client.GetFile(ctx, fileID)
	}
	return client.FindByName(ctx, fileName, folderID)
}

// parseCommaList parses a comma-separated list of strings
func parseCommaList(s string) []string {
	if s == "" {
		return nil
	}

	var result []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
