// Package drive_tools provides MCP (Model Context Protocol) tools for Google Drive operations.
//
// This package exposes Drive functionality to MCP clients (like AI assistants) through
// a set of tools that handle file listing, transfer, and folder maintenance.
//
// Available tools:
//   - drive_list_files: List and search files with filtering
//   - drive_stat_file: Get metadata for a file, by ID or name
//   - drive_download_file: Download file content (native spreadsheets are exported as XLSX)
//   - drive_upload_file: Upload files to Google Drive with metadata (write mode only)
//   - drive_delete_file: Delete files from Drive (write mode only)
//   - drive_empty_folder: Delete every file inside a folder (write mode only)
//
// Write tools are only registered when the server runs with --yolo; the default
// registration is read-only.
//
// All tools support multi-account functionality through an optional 'account' parameter,
// allowing management of multiple Google accounts simultaneously.
//
// Example tool usage:
//
//	drive_list_files({
//	  account: "staging",
//	  folderId: "folder_id",
//	  maxResults: 10
//	})
//
//	drive_download_file({
//	  fileName: "report.xlsx",
//	  asBase64: true
//	})
package drive_tools
