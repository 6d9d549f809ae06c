// Package cmd implements the command-line interface for drivetasks.
//
// This package provides the following commands:
//   - list: List files in a Google Drive folder
//   - download: Download a Drive file by name into a local directory
//   - write: Write values into a Google Sheets spreadsheet
//   - upload: Upload a local file into a Drive folder
//   - empty: Delete every file in a Drive folder
//   - stat: Print the modification time of a Drive file
//   - auth: Run the OAuth consent flow and cache a token
//   - serve: Start the MCP server to provide tools for AI assistants
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// Every task command exits 0 on success and non-zero on any failure.
package cmd
