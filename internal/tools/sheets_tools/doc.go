// Package sheets_tools provides MCP (Model Context Protocol) tools for Google Sheets operations.
//
// This package exposes Sheets functionality to MCP clients (like AI assistants).
//
// Available tools:
//   - sheets_update_values: Write a block of cell values to a sheet (write mode only)
//
// Sheet writes mutate spreadsheet data, so the tool is only registered when the
// server runs with --yolo.
//
// All tools support multi-account functionality through an optional 'account' parameter,
// allowing management of multiple Google accounts simultaneously.
//
// Example tool usage:
//
//	sheets_update_values({
//	  spreadsheetId: "1abc...",
//	  sheet: "Sheet1",
//	  cell: "A2",
//	  values: "[[\"2026-01-02\", 42.5], [\"2026-01-03\", 43.1]]"
//	})
package sheets_tools
