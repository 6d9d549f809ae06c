// Package sheets provides a client for writing values to Google Sheets.
//
// The client wraps the Sheets v4 values API: UpdateValues writes a cell
// matrix into an A1 range with RAW input, so values land exactly as given.
// Range builds A1 ranges with proper sheet-name quoting, and ParseValues
// turns CSV or JSON payloads into the cell matrix the API expects.
//
// Authentication comes from the google package, the same way the drive
// package builds its client.
package sheets
