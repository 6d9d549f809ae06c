package google

// DefaultScopes are the Google OAuth scopes required for the task runner.
// These scopes are used consistently across the application for both
// service-account and user credentials.
//
// The scopes provide access to:
//   - Google Drive: full access (list, download, upload, delete)
//   - Google Drive files: per-file access for files created by this app
//   - Google Sheets: read/write spreadsheet values
var DefaultScopes = []string{
	"https://www.googleapis.com/auth/drive",
	"https://www.googleapis.com/auth/drive.file",
	"https://www.googleapis.com/auth/spreadsheets",
}
