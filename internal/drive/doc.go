// Package drive provides a client for interacting with the Google Drive API.
//
// This package covers the file operations the task runner needs:
//   - Listing and searching files and folders, with pagination
//   - Resolving files by display name
//   - Downloading file content, raw or exported as XLSX
//   - Uploading files into folders
//   - Deleting files and emptying folders
//   - Creating folders
//   - Reading file metadata such as the modification time
//
// Authentication comes from the google package: a service account key file
// when available, otherwise the cached user token.
//
// Example usage:
//
//	ctx := context.Background()
//	client, err := drive.NewClient(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Download a spreadsheet by name, exported as XLSX
//	path, _, err := client.DownloadByName(ctx, "monthly report", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// List files in a folder
//	files, _, err := client.ListFiles(ctx, &drive.ListOptions{
//	    FolderID:   "1AbC...",
//	    MaxResults: 100,
//	})
package drive
