package drive

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"github.com/teilen/drivetasks/internal/google"
	"github.com/teilen/drivetasks/internal/taskerror"
)

const (
	// FolderMimeType is the MIME type for Google Drive folders
	FolderMimeType = "application/vnd.google-apps.folder"

	// SpreadsheetMimeType is the MIME type for native Google Sheets documents
	SpreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

	// XLSXMimeType is the MIME type files are exported as
	XLSXMimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// DefaultUploadMimeType is used when an upload does not specify a content type
	DefaultUploadMimeType = "text/plain"
)

const (
	fileFields = "id, name, mimeType, size, createdTime, modifiedTime, webViewLink, parents, trashed"
	listFields = "nextPageToken, files(" + fileFields + ")"
)

// Client wraps the Google Drive API service
type Client struct {
	service *drive.Service
}

// NewClient creates a new Google Drive client using the resolved credentials.
// Returns an authentication error when no credential source is available.
func NewClient(ctx context.Context) (*Client, error) {
	opts, err := google.ClientOptions(ctx)
	if err != nil {
		return nil, err
	}

	service, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, taskerror.Classify("drive.connect", err)
	}

	return &Client{service: service}, nil
}

// NewClientWithProvider creates a client with credentials from the given provider.
func NewClientWithProvider(ctx context.Context, provider google.CredentialsProvider) (*Client, error) {
	opts, err := provider.ClientOptions(ctx)
	if err != nil {
		return nil, err
	}

	service, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, taskerror.Classify("drive.connect", err)
	}

	return &Client{service: service}, nil
}

// NewClientForAccount creates a Drive client for a specific named account.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	opts, err := google.ClientOptionsForAccount(ctx, account)
	if err != nil {
		return nil, err
	}

	service, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, taskerror.Classify("drive.connect", err)
	}

	return &Client{service: service}, nil
}

// HasCredentialsForAccount reports whether the named account can authenticate.
func HasCredentialsForAccount(account string) bool {
	return google.HasCredentialsForAccount(account)
}

// ListFiles lists files in Google Drive with optional filtering
func (c *Client) ListFiles(ctx context.Context, options *ListOptions) ([]*FileInfo, string, error) {
	call := c.service.Files.List().
		Context(ctx).
		Fields(listFields)

	if options == nil {
		options = &ListOptions{}
	}

	if q := buildListFilesQuery(options.Query, options.FolderID, options.IncludeTrashed); q != "" {
		call = call.Q(q)
	}
	if options.MaxResults > 0 {
		call = call.PageSize(int64(options.MaxResults))
	}
	if options.OrderBy != "" {
		call = call.OrderBy(options.OrderBy)
	}
	if options.PageToken != "" {
		call = call.PageToken(options.PageToken)
	}

	fileList, err := call.Do()
	if err != nil {
		return nil, "", taskerror.Classify("drive.list", err)
	}

	files := make([]*FileInfo, len(fileList.Files))
	for i, f := range fileList.Files {
		files[i] = convertToFileInfo(f)
	}

	return files, fileList.NextPageToken, nil
}

// ForeachFile iterates over all files matching the options, following
// pagination until the listing is exhausted or fn returns an error.
func (c *Client) ForeachFile(ctx context.Context, options *ListOptions, fn func(*FileInfo) error) error {
	opts := ListOptions{}
	if options != nil {
		opts = *options
	}
	opts.PageToken = ""

	for {
		files, nextPageToken, err := c.ListFiles(ctx, &opts)
		if err != nil {
			return err
		}
		for _, f := range files {
			if err := fn(f); err != nil {
				return err
			}
		}
		if nextPageToken == "" {
			return nil
		}
		opts.PageToken = nextPageToken
	}
}

// FindByName returns the first file whose name exactly matches name.
// An optional folderID restricts the search to direct children of that folder.
func (c *Client) FindByName(ctx context.Context, name, folderID string) (*FileInfo, error) {
	if name == "" {
		return nil, taskerror.New(taskerror.KindValidation, "file name is required")
	}

	files, _, err := c.ListFiles(ctx, &ListOptions{
		Query:      "name = '" + escapeQuery(name) + "'",
		FolderID:   folderID,
		MaxResults: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, taskerror.Newf(taskerror.KindNotFound, "no file named %q", name)
	}
	return files[0], nil
}

// GetFile retrieves metadata for a specific file
func (c *Client) GetFile(ctx context.Context, fileID string) (*FileInfo, error) {
	if fileID == "" {
		return nil, taskerror.New(taskerror.KindValidation, "fileID is required")
	}

	file, err := c.service.Files.Get(fileID).
		Context(ctx).
		Fields(fileFields).
		Do()
	if err != nil {
		return nil, taskerror.Classify("drive.get", err)
	}

	return convertToFileInfo(file), nil
}

// ModifiedTime returns the last modification time of a file.
func (c *Client) ModifiedTime(ctx context.Context, fileID string) (time.Time, error) {
	if fileID == "" {
		return time.Time{}, taskerror.New(taskerror.KindValidation, "fileID is required")
	}

	file, err := c.service.Files.Get(fileID).
		Context(ctx).
		Fields("modifiedTime").
		Do()
	if err != nil {
		return time.Time{}, taskerror.Classify("drive.get", err)
	}

	t, err := time.Parse(time.RFC3339, file.ModifiedTime)
	if err != nil {
		return time.Time{}, taskerror.Wrap(taskerror.KindUnknown, "drive.get", err)
	}
	return t, nil
}

// Download streams the raw content of a file to w and returns the number of
// bytes written.
func (c *Client) Download(ctx context.Context, fileID string, w io.Writer) (int64, error) {
	if fileID == "" {
		return 0, taskerror.New(taskerror.KindValidation, "fileID is required")
	}

	resp, err := c.service.Files.Get(fileID).
		Context(ctx).
		Download()
	if err != nil {
		return 0, classifyTransfer("drive.download", err)
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, taskerror.Classify("drive.download", err)
	}
	return n, nil
}

// Export converts a Google Workspace document to the given MIME type and
// streams it to w, returning the number of bytes written.
func (c *Client) Export(ctx context.Context, fileID, mimeType string, w io.Writer) (int64, error) {
	if fileID == "" {
		return 0, taskerror.New(taskerror.KindValidation, "fileID is required")
	}
	if mimeType == "" {
		return 0, taskerror.New(taskerror.KindValidation, "export MIME type is required")
	}

	resp, err := c.service.Files.Export(fileID, mimeType).
		Context(ctx).
		Download()
	if err != nil {
		return 0, classifyTransfer("drive.export", err)
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, taskerror.Classify("drive.export", err)
	}
	return n, nil
}

// classifyTransfer maps download and export failures, distinguishing
// unsupported-format responses from the generic status mapping. The Drive API
// reports those as 400s on export and reason-coded 403s on media downloads.
func classifyTransfer(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		for _, item := range apiErr.Errors {
			switch item.Reason {
			case "fileNotDownloadable", "fileNotExportable", "exportSizeLimitExceeded":
				return taskerror.Wrap(taskerror.KindFormat, op, err)
			}
		}
		if apiErr.Code == 400 && op == "drive.export" {
			return taskerror.Wrap(taskerror.KindFormat, op, err)
		}
	}
	return taskerror.Classify(op, err)
}

// Upload uploads a file to Google Drive
func (c *Client) Upload(ctx context.Context, name string, content io.Reader, options *UploadOptions) (*FileInfo, error) {
	if name == "" {
		return nil, taskerror.New(taskerror.KindValidation, "file name is required")
	}
	if content == nil {
		return nil, taskerror.New(taskerror.KindValidation, "file content is required")
	}

	file := &drive.File{
		Name: name,
	}

	mimeType := DefaultUploadMimeType
	if options != nil {
		if len(options.ParentFolders) > 0 {
			file.Parents = options.ParentFolders
		}
		if options.Description != "" {
			file.Description = options.Description
		}
		if options.MimeType != "" {
			mimeType = options.MimeType
		}
	}

	driveFile, err := c.service.Files.Create(file).
		Context(ctx).
		Media(content, googleapi.ContentType(mimeType)).
		Fields(fileFields).
		Do()
	if err != nil {
		return nil, taskerror.Classify("drive.upload", err)
	}

	return convertToFileInfo(driveFile), nil
}

// UploadPath uploads a local file into folderID, keeping its base name.
// A missing local file surfaces as a not-found error.
func (c *Client) UploadPath(ctx context.Context, path, folderID string) (*FileInfo, error) {
	if path == "" {
		return nil, taskerror.New(taskerror.KindValidation, "local path is required")
	}
	if folderID == "" {
		return nil, taskerror.New(taskerror.KindValidation, "folderID is required")
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, taskerror.Newf(taskerror.KindNotFound, "local file %s does not exist", path)
		}
		return nil, taskerror.Wrap(taskerror.KindUnknown, "drive.upload", err)
	}
	defer f.Close()

	return c.Upload(ctx, filepath.Base(path), f, &UploadOptions{
		ParentFolders: []string{folderID},
	})
}

// Delete deletes a file from Google Drive
func (c *Client) Delete(ctx context.Context, fileID string) error {
	if fileID == "" {
		return taskerror.New(taskerror.KindValidation, "fileID is required")
	}

	if err := c.service.Files.Delete(fileID).Context(ctx).Do(); err != nil {
		return taskerror.Classify("drive.delete", err)
	}

	return nil
}

// EmptyFolder deletes every file that is a direct child of folderID and
// returns the number of files deleted. Deletion stops at the first failure,
// reporting how many files were removed before it.
func (c *Client) EmptyFolder(ctx context.Context, folderID string) (int, error) {
	if folderID == "" {
		return 0, taskerror.New(taskerror.KindValidation, "folderID is required")
	}

	// Collect IDs first so deletions don't invalidate pagination.
	var ids []string
	err := c.ForeachFile(ctx, &ListOptions{
		FolderID:   folderID,
		MaxResults: 1000,
	}, func(f *FileInfo) error {
		ids = append(ids, f.ID)
		return nil
	})
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, id := range ids {
		if err := c.Delete(ctx, id); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// CreateFolder creates a new folder in Google Drive
func (c *Client) CreateFolder(ctx context.Context, name string, parentFolders []string) (*FileInfo, error) {
	if name == "" {
		return nil, taskerror.New(taskerror.KindValidation, "folder name is required")
	}

	file := &drive.File{
		Name:     name,
		MimeType: FolderMimeType,
	}
	if len(parentFolders) > 0 {
		file.Parents = parentFolders
	}

	driveFile, err := c.service.Files.Create(file).
		Context(ctx).
		Fields(fileFields).
		Do()
	if err != nil {
		return nil, taskerror.Classify("drive.create_folder", err)
	}

	return convertToFileInfo(driveFile), nil
}

// EnsureFolder returns the folder named name under parentID, creating it
// when absent.
func (c *Client) EnsureFolder(ctx context.Context, name, parentID string) (*FileInfo, error) {
	if name == "" {
		return nil, taskerror.New(taskerror.KindValidation, "folder name is required")
	}

	files, _, err := c.ListFiles(ctx, &ListOptions{
		Query:      "name = '" + escapeQuery(name) + "' and mimeType = '" + FolderMimeType + "'",
		FolderID:   parentID,
		MaxResults: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(files) > 0 {
		return files[0], nil
	}

	var parents []string
	if parentID != "" {
		parents = []string{parentID}
	}
	return c.CreateFolder(ctx, name, parents)
}

// buildListFilesQuery composes the Drive query string from the user query,
// the folder scope and the trashed filter.
func buildListFilesQuery(userQuery, folderID string, includeTrashed bool) string {
	var terms []string

	if userQuery != "" {
		if folderID != "" || !includeTrashed {
			terms = append(terms, "("+userQuery+")")
		} else {
			terms = append(terms, userQuery)
		}
	}
	if folderID != "" {
		terms = append(terms, "'"+escapeQuery(folderID)+"' in parents")
	}
	if !includeTrashed {
		terms = append(terms, "trashed=false")
	}

	return strings.Join(terms, " and ")
}

// escapeQuery escapes a literal value for inclusion in a Drive query string.
func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

// convertToFileInfo converts a Drive API File to our FileInfo type
func convertToFileInfo(f *drive.File) *FileInfo {
	fileInfo := &FileInfo{
		ID:          f.Id,
		Name:        f.Name,
		MimeType:    f.MimeType,
		Size:        f.Size,
		WebViewLink: f.WebViewLink,
		Parents:     f.Parents,
		Trashed:     f.Trashed,
	}

	// Parse timestamps
	if f.CreatedTime != "" {
		if t, err := time.Parse(time.RFC3339, f.CreatedTime); err == nil {
			fileInfo.CreatedTime = t
		}
	}
	if f.ModifiedTime != "" {
		if t, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
			fileInfo.ModifiedTime = t
		}
	}

	return fileInfo
}
