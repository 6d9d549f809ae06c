package sheets

import (
	"context"

	sheets "google.golang.org/api/sheets/v4"

	"github.com/teilen/drivetasks/internal/google"
	"github.com/teilen/drivetasks/internal/taskerror"
)

// Client wraps the Google Sheets API service
type Client struct {
	service *sheets.Service
}

// NewClient creates a new Google Sheets client using the resolved credentials.
// Returns an authentication error when no credential source is available.
func NewClient(ctx context.Context) (*Client, error) {
	opts, err := google.ClientOptions(ctx)
	if err != nil {
		return nil, err
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, taskerror.Classify("sheets.connect", err)
	}

	return &Client{service: service}, nil
}

// NewClientWithProvider creates a client with credentials from the given provider.
func NewClientWithProvider(ctx context.Context, provider google.CredentialsProvider) (*Client, error) {
	opts, err := provider.ClientOptions(ctx)
	if err != nil {
		return nil, err
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, taskerror.Classify("sheets.connect", err)
	}

	return &Client{service: service}, nil
}

// NewClientForAccount creates a Sheets client for a specific named account.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	opts, err := google.ClientOptionsForAccount(ctx, account)
	if err != nil {
		return nil, err
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, taskerror.Classify("sheets.connect", err)
	}

	return &Client{service: service}, nil
}

// HasCredentialsForAccount reports whether the named account can authenticate.
func HasCredentialsForAccount(account string) bool {
	return google.HasCredentialsForAccount(account)
}

// UpdateResult summarizes a values update.
type UpdateResult struct {
	// UpdatedRange is the range the API actually wrote, in A1 notation.
	UpdatedRange string `json:"updatedRange"`

	// UpdatedRows is the number of rows written.
	UpdatedRows int64 `json:"updatedRows"`

	// UpdatedColumns is the number of columns written.
	UpdatedColumns int64 `json:"updatedColumns"`

	// UpdatedCells is the number of cells written.
	UpdatedCells int64 `json:"updatedCells"`
}

// UpdateValues writes values into the given A1 range of a spreadsheet. Values
// are written RAW, exactly as provided, without Sheets-side parsing.
func (c *Client) UpdateValues(ctx context.Context, spreadsheetID, rng string, values [][]any) (*UpdateResult, error) {
	if spreadsheetID == "" {
		return nil, taskerror.New(taskerror.KindValidation, "spreadsheetID is required")
	}
	if rng == "" {
		return nil, taskerror.New(taskerror.KindValidation, "range is required")
	}
	if len(values) == 0 {
		return nil, taskerror.New(taskerror.KindValidation, "values must contain at least one row")
	}

	body := &sheets.ValueRange{Values: values}

	resp, err := c.service.Spreadsheets.Values.Update(spreadsheetID, rng, body).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return nil, taskerror.Classify("sheets.update", err)
	}

	return &UpdateResult{
		UpdatedRange:   resp.UpdatedRange,
		UpdatedRows:    resp.UpdatedRows,
		UpdatedColumns: resp.UpdatedColumns,
		UpdatedCells:   resp.UpdatedCells,
	}, nil
}
