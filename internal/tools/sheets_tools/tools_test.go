package sheets_tools

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teilen/drivetasks/internal/google"
	"github.com/teilen/drivetasks/internal/server"
)

// clearCredentialEnv points every credential source at an empty location so
// handler tests exercise the unauthenticated paths deterministically.
func clearCredentialEnv(t *testing.T) {
	t.Helper()
	t.Setenv(google.EnvCredentialsFile, filepath.Join(t.TempDir(), "absent.json"))
	t.Setenv(google.EnvTokenFile, "")
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
}

func newTestServerContext(t *testing.T) *server.ServerContext {
	t.Helper()
	sc, err := server.NewServerContext(context.Background())
	if err != nil {
		t.Fatalf("Failed to create server context: %v", err)
	}
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func newToolRequest(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "sheets_update_values",
			Arguments: args,
		},
	}
}

// errorText extracts the message from an error result.
func errorText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("handler returned nil result")
	}
	if !result.IsError {
		t.Fatal("expected an error result")
	}
	if len(result.Content) == 0 {
		t.Fatal("error result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("error result content is %T, want TextContent", result.Content[0])
	}
	return text.Text
}

// TestRegisterSheetsTools tests registration in both server modes
func TestRegisterSheetsTools(t *testing.T) {
	clearCredentialEnv(t)
	sc := newTestServerContext(t)

	for _, readOnly := range []bool{true, false} {
		mcpSrv := mcpserver.NewMCPServer("test-server", "1.0.0",
			mcpserver.WithToolCapabilities(true),
		)

		if err := RegisterSheetsTools(mcpSrv, sc, readOnly); err != nil {
			t.Errorf("RegisterSheetsTools(readOnly=%v) error = %v", readOnly, err)
		}
	}
}

// TestHandleUpdateValuesValidation tests input validation for handleUpdateValues
func TestHandleUpdateValuesValidation(t *testing.T) {
	clearCredentialEnv(t)
	sc := newTestServerContext(t)
	ctx := context.Background()

	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{
			name: "missing spreadsheetId",
			args: map[string]interface{}{
				"sheet":  "Sheet1",
				"values": `[["a"]]`,
			},
			want: "spreadsheetId is required",
		},
		{
			name: "missing sheet",
			args: map[string]interface{}{
				"spreadsheetId": "sheet-1",
				"values":        `[["a"]]`,
			},
			want: "sheet is required",
		},
		{
			name: "missing values",
			args: map[string]interface{}{
				"spreadsheetId": "sheet-1",
				"sheet":         "Sheet1",
			},
			want: "values is required",
		},
		{
			name: "malformed json values",
			args: map[string]interface{}{
				"spreadsheetId": "sheet-1",
				"sheet":         "Sheet1",
				"values":        `not json`,
			},
			want: "sheets.parse",
		},
		{
			name: "unknown format",
			args: map[string]interface{}{
				"spreadsheetId": "sheet-1",
				"sheet":         "Sheet1",
				"values":        `[["a"]]`,
				"format":        "yaml",
			},
			want: "unknown values format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := handleUpdateValues(ctx, newToolRequest(tt.args), sc)
			if err != nil {
				t.Fatalf("handleUpdateValues() unexpected error = %v", err)
			}

			if msg := errorText(t, result); !strings.Contains(msg, tt.want) {
				t.Errorf("handleUpdateValues() message = %q, want it to contain %q", msg, tt.want)
			}
		})
	}
}

// TestHandleUpdateValuesRequiresCredentials verifies that a valid payload
// still fails with authentication guidance when no credentials exist.
func TestHandleUpdateValuesRequiresCredentials(t *testing.T) {
	clearCredentialEnv(t)
	sc := newTestServerContext(t)
	ctx := context.Background()

	args := map[string]interface{}{
		"spreadsheetId": "sheet-1",
		"sheet":         "Sheet1",
		"values":        `[["2026-01-02", 42.5]]`,
	}

	result, err := handleUpdateValues(ctx, newToolRequest(args), sc)
	if err != nil {
		t.Fatalf("handleUpdateValues() unexpected error = %v", err)
	}

	if msg := errorText(t, result); !strings.Contains(msg, "credentials") {
		t.Errorf("expected authentication guidance, got %q", msg)
	}
}

// TestHandleUpdateValuesCSVFormat verifies the csv format path reaches
// payload parsing before the credential check fails the call.
func TestHandleUpdateValuesCSVFormat(t *testing.T) {
	clearCredentialEnv(t)
	sc := newTestServerContext(t)
	ctx := context.Background()

	args := map[string]interface{}{
		"spreadsheetId": "sheet-1",
		"sheet":         "Sheet1",
		"values":        "date,price\n2026-01-02,42.5",
		"format":        "csv",
	}

	result, err := handleUpdateValues(ctx, newToolRequest(args), sc)
	if err != nil {
		t.Fatalf("handleUpdateValues() unexpected error = %v", err)
	}

	// The payload parses, so the failure must be the missing credentials.
	if msg := errorText(t, result); !strings.Contains(msg, "credentials") {
		t.Errorf("expected authentication guidance, got %q", msg)
	}
}
