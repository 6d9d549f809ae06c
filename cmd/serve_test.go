package cmd

import (
	"context"
	"path/filepath"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teilen/drivetasks/internal/google"
	"github.com/teilen/drivetasks/internal/server"
)

// clearCredentialEnv points every credential source at an empty location so
// tests never pick up real credentials from the machine.
func clearCredentialEnv(t *testing.T) {
	t.Helper()
	t.Setenv(google.EnvCredentialsFile, filepath.Join(t.TempDir(), "absent.json"))
	t.Setenv(google.EnvTokenFile, "")
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
}

func TestRegisterAllTools(t *testing.T) {
	clearCredentialEnv(t)

	tests := []struct {
		name     string
		readOnly bool
		want     []string
		absent   []string
	}{
		{
			name:     "read-only mode registers only read tools",
			readOnly: true,
			want: []string{
				"drive_list_files",
				"drive_stat_file",
				"drive_download_file",
			},
			absent: []string{
				"drive_upload_file",
				"drive_delete_file",
				"drive_empty_folder",
				"sheets_update_values",
			},
		},
		{
			name:     "yolo mode registers write tools as well",
			readOnly: false,
			want: []string{
				"drive_list_files",
				"drive_stat_file",
				"drive_download_file",
				"drive_upload_file",
				"drive_delete_file",
				"drive_empty_folder",
				"sheets_update_values",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sc, err := server.NewServerContext(context.Background())
			require.NoError(t, err)
			t.Cleanup(func() { _ = sc.Shutdown() })

			s := mcpserver.NewMCPServer("drivetasks-test", "0.0.0",
				mcpserver.WithToolCapabilities(true),
			)
			require.NoError(t, registerAllTools(s, sc, tc.readOnly))

			registered := make(map[string]bool)
			for _, serverTool := range s.ListTools() {
				registered[serverTool.Tool.Name] = true
			}

			for _, name := range tc.want {
				assert.True(t, registered[name], "tool %s should be registered", name)
			}
			for _, name := range tc.absent {
				assert.False(t, registered[name], "tool %s should not be registered", name)
			}
		})
	}
}
