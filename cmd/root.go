package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the drivetasks application
var rootCmd = &cobra.Command{
	Use:   "drivetasks",
	Short: "Run Google Drive and Sheets file tasks",
	Long: `drivetasks runs small Google Drive and Google Sheets tasks from the
command line: listing folders, downloading and uploading files, writing
cell values into spreadsheets, and emptying folders.

It can run as:
  - A standalone CLI tool (default)
  - An MCP (Model Context Protocol) server for AI assistants`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configureLogging(debugMode)
	},
}

// debugMode raises the log level for every subcommand.
var debugMode bool

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// configureLogging routes structured logs to stderr. Stdout is reserved for
// task output (and for the MCP protocol in serve mode).
func configureLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "drivetasks version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newDownloadCmd())
	rootCmd.AddCommand(newWriteCmd())
	rootCmd.AddCommand(newUploadCmd())
	rootCmd.AddCommand(newEmptyCmd())
	rootCmd.AddCommand(newStatCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
