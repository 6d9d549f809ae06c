package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teilen/drivetasks/internal/instrumentation"
	"github.com/teilen/drivetasks/internal/logging"
	"github.com/teilen/drivetasks/internal/server"
	"github.com/teilen/drivetasks/internal/tools/drive_tools"
	"github.com/teilen/drivetasks/internal/tools/sheets_tools"
)

// metricsStartTimeout bounds how long serve waits for the metrics listener.
const metricsStartTimeout = 5 * time.Second

// newServeCmd creates the serve command
func newServeCmd() *cobra.Command {
	var (
		yoloMode       bool
		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start MCP server mode",
		Long: `Start the application as an MCP server on stdio, exposing the Drive and
Sheets tasks as tools for AI assistants.

Tools that modify Drive (upload, write, delete, empty) are disabled unless
--yolo is given. When instrumentation is enabled a separate HTTP listener
serves Prometheus metrics and health endpoints.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Flags win over the environment; the env vars cover
			// deployments that cannot pass flags.
			if !cmd.Flags().Changed("metrics-enabled") {
				if v := os.Getenv("METRICS_ENABLED"); v != "" {
					if parsed, err := strconv.ParseBool(v); err == nil {
						metricsEnabled = parsed
					}
				}
			}
			if !cmd.Flags().Changed("metrics-addr") {
				if addr := os.Getenv("METRICS_ADDR"); addr != "" {
					metricsAddr = addr
				}
			}
			return runServe(yoloMode, metricsEnabled, metricsAddr)
		},
	}

	cmd.Flags().BoolVar(&yoloMode, "yolo", false, "Enable tools that modify Drive (upload, write, delete, empty)")
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Expose Prometheus metrics and health endpoints")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Listen address for metrics and health endpoints")

	return cmd
}

func runServe(yoloMode, metricsEnabled bool, metricsAddr string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize instrumentation: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to shutdown instrumentation", logging.Err(err))
		}
	}()

	serverContext, err := server.NewServerContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
		serverContext.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(nil, instrConfig.AuditLogging))
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			slog.Error("Failed to shutdown server context", logging.Err(err))
		}
	}()

	healthChecker := server.NewHealthChecker(serverContext)

	if metricsEnabled && provider.Enabled() {
		metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    metricsAddr,
			Enabled:                 true,
			InstrumentationProvider: provider,
			HealthChecker:           healthChecker,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		ready := make(chan struct{})
		startErr := make(chan error, 1)
		go func() {
			if err := metricsServer.StartWithReadySignal(ready); err != nil && !errors.Is(err, http.ErrServerClosed) {
				startErr <- err
			}
		}()
		select {
		case <-ready:
			slog.Info("Metrics server listening", "addr", metricsServer.BoundAddr())
		case err := <-startErr:
			return fmt.Errorf("failed to start metrics server: %w", err)
		case <-time.After(metricsStartTimeout):
			return errors.New("timed out waiting for metrics server to start")
		}
		// Registered after the server context shutdown, so the listener
		// goes away first.
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("Failed to shutdown metrics server", logging.Err(err))
			}
		}()
	}

	mcpSrv := mcpserver.NewMCPServer("drivetasks", version,
		mcpserver.WithToolCapabilities(true),
	)

	readOnly := !yoloMode
	if readOnly {
		slog.Info("Starting in read-only mode; tools that modify Drive are disabled (enable with --yolo)")
	} else {
		slog.Warn("Tools that modify Drive are enabled")
	}

	if err := registerAllTools(mcpSrv, serverContext, readOnly); err != nil {
		return fmt.Errorf("failed to register tools: %w", err)
	}

	slog.Info("Starting MCP server on stdio", "version", version, "readOnly", readOnly)
	return runStdioServer(ctx, mcpSrv)
}

// toolRegistration binds a tool family to its registration function.
type toolRegistration struct {
	name     string
	register func(*mcpserver.MCPServer, *server.ServerContext, bool) error
}

func registerAllTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	registrations := []toolRegistration{
		{"Drive", drive_tools.RegisterDriveTools},
		{"Sheets", sheets_tools.RegisterSheetsTools},
	}

	for _, reg := range registrations {
		if err := reg.register(s, sc, readOnly); err != nil {
			return fmt.Errorf("failed to register %s tools: %w", reg.name, err)
		}
		slog.Debug("Registered tools", "family", reg.name)
	}
	return nil
}

// runStdioServer serves MCP over stdio until the client disconnects or the
// context is cancelled by a signal.
func runStdioServer(ctx context.Context, s *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		serverDone <- mcpserver.ServeStdio(s)
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down")
		return nil
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	}
}
