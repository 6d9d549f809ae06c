// Package instrumentation provides OpenTelemetry instrumentation for the
// drivetasks CLI and MCP server.
//
// This package enables production-grade observability through:
//   - OpenTelemetry metrics for Drive/Sheets API calls, file transfers, and task runs
//   - Distributed tracing for task executions and API calls
//   - Prometheus metrics export via /metrics endpoint on dedicated port
//   - OTLP export support for modern observability platforms
//
// # Metrics
//
// The package exposes the following metric categories:
//
// Drive/Sheets API Metrics:
//   - drive_api_operations_total: Counter of API operations by service, operation, status
//   - drive_api_operation_duration_seconds: Histogram of API operation durations
//   - transfer_bytes_total: Counter of bytes moved to/from Drive by direction (up/down)
//
// Task Metrics:
//   - task_runs_total: Counter of CLI task executions by task name and status
//
// OAuth Authentication Metrics:
//   - oauth_auth_total: Counter of OAuth authentication events by result
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of MCP tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of MCP tool execution durations
//
// # Tracing
//
// Distributed tracing spans are created for:
//   - CLI task executions (task.<name>)
//   - MCP tool invocations (tool.<name>)
//   - Drive and Sheets API calls (google.<service>.<operation>)
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: drivetasks)
//
// # Example Usage
//
//	// Initialize instrumentation
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
//		ServiceName:    "drivetasks",
//		ServiceVersion: "0.1.0",
//		Enabled:        true,
//	})
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	// Get metrics recorder
//	recorder := provider.Metrics()
//
//	// Record a Drive API operation
//	recorder.RecordAPIOperation(ctx, "drive", "export", "success", time.Since(start))
//
//	// Record a downloaded file's size
//	recorder.RecordTransfer(ctx, instrumentation.DirectionDown, written)
//
//	// Record a completed task run
//	recorder.RecordTaskRun(ctx, instrumentation.TaskDownload, "success")
package instrumentation
