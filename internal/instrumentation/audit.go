package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/teilen/drivetasks/internal/logging"
)

// Invocation captures all information about a task or tool invocation for
// audit logging. This provides a comprehensive audit trail for CLI task runs
// and MCP tool calls alike.
//
// # Privacy Considerations
//
// The Identity field contains the credential identity (typically the service
// account email). When logging, consider:
//   - Using IdentityDomain() to get only the domain for metrics/general logs
//   - Only logging the full identity in audit-specific log streams
//   - Ensuring audit logs have appropriate access controls
type Invocation struct {
	// Tool name, set when invoked as an MCP tool
	Tool string

	// Task name, set when invoked as a CLI task
	Task string

	// Identity of the credential used (service account email)
	Identity string

	// Target information for Google services
	ServiceName string // Google service (drive, sheets)
	Operation   string // Operation type (list, get, download, export, upload, update, delete)

	// File information, when the invocation targets a single file
	File   string // Display name
	FileID string // Drive file ID
	Bytes  int64  // Bytes transferred, when applicable

	// Execution details
	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	// Tracing context
	TraceID string
	SpanID  string
}

// Name returns the tool name for tool invocations or the task name for task runs.
func (in *Invocation) Name() string {
	if in.Tool != "" {
		return in.Tool
	}
	return in.Task
}

// IdentityDomain returns the domain portion of the credential identity for
// lower-cardinality logging.
func (in *Invocation) IdentityDomain() string {
	return ExtractIdentityDomain(in.Identity)
}

// Status returns "success" or "error" based on the Success field.
func (in *Invocation) Status() string {
	if in.Success {
		return StatusSuccess
	}
	return StatusError
}

// LogAttrs returns slog attributes for structured logging.
// This provides a consistent set of fields for all invocation logs.
//
// # Cardinality
//
// This function uses cardinality-controlled values (identity_domain)
// for metrics-compatible logging. For full audit logging, use LogAuditAttrs.
func (in *Invocation) LogAttrs() []slog.Attr {
	attrs := make([]slog.Attr, 0, 10)
	if in.Tool != "" {
		attrs = append(attrs, logging.Tool(in.Tool))
	}
	if in.Task != "" {
		attrs = append(attrs, slog.String("task", in.Task))
	}
	attrs = append(attrs,
		slog.String("identity_domain", in.IdentityDomain()),
		slog.Duration(logging.KeyDuration, in.Duration),
		slog.Bool("success", in.Success),
	)

	// Add optional fields only if present
	if in.ServiceName != "" {
		attrs = append(attrs, logging.Service(in.ServiceName))
	}
	if in.Operation != "" {
		attrs = append(attrs, logging.Operation(in.Operation))
	}
	if in.FileID != "" {
		attrs = append(attrs, logging.FileID(in.FileID))
	}
	if in.Bytes > 0 {
		attrs = append(attrs, logging.Bytes(in.Bytes))
	}
	if in.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", in.TraceID))
	}
	if in.Error != "" {
		attrs = append(attrs, slog.String(logging.KeyError, in.Error))
	}

	return attrs
}

// LogAuditAttrs returns slog attributes for full audit logging.
// This includes the full credential identity and file display names for
// compliance/audit purposes.
//
// # Security Warning
//
// This method includes sensitive values. Ensure audit logs are:
//   - Stored securely with appropriate access controls
//   - Not exposed to general monitoring dashboards
//   - Retained according to compliance requirements
func (in *Invocation) LogAuditAttrs() []slog.Attr {
	attrs := make([]slog.Attr, 0, 12)
	if in.Tool != "" {
		attrs = append(attrs, logging.Tool(in.Tool))
	}
	if in.Task != "" {
		attrs = append(attrs, slog.String("task", in.Task))
	}
	attrs = append(attrs,
		slog.String(logging.KeyIdentity, in.Identity),
		slog.Duration(logging.KeyDuration, in.Duration),
		slog.Bool("success", in.Success),
	)

	// Add all optional fields
	if in.ServiceName != "" {
		attrs = append(attrs, logging.Service(in.ServiceName))
	}
	if in.Operation != "" {
		attrs = append(attrs, logging.Operation(in.Operation))
	}
	if in.File != "" {
		attrs = append(attrs, logging.File(in.File))
	}
	if in.FileID != "" {
		attrs = append(attrs, logging.FileID(in.FileID))
	}
	if in.Bytes > 0 {
		attrs = append(attrs, logging.Bytes(in.Bytes))
	}
	if in.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", in.TraceID))
	}
	if in.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", in.SpanID))
	}
	if in.Error != "" {
		attrs = append(attrs, slog.String(logging.KeyError, in.Error))
	}

	return attrs
}

// NewToolInvocation creates a new Invocation for an MCP tool call with timing started.
// Call Complete() when the tool operation finishes.
func NewToolInvocation(tool string) *Invocation {
	return &Invocation{
		Tool:      tool,
		StartTime: time.Now(),
	}
}

// NewTaskInvocation creates a new Invocation for a CLI task run with timing started.
// Call Complete() when the task finishes.
func NewTaskInvocation(task string) *Invocation {
	return &Invocation{
		Task:      task,
		StartTime: time.Now(),
	}
}

// WithIdentity sets the credential identity.
func (in *Invocation) WithIdentity(identity string) *Invocation {
	in.Identity = identity
	return in
}

// WithService sets the Google service and operation.
func (in *Invocation) WithService(serviceName, operation string) *Invocation {
	in.ServiceName = serviceName
	in.Operation = operation
	return in
}

// WithFile sets the target file information.
func (in *Invocation) WithFile(name, id string) *Invocation {
	in.File = name
	in.FileID = id
	return in
}

// WithBytes sets the transferred byte count.
func (in *Invocation) WithBytes(n int64) *Invocation {
	in.Bytes = n
	return in
}

// WithSpanContext extracts trace context from the current span.
func (in *Invocation) WithSpanContext(ctx context.Context) *Invocation {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		in.TraceID = span.SpanContext().TraceID().String()
		in.SpanID = span.SpanContext().SpanID().String()
	}
	return in
}

// Complete marks the invocation as completed and calculates duration.
// Returns the same Invocation for method chaining.
func (in *Invocation) Complete(success bool, err error) *Invocation {
	in.Duration = time.Since(in.StartTime)
	in.Success = success
	if err != nil {
		in.Error = err.Error()
	}
	return in
}

// CompleteWithError marks the invocation as failed with the given error.
func (in *Invocation) CompleteWithError(err error) *Invocation {
	return in.Complete(false, err)
}

// CompleteSuccess marks the invocation as successful.
func (in *Invocation) CompleteSuccess() *Invocation {
	return in.Complete(true, nil)
}

// AuditLogger provides structured audit logging for task and tool invocations.
// It wraps slog.Logger with convenience methods for logging operations.
type AuditLogger struct {
	logger     *slog.Logger
	includePII bool
	enabled    bool
}

// NewAuditLogger creates a new AuditLogger with the given slog.Logger.
// By default, the full credential identity is not included in logs
// (the identity domain is used instead).
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:     logger,
		includePII: false,
		enabled:    true,
	}
}

// NewAuditLoggerWithConfig creates a new AuditLogger with the given configuration.
func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:     logger,
		includePII: config.IncludePII,
		enabled:    config.Enabled,
	}
}

// SetIncludePII sets whether to include the full credential identity in audit logs.
func (al *AuditLogger) SetIncludePII(include bool) {
	al.includePII = include
}

// SetEnabled sets whether audit logging is enabled.
func (al *AuditLogger) SetEnabled(enabled bool) {
	al.enabled = enabled
}

// LogInvocation logs a task or tool invocation using the standard log attributes.
// This is suitable for general operational logging with cardinality controls.
// If the logger is configured with IncludePII, the full credential identity is
// logged; otherwise, only the identity domain is used.
func (al *AuditLogger) LogInvocation(in *Invocation) {
	if !al.enabled {
		return
	}

	// Choose between PII and anonymized logging based on configuration
	var attrs []slog.Attr
	if al.includePII {
		attrs = in.LogAuditAttrs()
	} else {
		attrs = in.LogAttrs()
	}

	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}

	switch {
	case in.Success && in.Task != "":
		al.logger.Info("task_completed", args...)
	case in.Success:
		al.logger.Info("tool_executed", args...)
	case in.Task != "":
		al.logger.Warn("task_failed", args...)
	default:
		al.logger.Warn("tool_failed", args...)
	}
}

// LogAudit logs an invocation with full audit details.
// This includes sensitive values (full credential identity, file names) for
// compliance/audit purposes.
// SECURITY: Ensure audit logs are routed to secure storage with appropriate access controls.
//
// Note: This method respects the enabled flag but always includes the full
// identity when called, regardless of the IncludePII configuration. Use
// LogInvocation for configuration-aware logging.
func (al *AuditLogger) LogAudit(in *Invocation) {
	if !al.enabled {
		return
	}

	attrs := in.LogAuditAttrs()
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}

	if in.Task != "" {
		al.logger.Info("task_audit", args...)
	} else {
		al.logger.Info("tool_audit", args...)
	}
}
