package instrumentation

import "strings"

// Cardinality management helpers for metrics.
// These functions reduce high-cardinality label values to prevent metrics explosion.
//
// # Warning
//
// High cardinality in metrics can cause:
// - Increased memory usage in Prometheus/metrics backends
// - Slower query performance
// - Higher storage costs
//
// Always use these helpers when recording metrics with credential identifiers.

// ExtractIdentityDomain extracts the domain part from a credential identity
// (a service account or user email address). This reduces cardinality by
// using the domain instead of the full identity.
//
// Example:
//
//	ExtractIdentityDomain("runner@acme-project.iam.gserviceaccount.com")  // "acme-project.iam.gserviceaccount.com"
//	ExtractIdentityDomain("jane@example.com")                             // "example.com"
//	ExtractIdentityDomain("invalid")                                      // "unknown"
//	ExtractIdentityDomain("")                                             // "unknown"
func ExtractIdentityDomain(identity string) string {
	if identity == "" {
		return "unknown"
	}

	parts := strings.Split(identity, "@")
	if len(parts) == 2 && parts[1] != "" {
		return parts[1]
	}

	return "unknown"
}

// Common operation types for Drive and Sheets API metrics.
// Status, OAuth, and Service constants are defined in config.go.
const (
	OperationList     = "list"
	OperationGet      = "get"
	OperationCreate   = "create"
	OperationUpdate   = "update"
	OperationDelete   = "delete"
	OperationDownload = "download"
	OperationExport   = "export"
	OperationUpload   = "upload"
)

// Task names recorded in task_runs_total.
const (
	TaskList     = "list"
	TaskDownload = "download"
	TaskWrite    = "write"
	TaskUpload   = "upload"
	TaskEmpty    = "empty"
	TaskStat     = "stat"
)
