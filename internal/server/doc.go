// Package server provides the shared state and side listeners for serve mode.
//
// ServerContext manages Google API clients with lazy initialization and
// caching. Clients are keyed by account name: the default account follows the
// standard credential resolution chain, while named accounts map to key files
// in the accounts directory. The context also carries the metrics recorder
// and audit logger that tool handlers report into.
//
// MetricsServer exposes Prometheus metrics on a dedicated listener, keeping
// stdout reserved for the MCP protocol. HealthChecker serves liveness and
// readiness probes on the same listener.
package server
