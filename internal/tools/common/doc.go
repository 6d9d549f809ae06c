// Package common holds helpers shared by the MCP tool packages: resolving
// the account a request addresses, and the instrumentation wrappers that
// report tool invocations to metrics and the audit log.
package common
