// Package logging provides structured logging utilities for the drivetasks application.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - Credential sanitization (identity hashing, token masking)
//   - Consistent attribute naming across the codebase
//
// # Usage Patterns
//
// Log with standard attributes:
//
//	slog.Info("file downloaded",
//	    logging.File(name),
//	    logging.Bytes(written))
//
// Sanitize sensitive data before logging:
//
//	slog.Debug("credentials loaded",
//	    logging.Identity(creds.Email))
//
// # Security Considerations
//
// This package is designed with security in mind:
//   - Principals are hashed to prevent credential leakage while allowing correlation
//   - Tokens are never logged directly
package logging
