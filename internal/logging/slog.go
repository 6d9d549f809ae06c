package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation = "operation"
	KeyService   = "service"
	KeyTool      = "tool"
	KeyFile      = "file"
	KeyFileID    = "file_id"
	KeyFolderID  = "folder_id"
	KeyBytes     = "bytes"
	KeyDuration  = "duration"
	KeyStatus    = "status"
	KeyError     = "error"
	KeyIdentity  = "identity"
)

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Service returns a slog attribute for the service name.
func Service(svc string) slog.Attr {
	return slog.String(KeyService, svc)
}

// Tool returns a slog attribute for the tool name.
func Tool(tool string) slog.Attr {
	return slog.String(KeyTool, tool)
}

// File returns a slog attribute for a file's display name.
func File(name string) slog.Attr {
	return slog.String(KeyFile, name)
}

// FileID returns a slog attribute for a Drive file ID.
func FileID(id string) slog.Attr {
	return slog.String(KeyFileID, id)
}

// FolderID returns a slog attribute for a Drive folder ID.
func FolderID(id string) slog.Attr {
	return slog.String(KeyFolderID, id)
}

// Bytes returns a slog attribute for a transfer size.
func Bytes(n int64) slog.Attr {
	return slog.Int64(KeyBytes, n)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Err returns a slog attribute for an error.
// If err is nil, returns an empty Group attribute that will be omitted from output.
// This allows safely passing Err(maybeNilErr) without adding empty attributes.
//
// Usage:
//
//	logger.Info("operation", logging.Err(err))  // Safe even if err is nil
func Err(err error) slog.Attr {
	if err == nil {
		// Return an empty Group that slog will omit from output
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// AnonymizeIdentity returns a hashed representation of a principal (such as a
// service account email) for logging purposes. This allows correlation of log
// entries without exposing the raw identity.
func AnonymizeIdentity(principal string) string {
	if principal == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(principal))
	return "sa:" + hex.EncodeToString(hash[:8])
}

// Identity returns a slog attribute with the anonymized principal.
//
// Usage:
//
//	logger.Info("credentials loaded", logging.Identity(creds.Email))
func Identity(principal string) slog.Attr {
	return slog.String(KeyIdentity, AnonymizeIdentity(principal))
}

// SanitizeToken returns a masked version of a token for logging.
// It returns a length indicator without exposing any token content,
// as even partial token prefixes (like JWT headers) can aid attacks.
func SanitizeToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[token:%d chars]", len(token))
}
