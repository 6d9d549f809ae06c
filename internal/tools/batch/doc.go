// Package batch supports MCP tools that accept one target or many.
//
// A tool argument naming files can arrive as a single string, an array of
// strings, or a stringified JSON array. ParseStringOrArray normalizes all
// three shapes, ProcessBatch applies an operation per item without stopping
// at the first failure, and FormatResults renders the per-item outcomes as
// JSON for the tool reply.
package batch
