package batch

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Result is the outcome of one item in a batch operation.
type Result struct {
	ID     string `json:"id"`
	Status string `json:"status"` // "success" or "error"
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// BatchResult aggregates per-item results with summary counts.
type BatchResult struct {
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Results    []Result `json:"results"`
}

// ParseStringOrArray reads a tool argument that names one target or many: a
// plain string, an array of strings, or a string holding a JSON array (some
// MCP clients stringify their arguments). A string that starts with '[' but
// does not parse as a JSON string array is kept as a literal single name.
func ParseStringOrArray(param interface{}, paramName string) ([]string, error) {
	switch v := param.(type) {
	case nil:
		return nil, fmt.Errorf("%s is required", paramName)
	case string:
		if v == "" {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		if strings.HasPrefix(strings.TrimSpace(v), "[") {
			var items []string
			if err := json.Unmarshal([]byte(v), &items); err == nil {
				return validateItems(items, paramName)
			}
		}
		return []string{v}, nil
	case []interface{}:
		items := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a string", paramName, i)
			}
			items = append(items, s)
		}
		return validateItems(items, paramName)
	default:
		return nil, fmt.Errorf("%s must be a string or array of strings", paramName)
	}
}

func validateItems(items []string, paramName string) ([]string, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%s cannot be empty", paramName)
	}
	for i, s := range items {
		if s == "" {
			return nil, fmt.Errorf("%s[%d] cannot be empty", paramName, i)
		}
	}
	return items, nil
}

// ProcessBatch runs fn over each ID in order and records one Result per ID.
// A failing item does not stop the rest of the batch.
func ProcessBatch(ids []string, fn func(id string) (string, error)) []Result {
	results := make([]Result, 0, len(ids))
	for _, id := range ids {
		r := Result{ID: id}
		msg, err := fn(id)
		if err != nil {
			r.Status = "error"
			r.Error = err.Error()
		} else {
			r.Status = "success"
			r.Result = msg
		}
		results = append(results, r)
	}
	return results
}

// FormatResults renders the batch outcome as indented JSON for a tool reply.
func FormatResults(results []Result) string {
	br := BatchResult{Total: len(results), Results: results}
	for _, r := range results {
		if r.Status == "success" {
			br.Successful++
		} else {
			br.Failed++
		}
	}
	out, _ := json.MarshalIndent(br, "", "  ")
	return string(out)
}
