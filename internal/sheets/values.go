package sheets

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/teilen/drivetasks/internal/taskerror"
)

// DefaultCellAddress is the top-left cell a write targets when none is given,
// leaving row 1 free for headers.
const DefaultCellAddress = "A2"

// Value formats accepted by ParseValues.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// Range builds an A1-notation range from a sheet name and a cell address,
// quoting the sheet name when it needs it. An empty cell address defaults to
// DefaultCellAddress.
func Range(sheetName, cellAddress string) string {
	if cellAddress == "" {
		cellAddress = DefaultCellAddress
	}
	if sheetName == "" {
		return cellAddress
	}
	return quoteSheetName(sheetName) + "!" + cellAddress
}

// quoteSheetName wraps the sheet name in single quotes unless it is a plain
// identifier. Embedded quotes are doubled per A1 notation.
func quoteSheetName(name string) string {
	if isPlainSheetName(name) {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func isPlainSheetName(name string) bool {
	for i, r := range name {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return name != ""
}

// ParseValues decodes a row payload into the cell matrix UpdateValues expects.
// CSV input coerces numeric and boolean fields to their typed values so RAW
// writes land as numbers rather than digit strings; JSON input must be an
// array of row arrays. Malformed payloads are validation errors.
func ParseValues(format string, data []byte) ([][]any, error) {
	switch strings.ToLower(format) {
	case FormatCSV:
		return parseCSVValues(data)
	case FormatJSON:
		return parseJSONValues(data)
	default:
		return nil, taskerror.Newf(taskerror.KindValidation,
			"unknown values format %q (want csv or json)", format)
	}
}

func parseCSVValues(data []byte) ([][]any, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	var rows [][]any
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, taskerror.Wrap(taskerror.KindValidation, "sheets.parse", err)
		}
		row := make([]any, len(record))
		for i, field := range record {
			row[i] = coerceScalar(field)
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, taskerror.New(taskerror.KindValidation, "values payload is empty")
	}
	return rows, nil
}

func parseJSONValues(data []byte) ([][]any, error) {
	var rows [][]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, taskerror.Wrap(taskerror.KindValidation, "sheets.parse", err)
	}
	if len(rows) == 0 {
		return nil, taskerror.New(taskerror.KindValidation, "values payload is empty")
	}
	return rows, nil
}

// coerceScalar maps a CSV field to a typed cell value.
func coerceScalar(field string) any {
	if i, err := strconv.ParseInt(field, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(field, 64); err == nil {
		return f
	}
	switch strings.ToLower(field) {
	case "true":
		return true
	case "false":
		return false
	}
	return field
}
