package jsontools

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

// CSVTool converts between JSON arrays and CSV
type CSVTool struct {
	toolkit.Info
}

// NewCSVTool creates the json-csv tool
func NewCSVTool() *CSVTool {
	return &CSVTool{Info: toolkit.NewInfo(
		"json-csv", "JSON <> CSV",
		"Convert an array of JSON objects to CSV, or CSV with a header row to JSON.",
		types.CategoryJSON, "spreadsheet", "table", "tsv", "convert", "excel",
	)}
}

func (t *CSVTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"mode":       toolkit.Enum("Direction. Default: toCSV", "toCSV", "toJSON"),
		"text":       toolkit.String("JSON array or CSV text"),
		"delimiter":  toolkit.String("Field delimiter: a single character or \"tab\". Default: ,"),
		"inferTypes": toolkit.Bool("When converting to JSON, turn numbers, true/false and null into JSON values"),
	}, "text")
}

type csvInput struct {
	Mode       string `json:"mode"`
	Text       string `json:"text"`
	Delimiter  string `json:"delimiter"`
	InferTypes bool   `json:"inferTypes"`
}

func (t *CSVTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params csvInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	mode, err := toolkit.Mode(params.Mode, "toCSV", "toCSV", "toJSON")
	if err != nil {
		return nil, err
	}
	delim, err := parseDelimiter(params.Delimiter)
	if err != nil {
		return nil, err
	}

	if mode == "toCSV" {
		header, rows, err := JSONToTable(params.Text)
		if err != nil {
			return nil, err
		}
		out, err := writeCSV(header, rows, delim)
		if err != nil {
			return nil, err
		}
		return types.TextResult(out).WithFields(map[string]any{"rows": len(rows), "columns": len(header)}), nil
	}

	out, n, err := CSVToJSON(params.Text, delim, params.InferTypes)
	if err != nil {
		return nil, err
	}
	return types.TextResult(out).WithFields(map[string]any{"rows": n}), nil
}

func parseDelimiter(s string) (rune, error) {
	switch {
	case s == "":
		return ',', nil
	case strings.EqualFold(s, "tab") || s == `\t`:
		return '\t', nil
	case utf8.RuneCountInString(s) == 1:
		r, _ := utf8.DecodeRuneInString(s)
		if r == '"' || r == '\r' || r == '\n' {
			return 0, types.InvalidInput("invalid delimiter %q", s)
		}
		return r, nil
	}
	return 0, types.InvalidInput("delimiter must be a single character, got %q", s)
}

// JSONToTable flattens a JSON array into a header and string rows. The header is
// the sorted union of object keys; nested values are JSON encoded. An array of
// scalars becomes a single "value" column and a lone object becomes one row.
func JSONToTable(text string) ([]string, [][]string, error) {
	v, err := parseJSON(text)
	if err != nil {
		return nil, nil, err
	}

	var items []any
	switch val := v.(type) {
	case []any:
		items = val
	case map[string]any:
		items = []any{val}
	default:
		return nil, nil, types.InvalidInput("expected a JSON array of objects")
	}
	if len(items) == 0 {
		return nil, nil, types.InvalidInput("the array is empty")
	}

	allObjects := true
	keySet := map[string]bool{}
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			allObjects = false
			continue
		}
		for k := range obj {
			keySet[k] = true
		}
	}

	if !allObjects {
		rows := make([][]string, len(items))
		for i, item := range items {
			rows[i] = []string{cellValue(item)}
		}
		return []string{"value"}, rows, nil
	}

	header := make([]string, 0, len(keySet))
	for k := range keySet {
		header = append(header, k)
	}
	sort.Strings(header)

	rows := make([][]string, len(items))
	for i, item := range items {
		obj := item.(map[string]any)
		row := make([]string, len(header))
		for j, k := range header {
			if val, ok := obj[k]; ok {
				row[j] = cellValue(val)
			}
		}
		rows[i] = row
	}
	return header, rows, nil
}

func cellValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	}
	b, _ := json.Marshal(v)
	return string(b)
}

func writeCSV(header []string, rows [][]string, delim rune) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = delim
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("failed to write CSV: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return "", fmt.Errorf("failed to write CSV: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// readCSV parses CSV text into records, reporting malformed input with its line.
func readCSV(text string, delim rune) ([][]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, types.InvalidInput("input is empty")
	}
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var records [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, types.WrapInput(err, "invalid CSV")
		}
		records = append(records, rec)
	}
	return records, nil
}

// CSVToJSON turns CSV with a header row into an indented JSON array of objects,
// keeping the column order of the header. It returns the number of data rows.
func CSVToJSON(text string, delim rune, inferTypes bool) (string, int, error) {
	records, err := readCSV(text, delim)
	if err != nil {
		return "", 0, err
	}
	header := records[0]
	rows := records[1:]

	var buf bytes.Buffer
	buf.WriteString("[")
	for i, rec := range rows {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  {")
		width := len(header)
		if len(rec) > width {
			width = len(rec)
		}
		for j := 0; j < width; j++ {
			name := fmt.Sprintf("field%d", j+1)
			if j < len(header) && header[j] != "" {
				name = header[j]
			}
			value := ""
			if j < len(rec) {
				value = rec[j]
			}
			if j > 0 {
				buf.WriteString(",")
			}
			key, _ := json.Marshal(name)
			fmt.Fprintf(&buf, "\n    %s: %s", key, jsonCell(value, inferTypes))
		}
		buf.WriteString("\n  }")
	}
	if len(rows) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("]")
	return buf.String(), len(rows), nil
}

var jsonNumber = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

func jsonCell(value string, inferTypes bool) string {
	if inferTypes {
		switch v := strings.TrimSpace(value); {
		case v == "true", v == "false", v == "null":
			return v
		case jsonNumber.MatchString(v):
			return v
		}
	}
	b, _ := json.Marshal(value)
	return string(b)
}
