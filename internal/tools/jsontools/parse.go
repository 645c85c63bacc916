// Package jsontools provides the JSON tools: formatting, diffing, jq queries
// and conversions between JSON and YAML, TOML, CSV, TOON and XLSX.
package jsontools

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/roelfdiedericks/devkit/internal/types"
)

// parseJSON decodes a single JSON document, keeping number literals as json.Number.
// Syntax errors are reported as input errors with line and column.
func parseJSON(text string) (any, error) {
	if strings.TrimSpace(text) == "" {
		return nil, types.InvalidInput("input is empty")
	}
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, syntaxError(text, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		line, col := position(text, dec.InputOffset())
		return nil, types.InvalidInput("invalid JSON: unexpected data after the document at line %d, column %d", line, col)
	}
	return v, nil
}

func syntaxError(text string, err error) error {
	var se *json.SyntaxError
	if errors.As(err, &se) {
		line, col := position(text, se.Offset)
		return types.WrapInput(err, "invalid JSON at line %d, column %d", line, col)
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		line, col := position(text, int64(len(text)))
		return types.InvalidInput("invalid JSON: unexpected end of input at line %d, column %d", line, col)
	}
	return types.WrapInput(err, "invalid JSON")
}

// position converts a byte offset into a 1-based line and column.
func position(text string, offset int64) (int, int) {
	if offset > int64(len(text)) {
		offset = int64(len(text))
	}
	line, col := 1, 1
	for _, r := range text[:offset] {
		if r == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}

// plain replaces json.Number values with int64 or float64 so encoders
// for other formats see ordinary Go numbers.
func plain(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := strconv.ParseInt(val.String(), 10, 64); err == nil {
			return i
		}
		f, _ := val.Float64()
		return f
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = plain(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = plain(item)
		}
		return out
	}
	return v
}

// jsonCompatible converts decoded YAML/TOML values into types encoding/json accepts.
func jsonCompatible(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = jsonCompatible(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = jsonCompatible(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = jsonCompatible(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = jsonCompatible(item)
		}
		return out
	}
	return v
}

// marshalIndent encodes v with two-space indentation and without HTML escaping.
func marshalIndent(v any, indent string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
