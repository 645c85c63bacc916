package jsontools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

// FormatTool pretty-prints, minifies and validates JSON
type FormatTool struct {
	toolkit.Info
}

// NewFormatTool creates the json-format tool
func NewFormatTool() *FormatTool {
	return &FormatTool{Info: toolkit.NewInfo(
		"json-format", "JSON Formatter",
		"Pretty-print, minify or validate JSON. Errors report the line and column.",
		types.CategoryJSON, "pretty", "beautify", "minify", "lint", "validate",
	)}
}

func (t *FormatTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"mode":     toolkit.Enum("Operation. Default: format", "format", "minify", "validate"),
		"text":     toolkit.String("JSON document"),
		"indent":   toolkit.Any("Spaces per level (0-8) or \"tab\". Default: 2"),
		"sortKeys": toolkit.Bool("Sort object keys alphabetically"),
	}, "text")
}

type formatInput struct {
	Mode     string          `json:"mode"`
	Text     string          `json:"text"`
	Indent   json.RawMessage `json:"indent"`
	SortKeys bool            `json:"sortKeys"`
}

func (t *FormatTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params formatInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	mode, err := toolkit.Mode(params.Mode, "format", "format", "minify", "validate")
	if err != nil {
		return nil, err
	}

	if mode == "validate" {
		if _, err := parseJSON(params.Text); err != nil {
			return types.TextResult("Invalid JSON: " + err.Error()).
				WithFields(map[string]any{"valid": false, "error": err.Error()}), nil
		}
		return types.TextResult("Valid JSON").WithFields(map[string]any{"valid": true}), nil
	}

	indent := ""
	if mode == "format" {
		indent, err = parseIndent(params.Indent)
		if err != nil {
			return nil, err
		}
	}
	out, err := FormatJSON(params.Text, indent, params.SortKeys)
	if err != nil {
		return nil, err
	}
	return types.TextResult(out), nil
}

// parseIndent accepts a number of spaces (0-8), a numeric string or "tab".
func parseIndent(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "  ", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if strings.EqualFold(strings.TrimSpace(s), "tab") {
			return "\t", nil
		}
		raw = json.RawMessage(strings.TrimSpace(s))
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil || n < 0 || n > 8 {
		return "", types.InvalidInput("indent must be 0-8 or \"tab\", got %s", string(raw))
	}
	return strings.Repeat(" ", n), nil
}

// FormatJSON re-serializes a JSON document. An empty indent produces minified output.
// Without sortKeys the original key order and number literals are kept.
func FormatJSON(text, indent string, sortKeys bool) (string, error) {
	v, err := parseJSON(text)
	if err != nil {
		return "", err
	}

	if sortKeys {
		// maps encode with sorted keys; json.Number keeps the literal
		return marshalIndent(v, indent)
	}

	var buf bytes.Buffer
	if indent == "" {
		err = json.Compact(&buf, []byte(text))
	} else {
		err = json.Indent(&buf, []byte(strings.TrimSpace(text)), "", indent)
	}
	if err != nil {
		return "", fmt.Errorf("failed to format JSON: %w", err)
	}
	return buf.String(), nil
}
