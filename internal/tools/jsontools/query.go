package jsontools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"

	. "github.com/roelfdiedericks/devkit/internal/logging"
	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

// QueryTool queries and transforms JSON using jq syntax
type QueryTool struct {
	toolkit.Info
}

// NewQueryTool creates the json-query tool
func NewQueryTool() *QueryTool {
	return &QueryTool{Info: toolkit.NewInfo(
		"json-query", "JSON Query (jq)",
		"Query and transform JSON using jq syntax. Reads inline JSON or a file.",
		types.CategoryJSON, "jq", "filter", "select", "path", "transform",
	)}
}

func (t *QueryTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"query":   toolkit.String("jq query/filter expression (e.g., '.items[] | .name')"),
		"input":   toolkit.String("Inline JSON to query. Mutually exclusive with 'file'."),
		"file":    toolkit.String("Path to a JSON file to query. Mutually exclusive with 'input'."),
		"raw":     toolkit.Bool("Output raw strings without JSON encoding (like jq -r). Default: false"),
		"compact": toolkit.Bool("Compact output (no pretty-printing). Default: false"),
	}, "query")
}

type queryInput struct {
	Query   string `json:"query"`
	Input   string `json:"input,omitempty"`
	File    string `json:"file,omitempty"`
	Raw     bool   `json:"raw,omitempty"`
	Compact bool   `json:"compact,omitempty"`
}

func (t *QueryTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params queryInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	if strings.TrimSpace(params.Query) == "" {
		return nil, types.InvalidInput("query is required")
	}

	var data []byte
	switch {
	case params.File != "" && params.Input != "":
		return nil, types.InvalidInput("cannot specify both 'input' and 'file'")
	case params.File != "":
		var err error
		data, err = toolkit.ReadFile(params.File)
		if err != nil {
			return nil, err
		}
		L_debug("json-query: read file", "file", params.File, "bytes", len(data))
	case params.Input != "":
		data = []byte(params.Input)
	default:
		return nil, types.InvalidInput("must specify one of: 'input' or 'file'")
	}

	results, err := RunQuery(ctx, params.Query, data)
	if err != nil {
		return nil, err
	}
	out, err := formatResults(results, params.Raw, params.Compact)
	if err != nil {
		return nil, err
	}

	L_debug("json-query: query completed", "query", truncate(params.Query, 50), "results", len(results))
	return types.TextResult(out).WithFields(map[string]any{"count": len(results)}), nil
}

// RunQuery parses and executes a jq query on JSON data, collecting every result.
func RunQuery(ctx context.Context, query string, data []byte) ([]any, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, syntaxError(string(data), err)
	}

	parsed, err := gojq.Parse(query)
	if err != nil {
		return nil, types.WrapInput(err, "invalid jq query")
	}

	var results []any
	iter := parsed.RunWithContext(ctx, doc)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, types.WrapInput(err, "jq error")
		}
		results = append(results, v)
	}
	return results, nil
}

// formatResults renders jq results one per line
func formatResults(results []any, raw bool, compact bool) (string, error) {
	lines := make([]string, 0, len(results))
	for _, r := range results {
		if s, ok := r.(string); ok && raw {
			lines = append(lines, s)
			continue
		}
		indent := "  "
		if compact || raw {
			indent = ""
		}
		b, err := marshalIndent(r, indent)
		if err != nil {
			return "", fmt.Errorf("failed to encode result: %w", err)
		}
		lines = append(lines, b)
	}
	return strings.Join(lines, "\n"), nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
