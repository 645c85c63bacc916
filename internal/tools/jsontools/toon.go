package jsontools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alpkeskin/gotoon"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

// TOONTool converts JSON into Token-Oriented Object Notation
type TOONTool struct {
	toolkit.Info
}

// NewTOONTool creates the json-toon tool
func NewTOONTool() *TOONTool {
	return &TOONTool{Info: toolkit.NewInfo(
		"json-toon", "JSON to TOON",
		"Convert JSON to TOON, a compact tabular notation for sending structured data to language models.",
		types.CategoryJSON, "llm", "tokens", "compact", "notation",
	)}
}

func (t *TOONTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"text": toolkit.String("JSON document"),
	}, "text")
}

type toonInput struct {
	Text string `json:"text"`
}

func (t *TOONTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params toonInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	out, err := JSONToTOON(params.Text)
	if err != nil {
		return nil, err
	}
	return types.TextResult(out).WithFields(map[string]any{
		"jsonBytes": len(params.Text),
		"toonBytes": len(out),
	}), nil
}

// JSONToTOON encodes a JSON document as TOON.
func JSONToTOON(text string) (string, error) {
	v, err := parseJSON(text)
	if err != nil {
		return "", err
	}
	encoded, err := gotoon.Encode(plain(v))
	if err != nil {
		return "", fmt.Errorf("toon encode: %w", err)
	}
	return encoded, nil
}
