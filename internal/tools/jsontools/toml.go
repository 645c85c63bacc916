package jsontools

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

// TOMLTool converts between JSON and TOML
type TOMLTool struct {
	toolkit.Info
}

// NewTOMLTool creates the json-toml tool
func NewTOMLTool() *TOMLTool {
	return &TOMLTool{Info: toolkit.NewInfo(
		"json-toml", "JSON <> TOML",
		"Convert a JSON object to TOML or TOML to JSON.",
		types.CategoryJSON, "convert", "config", "cargo", "ini",
	)}
}

func (t *TOMLTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"mode": toolkit.Enum("Direction. Default: toTOML", "toTOML", "toJSON"),
		"text": toolkit.String("JSON object or TOML document"),
	}, "text")
}

func (t *TOMLTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params convertInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	mode, err := toolkit.Mode(params.Mode, "toTOML", "toTOML", "toJSON")
	if err != nil {
		return nil, err
	}

	var out string
	if mode == "toTOML" {
		out, err = JSONToTOML(params.Text)
	} else {
		out, err = TOMLToJSON(params.Text)
	}
	if err != nil {
		return nil, err
	}
	return types.TextResult(out), nil
}

// JSONToTOML converts a JSON object to TOML. TOML has no null and no top-level arrays.
func JSONToTOML(text string) (string, error) {
	v, err := parseJSON(text)
	if err != nil {
		return "", err
	}
	obj, ok := plain(v).(map[string]any)
	if !ok {
		return "", types.InvalidInput("TOML requires a top-level JSON object")
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(obj); err != nil {
		return "", types.WrapInput(err, "cannot represent as TOML")
	}
	return strings.TrimSpace(buf.String()), nil
}

// TOMLToJSON converts a TOML document to indented JSON.
func TOMLToJSON(text string) (string, error) {
	var v map[string]any
	if _, err := toml.Decode(text, &v); err != nil {
		return "", types.WrapInput(err, "invalid TOML")
	}
	if v == nil {
		v = map[string]any{}
	}
	out, err := marshalIndent(jsonCompatible(v), "  ")
	if err != nil {
		return "", types.WrapInput(err, "cannot represent as JSON")
	}
	return out, nil
}
