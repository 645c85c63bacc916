package jsontools

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

// YAMLTool converts between JSON and YAML
type YAMLTool struct {
	toolkit.Info
}

// NewYAMLTool creates the json-yaml tool
func NewYAMLTool() *YAMLTool {
	return &YAMLTool{Info: toolkit.NewInfo(
		"json-yaml", "JSON <> YAML",
		"Convert JSON to YAML or YAML to JSON.",
		types.CategoryJSON, "yml", "convert", "kubernetes", "config",
	)}
}

func (t *YAMLTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"mode": toolkit.Enum("Direction. Default: toYAML", "toYAML", "toJSON"),
		"text": toolkit.String("JSON or YAML document"),
	}, "text")
}

type convertInput struct {
	Mode string `json:"mode"`
	Text string `json:"text"`
}

func (t *YAMLTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params convertInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	mode, err := toolkit.Mode(params.Mode, "toYAML", "toYAML", "toJSON")
	if err != nil {
		return nil, err
	}

	var out string
	if mode == "toYAML" {
		out, err = JSONToYAML(params.Text)
	} else {
		out, err = YAMLToJSON(params.Text)
	}
	if err != nil {
		return nil, err
	}
	return types.TextResult(out), nil
}

// JSONToYAML converts a JSON document to YAML with two-space indentation.
func JSONToYAML(text string) (string, error) {
	v, err := parseJSON(text)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(plain(v)); err != nil {
		return "", types.WrapInput(err, "cannot represent as YAML")
	}
	if err := enc.Close(); err != nil {
		return "", types.WrapInput(err, "cannot represent as YAML")
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// YAMLToJSON converts a single YAML document to indented JSON.
func YAMLToJSON(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", types.InvalidInput("input is empty")
	}
	var v any
	if err := yaml.Unmarshal([]byte(text), &v); err != nil {
		return "", types.WrapInput(err, "invalid YAML")
	}
	out, err := marshalIndent(jsonCompatible(v), "  ")
	if err != nil {
		return "", types.WrapInput(err, "cannot represent as JSON")
	}
	return out, nil
}
