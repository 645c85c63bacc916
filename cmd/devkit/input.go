package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

func unknownTool(id string) error {
	return types.InvalidInput("unknown tool %q, see 'devkit list'", id)
}

// buildInput assembles a tool's JSON input from exactly one of --input,
// --file or key=value pairs. No source at all means an empty object.
func buildInput(schema map[string]any, inline, file string, pairs []string, stdin io.Reader) (json.RawMessage, error) {
	sources := 0
	for _, set := range []bool{inline != "", file != "", len(pairs) > 0} {
		if set {
			sources++
		}
	}
	if sources > 1 {
		return nil, types.InvalidInput("use only one of --input, --file or key=value fields")
	}

	switch {
	case inline != "":
		return objectJSON([]byte(inline), "--input")
	case file != "":
		var data []byte
		var err error
		if file == "-" {
			data, err = io.ReadAll(io.LimitReader(stdin, toolkit.MaxFileBytes+1))
			if err == nil && len(data) > toolkit.MaxFileBytes {
				return nil, types.InvalidInput("stdin input exceeds %d bytes", toolkit.MaxFileBytes)
			}
		} else {
			data, err = toolkit.ReadFile(file)
		}
		if err != nil {
			return nil, err
		}
		return objectJSON(data, file)
	case len(pairs) > 0:
		return pairsJSON(schema, pairs)
	}
	return json.RawMessage("{}"), nil
}

func objectJSON(data []byte, source string) (json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, types.WrapInput(err, "%s must be a JSON object", source)
	}
	return json.RawMessage(data), nil
}

// pairsJSON converts key=value pairs into an input object, typing each value
// by the schema: numbers, integers and booleans are parsed, strings are kept
// verbatim, untyped fields take JSON when the value parses as JSON.
func pairsJSON(schema map[string]any, pairs []string) (json.RawMessage, error) {
	props, _ := schema["properties"].(map[string]any)
	obj := make(map[string]any, len(pairs))

	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, types.InvalidInput("expected key=value, got %q", pair)
		}
		prop, known := props[key].(map[string]any)
		if !known {
			return nil, types.InvalidInput("unknown field %q (fields: %s)", key, strings.Join(fieldNames(props), ", "))
		}

		if path, isFile := strings.CutPrefix(raw, "@"); isFile {
			data, err := toolkit.ReadFile(path)
			if err != nil {
				return nil, err
			}
			raw = string(data)
		}

		v, err := typedValue(prop, raw)
		if err != nil {
			return nil, types.WrapInput(err, "field %q", key)
		}
		obj[key] = v
	}

	data, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to encode input: %w", err)
	}
	return data, nil
}

func typedValue(prop map[string]any, raw string) (any, error) {
	typ, _ := prop["type"].(string)
	switch typ {
	case "string":
		return raw, nil
	case "number":
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, types.InvalidInput("%q is not a finite number", raw)
		}
		return v, nil
	case "integer":
		return strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	case "boolean":
		return strconv.ParseBool(strings.TrimSpace(raw))
	}
	if json.Valid([]byte(raw)) {
		return json.RawMessage(raw), nil
	}
	return raw, nil
}

func fieldNames(props map[string]any) []string {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// writeOutput saves the first image or file block to path, or the text when
// the result carries no media.
func writeOutput(path string, res *types.ToolResult) error {
	for _, block := range res.Content {
		if block.Type != "image" && block.Type != "file" {
			continue
		}
		data, err := block.Bytes()
		if err != nil {
			return fmt.Errorf("failed to decode %s output: %w", block.Type, err)
		}
		return writeFile(path, data)
	}
	return writeFile(path, []byte(res.GetText()+"\n"))
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
