package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

// UUIDTool generates and validates UUIDs
type UUIDTool struct {
	toolkit.Info
}

// NewUUIDTool creates the uuid tool
func NewUUIDTool() *UUIDTool {
	return &UUIDTool{Info: toolkit.NewInfo(
		"uuid", "UUID Generator",
		"Generate version 1, 4 or 7 UUIDs, or validate a UUID and report its version.",
		types.CategoryGenerators, "guid", "unique id", "v4", "v7", "identifier",
	)}
}

func (t *UUIDTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"mode":      toolkit.Enum("Operation. Default: generate", "generate", "validate"),
		"version":   toolkit.Integer("UUID version: 1, 4 or 7. Default: 4"),
		"count":     toolkit.Integer("How many, 1-100. Default: 1"),
		"uppercase": toolkit.Bool("Upper-case output"),
		"hyphens":   toolkit.Bool("Include hyphens. Default: true"),
		"value":     toolkit.String("UUID to validate"),
	})
}

type uuidInput struct {
	Mode      string `json:"mode"`
	Version   int    `json:"version"`
	Count     *int   `json:"count"`
	Uppercase bool   `json:"uppercase"`
	Hyphens   *bool  `json:"hyphens"`
	Value     string `json:"value"`
}

func (t *UUIDTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params uuidInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	mode, err := toolkit.Mode(params.Mode, "generate", "generate", "validate")
	if err != nil {
		return nil, err
	}

	if mode == "validate" {
		id, err := uuid.Parse(strings.TrimSpace(params.Value))
		if err != nil {
			return types.TextResult("Invalid UUID: "+err.Error()).
				WithFields(map[string]any{"valid": false}), nil
		}
		fields := map[string]any{
			"valid":   true,
			"uuid":    id.String(),
			"version": int(id.Version()),
			"variant": id.Variant().String(),
		}
		text := fmt.Sprintf("Valid UUID\nversion: %d\nvariant: %s", id.Version(), id.Variant())
		if sec, nsec := id.Time().UnixTime(); (id.Version() == 1 || id.Version() == 6 || id.Version() == 7) && sec > 0 {
			fields["timestamp"] = sec*1000 + nsec/1_000_000
			text += fmt.Sprintf("\ntimestamp (unix ms): %d", fields["timestamp"])
		}
		return types.TextResult(text).WithFields(fields), nil
	}

	version := params.Version
	if version == 0 {
		version = 4
	}
	count := orDefault(params.Count, 1)
	if count < 1 || count > 100 {
		return nil, types.InvalidInput("count must be between 1 and 100")
	}
	ids, err := GenerateUUIDs(version, count)
	if err != nil {
		return nil, err
	}
	hyphens := orDefault(params.Hyphens, true)
	for i, id := range ids {
		if !hyphens {
			id = strings.ReplaceAll(id, "-", "")
		}
		if params.Uppercase {
			id = strings.ToUpper(id)
		}
		ids[i] = id
	}
	return types.TextResult(strings.Join(ids, "\n")).WithFields(map[string]any{"uuids": ids}), nil
}

// GenerateUUIDs creates count UUIDs of the given version.
func GenerateUUIDs(version, count int) ([]string, error) {
	var gen func() (uuid.UUID, error)
	switch version {
	case 1:
		gen = uuid.NewUUID
	case 4:
		gen = uuid.NewRandom
	case 7:
		gen = uuid.NewV7
	default:
		return nil, types.InvalidInput("unsupported UUID version %d (want 1, 4 or 7)", version)
	}
	out := make([]string, count)
	for i := range out {
		id, err := gen()
		if err != nil {
			return nil, fmt.Errorf("uuid v%d: %w", version, err)
		}
		out[i] = id.String()
	}
	return out, nil
}
