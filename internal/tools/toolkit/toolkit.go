// Package toolkit holds helpers shared by the tool subpackages: the embedded
// catalog Info and small JSON Schema builders.
package toolkit

import (
	"github.com/roelfdiedericks/devkit/internal/types"
)

// Info implements the Name, Description and Metadata methods of tools.Tool.
// Tools embed it and add Schema and Execute.
type Info struct {
	meta types.Metadata
}

// NewInfo builds the catalog record for a tool.
func NewInfo(id, name, description, category string, keywords ...string) Info {
	return Info{meta: types.NewMetadata(id, name, description, category, keywords...)}
}

func (i Info) Name() string {
	return i.meta.ID
}

func (i Info) Description() string {
	return i.meta.Description
}

func (i Info) Metadata() types.Metadata {
	meta := i.meta
	meta.Keywords = append([]string(nil), i.meta.Keywords...)
	return meta
}

// Object builds an object schema.
func Object(properties map[string]any, required ...string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// String builds a string property.
func String(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

// Enum builds a string property restricted to values.
func Enum(description string, values ...string) map[string]any {
	return map[string]any{"type": "string", "description": description, "enum": values}
}

// Number builds a number property.
func Number(description string) map[string]any {
	return map[string]any{"type": "number", "description": description}
}

// Integer builds an integer property.
func Integer(description string) map[string]any {
	return map[string]any{"type": "integer", "description": description}
}

// Bool builds a boolean property.
func Bool(description string) map[string]any {
	return map[string]any{"type": "boolean", "description": description}
}

// Any builds an unconstrained property (any JSON value).
func Any(description string) map[string]any {
	return map[string]any{"description": description}
}
