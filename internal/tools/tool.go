// Package tools provides the tool execution framework.
package tools

import (
	"context"
	"encoding/json"

	"github.com/roelfdiedericks/devkit/internal/types"
)

// Tool is the interface that all tools must implement
type Tool interface {
	// Name returns the unique id of the tool (e.g. "base64")
	Name() string

	// Description returns a one-line human-readable description
	Description() string

	// Schema returns the JSON Schema for the tool's input object
	Schema() map[string]any

	// Metadata returns the catalog record used for listing and search
	Metadata() types.Metadata

	// Execute runs the tool with the given input
	Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error)
}

// ToDefinition converts a Tool to the API format
func ToDefinition(t Tool) types.ToolDefinition {
	return types.ToolDefinition{
		Metadata:    t.Metadata(),
		InputSchema: t.Schema(),
	}
}
