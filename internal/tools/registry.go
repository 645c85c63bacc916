package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	. "github.com/roelfdiedericks/devkit/internal/logging"
	"github.com/roelfdiedericks/devkit/internal/metrics"
	"github.com/roelfdiedericks/devkit/internal/types"
)

// Registry holds all registered tools
type Registry struct {
	tools   map[string]Tool
	mu      sync.RWMutex
	metrics *metrics.MetricsManager
}

// NewRegistry creates a new tool registry recording usage into the global metrics manager
func NewRegistry() *Registry {
	return NewRegistryWithMetrics(metrics.GetInstance())
}

// NewRegistryWithMetrics creates a registry recording usage into m
func NewRegistryWithMetrics(m *metrics.MetricsManager) *Registry {
	return &Registry{
		tools:   make(map[string]Tool),
		metrics: m,
	}
}

// Register adds a tool to the registry, replacing any tool with the same name
func (r *Registry) Register(tool Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[tool.Name()]; exists {
		L_warn("tools: replacing registered tool", "name", tool.Name())
	}
	r.tools[tool.Name()] = tool
}

// Get returns a tool by name
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Has returns true if a tool with the given name is registered
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Execute runs a tool by name with the given input
func (r *Registry) Execute(ctx context.Context, name string, input json.RawMessage) (*types.ToolResult, error) {
	tool, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}

	topic := "tools/" + name
	start := time.Now()
	result, err := tool.Execute(ctx, input)
	elapsed := time.Since(start)

	r.metrics.IncrementCounter(topic, "calls")
	r.metrics.RecordDuration(topic, "duration", elapsed)
	switch {
	case err == nil:
	case types.IsInputError(err):
		r.metrics.IncrementCounter(topic, "input_errors")
		L_debug("tools: input rejected", "tool", name, "error", err)
	default:
		r.metrics.IncrementCounter(topic, "failures")
		L_error("tools: execution failed", "tool", name, "error", err)
	}
	L_trace("tools: executed", "tool", name, "elapsed", elapsed)

	return result, err
}

// List returns all registered tool names, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definitions returns all tools with their schemas, in catalog order
func (r *Registry) Definitions() []types.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]types.ToolDefinition, 0, len(r.tools))
	for _, tool := range r.tools {
		defs = append(defs, ToDefinition(tool))
	}
	sort.Slice(defs, func(i, j int) bool {
		return lessMetadata(defs[i].Metadata, defs[j].Metadata)
	})
	return defs
}

// Count returns the number of registered tools
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// BuildToolSummary generates a plain-text listing of tools grouped by category.
//
// Returns a formatted string like:
//
//	## encoding
//	- base64: Encode text to Base64 or decode it back.
//	- hex: Convert text to hexadecimal and back.
func (r *Registry) BuildToolSummary() string {
	metas := r.Search("")
	if len(metas) == 0 {
		return ""
	}

	var sb strings.Builder
	category := ""
	for _, m := range metas {
		if m.Category != category {
			if category != "" {
				sb.WriteString("\n")
			}
			category = m.Category
			sb.WriteString(fmt.Sprintf("## %s\n", category))
		}
		sb.WriteString(fmt.Sprintf("- %s: %s\n", m.ID, truncateDescription(m.Description, 100)))
	}
	return sb.String()
}

// truncateDescription shortens a description for the summary view
func truncateDescription(desc string, maxLen int) string {
	// First try to get just the first sentence
	if idx := strings.Index(desc, ". "); idx > 0 && idx < maxLen {
		return desc[:idx+1]
	}

	if len(desc) <= maxLen {
		return desc
	}

	// Find last space before maxLen to avoid cutting words
	truncated := desc[:maxLen]
	if idx := strings.LastIndex(truncated, " "); idx > maxLen/2 {
		truncated = truncated[:idx]
	}
	return truncated + "..."
}
