package render

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/roelfdiedericks/devkit/internal/types"
)

// ToolList renders metadata grouped under category headings, in the order given
func (s Styles) ToolList(metas []types.Metadata) string {
	if len(metas) == 0 {
		return s.Muted.Render("No tools match.")
	}
	width := 0
	for _, m := range metas {
		width = max(width, len(m.ID))
	}

	var sb strings.Builder
	category := ""
	for _, m := range metas {
		if m.Category != category {
			if category != "" {
				sb.WriteString("\n")
			}
			category = m.Category
			sb.WriteString(s.Category.Render(strings.ToUpper(category)) + "\n")
		}
		id := s.ID.Render(fmt.Sprintf("%-*s", width, m.ID))
		fmt.Fprintf(&sb, "  %s  %s\n", id, s.Name.Render(m.Name))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// ToolDetail renders a tool's description and input fields
func (s Styles) ToolDetail(def types.ToolDefinition) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  %s\n", s.ID.Render(def.ID), s.Name.Render(def.Name))
	sb.WriteString(def.Description + "\n")

	props, _ := def.InputSchema["properties"].(map[string]any)
	if len(props) == 0 {
		return strings.TrimRight(sb.String(), "\n")
	}
	required := map[string]bool{}
	if req, ok := def.InputSchema["required"].([]string); ok {
		for _, r := range req {
			required[r] = true
		}
	}

	names := make([]string, 0, len(props))
	width := 0
	for name := range props {
		names = append(names, name)
		width = max(width, len(name))
	}
	sort.Strings(names)

	sb.WriteString("\n" + s.Category.Render("INPUT") + "\n")
	for _, name := range names {
		prop, _ := props[name].(map[string]any)
		typ, _ := prop["type"].(string)
		desc, _ := prop["description"].(string)
		marker := " "
		if required[name] {
			marker = "*"
		}
		fmt.Fprintf(&sb, " %s%s  %-7s %s\n", marker, s.ID.Render(fmt.Sprintf("%-*s", width, name)), typ, desc)
		if enum, ok := prop["enum"].([]string); ok {
			fmt.Fprintf(&sb, "   %*s  %s\n", width+7, "", s.Muted.Render("one of: "+strings.Join(enum, ", ")))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Result renders the text of a result and a one-line note per media block
func (s Styles) Result(res *types.ToolResult) string {
	if res == nil {
		return ""
	}
	var parts []string
	for _, block := range res.Content {
		switch block.Type {
		case "text":
			parts = append(parts, block.Text)
		case "image", "file":
			parts = append(parts, s.Media.Render(MediaNote(block)))
		}
	}
	return strings.Join(parts, "\n")
}

// MediaNote describes an image or file block, e.g. "[image image/png, 1.2 kB]"
func MediaNote(block types.ContentBlock) string {
	size := len(block.Data) * 3 / 4
	if data, err := block.Bytes(); err == nil {
		size = len(data)
	}
	note := fmt.Sprintf("[%s %s, %s", block.Type, block.MimeType, humanize.Bytes(uint64(size)))
	if block.Filename != "" {
		note += ", " + block.Filename
	}
	return note + "]"
}

// Error renders an error message for stderr
func (s Styles) Error(err error) string {
	label := "error:"
	if types.IsInputError(err) {
		label = "invalid input:"
	}
	return s.Alert.Render(label) + " " + err.Error()
}

// JSON renders v as indented JSON
func JSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}
	return string(data), nil
}
