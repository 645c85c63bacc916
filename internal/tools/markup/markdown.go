// Package markup converts between markdown, HTML and terminal output.
package markup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

const defaultWrap = 80

var gfm = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(html.WithXHTML()),
)

// HTMLTool renders GitHub-flavoured markdown to HTML
type HTMLTool struct {
	toolkit.Info
}

// NewHTMLTool creates the markdown-html tool
func NewHTMLTool() *HTMLTool {
	return &HTMLTool{Info: toolkit.NewInfo(
		"markdown-html", "Markdown to HTML",
		"Render GitHub-flavoured markdown (tables, task lists, strikethrough, autolinks) to HTML. Raw HTML is omitted from the output.",
		types.CategoryMarkup, "markdown", "md", "gfm", "render", "preview",
	)}
}

func (t *HTMLTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"markdown": toolkit.String("Markdown source"),
	}, "markdown")
}

type markdownInput struct {
	Markdown string `json:"markdown"`
	Style    string `json:"style"`
	Width    int    `json:"width"`
}

func (t *HTMLTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params markdownInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	out, err := MarkdownToHTML(params.Markdown)
	if err != nil {
		return nil, err
	}
	return types.TextResult(out), nil
}

// MarkdownToHTML converts GFM markdown to an HTML fragment.
func MarkdownToHTML(src string) (string, error) {
	var buf bytes.Buffer
	if err := gfm.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("markdown conversion failed: %w", err)
	}
	return buf.String(), nil
}

// TerminalTool renders markdown with ANSI styling for a terminal
type TerminalTool struct {
	toolkit.Info
	theme func() string
}

// NewTerminalTool creates the markdown-terminal tool. theme reports the current
// UI theme (light or dark) and selects the default style; nil means dark.
func NewTerminalTool(theme func() string) *TerminalTool {
	return &TerminalTool{
		Info: toolkit.NewInfo(
			"markdown-terminal", "Markdown for Terminal",
			"Render markdown with colours and layout for a terminal, following the light or dark theme.",
			types.CategoryMarkup, "markdown", "ansi", "cli", "pretty print", "glamour",
		),
		theme: theme,
	}
}

func (t *TerminalTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"markdown": toolkit.String("Markdown source"),
		"style":    toolkit.Enum("Rendering style. Default: follows the theme", styles.DarkStyle, styles.LightStyle, styles.AsciiStyle, styles.NoTTYStyle, styles.DraculaStyle, styles.TokyoNightStyle),
		"width":    toolkit.Integer("Word wrap column, 20-400. Default: 80"),
	}, "markdown")
}

func (t *TerminalTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params markdownInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	def := styles.DarkStyle
	if t.theme != nil && t.theme() == "light" {
		def = styles.LightStyle
	}
	style, err := toolkit.Mode(params.Style, def, styles.DarkStyle, styles.LightStyle, styles.AsciiStyle, styles.NoTTYStyle, styles.DraculaStyle, styles.TokyoNightStyle)
	if err != nil {
		return nil, err
	}
	width := params.Width
	if width == 0 {
		width = defaultWrap
	}
	if width < 20 || width > 400 {
		return nil, types.InvalidInput("width must be between 20 and 400")
	}
	out, err := RenderTerminal(params.Markdown, style, width)
	if err != nil {
		return nil, err
	}
	return types.TextResult(out).WithFields(map[string]any{"style": style}), nil
}

// RenderTerminal renders markdown with a built-in glamour style.
func RenderTerminal(src, style string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(src)
	if err != nil {
		return "", fmt.Errorf("markdown rendering failed: %w", err)
	}
	return strings.TrimRight(out, "\n "), nil
}
