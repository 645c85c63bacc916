package markup

import (
	"context"
	"encoding/json"
	"strings"

	htmltomd "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

// MarkdownTool converts HTML to markdown
type MarkdownTool struct {
	toolkit.Info
}

// NewMarkdownTool creates the html-markdown tool
func NewMarkdownTool() *MarkdownTool {
	return &MarkdownTool{Info: toolkit.NewInfo(
		"html-markdown", "HTML to Markdown",
		"Convert an HTML document or fragment to markdown. Relative links can be resolved against a domain.",
		types.CategoryMarkup, "html", "markdown", "md", "convert", "scrape",
	)}
}

func (t *MarkdownTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"html":   toolkit.String("HTML source"),
		"domain": toolkit.String("Base URL for resolving relative links and images, e.g. https://example.com"),
	}, "html")
}

type htmlInput struct {
	HTML   string `json:"html"`
	Domain string `json:"domain"`
}

func (t *MarkdownTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params htmlInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	if strings.TrimSpace(params.HTML) == "" {
		return nil, types.InvalidInput("html is required")
	}
	out, err := HTMLToMarkdown(params.HTML, params.Domain)
	if err != nil {
		return nil, err
	}
	return types.TextResult(out), nil
}

// HTMLToMarkdown converts HTML to CommonMark.
func HTMLToMarkdown(src, domain string) (string, error) {
	var opts []converter.ConvertOptionFunc
	if domain = strings.TrimSpace(domain); domain != "" {
		opts = append(opts, converter.WithDomain(domain))
	}
	out, err := htmltomd.ConvertString(src, opts...)
	if err != nil {
		return "", types.WrapInput(err, "cannot convert HTML")
	}
	return out, nil
}
