package encode

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

// HTMLEntitiesTool escapes and unescapes HTML entities
type HTMLEntitiesTool struct {
	toolkit.Info
}

// NewHTMLEntitiesTool creates the html-entities tool
func NewHTMLEntitiesTool() *HTMLEntitiesTool {
	return &HTMLEntitiesTool{Info: toolkit.NewInfo(
		"html-entities", "HTML Entity Encoder",
		"Escape special characters as HTML entities or decode entities back to text.",
		types.CategoryEncoding, "escape", "unescape", "amp", "xss",
	)}
}

func (t *HTMLEntitiesTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"mode":     toolkit.Enum("Direction. Default: encode", "encode", "decode"),
		"text":     toolkit.String("Text to escape or unescape"),
		"nonAscii": toolkit.Bool("When encoding, also escape every non-ASCII character as a numeric entity"),
	}, "text")
}

type htmlInput struct {
	Mode     string `json:"mode"`
	Text     string `json:"text"`
	NonASCII bool   `json:"nonAscii"`
}

func (t *HTMLEntitiesTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params htmlInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	mode, err := toolkit.Mode(params.Mode, "encode", "encode", "decode")
	if err != nil {
		return nil, err
	}
	if mode == "decode" {
		return types.TextResult(html.UnescapeString(params.Text)), nil
	}
	return types.TextResult(EscapeHTML(params.Text, params.NonASCII)), nil
}

// EscapeHTML escapes <, >, &, ' and ". With nonASCII, runes above 0x7E become &#N; entities.
func EscapeHTML(s string, nonASCII bool) string {
	escaped := html.EscapeString(s)
	if !nonASCII {
		return escaped
	}
	var sb strings.Builder
	for _, r := range escaped {
		if r > 0x7E {
			fmt.Fprintf(&sb, "&#%d;", r)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
