package encode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

// URLTool percent-encodes, decodes and parses URLs
type URLTool struct {
	toolkit.Info
}

// NewURLTool creates the url-encode tool
func NewURLTool() *URLTool {
	return &URLTool{Info: toolkit.NewInfo(
		"url-encode", "URL Encoder/Decoder",
		"Percent-encode or decode text for URLs, or split a URL into its components.",
		types.CategoryEncoding, "percent", "uri", "query", "escape", "parse",
	)}
}

func (t *URLTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"mode":      toolkit.Enum("Operation. Default: encode", "encode", "decode", "parse"),
		"text":      toolkit.String("Text or URL"),
		"component": toolkit.Enum("Escaping rules: query (spaces become +) or path (spaces become %20). Default: query", "query", "path"),
	}, "text")
}

type urlInput struct {
	Mode      string `json:"mode"`
	Text      string `json:"text"`
	Component string `json:"component"`
}

// URLParts is the decomposition of a URL.
type URLParts struct {
	Scheme   string              `json:"scheme"`
	User     string              `json:"user,omitempty"`
	Host     string              `json:"host"`
	Port     string              `json:"port,omitempty"`
	Path     string              `json:"path"`
	Query    map[string][]string `json:"query,omitempty"`
	Fragment string              `json:"fragment,omitempty"`
}

func (t *URLTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params urlInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	mode, err := toolkit.Mode(params.Mode, "encode", "encode", "decode", "parse")
	if err != nil {
		return nil, err
	}
	component, err := toolkit.Mode(params.Component, "query", "query", "path")
	if err != nil {
		return nil, err
	}

	switch mode {
	case "encode":
		if component == "path" {
			return types.TextResult(url.PathEscape(params.Text)), nil
		}
		return types.TextResult(url.QueryEscape(params.Text)), nil
	case "decode":
		var out string
		if component == "path" {
			out, err = url.PathUnescape(params.Text)
		} else {
			out, err = url.QueryUnescape(params.Text)
		}
		if err != nil {
			return nil, types.WrapInput(err, "invalid percent-encoding")
		}
		return types.TextResult(out), nil
	}

	parts, err := ParseURL(params.Text)
	if err != nil {
		return nil, err
	}
	return types.TextResult(formatURLParts(parts)).WithFields(map[string]any{"url": parts}), nil
}

// ParseURL splits an absolute URL into its components.
func ParseURL(raw string) (*URLParts, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, types.WrapInput(err, "invalid URL")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, types.InvalidInput("URL must be absolute (scheme://host/...)")
	}
	parts := &URLParts{
		Scheme:   u.Scheme,
		Host:     u.Hostname(),
		Port:     u.Port(),
		Path:     u.Path,
		Fragment: u.Fragment,
	}
	if u.User != nil {
		parts.User = u.User.Username()
	}
	if q := u.Query(); len(q) > 0 {
		parts.Query = q
	}
	return parts, nil
}

func formatURLParts(p *URLParts) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "scheme:   %s\n", p.Scheme)
	if p.User != "" {
		fmt.Fprintf(&sb, "user:     %s\n", p.User)
	}
	fmt.Fprintf(&sb, "host:     %s\n", p.Host)
	if p.Port != "" {
		fmt.Fprintf(&sb, "port:     %s\n", p.Port)
	}
	fmt.Fprintf(&sb, "path:     %s\n", p.Path)
	if len(p.Query) > 0 {
		keys := make([]string, 0, len(p.Query))
		for k := range p.Query {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteString("query:\n")
		for _, k := range keys {
			for _, v := range p.Query[k] {
				fmt.Fprintf(&sb, "  %s = %s\n", k, v)
			}
		}
	}
	if p.Fragment != "" {
		fmt.Fprintf(&sb, "fragment: %s\n", p.Fragment)
	}
	return strings.TrimRight(sb.String(), "\n")
}
