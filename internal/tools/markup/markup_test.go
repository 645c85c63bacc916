package markup

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/roelfdiedericks/devkit/internal/types"
)

func TestMarkdownToHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"heading", "# Hello", []string{`<h1 id="hello">Hello</h1>`}},
		{"strikethrough", "~~gone~~", []string{"<del>gone</del>"}},
		{"table", "| a | b |\n|---|---|\n| 1 | 2 |", []string{"<table>", "<th>a</th>", "<td>2</td>"}},
		{"task list", "- [x] done", []string{`type="checkbox"`, "checked"}},
		{"autolink", "see https://example.com", []string{`<a href="https://example.com">https://example.com</a>`}},
		{"raw html omitted", "<script>alert(1)</script>", []string{"<!-- raw HTML omitted -->"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarkdownToHTML(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("output %q lacks %q", got, w)
				}
			}
			if strings.Contains(got, "<script>") {
				t.Errorf("raw script passed through: %q", got)
			}
		})
	}
}

func TestHTMLToolDescribesRawHTMLHandling(t *testing.T) {
	desc := NewHTMLTool().Description()
	if !strings.Contains(desc, "omitted") || strings.Contains(desc, "escaped") {
		t.Errorf("description = %q", desc)
	}
}

func TestTerminalToolFollowsTheme(t *testing.T) {
	theme := "light"
	tool := NewTerminalTool(func() string { return theme })

	res, err := tool.Execute(context.Background(), json.RawMessage(`{"markdown":"# Title\n\nSome **bold** text."}`))
	if err != nil {
		t.Fatal(err)
	}
	if res.Fields["style"] != "light" {
		t.Errorf("style = %v, want light", res.Fields["style"])
	}
	if !strings.Contains(res.GetText(), "Title") || !strings.Contains(res.GetText(), "bold") {
		t.Errorf("rendered output lost content: %q", res.GetText())
	}

	theme = "dark"
	res, err = tool.Execute(context.Background(), json.RawMessage(`{"markdown":"hi"}`))
	if err != nil {
		t.Fatal(err)
	}
	if res.Fields["style"] != "dark" {
		t.Errorf("style = %v, want dark", res.Fields["style"])
	}

	res, err = tool.Execute(context.Background(), json.RawMessage(`{"markdown":"hi","style":"ASCII"}`))
	if err != nil || res.Fields["style"] != "ascii" {
		t.Errorf("explicit style = %v, %v", res, err)
	}

	for _, in := range []string{`{"markdown":"hi","style":"neon"}`, `{"markdown":"hi","width":5}`} {
		if _, err := tool.Execute(context.Background(), json.RawMessage(in)); !types.IsInputError(err) {
			t.Errorf("%s: expected InputError, got %v", in, err)
		}
	}
}

func TestHTMLToMarkdown(t *testing.T) {
	got, err := HTMLToMarkdown(`<h1>Hi</h1><p><strong>bold</strong> and <a href="/docs">docs</a></p><ul><li>one</li></ul>`, "https://example.com")
	if err != nil {
		t.Fatal(err)
	}
	for _, w := range []string{"# Hi", "**bold**", "[docs](https://example.com/docs)", "- one"} {
		if !strings.Contains(got, w) {
			t.Errorf("markdown %q lacks %q", got, w)
		}
	}

	if _, err := NewMarkdownTool().Execute(context.Background(), json.RawMessage(`{"html":"  "}`)); !types.IsInputError(err) {
		t.Errorf("empty html should be rejected, got %v", err)
	}
}
