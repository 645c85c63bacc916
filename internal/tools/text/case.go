// Package text provides the text tools: case conversion, line operations,
// statistics, diffing, regular expressions, slugs and placeholder text.
package text

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

// caseStyles lists the conversions in the order "all" reports them.
var caseStyles = []string{"camel", "pascal", "snake", "kebab", "constant", "dot", "title", "sentence", "upper", "lower"}

// CaseTool converts text between naming conventions
type CaseTool struct {
	toolkit.Info
}

// NewCaseTool creates the case-convert tool
func NewCaseTool() *CaseTool {
	return &CaseTool{Info: toolkit.NewInfo(
		"case-convert", "Case Converter",
		"Convert text between camelCase, PascalCase, snake_case, kebab-case, CONSTANT_CASE, Title Case and more.",
		types.CategoryText, "camel", "snake", "kebab", "pascal", "uppercase", "lowercase", "title",
	)}
}

func (t *CaseTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"text": toolkit.String("Text to convert"),
		"to":   toolkit.Enum("Target case. Default: all", append(append([]string{}, caseStyles...), "all")...),
	}, "text")
}

type caseInput struct {
	Text string `json:"text"`
	To   string `json:"to"`
}

func (t *CaseTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params caseInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	style, err := toolkit.Mode(params.To, "all", append(append([]string{}, caseStyles...), "all")...)
	if err != nil {
		return nil, err
	}

	if style != "all" {
		out, _ := ConvertCase(params.Text, style)
		return types.TextResult(out), nil
	}

	all := make(map[string]any, len(caseStyles))
	var sb strings.Builder
	for _, s := range caseStyles {
		out, _ := ConvertCase(params.Text, s)
		all[s] = out
		fmt.Fprintf(&sb, "%-9s %s\n", s+":", out)
	}
	return types.TextResult(strings.TrimRight(sb.String(), "\n")).WithFields(all), nil
}

// ConvertCase renders text in the named style. Unknown styles return ok=false.
func ConvertCase(text, style string) (string, bool) {
	words := SplitWords(text)
	lower := make([]string, len(words))
	for i, w := range words {
		lower[i] = strings.ToLower(w)
	}

	switch style {
	case "camel":
		var sb strings.Builder
		for i, w := range lower {
			if i == 0 {
				sb.WriteString(w)
				continue
			}
			sb.WriteString(capitalize(w))
		}
		return sb.String(), true
	case "pascal":
		var sb strings.Builder
		for _, w := range lower {
			sb.WriteString(capitalize(w))
		}
		return sb.String(), true
	case "snake":
		return strings.Join(lower, "_"), true
	case "kebab":
		return strings.Join(lower, "-"), true
	case "constant":
		return strings.ToUpper(strings.Join(lower, "_")), true
	case "dot":
		return strings.Join(lower, "."), true
	case "title":
		return cases.Title(language.English).String(strings.Join(lower, " ")), true
	case "sentence":
		return capitalize(strings.Join(lower, " ")), true
	case "upper":
		return cases.Upper(language.Und).String(text), true
	case "lower":
		return cases.Lower(language.Und).String(text), true
	}
	return text, false
}

func capitalize(w string) string {
	for i, r := range w {
		return string(unicode.ToUpper(r)) + w[i+len(string(r)):]
	}
	return w
}

// SplitWords breaks text into words at whitespace, punctuation, '_', '-', '.',
// lower-to-upper transitions ("fooBar") and the end of acronyms ("HTTPServer").
func SplitWords(text string) []string {
	runes := []rune(text)
	var words []string
	var cur []rune

	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}

	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if len(cur) > 0 && unicode.IsUpper(r) {
			prev := cur[len(cur)-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}
