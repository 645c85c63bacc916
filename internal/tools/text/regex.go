package text

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

const (
	regexTimeout = 2 * time.Second
	maxMatches   = 1000
)

// RegexTool tests JavaScript-style regular expressions against text
type RegexTool struct {
	toolkit.Info
}

// NewRegexTool creates the regex-tester tool
func NewRegexTool() *RegexTool {
	return &RegexTool{Info: toolkit.NewInfo(
		"regex-tester", "Regex Tester",
		"Test a regular expression (JavaScript syntax) against text, list matches and capture groups, or replace.",
		types.CategoryText, "regexp", "pattern", "match", "replace", "capture",
	)}
}

func (t *RegexTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"pattern": toolkit.String("Regular expression without delimiters"),
		"flags":   toolkit.String("Any of: g (all matches), i (ignore case), m (multiline), s (dot matches newline)"),
		"text":    toolkit.String("Text to search"),
		"replace": toolkit.String("Optional replacement; $1, ${name} and $& refer to captures"),
	}, "pattern", "text")
}

type regexInput struct {
	Pattern string  `json:"pattern"`
	Flags   string  `json:"flags"`
	Text    string  `json:"text"`
	Replace *string `json:"replace"`
}

// Group is one capture group of a match.
type Group struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	Index   int    `json:"index"`
	Matched bool   `json:"matched"`
}

// Match is one regex match. Index counts runes from the start of the text.
type Match struct {
	Value  string  `json:"value"`
	Index  int     `json:"index"`
	Length int     `json:"length"`
	Groups []Group `json:"groups,omitempty"`
}

func (t *RegexTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params regexInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	re, global, err := CompileRegex(params.Pattern, params.Flags)
	if err != nil {
		return nil, err
	}

	if params.Replace != nil {
		count := 1
		if global {
			count = -1
		}
		out, err := re.Replace(params.Text, *params.Replace, -1, count)
		if err != nil {
			return nil, types.WrapInput(err, "replace failed")
		}
		return types.TextResult(out), nil
	}

	matches, err := FindMatches(re, params.Text, global)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return types.TextResult("No matches").WithFields(map[string]any{"matches": matches}), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d match(es)\n", len(matches))
	for i, m := range matches {
		fmt.Fprintf(&sb, "\n#%d at %d: %q", i+1, m.Index, m.Value)
		for j, g := range m.Groups {
			label := g.Name
			if label == "" {
				label = fmt.Sprint(j + 1)
			}
			if g.Matched {
				fmt.Fprintf(&sb, "\n   %s: %q", label, g.Value)
			} else {
				fmt.Fprintf(&sb, "\n   %s: (no match)", label)
			}
		}
	}
	return types.TextResult(sb.String()).WithFields(map[string]any{"matches": matches}), nil
}

// CompileRegex compiles pattern with JavaScript flags. It reports whether g was set.
func CompileRegex(pattern, flags string) (*regexp2.Regexp, bool, error) {
	if pattern == "" {
		return nil, false, types.InvalidInput("pattern is required")
	}
	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	global := false
	for _, f := range flags {
		switch f {
		case 'g':
			global = true
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 's':
			opts |= regexp2.Singleline
		case 'u', 'y', 'd':
			// accepted for compatibility, no effect
		default:
			return nil, false, types.InvalidInput("unknown flag %q", string(f))
		}
	}
	re, err := regexp2.Compile(pattern, opts)
	if err != nil {
		return nil, false, types.WrapInput(err, "invalid pattern")
	}
	re.MatchTimeout = regexTimeout
	return re, global, nil
}

// FindMatches returns the first match, or every match (up to maxMatches) when global.
func FindMatches(re *regexp2.Regexp, text string, global bool) ([]Match, error) {
	matches := []Match{}
	m, err := re.FindStringMatch(text)
	for m != nil && err == nil {
		matches = append(matches, toMatch(m))
		if !global || len(matches) >= maxMatches {
			break
		}
		m, err = re.FindNextMatch(m)
	}
	if err != nil {
		return nil, types.WrapInput(err, "match failed")
	}
	return matches, nil
}

func toMatch(m *regexp2.Match) Match {
	out := Match{Value: m.String(), Index: m.Index, Length: m.Length}
	groups := m.Groups()
	for _, g := range groups[1:] {
		grp := Group{Name: g.Name, Index: -1}
		if len(g.Captures) > 0 {
			grp.Matched = true
			grp.Value = g.String()
			grp.Index = g.Index
		}
		// numbered groups are named "1", "2", ...
		if isDigits(grp.Name) {
			grp.Name = ""
		}
		out.Groups = append(out.Groups, grp)
	}
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
