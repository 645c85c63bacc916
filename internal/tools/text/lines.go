package text

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

var lineOps = []string{"sort", "sortDesc", "sortNumeric", "unique", "reverse", "shuffle", "trim", "removeEmpty", "number"}

// LinesTool applies an operation to every line of a text
type LinesTool struct {
	toolkit.Info
	shuffle func(n int, swap func(i, j int))
}

// NewLinesTool creates the line-tools tool
func NewLinesTool() *LinesTool {
	return &LinesTool{
		Info: toolkit.NewInfo(
			"line-tools", "Line Tools",
			"Sort, deduplicate, reverse, shuffle, trim or number the lines of a text.",
			types.CategoryText, "sort", "unique", "dedupe", "reverse", "shuffle", "lines",
		),
		shuffle: rand.Shuffle,
	}
}

func (t *LinesTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"text":       toolkit.String("Input text, one item per line"),
		"op":         toolkit.Enum("Operation", lineOps...),
		"ignoreCase": toolkit.Bool("Compare case-insensitively when sorting or deduplicating"),
	}, "text", "op")
}

type linesInput struct {
	Text       string `json:"text"`
	Op         string `json:"op"`
	IgnoreCase bool   `json:"ignoreCase"`
}

func (t *LinesTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params linesInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	if strings.TrimSpace(params.Op) == "" {
		return nil, types.InvalidInput("op is required")
	}
	op, err := toolkit.Mode(params.Op, "", lineOps...)
	if err != nil {
		return nil, err
	}

	lines := SplitLines(params.Text)
	out := t.Apply(op, lines, params.IgnoreCase)
	return types.TextResult(strings.Join(out, "\n")).WithFields(map[string]any{
		"linesIn":  len(lines),
		"linesOut": len(out),
	}), nil
}

// SplitLines splits on \n, dropping \r from CRLF endings. Empty text has no lines.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// Apply runs op over a copy of lines.
func (t *LinesTool) Apply(op string, lines []string, ignoreCase bool) []string {
	out := append([]string(nil), lines...)
	key := func(s string) string {
		if ignoreCase {
			return strings.ToLower(s)
		}
		return s
	}

	switch op {
	case "sort":
		sort.SliceStable(out, func(i, j int) bool { return key(out[i]) < key(out[j]) })
	case "sortDesc":
		sort.SliceStable(out, func(i, j int) bool { return key(out[i]) > key(out[j]) })
	case "sortNumeric":
		sort.SliceStable(out, func(i, j int) bool {
			a, aok := leadingNumber(out[i])
			b, bok := leadingNumber(out[j])
			switch {
			case aok && bok:
				return a < b
			case aok != bok:
				// numbers before text
				return aok
			}
			return key(out[i]) < key(out[j])
		})
	case "unique":
		seen := make(map[string]bool, len(out))
		uniq := out[:0]
		for _, l := range out {
			k := key(l)
			if seen[k] {
				continue
			}
			seen[k] = true
			uniq = append(uniq, l)
		}
		out = uniq
	case "reverse":
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	case "shuffle":
		t.shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	case "trim":
		for i, l := range out {
			out[i] = strings.TrimSpace(l)
		}
	case "removeEmpty":
		kept := out[:0]
		for _, l := range out {
			if strings.TrimSpace(l) != "" {
				kept = append(kept, l)
			}
		}
		out = kept
	case "number":
		width := len(strconv.Itoa(len(out)))
		for i, l := range out {
			out[i] = fmt.Sprintf("%*d. %s", width, i+1, l)
		}
	}
	return out
}

// leadingNumber parses the number a line starts with, e.g. "12.5 kg" -> 12.5.
func leadingNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) {
		c := s[end]
		if (c >= '0' && c <= '9') || c == '.' || ((c == '-' || c == '+') && end == 0) {
			end++
			continue
		}
		break
	}
	for end > 0 {
		if f, err := strconv.ParseFloat(s[:end], 64); err == nil {
			return f, true
		}
		end--
	}
	return 0, false
}
