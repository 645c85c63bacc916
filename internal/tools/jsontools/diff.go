package jsontools

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

// Difference kinds
const (
	DiffAdded   = "added"
	DiffRemoved = "removed"
	DiffChanged = "changed"
	DiffType    = "type"
)

// DiffEntry is one difference between two documents.
type DiffEntry struct {
	Path  string `json:"path"`
	Kind  string `json:"kind"`
	Left  any    `json:"left,omitempty"`
	Right any    `json:"right,omitempty"`
}

// DiffTool compares two JSON documents structurally
type DiffTool struct {
	toolkit.Info
}

// NewDiffTool creates the json-diff tool
func NewDiffTool() *DiffTool {
	return &DiffTool{Info: toolkit.NewInfo(
		"json-diff", "JSON Diff",
		"Compare two JSON documents and list added, removed and changed values by path.",
		types.CategoryJSON, "compare", "difference", "delta", "patch",
	)}
}

func (t *DiffTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"left":  toolkit.String("Original JSON document"),
		"right": toolkit.String("Modified JSON document"),
	}, "left", "right")
}

type diffInput struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

func (t *DiffTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params diffInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	left, err := parseJSON(params.Left)
	if err != nil {
		return nil, types.WrapInput(err, "left")
	}
	right, err := parseJSON(params.Right)
	if err != nil {
		return nil, types.WrapInput(err, "right")
	}

	entries := DiffJSON(left, right)
	if len(entries) == 0 {
		return types.TextResult("No differences").WithFields(map[string]any{"differences": entries}), nil
	}

	counts := map[string]int{}
	var sb strings.Builder
	for _, e := range entries {
		counts[e.Kind]++
		switch e.Kind {
		case DiffAdded:
			fmt.Fprintf(&sb, "+ %s: %s\n", e.Path, compact(e.Right))
		case DiffRemoved:
			fmt.Fprintf(&sb, "- %s: %s\n", e.Path, compact(e.Left))
		default:
			fmt.Fprintf(&sb, "~ %s: %s -> %s\n", e.Path, compact(e.Left), compact(e.Right))
		}
	}
	fmt.Fprintf(&sb, "\n%d differences (%d added, %d removed, %d changed, %d type changes)",
		len(entries), counts[DiffAdded], counts[DiffRemoved], counts[DiffChanged], counts[DiffType])

	return types.TextResult(sb.String()).WithFields(map[string]any{"differences": entries}), nil
}

// DiffJSON walks two decoded documents. Objects are compared by the sorted
// union of their keys, arrays by position.
func DiffJSON(left, right any) []DiffEntry {
	out := []DiffEntry{}
	diffValue("$", left, right, &out)
	return out
}

func diffValue(path string, left, right any, out *[]DiffEntry) {
	lk, rk := kindOf(left), kindOf(right)
	if lk != rk {
		*out = append(*out, DiffEntry{Path: path, Kind: DiffType, Left: left, Right: right})
		return
	}

	switch l := left.(type) {
	case map[string]any:
		r := right.(map[string]any)
		keys := make([]string, 0, len(l)+len(r))
		for k := range l {
			keys = append(keys, k)
		}
		for k := range r {
			if _, ok := l[k]; !ok {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			lv, inLeft := l[k]
			rv, inRight := r[k]
			child := childPath(path, k)
			switch {
			case !inLeft:
				*out = append(*out, DiffEntry{Path: child, Kind: DiffAdded, Right: rv})
			case !inRight:
				*out = append(*out, DiffEntry{Path: child, Kind: DiffRemoved, Left: lv})
			default:
				diffValue(child, lv, rv, out)
			}
		}
	case []any:
		r := right.([]any)
		n := len(l)
		if len(r) > n {
			n = len(r)
		}
		for i := 0; i < n; i++ {
			child := fmt.Sprintf("%s[%d]", path, i)
			switch {
			case i >= len(l):
				*out = append(*out, DiffEntry{Path: child, Kind: DiffAdded, Right: r[i]})
			case i >= len(r):
				*out = append(*out, DiffEntry{Path: child, Kind: DiffRemoved, Left: l[i]})
			default:
				diffValue(child, l[i], r[i], out)
			}
		}
	default:
		if !scalarEqual(left, right) {
			*out = append(*out, DiffEntry{Path: path, Kind: DiffChanged, Left: left, Right: right})
		}
	}
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	default:
		return "number"
	}
}

// scalarEqual compares numbers by value so 1 and 1.0 are equal.
func scalarEqual(a, b any) bool {
	an, aok := a.(json.Number)
	bn, bok := b.(json.Number)
	if aok && bok {
		if an == bn {
			return true
		}
		af, aerr := strconv.ParseFloat(an.String(), 64)
		bf, berr := strconv.ParseFloat(bn.String(), 64)
		return aerr == nil && berr == nil && af == bf
	}
	return a == b
}

var identifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

func childPath(parent, key string) string {
	if identifier.MatchString(key) {
		return parent + "." + key
	}
	quoted, _ := json.Marshal(key)
	return parent + "[" + string(quoted) + "]"
}

func compact(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
