package text

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

const (
	// maxLCSCells bounds the exact LCS table (left lines x right lines after
	// trimming the common prefix and suffix). Larger inputs use difflib's matcher.
	maxLCSCells = 2_000_000
	// maxDiffLines bounds the combined input.
	maxDiffLines = 200_000
)

// Diff operations
const (
	OpEqual  = "equal"
	OpInsert = "insert"
	OpDelete = "delete"
)

// DiffLine is one line of a line-based diff. Line numbers are 1-based; 0 means absent.
type DiffLine struct {
	Op      string `json:"op"`
	OldLine int    `json:"oldLine,omitempty"`
	NewLine int    `json:"newLine,omitempty"`
	Text    string `json:"text"`
}

// DiffTool compares two texts line by line
type DiffTool struct {
	toolkit.Info
}

// NewDiffTool creates the text-diff tool
func NewDiffTool() *DiffTool {
	return &DiffTool{Info: toolkit.NewInfo(
		"text-diff", "Text Diff",
		"Compare two texts line by line and show insertions and deletions, or a unified diff.",
		types.CategoryText, "compare", "difference", "patch", "unified",
	)}
}

func (t *DiffTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"left":   toolkit.String("Original text"),
		"right":  toolkit.String("Modified text"),
		"format": toolkit.Enum("Output format. Default: lines", "lines", "unified"),
	}, "left", "right")
}

type textDiffInput struct {
	Left   string `json:"left"`
	Right  string `json:"right"`
	Format string `json:"format"`
}

func (t *DiffTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params textDiffInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	format, err := toolkit.Mode(params.Format, "lines", "lines", "unified")
	if err != nil {
		return nil, err
	}

	a, b := SplitLines(params.Left), SplitLines(params.Right)
	if len(a)+len(b) > maxDiffLines {
		return nil, types.InvalidInput("texts are too large to diff (%d + %d lines, limit %d)", len(a), len(b), maxDiffLines)
	}
	lines := DiffLines(a, b)

	summary := map[string]int{OpEqual: 0, OpInsert: 0, OpDelete: 0}
	for _, l := range lines {
		summary[l.Op]++
	}
	fields := map[string]any{
		"lines":      lines,
		"equal":      summary[OpEqual],
		"insertions": summary[OpInsert],
		"deletions":  summary[OpDelete],
	}
	if summary[OpInsert] == 0 && summary[OpDelete] == 0 {
		return types.TextResult("No differences").WithFields(fields), nil
	}

	if format == "unified" {
		out, err := UnifiedDiff(params.Left, params.Right)
		if err != nil {
			return nil, err
		}
		return types.TextResult(strings.TrimRight(out, "\n")).WithFields(fields), nil
	}

	var sb strings.Builder
	for _, l := range lines {
		switch l.Op {
		case OpInsert:
			fmt.Fprintf(&sb, "+ %s\n", l.Text)
		case OpDelete:
			fmt.Fprintf(&sb, "- %s\n", l.Text)
		default:
			fmt.Fprintf(&sb, "  %s\n", l.Text)
		}
	}
	fmt.Fprintf(&sb, "\n%d insertions, %d deletions, %d unchanged",
		summary[OpInsert], summary[OpDelete], summary[OpEqual])
	return types.TextResult(sb.String()).WithFields(fields), nil
}

// DiffLines computes a line diff of a and b. Deletions are emitted before
// insertions at each change. The middle section left after removing the common
// prefix and suffix is diffed by longest common subsequence when small enough,
// otherwise by difflib's sequence matcher.
func DiffLines(a, b []string) []DiffLine {
	pre := 0
	for pre < len(a) && pre < len(b) && a[pre] == b[pre] {
		pre++
	}
	suf := 0
	for suf < len(a)-pre && suf < len(b)-pre && a[len(a)-1-suf] == b[len(b)-1-suf] {
		suf++
	}

	out := make([]DiffLine, 0, len(a)+len(b))
	for i := 0; i < pre; i++ {
		out = append(out, DiffLine{Op: OpEqual, OldLine: i + 1, NewLine: i + 1, Text: a[i]})
	}
	midA, midB := a[pre:len(a)-suf], b[pre:len(b)-suf]
	if len(midA)*len(midB) <= maxLCSCells {
		out = lcsDiff(out, midA, midB, pre)
	} else {
		out = matcherDiff(out, midA, midB, pre)
	}
	for k := 0; k < suf; k++ {
		i, j := len(a)-suf+k, len(b)-suf+k
		out = append(out, DiffLine{Op: OpEqual, OldLine: i + 1, NewLine: j + 1, Text: a[i]})
	}
	return out
}

// lcsDiff appends the LCS diff of a and b; offset is their position in the full texts.
func lcsDiff(out []DiffLine, a, b []string, offset int) []DiffLine {
	n, m := len(a), len(b)
	// lcs[i][j] = LCS length of a[i:] and b[j:]
	lcs := make([][]int32, n+1)
	for i := range lcs {
		lcs[i] = make([]int32, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	i, j := 0, 0
	for i < n && j < m {
		switch {
		case a[i] == b[j]:
			out = append(out, DiffLine{Op: OpEqual, OldLine: offset + i + 1, NewLine: offset + j + 1, Text: a[i]})
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			out = append(out, DiffLine{Op: OpDelete, OldLine: offset + i + 1, Text: a[i]})
			i++
		default:
			out = append(out, DiffLine{Op: OpInsert, NewLine: offset + j + 1, Text: b[j]})
			j++
		}
	}
	for ; i < n; i++ {
		out = append(out, DiffLine{Op: OpDelete, OldLine: offset + i + 1, Text: a[i]})
	}
	for ; j < m; j++ {
		out = append(out, DiffLine{Op: OpInsert, NewLine: offset + j + 1, Text: b[j]})
	}
	return out
}

// matcherDiff appends the diff of a and b from difflib's opcodes.
func matcherDiff(out []DiffLine, a, b []string, offset int) []DiffLine {
	for _, op := range difflib.NewMatcher(a, b).GetOpCodes() {
		if op.Tag == 'e' {
			for k := 0; k < op.I2-op.I1; k++ {
				i, j := op.I1+k, op.J1+k
				out = append(out, DiffLine{Op: OpEqual, OldLine: offset + i + 1, NewLine: offset + j + 1, Text: a[i]})
			}
			continue
		}
		for i := op.I1; i < op.I2; i++ {
			out = append(out, DiffLine{Op: OpDelete, OldLine: offset + i + 1, Text: a[i]})
		}
		for j := op.J1; j < op.J2; j++ {
			out = append(out, DiffLine{Op: OpInsert, NewLine: offset + j + 1, Text: b[j]})
		}
	}
	return out
}

// UnifiedDiff renders a unified diff with three lines of context.
func UnifiedDiff(left, right string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(left),
		B:        difflib.SplitLines(right),
		FromFile: "left",
		ToFile:   "right",
		Context:  3,
	}
	out, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("failed to build unified diff: %w", err)
	}
	return out, nil
}
