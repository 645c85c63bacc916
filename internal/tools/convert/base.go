package convert

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

// BaseTool converts integers between number bases
type BaseTool struct {
	toolkit.Info
}

// NewBaseTool creates the number-base tool
func NewBaseTool() *BaseTool {
	return &BaseTool{Info: toolkit.NewInfo(
		"number-base", "Number Base Converter",
		"Convert integers of any size between binary, octal, decimal, hexadecimal and any base from 2 to 36.",
		types.CategoryConverters, "binary", "octal", "hex", "decimal", "radix", "base36",
	)}
}

func (t *BaseTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"value": toolkit.String("Integer to convert; 0x, 0o and 0b prefixes are honoured when from is omitted"),
		"from":  toolkit.Integer("Base of value, 2-36. Default: 10, or taken from the prefix"),
		"to":    toolkit.Integer("Extra target base, 2-36"),
	}, "value")
}

type baseInput struct {
	Value string `json:"value"`
	From  int    `json:"from"`
	To    int    `json:"to"`
}

// BaseResult holds the common representations of a number.
type BaseResult struct {
	Binary  string `json:"binary"`
	Octal   string `json:"octal"`
	Decimal string `json:"decimal"`
	Hex     string `json:"hex"`
	Custom  string `json:"custom,omitempty"`
	Base    int    `json:"base,omitempty"`
}

func (t *BaseTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params baseInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	n, err := ParseInt(params.Value, params.From)
	if err != nil {
		return nil, err
	}
	res := BaseResult{
		Binary:  n.Text(2),
		Octal:   n.Text(8),
		Decimal: n.Text(10),
		Hex:     n.Text(16),
	}
	text := fmt.Sprintf("bin: %s\noct: %s\ndec: %s\nhex: %s", res.Binary, res.Octal, res.Decimal, res.Hex)
	if params.To != 0 {
		if err := checkBase(params.To); err != nil {
			return nil, err
		}
		res.Base = params.To
		res.Custom = n.Text(params.To)
		text += fmt.Sprintf("\nbase %d: %s", params.To, res.Custom)
	}
	return types.TextResult(text).WithFields(map[string]any{"result": res}), nil
}

func checkBase(b int) error {
	if b < 2 || b > 36 {
		return types.InvalidInput("base must be between 2 and 36, got %d", b)
	}
	return nil
}

// ParseInt parses s in base. Base 0 means decimal unless s carries a
// 0x/0o/0b prefix. Underscores and spaces are ignored.
func ParseInt(s string, base int) (*big.Int, error) {
	clean := strings.NewReplacer("_", "", " ", "").Replace(strings.TrimSpace(s))
	if clean == "" {
		return nil, types.InvalidInput("value is required")
	}
	neg := false
	if clean[0] == '-' || clean[0] == '+' {
		neg = clean[0] == '-'
		clean = clean[1:]
	}
	if base == 0 {
		base = 10
		lower := strings.ToLower(clean)
		for prefix, b := range map[string]int{"0x": 16, "0o": 8, "0b": 2} {
			if strings.HasPrefix(lower, prefix) && len(clean) > 2 {
				base, clean = b, clean[2:]
				break
			}
		}
	} else if err := checkBase(base); err != nil {
		return nil, err
	}
	n, ok := new(big.Int).SetString(clean, base)
	if !ok {
		return nil, types.InvalidInput("%q is not a valid base-%d number", s, base)
	}
	if neg {
		n.Neg(n)
	}
	return n, nil
}
