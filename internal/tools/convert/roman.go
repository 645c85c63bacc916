package convert

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

var romanNumerals = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// RomanTool converts between integers and roman numerals
type RomanTool struct {
	toolkit.Info
}

// NewRomanTool creates the roman tool
func NewRomanTool() *RomanTool {
	return &RomanTool{Info: toolkit.NewInfo(
		"roman", "Roman Numeral Converter",
		"Convert numbers from 1 to 3999 to roman numerals and back.",
		types.CategoryConverters, "numeral", "latin", "mcmxc",
	)}
}

func (t *RomanTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"value": toolkit.String("A number (1-3999) or a roman numeral; the direction is detected"),
	}, "value")
}

type romanInput struct {
	Value json.RawMessage `json:"value"`
}

func (t *RomanTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params romanInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	var value string
	if err := json.Unmarshal(params.Value, &value); err != nil {
		value = string(params.Value)
	}
	value = strings.TrimSpace(value)
	if value == "" || value == "null" {
		return nil, types.InvalidInput("value is required")
	}

	if n, err := strconv.Atoi(value); err == nil {
		roman, err := ToRoman(n)
		if err != nil {
			return nil, err
		}
		return types.TextResult(roman).WithFields(map[string]any{"roman": roman, "number": n}), nil
	}
	n, err := FromRoman(value)
	if err != nil {
		return nil, err
	}
	return types.TextResult(strconv.Itoa(n)).WithFields(map[string]any{"roman": strings.ToUpper(value), "number": n}), nil
}

// ToRoman formats n (1-3999) in standard subtractive notation.
func ToRoman(n int) (string, error) {
	if n < 1 || n > 3999 {
		return "", types.InvalidInput("roman numerals cover 1 to 3999, got %d", n)
	}
	var sb strings.Builder
	for _, r := range romanNumerals {
		for n >= r.value {
			sb.WriteString(r.symbol)
			n -= r.value
		}
	}
	return sb.String(), nil
}

// FromRoman parses a numeral. Non-canonical forms such as IIII or IC are rejected.
func FromRoman(s string) (int, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	total, i := 0, 0
	for _, r := range romanNumerals {
		for strings.HasPrefix(upper[i:], r.symbol) {
			total += r.value
			i += len(r.symbol)
		}
	}
	if i != len(upper) || total == 0 {
		return 0, types.InvalidInput("%q is not a valid roman numeral", s)
	}
	// round-trip rejects repeats like IIII or VV
	if canonical, err := ToRoman(total); err != nil || canonical != upper {
		return 0, types.InvalidInput("%q is not a valid roman numeral", s)
	}
	return total, nil
}
